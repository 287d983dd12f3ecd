package reflector

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/signature"
)

// countingTool wraps a disassembler and records every invocation.
type countingTool struct {
	inner Disassembler
	calls atomic.Int64

	mu      sync.Mutex
	classes []string
}

func (c *countingTool) Disassemble(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.classes = append(c.classes, class.String())
	c.mu.Unlock()
	return c.inner.Disassemble(ctx, classpath, class)
}

func testConfig() Config {
	return Config{Classpath: "testdata"}
}

func spanAt(line, col int) diag.Span {
	return diag.At(diag.Position{File: "decl.yaml", Line: line, Column: col})
}

func newTestReflector() (*Reflector, *countingTool) {
	tool := &countingTool{inner: ListingDir{Dir: "testdata"}}
	return New(testConfig(), tool), tool
}

func TestReflectCachesResult(t *testing.T) {
	r, tool := newTestReflector()
	ctx := context.Background()
	name := signature.MustParseQualifiedName("com.example.Identity")

	first, err := r.Reflect(ctx, name, spanAt(3, 5))
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}
	second, err := r.Reflect(ctx, name, spanAt(9, 1))
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}

	if first != second {
		t.Error("Expected the cached ClassInfo pointer to be returned")
	}
	if got := tool.calls.Load(); got != 1 {
		t.Errorf("Disassembler called %d times, want 1", got)
	}
	if got := r.Invocations(); got != 1 {
		t.Errorf("Invocations() = %d, want 1", got)
	}
	if !first.Span.IsZero() {
		t.Errorf("Cached Span = %v, want zero", first.Span)
	}
	if len(first.Methods) != 8 {
		t.Errorf("Expected 8 methods, got %d", len(first.Methods))
	}
	if cached, ok := r.Cached(name); !ok || cached != first {
		t.Error("Cached() did not return the reflected class")
	}
}

func TestReflectWithoutClasspath(t *testing.T) {
	tool := &countingTool{inner: ListingDir{Dir: "testdata"}}
	r := New(Config{}, tool)
	span := spanAt(2, 7)

	_, err := r.Reflect(context.Background(), signature.MustParseQualifiedName("com.example.Identity"), span)

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *ConfigurationError, got %T: %v", err, err)
	}
	if cfgErr.Location() != span {
		t.Errorf("Location() = %v, want %v", cfgErr.Location(), span)
	}
	if got := tool.calls.Load(); got != 0 {
		t.Errorf("Disassembler called %d times, want 0", got)
	}
	if !strings.Contains(err.Error(), EnvClasspath) {
		t.Errorf("Error %q should mention $%s", err, EnvClasspath)
	}
}

var errBackend = errors.New("listing store unavailable")

func TestReflectErrors(t *testing.T) {
	failing := DisassemblerFunc(func(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
		return nil, &ToolFailureError{Command: "javap", ExitCode: 1, Stderr: "error: class not found: " + class.String()}
	})
	unstartable := DisassemblerFunc(func(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
		return nil, &ToolInvocationError{Command: "javap", Err: errors.New("executable file not found")}
	})
	garbage := DisassemblerFunc(func(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
		return []byte("public class a.B {\n  \xff\xfe\n}\n"), nil
	})
	plain := DisassemblerFunc(func(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
		return nil, errBackend
	})
	unparsable := DisassemblerFunc(func(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
		return []byte("public class a.B {\n  this is not a member\n}\n"), nil
	})

	tests := []struct {
		name  string
		tool  Disassembler
		check func(t *testing.T, err error)
	}{
		{
			name: "tool failure",
			tool: failing,
			check: func(t *testing.T, err error) {
				var e *ToolFailureError
				if !errors.As(err, &e) {
					t.Fatalf("Expected *ToolFailureError, got %T", err)
				}
				if e.ExitCode != 1 || !strings.Contains(e.Stderr, "class not found") {
					t.Errorf("Unexpected failure details: %+v", e)
				}
			},
		},
		{
			name: "tool invocation",
			tool: unstartable,
			check: func(t *testing.T, err error) {
				var e *ToolInvocationError
				if !errors.As(err, &e) {
					t.Fatalf("Expected *ToolInvocationError, got %T", err)
				}
			},
		},
		{
			name: "plain backend error",
			tool: plain,
			check: func(t *testing.T, err error) {
				var e *ToolInvocationError
				if !errors.As(err, &e) {
					t.Fatalf("Expected *ToolInvocationError, got %T", err)
				}
				if !errors.Is(err, errBackend) {
					t.Errorf("Expected the backend error to be wrapped, got %v", err)
				}
			},
		},
		{
			name: "output decoding",
			tool: garbage,
			check: func(t *testing.T, err error) {
				var e *OutputDecodingError
				if !errors.As(err, &e) {
					t.Fatalf("Expected *OutputDecodingError, got %T", err)
				}
				if e.Offset != 21 {
					t.Errorf("Offset = %d, want 21", e.Offset)
				}
			},
		},
		{
			name: "parse",
			tool: unparsable,
			check: func(t *testing.T, err error) {
				var e *ParseError
				if !errors.As(err, &e) {
					t.Fatalf("Expected *ParseError, got %T", err)
				}
				var syn *signature.SyntaxError
				if !errors.As(err, &syn) {
					t.Fatal("Expected ParseError to wrap *signature.SyntaxError")
				}
				if syn.Pos.Line != 2 {
					t.Errorf("SyntaxError line = %d, want 2", syn.Pos.Line)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(testConfig(), tt.tool)
			span := spanAt(4, 9)

			info, err := r.Reflect(context.Background(), signature.MustParseQualifiedName("a.B"), span)
			if err == nil {
				t.Fatalf("Expected error, got %v", info)
			}
			tt.check(t, err)
			if got := locationOf(err); got != span {
				t.Errorf("SpanOf(err) = %v, want %v", got, span)
			}
			if r.Len() != 0 {
				t.Errorf("Failed reflection should not be cached, Len() = %d", r.Len())
			}
		})
	}
}

func TestReflectErrorsUseRequestSpan(t *testing.T) {
	tool := DisassemblerFunc(func(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
		return nil, &ToolFailureError{Command: "javap", ExitCode: 1}
	})
	r := New(testConfig(), tool)
	name := signature.MustParseQualifiedName("a.Missing")

	for _, span := range []diag.Span{spanAt(1, 1), spanAt(7, 3)} {
		_, err := r.Reflect(context.Background(), name, span)
		if got := locationOf(err); got != span {
			t.Errorf("SpanOf(err) = %v, want %v", got, span)
		}
	}
}

func TestReflectConcurrentRequestsShareOneInvocation(t *testing.T) {
	const workers = 8

	release := make(chan struct{})
	tool := &countingTool{inner: DisassemblerFunc(func(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
		<-release
		return ListingDir{Dir: "testdata"}.Disassemble(ctx, classpath, class)
	})}
	r := New(testConfig(), tool)
	name := signature.MustParseQualifiedName("com.example.Box")

	// The tool is held until every worker has missed the cache, so none
	// of them can be served by a finished first request.
	var missed sync.WaitGroup
	missed.Add(workers)
	r.onMiss = func(string) { missed.Done() }

	results := make([]*signature.ClassInfo, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = r.Reflect(context.Background(), name, diag.Span{})
		}()
	}
	missed.Wait()
	close(release)
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Errorf("worker %d got a different ClassInfo", i)
		}
	}
	if got := tool.calls.Load(); got != 1 {
		t.Errorf("Disassembler called %d times, want 1", got)
	}
}

func TestReflectAliasesHeaderName(t *testing.T) {
	tool := &countingTool{inner: DisassemblerFunc(func(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
		return []byte("public class com.example.Outer$Inner {\n  public com.example.Outer$Inner();\n}\n"), nil
	})}
	r := New(testConfig(), tool)

	requested := signature.MustParseQualifiedName("com.example.Inner")
	info, err := r.Reflect(context.Background(), requested, diag.Span{})
	if err != nil {
		t.Fatalf("Reflect() error = %v", err)
	}
	header, ok := r.Cached(info.Name)
	if !ok || header != info {
		t.Errorf("Expected %s to be cached under its header name", info.Name)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestPrefetch(t *testing.T) {
	r, tool := newTestReflector()
	var reqs []Request
	for _, name := range []string{"com.example.Identity", "com.example.Box", "com.example.Shape", "com.example.Box"} {
		reqs = append(reqs, Request{Name: signature.MustParseQualifiedName(name)})
	}

	if err := r.Prefetch(context.Background(), reqs, 2); err != nil {
		t.Fatalf("Prefetch() error = %v", err)
	}
	if got := tool.calls.Load(); got != 3 {
		t.Errorf("Disassembler called %d times, want 3", got)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestPrefetchReportsFailure(t *testing.T) {
	r, _ := newTestReflector()
	span := spanAt(12, 7)
	reqs := []Request{
		{Name: signature.MustParseQualifiedName("com.example.Identity"), Span: spanAt(11, 7)},
		{Name: signature.MustParseQualifiedName("com.example.Missing"), Span: span},
	}

	err := r.Prefetch(context.Background(), reqs, 0)
	var e *ToolFailureError
	if !errors.As(err, &e) {
		t.Fatalf("Expected *ToolFailureError, got %T: %v", err, err)
	}
	if e.Location() != span {
		t.Errorf("Location() = %v, want %v", e.Location(), span)
	}
}

func locationOf(err error) diag.Span {
	span, _ := diag.SpanOf(err)
	return span
}
