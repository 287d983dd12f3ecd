package lsp

import (
	"context"
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jreflect/reflector"
)

func newTestServer() *Server {
	r := reflector.New(reflector.Config{Classpath: "."}, reflector.ListingDir{Dir: "../decl/testdata/listings"})
	return NewServer(r, 1, "test")
}

const declText = `packages:
  - name: a.b
    classes:
      - Foo
      - Bar
selectors:
  - a.b.Foo::name
  - com.example.Overloads
`

func TestCheckSelectors(t *testing.T) {
	s := newTestServer()
	doc := s.check(context.Background(), "file:///work/decl.yaml", declText)

	if len(doc.diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d: %+v", len(doc.diagnostics), doc.diagnostics)
	}
	d := doc.diagnostics[0]
	if !strings.Contains(d.Message, "2 constructors found") {
		t.Errorf("Message = %q", d.Message)
	}
	want := protocol.Range{
		Start: protocol.Position{Line: 7, Character: 4},
		End:   protocol.Position{Line: 7, Character: 25},
	}
	if d.Range != want {
		t.Errorf("Range = %+v, want %+v", d.Range, want)
	}
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Error("Expected error severity")
	}
}

func TestCheckHover(t *testing.T) {
	s := newTestServer()
	doc := s.check(context.Background(), "file:///work/decl.yaml", declText)

	tests := []struct {
		name string
		pos  protocol.Position
		want string
	}{
		{name: "selector", pos: protocol.Position{Line: 6, Character: 10}, want: "a.b.Foo::java.lang.String name()"},
		{name: "class", pos: protocol.Position{Line: 3, Character: 9}, want: "public class a.b.Foo {"},
		{name: "nothing", pos: protocol.Position{Line: 0, Character: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := doc.hover(tt.pos)
			if tt.want == "" {
				if h != nil {
					t.Errorf("Expected no hover, got %+v", h)
				}
				return
			}
			if h == nil {
				t.Fatal("Expected hover text")
			}
			content, ok := h.Contents.(protocol.MarkupContent)
			if !ok {
				t.Fatalf("Contents is %T", h.Contents)
			}
			if !strings.Contains(content.Value, tt.want) {
				t.Errorf("Hover = %q, want it to contain %q", content.Value, tt.want)
			}
		})
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		line  protocol.UInteger
		start protocol.UInteger
		end   protocol.UInteger
		msg   string
	}{
		{
			name:  "package mismatch",
			text:  "packages:\n  - name: a\n    classes:\n      - b.Foo\n",
			line:  3,
			start: 8,
			end:   13,
			msg:   "expected to be in package `a`",
		},
		{
			name:  "missing class",
			text:  "packages:\n  - name: a.b\n    classes:\n      - Nope # gone\n",
			line:  3,
			start: 8,
			end:   12,
			msg:   "class not found",
		},
		{
			name:  "bad yaml",
			text:  "packages: [\n",
			line:  0,
			start: 0,
			end:   0,
			msg:   "decl.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newTestServer().check(context.Background(), "file:///work/decl.yaml", tt.text)
			if len(doc.diagnostics) != 1 {
				t.Fatalf("Expected 1 diagnostic, got %+v", doc.diagnostics)
			}
			d := doc.diagnostics[0]
			if !strings.Contains(d.Message, tt.msg) {
				t.Errorf("Message = %q, want it to contain %q", d.Message, tt.msg)
			}
			if d.Range.Start.Line != tt.line || d.Range.Start.Character != tt.start || d.Range.End.Character != tt.end {
				t.Errorf("Range = %+v, want line %d chars %d-%d", d.Range, tt.line, tt.start, tt.end)
			}
		})
	}
}

func TestURIToPath(t *testing.T) {
	if got := uriToPath("file:///work/decl%20x.yaml"); got != "/work/decl x.yaml" {
		t.Errorf("uriToPath() = %q", got)
	}
	if got := uriToPath("untitled:1"); got != "untitled:1" {
		t.Errorf("uriToPath() = %q", got)
	}
}
