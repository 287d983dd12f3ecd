// Package reflector turns class names into signature models by running a
// disassembler, and resolves method selectors against them.
package reflector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/signature"
)

var log = commonlog.GetLogger("jreflect.reflector")

// Reflector caches reflected classes for the lifetime of a run. The
// disassembler runs at most once per qualified name, including when several
// goroutines ask for the same class at the same time.
type Reflector struct {
	cfg  Config
	tool Disassembler

	mu      sync.RWMutex
	classes map[string]*signature.ClassInfo

	inflight    singleflight.Group
	invocations atomic.Int64

	// onMiss runs after a cache miss, before the in-flight guard.
	onMiss func(key string)
}

func New(cfg Config, tool Disassembler) *Reflector {
	if tool == nil {
		tool = NewJavap(cfg.JavapPath())
	}
	return &Reflector{
		cfg:     cfg,
		tool:    tool,
		classes: make(map[string]*signature.ClassInfo),
	}
}

// Reflect returns the (potentially cached) model of name. span is the
// declaration or selector asking for it; every error points there.
func (r *Reflector) Reflect(ctx context.Context, name signature.QualifiedName, span diag.Span) (*signature.ClassInfo, error) {
	key := name.String()
	if info, ok := r.lookup(key); ok {
		return info, nil
	}
	if r.onMiss != nil {
		r.onMiss(key)
	}

	classpath, err := r.cfg.SearchPath()
	if err != nil {
		return nil, &ConfigurationError{Span: span, Err: err}
	}
	if classpath == "" {
		return nil, &ConfigurationError{Span: span}
	}

	v, err, shared := r.inflight.Do(key, func() (any, error) {
		if info, ok := r.lookup(key); ok {
			return info, nil
		}
		info, err := r.load(ctx, classpath, name)
		if err != nil {
			return nil, err
		}
		r.store(key, info)
		return info, nil
	})
	if err != nil {
		log.Debugf("reflect %s failed (shared=%t): %v", key, shared, err)
		return nil, attribute(err, span)
	}
	return v.(*signature.ClassInfo), nil
}

func (r *Reflector) load(ctx context.Context, classpath string, name signature.QualifiedName) (*signature.ClassInfo, error) {
	r.invocations.Add(1)
	log.Infof("reflecting %s", name)

	out, err := r.tool.Disassemble(ctx, classpath, name)
	if err != nil {
		if _, ok := err.(respanner); ok {
			return nil, err
		}
		return nil, &ToolInvocationError{Command: r.describe(classpath, name), Err: err}
	}
	if !utf8.Valid(out) {
		return nil, &OutputDecodingError{Command: r.describe(classpath, name), Offset: firstInvalidByte(out)}
	}

	info, err := signature.ParseString(string(out), signature.WithFile("javap:"+name.String()))
	if err != nil {
		syn, ok := err.(*signature.SyntaxError)
		if !ok {
			return nil, fmt.Errorf("read listing of %s: %w", name, err)
		}
		return nil, &ParseError{Class: name, Err: syn}
	}

	// Cached data is shared by every later request, so it must not point
	// at the declaration that happened to load it.
	info.Span = diag.Span{}
	return info, nil
}

func (r *Reflector) describe(classpath string, name signature.QualifiedName) string {
	if j, ok := r.tool.(*Javap); ok {
		return j.Path + " " + strings.Join(j.Args(classpath, name), " ")
	}
	return fmt.Sprintf("disassemble %s", name)
}

func (r *Reflector) lookup(key string) (*signature.ClassInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.classes[key]
	return info, ok
}

// store caches info under the requested key and, when javap reports a
// different spelling in the header, under that name too.
func (r *Reflector) store(key string, info *signature.ClassInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[key] = info
	if header := info.Name.String(); header != key {
		if _, ok := r.classes[header]; !ok {
			r.classes[header] = info
		}
	}
}

// Cached returns the model of name without reflecting.
func (r *Reflector) Cached(name signature.QualifiedName) (*signature.ClassInfo, bool) {
	return r.lookup(name.String())
}

// Len reports the number of cache entries.
func (r *Reflector) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// Invocations reports how many times the disassembler has been run.
func (r *Reflector) Invocations() int {
	return int(r.invocations.Load())
}

// Request names a class together with the location that asked for it.
type Request struct {
	Name signature.QualifiedName
	Span diag.Span
}

// Prefetch reflects every request using up to jobs goroutines (unlimited
// when jobs <= 0). The first failure cancels the remaining work and is
// returned.
func (r *Reflector) Prefetch(ctx context.Context, reqs []Request, jobs int) error {
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for _, req := range reqs {
		req := req
		g.Go(func() error {
			_, err := r.Reflect(gctx, req.Name, req.Span)
			return err
		})
	}
	return g.Wait()
}

func firstInvalidByte(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}
