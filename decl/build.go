package decl

import (
	"context"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/reflector"
	"github.com/dhamidi/jreflect/signature"
)

var log = commonlog.GetLogger("jreflect.decl")

// PackageInfo is one node of the package tree. Classes lists the classes
// declared directly in this package, in declaration order.
type PackageInfo struct {
	Name        string
	Span        diag.Span
	Subpackages map[string]*PackageInfo
	Classes     []signature.QualifiedName
}

func newPackageInfo(name string, span diag.Span) *PackageInfo {
	return &PackageInfo{Name: name, Span: span, Subpackages: make(map[string]*PackageInfo)}
}

// SubpackageNames returns the names of p's direct subpackages in order.
func (p *PackageInfo) SubpackageNames() []string {
	return sortedKeys(p.Subpackages)
}

// RootMap is the result of building a declaration: the package tree and a
// flat index of every class in it. It is not modified after Build returns.
type RootMap struct {
	Subpackages map[string]*PackageInfo
	Classes     map[string]*signature.ClassInfo
}

// Lookup returns the declared class called name.
func (m *RootMap) Lookup(name signature.QualifiedName) (*signature.ClassInfo, bool) {
	info, ok := m.Classes[name.String()]
	return info, ok
}

// Package returns the node for a dotted package path such as "java.util".
func (m *RootMap) Package(path string) (*PackageInfo, bool) {
	if path == "" {
		return nil, false
	}
	nodes := m.Subpackages
	var pkg *PackageInfo
	for _, seg := range strings.Split(path, ".") {
		next, ok := nodes[seg]
		if !ok {
			return nil, false
		}
		pkg = next
		nodes = next.Subpackages
	}
	return pkg, true
}

// ClassNames returns every declared class name in sorted order. The names
// are the keys of Classes, which may differ from the header name a class
// was reflected under.
func (m *RootMap) ClassNames() []signature.QualifiedName {
	names := make([]signature.QualifiedName, 0, len(m.Classes))
	m.Walk(func(_ []string, pkg *PackageInfo) error {
		names = append(names, pkg.Classes...)
		return nil
	})
	slices.SortFunc(names, signature.QualifiedName.Compare)
	return names
}

// PackageNames returns the names of the root packages in order.
func (m *RootMap) PackageNames() []string {
	return sortedKeys(m.Subpackages)
}

// Walk visits every package depth-first in name order. path holds the
// segments of the visited package.
func (m *RootMap) Walk(fn func(path []string, pkg *PackageInfo) error) error {
	return walk(nil, m.Subpackages, fn)
}

func walk(prefix []string, nodes map[string]*PackageInfo, fn func([]string, *PackageInfo) error) error {
	for _, name := range sortedKeys(nodes) {
		pkg := nodes[name]
		path := append(slices.Clone(prefix), name)
		if err := fn(path, pkg); err != nil {
			return err
		}
		if err := walk(path, pkg.Subpackages, fn); err != nil {
			return err
		}
	}
	return nil
}

// WithFallback returns a class source that prefers declared classes and
// reflects anything else through fallback. Resolving selectors against it
// lets a specified class narrow an overloaded one down to a single member.
func (m *RootMap) WithFallback(fallback reflector.ClassLookup) *ClassSource {
	return &ClassSource{root: m, fallback: fallback}
}

type ClassSource struct {
	root     *RootMap
	fallback reflector.ClassLookup
}

func (s *ClassSource) Reflect(ctx context.Context, name signature.QualifiedName, span diag.Span) (*signature.ClassInfo, error) {
	if info, ok := s.root.Lookup(name); ok {
		return info, nil
	}
	if s.fallback == nil {
		return nil, &UndeclaredClassError{Span: span, Class: name}
	}
	return s.fallback.Reflect(ctx, name, span)
}

// Prefetcher is implemented by class lookups that can reflect many classes
// at once, such as *reflector.Reflector.
type Prefetcher interface {
	Prefetch(ctx context.Context, reqs []reflector.Request, jobs int) error
}

type Option func(*Builder)

// WithJobs reflects the declared classes with up to n goroutines before
// the tree is assembled. n <= 1 reflects them one at a time in declaration
// order.
func WithJobs(n int) Option {
	return func(b *Builder) {
		b.jobs = n
	}
}

type Builder struct {
	classes reflector.ClassLookup
	jobs    int
}

func NewBuilder(classes reflector.ClassLookup, opts ...Option) *Builder {
	b := &Builder{classes: classes}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build is shorthand for NewBuilder(classes, opts...).Build(ctx, d).
func Build(ctx context.Context, d *Declaration, classes reflector.ClassLookup, opts ...Option) (*RootMap, error) {
	return NewBuilder(classes, opts...).Build(ctx, d)
}

// entry is a class declaration with its name already qualified.
type entry struct {
	pkg  *PackageDecl
	decl *ClassDecl
	name signature.QualifiedName
}

// Build resolves every class in d and returns the assembled tree. The first
// error aborts the build.
func (b *Builder) Build(ctx context.Context, d *Declaration) (*RootMap, error) {
	entries, err := qualifyAll(d)
	if err != nil {
		return nil, err
	}

	if b.jobs > 1 {
		if err := b.prefetch(ctx, entries); err != nil {
			return nil, err
		}
	}

	root := &RootMap{
		Subpackages: make(map[string]*PackageInfo),
		Classes:     make(map[string]*signature.ClassInfo),
	}
	origins := make(map[string]diag.Span)
	for _, e := range entries {
		info, err := b.resolve(ctx, e)
		if err != nil {
			return nil, err
		}

		key := e.name.String()
		pkg := packageFor(root, e.pkg)
		if prev, ok := root.Classes[key]; ok {
			if prev != info && !(e.decl.IsSpecified() && sameDeclaration(prev, info)) {
				return nil, &DuplicateClassError{Span: e.decl.Span, Class: e.name, Previous: origins[key]}
			}
			if !slices.ContainsFunc(pkg.Classes, e.name.Equal) {
				pkg.Classes = append(pkg.Classes, e.name)
			}
			continue
		}

		root.Classes[key] = info
		origins[key] = e.decl.Span
		pkg.Classes = append(pkg.Classes, e.name)
	}

	log.Infof("built %d classes in %d root packages", len(root.Classes), len(root.Subpackages))
	return root, nil
}

func qualifyAll(d *Declaration) ([]entry, error) {
	var entries []entry
	for i := range d.Packages {
		pkg := &d.Packages[i]
		if len(pkg.Name) == 0 {
			return nil, &LoadError{Span: pkg.Span, Msg: "package name is empty"}
		}
		for j := range pkg.Classes {
			c := &pkg.Classes[j]
			name, err := qualify(pkg, c)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry{pkg: pkg, decl: c, name: name})
		}
	}
	return entries, nil
}

// qualify places a class written without a package into the enclosing one
// and checks that an explicitly written package matches it.
func qualify(pkg *PackageDecl, c *ClassDecl) (signature.QualifiedName, error) {
	written, err := signature.ParseQualifiedName(c.Name)
	if err != nil {
		return signature.QualifiedName{}, &LoadError{Span: c.Span, Msg: err.Error()}
	}
	if len(written.Package) == 0 {
		return signature.NewQualifiedName(pkg.Name, written.Class), nil
	}
	if !slices.Equal(written.Package, pkg.Name) {
		return signature.QualifiedName{}, &PackageMismatchError{Span: c.Span, Class: c.Name, Package: pkg.String()}
	}
	return written, nil
}

func (b *Builder) prefetch(ctx context.Context, entries []entry) error {
	p, ok := b.classes.(Prefetcher)
	if !ok {
		return nil
	}
	var reqs []reflector.Request
	for _, e := range entries {
		if !e.decl.IsSpecified() {
			reqs = append(reqs, reflector.Request{Name: e.name, Span: e.decl.Span})
		}
	}
	log.Debugf("prefetching %d classes with %d jobs", len(reqs), b.jobs)
	return p.Prefetch(ctx, reqs, b.jobs)
}

func (b *Builder) resolve(ctx context.Context, e entry) (*signature.ClassInfo, error) {
	if e.decl.IsSpecified() {
		info := *e.decl.Specified
		info.Name = e.name
		info.Span = e.decl.Span
		return &info, nil
	}
	return b.classes.Reflect(ctx, e.name, e.decl.Span)
}

// sameDeclaration reports whether a repeated specified class only differs
// from the first one in where it was declared.
func sameDeclaration(first, again *signature.ClassInfo) bool {
	c := *again
	c.Span = first.Span
	return reflect.DeepEqual(first, &c)
}

// packageFor returns the tree node for pkg, creating missing nodes. A
// package declared again reuses the node of its first declaration.
func packageFor(root *RootMap, pkg *PackageDecl) *PackageInfo {
	nodes := root.Subpackages
	var node *PackageInfo
	for _, seg := range pkg.Name {
		next, ok := nodes[seg]
		if !ok {
			next = newPackageInfo(seg, pkg.Span)
			nodes[seg] = next
		}
		node = next
		nodes = next.Subpackages
	}
	return node
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
