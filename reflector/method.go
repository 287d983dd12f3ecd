package reflector

import (
	"context"
	"fmt"
	"strings"

	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/signature"
)

// ConstructorName is the name reported for constructors, matching the JVM's
// internal name.
const ConstructorName = "<init>"

// MethodSelector names a class and, optionally, one of its methods. Without
// a method it selects the class's constructor.
type MethodSelector struct {
	Class  signature.QualifiedName
	Method string
	Span   diag.Span
}

// ParseMethodSelector reads "pkg.Class" or "pkg.Class::method".
func ParseMethodSelector(s string, span diag.Span) (MethodSelector, error) {
	classPart, method, hasMethod := strings.Cut(strings.TrimSpace(s), "::")
	if hasMethod && method == "" {
		return MethodSelector{}, fmt.Errorf("selector %q: missing method name after ::", s)
	}
	if method == ConstructorName {
		method = ""
	}
	class, err := signature.ParseQualifiedName(classPart)
	if err != nil {
		return MethodSelector{}, fmt.Errorf("selector %q: %w", s, err)
	}
	return MethodSelector{Class: class, Method: method, Span: span}, nil
}

func (s MethodSelector) IsConstructor() bool {
	return s.Method == ""
}

func (s MethodSelector) String() string {
	if s.IsConstructor() {
		return s.Class.String()
	}
	return s.Class.String() + "::" + s.Method
}

// ClassLookup supplies the class model a selector is resolved against.
type ClassLookup interface {
	Reflect(ctx context.Context, name signature.QualifiedName, span diag.Span) (*signature.ClassInfo, error)
}

// Resolver picks the single constructor or method a selector denotes.
// Overloads are never disambiguated by argument types; an explicit class
// declaration listing one overload is the way to pick one.
type Resolver struct {
	classes ClassLookup
}

func NewResolver(classes ClassLookup) *Resolver {
	return &Resolver{classes: classes}
}

func (r *Resolver) Resolve(ctx context.Context, sel MethodSelector) (*ReflectedMethod, error) {
	info, err := r.classes.Reflect(ctx, sel.Class, sel.Span)
	if err != nil {
		return nil, err
	}
	return resolveIn(info, sel)
}

func resolveIn(info *signature.ClassInfo, sel MethodSelector) (*ReflectedMethod, error) {
	if sel.IsConstructor() {
		switch n := len(info.Constructors); n {
		case 0:
			return nil, &NoConstructorError{Span: sel.Span, Class: sel.Class}
		case 1:
			return &ReflectedMethod{class: info, constructor: &info.Constructors[0]}, nil
		default:
			return nil, &AmbiguousConstructorError{Span: sel.Span, Class: sel.Class, Count: n}
		}
	}

	methods := info.MethodsNamed(sel.Method)
	switch n := len(methods); n {
	case 0:
		return nil, &NoMethodError{Span: sel.Span, Class: sel.Class, Method: sel.Method}
	case 1:
		return &ReflectedMethod{class: info, method: methods[0]}, nil
	default:
		return nil, &AmbiguousMethodError{Span: sel.Span, Class: sel.Class, Method: sel.Method, Count: n}
	}
}

// ReflectMethod resolves sel against classes reflected by r.
func (r *Reflector) ReflectMethod(ctx context.Context, sel MethodSelector) (*ReflectedMethod, error) {
	return NewResolver(r).Resolve(ctx, sel)
}

type CallableKind int

const (
	KindConstructor CallableKind = iota
	KindMethod
)

func (k CallableKind) String() string {
	if k == KindConstructor {
		return "constructor"
	}
	return "method"
}

// ReflectedMethod is either a constructor or a method of a reflected class.
type ReflectedMethod struct {
	class       *signature.ClassInfo
	constructor *signature.Constructor
	method      *signature.Method
}

func (m *ReflectedMethod) Kind() CallableKind {
	if m.constructor != nil {
		return KindConstructor
	}
	return KindMethod
}

func (m *ReflectedMethod) Name() string {
	if m.constructor != nil {
		return ConstructorName
	}
	return m.method.Name
}

func (m *ReflectedMethod) Class() *signature.ClassInfo { return m.class }

// IsStatic reports whether the callable needs no receiver. Constructors
// count as static.
func (m *ReflectedMethod) IsStatic() bool {
	if m.constructor != nil {
		return true
	}
	return m.method.IsStatic()
}

func (m *ReflectedMethod) Generics() []signature.Generic {
	if m.constructor != nil {
		return m.constructor.Generics
	}
	return m.method.Generics
}

func (m *ReflectedMethod) ArgumentTypes() []signature.Type {
	if m.constructor != nil {
		return m.constructor.Args
	}
	return m.method.Args
}

// IsVarargs reports whether the last argument accepts a variable number of
// values.
func (m *ReflectedMethod) IsVarargs() bool {
	if m.constructor != nil {
		return m.constructor.Modifiers.Varargs
	}
	return m.method.Modifiers.Varargs
}

func (m *ReflectedMethod) Throws() []signature.Type {
	if m.constructor != nil {
		return m.constructor.Throws
	}
	return m.method.Throws
}

// ReturnType is the declared return type of a method. A constructor returns
// its class, parameterized by the class's own type variables.
func (m *ReflectedMethod) ReturnType() signature.Type {
	if m.method != nil {
		return m.method.Return
	}
	ref := &signature.ClassRef{Name: m.class.Name}
	for _, g := range m.class.Generics {
		ref.Args = append(ref.Args, signature.TypeVar{Name: g.Name})
	}
	return ref
}

func (m *ReflectedMethod) Constructor() *signature.Constructor { return m.constructor }
func (m *ReflectedMethod) Method() *signature.Method { return m.method }

func (m *ReflectedMethod) String() string {
	if m.method != nil {
		return m.class.Name.String() + "::" + m.method.Signature()
	}
	var b strings.Builder
	b.WriteString(m.class.Name.String())
	b.WriteString("::")
	if len(m.constructor.Generics) > 0 {
		b.WriteString(signature.GenericsString(m.constructor.Generics))
		b.WriteString(" ")
	}
	b.WriteString(ConstructorName)
	b.WriteString("(")
	b.WriteString(signature.ArgsString(m.constructor.Args, m.constructor.Modifiers.Varargs))
	b.WriteString(")")
	return b.String()
}
