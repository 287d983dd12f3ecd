package signature

import "strings"

// Type is a type expression from a member signature. It is one of
// Primitive, ClassRef, Array, TypeVar or Wildcard. Wildcards only appear
// as type arguments.
type Type interface {
	String() string
	isType()
}

type PrimitiveKind string

const (
	Boolean PrimitiveKind = "boolean"
	Byte    PrimitiveKind = "byte"
	Char    PrimitiveKind = "char"
	Short   PrimitiveKind = "short"
	Int     PrimitiveKind = "int"
	Long    PrimitiveKind = "long"
	Float   PrimitiveKind = "float"
	Double  PrimitiveKind = "double"
	// Void is only valid as a return type.
	Void PrimitiveKind = "void"
)

type Primitive struct {
	Kind PrimitiveKind
}

func (Primitive) isType() {}

func (p Primitive) String() string {
	return string(p.Kind)
}

type ClassRef struct {
	Name QualifiedName
	Args []Type
}

func (*ClassRef) isType() {}

func (c *ClassRef) String() string {
	if len(c.Args) == 0 {
		return c.Name.String()
	}
	return c.Name.String() + "<" + joinTypes(c.Args, ", ") + ">"
}

type Array struct {
	Elem Type
}

func (*Array) isType() {}

func (a *Array) String() string {
	return a.Elem.String() + "[]"
}

// TypeVar refers to a generic parameter of the enclosing method or class.
type TypeVar struct {
	Name string
}

func (TypeVar) isType() {}

func (v TypeVar) String() string {
	return v.Name
}

type WildcardBound int

const (
	Unbounded WildcardBound = iota
	ExtendsBound
	SuperBound
)

type Wildcard struct {
	Bound WildcardBound
	Type  Type
}

func (*Wildcard) isType() {}

func (w *Wildcard) String() string {
	switch w.Bound {
	case ExtendsBound:
		return "? extends " + w.Type.String()
	case SuperBound:
		return "? super " + w.Type.String()
	}
	return "?"
}

// Generic is a declared type parameter. Bounds is empty for an unbounded
// parameter and may hold several entries for T extends A & B.
type Generic struct {
	Name   string
	Bounds []Type
}

func (g Generic) String() string {
	if len(g.Bounds) == 0 {
		return g.Name
	}
	return g.Name + " extends " + joinTypes(g.Bounds, " & ")
}

// IsVoid reports whether t is the void return type.
func IsVoid(t Type) bool {
	p, ok := t.(Primitive)
	return ok && p.Kind == Void
}

// ArrayDepth unwraps nested arrays and returns the element type and the
// number of dimensions.
func ArrayDepth(t Type) (Type, int) {
	depth := 0
	for {
		a, ok := t.(*Array)
		if !ok {
			return t, depth
		}
		t = a.Elem
		depth++
	}
}

func joinTypes(types []Type, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

// GenericsString renders a type parameter list, or "" when there is none.
func GenericsString(generics []Generic) string {
	if len(generics) == 0 {
		return ""
	}
	parts := make([]string, len(generics))
	for i, g := range generics {
		parts[i] = g.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
