package signature

import (
	"strings"

	"github.com/dhamidi/jreflect/diag"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindRecord     ClassKind = "record"
	ClassKindAnnotation ClassKind = "annotation"
)

type Modifiers struct {
	Visibility   Visibility
	Static       bool
	Final        bool
	Abstract     bool
	Native       bool
	Synchronized bool
	Transient    bool
	Volatile     bool
	Strictfp     bool
	Default      bool
	Sealed       bool
	NonSealed    bool
	Varargs      bool
}

// Keywords returns the modifiers in javap order. Package visibility and
// Varargs have no keyword.
func (m Modifiers) Keywords() []string {
	var kw []string
	if m.Visibility != "" && m.Visibility != VisibilityPackage {
		kw = append(kw, string(m.Visibility))
	}
	flags := []struct {
		set  bool
		name string
	}{
		{m.Default, "default"},
		{m.Static, "static"},
		{m.Abstract, "abstract"},
		{m.Final, "final"},
		{m.Sealed, "sealed"},
		{m.NonSealed, "non-sealed"},
		{m.Transient, "transient"},
		{m.Volatile, "volatile"},
		{m.Synchronized, "synchronized"},
		{m.Native, "native"},
		{m.Strictfp, "strictfp"},
	}
	for _, f := range flags {
		if f.set {
			kw = append(kw, f.name)
		}
	}
	return kw
}

type Field struct {
	Name      string
	Modifiers Modifiers
	Type      Type
}

type Constructor struct {
	Modifiers Modifiers
	Generics  []Generic
	Args      []Type
	Throws    []Type
}

type Method struct {
	Name      string
	Modifiers Modifiers
	Generics  []Generic
	Args      []Type
	Return    Type
	Throws    []Type
}

func (m *Method) IsStatic() bool {
	return m.Modifiers.Static
}

// Signature renders the method without modifiers: <T> T name(T).
func (m *Method) Signature() string {
	var sb strings.Builder
	if g := GenericsString(m.Generics); g != "" {
		sb.WriteString(g)
		sb.WriteString(" ")
	}
	sb.WriteString(m.Return.String())
	sb.WriteString(" ")
	sb.WriteString(m.Name)
	sb.WriteString("(")
	sb.WriteString(ArgsString(m.Args, m.Modifiers.Varargs))
	sb.WriteString(")")
	return sb.String()
}

// ClassInfo is the public surface of one class. Instances are shared by
// pointer between the reflector cache, the root map and resolved methods
// and must not be modified once built.
type ClassInfo struct {
	Span         diag.Span
	Name         QualifiedName
	Kind         ClassKind
	Modifiers    Modifiers
	Generics     []Generic
	Extends      []Type
	Implements   []Type
	Permits      []Type
	SourceFile   string
	Constructors []Constructor
	Methods      []Method
	Fields       []Field
}

// MethodsNamed returns pointers into c.Methods for every method called name.
func (c *ClassInfo) MethodsNamed(name string) []*Method {
	var out []*Method
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			out = append(out, &c.Methods[i])
		}
	}
	return out
}

func (c *ClassInfo) Field(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

// ArgsString renders an argument list the way javap does, including a
// trailing varargs parameter.
func ArgsString(args []Type, varargs bool) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
		if varargs && i == len(args)-1 {
			if arr, ok := a.(*Array); ok {
				parts[i] = arr.Elem.String() + "..."
			}
		}
	}
	return strings.Join(parts, ", ")
}
