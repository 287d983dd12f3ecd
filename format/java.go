package format

import (
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/jreflect/signature"
)

// JavaEncoder writes a class in the listing syntax printed by javap -public.
// Its output parses back to an equal ClassInfo.
type JavaEncoder struct {
	w     io.Writer
	class *signature.ClassInfo
}

func NewJavaEncoder(w io.Writer) *JavaEncoder {
	return &JavaEncoder{w: w}
}

func (e *JavaEncoder) Encode(class *signature.ClassInfo) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	if c.SourceFile != "" {
		sb.WriteString("Compiled from ")
		sb.WriteString(strconv.Quote(c.SourceFile))
		sb.WriteString("\n")
	}

	e.writeClassDeclaration(&sb)
	sb.WriteString(" {\n")

	e.writeFields(&sb)
	e.writeConstructors(&sb)
	e.writeMethods(&sb)

	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

func (e *JavaEncoder) writeClassDeclaration(sb *strings.Builder) {
	c := e.class

	writeModifiers(sb, c.Modifiers)

	switch {
	case c.Kind == signature.ClassKindAnnotation:
		sb.WriteString("@interface ")
	case c.Kind == signature.ClassKindInterface:
		sb.WriteString("interface ")
	case (c.Kind == signature.ClassKindEnum || c.Kind == signature.ClassKindRecord) && extendsBuiltin(c):
		// javap prints enums and records as classes extending
		// java.lang.Enum or java.lang.Record.
		sb.WriteString("class ")
	case c.Kind == signature.ClassKindEnum:
		sb.WriteString("enum ")
	case c.Kind == signature.ClassKindRecord:
		sb.WriteString("record ")
	default:
		sb.WriteString("class ")
	}

	sb.WriteString(c.Name.String())
	sb.WriteString(signature.GenericsString(c.Generics))

	writeTypeClause(sb, "extends", c.Extends)
	writeTypeClause(sb, "implements", c.Implements)
	writeTypeClause(sb, "permits", c.Permits)
}

func extendsBuiltin(c *signature.ClassInfo) bool {
	if len(c.Extends) != 1 {
		return false
	}
	ref, ok := c.Extends[0].(*signature.ClassRef)
	if !ok {
		return false
	}
	switch ref.Name.String() {
	case "java.lang.Enum", "java.lang.Record":
		return true
	}
	return false
}

func writeTypeClause(sb *strings.Builder, keyword string, types []signature.Type) {
	if len(types) == 0 {
		return
	}
	sb.WriteString(" ")
	sb.WriteString(keyword)
	sb.WriteString(" ")
	for i, t := range types {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
}

func writeModifiers(sb *strings.Builder, mods signature.Modifiers) {
	for _, kw := range mods.Keywords() {
		sb.WriteString(kw)
		sb.WriteString(" ")
	}
}

func writeGenerics(sb *strings.Builder, generics []signature.Generic) {
	if len(generics) == 0 {
		return
	}
	sb.WriteString(signature.GenericsString(generics))
	sb.WriteString(" ")
}

func (e *JavaEncoder) writeFields(sb *strings.Builder) {
	for _, f := range e.class.Fields {
		sb.WriteString("  ")
		writeModifiers(sb, f.Modifiers)
		sb.WriteString(f.Type.String())
		sb.WriteString(" ")
		sb.WriteString(f.Name)
		sb.WriteString(";\n")
	}
}

func (e *JavaEncoder) writeConstructors(sb *strings.Builder) {
	for _, ctor := range e.class.Constructors {
		sb.WriteString("  ")
		writeModifiers(sb, ctor.Modifiers)
		writeGenerics(sb, ctor.Generics)
		sb.WriteString(e.class.Name.String())
		writeCallableRest(sb, ctor.Args, ctor.Modifiers.Varargs, ctor.Throws)
	}
}

func (e *JavaEncoder) writeMethods(sb *strings.Builder) {
	for _, m := range e.class.Methods {
		sb.WriteString("  ")
		writeModifiers(sb, m.Modifiers)
		writeGenerics(sb, m.Generics)
		sb.WriteString(m.Return.String())
		sb.WriteString(" ")
		sb.WriteString(m.Name)
		writeCallableRest(sb, m.Args, m.Modifiers.Varargs, m.Throws)
	}
}

func writeCallableRest(sb *strings.Builder, args []signature.Type, varargs bool, throws []signature.Type) {
	sb.WriteString("(")
	sb.WriteString(signature.ArgsString(args, varargs))
	sb.WriteString(")")
	writeTypeClause(sb, "throws", throws)
	sb.WriteString(";\n")
}
