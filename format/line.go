package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jreflect/signature"
)

// LineEncoder writes one tab-separated record per class and member, for
// use with grep and awk.
type LineEncoder struct {
	w     io.Writer
	class *signature.ClassInfo
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *signature.ClassInfo) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	c := e.class

	fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n",
		c.Kind,
		c.Name,
		orDash(signature.GenericsString(c.Generics)),
		strings.Join(modifiersOr(c.Modifiers, string(signature.VisibilityPackage)), ","),
	)

	for _, f := range c.Fields {
		fmt.Fprintf(&sb, "field\t%s\t%s\t%s\n",
			f.Name,
			f.Type,
			modifiersStr(f.Modifiers),
		)
	}

	for _, ctor := range c.Constructors {
		fmt.Fprintf(&sb, "constructor\t%s\t%s\t%s\t%s\n",
			orDash(signature.GenericsString(ctor.Generics)),
			orDash(signature.ArgsString(ctor.Args, ctor.Modifiers.Varargs)),
			orDash(typesStr(ctor.Throws)),
			modifiersStr(ctor.Modifiers),
		)
	}

	for _, m := range c.Methods {
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Name,
			orDash(signature.GenericsString(m.Generics)),
			m.Return,
			orDash(signature.ArgsString(m.Args, m.Modifiers.Varargs)),
			orDash(typesStr(m.Throws)),
			modifiersStr(m.Modifiers),
		)
	}

	return []byte(sb.String()), nil
}

func modifiersStr(mods signature.Modifiers) string {
	kw := mods.Keywords()
	if mods.Varargs {
		kw = append(kw, "varargs")
	}
	if len(kw) == 0 {
		return "-"
	}
	return strings.Join(kw, ",")
}

func typesStr(types []signature.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
