package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jreflect/decl"
	"github.com/dhamidi/jreflect/signature"
)

// TreeEncoder writes the package tree of a declaration, one package or
// class per line, indented by depth.
type TreeEncoder struct {
	w    io.Writer
	root *decl.RootMap
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(root *decl.RootMap) error {
	e.root = root
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	err := e.root.Walk(func(path []string, pkg *decl.PackageInfo) error {
		indent := strings.Repeat("  ", len(path)-1)
		fmt.Fprintf(&sb, "%s%s\n", indent, strings.Join(path, "."))
		for _, name := range pkg.Classes {
			info, ok := e.root.Lookup(name)
			if !ok {
				return fmt.Errorf("class %s is listed in package %s but missing from the root map", name, strings.Join(path, "."))
			}
			fmt.Fprintf(&sb, "%s  %s %s%s (%s, %s, %s)\n",
				indent,
				info.Kind,
				info.Name.SimpleName(),
				signature.GenericsString(info.Generics),
				plural(len(info.Constructors), "constructor"),
				plural(len(info.Methods), "method"),
				plural(len(info.Fields), "field"),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
