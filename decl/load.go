package decl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/reflector"
	"github.com/dhamidi/jreflect/signature"
)

// document mirrors the YAML layout of a declaration file:
//
//	packages:
//	  - name: java.util
//	    classes:
//	      - ArrayList
//	      - name: Widget
//	        members:
//	          - public Widget()
//	selectors:
//	  - java.util.ArrayList::size
type document struct {
	Packages  []packageNode `yaml:"packages"`
	Selectors []yaml.Node   `yaml:"selectors"`
}

type packageNode struct {
	Name    yaml.Node   `yaml:"name"`
	Classes []classNode `yaml:"classes"`

	node *yaml.Node
}

func (p *packageNode) UnmarshalYAML(value *yaml.Node) error {
	if err := checkFields(value, "package", "name", "classes"); err != nil {
		return err
	}
	type plain packageNode
	var v plain
	if err := value.Decode(&v); err != nil {
		return err
	}
	*p = packageNode(v)
	p.node = value
	return nil
}

// checkFields rejects unknown keys in a mapping. Nodes decoded from an
// UnmarshalYAML method do not inherit the decoder's KnownFields setting.
func checkFields(value *yaml.Node, what string, known ...string) error {
	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		if !slices.Contains(known, key.Value) {
			return fmt.Errorf("line %d: field %s not found in %s", key.Line, key.Value, what)
		}
	}
	return nil
}

// classNode is either a bare class name or a class spec mapping.
type classNode struct {
	node *yaml.Node
	spec *classSpec
}

func (c *classNode) UnmarshalYAML(value *yaml.Node) error {
	c.node = value
	if value.Kind == yaml.ScalarNode {
		return nil
	}
	if err := checkFields(value, "class", "name", "kind", "modifiers", "generics",
		"extends", "implements", "members"); err != nil {
		return err
	}
	c.spec = &classSpec{}
	return value.Decode(c.spec)
}

type classSpec struct {
	Name       yaml.Node   `yaml:"name"`
	Kind       string      `yaml:"kind"`
	Modifiers  string      `yaml:"modifiers"`
	Generics   string      `yaml:"generics"`
	Extends    yaml.Node   `yaml:"extends"`
	Implements yaml.Node   `yaml:"implements"`
	Members    []yaml.Node `yaml:"members"`
}

// LoadFile reads a declaration file.
func LoadFile(path string) (*Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(data), path)
}

// Load reads a declaration from r. file names the source in positions.
func Load(r io.Reader, file string) (*Declaration, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Declaration{File: file}, nil
		}
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	l := loader{file: file}
	return l.declaration(&doc)
}

type loader struct {
	file string
}

func (l *loader) position(n *yaml.Node) diag.Position {
	return diag.Position{File: l.file, Line: n.Line, Column: n.Column}
}

func (l *loader) span(n *yaml.Node) diag.Span {
	return diag.At(l.position(n))
}

func (l *loader) errorf(n *yaml.Node, format string, args ...any) error {
	return &LoadError{Span: l.span(n), Msg: fmt.Sprintf(format, args...)}
}

func (l *loader) declaration(doc *document) (*Declaration, error) {
	d := &Declaration{File: l.file}
	for i := range doc.Packages {
		pkg, err := l.pkg(&doc.Packages[i])
		if err != nil {
			return nil, err
		}
		d.Packages = append(d.Packages, pkg)
	}
	for i := range doc.Selectors {
		n := &doc.Selectors[i]
		if n.Kind != yaml.ScalarNode {
			return nil, l.selectorKindError(n)
		}
		sel, err := reflector.ParseMethodSelector(n.Value, l.span(n))
		if err != nil {
			return nil, l.errorf(n, "%v", err)
		}
		d.Selectors = append(d.Selectors, sel)
	}
	return d, nil
}

// selectorKindError explains a selector that did not load as a string. An
// unquoted selector ending in "::" reads as a mapping with a key ending in ':'.
func (l *loader) selectorKindError(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode && len(n.Content) == 2 {
		if key := n.Content[0]; key.Kind == yaml.ScalarNode && strings.HasSuffix(key.Value, ":") {
			return l.errorf(n, "selector must be a string, quote it as \"%s:\"", key.Value)
		}
	}
	return l.errorf(n, "selector must be a string")
}

func (l *loader) pkg(n *packageNode) (PackageDecl, error) {
	if n.Name.Kind != yaml.ScalarNode || n.Name.Value == "" {
		return PackageDecl{}, l.errorf(n.node, "package without a name")
	}
	segments := strings.Split(n.Name.Value, ".")
	for _, seg := range segments {
		if _, err := signature.ParseQualifiedName(seg); err != nil {
			return PackageDecl{}, l.errorf(&n.Name, "invalid package name %q", n.Name.Value)
		}
	}

	pkg := PackageDecl{Name: segments, Span: l.span(&n.Name)}
	for _, c := range n.Classes {
		if c.spec == nil {
			if c.node.Value == "" {
				return PackageDecl{}, l.errorf(c.node, "empty class name")
			}
			pkg.Classes = append(pkg.Classes, Reflected(c.node.Value, l.span(c.node)))
			continue
		}
		decl, err := l.specified(segments, c.node, c.spec)
		if err != nil {
			return PackageDecl{}, err
		}
		pkg.Classes = append(pkg.Classes, decl)
	}
	return pkg, nil
}

// lineOrigin records where a line of a synthesized listing came from.
type lineOrigin struct {
	node   *yaml.Node
	indent int
}

// specified turns a class spec into a listing in the disassembler's format
// and parses it, so authored classes follow the same grammar as reflected
// ones.
func (l *loader) specified(pkg []string, node *yaml.Node, spec *classSpec) (ClassDecl, error) {
	if spec.Name.Kind != yaml.ScalarNode || spec.Name.Value == "" {
		return ClassDecl{}, l.errorf(node, "class declaration without a name")
	}

	// The listing header carries the qualified name so that members may
	// spell the constructor either way. The declaration keeps the name as
	// written for the package check.
	name := spec.Name.Value
	if !strings.Contains(name, ".") {
		name = strings.Join(append(slices.Clone(pkg), name), ".")
	}
	header, err := l.header(name, spec)
	if err != nil {
		return ClassDecl{}, err
	}

	lines := []string{header}
	origins := []lineOrigin{{node: &spec.Name}}
	for i := range spec.Members {
		m := &spec.Members[i]
		if m.Kind != yaml.ScalarNode {
			return ClassDecl{}, l.errorf(m, "member must be a string")
		}
		text := strings.TrimSpace(m.Value)
		if !strings.HasSuffix(text, ";") {
			text += ";"
		}
		lines = append(lines, "  "+text)
		origins = append(origins, lineOrigin{node: m, indent: 2})
	}
	lines = append(lines, "}")
	origins = append(origins, lineOrigin{node: node})

	info, err := signature.ParseString(strings.Join(lines, "\n"), signature.WithFile(l.file))
	if err != nil {
		var syn *signature.SyntaxError
		if !errors.As(err, &syn) {
			return ClassDecl{}, err
		}
		return ClassDecl{}, l.syntaxError(syn, origins)
	}

	return ClassDecl{Name: spec.Name.Value, Span: l.span(&spec.Name), Specified: info}, nil
}

func (l *loader) header(name string, spec *classSpec) (string, error) {
	var b strings.Builder

	mods := spec.Modifiers
	if mods == "" {
		mods = "public"
	}
	b.WriteString(mods)
	b.WriteString(" ")

	switch kind := signature.ClassKind(spec.Kind); kind {
	case "", signature.ClassKindClass:
		b.WriteString("class")
	case signature.ClassKindInterface, signature.ClassKindEnum, signature.ClassKindRecord:
		b.WriteString(string(kind))
	case signature.ClassKindAnnotation:
		b.WriteString("@interface")
	default:
		return "", l.errorf(&spec.Name, "unknown class kind %q", spec.Kind)
	}
	b.WriteString(" ")
	b.WriteString(name)

	if g := strings.TrimSpace(spec.Generics); g != "" {
		if !strings.HasPrefix(g, "<") {
			g = "<" + g + ">"
		}
		b.WriteString(g)
	}

	for _, clause := range []struct {
		keyword string
		node    *yaml.Node
	}{{"extends", &spec.Extends}, {"implements", &spec.Implements}} {
		types, err := l.typeList(clause.node)
		if err != nil {
			return "", err
		}
		if len(types) > 0 {
			b.WriteString(" " + clause.keyword + " " + strings.Join(types, ", "))
		}
	}

	b.WriteString(" {")
	return b.String(), nil
}

// typeList accepts a single type or a sequence of types.
func (l *loader) typeList(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		var out []string
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, l.errorf(item, "expected a type name")
			}
			out = append(out, item.Value)
		}
		return out, nil
	}
	return nil, l.errorf(n, "expected a type name or a list of type names")
}

// syntaxError maps a position in the synthesized listing back to the YAML
// node the offending line was generated from.
func (l *loader) syntaxError(syn *signature.SyntaxError, origins []lineOrigin) error {
	idx := syn.Pos.Line - 1
	if idx < 0 || idx >= len(origins) {
		idx = len(origins) - 1
	}
	origin := origins[idx]

	pos := l.position(origin.node)
	if origin.indent > 0 && syn.Pos.Column > origin.indent {
		pos.Column += syn.Pos.Column - origin.indent - 1
		if origin.node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
			pos.Column++
		}
	}

	msg := syn.Msg
	if syn.Text != "" {
		msg = fmt.Sprintf("%s in %q", syn.Msg, strings.TrimSuffix(syn.Text, ";"))
	}
	return &LoadError{Span: diag.At(pos), Msg: "invalid class declaration: " + msg}
}
