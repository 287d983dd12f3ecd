package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jreflect/signature"
)

type JSONEncoder struct {
	w     io.Writer
	class *signature.ClassInfo
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *signature.ClassInfo) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildClass(e.class), "", "  ")
}

type jsonClass struct {
	Name         string            `json:"name"`
	SimpleName   string            `json:"simpleName"`
	Package      string            `json:"package"`
	Kind         string            `json:"kind"`
	SourceFile   string            `json:"sourceFile,omitempty"`
	Visibility   string            `json:"visibility"`
	Modifiers    []string          `json:"modifiers,omitempty"`
	Generics     []jsonGeneric     `json:"generics,omitempty"`
	Extends      []*jsonType       `json:"extends,omitempty"`
	Implements   []*jsonType       `json:"implements,omitempty"`
	Permits      []*jsonType       `json:"permits,omitempty"`
	Fields       []jsonField       `json:"fields,omitempty"`
	Constructors []jsonConstructor `json:"constructors,omitempty"`
	Methods      []jsonMethod      `json:"methods,omitempty"`
}

type jsonField struct {
	Name       string    `json:"name"`
	Type       *jsonType `json:"type"`
	Visibility string    `json:"visibility"`
	Modifiers  []string  `json:"modifiers,omitempty"`
}

type jsonConstructor struct {
	Generics   []jsonGeneric `json:"generics,omitempty"`
	Parameters []*jsonType   `json:"parameters,omitempty"`
	Throws     []*jsonType   `json:"throws,omitempty"`
	Visibility string        `json:"visibility"`
	Modifiers  []string      `json:"modifiers,omitempty"`
	Varargs    bool          `json:"varargs,omitempty"`
}

type jsonMethod struct {
	Name       string        `json:"name"`
	Generics   []jsonGeneric `json:"generics,omitempty"`
	ReturnType *jsonType     `json:"returnType"`
	Parameters []*jsonType   `json:"parameters,omitempty"`
	Throws     []*jsonType   `json:"throws,omitempty"`
	Visibility string        `json:"visibility"`
	Modifiers  []string      `json:"modifiers,omitempty"`
	Varargs    bool          `json:"varargs,omitempty"`
}

type jsonGeneric struct {
	Name   string      `json:"name"`
	Bounds []*jsonType `json:"bounds,omitempty"`
}

// jsonType is a tagged tree: Kind is one of primitive, class, array,
// typeVariable or wildcard.
type jsonType struct {
	Kind  string      `json:"kind"`
	Name  string      `json:"name,omitempty"`
	Args  []*jsonType `json:"args,omitempty"`
	Elem  *jsonType   `json:"elem,omitempty"`
	Bound string      `json:"bound,omitempty"`
}

func buildClass(c *signature.ClassInfo) jsonClass {
	data := jsonClass{
		Name:       c.Name.String(),
		SimpleName: c.Name.SimpleName(),
		Package:    c.Name.PackageName(),
		Kind:       string(c.Kind),
		SourceFile: c.SourceFile,
		Visibility: visibility(c.Modifiers),
		Modifiers:  flags(c.Modifiers),
		Generics:   buildGenerics(c.Generics),
		Extends:    buildTypes(c.Extends),
		Implements: buildTypes(c.Implements),
		Permits:    buildTypes(c.Permits),
	}
	for _, f := range c.Fields {
		data.Fields = append(data.Fields, jsonField{
			Name:       f.Name,
			Type:       buildType(f.Type),
			Visibility: visibility(f.Modifiers),
			Modifiers:  flags(f.Modifiers),
		})
	}
	for _, ctor := range c.Constructors {
		data.Constructors = append(data.Constructors, jsonConstructor{
			Generics:   buildGenerics(ctor.Generics),
			Parameters: buildTypes(ctor.Args),
			Throws:     buildTypes(ctor.Throws),
			Visibility: visibility(ctor.Modifiers),
			Modifiers:  flags(ctor.Modifiers),
			Varargs:    ctor.Modifiers.Varargs,
		})
	}
	for _, m := range c.Methods {
		data.Methods = append(data.Methods, jsonMethod{
			Name:       m.Name,
			Generics:   buildGenerics(m.Generics),
			ReturnType: buildType(m.Return),
			Parameters: buildTypes(m.Args),
			Throws:     buildTypes(m.Throws),
			Visibility: visibility(m.Modifiers),
			Modifiers:  flags(m.Modifiers),
			Varargs:    m.Modifiers.Varargs,
		})
	}
	return data
}

func visibility(mods signature.Modifiers) string {
	if mods.Visibility == "" {
		return string(signature.VisibilityPackage)
	}
	return string(mods.Visibility)
}

// flags returns the modifier keywords other than visibility.
func flags(mods signature.Modifiers) []string {
	mods.Visibility = ""
	return mods.Keywords()
}

func buildGenerics(generics []signature.Generic) []jsonGeneric {
	if len(generics) == 0 {
		return nil
	}
	out := make([]jsonGeneric, len(generics))
	for i, g := range generics {
		out[i] = jsonGeneric{Name: g.Name, Bounds: buildTypes(g.Bounds)}
	}
	return out
}

func buildTypes(types []signature.Type) []*jsonType {
	if len(types) == 0 {
		return nil
	}
	out := make([]*jsonType, len(types))
	for i, t := range types {
		out[i] = buildType(t)
	}
	return out
}

func buildType(t signature.Type) *jsonType {
	switch t := t.(type) {
	case signature.Primitive:
		return &jsonType{Kind: "primitive", Name: string(t.Kind)}
	case *signature.ClassRef:
		return &jsonType{Kind: "class", Name: t.Name.String(), Args: buildTypes(t.Args)}
	case *signature.Array:
		return &jsonType{Kind: "array", Elem: buildType(t.Elem)}
	case signature.TypeVar:
		return &jsonType{Kind: "typeVariable", Name: t.Name}
	case *signature.Wildcard:
		w := &jsonType{Kind: "wildcard"}
		switch t.Bound {
		case signature.ExtendsBound:
			w.Bound = "extends"
			w.Elem = buildType(t.Type)
		case signature.SuperBound:
			w.Bound = "super"
			w.Elem = buildType(t.Type)
		}
		return w
	}
	return nil
}
