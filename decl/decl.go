// Package decl builds the package/class tree handed to code generation from
// a declaration of packages and the classes they contain.
package decl

import (
	"strings"

	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/reflector"
	"github.com/dhamidi/jreflect/signature"
)

// Declaration is the parsed form of a declaration file.
type Declaration struct {
	File      string
	Packages  []PackageDecl
	Selectors []reflector.MethodSelector
}

// PackageDecl lists classes under one package name. The same package may be
// declared any number of times.
type PackageDecl struct {
	Name    []string
	Span    diag.Span
	Classes []ClassDecl
}

func (p PackageDecl) String() string {
	return strings.Join(p.Name, ".")
}

// ClassDecl names a class either to be reflected or, when Specified is set,
// described in full by the author.
type ClassDecl struct {
	Name      string
	Span      diag.Span
	Specified *signature.ClassInfo
}

func Reflected(name string, span diag.Span) ClassDecl {
	return ClassDecl{Name: name, Span: span}
}

func Specified(info *signature.ClassInfo, span diag.Span) ClassDecl {
	return ClassDecl{Name: info.Name.String(), Span: span, Specified: info}
}

func (c ClassDecl) IsSpecified() bool {
	return c.Specified != nil
}
