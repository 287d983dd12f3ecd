package decl

import (
	"fmt"

	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/signature"
)

// PackageMismatchError is returned for a class written with a package that
// differs from the package it is declared in.
type PackageMismatchError struct {
	Span    diag.Span
	Class   string
	Package string
}

func (e *PackageMismatchError) Error() string {
	return fmt.Sprintf("class `%s` expected to be in package `%s`", e.Class, e.Package)
}

func (e *PackageMismatchError) Location() diag.Span { return e.Span }

// DuplicateClassError is returned when one qualified name is declared twice
// with different contents, for example once reflected and once specified.
type DuplicateClassError struct {
	Span     diag.Span
	Class    signature.QualifiedName
	Previous diag.Span
}

func (e *DuplicateClassError) Error() string {
	if e.Previous.IsZero() {
		return fmt.Sprintf("class `%s` declared more than once", e.Class)
	}
	return fmt.Sprintf("class `%s` declared more than once (previous declaration at %s)", e.Class, e.Previous)
}

func (e *DuplicateClassError) Location() diag.Span { return e.Span }

// LoadError reports a malformed declaration file.
type LoadError struct {
	Span diag.Span
	Msg  string
}

func (e *LoadError) Error() string { return e.Msg }
func (e *LoadError) Location() diag.Span { return e.Span }

// UndeclaredClassError is returned by a ClassSource without a fallback for
// a class the declaration does not contain.
type UndeclaredClassError struct {
	Span  diag.Span
	Class signature.QualifiedName
}

func (e *UndeclaredClassError) Error() string {
	return fmt.Sprintf("class `%s` is not declared", e.Class)
}

func (e *UndeclaredClassError) Location() diag.Span { return e.Span }
