// Package diag carries source locations for user-authored input and the
// helpers used to report errors against them.
package diag

import (
	"errors"
	"fmt"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	switch {
	case p.File == "" && !p.IsValid():
		return "-"
	case !p.IsValid():
		return p.File
	case p.File == "":
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// At returns a span covering a single position.
func At(p Position) Span {
	return Span{Start: p, End: p}
}

// IsZero reports whether s is the neutral span. Reflected class data is
// stored with the neutral span so that it never points at whichever
// declaration happened to load it first.
func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) String() string {
	return s.Start.String()
}

// Located is implemented by errors that point at user input.
type Located interface {
	error
	Location() Span
}

// SpanOf returns the span of the first Located error in err's chain.
func SpanOf(err error) (Span, bool) {
	var loc Located
	if errors.As(err, &loc) {
		return loc.Location(), true
	}
	return Span{}, false
}

// Format renders err prefixed with its location, if it has one.
func Format(err error) string {
	if err == nil {
		return ""
	}
	span, ok := SpanOf(err)
	if !ok || span.IsZero() {
		return err.Error()
	}
	return span.String() + ": " + err.Error()
}
