package reflector

import (
	"fmt"
	"strings"

	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/signature"
)

// ConfigurationError means no search path is configured. It is raised
// before any process is started.
type ConfigurationError struct {
	Span diag.Span
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot determine class search path: %v", e.Err)
	}
	return fmt.Sprintf("class search path is not configured: set $%s or classpath in %s", EnvClasspath, DefaultConfigFile)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
func (e *ConfigurationError) Location() diag.Span { return e.Span }

func (e *ConfigurationError) withSpan(span diag.Span) error {
	c := *e
	c.Span = span
	return &c
}

// ToolInvocationError means the disassembler could not be started.
type ToolInvocationError struct {
	Span    diag.Span
	Command string
	Err     error
}

func (e *ToolInvocationError) Error() string {
	return fmt.Sprintf("failed to execute `%s`: %v", e.Command, e.Err)
}

func (e *ToolInvocationError) Unwrap() error { return e.Err }
func (e *ToolInvocationError) Location() diag.Span { return e.Span }

func (e *ToolInvocationError) withSpan(span diag.Span) error {
	c := *e
	c.Span = span
	return &c
}

// ToolFailureError means the disassembler exited with a non-zero status.
type ToolFailureError struct {
	Span     diag.Span
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ToolFailureError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no diagnostic output"
	}
	return fmt.Sprintf("unsuccessful execution of `%s` (exit status %d): %s", e.Command, e.ExitCode, msg)
}

func (e *ToolFailureError) Location() diag.Span { return e.Span }

func (e *ToolFailureError) withSpan(span diag.Span) error {
	c := *e
	c.Span = span
	return &c
}

// OutputDecodingError means the disassembler printed bytes that are not
// UTF-8 text.
type OutputDecodingError struct {
	Span    diag.Span
	Command string
	Offset  int
}

func (e *OutputDecodingError) Error() string {
	return fmt.Sprintf("failed to decode output of `%s` as utf-8: invalid byte at offset %d", e.Command, e.Offset)
}

func (e *OutputDecodingError) Location() diag.Span { return e.Span }

func (e *OutputDecodingError) withSpan(span diag.Span) error {
	c := *e
	c.Span = span
	return &c
}

// ParseError means the listing did not match the member grammar.
type ParseError struct {
	Span  diag.Span
	Class signature.QualifiedName
	Err   *signature.SyntaxError
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse signature listing of %s: %v", e.Class, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
func (e *ParseError) Location() diag.Span { return e.Span }

func (e *ParseError) withSpan(span diag.Span) error {
	c := *e
	c.Span = span
	return &c
}

type NoConstructorError struct {
	Span  diag.Span
	Class signature.QualifiedName
}

func (e *NoConstructorError) Error() string {
	return fmt.Sprintf("no constructors found for %s", e.Class)
}

func (e *NoConstructorError) Location() diag.Span { return e.Span }

type AmbiguousConstructorError struct {
	Span  diag.Span
	Class signature.QualifiedName
	Count int
}

func (e *AmbiguousConstructorError) Error() string {
	return fmt.Sprintf("%d constructors found for %s, use an explicit class declaration to disambiguate", e.Count, e.Class)
}

func (e *AmbiguousConstructorError) Location() diag.Span { return e.Span }

type NoMethodError struct {
	Span   diag.Span
	Class  signature.QualifiedName
	Method string
}

func (e *NoMethodError) Error() string {
	return fmt.Sprintf("no methods named `%s` found in %s", e.Method, e.Class)
}

func (e *NoMethodError) Location() diag.Span { return e.Span }

type AmbiguousMethodError struct {
	Span   diag.Span
	Class  signature.QualifiedName
	Method string
	Count  int
}

func (e *AmbiguousMethodError) Error() string {
	return fmt.Sprintf("%d methods named `%s` found in %s, use an explicit class declaration to disambiguate", e.Count, e.Method, e.Class)
}

func (e *AmbiguousMethodError) Location() diag.Span { return e.Span }

type respanner interface {
	withSpan(diag.Span) error
}

// attribute points err at span. Errors shared between concurrent callers
// are copied so each caller sees its own location.
func attribute(err error, span diag.Span) error {
	if r, ok := err.(respanner); ok {
		return r.withSpan(span)
	}
	return err
}
