package reflector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dhamidi/jreflect/signature"
)

// Disassembler produces the signature listing of one class. Failures are
// reported as *ToolInvocationError or *ToolFailureError; the reflector
// attaches the location of the request.
type Disassembler interface {
	Disassemble(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error)
}

type DisassemblerFunc func(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error)

func (f DisassemblerFunc) Disassemble(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
	return f(ctx, classpath, class)
}

// Javap runs the JDK disassembler restricted to public members.
type Javap struct {
	Path string
}

func NewJavap(path string) *Javap {
	if path == "" {
		path = "javap"
	}
	return &Javap{Path: path}
}

func (j *Javap) Args(classpath string, class signature.QualifiedName) []string {
	return []string{"-cp", classpath, "-public", class.String()}
}

func (j *Javap) Disassemble(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
	args := j.Args(classpath, class)
	command := j.Path + " " + strings.Join(args, " ")

	cmd := exec.CommandContext(ctx, j.Path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debugf("+ %s", command)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ToolFailureError{
				Command:  command,
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.ToValidUTF8(stderr.String(), "�"),
			}
		}
		return nil, &ToolInvocationError{Command: command, Err: err}
	}
	return stdout.Bytes(), nil
}

// ListingDir serves listings saved as <Dir>/<qualified name>.javap, for
// example the output of `javap -public` captured ahead of time. The
// classpath is ignored.
type ListingDir struct {
	Dir string
}

func (d ListingDir) Disassemble(ctx context.Context, classpath string, class signature.QualifiedName) ([]byte, error) {
	path := filepath.Join(d.Dir, class.String()+".javap")
	command := "read " + path

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ToolFailureError{
			Command:  command,
			ExitCode: 1,
			Stderr:   fmt.Sprintf("error: class not found: %s", class),
		}
	}
	if err != nil {
		return nil, &ToolInvocationError{Command: command, Err: err}
	}
	return data, nil
}
