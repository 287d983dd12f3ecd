package signature

import (
	"fmt"
	"strings"
)

// QualifiedName identifies one class: its package segments and the class
// identifier. Nested classes keep the binary spelling (Map$Entry).
type QualifiedName struct {
	Package []string
	Class   string
}

func NewQualifiedName(pkg []string, class string) QualifiedName {
	return QualifiedName{Package: append([]string(nil), pkg...), Class: class}
}

// ParseQualifiedName splits a dotted name. The last segment is the class.
func ParseQualifiedName(s string) (QualifiedName, error) {
	if s == "" {
		return QualifiedName{}, fmt.Errorf("empty class name")
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if !isIdentifier(p) {
			return QualifiedName{}, fmt.Errorf("invalid class name %q", s)
		}
	}
	return QualifiedName{
		Package: parts[:len(parts)-1],
		Class:   parts[len(parts)-1],
	}, nil
}

// MustParseQualifiedName is ParseQualifiedName for names known to be valid.
func MustParseQualifiedName(s string) QualifiedName {
	n, err := ParseQualifiedName(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (n QualifiedName) String() string {
	if len(n.Package) == 0 {
		return n.Class
	}
	return strings.Join(n.Package, ".") + "." + n.Class
}

func (n QualifiedName) IsZero() bool {
	return n.Class == "" && len(n.Package) == 0
}

func (n QualifiedName) PackageName() string {
	return strings.Join(n.Package, ".")
}

// SimpleName is the class name without its package or enclosing classes.
func (n QualifiedName) SimpleName() string {
	if i := strings.LastIndexByte(n.Class, '$'); i >= 0 {
		return n.Class[i+1:]
	}
	return n.Class
}

func (n QualifiedName) Equal(o QualifiedName) bool {
	return n.Compare(o) == 0
}

// Compare orders names package segment by segment, then by class.
func (n QualifiedName) Compare(o QualifiedName) int {
	for i := 0; i < len(n.Package) && i < len(o.Package); i++ {
		if c := strings.Compare(n.Package[i], o.Package[i]); c != 0 {
			return c
		}
	}
	if len(n.Package) != len(o.Package) {
		if len(n.Package) < len(o.Package) {
			return -1
		}
		return 1
	}
	return strings.Compare(n.Class, o.Class)
}

// InPackage reports whether n is declared directly in pkg.
func (n QualifiedName) InPackage(pkg []string) bool {
	if len(n.Package) != len(pkg) {
		return false
	}
	for i := range pkg {
		if n.Package[i] != pkg[i] {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isJavaLetterRune(r) {
			return false
		}
		if !isJavaLetterRune(r) && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
