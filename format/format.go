// Package format renders reflected classes and declaration trees.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/jreflect/signature"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *signature.ClassInfo) error
}

// Names lists the formats accepted by NewEncoder.
var Names = []string{"java", "line", "json"}

func NewEncoder(format string, w io.Writer) (Encoder, error) {
	switch format {
	case "java", "javap":
		return NewJavaEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s (valid formats: java, line, json)", format)
}

func modifiersOr(mods signature.Modifiers, empty string) []string {
	kw := mods.Keywords()
	if len(kw) == 0 && empty != "" {
		return []string{empty}
	}
	return kw
}
