package format

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/dhamidi/jreflect/decl"
	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/reflector"
	"github.com/dhamidi/jreflect/signature"
)

func loadFixture(t *testing.T, name string) *signature.ClassInfo {
	t.Helper()
	data, err := os.ReadFile("../signature/testdata/" + name)
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	c, err := signature.ParseString(string(data), signature.WithFile(name))
	if err != nil {
		t.Fatalf("ParseString(%s) error = %v", name, err)
	}
	return c
}

func TestNewEncoder(t *testing.T) {
	for _, name := range append(Names, "javap") {
		if _, err := NewEncoder(name, &bytes.Buffer{}); err != nil {
			t.Errorf("NewEncoder(%q) error = %v", name, err)
		}
	}
	if _, err := NewEncoder("xml", &bytes.Buffer{}); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}

func TestJavaEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJavaEncoder(&buf).Encode(loadFixture(t, "Identity.javap")); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Compiled from \"Identity.java\"\n",
		"public final class com.example.Identity {\n",
		"  public static final int VERSION;\n",
		"  public com.example.Identity();\n",
		"  public static <T> T identity(T);\n",
		"  public static int sum(int...);\n",
		"  public void run() throws java.io.IOException, java.lang.InterruptedException;\n",
		"  public java.util.Map$Entry<java.lang.String, int[]> entry();\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q\n%s", want, out)
		}
	}
}

func TestJavaEncoderEnum(t *testing.T) {
	out, err := (&JavaEncoder{class: loadFixture(t, "Color.javap")}).MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if !strings.Contains(string(out), "public final class com.example.Color extends java.lang.Enum<com.example.Color> {") {
		t.Errorf("Enum header not written as javap prints it:\n%s", out)
	}
}

func TestLineEncoder(t *testing.T) {
	out, err := (&LineEncoder{class: loadFixture(t, "Identity.javap")}).MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")

	if len(lines) != 1+2+1+8 {
		t.Fatalf("Expected 12 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "class\tcom.example.Identity\t-\tpublic,final" {
		t.Errorf("Header line = %q", lines[0])
	}
	if lines[3] != "constructor\t-\t-\t-\tpublic" {
		t.Errorf("Constructor line = %q", lines[3])
	}
	if lines[4] != "method\tidentity\t<T>\tT\tT\t-\tpublic,static" {
		t.Errorf("Method line = %q", lines[4])
	}
	if lines[8] != "method\tsum\t-\tint\tint...\t-\tpublic,static,varargs" {
		t.Errorf("Varargs line = %q", lines[8])
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(loadFixture(t, "Identity.javap")); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got jsonClass
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if got.Name != "com.example.Identity" || got.Package != "com.example" || got.SimpleName != "Identity" {
		t.Errorf("Unexpected names: %+v", got)
	}
	if got.Visibility != "public" || len(got.Modifiers) != 1 || got.Modifiers[0] != "final" {
		t.Errorf("Visibility = %q, Modifiers = %v", got.Visibility, got.Modifiers)
	}

	identity := got.Methods[0]
	if identity.Name != "identity" || len(identity.Generics) != 1 {
		t.Fatalf("Unexpected first method: %+v", identity)
	}
	if identity.ReturnType.Kind != "typeVariable" || identity.ReturnType.Name != "T" {
		t.Errorf("ReturnType = %+v", identity.ReturnType)
	}

	index := got.Methods[2]
	param := index.Parameters[1]
	if param.Kind != "class" || param.Name != "java.util.function.Function" || len(param.Args) != 2 {
		t.Fatalf("Unexpected parameter: %+v", param)
	}
	if w := param.Args[0]; w.Kind != "wildcard" || w.Bound != "super" || w.Elem.Name != "V" {
		t.Errorf("Wildcard = %+v", w)
	}
}

func TestTreeEncoder(t *testing.T) {
	r := reflector.New(reflector.Config{Classpath: "."}, reflector.ListingDir{Dir: "../decl/testdata/listings"})
	d := &decl.Declaration{Packages: []decl.PackageDecl{
		{Name: []string{"a", "b"}, Classes: []decl.ClassDecl{decl.Reflected("Foo", diag.Span{}), decl.Reflected("Bar", diag.Span{})}},
		{Name: []string{"a"}, Classes: []decl.ClassDecl{decl.Reflected("Top", diag.Span{})}},
		{Name: []string{"com", "example"}, Classes: []decl.ClassDecl{decl.Reflected("Box", diag.Span{})}},
	}}
	root, err := decl.Build(context.Background(), d, r)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).Encode(root); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `a
  class Top (1 constructor, 0 methods, 0 fields)
  a.b
    class Foo (1 constructor, 1 method, 0 fields)
    class Bar (1 constructor, 1 method, 0 fields)
com
  com.example
    class Box<T> (1 constructor, 2 methods, 0 fields)
`
	if buf.String() != want {
		t.Errorf("Tree output:\n%s\nwant:\n%s", buf.String(), want)
	}
}
