package lsp

import (
	"bytes"
	"context"
	"strings"
	"unicode"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jreflect/decl"
	"github.com/dhamidi/jreflect/diag"
	"github.com/dhamidi/jreflect/format"
	"github.com/dhamidi/jreflect/reflector"
	"github.com/dhamidi/jreflect/signature"
)

// document is the checked state of one open declaration file.
type document struct {
	lines       []string
	diagnostics []protocol.Diagnostic
	targets     []hoverTarget
}

// hoverTarget is a class or selector in the file together with the text
// shown when hovering over it.
type hoverTarget struct {
	rng      protocol.Range
	markdown string
}

func (s *Server) check(ctx context.Context, uri, text string) *document {
	doc := &document{
		lines:       strings.Split(text, "\n"),
		diagnostics: []protocol.Diagnostic{},
	}
	path := uriToPath(uri)

	d, err := decl.Load(strings.NewReader(text), path)
	if err != nil {
		doc.report(err)
		return doc
	}

	root, err := decl.Build(ctx, d, s.reflector, decl.WithJobs(s.jobs))
	if err != nil {
		doc.report(err)
		return doc
	}
	for _, pkg := range d.Packages {
		for _, c := range pkg.Classes {
			doc.describeClass(root, pkg, c)
		}
	}

	resolver := reflector.NewResolver(root.WithFallback(s.reflector))
	for _, sel := range d.Selectors {
		m, err := resolver.Resolve(ctx, sel)
		if err != nil {
			doc.report(err)
			continue
		}
		doc.targets = append(doc.targets, hoverTarget{
			rng:      doc.rangeOf(sel.Span),
			markdown: "```java\n" + m.String() + "\n```",
		})
	}

	log.Debugf("%s: %d diagnostics", path, len(doc.diagnostics))
	return doc
}

func (doc *document) describeClass(root *decl.RootMap, pkg decl.PackageDecl, c decl.ClassDecl) {
	name, err := signature.ParseQualifiedName(c.Name)
	if err != nil {
		return
	}
	if len(name.Package) == 0 {
		name = signature.NewQualifiedName(pkg.Name, name.Class)
	}
	info, ok := root.Lookup(name)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := format.NewJavaEncoder(&buf).Encode(info); err != nil {
		return
	}
	doc.targets = append(doc.targets, hoverTarget{
		rng:      doc.rangeOf(c.Span),
		markdown: "```java\n" + buf.String() + "```",
	})
}

// report turns err into a diagnostic at the location it carries, or at the
// start of the file.
func (doc *document) report(err error) {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	span, _ := diag.SpanOf(err)
	doc.diagnostics = append(doc.diagnostics, protocol.Diagnostic{
		Range:    doc.rangeOf(span),
		Severity: &severity,
		Source:   &source,
		Message:  err.Error(),
	})
}

// rangeOf converts a span into an editor range. A span covering a single
// position is widened to the word starting there.
func (doc *document) rangeOf(span diag.Span) protocol.Range {
	if !span.Start.IsValid() {
		return protocol.Range{}
	}
	start := protocol.Position{
		Line:      protocol.UInteger(span.Start.Line - 1),
		Character: protocol.UInteger(max(span.Start.Column-1, 0)),
	}
	end := start
	if span.End != span.Start && span.End.IsValid() {
		end = protocol.Position{
			Line:      protocol.UInteger(span.End.Line - 1),
			Character: protocol.UInteger(max(span.End.Column-1, 0)),
		}
	} else if int(start.Line) < len(doc.lines) {
		line := []rune(doc.lines[start.Line])
		col := int(start.Character)
		for col < len(line) && !isWordEnd(line[col]) {
			col++
		}
		end.Character = protocol.UInteger(col)
	}
	return protocol.Range{Start: start, End: end}
}

func isWordEnd(r rune) bool {
	return unicode.IsSpace(r) || r == '#' || r == ','
}

func (doc *document) hover(pos protocol.Position) *protocol.Hover {
	for _, t := range doc.targets {
		if !contains(t.rng, pos) {
			continue
		}
		rng := t.rng
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: t.markdown,
			},
			Range: &rng,
		}
	}
	return nil
}

func contains(rng protocol.Range, pos protocol.Position) bool {
	if pos.Line != rng.Start.Line {
		return false
	}
	return pos.Character >= rng.Start.Character && pos.Character <= rng.End.Character
}
