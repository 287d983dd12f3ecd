package signature

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/jreflect/diag"
)

// SyntaxError reports a listing line that does not match the member grammar.
type SyntaxError struct {
	Pos  diag.Position
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s in %q", e.Pos, e.Msg, e.Text)
}

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.startLine = line
	}
}

// Parser reads a javap -public listing of exactly one class.
type Parser struct {
	file      string
	startLine int

	class  *ClassInfo
	closed bool

	text   string
	tokens []Token
	pos    int
}

func Parse(r io.Reader, opts ...Option) (*ClassInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseString(string(data), opts...)
}

func ParseString(listing string, opts ...Option) (*ClassInfo, error) {
	p := &Parser{startLine: 1}
	for _, opt := range opts {
		opt(p)
	}
	return p.parse(listing)
}

func (p *Parser) parse(listing string) (*ClassInfo, error) {
	var sourceFile string
	lines := strings.Split(listing, "\n")
	for i, raw := range lines {
		raw = strings.TrimRight(raw, "\r")
		text := strings.TrimSpace(raw)
		lineNo := p.startLine + i

		if text == "" {
			continue
		}
		p.reset(raw, lineNo)

		if p.class == nil && strings.HasPrefix(text, "Compiled from ") {
			name, err := p.parseCompiledFrom()
			if err != nil {
				return nil, err
			}
			sourceFile = name
			continue
		}
		if p.closed {
			return nil, p.errorf(p.peek(), "unexpected text after class body")
		}
		if p.class == nil {
			if err := p.parseHeader(); err != nil {
				return nil, err
			}
			p.class.SourceFile = sourceFile
			continue
		}
		if text == "}" {
			p.closed = true
			continue
		}
		if text == "static {};" {
			continue
		}
		if err := p.parseMember(); err != nil {
			return nil, err
		}
	}

	end := diag.Position{File: p.file, Line: p.startLine + len(lines) - 1, Column: 1}
	if p.class == nil {
		return nil, &SyntaxError{Pos: end, Msg: "missing class header"}
	}
	if !p.closed {
		return nil, &SyntaxError{Pos: end, Msg: "unterminated class body"}
	}
	return p.class, nil
}

func (p *Parser) reset(line string, lineNo int) {
	p.text = strings.TrimSpace(line)
	p.tokens = NewLexer([]byte(line), p.file, lineNo).Tokenize()
	p.pos = 0
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF && tok.Kind != TokenError {
		p.pos++
	}
	return tok
}

func (p *Parser) at(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) accept(kind TokenKind) bool {
	if p.at(kind) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.errorf(tok, "expected %s, found %s", kind, describe(tok))
	}
	p.next()
	return tok, nil
}

func (p *Parser) errorf(tok Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Pos:  tok.Span.Start,
		Text: p.text,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func describe(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return "end of line"
	case TokenIdent:
		return strconv.Quote(tok.Literal)
	case TokenError:
		return "unexpected character " + strconv.Quote(tok.Literal)
	}
	return "'" + tok.Literal + "'"
}

func (p *Parser) parseCompiledFrom() (string, error) {
	if tok, err := p.expect(TokenIdent); err != nil || tok.Literal != "Compiled" {
		return "", p.errorf(tok, "expected class header")
	}
	if tok, err := p.expect(TokenIdent); err != nil || tok.Literal != "from" {
		return "", p.errorf(tok, "expected 'from'")
	}
	tok, err := p.expect(TokenStringLiteral)
	if err != nil {
		return "", err
	}
	name, err := strconv.Unquote(tok.Literal)
	if err != nil {
		return "", p.errorf(tok, "invalid source file name")
	}
	return name, nil
}

func (p *Parser) parseModifiers() Modifiers {
	m := Modifiers{Visibility: VisibilityPackage}
	for {
		if p.atSealedModifier() {
			p.next()
			m.Sealed = true
			continue
		}
		if !p.peek().Kind.IsModifier() {
			return m
		}
		switch p.next().Kind {
		case TokenPublic:
			m.Visibility = VisibilityPublic
		case TokenProtected:
			m.Visibility = VisibilityProtected
		case TokenPrivate:
			m.Visibility = VisibilityPrivate
		case TokenStatic:
			m.Static = true
		case TokenFinal:
			m.Final = true
		case TokenAbstract:
			m.Abstract = true
		case TokenNative:
			m.Native = true
		case TokenSynchronized:
			m.Synchronized = true
		case TokenTransient:
			m.Transient = true
		case TokenVolatile:
			m.Volatile = true
		case TokenStrictfp:
			m.Strictfp = true
		case TokenDefault:
			m.Default = true
		case TokenNonSealed:
			m.NonSealed = true
		}
	}
}

// atSealedModifier reports whether the next identifier is the sealed
// modifier rather than a name. As a modifier it is always followed by
// another modifier or the class kind.
func (p *Parser) atSealedModifier() bool {
	if !isContextual(p.peek(), "sealed") {
		return false
	}
	switch next := p.peekN(1); next.Kind {
	case TokenClass, TokenInterface, TokenAt:
		return true
	default:
		return next.Kind.IsModifier() || isContextual(next, "sealed")
	}
}

func isContextual(tok Token, word string) bool {
	return tok.Kind == TokenIdent && tok.Literal == word
}

func (p *Parser) parseHeader() error {
	mods := p.parseModifiers()

	var kind ClassKind
	switch tok := p.next(); {
	case tok.Kind == TokenClass:
		kind = ClassKindClass
	case tok.Kind == TokenInterface:
		kind = ClassKindInterface
	case tok.Kind == TokenEnum:
		kind = ClassKindEnum
	case isContextual(tok, "record"):
		kind = ClassKindRecord
	case tok.Kind == TokenAt:
		if _, err := p.expect(TokenInterface); err != nil {
			return err
		}
		kind = ClassKindAnnotation
	default:
		return p.errorf(tok, "expected class header, found %s", describe(tok))
	}

	segments, err := p.parseNameSegments()
	if err != nil {
		return err
	}
	class := &ClassInfo{
		Name:      qualifiedFromSegments(segments),
		Kind:      kind,
		Modifiers: mods,
	}
	p.class = class

	if p.at(TokenLT) {
		class.Generics, err = p.parseGenerics(nil)
		if err != nil {
			return err
		}
	}
	scope := newScope(class.Generics, nil)

	for !p.at(TokenLBrace) {
		tok := p.next()
		var list *[]Type
		switch {
		case tok.Kind == TokenExtends:
			list = &class.Extends
		case tok.Kind == TokenImplements:
			list = &class.Implements
		case isContextual(tok, "permits"):
			list = &class.Permits
		default:
			return p.errorf(tok, "expected '{', found %s", describe(tok))
		}
		types, err := p.parseTypeList(scope)
		if err != nil {
			return err
		}
		*list = append(*list, types...)
	}
	p.next()
	if !p.at(TokenEOF) {
		return p.errorf(p.peek(), "unexpected %s after '{'", describe(p.peek()))
	}

	if class.Kind == ClassKindClass && len(class.Extends) == 1 {
		if ref, ok := class.Extends[0].(*ClassRef); ok {
			switch ref.Name.String() {
			case "java.lang.Enum":
				class.Kind = ClassKindEnum
			case "java.lang.Record":
				class.Kind = ClassKindRecord
			}
		}
	}
	return nil
}

func (p *Parser) parseMember() error {
	mods := p.parseModifiers()

	var generics []Generic
	if p.at(TokenLT) {
		var err error
		generics, err = p.parseGenerics(p.class.Generics)
		if err != nil {
			return err
		}
	}
	scope := newScope(p.class.Generics, generics)

	if p.at(TokenIdent) {
		save := p.pos
		segments, err := p.parseNameSegments()
		if err != nil {
			return err
		}
		if p.at(TokenLParen) {
			if !p.isConstructorName(segments) {
				return p.errorf(p.tokens[save], "constructor name %s does not match class %s",
					strings.Join(segments, "."), p.class.Name)
			}
			return p.parseConstructorRest(mods, generics, scope)
		}
		p.pos = save
	}

	typ, err := p.parseType(scope, typeContext{allowVoid: true})
	if err != nil {
		return err
	}
	nameTok, err := p.expect(TokenIdent)
	if err != nil {
		return err
	}

	switch {
	case p.at(TokenLParen):
		args, varargs, err := p.parseParams(scope)
		if err != nil {
			return err
		}
		throws, err := p.parseThrows(scope)
		if err != nil {
			return err
		}
		if err := p.finishMember(); err != nil {
			return err
		}
		mods.Varargs = varargs
		p.class.Methods = append(p.class.Methods, Method{
			Name:      nameTok.Literal,
			Modifiers: mods,
			Generics:  generics,
			Args:      args,
			Return:    typ,
			Throws:    throws,
		})
	case p.at(TokenSemicolon):
		if len(generics) > 0 {
			return p.errorf(nameTok, "field %s cannot declare type parameters", nameTok.Literal)
		}
		if IsVoid(typ) {
			return p.errorf(nameTok, "field %s cannot have type void", nameTok.Literal)
		}
		if err := p.finishMember(); err != nil {
			return err
		}
		p.class.Fields = append(p.class.Fields, Field{
			Name:      nameTok.Literal,
			Modifiers: mods,
			Type:      typ,
		})
	default:
		return p.errorf(p.peek(), "expected '(' or ';', found %s", describe(p.peek()))
	}
	return nil
}

func (p *Parser) parseConstructorRest(mods Modifiers, generics []Generic, scope scope) error {
	args, varargs, err := p.parseParams(scope)
	if err != nil {
		return err
	}
	throws, err := p.parseThrows(scope)
	if err != nil {
		return err
	}
	if err := p.finishMember(); err != nil {
		return err
	}
	mods.Varargs = varargs
	p.class.Constructors = append(p.class.Constructors, Constructor{
		Modifiers: mods,
		Generics:  generics,
		Args:      args,
		Throws:    throws,
	})
	return nil
}

func (p *Parser) isConstructorName(segments []string) bool {
	name := strings.Join(segments, ".")
	return name == p.class.Name.String() ||
		name == p.class.Name.Class ||
		name == p.class.Name.SimpleName()
}

func (p *Parser) finishMember() error {
	if _, err := p.expect(TokenSemicolon); err != nil {
		return err
	}
	if !p.at(TokenEOF) {
		return p.errorf(p.peek(), "unexpected %s after ';'", describe(p.peek()))
	}
	return nil
}

// parseNameSegments reads Ident {. Ident}.
func (p *Parser) parseNameSegments() ([]string, error) {
	first, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	segments := []string{first.Literal}
	for p.at(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.next()
		segments = append(segments, p.next().Literal)
	}
	return segments, nil
}

func qualifiedFromSegments(segments []string) QualifiedName {
	return QualifiedName{
		Package: segments[:len(segments)-1],
		Class:   segments[len(segments)-1],
	}
}

type typeContext struct {
	allowVoid     bool
	allowWildcard bool
}

func (p *Parser) parseType(sc scope, ctx typeContext) (Type, error) {
	tok := p.peek()
	var t Type

	switch {
	case tok.Kind.IsPrimitive():
		p.next()
		kind := PrimitiveKind(tok.Literal)
		if kind == Void {
			if !ctx.allowVoid {
				return nil, p.errorf(tok, "void is only allowed as a return type")
			}
			return Primitive{Kind: Void}, nil
		}
		t = Primitive{Kind: kind}
	case tok.Kind == TokenQuestion:
		if !ctx.allowWildcard {
			return nil, p.errorf(tok, "wildcard outside of type arguments")
		}
		p.next()
		w := &Wildcard{Bound: Unbounded}
		switch {
		case p.accept(TokenExtends):
			w.Bound = ExtendsBound
		case p.accept(TokenSuper):
			w.Bound = SuperBound
		default:
			return w, nil
		}
		bound, err := p.parseType(sc, typeContext{})
		if err != nil {
			return nil, err
		}
		w.Type = bound
		return w, nil
	case tok.Kind == TokenIdent:
		ref, err := p.parseClassType(sc)
		if err != nil {
			return nil, err
		}
		t = ref
	default:
		return nil, p.errorf(tok, "expected type, found %s", describe(tok))
	}

	for p.at(TokenLBracket) {
		p.next()
		if _, err := p.expect(TokenRBracket); err != nil {
			return nil, err
		}
		t = &Array{Elem: t}
	}
	return t, nil
}

// parseClassType reads a possibly parameterized class name. A lone
// identifier naming a type parameter in scope becomes a TypeVar. For
// Outer<A>.Inner<B> only the innermost arguments are kept.
func (p *Parser) parseClassType(sc scope) (Type, error) {
	segments, err := p.parseNameSegments()
	if err != nil {
		return nil, err
	}
	if len(segments) == 1 && sc.has(segments[0]) && !p.at(TokenLT) {
		return TypeVar{Name: segments[0]}, nil
	}

	var args []Type
	for p.at(TokenLT) {
		args, err = p.parseTypeArgs(sc)
		if err != nil {
			return nil, err
		}
		if !p.at(TokenDot) || p.peekN(1).Kind != TokenIdent {
			break
		}
		p.next()
		inner, err := p.parseNameSegments()
		if err != nil {
			return nil, err
		}
		last := len(segments) - 1
		segments[last] = segments[last] + "$" + strings.Join(inner, "$")
		args = nil
	}
	return &ClassRef{Name: qualifiedFromSegments(segments), Args: args}, nil
}

func (p *Parser) parseTypeArgs(sc scope) ([]Type, error) {
	if _, err := p.expect(TokenLT); err != nil {
		return nil, err
	}
	var args []Type
	for {
		t, err := p.parseType(sc, typeContext{allowWildcard: true})
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		if !p.accept(TokenComma) {
			break
		}
	}
	if _, err := p.expect(TokenGT); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseTypeList(sc scope) ([]Type, error) {
	var types []Type
	for {
		t, err := p.parseType(sc, typeContext{})
		if err != nil {
			return nil, err
		}
		types = append(types, t)
		if !p.accept(TokenComma) {
			return types, nil
		}
	}
}

func (p *Parser) parseParams(sc scope) ([]Type, bool, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, false, err
	}
	var args []Type
	varargs := false
	if p.accept(TokenRParen) {
		return args, false, nil
	}
	for {
		t, err := p.parseType(sc, typeContext{})
		if err != nil {
			return nil, false, err
		}
		if p.at(TokenEllipsis) {
			tok := p.next()
			if !p.at(TokenRParen) {
				return nil, false, p.errorf(tok, "varargs parameter must be last")
			}
			t = &Array{Elem: t}
			varargs = true
		}
		args = append(args, t)
		if !p.accept(TokenComma) {
			break
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, false, err
	}
	return args, varargs, nil
}

func (p *Parser) parseThrows(sc scope) ([]Type, error) {
	if !p.accept(TokenThrows) {
		return nil, nil
	}
	return p.parseTypeList(sc)
}

// parseGenerics reads <T, U extends Bound & Other>. Bounds may refer to any
// parameter of the same list, so names are collected before bounds are
// parsed.
func (p *Parser) parseGenerics(outer []Generic) ([]Generic, error) {
	if _, err := p.expect(TokenLT); err != nil {
		return nil, err
	}
	names := p.scanGenericNames()
	sc := newScope(outer, nil)
	for _, n := range names {
		sc[n] = true
	}

	var generics []Generic
	for {
		nameTok, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		g := Generic{Name: nameTok.Literal}
		if p.accept(TokenExtends) {
			for {
				bound, err := p.parseType(sc, typeContext{})
				if err != nil {
					return nil, err
				}
				g.Bounds = append(g.Bounds, bound)
				if !p.accept(TokenAmp) {
					break
				}
			}
		}
		generics = append(generics, g)
		if !p.accept(TokenComma) {
			break
		}
	}
	if _, err := p.expect(TokenGT); err != nil {
		return nil, err
	}
	return generics, nil
}

func (p *Parser) scanGenericNames() []string {
	var names []string
	depth := 1
	expectName := true
	for i := p.pos; i < len(p.tokens) && depth > 0; i++ {
		switch tok := p.tokens[i]; tok.Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenComma:
			if depth == 1 {
				expectName = true
			}
		case TokenIdent:
			if depth == 1 && expectName {
				names = append(names, tok.Literal)
				expectName = false
			}
		case TokenEOF, TokenError:
			return names
		}
	}
	return names
}

type scope map[string]bool

func newScope(class, member []Generic) scope {
	sc := make(scope, len(class)+len(member))
	for _, g := range class {
		sc[g.Name] = true
	}
	for _, g := range member {
		sc[g.Name] = true
	}
	return sc
}

func (s scope) has(name string) bool {
	return s[name]
}
