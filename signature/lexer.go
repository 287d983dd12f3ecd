package signature

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/jreflect/diag"
)

// Lexer splits one listing line into tokens. Whitespace is dropped; javap
// output carries no comments.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string, line int) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   line,
		column: 1,
	}
}

func (l *Lexer) Position() diag.Position {
	return diag.Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.pos += size
	l.column++
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
		} else {
			return
		}
	}
}

// Tokenize returns every token of the input followed by TokenEOF.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF || tok.Kind == TokenError {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: diag.At(startPos)}
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])
	if isJavaLetterRune(r) {
		return l.scanIdentOrKeyword(startPos)
	}
	if l.peek() == '"' {
		return l.scanStringLiteral(startPos)
	}
	return l.scanPunctuation(startPos)
}

func (l *Lexer) scanIdentOrKeyword(start diag.Position) Token {
	for l.pos < len(l.input) {
		r, _ := utf8.DecodeRune(l.input[l.pos:])
		if !isJavaLetterRune(r) && !unicode.IsDigit(r) {
			break
		}
		l.advance()
	}
	end := l.Position()
	literal := string(l.input[start.Offset:end.Offset])

	if literal == "non" && l.peek() == '-' {
		remaining := l.input[l.pos:]
		if len(remaining) >= 7 && string(remaining[:7]) == "-sealed" {
			if len(remaining) == 7 || !isJavaLetterRune(rune(remaining[7])) {
				l.advanceN(7)
				end = l.Position()
				return Token{
					Kind:    TokenNonSealed,
					Span:    diag.Span{Start: start, End: end},
					Literal: "non-sealed",
				}
			}
		}
	}

	return Token{
		Kind:    LookupKeyword(literal),
		Span:    diag.Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanStringLiteral(start diag.Position) Token {
	l.advance()
	for {
		ch := l.peek()
		if l.pos >= len(l.input) {
			return l.token(TokenError, start)
		}
		if ch == '\\' {
			l.advanceN(2)
			continue
		}
		l.advance()
		if ch == '"' {
			return l.token(TokenStringLiteral, start)
		}
	}
}

func (l *Lexer) scanPunctuation(start diag.Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '{':
		l.advance()
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		return l.token(TokenRBrace, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case '<':
		l.advance()
		return l.token(TokenLT, start)
	case '>':
		l.advance()
		return l.token(TokenGT, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '@':
		l.advance()
		return l.token(TokenAt, start)
	case '?':
		l.advance()
		return l.token(TokenQuestion, start)
	case '&':
		l.advance()
		return l.token(TokenAmp, start)
	case '.':
		if l.peekN(1) == '.' && l.peekN(2) == '.' {
			l.advanceN(3)
			return l.token(TokenEllipsis, start)
		}
		l.advance()
		return l.token(TokenDot, start)
	}

	l.advance()
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start diag.Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    diag.Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isJavaLetterRune(r rune) bool {
	if r >= utf8.RuneSelf {
		return unicode.IsLetter(r)
	}
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
}
