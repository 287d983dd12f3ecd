package signature

import "github.com/dhamidi/jreflect/diag"

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError

	TokenIdent
	TokenStringLiteral

	// Modifiers
	TokenPublic
	TokenProtected
	TokenPrivate
	TokenStatic
	TokenFinal
	TokenAbstract
	TokenNative
	TokenSynchronized
	TokenTransient
	TokenVolatile
	TokenStrictfp
	TokenDefault
	TokenNonSealed

	// Primitive types
	TokenBoolean
	TokenByte
	TokenChar
	TokenShort
	TokenInt
	TokenLong
	TokenFloat
	TokenDouble
	TokenVoid

	// Declarations
	TokenClass
	TokenInterface
	TokenEnum
	TokenExtends
	TokenImplements
	TokenThrows
	TokenSuper

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenLT
	TokenGT
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenQuestion
	TokenAmp
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "end of line",
	TokenError:         "Error",
	TokenIdent:         "Identifier",
	TokenStringLiteral: "StringLiteral",
	TokenPublic:        "public",
	TokenProtected:     "protected",
	TokenPrivate:       "private",
	TokenStatic:        "static",
	TokenFinal:         "final",
	TokenAbstract:      "abstract",
	TokenNative:        "native",
	TokenSynchronized:  "synchronized",
	TokenTransient:     "transient",
	TokenVolatile:      "volatile",
	TokenStrictfp:      "strictfp",
	TokenDefault:       "default",
	TokenNonSealed:     "non-sealed",
	TokenBoolean:       "boolean",
	TokenByte:          "byte",
	TokenChar:          "char",
	TokenShort:         "short",
	TokenInt:           "int",
	TokenLong:          "long",
	TokenFloat:         "float",
	TokenDouble:        "double",
	TokenVoid:          "void",
	TokenClass:         "class",
	TokenInterface:     "interface",
	TokenEnum:          "enum",
	TokenExtends:       "extends",
	TokenImplements:    "implements",
	TokenThrows:        "throws",
	TokenSuper:         "super",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenLT:            "<",
	TokenGT:            ">",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenEllipsis:      "...",
	TokenAt:            "@",
	TokenQuestion:      "?",
	TokenAmp:           "&",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (k TokenKind) IsModifier() bool {
	return k >= TokenPublic && k <= TokenNonSealed
}

func (k TokenKind) IsPrimitive() bool {
	return k >= TokenBoolean && k <= TokenVoid
}

type Token struct {
	Kind    TokenKind
	Span    diag.Span
	Literal string
}

// keywords holds the reserved words. The contextual keywords sealed, record
// and permits lex as identifiers since they are valid package, field and
// method names.
var keywords = map[string]TokenKind{
	"public":       TokenPublic,
	"protected":    TokenProtected,
	"private":      TokenPrivate,
	"static":       TokenStatic,
	"final":        TokenFinal,
	"abstract":     TokenAbstract,
	"native":       TokenNative,
	"synchronized": TokenSynchronized,
	"transient":    TokenTransient,
	"volatile":     TokenVolatile,
	"strictfp":     TokenStrictfp,
	"default":      TokenDefault,
	"boolean":      TokenBoolean,
	"byte":         TokenByte,
	"char":         TokenChar,
	"short":        TokenShort,
	"int":          TokenInt,
	"long":         TokenLong,
	"float":        TokenFloat,
	"double":       TokenDouble,
	"void":         TokenVoid,
	"class":        TokenClass,
	"interface":    TokenInterface,
	"enum":         TokenEnum,
	"extends":      TokenExtends,
	"implements":   TokenImplements,
	"throws":       TokenThrows,
	"super":        TokenSuper,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
