package signature

import "testing"

func TestLexer(t *testing.T) {
	input := `  public static <T> java.util.Map$Entry<? super T, int[]> of(T...) throws non-sealed;`
	want := []struct {
		kind    TokenKind
		literal string
	}{
		{TokenPublic, "public"},
		{TokenStatic, "static"},
		{TokenLT, "<"},
		{TokenIdent, "T"},
		{TokenGT, ">"},
		{TokenIdent, "java"},
		{TokenDot, "."},
		{TokenIdent, "util"},
		{TokenDot, "."},
		{TokenIdent, "Map$Entry"},
		{TokenLT, "<"},
		{TokenQuestion, "?"},
		{TokenSuper, "super"},
		{TokenIdent, "T"},
		{TokenComma, ","},
		{TokenInt, "int"},
		{TokenLBracket, "["},
		{TokenRBracket, "]"},
		{TokenGT, ">"},
		{TokenIdent, "of"},
		{TokenLParen, "("},
		{TokenIdent, "T"},
		{TokenEllipsis, "..."},
		{TokenRParen, ")"},
		{TokenThrows, "throws"},
		{TokenNonSealed, "non-sealed"},
		{TokenSemicolon, ";"},
		{TokenEOF, ""},
	}

	tokens := NewLexer([]byte(input), "test.javap", 4).Tokenize()
	if len(tokens) != len(want) {
		t.Fatalf("Expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i, w := range want {
		if tokens[i].Kind != w.kind || tokens[i].Literal != w.literal {
			t.Errorf("token[%d] = %v %q, want %v %q", i, tokens[i].Kind, tokens[i].Literal, w.kind, w.literal)
		}
	}

	first := tokens[0].Span.Start
	if first.Line != 4 || first.Column != 3 || first.File != "test.javap" {
		t.Errorf("first token position = %+v", first)
	}
}

func TestLexerStringAndError(t *testing.T) {
	tokens := NewLexer([]byte(`Compiled from "Foo.java" #`), "", 1).Tokenize()
	kinds := []TokenKind{TokenIdent, TokenIdent, TokenStringLiteral, TokenError}
	if len(tokens) != len(kinds) {
		t.Fatalf("Expected %d tokens, got %d", len(kinds), len(tokens))
	}
	for i, k := range kinds {
		if tokens[i].Kind != k {
			t.Errorf("token[%d] = %v, want %v", i, tokens[i].Kind, k)
		}
	}
	if tokens[2].Literal != `"Foo.java"` {
		t.Errorf("string literal = %q", tokens[2].Literal)
	}
}
