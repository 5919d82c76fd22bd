package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lex(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := newLexer("test.humble", src).Lex()
	require.Nil(t, err)
	return tokens
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestLexStruct(t *testing.T) {
	tokens := lex(t, "struct Pet { name: str, }")
	assert.Equal(t, []TokenKind{
		TokenStruct, TokenIdent, TokenLBrace,
		TokenIdent, TokenColon, TokenIdent, TokenComma,
		TokenRBrace, TokenEOF,
	}, kinds(tokens))
	assert.Equal(t, "Pet", tokens[1].Text)
	assert.Equal(t, "name", tokens[3].Text)
}

func TestLexPunctuation(t *testing.T) {
	tokens := lex(t, "( ) < > , : -> ..")
	assert.Equal(t, []TokenKind{
		TokenLParen, TokenRParen, TokenLAngle, TokenRAngle,
		TokenComma, TokenColon, TokenArrow, TokenDotDot, TokenEOF,
	}, kinds(tokens))
}

func TestLexKeywords(t *testing.T) {
	tokens := lex(t, "struct enum service structs")
	assert.Equal(t, []TokenKind{
		TokenStruct, TokenEnum, TokenService, TokenIdent, TokenEOF,
	}, kinds(tokens))
	// "structs" is an ordinary identifier, not a keyword prefix match.
	assert.Equal(t, "structs", tokens[3].Text)
}

func TestLexPositions(t *testing.T) {
	tokens := lex(t, "struct Pet {\n  name: str,\n}")
	name := tokens[3]
	assert.Equal(t, "name", name.Text)
	assert.Equal(t, 2, name.Line)
	assert.Equal(t, 3, name.Column)
}

func TestLexLineCommentsDropped(t *testing.T) {
	tokens := lex(t, "// heading\nstruct Pet {} // trailer")
	assert.Equal(t, []TokenKind{
		TokenStruct, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF,
	}, kinds(tokens))
}

func TestLexDocComment(t *testing.T) {
	src := "/// A pet in the system.\n/// Second line.\nstruct Pet {}"
	tokens := lex(t, src)
	require.Equal(t, TokenDoc, tokens[0].Kind)
	assert.Equal(t, "A pet in the system.\nSecond line.", tokens[0].Text)
	assert.Equal(t, TokenStruct, tokens[1].Kind)
}

func TestLexDocCommentBlankLineSplits(t *testing.T) {
	src := "/// first\n\n/// second\nstruct Pet {}"
	tokens := lex(t, src)
	require.Equal(t, TokenDoc, tokens[0].Kind)
	assert.Equal(t, "first", tokens[0].Text)
	require.Equal(t, TokenDoc, tokens[1].Kind)
	assert.Equal(t, "second", tokens[1].Text)
}

func TestLexDocCommentPreservesMarkdown(t *testing.T) {
	src := "/// Intro.\n///\n/// - one\n/// - two\nstruct Pet {}"
	tokens := lex(t, src)
	require.Equal(t, TokenDoc, tokens[0].Kind)
	assert.Equal(t, "Intro.\n\n- one\n- two", tokens[0].Text)
}

func TestLexBadCharacter(t *testing.T) {
	_, err := newLexer("test.humble", "struct Pet { name: str; }").Lex()
	require.NotNil(t, err)
	assert.Equal(t, 1, err.Pos.Line)
	assert.Equal(t, 23, err.Pos.Column)
	assert.Contains(t, err.Found, ";")
}

func TestLexNonASCIIIdentRejected(t *testing.T) {
	// Identifiers are ASCII only; a multi-byte letter is a lexical error
	// with a position, not a silent pass-through into generated names.
	_, err := newLexer("test.humble", "struct Preis { öl_wert: f64 }").Lex()
	require.NotNil(t, err)
	assert.Equal(t, 1, err.Pos.Line)
	assert.Equal(t, 16, err.Pos.Column)
	assert.Contains(t, err.Found, "ö")
}
