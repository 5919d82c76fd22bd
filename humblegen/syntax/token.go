package syntax

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenDoc // one /// doc comment block (contiguous lines joined)

	// Keywords
	TokenStruct
	TokenEnum
	TokenService

	// Punctuation
	TokenLBrace // {
	TokenRBrace // }
	TokenLParen // (
	TokenRParen // )
	TokenLAngle // <
	TokenRAngle // >
	TokenComma  // ,
	TokenColon  // :
	TokenArrow  // ->
	TokenDotDot // ..
)

// String returns a human-readable description used in error messages.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of file"
	case TokenIdent:
		return "identifier"
	case TokenDoc:
		return "doc comment"
	case TokenStruct:
		return "'struct'"
	case TokenEnum:
		return "'enum'"
	case TokenService:
		return "'service'"
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLAngle:
		return "'<'"
	case TokenRAngle:
		return "'>'"
	case TokenComma:
		return "','"
	case TokenColon:
		return "':'"
	case TokenArrow:
		return "'->'"
	case TokenDotDot:
		return "'..'"
	default:
		return "unknown token"
	}
}

// Token is a single lexical unit with its source position.
type Token struct {
	Kind TokenKind

	// Text is the raw token text. For TokenDoc it is the comment body with
	// the leading "///" markers stripped, lines joined with newlines.
	Text string

	Line   int // 1-based
	Column int // 1-based
}

// describe renders the token for expected-vs-found error messages.
func (t Token) describe() string {
	switch t.Kind {
	case TokenIdent:
		return fmt.Sprintf("identifier %q", t.Text)
	case TokenEOF:
		return "end of file"
	default:
		return t.Kind.String()
	}
}

var keywords = map[string]TokenKind{
	"struct":  TokenStruct,
	"enum":    TokenEnum,
	"service": TokenService,
}
