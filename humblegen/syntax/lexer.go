package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer turns schema source text into a token stream. Whitespace and plain
// // comments are insignificant and dropped; /// doc comments are
// significant and emitted as TokenDoc, with contiguous doc lines collapsed
// into a single token bound to the following declaration.
type lexer struct {
	file string
	src  string

	offset int
	line   int
	column int
}

func newLexer(file, src string) *lexer {
	return &lexer{file: file, src: src, line: 1, column: 1}
}

// Lex tokenizes the entire input. It stops at the first lexical error.
func (l *lexer) Lex() ([]Token, *SyntaxError) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) peek() rune {
	if l.offset >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.offset:])
	return r
}

func (l *lexer) peekAt(n int) rune {
	off := l.offset
	for ; n > 0 && off < len(l.src); n-- {
		_, size := utf8.DecodeRuneInString(l.src[off:])
		off += size
	}
	if off >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[off:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *lexer) next() (Token, *SyntaxError) {
	for {
		l.skipSpace()

		if l.offset >= len(l.src) {
			return Token{Kind: TokenEOF, Line: l.line, Column: l.column}, nil
		}

		r := l.peek()

		if r == '/' && l.peekAt(1) == '/' {
			if l.peekAt(2) == '/' {
				return l.lexDoc(), nil
			}
			l.skipLineComment()
			continue
		}

		line, col := l.line, l.column

		if isIdentStart(r) {
			text := l.lexIdent()
			kind := TokenIdent
			if kw, ok := keywords[text]; ok {
				kind = kw
			}
			return Token{Kind: kind, Text: text, Line: line, Column: col}, nil
		}

		switch r {
		case '{':
			l.advance()
			return Token{Kind: TokenLBrace, Text: "{", Line: line, Column: col}, nil
		case '}':
			l.advance()
			return Token{Kind: TokenRBrace, Text: "}", Line: line, Column: col}, nil
		case '(':
			l.advance()
			return Token{Kind: TokenLParen, Text: "(", Line: line, Column: col}, nil
		case ')':
			l.advance()
			return Token{Kind: TokenRParen, Text: ")", Line: line, Column: col}, nil
		case '<':
			l.advance()
			return Token{Kind: TokenLAngle, Text: "<", Line: line, Column: col}, nil
		case '>':
			l.advance()
			return Token{Kind: TokenRAngle, Text: ">", Line: line, Column: col}, nil
		case ',':
			l.advance()
			return Token{Kind: TokenComma, Text: ",", Line: line, Column: col}, nil
		case ':':
			l.advance()
			return Token{Kind: TokenColon, Text: ":", Line: line, Column: col}, nil
		case '-':
			if l.peekAt(1) == '>' {
				l.advance()
				l.advance()
				return Token{Kind: TokenArrow, Text: "->", Line: line, Column: col}, nil
			}
		case '.':
			if l.peekAt(1) == '.' {
				l.advance()
				l.advance()
				return Token{Kind: TokenDotDot, Text: "..", Line: line, Column: col}, nil
			}
		}

		return Token{}, &SyntaxError{
			Pos:      Position{File: l.file, Line: line, Column: col},
			Expected: "declaration or type syntax",
			Found:    "character " + string(r),
		}
	}
}

func (l *lexer) skipSpace() {
	for l.offset < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

func (l *lexer) skipLineComment() {
	for l.offset < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// lexDoc consumes one block of contiguous /// lines. The "///" marker and a
// single following space are stripped from each line; the remainder is kept
// verbatim so markdown structure survives.
func (l *lexer) lexDoc() Token {
	line, col := l.line, l.column
	var lines []string
	for {
		if !(l.peek() == '/' && l.peekAt(1) == '/' && l.peekAt(2) == '/') {
			break
		}
		l.advance()
		l.advance()
		l.advance()

		start := l.offset
		for l.offset < len(l.src) && l.peek() != '\n' {
			l.advance()
		}
		text := l.src[start:l.offset]
		text = strings.TrimPrefix(text, " ")
		lines = append(lines, text)

		if l.offset < len(l.src) {
			l.advance() // consume newline
		}
		// Only horizontal whitespace may separate doc lines; a blank line
		// ends the block.
		for l.offset < len(l.src) && (l.peek() == ' ' || l.peek() == '\t') {
			l.advance()
		}
	}
	return Token{Kind: TokenDoc, Text: strings.Join(lines, "\n"), Line: line, Column: col}
}

func (l *lexer) lexIdent() string {
	start := l.offset
	for l.offset < len(l.src) && isIdentPart(l.peek()) {
		l.advance()
	}
	return l.src[start:l.offset]
}

// Identifiers are ASCII. Generated code derives Go identifiers from
// declared names, and the exported/unexported distinction only behaves
// predictably for ASCII letters.
func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
