package golang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Go reserved words. Generated identifiers that collide get a trailing
// underscore.
var reservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
}

// escapeReservedWord escapes a reserved word by appending an underscore.
func escapeReservedWord(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

// splitWords breaks an identifier into words on underscores and on
// lower-to-upper case boundaries. Runs of upper case count as one word, so
// "MY_FIELD" and "my_field" split identically.
func splitWords(name string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

// toPascalCase converts a declared name to PascalCase. The conversion is a
// pure function of the input so generated output is reproducible. Case
// changes work on the first rune, not the first byte, so a multi-byte
// letter never splits.
func toPascalCase(name string) string {
	var sb strings.Builder
	for _, word := range splitWords(name) {
		lower := strings.ToLower(word)
		r, size := utf8.DecodeRuneInString(lower)
		sb.WriteRune(unicode.ToUpper(r))
		sb.WriteString(lower[size:])
	}
	return sb.String()
}

// toCamelCase converts a declared name to camelCase.
func toCamelCase(name string) string {
	pascal := toPascalCase(name)
	if pascal == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(pascal)
	return escapeReservedWord(string(unicode.ToLower(r)) + pascal[size:])
}
