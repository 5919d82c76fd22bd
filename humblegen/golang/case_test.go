package golang

import (
	"testing"
	"unicode/utf8"
)

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name", "Name"},
		{"pet_name", "PetName"},
		{"petName", "PetName"},
		{"PetName", "PetName"},
		{"MY_FIELD", "MyField"},
		{"my-field", "MyField"},
		{"a", "A"},
		{"", ""},
		{"already_Pascal", "AlreadyPascal"},
	}
	for _, tt := range tests {
		if got := toPascalCase(tt.in); got != tt.want {
			t.Errorf("toPascalCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCaseConversionMultiByteRunes(t *testing.T) {
	// Schema identifiers are ASCII, but the conversion must stay total:
	// a multi-byte first letter upcases as a rune and never produces
	// invalid UTF-8 by slicing through its encoding.
	tests := []struct {
		in, pascal, camel string
	}{
		{"öl_wert", "ÖlWert", "ölWert"},
		{"Öl", "Öl", "öl"},
		{"préis", "Préis", "préis"},
	}
	for _, tt := range tests {
		pascal := toPascalCase(tt.in)
		if pascal != tt.pascal {
			t.Errorf("toPascalCase(%q) = %q, want %q", tt.in, pascal, tt.pascal)
		}
		if !utf8.ValidString(pascal) {
			t.Errorf("toPascalCase(%q) produced invalid UTF-8 %q", tt.in, pascal)
		}
		camel := toCamelCase(tt.in)
		if camel != tt.camel {
			t.Errorf("toCamelCase(%q) = %q, want %q", tt.in, camel, tt.camel)
		}
		if !utf8.ValidString(camel) {
			t.Errorf("toCamelCase(%q) produced invalid UTF-8 %q", tt.in, camel)
		}
	}
}

func TestToCamelCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name", "name"},
		{"pet_name", "petName"},
		{"PetName", "petName"},
		{"MY_FIELD", "myField"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := toCamelCase(tt.in); got != tt.want {
			t.Errorf("toCamelCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToCamelCaseEscapesReservedWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"type", "type_"},
		{"range", "range_"},
		{"map", "map_"},
		{"func", "func_"},
	}
	for _, tt := range tests {
		if got := toCamelCase(tt.in); got != tt.want {
			t.Errorf("toCamelCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"petName", []string{"pet", "Name"}},
		{"pet_name", []string{"pet", "name"}},
		{"HTTPServer", []string{"HTTPServer"}},
		{"__x__", []string{"x"}},
	}
	for _, tt := range tests {
		got := splitWords(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitWords(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitWords(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}
