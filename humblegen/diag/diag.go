// Package diag defines the structured diagnostics shared by all compiler
// stages. Syntax and semantic errors are both reported as Diagnostic values
// so the CLI can render them uniformly and pick an exit code.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityError suppresses code generation for the file.
	SeverityError Severity = iota

	// SeverityWarning is reported but does not affect compilation.
	SeverityWarning
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Kind is a machine-readable diagnostic identifier.
type Kind string

const (
	KindSyntax               Kind = "syntax"
	KindDuplicateDefinition  Kind = "duplicate_definition"
	KindDuplicateName        Kind = "duplicate_name"
	KindUnknownType          Kind = "unknown_type"
	KindIllegalRecursiveType Kind = "illegal_recursive_type"
	KindInvalidEmbed         Kind = "invalid_embed"
	KindInvalidMapKey        Kind = "invalid_map_key"
	KindInvalidFieldType     Kind = "invalid_field_type"
	KindInvalidMethodType    Kind = "invalid_method_type"
	KindReservedName         Kind = "reserved_name"
	KindFormat               Kind = "format"
)

// Pos is a source position. Line and Column are 1-based; a zero Pos means
// the position is unknown.
type Pos struct {
	File   string
	Line   int
	Column int
}

// IsZero reports whether the position is unknown.
func (p Pos) IsZero() bool {
	return p.File == "" && p.Line == 0 && p.Column == 0
}

// String formats the position as file:line:column.
func (p Pos) String() string {
	if p.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Related points at a secondary source location, e.g. the first declaration
// site of a duplicated name.
type Related struct {
	Pos  Pos
	Note string
}

// Diagnostic describes a single compiler finding.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Pos      Pos
	Related  []Related
}

// Error implements the error interface so a Diagnostic can travel through
// error-returning call chains.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// List is an ordered collection of diagnostics. The zero value is ready to
// use. It is the accumulator passed through the resolver: validation steps
// append findings instead of failing on the first one.
type List []Diagnostic

// Errorf appends an error diagnostic with a formatted message.
func (l *List) Errorf(kind Kind, pos Pos, format string, args ...any) {
	*l = append(*l, Diagnostic{
		Severity: SeverityError,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// Warnf appends a warning diagnostic with a formatted message.
func (l *List) Warnf(kind Kind, pos Pos, format string, args ...any) {
	*l = append(*l, Diagnostic{
		Severity: SeverityWarning,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// Add appends a fully built diagnostic.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// HasErrors reports whether the list contains at least one error-severity
// diagnostic. Warnings alone never suppress code generation.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by source position so output is stable regardless
// of the order validation steps ran in.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i].Pos, l[j].Pos
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// String renders every diagnostic on its own line.
func (l List) String() string {
	var sb strings.Builder
	for i, d := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.Error())
	}
	return sb.String()
}
