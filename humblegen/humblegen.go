// Package humblegen is the compilation pipeline for the humble schema
// language: source text is parsed into a concrete tree, built into a raw
// AST, resolved into a closed type graph, and lowered into Go source with
// serialization logic and service interfaces.
//
// Each call to Compile is a pure function from schema text to generated
// text plus diagnostics. The pipeline holds no process-wide state, so
// independent files may be compiled concurrently.
package humblegen

import (
	"path"
	"strings"

	"github.com/humblelang/humble/humblegen/diag"
	"github.com/humblelang/humble/humblegen/golang"
	"github.com/humblelang/humble/humblegen/ir"
	"github.com/humblelang/humble/humblegen/resolve"
	"github.com/humblelang/humble/humblegen/syntax"
)

// File is one generated output file.
type File struct {
	// Path is the output path relative to the output directory.
	Path string

	// Content is the generated Go source, formatted unless formatting
	// failed (which is reported as a warning, never an error).
	Content []byte
}

// Result is the outcome of compiling one schema file. Files is empty
// whenever Diagnostics contains an error.
type Result struct {
	Files       []File
	Diagnostics diag.List
}

// Ok reports whether compilation succeeded. Warnings do not fail a
// compilation.
func (r *Result) Ok() bool {
	return !r.Diagnostics.HasErrors()
}

// Compile runs the full pipeline over one compilation unit. A syntax error
// stops the pipeline immediately; semantic errors are collected
// exhaustively and suppress code generation for this file only.
func Compile(filename string, src []byte, cfg *Config) *Result {
	res := &Result{}

	tree, err := syntax.Parse(filename, string(src))
	if err != nil {
		res.Diagnostics.Add(syntaxDiagnostic(err))
		return res
	}

	schema := ir.Build(tree)

	resolved, diags := resolve.Resolve(schema)
	res.Diagnostics = append(res.Diagnostics, diags...)
	if resolved == nil {
		return res
	}

	code, genErr := golang.Generate(resolved, golang.Config{
		Package:               cfg.Package,
		RuntimeImport:         cfg.RuntimeImport,
		DisallowUnknownFields: cfg.DisallowUnknownFields,
	})
	if genErr != nil {
		res.Diagnostics.Errorf(diag.KindSyntax, diag.Pos{File: filename}, "code generation failed: %v", genErr)
		return res
	}

	outPath := OutputPath(filename)
	if cfg.format() {
		formatted, fmtErr := formatSource(outPath, code)
		if fmtErr != nil {
			// Formatting is cosmetic; a missing or failing formatter must
			// not fail the compilation.
			res.Diagnostics.Warnf(diag.KindFormat, diag.Pos{File: filename},
				"formatter failed, emitting unformatted source: %v", fmtErr)
		} else {
			code = formatted
		}
	}

	res.Files = append(res.Files, File{Path: outPath, Content: code})
	return res
}

// OutputPath derives the generated file name for a schema file:
// pets.humble becomes pets.gen.go.
func OutputPath(filename string) string {
	base := path.Base(filename)
	base = strings.TrimSuffix(base, ".humble")
	return base + ".gen.go"
}

func syntaxDiagnostic(err error) diag.Diagnostic {
	if synErr, ok := err.(*syntax.SyntaxError); ok {
		return diag.Diagnostic{
			Severity: diag.SeverityError,
			Kind:     diag.KindSyntax,
			Message:  "expected " + synErr.Expected + ", found " + synErr.Found,
			Pos: diag.Pos{
				File:   synErr.Pos.File,
				Line:   synErr.Pos.Line,
				Column: synErr.Pos.Column,
			},
		}
	}
	return diag.Diagnostic{
		Severity: diag.SeverityError,
		Kind:     diag.KindSyntax,
		Message:  err.Error(),
	}
}
