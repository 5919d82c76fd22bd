// Package golang lowers a resolved schema into Go source: type
// declarations, JSON serialization, and service interfaces wired to the
// runtime package. Output is deterministic: emission follows declaration
// order and never iterates a map.
package golang

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/humblelang/humble/humblegen/ir"
)

// DefaultRuntimeImport is the import path of the runtime support library
// that generated service code links against.
const DefaultRuntimeImport = "github.com/humblelang/humble"

// Config controls code generation for one compilation unit.
type Config struct {
	// Package is the Go package name of the generated file.
	Package string

	// RuntimeImport overrides the runtime library import path.
	// Defaults to DefaultRuntimeImport.
	RuntimeImport string

	// DisallowUnknownFields emits struct decoders that reject unknown
	// JSON properties. The default is to tolerate them.
	DisallowUnknownFields bool
}

func (c Config) runtimeImport() string {
	if c.RuntimeImport != "" {
		return c.RuntimeImport
	}
	return DefaultRuntimeImport
}

// Generate lowers a resolved schema into a single Go source blob. The
// schema must come from a successful resolve pass; generation never runs
// on an AST with outstanding semantic errors. Output is syntactically
// valid but unformatted; the caller is responsible for running the
// formatter.
func Generate(schema *ir.Schema, cfg Config) ([]byte, error) {
	if cfg.Package == "" {
		return nil, fmt.Errorf("golang: package name is required")
	}

	e := &emitter{
		schema:  schema,
		cfg:     cfg,
		imports: make(map[string]bool),
		tuples:  make(map[string]*ir.Tuple),
	}

	var body bytes.Buffer
	for _, def := range schema.Defs {
		switch d := def.(type) {
		case *ir.StructDef:
			e.emitStruct(&body, d)
		case *ir.EnumDef:
			e.emitEnum(&body, d)
		case *ir.ServiceDef:
			e.emitService(&body, d)
		}
	}
	e.emitTupleTypes(&body)

	var out bytes.Buffer
	fmt.Fprintf(&out, "// Code generated by humblec from %s. DO NOT EDIT.\n\n", schema.Name)
	fmt.Fprintf(&out, "package %s\n\n", cfg.Package)
	e.writeImports(&out)
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

// writeImports assembles the import block from the paths recorded during
// emission, standard library first, both groups sorted.
func (e *emitter) writeImports(out *bytes.Buffer) {
	if len(e.imports) == 0 {
		return
	}
	var std, other []string
	for path := range e.imports {
		if strings.Contains(path, ".") {
			other = append(other, path)
		} else {
			std = append(std, path)
		}
	}
	sort.Strings(std)
	sort.Strings(other)

	out.WriteString("import (\n")
	for _, path := range std {
		fmt.Fprintf(out, "\t%q\n", path)
	}
	if len(std) > 0 && len(other) > 0 {
		out.WriteByte('\n')
	}
	for _, path := range other {
		fmt.Fprintf(out, "\t%q\n", path)
	}
	out.WriteString(")\n\n")
}
