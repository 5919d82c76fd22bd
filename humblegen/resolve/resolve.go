// Package resolve validates the raw AST and links named type references,
// producing the resolved schema consumed by code generation.
//
// Resolution collects every discoverable error in one pass instead of
// stopping at the first: independent definitions validate independently, so
// the diag.List accumulator is threaded through each step. The result is
// all-or-nothing: either a fully resolved schema with no errors, or nil and
// the complete error set. A partially resolved schema is never returned.
package resolve

import (
	"strings"

	"github.com/humblelang/humble/humblegen/diag"
	"github.com/humblelang/humble/humblegen/ir"
)

// maxEmbedDepth caps fixed-point embed expansion. An embed chain deeper
// than this is treated as a cycle.
const maxEmbedDepth = 10

// Resolve validates s in place and links every named type reference to its
// target definition. On success the returned schema contains no embed
// fields and every ir.Named has a valid Target.
func Resolve(s *ir.Schema) (*ir.Schema, diag.List) {
	r := &resolver{schema: s, symbols: make(map[string]ir.DefID)}

	r.collectSymbols()
	r.expandEmbeds()
	r.resolveReferences()
	r.checkUniqueNames()
	r.checkFieldTypes()
	r.checkMethodTypes()
	r.checkRecursion()

	r.diags.Sort()
	if r.diags.HasErrors() {
		return nil, r.diags
	}
	return s, r.diags
}

type resolver struct {
	schema  *ir.Schema
	symbols map[string]ir.DefID
	diags   diag.List
}

func (r *resolver) pos(src ir.Source) diag.Pos {
	return diag.Pos{File: src.File, Line: src.Line, Column: src.Column}
}

// collectSymbols builds the top-level symbol table. On a duplicate name the
// first declaration wins so downstream steps still resolve against it.
// Built-in type names are rejected here: in type position they always mean
// the built-in, so a definition using one could never be referenced.
func (r *resolver) collectSymbols() {
	for id, def := range r.schema.Defs {
		name := def.DefName()
		if ir.IsReservedTypeName(name) {
			r.diags.Errorf(diag.KindReservedName, r.pos(def.Src()),
				"cannot define %s %s: %s is a built-in type name", def.Kind(), name, name)
			continue
		}
		if first, ok := r.symbols[name]; ok {
			d := diag.Diagnostic{
				Severity: diag.SeverityError,
				Kind:     diag.KindDuplicateDefinition,
				Message:  "duplicate definition of " + name,
				Pos:      r.pos(def.Src()),
				Related: []diag.Related{{
					Pos:  r.pos(r.schema.Defs[first].Src()),
					Note: "first declared here",
				}},
			}
			r.diags.Add(d)
			continue
		}
		r.symbols[name] = ir.DefID(id)
	}
}

// expandEmbeds flattens ".. Other" fields by fixed-point iteration, one
// embed level per round. Invalid embeds are reported and dropped so a
// single mistake is diagnosed once; a chain still unexpanded after
// maxEmbedDepth rounds is an embed cycle.
func (r *resolver) expandEmbeds() {
	for depth := 0; ; depth++ {
		changed := false
		for _, def := range r.schema.Defs {
			sd, ok := def.(*ir.StructDef)
			if !ok {
				continue
			}
			if r.expandStructEmbeds(sd) {
				changed = true
			}
		}
		if !changed {
			return
		}
		if depth == maxEmbedDepth {
			r.reportEmbedCycles()
			return
		}
	}
}

func (r *resolver) expandStructEmbeds(sd *ir.StructDef) bool {
	hasEmbed := false
	for _, f := range sd.Fields {
		if f.Embed {
			hasEmbed = true
			break
		}
	}
	if !hasEmbed {
		return false
	}

	fields := make([]ir.Field, 0, len(sd.Fields))
	for _, f := range sd.Fields {
		if !f.Embed {
			fields = append(fields, f)
			continue
		}
		id, ok := r.symbols[f.Name]
		if !ok {
			r.diags.Errorf(diag.KindInvalidEmbed, r.pos(f.Source),
				"cannot embed unknown struct %s", f.Name)
			continue
		}
		target, ok := r.schema.Defs[id].(*ir.StructDef)
		if !ok {
			r.diags.Errorf(diag.KindInvalidEmbed, r.pos(f.Source),
				"cannot embed %s %s: only structs can be embedded",
				r.schema.Defs[id].Kind(), f.Name)
			continue
		}
		fields = append(fields, target.Fields...)
	}
	sd.Fields = fields
	return true
}

// reportEmbedCycles fires after expansion failed to reach a fixed point:
// any struct that still contains an embed field is part of a cycle.
func (r *resolver) reportEmbedCycles() {
	for _, def := range r.schema.Defs {
		sd, ok := def.(*ir.StructDef)
		if !ok {
			continue
		}
		for _, f := range sd.Fields {
			if f.Embed {
				r.diags.Errorf(diag.KindInvalidEmbed, r.pos(f.Source),
					"embed of %s in %s does not terminate: embed cycle", f.Name, sd.Name)
				// Drop the cyclic embeds so later steps see a closed field list.
				sd.Fields = withoutEmbeds(sd.Fields)
				break
			}
		}
	}
}

func withoutEmbeds(fields []ir.Field) []ir.Field {
	out := fields[:0]
	for _, f := range fields {
		if !f.Embed {
			out = append(out, f)
		}
	}
	return out
}

// resolveReferences links every named type to its definition and checks
// map key types.
func (r *resolver) resolveReferences() {
	for _, def := range r.schema.Defs {
		switch d := def.(type) {
		case *ir.StructDef:
			for i := range d.Fields {
				r.resolveType(d.Fields[i].Type)
			}
		case *ir.EnumDef:
			for i := range d.Variants {
				v := &d.Variants[i]
				for _, t := range v.Tuple {
					r.resolveType(t)
				}
				for j := range v.Fields {
					r.resolveType(v.Fields[j].Type)
				}
			}
		case *ir.ServiceDef:
			for i := range d.Methods {
				r.resolveType(d.Methods[i].Request)
				r.resolveType(d.Methods[i].Response)
			}
		}
	}
}

func (r *resolver) resolveType(t ir.Type) {
	switch t := t.(type) {
	case *ir.Named:
		id, ok := r.symbols[t.Name]
		if !ok {
			r.diags.Errorf(diag.KindUnknownType, r.pos(t.Source),
				"unknown type %s", t.Name)
			return
		}
		t.Target = id
	case *ir.Option:
		r.resolveType(t.Elem)
	case *ir.List:
		r.resolveType(t.Elem)
	case *ir.Map:
		if key, ok := t.Key.(*ir.Scalar); !ok || key.Kind != ir.ScalarString {
			r.diags.Errorf(diag.KindInvalidMapKey, r.keyPos(t.Key),
				"map keys must be str")
		}
		r.resolveType(t.Value)
	case *ir.Tuple:
		for _, elem := range t.Elems {
			r.resolveType(elem)
		}
	}
}

// keyPos digs a position out of a map key type when it has one.
func (r *resolver) keyPos(t ir.Type) diag.Pos {
	if named, ok := t.(*ir.Named); ok {
		return r.pos(named.Source)
	}
	return diag.Pos{}
}

// checkUniqueNames enforces per-scope uniqueness for fields, variants,
// methods, and variant payload fields.
func (r *resolver) checkUniqueNames() {
	for _, def := range r.schema.Defs {
		switch d := def.(type) {
		case *ir.StructDef:
			r.checkFieldNames(d.Name, d.Fields)
		case *ir.EnumDef:
			seen := make(map[string]ir.Source)
			for _, v := range d.Variants {
				r.checkScopedName("variant", d.Name, v.Name, v.Source, seen)
				if v.Form == ir.FormStruct {
					r.checkFieldNames(d.Name+"."+v.Name, v.Fields)
				}
			}
		case *ir.ServiceDef:
			seen := make(map[string]ir.Source)
			for _, m := range d.Methods {
				r.checkScopedName("method", d.Name, m.Name, m.Source, seen)
			}
		}
	}
}

func (r *resolver) checkFieldNames(scope string, fields []ir.Field) {
	seen := make(map[string]ir.Source)
	for _, f := range fields {
		r.checkScopedName("field", scope, f.Name, f.Source, seen)
	}
}

func (r *resolver) checkScopedName(what, scope, name string, src ir.Source, seen map[string]ir.Source) {
	if first, ok := seen[name]; ok {
		r.diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError,
			Kind:     diag.KindDuplicateName,
			Message:  "duplicate " + what + " " + name + " in " + scope,
			Pos:      r.pos(src),
			Related: []diag.Related{{
				Pos:  r.pos(first),
				Note: "first declared here",
			}},
		})
		return
	}
	seen[name] = src
}

// checkFieldTypes enforces that named references in data positions target
// struct or enum definitions. A service is not a data type: it has no
// value representation, so a field, variant payload, or container element
// naming one cannot be serialized.
func (r *resolver) checkFieldTypes() {
	for _, def := range r.schema.Defs {
		switch d := def.(type) {
		case *ir.StructDef:
			for _, f := range d.Fields {
				r.checkDataType(f.Type)
			}
		case *ir.EnumDef:
			for _, v := range d.Variants {
				for _, t := range v.Tuple {
					r.checkDataType(t)
				}
				for _, f := range v.Fields {
					r.checkDataType(f.Type)
				}
			}
		}
	}
}

func (r *resolver) checkDataType(t ir.Type) {
	switch t := t.(type) {
	case *ir.Named:
		if t.Target == ir.NoDef {
			// Already reported as an unknown type.
			return
		}
		if r.schema.Defs[t.Target].Kind() == ir.KindService {
			r.diags.Errorf(diag.KindInvalidFieldType, r.pos(t.Source),
				"service %s cannot be used as a data type", t.Name)
		}
	case *ir.Option:
		r.checkDataType(t.Elem)
	case *ir.List:
		r.checkDataType(t.Elem)
	case *ir.Map:
		r.checkDataType(t.Value)
	case *ir.Tuple:
		for _, elem := range t.Elems {
			r.checkDataType(elem)
		}
	}
}

// checkMethodTypes enforces that request and response types are named
// struct or enum definitions. Services never appear in type position, and
// scalars or containers cannot serve as a method payload.
func (r *resolver) checkMethodTypes() {
	for _, def := range r.schema.Defs {
		sd, ok := def.(*ir.ServiceDef)
		if !ok {
			continue
		}
		for _, m := range sd.Methods {
			r.checkMethodType(sd.Name, m, m.Request, "request")
			r.checkMethodType(sd.Name, m, m.Response, "response")
		}
	}
}

func (r *resolver) checkMethodType(service string, m ir.Method, t ir.Type, role string) {
	named, ok := t.(*ir.Named)
	if !ok {
		r.diags.Errorf(diag.KindInvalidMethodType, r.pos(m.Source),
			"%s of %s.%s must be a named struct or enum type", role, service, m.Name)
		return
	}
	if named.Target == ir.NoDef {
		// Already reported as an unknown type.
		return
	}
	if r.schema.Defs[named.Target].Kind() == ir.KindService {
		r.diags.Errorf(diag.KindInvalidMethodType, r.pos(named.Source),
			"%s of %s.%s references service %s: methods may only reference struct or enum types",
			role, service, m.Name, named.Name)
	}
}

// checkRecursion rejects struct cycles that pass through direct fields
// only. Edges follow named references held inline (a bare reference, or one
// inside a tuple); option, list, and map provide indirection and are not
// edges, and enum payloads are generated behind pointers so they indirect
// as well.
func (r *resolver) checkRecursion() {
	type edge struct {
		to    ir.DefID
		field string
		src   ir.Source
	}
	edges := make(map[ir.DefID][]edge)
	for id, def := range r.schema.Defs {
		sd, ok := def.(*ir.StructDef)
		if !ok {
			continue
		}
		for _, f := range sd.Fields {
			for _, named := range inlineRefs(f.Type, nil) {
				if named.Target == ir.NoDef {
					continue
				}
				if _, ok := r.schema.Defs[named.Target].(*ir.StructDef); !ok {
					continue
				}
				edges[ir.DefID(id)] = append(edges[ir.DefID(id)], edge{
					to:    named.Target,
					field: f.Name,
					src:   f.Source,
				})
			}
		}
	}

	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[ir.DefID]int)
	reported := make(map[ir.DefID]bool)

	var visit func(id ir.DefID, path []ir.DefID)
	visit = func(id ir.DefID, path []ir.DefID) {
		state[id] = inProgress
		path = append(path, id)
		for _, e := range edges[id] {
			switch state[e.to] {
			case inProgress:
				if !reported[e.to] {
					reported[e.to] = true
					r.diags.Errorf(diag.KindIllegalRecursiveType, r.pos(e.src),
						"illegal recursive type: %s (recursion must pass through option, list, or map)",
						r.cyclePath(path, e.to))
				}
			case unvisited:
				visit(e.to, path)
			}
		}
		state[id] = done
	}

	for id := range r.schema.Defs {
		if state[ir.DefID(id)] == unvisited {
			if _, ok := r.schema.Defs[id].(*ir.StructDef); ok {
				visit(ir.DefID(id), nil)
			}
		}
	}
}

// inlineRefs collects the named references a type holds without
// indirection: the reference itself, or tuple elements. Containers break
// the chain.
func inlineRefs(t ir.Type, out []*ir.Named) []*ir.Named {
	switch t := t.(type) {
	case *ir.Named:
		out = append(out, t)
	case *ir.Tuple:
		for _, elem := range t.Elems {
			out = inlineRefs(elem, out)
		}
	}
	return out
}

// cyclePath renders the cycle portion of a DFS path ending in a back edge
// to head.
func (r *resolver) cyclePath(path []ir.DefID, head ir.DefID) string {
	start := 0
	for i, id := range path {
		if id == head {
			start = i
			break
		}
	}
	var names []string
	for _, id := range path[start:] {
		names = append(names, r.schema.Defs[id].DefName())
	}
	names = append(names, r.schema.Defs[head].DefName())
	return strings.Join(names, " -> ")
}
