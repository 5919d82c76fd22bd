package ir

import (
	"github.com/humblelang/humble/humblegen/syntax"
)

// scalarKinds maps scalar keywords to their kinds. Scalar names are
// contextual: they only have meaning in type position, so the classifier
// lives here rather than in the tokenizer.
var scalarKinds = map[string]ScalarKind{
	"str":      ScalarString,
	"bool":     ScalarBool,
	"i32":      ScalarI32,
	"u32":      ScalarU32,
	"u8":       ScalarU8,
	"f64":      ScalarF64,
	"bytes":    ScalarBytes,
	"datetime": ScalarDateTime,
	"date":     ScalarDate,
	"uuid":     ScalarUUID,
}

// IsReservedTypeName reports whether name always denotes a built-in in type
// position: a scalar keyword, the container constructors, or the unit
// spelling. A definition carrying such a name could never be referenced, so
// the resolver rejects it at the declaration site.
func IsReservedTypeName(name string) bool {
	if _, ok := scalarKinds[name]; ok {
		return true
	}
	switch name {
	case "option", "list", "map":
		return true
	}
	return false
}

// Build constructs the raw AST from a concrete tree. It is a pure
// structural transform: every concrete production maps to exactly one AST
// node, declaration order is preserved, and no name resolution happens.
func Build(f *syntax.File) *Schema {
	s := &Schema{Name: f.Name}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *syntax.StructDecl:
			s.Defs = append(s.Defs, buildStruct(f.Name, d))
		case *syntax.EnumDecl:
			s.Defs = append(s.Defs, buildEnum(f.Name, d))
		case *syntax.ServiceDecl:
			s.Defs = append(s.Defs, buildService(f.Name, d))
		}
	}
	return s
}

func buildStruct(file string, d *syntax.StructDecl) *StructDef {
	return &StructDef{
		Name:          d.Name.Name,
		Fields:        buildFields(file, d.Fields),
		Documentation: buildDoc(file, d.Doc),
		Source:        identSource(file, d.Name),
	}
}

func buildFields(file string, decls []syntax.FieldDecl) []Field {
	fields := make([]Field, 0, len(decls))
	for _, fd := range decls {
		fields = append(fields, Field{
			Name:          fd.Name.Name,
			Type:          buildType(file, fd.Type),
			Embed:         fd.Embed,
			Documentation: buildDoc(file, fd.Doc),
			Source:        identSource(file, fd.Name),
		})
	}
	return fields
}

func buildEnum(file string, d *syntax.EnumDecl) *EnumDef {
	def := &EnumDef{
		Name:          d.Name.Name,
		Documentation: buildDoc(file, d.Doc),
		Source:        identSource(file, d.Name),
	}
	for _, vd := range d.Variants {
		variant := Variant{
			Name:          vd.Name.Name,
			Documentation: buildDoc(file, vd.Doc),
			Source:        identSource(file, vd.Name),
		}
		switch vd.Form {
		case syntax.FormSimple:
			variant.Form = FormSimple
		case syntax.FormTuple:
			variant.Form = FormTuple
			for _, t := range vd.Tuple {
				variant.Tuple = append(variant.Tuple, buildType(file, t))
			}
		case syntax.FormStruct:
			variant.Form = FormStruct
			variant.Fields = buildFields(file, vd.Fields)
		}
		def.Variants = append(def.Variants, variant)
	}
	return def
}

func buildService(file string, d *syntax.ServiceDecl) *ServiceDef {
	def := &ServiceDef{
		Name:          d.Name.Name,
		Documentation: buildDoc(file, d.Doc),
		Source:        identSource(file, d.Name),
	}
	for _, md := range d.Methods {
		def.Methods = append(def.Methods, Method{
			Name:          md.Name.Name,
			Request:       buildType(file, md.Request),
			Response:      buildType(file, md.Response),
			Documentation: buildDoc(file, md.Doc),
			Source:        identSource(file, md.Name),
		})
	}
	return def
}

func buildType(file string, t syntax.TypeExpr) Type {
	switch t := t.(type) {
	case *syntax.NamedType:
		if kind, ok := scalarKinds[t.Name.Name]; ok {
			return &Scalar{Kind: kind}
		}
		return &Named{
			Name:   t.Name.Name,
			Target: NoDef,
			Source: identSource(file, t.Name),
		}
	case *syntax.OptionType:
		return &Option{Elem: buildType(file, t.Elem)}
	case *syntax.ListType:
		return &List{Elem: buildType(file, t.Elem)}
	case *syntax.MapType:
		return &Map{Key: buildType(file, t.Key), Value: buildType(file, t.Value)}
	case *syntax.TupleType:
		tuple := &Tuple{Elems: make([]Type, 0, len(t.Elems))}
		for _, elem := range t.Elems {
			tuple.Elems = append(tuple.Elems, buildType(file, elem))
		}
		return tuple
	case *syntax.EmptyType:
		return &Scalar{Kind: ScalarEmpty}
	default:
		return nil
	}
}

func buildDoc(file string, d *syntax.DocComment) *Doc {
	if d == nil {
		return nil
	}
	return &Doc{
		Text:   d.Text,
		Source: Source{File: file, Line: d.Line, Column: d.Column},
	}
}

func identSource(file string, id syntax.Ident) Source {
	return Source{File: file, Line: id.Line, Column: id.Column}
}
