package golang

import (
	"bytes"
	"fmt"

	"github.com/humblelang/humble/humblegen/ir"
)

type emitter struct {
	schema  *ir.Schema
	cfg     Config
	imports map[string]bool

	// Tuple types are structural, so the wrapper struct for a shape is
	// shared by every occurrence. Names key the registry; tupleOrder keeps
	// emission in first-use order.
	tuples     map[string]*ir.Tuple
	tupleOrder []string
}

func (e *emitter) need(path string) {
	e.imports[path] = true
}

// runtimePkg returns the selector used to reference the runtime package
// and records the import.
func (e *emitter) runtimePkg() string {
	path := e.cfg.runtimeImport()
	e.need(path)
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// typeExpr renders the Go type for a schema type and records any imports
// it needs.
func (e *emitter) typeExpr(t ir.Type) string {
	switch t := t.(type) {
	case *ir.Scalar:
		switch t.Kind {
		case ir.ScalarString:
			return "string"
		case ir.ScalarBool:
			return "bool"
		case ir.ScalarI32:
			return "int32"
		case ir.ScalarU32:
			return "uint32"
		case ir.ScalarU8:
			return "uint8"
		case ir.ScalarF64:
			return "float64"
		case ir.ScalarBytes:
			return "[]byte"
		case ir.ScalarDateTime:
			e.need("time")
			return "time.Time"
		case ir.ScalarDate:
			return e.runtimePkg() + ".Date"
		case ir.ScalarUUID:
			return e.runtimePkg() + ".UUID"
		case ir.ScalarEmpty:
			return "struct{}"
		}
	case *ir.Option:
		return "*" + e.typeExpr(t.Elem)
	case *ir.List:
		return "[]" + e.typeExpr(t.Elem)
	case *ir.Map:
		return "map[string]" + e.typeExpr(t.Value)
	case *ir.Tuple:
		return e.tupleType(t)
	case *ir.Named:
		return toPascalCase(e.schema.Defs[t.Target].DefName())
	}
	return "any"
}

// tupleType returns the name of the wrapper struct generated for a tuple
// shape, registering the shape on first use.
func (e *emitter) tupleType(t *ir.Tuple) string {
	name := e.typeTag(t)
	if _, ok := e.tuples[name]; !ok {
		e.tuples[name] = t
		e.tupleOrder = append(e.tupleOrder, name)
	}
	return name
}

// typeTag renders a type as an identifier fragment, used to derive the
// name of a tuple wrapper from its element types.
func (e *emitter) typeTag(t ir.Type) string {
	switch t := t.(type) {
	case *ir.Scalar:
		switch t.Kind {
		case ir.ScalarString:
			return "Str"
		case ir.ScalarBool:
			return "Bool"
		case ir.ScalarI32:
			return "I32"
		case ir.ScalarU32:
			return "U32"
		case ir.ScalarU8:
			return "U8"
		case ir.ScalarF64:
			return "F64"
		case ir.ScalarBytes:
			return "Bytes"
		case ir.ScalarDateTime:
			return "DateTime"
		case ir.ScalarDate:
			return "Date"
		case ir.ScalarUUID:
			return "Uuid"
		case ir.ScalarEmpty:
			return "Unit"
		}
	case *ir.Option:
		return "Option" + e.typeTag(t.Elem)
	case *ir.List:
		return "List" + e.typeTag(t.Elem)
	case *ir.Map:
		return "MapStr" + e.typeTag(t.Value)
	case *ir.Tuple:
		tag := "Tuple"
		for _, elem := range t.Elems {
			tag += e.typeTag(elem)
		}
		return tag
	case *ir.Named:
		return toPascalCase(e.schema.Defs[t.Target].DefName())
	}
	return "X"
}

// emitTupleTypes writes the wrapper struct and JSON array codec for every
// registered tuple shape. Emitting a nested tuple's fields can register
// further shapes, so iteration is by index over a growing list.
func (e *emitter) emitTupleTypes(buf *bytes.Buffer) {
	for i := 0; i < len(e.tupleOrder); i++ {
		name := e.tupleOrder[i]
		e.emitTuple(buf, name, e.tuples[name])
	}
}

func (e *emitter) emitTuple(buf *bytes.Buffer, name string, t *ir.Tuple) {
	e.need("encoding/json")
	e.need("fmt")
	n := len(t.Elems)

	fmt.Fprintf(buf, "// %s is a positional tuple carried on the wire as a fixed-length JSON array.\n", name)
	fmt.Fprintf(buf, "type %s struct {\n", name)
	for i, elem := range t.Elems {
		fmt.Fprintf(buf, "\tF%d %s\n", i, e.typeExpr(elem))
	}
	buf.WriteString("}\n\n")

	fmt.Fprintf(buf, "// MarshalJSON encodes the elements as a %d-element array.\n", n)
	fmt.Fprintf(buf, "func (v %s) MarshalJSON() ([]byte, error) {\n", name)
	fmt.Fprintf(buf, "\treturn json.Marshal([%d]any{", n)
	for i := range t.Elems {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(buf, "v.F%d", i)
	}
	buf.WriteString("})\n}\n\n")

	fmt.Fprintf(buf, "// UnmarshalJSON decodes a %d-element array into the tuple.\n", n)
	fmt.Fprintf(buf, "func (v *%s) UnmarshalJSON(data []byte) error {\n", name)
	buf.WriteString("\tvar elems []json.RawMessage\n")
	buf.WriteString("\tif err := json.Unmarshal(data, &elems); err != nil {\n")
	fmt.Fprintf(buf, "\t\treturn fmt.Errorf(\"%s: %%w\", err)\n\t}\n", name)
	fmt.Fprintf(buf, "\tif len(elems) != %d {\n", n)
	fmt.Fprintf(buf, "\t\treturn fmt.Errorf(\"%s: expected %d elements, got %%d\", len(elems))\n\t}\n", name, n)
	for i := range t.Elems {
		fmt.Fprintf(buf, "\tif err := json.Unmarshal(elems[%d], &v.F%d); err != nil {\n", i, i)
		fmt.Fprintf(buf, "\t\treturn fmt.Errorf(\"%s: %%w\", err)\n\t}\n", name)
	}
	buf.WriteString("\treturn nil\n}\n\n")
}

func (e *emitter) emitStruct(buf *bytes.Buffer, d *ir.StructDef) {
	name := toPascalCase(d.Name)

	writeDoc(buf, d.Documentation, "")
	fmt.Fprintf(buf, "type %s struct {\n", name)
	e.emitStructFields(buf, d.Fields)
	buf.WriteString("}\n\n")

	if e.cfg.DisallowUnknownFields {
		e.need("bytes")
		e.need("encoding/json")
		e.need("fmt")
		fmt.Fprintf(buf, "// UnmarshalJSON decodes %s, rejecting unknown properties.\n", name)
		fmt.Fprintf(buf, "func (v *%s) UnmarshalJSON(data []byte) error {\n", name)
		fmt.Fprintf(buf, "\ttype plain %s\n", name)
		buf.WriteString("\tdec := json.NewDecoder(bytes.NewReader(data))\n")
		buf.WriteString("\tdec.DisallowUnknownFields()\n")
		buf.WriteString("\tvar out plain\n")
		buf.WriteString("\tif err := dec.Decode(&out); err != nil {\n")
		fmt.Fprintf(buf, "\t\treturn fmt.Errorf(\"%s: %%w\", err)\n", name)
		buf.WriteString("\t}\n")
		fmt.Fprintf(buf, "\t*v = %s(out)\n", name)
		buf.WriteString("\treturn nil\n")
		buf.WriteString("}\n\n")
	}
}

func (e *emitter) emitStructFields(buf *bytes.Buffer, fields []ir.Field) {
	for _, f := range fields {
		writeDoc(buf, f.Documentation, "\t")
		fmt.Fprintf(buf, "\t%s %s `json:%q`\n",
			toPascalCase(f.Name), e.typeExpr(f.Type), f.Name)
	}
}

// emitEnum lowers a sum type to a tagged union: an opaque struct holding a
// discriminant plus one pointer payload per non-simple variant, with
// constructors, accessors, and JSON codecs matching the wire shape
// ("Label" for bare variants, {"Label": payload} otherwise).
func (e *emitter) emitEnum(buf *bytes.Buffer, d *ir.EnumDef) {
	e.need("encoding/json")
	e.need("fmt")

	name := toPascalCase(d.Name)
	kind := name + "Kind"

	// Discriminant type. Values follow declaration order.
	fmt.Fprintf(buf, "// %s identifies the active variant of %s.\n", kind, name)
	fmt.Fprintf(buf, "type %s int\n\n", kind)
	buf.WriteString("const (\n")
	for i, v := range d.Variants {
		if i == 0 {
			fmt.Fprintf(buf, "\t%s%s %s = iota\n", kind, toPascalCase(v.Name), kind)
		} else {
			fmt.Fprintf(buf, "\t%s%s\n", kind, toPascalCase(v.Name))
		}
	}
	buf.WriteString(")\n\n")

	fmt.Fprintf(buf, "// String returns the declared variant name.\n")
	fmt.Fprintf(buf, "func (k %s) String() string {\n", kind)
	buf.WriteString("\tswitch k {\n")
	for _, v := range d.Variants {
		fmt.Fprintf(buf, "\tcase %s%s:\n\t\treturn %q\n", kind, toPascalCase(v.Name), v.Name)
	}
	buf.WriteString("\tdefault:\n\t\treturn \"unknown\"\n\t}\n}\n\n")

	// Payload structs for tuple and struct variants.
	for _, v := range d.Variants {
		if payload := e.payloadStructName(d, v); payload != "" {
			fmt.Fprintf(buf, "// %s is the payload of the %s variant of %s.\n", payload, v.Name, name)
			fmt.Fprintf(buf, "type %s struct {\n", payload)
			if v.Form == ir.FormTuple {
				for i, t := range v.Tuple {
					fmt.Fprintf(buf, "\tF%d %s\n", i, e.typeExpr(t))
				}
			} else {
				e.emitStructFields(buf, v.Fields)
			}
			buf.WriteString("}\n\n")
		}
	}

	// The union itself.
	writeDoc(buf, d.Documentation, "")
	if d.Documentation != nil {
		buf.WriteString("//\n")
	}
	fmt.Fprintf(buf, "// %s is a sum type; construct values with the New%s* functions.\n", name, name)
	fmt.Fprintf(buf, "type %s struct {\n", name)
	fmt.Fprintf(buf, "\tkind %s\n", kind)
	for _, v := range d.Variants {
		if v.Form == ir.FormSimple {
			continue
		}
		fmt.Fprintf(buf, "\t%s *%s\n", toCamelCase(v.Name), e.payloadGoType(d, v))
	}
	buf.WriteString("}\n\n")

	// Constructors.
	for _, v := range d.Variants {
		vname := toPascalCase(v.Name)
		writeDoc(buf, v.Documentation, "")
		switch {
		case v.Form == ir.FormSimple:
			fmt.Fprintf(buf, "func New%s%s() %s {\n", name, vname, name)
			fmt.Fprintf(buf, "\treturn %s{kind: %s%s}\n}\n\n", name, kind, vname)
		case e.isNewtype(v):
			fmt.Fprintf(buf, "func New%s%s(value %s) %s {\n", name, vname, e.typeExpr(v.Tuple[0]), name)
			fmt.Fprintf(buf, "\treturn %s{kind: %s%s, %s: &value}\n}\n\n", name, kind, vname, toCamelCase(v.Name))
		default:
			fmt.Fprintf(buf, "func New%s%s(payload %s) %s {\n", name, vname, e.payloadGoType(d, v), name)
			fmt.Fprintf(buf, "\treturn %s{kind: %s%s, %s: &payload}\n}\n\n", name, kind, vname, toCamelCase(v.Name))
		}
	}

	// Kind and payload accessors.
	fmt.Fprintf(buf, "// Kind returns the active variant.\n")
	fmt.Fprintf(buf, "func (v %s) Kind() %s { return v.kind }\n\n", name, kind)
	for _, v := range d.Variants {
		if v.Form == ir.FormSimple {
			continue
		}
		vname := toPascalCase(v.Name)
		field := toCamelCase(v.Name)
		payload := e.payloadGoType(d, v)
		fmt.Fprintf(buf, "// %s returns the %s payload; ok is false when another variant is active.\n", vname, v.Name)
		fmt.Fprintf(buf, "func (v %s) %s() (payload %s, ok bool) {\n", name, vname, payload)
		fmt.Fprintf(buf, "\tif v.kind != %s%s || v.%s == nil {\n\t\treturn payload, false\n\t}\n", kind, vname, field)
		fmt.Fprintf(buf, "\treturn *v.%s, true\n}\n\n", field)
	}

	e.emitEnumMarshal(buf, d, name, kind)
	e.emitEnumUnmarshal(buf, d, name)
}

// isNewtype reports whether a tuple variant has exactly one element; its
// payload is then the element value itself, not a wrapper struct.
func (e *emitter) isNewtype(v ir.Variant) bool {
	return v.Form == ir.FormTuple && len(v.Tuple) == 1
}

// payloadStructName returns the name of the generated payload struct for a
// variant, or "" when the variant has none (simple and newtype variants).
func (e *emitter) payloadStructName(d *ir.EnumDef, v ir.Variant) string {
	if v.Form == ir.FormSimple || e.isNewtype(v) {
		return ""
	}
	return toPascalCase(d.Name) + toPascalCase(v.Name)
}

// payloadGoType returns the Go type holding a variant's payload.
func (e *emitter) payloadGoType(d *ir.EnumDef, v ir.Variant) string {
	if e.isNewtype(v) {
		return e.typeExpr(v.Tuple[0])
	}
	return e.payloadStructName(d, v)
}

func (e *emitter) emitEnumMarshal(buf *bytes.Buffer, d *ir.EnumDef, name, kind string) {
	fmt.Fprintf(buf, "// MarshalJSON encodes the active variant and its payload.\n")
	fmt.Fprintf(buf, "func (v %s) MarshalJSON() ([]byte, error) {\n", name)
	buf.WriteString("\tswitch v.kind {\n")
	for _, v := range d.Variants {
		vname := toPascalCase(v.Name)
		field := toCamelCase(v.Name)
		fmt.Fprintf(buf, "\tcase %s%s:\n", kind, vname)
		if v.Form == ir.FormSimple {
			fmt.Fprintf(buf, "\t\treturn json.Marshal(%q)\n", v.Name)
			continue
		}
		fmt.Fprintf(buf, "\t\tif v.%s == nil {\n", field)
		fmt.Fprintf(buf, "\t\t\treturn nil, fmt.Errorf(\"%s: missing %s payload\")\n\t\t}\n", name, v.Name)
		switch {
		case v.Form == ir.FormTuple && !e.isNewtype(v):
			fmt.Fprintf(buf, "\t\treturn json.Marshal(struct {\n")
			fmt.Fprintf(buf, "\t\t\tPayload [%d]any `json:%q`\n", len(v.Tuple), v.Name)
			fmt.Fprintf(buf, "\t\t}{[%d]any{", len(v.Tuple))
			for i := range v.Tuple {
				if i > 0 {
					buf.WriteString(", ")
				}
				fmt.Fprintf(buf, "v.%s.F%d", field, i)
			}
			buf.WriteString("}})\n")
		default:
			fmt.Fprintf(buf, "\t\treturn json.Marshal(struct {\n")
			fmt.Fprintf(buf, "\t\t\tPayload %s `json:%q`\n", e.payloadGoType(d, v), v.Name)
			fmt.Fprintf(buf, "\t\t}{*v.%s})\n", field)
		}
	}
	buf.WriteString("\tdefault:\n")
	fmt.Fprintf(buf, "\t\treturn nil, fmt.Errorf(\"%s: unknown variant\")\n", name)
	buf.WriteString("\t}\n}\n\n")
}

func (e *emitter) emitEnumUnmarshal(buf *bytes.Buffer, d *ir.EnumDef, name string) {
	fmt.Fprintf(buf, "// UnmarshalJSON decodes a variant, rejecting unknown variant names.\n")
	fmt.Fprintf(buf, "func (v *%s) UnmarshalJSON(data []byte) error {\n", name)

	// Bare string form covers simple variants.
	buf.WriteString("\tvar label string\n")
	buf.WriteString("\tif err := json.Unmarshal(data, &label); err == nil {\n")
	buf.WriteString("\t\tswitch label {\n")
	for _, v := range d.Variants {
		if v.Form != ir.FormSimple {
			continue
		}
		fmt.Fprintf(buf, "\t\tcase %q:\n", v.Name)
		fmt.Fprintf(buf, "\t\t\t*v = New%s%s()\n\t\t\treturn nil\n", name, toPascalCase(v.Name))
	}
	buf.WriteString("\t\t}\n")
	fmt.Fprintf(buf, "\t\treturn fmt.Errorf(\"%s: unknown variant %%q\", label)\n", name)
	buf.WriteString("\t}\n\n")

	// Single-key object form covers payload variants.
	buf.WriteString("\tvar fields map[string]json.RawMessage\n")
	buf.WriteString("\tif err := json.Unmarshal(data, &fields); err != nil {\n")
	fmt.Fprintf(buf, "\t\treturn fmt.Errorf(\"%s: %%w\", err)\n", name)
	buf.WriteString("\t}\n")
	buf.WriteString("\tif len(fields) != 1 {\n")
	fmt.Fprintf(buf, "\t\treturn fmt.Errorf(\"%s: expected exactly one variant, got %%d\", len(fields))\n", name)
	buf.WriteString("\t}\n")
	hasPayload := false
	for _, v := range d.Variants {
		if v.Form != ir.FormSimple {
			hasPayload = true
		}
	}
	if hasPayload {
		buf.WriteString("\tfor label, raw := range fields {\n")
	} else {
		buf.WriteString("\tfor label := range fields {\n")
	}
	buf.WriteString("\t\tswitch label {\n")
	for _, v := range d.Variants {
		if v.Form == ir.FormSimple {
			continue
		}
		vname := toPascalCase(v.Name)
		fmt.Fprintf(buf, "\t\tcase %q:\n", v.Name)
		switch {
		case v.Form == ir.FormTuple && !e.isNewtype(v):
			buf.WriteString("\t\t\tvar elems []json.RawMessage\n")
			buf.WriteString("\t\t\tif err := json.Unmarshal(raw, &elems); err != nil {\n")
			fmt.Fprintf(buf, "\t\t\t\treturn fmt.Errorf(\"%s: %s payload: %%w\", err)\n\t\t\t}\n", name, v.Name)
			fmt.Fprintf(buf, "\t\t\tif len(elems) != %d {\n", len(v.Tuple))
			fmt.Fprintf(buf, "\t\t\t\treturn fmt.Errorf(\"%s: %s payload: expected %d elements, got %%d\", len(elems))\n\t\t\t}\n", name, v.Name, len(v.Tuple))
			fmt.Fprintf(buf, "\t\t\tvar payload %s\n", e.payloadGoType(d, v))
			for i := range v.Tuple {
				fmt.Fprintf(buf, "\t\t\tif err := json.Unmarshal(elems[%d], &payload.F%d); err != nil {\n", i, i)
				fmt.Fprintf(buf, "\t\t\t\treturn fmt.Errorf(\"%s: %s payload: %%w\", err)\n\t\t\t}\n", name, v.Name)
			}
			fmt.Fprintf(buf, "\t\t\t*v = New%s%s(payload)\n\t\t\treturn nil\n", name, vname)
		default:
			fmt.Fprintf(buf, "\t\t\tvar payload %s\n", e.payloadGoType(d, v))
			buf.WriteString("\t\t\tif err := json.Unmarshal(raw, &payload); err != nil {\n")
			fmt.Fprintf(buf, "\t\t\t\treturn fmt.Errorf(\"%s: %s payload: %%w\", err)\n\t\t\t}\n", name, v.Name)
			fmt.Fprintf(buf, "\t\t\t*v = New%s%s(payload)\n\t\t\treturn nil\n", name, vname)
		}
	}
	buf.WriteString("\t\tdefault:\n")
	fmt.Fprintf(buf, "\t\t\treturn fmt.Errorf(\"%s: unknown variant %%q\", label)\n", name)
	buf.WriteString("\t\t}\n\t}\n")
	fmt.Fprintf(buf, "\treturn fmt.Errorf(\"%s: empty value\")\n", name)
	buf.WriteString("}\n\n")
}

// emitService lowers a service to an interface with one asynchronous
// method per declared operation, plus the registration glue binding an
// implementation to the runtime dispatcher. Transport is supplied by the
// runtime; nothing here prescribes it.
func (e *emitter) emitService(buf *bytes.Buffer, d *ir.ServiceDef) {
	e.need("context")
	rt := e.runtimePkg()
	name := toPascalCase(d.Name)

	writeDoc(buf, d.Documentation, "")
	if d.Documentation != nil {
		buf.WriteString("//\n")
	}
	fmt.Fprintf(buf, "// %s is implemented by application code and mounted with Register%s.\n", name, name)
	fmt.Fprintf(buf, "type %s interface {\n", name)
	for _, m := range d.Methods {
		writeDoc(buf, m.Documentation, "\t")
		fmt.Fprintf(buf, "\t%s(ctx context.Context, req %s) (%s, error)\n",
			toPascalCase(m.Name), e.typeExpr(m.Request), e.typeExpr(m.Response))
	}
	buf.WriteString("}\n\n")

	fmt.Fprintf(buf, "// Register%s mounts every %s method on app.\n", name, name)
	fmt.Fprintf(buf, "func Register%s(app *%s.App, impl %s) {\n", name, rt, name)
	for _, m := range d.Methods {
		fmt.Fprintf(buf, "\tapp.Register(%q, %q, %s.NewHandler(impl.%s))\n",
			d.Name, m.Name, rt, toPascalCase(m.Name))
	}
	buf.WriteString("}\n\n")
}
