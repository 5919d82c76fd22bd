// Package ir defines the abstract syntax tree for one compilation unit.
// Definitions live in an arena on the Schema and reference each other by
// DefID, so the mutually recursive type graph carries no ownership cycles.
// The ir.Build pass produces a raw schema from the concrete tree; the
// resolve package links named references and yields the resolved form
// consumed by code generation.
package ir

// DefID indexes a definition in Schema.Defs. The special value NoDef marks
// a named reference that has not been resolved yet.
type DefID int

// NoDef is the DefID of an unresolved reference.
const NoDef DefID = -1

// Schema is the root of the AST for one compilation unit.
type Schema struct {
	// Name is the compilation unit name, usually the source file name.
	Name string

	// Defs holds every top-level definition in declaration order. Ordering
	// is semantically meaningful: it determines output layout and enum
	// discriminants, and is preserved exactly as written.
	Defs []Def
}

// Def is a top-level definition: struct, enum, or service.
type Def interface {
	Kind() DefKind
	DefName() string
	Doc() *Doc
	Src() Source

	// sealed keeps the definition kinds a closed set so backends can
	// switch exhaustively.
	sealed()
}

// DefKind identifies the definition category.
type DefKind int

const (
	KindStruct DefKind = iota
	KindEnum
	KindService
)

// String returns the lowercase kind name.
func (k DefKind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Source is a location in schema source text.
type Source struct {
	File   string
	Line   int
	Column int
}

// Doc is the markdown documentation block attached to a definition, field,
// variant, or method. Text is the raw markdown; backends parse it into
// blocks when rendering. A nil *Doc means no documentation (and no emitted
// comment, not an empty one).
type Doc struct {
	Text   string
	Source Source
}

// StructDef is a product type with named fields.
type StructDef struct {
	Name          string
	Fields        []Field
	Documentation *Doc
	Source        Source
}

func (d *StructDef) Kind() DefKind   { return KindStruct }
func (d *StructDef) DefName() string { return d.Name }
func (d *StructDef) Doc() *Doc       { return d.Documentation }
func (d *StructDef) Src() Source     { return d.Source }
func (*StructDef) sealed()           {}

// Field is a single struct field (or a named payload field of an enum
// variant). Embed marks the ".. Other" form before the resolver flattens
// it; resolved schemas contain no embed fields.
type Field struct {
	Name          string
	Type          Type
	Embed         bool
	Documentation *Doc
	Source        Source
}

// EnumDef is a sum type. The discriminant of a variant is its index in
// Variants, assigned in declaration order.
type EnumDef struct {
	Name          string
	Variants      []Variant
	Documentation *Doc
	Source        Source
}

func (d *EnumDef) Kind() DefKind   { return KindEnum }
func (d *EnumDef) DefName() string { return d.Name }
func (d *EnumDef) Doc() *Doc       { return d.Documentation }
func (d *EnumDef) Src() Source     { return d.Source }
func (*EnumDef) sealed()           {}

// VariantForm distinguishes the payload shape of an enum variant.
type VariantForm int

const (
	FormSimple VariantForm = iota // bare label, no payload
	FormTuple                     // unnamed payload fields
	FormStruct                    // named payload fields
)

// Variant is one case of an enum. Tuple is populated for FormTuple,
// Fields for FormStruct.
type Variant struct {
	Name          string
	Form          VariantForm
	Tuple         []Type
	Fields        []Field
	Documentation *Doc
	Source        Source
}

// ServiceDef is a named group of remote operations.
type ServiceDef struct {
	Name          string
	Methods       []Method
	Documentation *Doc
	Source        Source
}

func (d *ServiceDef) Kind() DefKind   { return KindService }
func (d *ServiceDef) DefName() string { return d.Name }
func (d *ServiceDef) Doc() *Doc       { return d.Documentation }
func (d *ServiceDef) Src() Source     { return d.Source }
func (*ServiceDef) sealed()           {}

// Method is a single remote operation with exactly one request and one
// response type. Methods are implicitly asynchronous; the generated
// signatures take a context and return an error alongside the response.
type Method struct {
	Name          string
	Request       Type
	Response      Type
	Documentation *Doc
	Source        Source
}

// Type is a type occurrence: a built-in scalar, a parametrized container,
// or a named reference to another definition.
type Type interface {
	typeNode()
}

// ScalarKind enumerates the built-in scalar types.
type ScalarKind int

const (
	ScalarString ScalarKind = iota
	ScalarBool
	ScalarI32
	ScalarU32
	ScalarU8
	ScalarF64
	ScalarBytes
	ScalarDateTime
	ScalarDate
	ScalarUUID
	ScalarEmpty
)

// String returns the schema-language spelling of the scalar.
func (k ScalarKind) String() string {
	switch k {
	case ScalarString:
		return "str"
	case ScalarBool:
		return "bool"
	case ScalarI32:
		return "i32"
	case ScalarU32:
		return "u32"
	case ScalarU8:
		return "u8"
	case ScalarF64:
		return "f64"
	case ScalarBytes:
		return "bytes"
	case ScalarDateTime:
		return "datetime"
	case ScalarDate:
		return "date"
	case ScalarUUID:
		return "uuid"
	case ScalarEmpty:
		return "()"
	default:
		return "unknown"
	}
}

// Scalar is a built-in scalar type.
type Scalar struct {
	Kind ScalarKind
}

// Option is option<T>. It provides indirection: recursion through an
// option is legal.
type Option struct {
	Elem Type
}

// List is list<T>. It provides indirection like Option.
type List struct {
	Elem Type
}

// Map is map<K, V>. Keys must be str, enforced by the resolver.
type Map struct {
	Key   Type
	Value Type
}

// Tuple is a fixed-length positional type like (i32, i32), always with at
// least two elements. It serializes as a JSON array. Tuples are stored
// inline, so they do not provide indirection for recursion.
type Tuple struct {
	Elems []Type
}

// Named is a reference to another definition by name. Target is NoDef
// until the resolver links it; resolved schemas carry the stable identity
// of the target definition, not just its name.
type Named struct {
	Name   string
	Target DefID
	Source Source
}

func (*Scalar) typeNode() {}
func (*Option) typeNode() {}
func (*List) typeNode()   {}
func (*Map) typeNode()    {}
func (*Tuple) typeNode()  {}
func (*Named) typeNode()  {}
