package syntax

// The concrete tree mirrors the grammar production-for-production. It keeps
// source positions and raw doc text but performs no name resolution; the AST
// builder in the ir package consumes it.

// File is the root of the concrete tree for one compilation unit.
type File struct {
	Name  string // source file name, carried into positions
	Decls []Decl
}

// Decl is a top-level declaration: struct, enum, or service.
type Decl interface {
	DeclName() Ident
	decl()
}

// Ident is an identifier with its source position.
type Ident struct {
	Name   string
	Line   int
	Column int
}

// Pos returns the identifier's position within file.
func (id Ident) Pos(file string) Position {
	return Position{File: file, Line: id.Line, Column: id.Column}
}

// DocComment is the raw markdown body of a /// block.
type DocComment struct {
	Text   string
	Line   int
	Column int
}

// StructDecl is a struct definition with its fields in declaration order.
type StructDecl struct {
	Doc    *DocComment
	Name   Ident
	Fields []FieldDecl
}

func (d *StructDecl) DeclName() Ident { return d.Name }
func (d *StructDecl) decl()           {}

// FieldDecl is a single struct field, or an embed when Embed is set (the
// ".. Other" form; Type is then the named reference to the embedded struct).
type FieldDecl struct {
	Doc   *DocComment
	Name  Ident
	Type  TypeExpr
	Embed bool
}

// EnumDecl is a sum-type definition with its variants in declaration order.
type EnumDecl struct {
	Doc      *DocComment
	Name     Ident
	Variants []VariantDecl
}

func (d *EnumDecl) DeclName() Ident { return d.Name }
func (d *EnumDecl) decl()           {}

// VariantForm distinguishes the payload shape of an enum variant.
type VariantForm int

const (
	// FormSimple is a bare label: Red
	FormSimple VariantForm = iota
	// FormTuple carries unnamed payload fields: Rgb(u8, u8, u8)
	FormTuple
	// FormStruct carries named payload fields: Hsv { h: u8, s: u8, v: u8 }
	FormStruct
)

// VariantDecl is one enum variant. Tuple is set for FormTuple, Fields for
// FormStruct.
type VariantDecl struct {
	Doc    *DocComment
	Name   Ident
	Form   VariantForm
	Tuple  []TypeExpr
	Fields []FieldDecl
}

// ServiceDecl is a service definition with its methods in declaration order.
type ServiceDecl struct {
	Doc     *DocComment
	Name    Ident
	Methods []MethodDecl
}

func (d *ServiceDecl) DeclName() Ident { return d.Name }
func (d *ServiceDecl) decl()           {}

// MethodDecl is a single service method: name(Request) -> Response.
type MethodDecl struct {
	Doc      *DocComment
	Name     Ident
	Request  TypeExpr
	Response TypeExpr
}

// TypeExpr is a type occurrence in the source. Scalar keywords are still
// plain NamedType nodes here; the AST builder classifies them.
type TypeExpr interface {
	typeExpr()
}

// NamedType is an identifier used in type position.
type NamedType struct {
	Name Ident
}

// OptionType is option<T>.
type OptionType struct {
	Elem TypeExpr
}

// ListType is list<T>.
type ListType struct {
	Elem TypeExpr
}

// MapType is map<K, V>.
type MapType struct {
	Key   TypeExpr
	Value TypeExpr
}

// TupleType is a parenthesized positional type like (i32, i32), with at
// least two elements. A bare () is EmptyType, not a zero-element tuple.
type TupleType struct {
	Elems  []TypeExpr
	Line   int
	Column int
}

// EmptyType is the unit type ().
type EmptyType struct {
	Line   int
	Column int
}

func (*NamedType) typeExpr()  {}
func (*OptionType) typeExpr() {}
func (*ListType) typeExpr()   {}
func (*MapType) typeExpr()    {}
func (*TupleType) typeExpr()  {}
func (*EmptyType) typeExpr()  {}
