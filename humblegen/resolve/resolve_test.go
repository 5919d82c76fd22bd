package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humblelang/humble/humblegen/diag"
	"github.com/humblelang/humble/humblegen/ir"
	"github.com/humblelang/humble/humblegen/syntax"
)

func resolveSrc(t *testing.T, src string) (*ir.Schema, diag.List) {
	t.Helper()
	f, err := syntax.Parse("test.humble", src)
	require.NoError(t, err)
	return Resolve(ir.Build(f))
}

func mustResolve(t *testing.T, src string) *ir.Schema {
	t.Helper()
	s, diags := resolveSrc(t, src)
	require.NotNil(t, s, "unexpected diagnostics: %s", diags.String())
	return s
}

func mustFail(t *testing.T, src string) diag.List {
	t.Helper()
	s, diags := resolveSrc(t, src)
	require.Nil(t, s, "expected resolution to fail")
	require.True(t, diags.HasErrors())
	return diags
}

func kindsOf(diags diag.List) []diag.Kind {
	var out []diag.Kind
	for _, d := range diags {
		out = append(out, d.Kind)
	}
	return out
}

func TestResolveLinksReferences(t *testing.T) {
	s := mustResolve(t, `
struct Owner { name: str }
struct Pet { owner: option<Owner> }
`)
	pet := s.Defs[1].(*ir.StructDef)
	opt := pet.Fields[0].Type.(*ir.Option)
	named := opt.Elem.(*ir.Named)
	assert.Equal(t, ir.DefID(0), named.Target)
}

func TestResolveUnknownType(t *testing.T) {
	diags := mustFail(t, `struct Pet { owner: Owner }`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindUnknownType, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "Owner")
	assert.Equal(t, 1, diags[0].Pos.Line)
}

func TestResolveCollectsAllErrors(t *testing.T) {
	diags := mustFail(t, `
struct A { x: Missing1 }
struct B { y: Missing2, z: Missing3 }
`)
	assert.Len(t, diags, 3)
}

func TestResolveDuplicateDefinition(t *testing.T) {
	diags := mustFail(t, `
struct Pet { name: str }
enum Pet { A }
`)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, diag.KindDuplicateDefinition, d.Kind)
	assert.Equal(t, 3, d.Pos.Line)
	require.Len(t, d.Related, 1)
	assert.Equal(t, 2, d.Related[0].Pos.Line)
	assert.Equal(t, "first declared here", d.Related[0].Note)
}

func TestResolveDuplicateFieldBothSitesNamed(t *testing.T) {
	diags := mustFail(t, `
struct Pet {
	name: str,
	name: i32,
}`)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, diag.KindDuplicateName, d.Kind)
	assert.Equal(t, 4, d.Pos.Line)
	require.Len(t, d.Related, 1)
	assert.Equal(t, 3, d.Related[0].Pos.Line)
}

func TestResolveDuplicateVariantAndMethod(t *testing.T) {
	diags := mustFail(t, `
enum E { A, A }
struct Req { x: str }
service S { m(Req) -> Req, m(Req) -> Req }
`)
	assert.ElementsMatch(t, []diag.Kind{
		diag.KindDuplicateName, diag.KindDuplicateName,
	}, kindsOf(diags))
}

func TestResolveDuplicateVariantPayloadField(t *testing.T) {
	diags := mustFail(t, `enum E { V { a: str, a: i32 } }`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindDuplicateName, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "E.V")
}

func TestResolveMapKeyMustBeString(t *testing.T) {
	diags := mustFail(t, `struct A { x: map<i32, str> }`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindInvalidMapKey, diags[0].Kind)

	mustResolve(t, `struct A { x: map<str, list<str>> }`)
}

func TestResolveEmbedExpansion(t *testing.T) {
	s := mustResolve(t, `
struct Timestamps { created: datetime, updated: datetime }
struct Pet {
	.. Timestamps,
	name: str,
}`)
	pet := s.Defs[1].(*ir.StructDef)
	require.Len(t, pet.Fields, 3)
	assert.Equal(t, "created", pet.Fields[0].Name)
	assert.Equal(t, "updated", pet.Fields[1].Name)
	assert.Equal(t, "name", pet.Fields[2].Name)
	for _, f := range pet.Fields {
		assert.False(t, f.Embed)
	}
}

func TestResolveTransitiveEmbeds(t *testing.T) {
	s := mustResolve(t, `
struct A { a: str }
struct B { .. A, b: str }
struct C { .. B, c: str }
`)
	c := s.Defs[2].(*ir.StructDef)
	require.Len(t, c.Fields, 3)
	assert.Equal(t, "a", c.Fields[0].Name)
}

func TestResolveEmbedDuplicateFieldReported(t *testing.T) {
	diags := mustFail(t, `
struct Base { name: str }
struct Pet { .. Base, name: str }
`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindDuplicateName, diags[0].Kind)
}

func TestResolveEmbedUnknown(t *testing.T) {
	diags := mustFail(t, `struct Pet { .. Missing }`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindInvalidEmbed, diags[0].Kind)
}

func TestResolveEmbedNonStruct(t *testing.T) {
	diags := mustFail(t, `
enum E { A }
struct Pet { .. E }
`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindInvalidEmbed, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "only structs can be embedded")
}

func TestResolveEmbedCycle(t *testing.T) {
	diags := mustFail(t, `
struct A { .. B }
struct B { .. A }
`)
	for _, d := range diags {
		assert.Equal(t, diag.KindInvalidEmbed, d.Kind)
	}
	assert.NotEmpty(t, diags)
}

func TestResolveDirectRecursionIllegal(t *testing.T) {
	diags := mustFail(t, `struct A { next: A }`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindIllegalRecursiveType, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "A -> A")
}

func TestResolveIndirectRecursionLegal(t *testing.T) {
	mustResolve(t, `struct A { next: option<A> }`)
	mustResolve(t, `struct A { children: list<A> }`)
	mustResolve(t, `struct A { named: map<str, A> }`)
}

func TestResolveMutualRecursion(t *testing.T) {
	diags := mustFail(t, `
struct A { b: B }
struct B { a: A }
`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "->")
}

func TestResolveRecursionThroughEnumLegal(t *testing.T) {
	// Enum payloads are generated behind pointers, so an enum in the cycle
	// provides indirection.
	mustResolve(t, `
struct Node { next: Link }
enum Link { End, More(Node) }
`)
}

func TestResolveServiceAsFieldTypeIllegal(t *testing.T) {
	diags := mustFail(t, `
struct Req { x: str }
service S { m(Req) -> Req }
struct Bad { svc: S }
`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindInvalidFieldType, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "S")
	assert.Equal(t, 4, diags[0].Pos.Line)
}

func TestResolveServiceInContainerAndVariantIllegal(t *testing.T) {
	diags := mustFail(t, `
struct Req { x: str }
service S { m(Req) -> Req }
struct Bad { all: list<S> }
enum E { Wrapped(S), Inline { svc: option<S> } }
`)
	require.Len(t, diags, 3)
	for _, d := range diags {
		assert.Equal(t, diag.KindInvalidFieldType, d.Kind)
	}
}

func TestResolveTupleElements(t *testing.T) {
	s := mustResolve(t, `
struct Label { text: str }
struct Point { coords: (i32, Label) }
`)
	point := s.Defs[1].(*ir.StructDef)
	tup := point.Fields[0].Type.(*ir.Tuple)
	named := tup.Elems[1].(*ir.Named)
	assert.Equal(t, ir.DefID(0), named.Target)
}

func TestResolveRecursionThroughTupleIllegal(t *testing.T) {
	// Tuples are stored inline, so they do not break a cycle the way
	// option, list, and map do.
	diags := mustFail(t, `struct A { pair: (A, i32) }`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindIllegalRecursiveType, diags[0].Kind)

	mustResolve(t, `struct A { pairs: list<(A, i32)> }`)
}

func TestResolveReservedDefinitionName(t *testing.T) {
	diags := mustFail(t, `
struct option { x: str }
enum str { A }
`)
	require.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, diag.KindReservedName, d.Kind)
	}
	assert.Contains(t, diags[0].Message, "built-in type name")
}

func TestResolveMethodTypes(t *testing.T) {
	mustResolve(t, `
struct Req { x: str }
enum Resp { Ok, Err(str) }
service S { m(Req) -> Resp }
`)
}

func TestResolveMethodTypeNotNamed(t *testing.T) {
	diags := mustFail(t, `service S { m(str) -> str }`)
	assert.Len(t, diags, 2)
	for _, d := range diags {
		assert.Equal(t, diag.KindInvalidMethodType, d.Kind)
	}
}

func TestResolveMethodTypeService(t *testing.T) {
	diags := mustFail(t, `
struct Req { x: str }
service Other { m(Req) -> Req }
service S { m(Other) -> Req }
`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindInvalidMethodType, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "Other")
}

func TestResolveDiagnosticsSorted(t *testing.T) {
	diags := mustFail(t, `
struct B { y: Missing2 }
struct A { x: Missing1 }
`)
	require.Len(t, diags, 2)
	assert.True(t, diags[0].Pos.Line < diags[1].Pos.Line)
}

func TestResolveWarningsDoNotFail(t *testing.T) {
	s, diags := resolveSrc(t, `struct A { x: str }`)
	require.NotNil(t, s)
	assert.False(t, diags.HasErrors())
}
