package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/iogen/internal/ir"
)

// TestPrintStaticNode_Primitives tests every primitive spelling.
func TestPrintStaticNode_Primitives(t *testing.T) {
	tests := map[ir.Node]string{
		ir.StringType:        "string",
		ir.NumberType:        "number",
		ir.BooleanType:       "boolean",
		ir.NullType:          "null",
		ir.UndefinedType:     "undefined",
		ir.UnknownType:       "unknown",
		ir.AnyType:           "any",
		ir.FunctionType:      "Function",
		ir.UnknownArrayType:  "Array<unknown>",
		ir.UnknownRecordType: "Record<string, unknown>",
		ir.IntType:           "t.Int",
	}
	for n, want := range tests {
		assert.Equal(t, want, PrintStaticNode(n, 0))
	}
}

// TestPrintStaticNode_Literals tests literal values.
func TestPrintStaticNode_Literals(t *testing.T) {
	assert.Equal(t, `'it\'s'`, PrintStaticNode(ir.StringLiteral("it's"), 0))
	assert.Equal(t, "1.5", PrintStaticNode(ir.NumberLiteral(1.5), 0))
	assert.Equal(t, "true", PrintStaticNode(ir.BooleanLiteral(true).Named("Yes"), 0))
}

// TestPrintStatic_MixedStruct tests that the static side keeps one object
// with per-key optional markers.
func TestPrintStatic_MixedStruct(t *testing.T) {
	d := ir.Declare("Foo", ir.NewStruct(
		ir.Prop("foo", ir.StringType),
		ir.OptionalProp("bar", ir.NumberType),
	))

	assert.Equal(t, "type Foo = {\n  foo: string,\n  bar?: number\n}", PrintStatic(d))
}

// TestPrintStaticNode_Structs tests struct variants and nesting.
func TestPrintStaticNode_Structs(t *testing.T) {
	assert.Equal(t, "{}", PrintStaticNode(ir.NewStruct(), 0))
	assert.Equal(t, "{\n  a?: string\n}", PrintStaticNode(ir.NewPartial(ir.Prop("a", ir.StringType)), 0))
	assert.Equal(t, "{\n  a: string\n}", PrintStaticNode(ir.NewStrict(ir.Prop("a", ir.StringType)), 0))
	assert.Equal(t, "{\n  a: {\n    b: string\n  }\n}", PrintStaticNode(ir.NewStruct(
		ir.Prop("a", ir.NewStruct(ir.Prop("b", ir.StringType))),
	), 0))
	assert.Equal(t, "{\n  'first name': string\n}", PrintStaticNode(ir.NewStruct(
		ir.Prop("first name", ir.StringType),
	), 0))
}

// TestPrintStaticNode_Combinators tests the remaining combinators.
func TestPrintStaticNode_Combinators(t *testing.T) {
	tests := []struct {
		name string
		node ir.Node
		want string
	}{
		{"union", ir.NewUnion(ir.StringType, ir.NumberType), "\n  | string\n  | number"},
		{"intersection", ir.NewIntersection(ir.Ident("A"), ir.Ident("B")), "\n  & A\n  & B"},
		{"tagged union", ir.NewTaggedUnion("type", ir.Ident("A"), ir.Ident("B")), "\n  | A\n  | B"},
		{"array", ir.NewArray(ir.StringType), "Array<string>"},
		{"readonly array", ir.NewReadonlyArray(ir.StringType), "ReadonlyArray<string>"},
		{"tuple", ir.NewTuple(ir.StringType, ir.NumberType), "[\n  string,\n  number\n]"},
		{"dictionary", ir.NewDictionary(ir.StringType, ir.NumberType), "Record<string, number>"},
		{"keyof", ir.NewKeyof("a", "b"), "\n  | 'a'\n  | 'b'"},
		{"exact", ir.NewExact(ir.NewStruct(ir.Prop("a", ir.StringType))), "{\n  a: string\n}"},
		{"readonly", ir.NewReadonly(ir.Ident("A")), "Readonly<A>"},
		{"brand", ir.NewBrand(ir.NumberType, "x > 0", "Positive"), "t.Branded<number, PositiveBrand>"},
		{"custom", ir.NewCustom("Date", "DateFromISOString"), "Date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrintStaticNode(tt.node, 0))
		})
	}
}

// TestPrintStaticNode_NestedUnion tests that union members nest one level.
func TestPrintStaticNode_NestedUnion(t *testing.T) {
	n := ir.NewUnion(ir.NewStruct(ir.Prop("a", ir.StringType)), ir.NullType)
	assert.Equal(t, "\n  | {\n    a: string\n  }\n  | null", PrintStaticNode(n, 0))
}

// TestPrintStatic_Declarations tests export, readonly and descriptions.
func TestPrintStatic_Declarations(t *testing.T) {
	person := ir.Export("Person", ir.NewStruct(
		ir.Prop("name", ir.StringType).Describe("Full name"),
	))
	person.Description = "A person"
	assert.Equal(t,
		"/** A person */\nexport type Person = {\n  /** Full name */\n  name: string\n}",
		PrintStatic(person))

	readonly := ir.TypeDeclaration{Name: "R", Type: ir.NewStruct(ir.Prop("a", ir.StringType)), Readonly: true}
	assert.Equal(t, "type R = Readonly<{\n  a: string\n}>", PrintStatic(readonly))
}

// TestPrintStatic_Brand tests that brand declarations carry a marker
// interface.
func TestPrintStatic_Brand(t *testing.T) {
	d := ir.Export("Positive", ir.NewBrand(ir.NumberType, "x > 0", "Positive"))
	assert.Equal(t,
		"export interface PositiveBrand {\n  readonly Positive: unique symbol\n}\n\n"+
			"export type Positive = t.Branded<number, PositiveBrand>",
		PrintStatic(d))
}

// TestPrintStatic_Custom tests verbatim custom text.
func TestPrintStatic_Custom(t *testing.T) {
	d := ir.DeclareCustom("Date", "type Date = string", "const Date = t.string")
	assert.Equal(t, "type Date = string", PrintStatic(d))
}

// TestPrintStatic_RecursivePair tests that mutually recursive
// declarations reference each other directly on both sides.
func TestPrintStatic_RecursivePair(t *testing.T) {
	a := ir.Declare("A", ir.Recursive{
		Name:  "A",
		Type:  ir.NewStruct(ir.Prop("b", ir.Ident("B"))),
		Group: []string{"B", "A"},
	})

	out := PrintStatic(a)
	assert.Equal(t, "type A = {\n  b: B\n}\n\ntype AOutput = {\n  b: BOutput\n}", out)
	assert.NotContains(t, out, "TypeOf")
	assert.NotContains(t, out, "OutputOf")
}

// TestPrintStatic_RecursiveProjection tests that names outside the
// recursive group are projected through their codec.
func TestPrintStatic_RecursiveProjection(t *testing.T) {
	tree := ir.Export("Tree", ir.Recursive{
		Name: "Tree",
		Type: ir.NewStruct(
			ir.Prop("value", ir.Ident("Node")),
			ir.Prop("children", ir.NewArray(ir.Ident("Tree"))),
		),
	})

	assert.Equal(t,
		"export type Tree = {\n  value: t.TypeOf<typeof Node>,\n  children: Array<Tree>\n}\n\n"+
			"export type TreeOutput = {\n  value: t.OutputOf<typeof Node>,\n  children: Array<TreeOutput>\n}",
		PrintStatic(tree))
}

// TestPrintStatic_RecursiveOutputUnbranded tests that the encoded side of
// a recursive declaration drops brands, since a branded codec encodes to
// its inner type.
func TestPrintStatic_RecursiveOutputUnbranded(t *testing.T) {
	tree := ir.Export("Tree", ir.Recursive{
		Name: "Tree",
		Type: ir.NewStruct(
			ir.Prop("n", ir.IntType),
			ir.Prop("p", ir.NewBrand(ir.NumberType, "x > 0", "Positive")),
			ir.Prop("children", ir.NewArray(ir.Ident("Tree"))),
		),
	})

	assert.Equal(t,
		"export interface PositiveBrand {\n  readonly Positive: unique symbol\n}\n\n"+
			"export type Tree = {\n  n: t.Int,\n  p: t.Branded<number, PositiveBrand>,\n  children: Array<Tree>\n}\n\n"+
			"export type TreeOutput = {\n  n: number,\n  p: number,\n  children: Array<TreeOutput>\n}",
		PrintStatic(tree))
}

// TestPrintStatic_Deterministic tests repeated printing is byte-identical.
func TestPrintStatic_Deterministic(t *testing.T) {
	d := ir.Declare("A", ir.NewStruct(
		ir.Prop("x", ir.NewUnion(ir.Ident("B"), ir.NewBrand(ir.IntType, "x > 0", "Pos"))),
		ir.OptionalProp("y", ir.NewDictionary(ir.NewKeyof("k"), ir.Ident("C"))),
	))
	first := PrintStatic(d)
	for range 5 {
		assert.Equal(t, first, PrintStatic(d))
	}
	assert.True(t, strings.HasPrefix(first, "interface PosBrand {"))
}
