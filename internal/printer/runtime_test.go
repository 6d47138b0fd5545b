package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/iogen/internal/ir"
)

// TestPrintRuntimeNode_Primitives tests every primitive codec.
func TestPrintRuntimeNode_Primitives(t *testing.T) {
	tests := map[ir.Node]string{
		ir.StringType:        "t.string",
		ir.NumberType:        "t.number",
		ir.BooleanType:       "t.boolean",
		ir.NullType:          "t.null",
		ir.UndefinedType:     "t.undefined",
		ir.UnknownType:       "t.unknown",
		ir.AnyType:           "t.any",
		ir.FunctionType:      "t.Function",
		ir.UnknownArrayType:  "t.UnknownArray",
		ir.UnknownRecordType: "t.UnknownRecord",
		ir.IntType:           "t.Int",
	}
	for n, want := range tests {
		assert.Equal(t, want, PrintRuntimeNode(n, 0))
	}
}

// TestPrintRuntimeNode_Literals tests literal codecs with and without names.
func TestPrintRuntimeNode_Literals(t *testing.T) {
	assert.Equal(t, `t.literal('it\'s')`, PrintRuntimeNode(ir.StringLiteral("it's"), 0))
	assert.Equal(t, "t.literal(1.5)", PrintRuntimeNode(ir.NumberLiteral(1.5), 0))
	assert.Equal(t, "t.literal(true, 'Yes')", PrintRuntimeNode(ir.BooleanLiteral(true).Named("Yes"), 0))
}

// TestPrintRuntime_MixedStruct tests the decomposition of a struct mixing
// required and optional properties.
func TestPrintRuntime_MixedStruct(t *testing.T) {
	d := ir.Declare("Foo", ir.NewStruct(
		ir.Prop("foo", ir.StringType),
		ir.OptionalProp("bar", ir.NumberType),
	))

	want := "const Foo = t.intersection([\n" +
		"  t.type({\n" +
		"    foo: t.string\n" +
		"  }),\n" +
		"  t.partial({\n" +
		"    bar: t.number\n" +
		"  })\n" +
		"])"
	assert.Equal(t, want, PrintRuntime(d))
}

// TestPrintRuntimeNode_NoSpuriousIntersection tests that homogeneous
// structs never decompose.
func TestPrintRuntimeNode_NoSpuriousIntersection(t *testing.T) {
	required := ir.NewStruct(ir.Prop("a", ir.StringType), ir.Prop("b", ir.NumberType))
	optional := ir.NewStruct(ir.OptionalProp("a", ir.StringType), ir.OptionalProp("b", ir.NumberType))

	assert.Equal(t, "t.type({\n  a: t.string,\n  b: t.number\n})", PrintRuntimeNode(required, 0))
	assert.Equal(t, "t.partial({\n  a: t.string,\n  b: t.number\n})", PrintRuntimeNode(optional, 0))
	assert.NotContains(t, PrintRuntimeNode(required, 0), "intersection")
	assert.NotContains(t, PrintRuntimeNode(optional, 0), "intersection")
}

// TestPrintRuntimeNode_Structs tests struct variants, names and nesting.
func TestPrintRuntimeNode_Structs(t *testing.T) {
	named := ir.NewStruct(ir.Prop("name", ir.StringType))
	named.Name = "Person"

	tests := []struct {
		name string
		node ir.Node
		want string
	}{
		{"empty", ir.NewStruct(), "t.type({})"},
		{"named", named, "t.type({\n  name: t.string\n}, 'Person')"},
		{"partial", ir.NewPartial(ir.Prop("a", ir.StringType)), "t.partial({\n  a: t.string\n})"},
		{"strict", ir.NewStrict(ir.Prop("a", ir.StringType)), "t.strict({\n  a: t.string\n})"},
		{"strict optional", ir.NewStrict(ir.OptionalProp("a", ir.StringType)), "t.exact(t.partial({\n  a: t.string\n}))"},
		{
			"strict mixed",
			ir.NewStrict(ir.Prop("a", ir.StringType), ir.OptionalProp("b", ir.StringType)),
			"t.exact(t.intersection([\n  t.type({\n    a: t.string\n  }),\n  t.partial({\n    b: t.string\n  })\n]))",
		},
		{
			"nested",
			ir.NewStruct(ir.Prop("a", ir.NewStruct(ir.Prop("b", ir.StringType)))),
			"t.type({\n  a: t.type({\n    b: t.string\n  })\n})",
		},
		{
			"escaped keys",
			ir.NewStruct(ir.Prop("first name", ir.StringType), ir.Prop("1st", ir.NumberType)),
			"t.type({\n  'first name': t.string,\n  '1st': t.number\n})",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrintRuntimeNode(tt.node, 0))
		})
	}
}

// TestPrintRuntimeNode_Combinators tests the remaining combinators.
func TestPrintRuntimeNode_Combinators(t *testing.T) {
	namedUnion := ir.NewUnion(ir.StringType, ir.NumberType)
	namedUnion.Name = "StrOrNum"

	tests := []struct {
		name string
		node ir.Node
		want string
	}{
		{"union", ir.NewUnion(ir.StringType, ir.NumberType), "t.union([\n  t.string,\n  t.number\n])"},
		{"named union", namedUnion, "t.union([\n  t.string,\n  t.number\n], 'StrOrNum')"},
		{"intersection", ir.NewIntersection(ir.Ident("A"), ir.Ident("B")), "t.intersection([\n  A,\n  B\n])"},
		{"tagged union", ir.NewTaggedUnion("type", ir.Ident("A"), ir.Ident("B")), "t.taggedUnion('type', [\n  A,\n  B\n])"},
		{"array", ir.NewArray(ir.StringType), "t.array(t.string)"},
		{"readonly array", ir.NewReadonlyArray(ir.StringType), "t.readonlyArray(t.string)"},
		{"tuple", ir.NewTuple(ir.StringType, ir.NumberType), "t.tuple([\n  t.string,\n  t.number\n])"},
		{"dictionary", ir.NewDictionary(ir.StringType, ir.NumberType), "t.record(t.string, t.number)"},
		{"keyof", ir.NewKeyof("a", "b"), "t.keyof({\n  a: null,\n  b: null\n})"},
		{"exact", ir.NewExact(ir.Ident("A")), "t.exact(A)"},
		{"readonly", ir.NewReadonly(ir.Ident("A")), "t.readonly(A)"},
		{
			"brand",
			ir.NewBrand(ir.NumberType, "x > 0", "Positive"),
			"t.brand(t.number, (x): x is t.Branded<number, PositiveBrand> => x > 0, 'Positive')",
		},
		{"custom", ir.NewCustom("Date", "DateFromISOString"), "DateFromISOString"},
		{
			"recursive",
			ir.Recursive{Name: "Tree", Type: ir.NewArray(ir.Ident("Tree"))},
			"t.recursion<Tree, TreeOutput>('Tree', () => t.array(Tree))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrintRuntimeNode(tt.node, 0))
		})
	}
}

// TestPrintRuntimeNode_Indent tests that the starting level shifts
// closing brackets and members.
func TestPrintRuntimeNode_Indent(t *testing.T) {
	n := ir.NewUnion(ir.StringType, ir.NumberType)
	assert.Equal(t, "t.union([\n    t.string,\n    t.number\n  ])", PrintRuntimeNode(n, 1))
}

// TestPrintRuntime_Declarations tests export, readonly and descriptions.
func TestPrintRuntime_Declarations(t *testing.T) {
	person := ir.Export("Person", ir.NewStruct(
		ir.Prop("name", ir.StringType).Describe("Full name"),
	))
	person.Description = "A person"
	assert.Equal(t,
		"/** A person */\nexport const Person = t.type({\n  /** Full name */\n  name: t.string\n})",
		PrintRuntime(person))

	readonly := ir.TypeDeclaration{Name: "R", Type: ir.NewStruct(ir.Prop("a", ir.StringType)), Readonly: true}
	assert.Equal(t, "const R = t.readonly(t.type({\n  a: t.string\n}))", PrintRuntime(readonly))
}

// TestPrintRuntime_Recursive tests the lazily evaluated constructor and
// its two-sided annotation.
func TestPrintRuntime_Recursive(t *testing.T) {
	a := ir.Export("A", ir.Recursive{
		Name:  "A",
		Type:  ir.NewStruct(ir.Prop("b", ir.Ident("B"))),
		Group: []string{"A", "B"},
	})

	assert.Equal(t,
		"export const A: t.Type<A, AOutput> = t.recursion('A', () => t.type({\n  b: B\n}))",
		PrintRuntime(a))
}

// TestPrintRuntime_RecursiveBrandGuard tests that a brand guard inside a
// recursive body projects names the same way the static alias does.
func TestPrintRuntime_RecursiveBrandGuard(t *testing.T) {
	a := ir.Declare("A", ir.Recursive{
		Name: "A",
		Type: ir.NewStruct(ir.Prop("p", ir.NewBrand(ir.Ident("B"), "x !== null", "Known"))),
	})

	assert.Equal(t,
		"const A: t.Type<A, AOutput> = t.recursion('A', () => t.type({\n"+
			"  p: t.brand(B, (x): x is t.Branded<t.TypeOf<typeof B>, KnownBrand> => x !== null, 'Known')\n}))",
		PrintRuntime(a))
}

// TestPrintRuntime_Custom tests verbatim custom text.
func TestPrintRuntime_Custom(t *testing.T) {
	d := ir.DeclareCustom("Date", "type Date = string", "const Date = t.string")
	assert.Equal(t, "const Date = t.string", PrintRuntime(d))
}
