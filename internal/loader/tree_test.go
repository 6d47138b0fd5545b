package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/iogen/internal/ir"
)

func parseYAMLOne(t *testing.T, src string) ir.Declaration {
	t.Helper()
	decls, errs := ParseYAML("test.yaml", []byte(src))
	require.Empty(t, errs)
	require.Len(t, decls, 1)
	return decls[0]
}

func TestDecodeCombinators(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ir.Node
	}{
		{
			name: "primitive",
			src:  "type: unknownRecord",
			want: ir.UnknownRecordType,
		},
		{
			name: "null primitive",
			src:  "type: null",
			want: ir.NullType,
		},
		{
			name: "named literal",
			src:  "type: {literal: 42, name: Answer}",
			want: ir.NumberLiteral(42).Named("Answer"),
		},
		{
			name: "boolean literal",
			src:  "type: {literal: true}",
			want: ir.BooleanLiteral(true),
		},
		{
			name: "union",
			src:  "type: {union: [string, {literal: a}]}",
			want: ir.Union{Types: []ir.Node{ir.StringType, ir.StringLiteral("a")}},
		},
		{
			name: "tagged union",
			src:  "type: {taggedUnion: [Circle, Square], tag: kind, name: Shape}",
			want: ir.TaggedUnion{Tag: "kind", Types: []ir.Node{ir.Ident("Circle"), ir.Ident("Square")}, Name: "Shape"},
		},
		{
			name: "record",
			src:  "type: {record: {domain: string, codomain: number}}",
			want: ir.Dictionary{Domain: ir.StringType, Codomain: ir.NumberType},
		},
		{
			name: "tuple",
			src:  "type: {tuple: [string, int]}",
			want: ir.Tuple{Types: []ir.Node{ir.StringType, ir.IntType}},
		},
		{
			name: "wrappers",
			src:  "type: {exact: {readonly: {readonlyArray: Item}}}",
			want: ir.Exact{Type: ir.Readonly{Type: ir.ReadonlyArray{Type: ir.Ident("Item")}}},
		},
		{
			name: "brand",
			src:  "type: {brand: {type: number, predicate: 'x >= 0', name: NonNegative}}",
			want: ir.Brand{Type: ir.NumberType, Param: ir.DefaultBrandParam, Predicate: "x >= 0", Name: "NonNegative"},
		},
		{
			name: "brand with param",
			src:  "type: {brand: {type: string, predicate: 's.length > 0', name: NonEmpty, param: s}}",
			want: ir.Brand{Type: ir.StringType, Param: "s", Predicate: "s.length > 0", Name: "NonEmpty"},
		},
		{
			name: "inline custom",
			src:  "type: {custom: {static: Date, runtime: DateFromISOString, dependencies: [Clock]}}",
			want: ir.Custom{Static: "Date", Runtime: "DateFromISOString", Dependencies: []string{"Clock"}},
		},
		{
			name: "partial",
			src:  "type: {partial: {a: string}}",
			want: ir.Partial{Properties: []ir.Property{{Key: "a", Type: ir.StringType}}},
		},
		{
			name: "strict with property spec",
			src:  "type: {strict: {id: {type: string, optional: true, description: Identifier}}}",
			want: ir.Strict{Properties: []ir.Property{
				{Key: "id", Type: ir.StringType, Optional: true, Description: "Identifier"},
			}},
		},
		{
			name: "property spec holding a combinator",
			src:  "type: {struct: {items: {type: {array: string}}}}",
			want: ir.Struct{Properties: []ir.Property{
				{Key: "items", Type: ir.Array{Type: ir.StringType}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseYAMLOne(t, "declarations:\n  - name: T\n    "+tt.src+"\n")
			td, ok := d.(ir.TypeDeclaration)
			require.True(t, ok)
			assert.Equal(t, tt.want, td.Type)
		})
	}
}

func TestDecodeCustomDeclaration(t *testing.T) {
	d := parseYAMLOne(t, `
declarations:
  - name: Timestamp
    custom:
      static: string
      runtime: DateFromISOString
      dependencies: [Clock]
`)
	assert.Equal(t, ir.CustomDeclaration{
		Name:         "Timestamp",
		Static:       "string",
		Runtime:      "DateFromISOString",
		Dependencies: []string{"Clock"},
	}, d)
}

func TestDecodeDeclarationFlags(t *testing.T) {
	d := parseYAMLOne(t, `
declarations:
  - name: Config
    export: true
    readonly: true
    description: Settings
    type: {struct: {}}
`)
	td := d.(ir.TypeDeclaration)
	assert.True(t, td.Exported)
	assert.True(t, td.Readonly)
	assert.Equal(t, "Settings", td.Description)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
		msg  string
	}{
		{"missing name", "- type: string", ErrCodeInvalidDecl, "declaration 0: missing name"},
		{"missing type", "- name: A", ErrCodeInvalidDecl, "missing type"},
		{"unknown field", "- {name: A, type: string, kind: x}", ErrCodeInvalidDecl, `unknown field "kind"`},
		{"custom and type", "- {name: A, type: string, custom: {static: a, runtime: b}}", ErrCodeInvalidDecl, "mutually exclusive"},
		{"two combinators", "- {name: A, type: {array: string, union: [a]}}", ErrCodeInvalidType, `both "array" and "union"`},
		{"unknown combinator", "- {name: A, type: {map: string}}", ErrCodeInvalidType, `unknown field "map"`},
		{"bad literal", "- {name: A, type: {literal: [1]}}", ErrCodeInvalidType, "literal must be"},
		{"brand without name", "- {name: A, type: {brand: {type: number, predicate: x > 0}}}", ErrCodeInvalidType, "name is required"},
		{"custom without runtime", "- {name: A, custom: {static: a}}", ErrCodeInvalidType, "runtime is required"},
		{"keyof of numbers", "- {name: A, type: {keyof: [1, 2]}}", ErrCodeInvalidType, "expected a string"},
		{"non-boolean export", "- {name: A, type: string, export: yes please}", ErrCodeInvalidDecl, "export must be a boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ParseYAML("bad.yaml", []byte("declarations:\n  "+tt.src+"\n"))
			require.Len(t, errs, 1)
			assertCode(t, tt.code, errs[0])
			assert.Contains(t, errs[0].Error(), tt.msg)
		})
	}
}

func TestDecodeCollectsAllErrors(t *testing.T) {
	decls, errs := ParseYAML("mixed.yaml", []byte(`
declarations:
  - name: Good
    type: string
  - name: Bad
    type: {array: }
  - name: AlsoBad
`))
	assert.Equal(t, []string{"Good"}, ir.Names(decls))
	require.Len(t, errs, 2)

	var le *LoadError
	require.ErrorAs(t, errs[0], &le)
	assert.Equal(t, 5, le.Pos.Line)
	assert.Contains(t, le.Message, `declaration "Bad": type.array: missing type`)
}
