package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/iogen/internal/ir"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

// TestValidate_Valid tests that a well-formed batch has no errors.
func TestValidate_Valid(t *testing.T) {
	decls := []ir.Declaration{
		ir.Export("Person", ir.NewStruct(
			ir.Prop("name", ir.StringType),
			ir.OptionalProp("age", ir.NumberType),
			ir.Prop("tags", ir.NewDictionary(ir.NewKeyof("a", "b"), ir.BooleanType)),
		)),
		ir.Declare("Shape", ir.NewTaggedUnion("type", ir.Ident("Circle"), ir.Ident("Square"))),
		ir.Declare("Positive", ir.NewBrand(ir.NumberType, "x > 0", "Positive")),
		ir.DeclareCustom("Date", "Date", "const Date = DateFromISOString"),
	}

	assert.Empty(t, Validate(decls))
}

// TestValidate_CollectsAll tests that every problem is reported, not just
// the first.
func TestValidate_CollectsAll(t *testing.T) {
	decls := []ir.Declaration{
		ir.Declare("my type", ir.NewStruct(
			ir.Prop("", ir.StringType),
			ir.Prop("a", ir.StringType),
			ir.Prop("a", ir.NumberType),
		)),
		ir.Declare("U", ir.NewUnion(ir.StringType)),
		ir.Declare("U", ir.NewKeyof()),
	}

	errs := Validate(decls)
	assert.Equal(t, []string{
		ErrInvalidDeclarationName,
		ErrEmptyPropertyKey,
		ErrDuplicatePropertyKey,
		ErrTooFewMembers,
		ErrDuplicateName,
		ErrEmptyKeyof,
	}, codes(errs))
	assert.Equal(t, "declarations[0].type.properties[2].key", errs[2].Field)
}

// TestValidate_NestedPaths tests that field paths point into nested nodes.
func TestValidate_NestedPaths(t *testing.T) {
	decls := []ir.Declaration{
		ir.Declare("A", ir.NewArray(ir.NewTuple())),
		ir.Declare("B", ir.NewDictionary(ir.NumberType, ir.StringType)),
		ir.Declare("C", ir.NewTaggedUnion("", ir.Ident("X"), ir.Ident("Y"))),
	}

	errs := Validate(decls)
	require.Len(t, errs, 3)
	assert.Equal(t, ValidationError{
		Field:   "declarations[0].type.type.types",
		Message: "tuple requires at least one member",
		Code:    ErrEmptyTuple,
	}, errs[0])
	assert.Equal(t, ErrInvalidDomain, errs[1].Code)
	assert.Equal(t, "declarations[1].type.domain", errs[1].Field)
	assert.Equal(t, ErrEmptyTag, errs[2].Code)
}

// TestValidate_Brand tests brand name and predicate checks.
func TestValidate_Brand(t *testing.T) {
	errs := Validate([]ir.Declaration{
		ir.Declare("A", ir.NewBrand(ir.NumberType, "", "Positive")),
		ir.Declare("B", ir.NewBrand(ir.NumberType, "x > 0", "not valid")),
	})
	assert.Equal(t, []string{ErrInvalidBrand, ErrInvalidBrand}, codes(errs))
}

// TestValidate_RecursiveRejected tests that callers cannot supply
// recursive nodes themselves.
func TestValidate_RecursiveRejected(t *testing.T) {
	errs := Validate([]ir.Declaration{
		ir.Declare("A", ir.Recursive{Name: "A", Type: ir.Ident("A")}),
	})
	assert.Equal(t, []string{ErrRecursiveNotAllowed}, codes(errs))
}

// TestValidate_CustomText tests custom declarations need both texts.
func TestValidate_CustomText(t *testing.T) {
	errs := Validate([]ir.Declaration{
		ir.DeclareCustom("A", "string", ""),
	})
	assert.Equal(t, []string{ErrCustomMissingText}, codes(errs))
}

// TestValidate_MissingType tests a declaration without a body.
func TestValidate_MissingType(t *testing.T) {
	errs := Validate([]ir.Declaration{ir.TypeDeclaration{Name: "A"}})
	assert.Equal(t, []string{ErrMissingType}, codes(errs))
}

// TestValidationError_Error tests the error string format.
func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "declarations[0].name", Message: "bad", Code: "E101"}
	assert.Equal(t, "[E101] declarations[0].name: bad", err.Error())
}

// TestContainsUndefined tests detection of types admitting undefined.
func TestContainsUndefined(t *testing.T) {
	assert.True(t, ContainsUndefined(ir.UndefinedType))
	assert.True(t, ContainsUndefined(ir.UnknownType))
	assert.True(t, ContainsUndefined(ir.NewUnion(ir.StringType, ir.UndefinedType)))
	assert.False(t, ContainsUndefined(ir.NewUnion(ir.StringType, ir.NullType)))
	assert.False(t, ContainsUndefined(ir.Ident("Maybe")))
}

// TestWarnings tests cycle, unresolved and redundant-optional diagnostics.
func TestWarnings(t *testing.T) {
	decls := []ir.Declaration{
		ir.Declare("A", ir.NewStruct(
			ir.Prop("b", ir.Ident("B")),
			ir.OptionalProp("note", ir.NewUnion(ir.StringType, ir.UndefinedType)),
		)),
		ir.Declare("B", ir.NewStruct(ir.Prop("a", ir.Ident("A")))),
		ir.Declare("C", ir.NewPartial(ir.Prop("at", ir.Ident("Date")))),
	}

	warnings := Warnings(decls)
	require.Len(t, warnings, 3)

	assert.Equal(t, WarnCycle, warnings[0].Code)
	assert.Equal(t, []string{"A", "B", "A"}, warnings[0].Path)

	assert.Equal(t, WarnUnresolved, warnings[1].Code)
	assert.Equal(t, "C", warnings[1].Field)

	assert.Equal(t, WarnRedundantOptional, warnings[2].Code)
	assert.Equal(t, "A.note", warnings[2].Field)
}

// TestWarnings_DuplicatesSkipGraph tests that duplicate names suppress
// graph-based warnings instead of failing.
func TestWarnings_DuplicatesSkipGraph(t *testing.T) {
	warnings := Warnings([]ir.Declaration{
		ir.Declare("A", ir.Ident("A")),
		ir.Declare("A", ir.StringType),
	})
	assert.Empty(t, warnings)
}
