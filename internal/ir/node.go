package ir

import (
	"fmt"
	"strconv"
)

// Node is a sealed interface representing a data-type description.
// Only the variants declared in this package implement it.
type Node interface {
	irNode() // Sealed - only these types implement it
}

// PrimitiveKind enumerates the leaf types that carry no children.
type PrimitiveKind int

const (
	KindString PrimitiveKind = iota
	KindNumber
	KindBoolean
	KindNull
	KindUndefined
	KindUnknown
	KindAny
	KindFunction
	KindUnknownArray
	KindUnknownRecord
	KindInt
)

var primitiveNames = map[PrimitiveKind]string{
	KindString:        "string",
	KindNumber:        "number",
	KindBoolean:       "boolean",
	KindNull:          "null",
	KindUndefined:     "undefined",
	KindUnknown:       "unknown",
	KindAny:           "any",
	KindFunction:      "function",
	KindUnknownArray:  "unknownArray",
	KindUnknownRecord: "unknownRecord",
	KindInt:           "int",
}

// String returns the IR name of the primitive kind.
func (k PrimitiveKind) String() string {
	if name, ok := primitiveNames[k]; ok {
		return name
	}
	return "PrimitiveKind(" + strconv.Itoa(int(k)) + ")"
}

// PrimitiveKindByName resolves an IR primitive name ("string", "int", ...).
func PrimitiveKindByName(name string) (PrimitiveKind, bool) {
	for k, n := range primitiveNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Primitive is a leaf type.
type Primitive struct {
	Kind PrimitiveKind
}

func (Primitive) irNode() {}

// Primitive singletons.
var (
	StringType        = Primitive{Kind: KindString}
	NumberType        = Primitive{Kind: KindNumber}
	BooleanType       = Primitive{Kind: KindBoolean}
	NullType          = Primitive{Kind: KindNull}
	UndefinedType     = Primitive{Kind: KindUndefined}
	UnknownType       = Primitive{Kind: KindUnknown}
	AnyType           = Primitive{Kind: KindAny}
	FunctionType      = Primitive{Kind: KindFunction}
	UnknownArrayType  = Primitive{Kind: KindUnknownArray}
	UnknownRecordType = Primitive{Kind: KindUnknownRecord}
	IntType           = Primitive{Kind: KindInt}
)

// Identifier references another declaration by name, or an externally
// defined name that is not part of the current batch.
type Identifier struct {
	Name string
}

func (Identifier) irNode() {}

// Ident creates an Identifier.
func Ident(name string) Identifier {
	return Identifier{Name: name}
}

// LiteralKind is the type of a literal value.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBoolean
)

// Literal is a fixed string, number or boolean value.
// Exactly one of the value fields is meaningful, selected by Kind.
type Literal struct {
	Kind        LiteralKind
	StringValue string
	NumberValue float64
	BoolValue   bool
	Name        string // optional runtime name
}

func (Literal) irNode() {}

// StringLiteral creates a string literal.
func StringLiteral(s string) Literal {
	return Literal{Kind: LiteralString, StringValue: s}
}

// NumberLiteral creates a number literal.
func NumberLiteral(n float64) Literal {
	return Literal{Kind: LiteralNumber, NumberValue: n}
}

// BooleanLiteral creates a boolean literal.
func BooleanLiteral(b bool) Literal {
	return Literal{Kind: LiteralBoolean, BoolValue: b}
}

// Named returns a copy of the literal carrying a runtime name.
func (l Literal) Named(name string) Literal {
	l.Name = name
	return l
}

// FormatNumber renders a number literal the way both targets expect
// (shortest representation, no exponent for integral values).
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Property is a single keyed member of a struct combinator.
type Property struct {
	Key         string
	Type        Node
	Optional    bool
	Description string
}

// Prop creates a required property.
func Prop(key string, t Node) Property {
	return Property{Key: key, Type: t}
}

// OptionalProp creates an optional property.
func OptionalProp(key string, t Node) Property {
	return Property{Key: key, Type: t, Optional: true}
}

// Describe returns a copy of the property carrying a description.
func (p Property) Describe(description string) Property {
	p.Description = description
	return p
}

// Struct is an object whose properties are validated as declared:
// required properties must be present, optional ones may be absent.
type Struct struct {
	Properties []Property
	Name       string
}

func (Struct) irNode() {}

// NewStruct creates a Struct.
func NewStruct(props ...Property) Struct {
	return Struct{Properties: props}
}

// Partial is an object whose properties are all implicitly optional.
type Partial struct {
	Properties []Property
	Name       string
}

func (Partial) irNode() {}

// NewPartial creates a Partial.
func NewPartial(props ...Property) Partial {
	return Partial{Properties: props}
}

// Strict is a Struct that additionally rejects unknown fields.
type Strict struct {
	Properties []Property
	Name       string
}

func (Strict) irNode() {}

// NewStrict creates a Strict.
func NewStrict(props ...Property) Strict {
	return Strict{Properties: props}
}

// Union accepts a value matching any of its members.
type Union struct {
	Types []Node
	Name  string
}

func (Union) irNode() {}

// NewUnion creates a Union.
func NewUnion(types ...Node) Union {
	return Union{Types: types}
}

// Intersection accepts a value matching all of its members.
type Intersection struct {
	Types []Node
	Name  string
}

func (Intersection) irNode() {}

// NewIntersection creates an Intersection.
func NewIntersection(types ...Node) Intersection {
	return Intersection{Types: types}
}

// TaggedUnion is a Union whose members are discriminated by the Tag field.
type TaggedUnion struct {
	Tag   string
	Types []Node
	Name  string
}

func (TaggedUnion) irNode() {}

// NewTaggedUnion creates a TaggedUnion.
func NewTaggedUnion(tag string, types ...Node) TaggedUnion {
	return TaggedUnion{Tag: tag, Types: types}
}

// Array is a mutable list of Type.
type Array struct {
	Type Node
	Name string
}

func (Array) irNode() {}

// NewArray creates an Array.
func NewArray(t Node) Array {
	return Array{Type: t}
}

// ReadonlyArray is an immutable list of Type.
type ReadonlyArray struct {
	Type Node
	Name string
}

func (ReadonlyArray) irNode() {}

// NewReadonlyArray creates a ReadonlyArray.
func NewReadonlyArray(t Node) ReadonlyArray {
	return ReadonlyArray{Type: t}
}

// Tuple is a fixed-length list with per-position types.
type Tuple struct {
	Types []Node
	Name  string
}

func (Tuple) irNode() {}

// NewTuple creates a Tuple.
func NewTuple(types ...Node) Tuple {
	return Tuple{Types: types}
}

// Dictionary maps keys of Domain to values of Codomain.
type Dictionary struct {
	Domain   Node
	Codomain Node
	Name     string
}

func (Dictionary) irNode() {}

// NewDictionary creates a Dictionary.
func NewDictionary(domain, codomain Node) Dictionary {
	return Dictionary{Domain: domain, Codomain: codomain}
}

// Keyof is a closed set of string literals.
type Keyof struct {
	Values []string
	Name   string
}

func (Keyof) irNode() {}

// NewKeyof creates a Keyof.
func NewKeyof(values ...string) Keyof {
	return Keyof{Values: values}
}

// Exact forbids unknown fields on Type without restating its properties.
type Exact struct {
	Type Node
	Name string
}

func (Exact) irNode() {}

// NewExact creates an Exact.
func NewExact(t Node) Exact {
	return Exact{Type: t}
}

// Readonly marks every field of Type as immutable.
type Readonly struct {
	Type Node
	Name string
}

func (Readonly) irNode() {}

// NewReadonly creates a Readonly.
func NewReadonly(t Node) Readonly {
	return Readonly{Type: t}
}

// Brand is a nominal refinement of Type. Predicate is an expression over
// Param that holds for every valid value; Name is the unique brand marker.
type Brand struct {
	Type      Node
	Param     string
	Predicate string
	Name      string
}

func (Brand) irNode() {}

// DefaultBrandParam is the predicate parameter used when Param is empty.
const DefaultBrandParam = "x"

// NewBrand creates a Brand whose predicate is written over DefaultBrandParam.
func NewBrand(t Node, predicate, name string) Brand {
	return Brand{Type: t, Param: DefaultBrandParam, Predicate: predicate, Name: name}
}

// Recursive binds Name inside its own Type. Group lists every declaration
// rewritten in the same pass (Name included); members of the group also
// have paired output declarations and are referenced directly.
type Recursive struct {
	Name  string
	Type  Node
	Group []string
}

func (Recursive) irNode() {}

// InGroup reports whether name was rewritten alongside this node.
func (r Recursive) InGroup(name string) bool {
	if name == r.Name {
		return true
	}
	for _, g := range r.Group {
		if g == name {
			return true
		}
	}
	return false
}

// Custom holds pre-rendered text for both targets. Its dependencies
// cannot be introspected and are listed explicitly.
type Custom struct {
	Static       string
	Runtime      string
	Dependencies []string
}

func (Custom) irNode() {}

// NewCustom creates a Custom node.
func NewCustom(static, runtime string, deps ...string) Custom {
	return Custom{Static: static, Runtime: runtime, Dependencies: deps}
}

// KindName returns a short, stable name for the node's variant.
// Used in diagnostics and canonical encoding.
func KindName(n Node) string {
	switch n.(type) {
	case Primitive:
		return "primitive"
	case Identifier:
		return "identifier"
	case Literal:
		return "literal"
	case Struct:
		return "struct"
	case Partial:
		return "partial"
	case Strict:
		return "strict"
	case Union:
		return "union"
	case Intersection:
		return "intersection"
	case TaggedUnion:
		return "taggedUnion"
	case Array:
		return "array"
	case ReadonlyArray:
		return "readonlyArray"
	case Tuple:
		return "tuple"
	case Dictionary:
		return "dictionary"
	case Keyof:
		return "keyof"
	case Exact:
		return "exact"
	case Readonly:
		return "readonly"
	case Brand:
		return "brand"
	case Recursive:
		return "recursive"
	case Custom:
		return "custom"
	default:
		panic(fmt.Sprintf("ir: unknown node type %T", n))
	}
}
