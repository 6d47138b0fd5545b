package ir

import "fmt"

// Visitor is implemented once per consumer of the IR (printers, the
// dependency extractor). Because every variant has its own method, a
// consumer that forgets a variant does not compile.
type Visitor[R any] interface {
	VisitPrimitive(Primitive) R
	VisitIdentifier(Identifier) R
	VisitLiteral(Literal) R
	VisitStruct(Struct) R
	VisitPartial(Partial) R
	VisitStrict(Strict) R
	VisitUnion(Union) R
	VisitIntersection(Intersection) R
	VisitTaggedUnion(TaggedUnion) R
	VisitArray(Array) R
	VisitReadonlyArray(ReadonlyArray) R
	VisitTuple(Tuple) R
	VisitDictionary(Dictionary) R
	VisitKeyof(Keyof) R
	VisitExact(Exact) R
	VisitReadonly(Readonly) R
	VisitBrand(Brand) R
	VisitRecursive(Recursive) R
	VisitCustom(Custom) R
}

// Visit dispatches n to the matching method of v.
//
// The switch is the single place that enumerates the closed set of
// variants; the default branch is unreachable for values built by this
// package and panics with the offending type.
func Visit[R any](n Node, v Visitor[R]) R {
	switch n := n.(type) {
	case Primitive:
		return v.VisitPrimitive(n)
	case Identifier:
		return v.VisitIdentifier(n)
	case Literal:
		return v.VisitLiteral(n)
	case Struct:
		return v.VisitStruct(n)
	case Partial:
		return v.VisitPartial(n)
	case Strict:
		return v.VisitStrict(n)
	case Union:
		return v.VisitUnion(n)
	case Intersection:
		return v.VisitIntersection(n)
	case TaggedUnion:
		return v.VisitTaggedUnion(n)
	case Array:
		return v.VisitArray(n)
	case ReadonlyArray:
		return v.VisitReadonlyArray(n)
	case Tuple:
		return v.VisitTuple(n)
	case Dictionary:
		return v.VisitDictionary(n)
	case Keyof:
		return v.VisitKeyof(n)
	case Exact:
		return v.VisitExact(n)
	case Readonly:
		return v.VisitReadonly(n)
	case Brand:
		return v.VisitBrand(n)
	case Recursive:
		return v.VisitRecursive(n)
	case Custom:
		return v.VisitCustom(n)
	default:
		panic(fmt.Sprintf("ir: unhandled node type %T", n))
	}
}
