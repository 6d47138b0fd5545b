package ir

// Dependencies returns the names n structurally references.
//
// Order is insignificant and duplicates are permitted. Custom nodes
// contribute their explicit dependency list verbatim; leaves contribute
// nothing.
func Dependencies(n Node) []string {
	return Visit[[]string](n, dependencyVisitor{})
}

// DeclarationDependencies returns the names d depends on: the structural
// dependencies of a TypeDeclaration's body, or a CustomDeclaration's
// explicit list.
func DeclarationDependencies(d Declaration) []string {
	switch d := d.(type) {
	case TypeDeclaration:
		return Dependencies(d.Type)
	case CustomDeclaration:
		return append([]string(nil), d.Dependencies...)
	}
	return nil
}

type dependencyVisitor struct{}

func (v dependencyVisitor) of(nodes ...Node) []string {
	var deps []string
	for _, n := range nodes {
		deps = append(deps, Visit[[]string](n, v)...)
	}
	return deps
}

func (v dependencyVisitor) ofProperties(props []Property) []string {
	var deps []string
	for _, p := range props {
		deps = append(deps, Visit[[]string](p.Type, v)...)
	}
	return deps
}

func (dependencyVisitor) VisitPrimitive(Primitive) []string { return nil }
func (dependencyVisitor) VisitLiteral(Literal) []string     { return nil }
func (dependencyVisitor) VisitKeyof(Keyof) []string         { return nil }

func (dependencyVisitor) VisitIdentifier(n Identifier) []string { return []string{n.Name} }

func (v dependencyVisitor) VisitStruct(n Struct) []string   { return v.ofProperties(n.Properties) }
func (v dependencyVisitor) VisitPartial(n Partial) []string { return v.ofProperties(n.Properties) }
func (v dependencyVisitor) VisitStrict(n Strict) []string   { return v.ofProperties(n.Properties) }

func (v dependencyVisitor) VisitUnion(n Union) []string               { return v.of(n.Types...) }
func (v dependencyVisitor) VisitIntersection(n Intersection) []string { return v.of(n.Types...) }
func (v dependencyVisitor) VisitTaggedUnion(n TaggedUnion) []string   { return v.of(n.Types...) }
func (v dependencyVisitor) VisitTuple(n Tuple) []string               { return v.of(n.Types...) }

func (v dependencyVisitor) VisitDictionary(n Dictionary) []string {
	return v.of(n.Domain, n.Codomain)
}

func (v dependencyVisitor) VisitArray(n Array) []string                 { return v.of(n.Type) }
func (v dependencyVisitor) VisitReadonlyArray(n ReadonlyArray) []string { return v.of(n.Type) }
func (v dependencyVisitor) VisitExact(n Exact) []string                 { return v.of(n.Type) }
func (v dependencyVisitor) VisitReadonly(n Readonly) []string           { return v.of(n.Type) }
func (v dependencyVisitor) VisitBrand(n Brand) []string                 { return v.of(n.Type) }
func (v dependencyVisitor) VisitRecursive(n Recursive) []string         { return v.of(n.Type) }

func (dependencyVisitor) VisitCustom(n Custom) []string {
	return append([]string(nil), n.Dependencies...)
}
