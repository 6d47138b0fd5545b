package printer

import (
	"strings"

	"github.com/roach88/iogen/internal/ir"
)

// PrintStatic renders a declaration as TypeScript type aliases.
//
// A declaration whose body is recursive prints two aliases: the decoded
// type under its own name and the encoded type under name+"Output".
// Brands found in the body are preceded by their marker interfaces.
// Custom declarations print their static text verbatim.
func PrintStatic(d ir.Declaration) string {
	return printStatic(d, newBrandSet([]ir.Declaration{d}))
}

func printStatic(d ir.Declaration, brands *brandSet) string {
	switch d := d.(type) {
	case ir.TypeDeclaration:
		return printStaticDeclaration(d, brands)
	case ir.CustomDeclaration:
		return d.Static
	default:
		panic("printer: unknown declaration type")
	}
}

// PrintStaticNode renders a single node as a static type expression at
// nesting level i.
func PrintStaticNode(n ir.Node, i int) string {
	return staticPrinter{i: i}.print(n)
}

func printStaticDeclaration(d ir.TypeDeclaration, brands *brandSet) string {
	var sections []string
	for _, b := range collectBrands(d.Type) {
		if brands.printed[b.Name] {
			continue
		}
		brands.printed[b.Name] = true
		sections = append(sections, printBrandInterface(b, brands.exported[b.Name]))
	}

	if r, ok := d.Type.(ir.Recursive); ok {
		sections = append(sections,
			printStaticAlias(d, d.Name, staticPrinter{rec: enter(r, false)}.print(r.Type)),
			printStaticAlias(d, outputName(d.Name), staticPrinter{rec: enter(r, true)}.print(r.Type)),
		)
		return strings.Join(sections, "\n\n")
	}

	sections = append(sections, printStaticAlias(d, d.Name, PrintStaticNode(d.Type, 0)))
	return strings.Join(sections, "\n\n")
}

func printStaticAlias(d ir.TypeDeclaration, name, body string) string {
	if d.Readonly {
		body = "Readonly<" + body + ">"
	}
	return description(d.Description, 0) + exportPrefix(d.Exported) + "type " + name + " = " + body
}

// printBrandInterface prints the unique marker a branded type intersects.
func printBrandInterface(b ir.Brand, exported bool) string {
	return exportPrefix(exported) + "interface " + brandInterfaceName(b.Name) + " {\n" +
		indent(1) + "readonly " + b.Name + ": unique symbol\n" +
		"}"
}

// brandSet tracks marker interfaces across one document. Each brand
// prints once, exported when any declaration using it is exported.
type brandSet struct {
	exported map[string]bool
	printed  map[string]bool
}

func newBrandSet(decls []ir.Declaration) *brandSet {
	s := &brandSet{exported: make(map[string]bool), printed: make(map[string]bool)}
	for _, d := range decls {
		td, ok := d.(ir.TypeDeclaration)
		if !ok {
			continue
		}
		for _, b := range collectBrands(td.Type) {
			s.exported[b.Name] = s.exported[b.Name] || td.Exported
		}
	}
	return s
}

func brandInterfaceName(name string) string {
	return name + "Brand"
}

// collectBrands returns the brands in n in traversal order, first
// occurrence per name.
func collectBrands(n ir.Node) []ir.Brand {
	var brands []ir.Brand
	seen := make(map[string]bool)
	var walk func(ir.Node)
	walk = func(n ir.Node) {
		switch n := n.(type) {
		case ir.Brand:
			walk(n.Type)
			if !seen[n.Name] {
				seen[n.Name] = true
				brands = append(brands, n)
			}
		case ir.Struct:
			walkProperties(n.Properties, walk)
		case ir.Partial:
			walkProperties(n.Properties, walk)
		case ir.Strict:
			walkProperties(n.Properties, walk)
		case ir.Union:
			walkAll(n.Types, walk)
		case ir.Intersection:
			walkAll(n.Types, walk)
		case ir.TaggedUnion:
			walkAll(n.Types, walk)
		case ir.Tuple:
			walkAll(n.Types, walk)
		case ir.Dictionary:
			walk(n.Domain)
			walk(n.Codomain)
		case ir.Array:
			walk(n.Type)
		case ir.ReadonlyArray:
			walk(n.Type)
		case ir.Exact:
			walk(n.Type)
		case ir.Readonly:
			walk(n.Type)
		case ir.Recursive:
			walk(n.Type)
		}
	}
	walk(n)
	return brands
}

func walkProperties(props []ir.Property, walk func(ir.Node)) {
	for _, p := range props {
		walk(p.Type)
	}
}

func walkAll(nodes []ir.Node, walk func(ir.Node)) {
	for _, n := range nodes {
		walk(n)
	}
}

// staticPrinter renders nodes as static types at nesting level i.
type staticPrinter struct {
	i   int
	rec recursion
}

func (p staticPrinter) print(n ir.Node) string {
	return ir.Visit[string](n, p)
}

func (p staticPrinter) nested() staticPrinter {
	return staticPrinter{i: p.i + 1, rec: p.rec}
}

func (p staticPrinter) VisitPrimitive(n ir.Primitive) string {
	switch n.Kind {
	case ir.KindFunction:
		return "Function"
	case ir.KindUnknownArray:
		return "Array<unknown>"
	case ir.KindUnknownRecord:
		return "Record<string, unknown>"
	case ir.KindInt:
		if p.rec.output {
			return "number"
		}
		return "t.Int"
	default:
		return n.Kind.String()
	}
}

func (p staticPrinter) VisitIdentifier(n ir.Identifier) string {
	return p.rec.reference(n.Name)
}

func (p staticPrinter) VisitLiteral(n ir.Literal) string {
	return literal(n)
}

// object prints properties as one object type. Optionality is expressed
// per key, so mixed structs need no decomposition on this side.
func (p staticPrinter) object(props []ir.Property, allOptional bool) string {
	if len(props) == 0 {
		return "{}"
	}
	inner := p.nested()
	lines := make([]string, len(props))
	for k, prop := range props {
		marker := ""
		if prop.Optional || allOptional {
			marker = "?"
		}
		lines[k] = description(prop.Description, inner.i) +
			indent(inner.i) + escapeKey(prop.Key) + marker + ": " + inner.print(prop.Type)
	}
	return "{\n" + strings.Join(lines, ",\n") + "\n" + indent(p.i) + "}"
}

func (p staticPrinter) VisitStruct(n ir.Struct) string   { return p.object(n.Properties, false) }
func (p staticPrinter) VisitPartial(n ir.Partial) string { return p.object(n.Properties, true) }
func (p staticPrinter) VisitStrict(n ir.Strict) string   { return p.object(n.Properties, false) }

// members prints one line per member, each led by the separator.
func (p staticPrinter) members(types []ir.Node, separator string) string {
	inner := p.nested()
	var b strings.Builder
	for _, t := range types {
		b.WriteString("\n" + indent(inner.i) + separator + " " + inner.print(t))
	}
	return b.String()
}

func (p staticPrinter) VisitUnion(n ir.Union) string { return p.members(n.Types, "|") }

func (p staticPrinter) VisitIntersection(n ir.Intersection) string {
	return p.members(n.Types, "&")
}

func (p staticPrinter) VisitTaggedUnion(n ir.TaggedUnion) string {
	return p.members(n.Types, "|")
}

func (p staticPrinter) VisitArray(n ir.Array) string {
	return "Array<" + p.print(n.Type) + ">"
}

func (p staticPrinter) VisitReadonlyArray(n ir.ReadonlyArray) string {
	return "ReadonlyArray<" + p.print(n.Type) + ">"
}

func (p staticPrinter) VisitTuple(n ir.Tuple) string {
	inner := p.nested()
	lines := make([]string, len(n.Types))
	for k, t := range n.Types {
		lines[k] = indent(inner.i) + inner.print(t)
	}
	return "[\n" + strings.Join(lines, ",\n") + "\n" + indent(p.i) + "]"
}

func (p staticPrinter) VisitDictionary(n ir.Dictionary) string {
	return "Record<" + p.print(n.Domain) + ", " + p.print(n.Codomain) + ">"
}

func (p staticPrinter) VisitKeyof(n ir.Keyof) string {
	values := make([]ir.Node, len(n.Values))
	for k, v := range n.Values {
		values[k] = ir.StringLiteral(v)
	}
	return p.members(values, "|")
}

func (p staticPrinter) VisitExact(n ir.Exact) string {
	return p.print(n.Type)
}

func (p staticPrinter) VisitReadonly(n ir.Readonly) string {
	return "Readonly<" + p.print(n.Type) + ">"
}

// VisitBrand prints the branded type. A codec's output is its inner
// codec's output, so the encoded side drops the brand.
func (p staticPrinter) VisitBrand(n ir.Brand) string {
	if p.rec.output {
		return p.print(n.Type)
	}
	return "t.Branded<" + p.print(n.Type) + ", " + brandInterfaceName(n.Name) + ">"
}

// VisitRecursive prints the decoded side of a recursive node used as an
// expression. Declarations print both sides through PrintStatic.
func (p staticPrinter) VisitRecursive(n ir.Recursive) string {
	return staticPrinter{i: p.i, rec: enter(n, p.rec.output)}.print(n.Type)
}

func (p staticPrinter) VisitCustom(n ir.Custom) string {
	return n.Static
}
