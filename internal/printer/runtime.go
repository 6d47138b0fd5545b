package printer

import (
	"strings"

	"github.com/roach88/iogen/internal/ir"
)

// PrintRuntime renders a declaration as an io-ts codec constant.
//
// A recursive body becomes a lazily evaluated t.recursion whose constant
// is annotated with both static sides. Custom declarations print their
// runtime text verbatim.
func PrintRuntime(d ir.Declaration) string {
	switch d := d.(type) {
	case ir.TypeDeclaration:
		return printRuntimeDeclaration(d)
	case ir.CustomDeclaration:
		return d.Runtime
	default:
		panic("printer: unknown declaration type")
	}
}

// PrintRuntimeNode renders a single node as a codec expression at
// nesting level i.
func PrintRuntimeNode(n ir.Node, i int) string {
	return runtimePrinter{i: i}.print(n)
}

func printRuntimeDeclaration(d ir.TypeDeclaration) string {
	name := d.Name
	var body string
	if r, ok := d.Type.(ir.Recursive); ok {
		name += ": t.Type<" + d.Name + ", " + outputName(d.Name) + ">"
		body = "t.recursion(" + escapeString(r.Name) + ", () => " + runtimePrinter{rec: enter(r, false)}.print(r.Type) + ")"
	} else {
		body = PrintRuntimeNode(d.Type, 0)
	}
	if d.Readonly {
		body = "t.readonly(" + body + ")"
	}
	return description(d.Description, 0) + exportPrefix(d.Exported) + "const " + name + " = " + body
}

// runtimePrinter renders nodes as codec expressions at nesting level i.
// rec only affects the static types embedded in brand guards.
type runtimePrinter struct {
	i   int
	rec recursion
}

func (p runtimePrinter) print(n ir.Node) string {
	return ir.Visit[string](n, p)
}

func (p runtimePrinter) nested() runtimePrinter {
	return runtimePrinter{i: p.i + 1, rec: p.rec}
}

func (p runtimePrinter) VisitPrimitive(n ir.Primitive) string {
	switch n.Kind {
	case ir.KindFunction:
		return "t.Function"
	case ir.KindUnknownArray:
		return "t.UnknownArray"
	case ir.KindUnknownRecord:
		return "t.UnknownRecord"
	case ir.KindInt:
		return "t.Int"
	default:
		return "t." + n.Kind.String()
	}
}

// VisitIdentifier prints references bare. Codecs are values, so no
// projection is needed on this side, even inside a recursion thunk.
func (p runtimePrinter) VisitIdentifier(n ir.Identifier) string {
	return n.Name
}

func (p runtimePrinter) VisitLiteral(n ir.Literal) string {
	return withName("t.literal("+literal(n), n.Name) + ")"
}

// props prints a property object literal: {\n  k: T\n}.
func (p runtimePrinter) props(props []ir.Property) string {
	if len(props) == 0 {
		return "{}"
	}
	inner := p.nested()
	lines := make([]string, len(props))
	for k, prop := range props {
		lines[k] = description(prop.Description, inner.i) +
			indent(inner.i) + escapeKey(prop.Key) + ": " + inner.print(prop.Type)
	}
	return "{\n" + strings.Join(lines, ",\n") + "\n" + indent(p.i) + "}"
}

// object prints properties under the optional-field policy: all required
// is t.type, all optional is t.partial, and a mix is the intersection of
// a t.type over the required keys and a t.partial over the optional ones.
// Exactness is applied by the caller.
func (p runtimePrinter) object(props []ir.Property, name string) string {
	required, optional := splitOptional(props)
	switch {
	case len(optional) == 0:
		return withName("t.type("+p.props(props), name) + ")"
	case len(required) == 0:
		return withName("t.partial("+p.props(props), name) + ")"
	}
	inner := p.nested()
	s := "t.intersection([\n" +
		indent(inner.i) + "t.type(" + inner.props(required) + "),\n" +
		indent(inner.i) + "t.partial(" + inner.props(optional) + ")\n" +
		indent(p.i) + "]"
	return withName(s, name) + ")"
}

func (p runtimePrinter) VisitStruct(n ir.Struct) string {
	return p.object(n.Properties, n.Name)
}

func (p runtimePrinter) VisitPartial(n ir.Partial) string {
	return withName("t.partial("+p.props(n.Properties), n.Name) + ")"
}

func (p runtimePrinter) VisitStrict(n ir.Strict) string {
	required, optional := splitOptional(n.Properties)
	if len(optional) == 0 {
		return withName("t.strict("+p.props(n.Properties), n.Name) + ")"
	}
	if len(required) == 0 {
		return withName("t.exact(t.partial("+p.props(n.Properties)+")", n.Name) + ")"
	}
	return withName("t.exact("+p.object(n.Properties, ""), n.Name) + ")"
}

// list prints t.kind([\n  A,\n  B\n]) with an optional leading argument.
func (p runtimePrinter) list(kind, lead string, types []ir.Node, name string) string {
	inner := p.nested()
	lines := make([]string, len(types))
	for k, t := range types {
		lines[k] = indent(inner.i) + inner.print(t)
	}
	s := "t." + kind + "(" + lead + "[\n" + strings.Join(lines, ",\n") + "\n" + indent(p.i) + "]"
	return withName(s, name) + ")"
}

func (p runtimePrinter) VisitUnion(n ir.Union) string {
	return p.list("union", "", n.Types, n.Name)
}

func (p runtimePrinter) VisitIntersection(n ir.Intersection) string {
	return p.list("intersection", "", n.Types, n.Name)
}

func (p runtimePrinter) VisitTaggedUnion(n ir.TaggedUnion) string {
	return p.list("taggedUnion", escapeString(n.Tag)+", ", n.Types, n.Name)
}

func (p runtimePrinter) VisitArray(n ir.Array) string {
	return withName("t.array("+p.print(n.Type), n.Name) + ")"
}

func (p runtimePrinter) VisitReadonlyArray(n ir.ReadonlyArray) string {
	return withName("t.readonlyArray("+p.print(n.Type), n.Name) + ")"
}

func (p runtimePrinter) VisitTuple(n ir.Tuple) string {
	return p.list("tuple", "", n.Types, n.Name)
}

func (p runtimePrinter) VisitDictionary(n ir.Dictionary) string {
	return withName("t.record("+p.print(n.Domain)+", "+p.print(n.Codomain), n.Name) + ")"
}

func (p runtimePrinter) VisitKeyof(n ir.Keyof) string {
	inner := p.nested()
	lines := make([]string, len(n.Values))
	for k, v := range n.Values {
		lines[k] = indent(inner.i) + escapeKey(v) + ": null"
	}
	s := "t.keyof({\n" + strings.Join(lines, ",\n") + "\n" + indent(p.i) + "}"
	return withName(s, n.Name) + ")"
}

func (p runtimePrinter) VisitExact(n ir.Exact) string {
	return withName("t.exact("+p.print(n.Type), n.Name) + ")"
}

func (p runtimePrinter) VisitReadonly(n ir.Readonly) string {
	return withName("t.readonly("+p.print(n.Type), n.Name) + ")"
}

// VisitBrand prints t.brand with a type guard whose branded type is the
// static rendering of the inner type.
func (p runtimePrinter) VisitBrand(n ir.Brand) string {
	param := n.Param
	if param == "" {
		param = ir.DefaultBrandParam
	}
	static := staticPrinter{i: p.i, rec: p.rec}.print(n.Type)
	return "t.brand(" + p.print(n.Type) + ", (" + param + "): " + param +
		" is t.Branded<" + static + ", " + brandInterfaceName(n.Name) + "> => " +
		n.Predicate + ", " + escapeString(n.Name) + ")"
}

// VisitRecursive prints the self-referential constructor. The thunk
// defers evaluation of the body until the codec is first used.
func (p runtimePrinter) VisitRecursive(n ir.Recursive) string {
	return "t.recursion<" + n.Name + ", " + outputName(n.Name) + ">(" +
		escapeString(n.Name) + ", () => " + runtimePrinter{i: p.i, rec: enter(n, false)}.print(n.Type) + ")"
}

func (p runtimePrinter) VisitCustom(n ir.Custom) string {
	return n.Runtime
}
