package loader

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/roach88/iogen/internal/ir"
)

// hclCustomBlock is the body of a custom block.
type hclCustomBlock struct {
	Static       string   `hcl:"static"`
	Runtime      string   `hcl:"runtime"`
	Dependencies []string `hcl:"dependencies,optional"`
}

// ParseHCL maps an HCL file. Type expressions are written with function
// call syntax and are read from the syntax tree, never evaluated:
//
//	declaration "Person" {
//	  export = true
//	  type = struct({
//	    name   = string
//	    age    = optional(number)
//	    "tags" = array(string)
//	  })
//	}
//
//	custom "Timestamp" {
//	  static  = "string"
//	  runtime = "DateFromISOString"
//	}
func ParseHCL(filename string, src []byte) ([]ir.Declaration, []error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, hclLoadErrors(ErrCodeParseFailed, diags, filename)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, []error{&LoadError{Code: ErrCodeParseFailed, Message: "not a native HCL file", Pos: Position{Filename: filename}}}
	}

	var errs []error
	for _, attr := range sortedAttributes(body.Attributes) {
		errs = append(errs, &LoadError{
			Code:    ErrCodeInvalidDecl,
			Message: fmt.Sprintf("unexpected top-level attribute %q", attr.Name),
			Pos:     hclPosition(attr.SrcRange),
		})
	}

	var raws []rawDeclaration
	for _, block := range body.Blocks {
		pos := hclPosition(block.TypeRange)
		if len(block.Labels) != 1 {
			errs = append(errs, &LoadError{
				Code:    ErrCodeInvalidDecl,
				Message: fmt.Sprintf("%s block needs exactly one name label", block.Type),
				Pos:     pos,
			})
			continue
		}

		var raw rawDeclaration
		var blockDiags hcl.Diagnostics
		switch block.Type {
		case "declaration":
			raw, blockDiags = hclDeclaration(block)
		case "custom":
			raw, blockDiags = hclCustom(block)
		default:
			errs = append(errs, &LoadError{
				Code:    ErrCodeInvalidDecl,
				Message: fmt.Sprintf("unknown block type %q", block.Type),
				Pos:     pos,
			})
			continue
		}
		if blockDiags.HasErrors() {
			errs = append(errs, hclLoadErrors(ErrCodeInvalidType, blockDiags, filename)...)
			continue
		}
		raw.pos = pos
		raws = append(raws, raw)
	}

	decls, decodeErrs := decodeDeclarations(raws)
	return decls, append(errs, decodeErrs...)
}

func hclDeclaration(block *hclsyntax.Block) (rawDeclaration, hcl.Diagnostics) {
	raw := rawDeclaration{name: block.Labels[0], body: newObject()}
	var diags hcl.Diagnostics

	for _, nested := range block.Body.Blocks {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unexpected block",
			Detail:   fmt.Sprintf("Blocks of type %q are not allowed inside a declaration.", nested.Type),
			Subject:  nested.TypeRange.Ptr(),
		})
	}

	for _, attr := range sortedAttributes(block.Body.Attributes) {
		switch attr.Name {
		case "type":
			v, typeDiags := hclTree(attr.Expr)
			diags = append(diags, typeDiags...)
			raw.body.set("type", v)
		case "export", "readonly":
			var b bool
			diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &b)...)
			raw.body.set(attr.Name, b)
		case "description":
			var s string
			diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &s)...)
			raw.body.set(attr.Name, s)
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported argument",
				Detail:   fmt.Sprintf("An argument named %q is not expected here.", attr.Name),
				Subject:  attr.NameRange.Ptr(),
			})
		}
	}
	return raw, diags
}

func hclCustom(block *hclsyntax.Block) (rawDeclaration, hcl.Diagnostics) {
	var c hclCustomBlock
	diags := gohcl.DecodeBody(block.Body, nil, &c)

	custom := newObject()
	custom.set("static", c.Static)
	custom.set("runtime", c.Runtime)
	deps := make([]any, len(c.Dependencies))
	for i, d := range c.Dependencies {
		deps[i] = d
	}
	custom.set("dependencies", deps)

	body := newObject()
	body.set("custom", custom)
	return rawDeclaration{name: block.Labels[0], body: body}, diags
}

// sortedAttributes returns attributes in source order.
func sortedAttributes(attrs hclsyntax.Attributes) []*hclsyntax.Attribute {
	out := make([]*hclsyntax.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, attr)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SrcRange.Start.Byte < out[j].SrcRange.Start.Byte
	})
	return out
}

// hclTree converts a type expression into the ordered tree. Bare names
// become strings and function calls become combinator objects.
func hclTree(expr hclsyntax.Expression) (any, hcl.Diagnostics) {
	switch e := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if name := hcl.ExprAsKeyword(e); name != "" {
			return name, nil
		}
		return nil, hclError(e.SrcRange, "Invalid type reference", "A type reference must be a bare name like string or Person.")
	case *hclsyntax.ParenthesesExpr:
		return hclTree(e.Expression)
	case *hclsyntax.FunctionCallExpr:
		return hclCall(e)
	case *hclsyntax.ObjectConsExpr:
		o := newObject()
		var diags hcl.Diagnostics
		for _, item := range e.Items {
			key, keyDiags := item.KeyExpr.Value(nil)
			diags = append(diags, keyDiags...)
			if keyDiags.HasErrors() || key.Type() != cty.String || key.IsNull() {
				diags = append(diags, hclError(item.KeyExpr.Range(), "Invalid property key", "Property keys must be names or strings.")...)
				continue
			}
			v, valueDiags := hclTree(item.ValueExpr)
			diags = append(diags, valueDiags...)
			o.set(key.AsString(), v)
		}
		return o, diags
	case *hclsyntax.TupleConsExpr:
		return hclList(e.Exprs)
	}

	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	native, err := ctyToNative(v)
	if err != nil {
		return nil, hclError(expr.Range(), "Invalid value", err.Error())
	}
	return native, nil
}

func hclList(exprs []hclsyntax.Expression) ([]any, hcl.Diagnostics) {
	list := make([]any, 0, len(exprs))
	var diags hcl.Diagnostics
	for _, item := range exprs {
		v, itemDiags := hclTree(item)
		diags = append(diags, itemDiags...)
		list = append(list, v)
	}
	return list, diags
}

// hclCall maps a combinator call such as union(A, B) onto the same
// object form the YAML layout uses.
func hclCall(e *hclsyntax.FunctionCallExpr) (any, hcl.Diagnostics) {
	args, diags := hclList(e.Args)
	if diags.HasErrors() {
		return nil, diags
	}

	arity := func(n int) hcl.Diagnostics {
		if len(args) == n {
			return nil
		}
		return hclError(e.NameRange, "Wrong number of arguments",
			fmt.Sprintf("%s takes %d argument(s), got %d.", e.Name, n, len(args)))
	}

	o := newObject()
	switch e.Name {
	case "struct", "partial", "strict", "literal":
		if d := arity(1); d != nil {
			return nil, d
		}
		o.set(e.Name, args[0])
	case "array", "exact", "readonly":
		if d := arity(1); d != nil {
			return nil, d
		}
		o.set(e.Name, args[0])
	case "readonly_array":
		if d := arity(1); d != nil {
			return nil, d
		}
		o.set("readonlyArray", args[0])
	case "union", "intersection", "tuple":
		o.set(e.Name, args)
	case "keyof":
		o.set("keyof", args)
	case "tagged_union":
		if len(args) < 1 {
			return nil, hclError(e.NameRange, "Missing tag", "tagged_union takes the tag name followed by the member types.")
		}
		o.set("taggedUnion", args[1:])
		o.set("tag", args[0])
	case "record":
		if d := arity(2); d != nil {
			return nil, d
		}
		r := newObject()
		r.set("domain", args[0])
		r.set("codomain", args[1])
		o.set("record", r)
	case "brand":
		if d := arity(3); d != nil {
			return nil, d
		}
		b := newObject()
		b.set("type", args[0])
		b.set("predicate", args[1])
		b.set("name", args[2])
		o.set("brand", b)
	case "optional":
		if d := arity(1); d != nil {
			return nil, d
		}
		spec := propertySpec(args[0])
		spec.set("optional", true)
		return spec, nil
	case "doc":
		if d := arity(2); d != nil {
			return nil, d
		}
		spec := propertySpec(args[0])
		spec.set("description", args[1])
		return spec, nil
	case "named":
		if d := arity(2); d != nil {
			return nil, d
		}
		inner, ok := args[0].(*object)
		if !ok || !hasCombinator(inner) {
			return nil, hclError(e.NameRange, "Invalid named type", "named takes a combinator call and a name.")
		}
		inner.set("name", args[1])
		return inner, nil
	default:
		return nil, hclError(e.NameRange, "Unknown combinator", fmt.Sprintf("There is no type combinator named %q.", e.Name))
	}
	return o, nil
}

// propertySpec wraps v in a property object unless it already is one.
func propertySpec(v any) *object {
	if spec, ok := v.(*object); ok && spec.has("type") && !hasCombinator(spec) {
		return spec
	}
	spec := newObject()
	spec.set("type", v)
	return spec
}

// ctyToNative converts a literal cty value into its Go counterpart.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return "null", nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		var i int64
		if err := gocty.FromCtyValue(v, &i); err == nil {
			return i, nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number: %w", err)
		}
		return f, nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty.IsListType() || ty.IsTupleType():
		list := make([]any, 0)
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, native)
		}
		return list, nil
	}
	return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
}

func hclError(rng hcl.Range, summary, detail string) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}}
}

func hclLoadErrors(code string, diags hcl.Diagnostics, filename string) []error {
	var errs []error
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		pos := Position{Filename: filename}
		if d.Subject != nil {
			pos = hclPosition(*d.Subject)
		}
		msg := d.Summary
		if d.Detail != "" {
			msg += "; " + d.Detail
		}
		errs = append(errs, &LoadError{Code: code, Message: msg, Pos: pos})
	}
	return errs
}

func hclPosition(rng hcl.Range) Position {
	return Position{Filename: rng.Filename, Line: rng.Start.Line, Column: rng.Start.Column}
}
