package compiler

import (
	"slices"

	"github.com/roach88/iogen/internal/ir"
)

// Rewrite produces the final emission order from a sort result.
//
// Cyclic type declarations come first, in discovery order, with their
// bodies wrapped in an ir.Recursive node. The Recursive group lists every
// rewritten name so that printers reference group members directly.
// Cyclic custom declarations follow unchanged: their runtime text is
// evaluated eagerly, while the rewritten declarations only reach them
// from inside a thunk. The non-cyclic declarations come last,
// dependency first.
//
// Names in the result that match no declaration are skipped.
func Rewrite(decls []ir.Declaration, result Result) []ir.Declaration {
	byName := make(map[string]ir.Declaration, len(decls))
	for _, d := range decls {
		byName[d.DeclarationName()] = d
	}

	var group []string
	for _, name := range result.Cyclic {
		if _, ok := byName[name].(ir.TypeDeclaration); ok {
			group = append(group, name)
		}
	}

	out := make([]ir.Declaration, 0, len(decls))
	for _, name := range result.Cyclic {
		if d, ok := byName[name].(ir.TypeDeclaration); ok {
			d.Type = ir.Recursive{Name: d.Name, Type: d.Type, Group: slices.Clone(group)}
			out = append(out, d)
		}
	}
	for _, name := range result.Cyclic {
		if d, ok := byName[name].(ir.CustomDeclaration); ok {
			out = append(out, d)
		}
	}

	for i := len(result.Ordered) - 1; i >= 0; i-- {
		if d, ok := byName[result.Ordered[i]]; ok {
			out = append(out, d)
		}
	}
	return out
}
