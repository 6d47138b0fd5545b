package compiler

import (
	"github.com/roach88/iogen/internal/ir"
)

// Sort orders declarations so that every declaration follows the ones it
// references, rewriting mutually recursive declarations into ir.Recursive
// nodes placed first.
//
// Sort fails with a *DuplicateDeclarationError when two declarations share
// a name; it never returns a partial list.
func Sort(decls []ir.Declaration) ([]ir.Declaration, error) {
	g, err := BuildGraph(decls)
	if err != nil {
		return nil, err
	}
	return Rewrite(decls, TSort(g)), nil
}
