package printer

import "github.com/roach88/iogen/internal/ir"

// recursion is the context threaded below a Recursive node. The zero
// value means "outside any recursive declaration".
type recursion struct {
	active bool
	node   ir.Recursive
	output bool
}

func enter(r ir.Recursive, output bool) recursion {
	return recursion{active: true, node: r, output: output}
}

// reference prints a static reference to a declaration name.
//
// Outside recursion a name prints as itself. Inside, members of the
// recursive group print directly, with the Output suffix on the output
// side; any other name is projected through its codec so the correct
// side of a possibly asymmetric declaration is picked.
func (r recursion) reference(name string) string {
	switch {
	case !r.active:
		return name
	case r.node.InGroup(name) && r.output:
		return outputName(name)
	case r.node.InGroup(name):
		return name
	case r.output:
		return "t.OutputOf<typeof " + name + ">"
	default:
		return "t.TypeOf<typeof " + name + ">"
	}
}

// outputName is the name of the encoded-side static type.
func outputName(name string) string {
	return name + "Output"
}
