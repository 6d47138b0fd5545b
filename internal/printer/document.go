package printer

import (
	"strings"

	"github.com/roach88/iogen/internal/ir"
)

// DefaultHeader is the import line every generated document starts with
// unless the caller supplies its own header.
var DefaultHeader = []string{"import * as t from 'io-ts'"}

// Options selects what PrintDocument emits.
type Options struct {
	// Header lines printed before the declarations. Nil means DefaultHeader;
	// an empty non-nil slice prints no header.
	Header []string

	// Static and Runtime select the printers. Both false means both.
	Static  bool
	Runtime bool
}

func (o Options) targets() (static, runtime bool) {
	if !o.Static && !o.Runtime {
		return true, true
	}
	return o.Static, o.Runtime
}

// PrintDocument renders declarations, in the given order, as one source
// file. Each declaration prints its static side before its runtime side;
// declarations are separated by blank lines. A brand marker interface
// prints once, before the first declaration that uses it.
//
// Callers normally pass the output of compiler.Sort.
func PrintDocument(decls []ir.Declaration, opts Options) string {
	static, runtime := opts.targets()

	header := opts.Header
	if header == nil {
		header = DefaultHeader
	}

	brands := newBrandSet(decls)
	var blocks []string
	if len(header) > 0 {
		blocks = append(blocks, strings.Join(header, "\n"))
	}
	for _, d := range decls {
		if static {
			blocks = append(blocks, printStatic(d, brands))
		}
		if runtime {
			blocks = append(blocks, PrintRuntime(d))
		}
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}
