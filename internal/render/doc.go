// Package render draws the declaration dependency graph.
//
// [ToDOT] produces Graphviz DOT source with one box per declaration and
// an arrow from each declaration to every declaration it references.
// Declarations on a reference cycle are filled, custom declarations are
// drawn with a double border, and with [Options.Unresolved] set, names
// defined outside the batch appear as dashed grey nodes.
//
//	dot, err := render.ToDOT(decls, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz].
package render
