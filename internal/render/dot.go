package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/roach88/iogen/internal/compiler"
	"github.com/roach88/iogen/internal/ir"
)

// Options configures graph rendering.
type Options struct {
	// Detailed adds the declaration kind and emission position to labels.
	Detailed bool

	// Unresolved includes names that match no declaration.
	Unresolved bool
}

// ToDOT converts a batch of declarations to Graphviz DOT. It fails only
// when the batch has duplicate names.
func ToDOT(decls []ir.Declaration, opts Options) (string, error) {
	g, err := compiler.BuildGraph(decls)
	if err != nil {
		return "", err
	}
	result := compiler.TSort(g)

	position := make(map[string]int, len(decls))
	for i, d := range compiler.Rewrite(decls, result) {
		position[d.DeclarationName()] = i + 1
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for _, d := range decls {
		name := d.DeclarationName()
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(d, position[name], result.IsCyclic(name), opts.Detailed))}
		if result.IsCyclic(name) {
			attrs = append(attrs, "fillcolor=\"#f6d5d5\"")
		}
		if _, ok := d.(ir.CustomDeclaration); ok {
			attrs = append(attrs, "peripheries=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
	}

	var external [][2]string
	if opts.Unresolved {
		unresolved := g.Unresolved()
		seen := make(map[string]bool)
		for _, v := range g.Vertices() {
			for _, name := range unresolved[v.ID] {
				external = append(external, [2]string{v.ID, name})
				if seen[name] {
					continue
				}
				seen[name] = true
				fmt.Fprintf(&buf, "  %q [style=\"rounded,dashed\", fontcolor=grey40, color=grey60];\n", name)
			}
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e[0], e[1])
	}
	for _, e := range external {
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey60];\n", e[0], e[1])
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(d ir.Declaration, position int, cyclic, detailed bool) string {
	name := d.DeclarationName()
	if !detailed {
		return name
	}

	kind := "type"
	if _, ok := d.(ir.CustomDeclaration); ok {
		kind = "custom"
	}
	parts := []string{kind, fmt.Sprintf("emit: %d", position)}
	if cyclic {
		parts = append(parts, "recursive")
	}
	return name + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
