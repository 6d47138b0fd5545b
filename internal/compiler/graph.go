package compiler

import (
	"github.com/roach88/iogen/internal/ir"
)

// Vertex is one declaration in the dependency graph. Afters lists the
// names the declaration depends on, in extraction order, duplicates kept.
type Vertex struct {
	ID     string
	Afters []string
}

// Graph is the declaration dependency graph. Vertices keep input order,
// which makes traversal deterministic.
type Graph struct {
	vertices []Vertex
	index    map[string]int
}

// BuildGraph creates one vertex per declaration.
//
// Duplicate names are rejected before any vertex is built, so a failed
// call never yields a partial graph.
func BuildGraph(decls []ir.Declaration) (*Graph, error) {
	index, err := indexDeclarations(decls)
	if err != nil {
		return nil, err
	}

	vertices := make([]Vertex, len(decls))
	for i, d := range decls {
		vertices[i] = Vertex{
			ID:     d.DeclarationName(),
			Afters: ir.DeclarationDependencies(d),
		}
	}
	return &Graph{vertices: vertices, index: index}, nil
}

// CheckDuplicates returns a *DuplicateDeclarationError for the first
// name declared twice, or nil. It inspects names only, so it is safe on
// batches that have not been linted.
func CheckDuplicates(decls []ir.Declaration) error {
	_, err := indexDeclarations(decls)
	return err
}

func indexDeclarations(decls []ir.Declaration) (map[string]int, error) {
	index := make(map[string]int, len(decls))
	for i, d := range decls {
		name := d.DeclarationName()
		if first, exists := index[name]; exists {
			return nil, &DuplicateDeclarationError{Name: name, First: first, Second: i}
		}
		index[name] = i
	}
	return index, nil
}

// Vertices returns the vertices in input order.
func (g *Graph) Vertices() []Vertex {
	return g.vertices
}

// Vertex looks up a vertex by declaration name.
func (g *Graph) Vertex(name string) (Vertex, bool) {
	i, ok := g.index[name]
	if !ok {
		return Vertex{}, false
	}
	return g.vertices[i], true
}

// Has reports whether name is a declaration in the graph.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.vertices)
}

// Edges returns every resolved dependency edge as (from, to) pairs, in
// vertex order. Edges to names outside the graph are omitted, as are
// repeated edges between the same pair.
func (g *Graph) Edges() [][2]string {
	var edges [][2]string
	for _, v := range g.vertices {
		seen := make(map[string]bool)
		for _, dep := range v.Afters {
			if !g.Has(dep) || seen[dep] {
				continue
			}
			seen[dep] = true
			edges = append(edges, [2]string{v.ID, dep})
		}
	}
	return edges
}

// Unresolved returns, per vertex, the dependency names that match no
// declaration. They are assumed to be defined outside the batch.
func (g *Graph) Unresolved() map[string][]string {
	out := make(map[string][]string)
	for _, v := range g.vertices {
		for _, dep := range v.Afters {
			if !g.Has(dep) {
				out[v.ID] = appendUnique(out[v.ID], dep)
			}
		}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
