package compiler

import "slices"

// Result is the outcome of a topological sort.
type Result struct {
	// Ordered holds the non-cyclic names in prepend order: every vertex
	// was prepended after its dependencies, so dependents come first.
	// Reverse it for dependency-first emission.
	Ordered []string `json:"ordered"`

	// Cyclic holds the names found on a cycle, in discovery order.
	Cyclic []string `json:"cyclic"`
}

// IsCyclic reports whether name was marked cyclic.
func (r Result) IsCyclic(name string) bool {
	return slices.Contains(r.Cyclic, name)
}

// TSort orders the graph depth-first.
//
// Each branch carries its own copy of the ancestor path, so sibling
// branches never observe each other's in-flight state. A dependency
// already on the path marks both the current vertex and that dependency
// cyclic, and the edge is not followed. Dependencies outside the graph
// impose no ordering.
//
// A back edge only reveals its two ends. The remaining members of every
// strongly connected component are then marked too, in input order, so
// that A -> B -> C -> A yields Cyclic [C, A, B] and B never lands in
// the ordered tail.
func TSort(g *Graph) Result {
	s := &sorter{
		graph:    g,
		visited:  make(map[string]bool, g.Len()),
		isCyclic: make(map[string]bool),
	}
	for _, v := range g.Vertices() {
		s.visit(v.ID, nil)
	}
	s.closeCycles()

	ordered := make([]string, 0, len(s.sorted))
	for _, name := range s.sorted {
		if !s.isCyclic[name] {
			ordered = append(ordered, name)
		}
	}
	return Result{Ordered: ordered, Cyclic: s.cyclic}
}

type sorter struct {
	graph    *Graph
	visited  map[string]bool
	sorted   []string
	cyclic   []string
	isCyclic map[string]bool
}

func (s *sorter) visit(id string, ancestors []string) {
	if s.visited[id] {
		return
	}
	vertex, ok := s.graph.Vertex(id)
	if !ok {
		return
	}
	s.visited[id] = true

	path := append(slices.Clone(ancestors), id)
	for _, dep := range vertex.Afters {
		if slices.Contains(path, dep) {
			s.markCyclic(id)
			s.markCyclic(dep)
			continue
		}
		s.visit(dep, path)
	}

	s.sorted = append([]string{id}, s.sorted...)
}

// closeCycles marks every member of a component that already holds a
// cyclic vertex.
func (s *sorter) closeCycles() {
	for _, scc := range tarjanSCC(s.graph, buildDependencyGraph(s.graph)) {
		if !slices.ContainsFunc(scc, func(name string) bool { return s.isCyclic[name] }) {
			continue
		}
		for _, name := range scc {
			s.markCyclic(name)
		}
	}
}

func (s *sorter) markCyclic(name string) {
	if s.isCyclic[name] {
		return
	}
	s.isCyclic[name] = true
	s.cyclic = append(s.cyclic, name)
}
