package compiler

import (
	"fmt"
	"strings"
)

// Warning codes (W200-W299). Warnings never fail a run.
const (
	WarnCycle             = "W200" // declarations form a reference cycle
	WarnUnresolved        = "W201" // identifier matches no declaration in the batch
	WarnRedundantOptional = "W202" // optional property already admits undefined
)

// Warning is a non-fatal diagnostic about a declaration batch.
//
// Cycles are warnings, not errors, because Sort resolves them by emitting
// recursive declarations. They are reported so that users notice
// accidental recursion.
type Warning struct {
	Code    string   `json:"code"`
	Path    []string `json:"path,omitempty"` // Cycle path: ["A", "B", "A"]
	Field   string   `json:"field,omitempty"`
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning" or "info"
}

// String formats the warning for text output.
func (w Warning) String() string {
	if w.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", w.Code, w.Field, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// AnalyzeCycles reports every strongly connected component of the graph.
//
// TSort marks the same components; this analysis recovers a traversal
// path through each one for diagnostics.
//
// The algorithm:
//  1. Use Tarjan's algorithm over resolved edges to find strongly connected components
//  2. Report each SCC with size > 1 or self-loops as a cycle warning
//
// Components are reported in the order their first member appears in the
// input. A DAG returns an empty list.
func AnalyzeCycles(g *Graph) []Warning {
	if g.Len() == 0 {
		return []Warning{}
	}

	graph := buildDependencyGraph(g)
	sccs := tarjanSCC(g, graph)

	warnings := []Warning{}
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph))
		}
	}
	return warnings
}

// dependencyGraph maps a declaration name to the declarations it references.
type dependencyGraph map[string][]string

// buildDependencyGraph keeps only edges between declarations of the batch.
func buildDependencyGraph(g *Graph) dependencyGraph {
	graph := make(dependencyGraph, g.Len())
	for _, v := range g.Vertices() {
		graph[v.ID] = []string{}
	}
	for _, e := range g.Edges() {
		graph[e[0]] = append(graph[e[0]], e[1])
	}
	return graph
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph dependencyGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Roots are tried in vertex order so results are deterministic. Members
// of each SCC are returned in input order.
func tarjanSCC(g *Graph, graph dependencyGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root: pop its component
		if lowlink[v] == indices[v] {
			members := make(map[string]bool)
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				members[w] = true
				if w == v {
					break
				}
			}
			sccs = append(sccs, inInputOrder(g, members))
		}
	}

	for _, v := range g.Vertices() {
		if _, visited := indices[v.ID]; !visited {
			strongConnect(v.ID)
		}
	}

	// Tarjan emits components in reverse topological order; report them
	// by the position of their earliest member instead.
	position := make(map[string]int, g.Len())
	for i, v := range g.Vertices() {
		position[v.ID] = i
	}
	sortByFirstMember(sccs, position)
	return sccs
}

func inInputOrder(g *Graph, members map[string]bool) []string {
	out := make([]string, 0, len(members))
	for _, v := range g.Vertices() {
		if members[v.ID] {
			out = append(out, v.ID)
		}
	}
	return out
}

func sortByFirstMember(sccs [][]string, position map[string]int) {
	for i := 1; i < len(sccs); i++ {
		for j := i; j > 0 && position[sccs[j][0]] < position[sccs[j-1][0]]; j-- {
			sccs[j], sccs[j-1] = sccs[j-1], sccs[j]
		}
	}
}

// cycleSCCToWarning converts an SCC to a Warning.
//
// For self-loops, the path is [A, A].
// For multi-node cycles, the path shows a cycle traversal.
func cycleSCCToWarning(scc []string, graph dependencyGraph) Warning {
	if len(scc) == 1 {
		name := scc[0]
		return Warning{
			Code:    WarnCycle,
			Path:    []string{name, name},
			Message: fmt.Sprintf("Self-referencing declaration: %s → %s", name, name),
			Level:   "info",
		}
	}

	path := reconstructCyclePath(scc, graph)
	return Warning{
		Code:    WarnCycle,
		Path:    path,
		Message: fmt.Sprintf("Mutually recursive declarations: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath builds a cycle path from an SCC.
//
// Strategy: Start at first node in SCC, follow edges to other SCC members,
// continue until we return to start node.
func reconstructCyclePath(scc []string, graph dependencyGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}

		if next == "" {
			break
		}

		path = append(path, next)

		if next == start {
			break
		}

		current = next
	}

	return path
}
