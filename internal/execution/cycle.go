package execution

import (
	"fmt"
	"strings"

	"github.com/roach88/drillkit/internal/model"
)

// dependencyGraph maps a measure local id to the measures it is computed
// from: its derived master and its arithmetic operands. Edges to measures
// absent from the execution are dropped.
type dependencyGraph struct {
	order []string
	edges map[string][]string
}

func buildDependencyGraph(measures []model.Measure) dependencyGraph {
	g := dependencyGraph{edges: make(map[string][]string, len(measures))}
	present := make(map[string]bool, len(measures))
	for _, m := range measures {
		present[m.LocalIdentifier] = true
	}

	for _, m := range measures {
		id := m.LocalIdentifier
		g.order = append(g.order, id)
		g.edges[id] = []string{}
		if master, ok := model.MasterLocalIdentifier(m); ok && present[master] {
			g.edges[id] = append(g.edges[id], master)
		}
		for _, op := range model.OperandLocalIdentifiers(m) {
			if present[op] {
				g.edges[id] = append(g.edges[id], op)
			}
		}
	}
	return g
}

func (g dependencyGraph) hasSelfLoop(node string) bool {
	for _, n := range g.edges[node] {
		if n == node {
			return true
		}
	}
	return false
}

// findCycle returns the first measure cycle in definition order, or nil.
func findCycle(measures []model.Measure) *ChainError {
	g := buildDependencyGraph(measures)
	for _, scc := range tarjanSCC(g) {
		if len(scc) > 1 || (len(scc) == 1 && g.hasSelfLoop(scc[0])) {
			path := reconstructCyclePath(scc, g)
			return &ChainError{
				Code:    ErrCodeCycleDetected,
				Message: fmt.Sprintf("measure cycle detected: %s", strings.Join(path, " -> ")),
				Path:    path,
			}
		}
	}
	return nil
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Roots are visited in definition order so results are deterministic.
func tarjanSCC(g dependencyGraph) [][]string {
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

		for _, w := range g.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range g.order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// reconstructCyclePath walks SCC edges from the member defined first until
// it returns to the start.
func reconstructCyclePath(scc []string, g dependencyGraph) []string {
	members := make(map[string]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}

	start := scc[0]
	for _, n := range g.order {
		if members[n] {
			start = n
			break
		}
	}

	path := []string{start}
	visited := map[string]bool{}
	current := start
	for {
		visited[current] = true
		next := ""
		for _, n := range g.edges[current] {
			if members[n] && (!visited[n] || n == start) {
				next = n
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
