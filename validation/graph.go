package validation

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// DependencyGraph is a directed graph over declared blocks, keyed by
// "kind.name". Nodes and edges keep insertion order so that cycle
// enumeration is deterministic.
type DependencyGraph struct {
	nodes  []string
	ranges []hcl.Range
	index  map[string]int
	edges  [][]int
	seen   map[[2]int]struct{}
}

// NewDependencyGraph returns an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		index: map[string]int{},
		seen:  map[[2]int]struct{}{},
	}
}

// AddNode adds name with its declaring range. Adding an existing node is
// a no-op and keeps the first range.
func (g *DependencyGraph) AddNode(name string, rng hcl.Range) {
	if _, ok := g.index[name]; ok {
		return
	}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, name)
	g.ranges = append(g.ranges, rng)
	g.edges = append(g.edges, nil)
}

// AddEdge adds an edge from -> to. Edges touching unknown nodes and
// repeated edges are dropped; the return value reports whether the edge
// was added.
func (g *DependencyGraph) AddEdge(from, to string) bool {
	f, ok := g.index[from]
	if !ok {
		return false
	}
	t, ok := g.index[to]
	if !ok {
		return false
	}
	key := [2]int{f, t}
	if _, dup := g.seen[key]; dup {
		return false
	}
	g.seen[key] = struct{}{}
	g.edges[f] = append(g.edges[f], t)
	return true
}

// HasNode reports whether name is a node.
func (g *DependencyGraph) HasNode(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Nodes returns node names in insertion order.
func (g *DependencyGraph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

// Dependencies returns the targets of name's edges in insertion order.
func (g *DependencyGraph) Dependencies(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	deps := make([]string, len(g.edges[i]))
	for j, t := range g.edges[i] {
		deps[j] = g.nodes[t]
	}
	return deps
}

// Range returns the range name was added with.
func (g *DependencyGraph) Range(name string) (hcl.Range, bool) {
	i, ok := g.index[name]
	if !ok {
		return hcl.Range{}, false
	}
	return g.ranges[i], true
}

// Cycle is a simple cycle. Nodes starts at the member added to the graph
// first and does not repeat it at the end.
type Cycle struct {
	Nodes []string
}

// Path returns the nodes with the first one repeated at the end, as in
// a -> b -> a.
func (c Cycle) Path() []string {
	if len(c.Nodes) == 0 {
		return nil
	}
	return append(append([]string(nil), c.Nodes...), c.Nodes[0])
}

// String renders the cycle as "a -> b -> a".
func (c Cycle) String() string {
	return strings.Join(c.Path(), " -> ")
}

// FindAllCycles runs a depth-first search from every node in insertion
// order. A back edge to a node on the recursion stack closes a cycle made
// of the stack from that node to the top. Rotations of a cycle already
// found are not reported again.
//
// Nodes are expanded once, so the result holds one cycle per back edge
// rather than every simple cycle: a cycle that only runs through an
// already finished node is not listed. Every cyclic component still
// yields at least one cycle.
func (g *DependencyGraph) FindAllCycles() []Cycle {
	visited := make([]bool, len(g.nodes))
	onStack := make([]bool, len(g.nodes))
	var stack []int
	var cycles []Cycle
	found := map[string]struct{}{}

	var visit func(n int)
	visit = func(n int) {
		visited[n] = true
		onStack[n] = true
		stack = append(stack, n)

		for _, next := range g.edges[n] {
			if onStack[next] {
				start := len(stack) - 1
				for stack[start] != next {
					start--
				}
				cycle := g.canonical(stack[start:])
				key := strings.Join(cycle.Nodes, "\x00")
				if _, dup := found[key]; !dup {
					found[key] = struct{}{}
					cycles = append(cycles, cycle)
				}
				continue
			}
			if !visited[next] {
				visit(next)
			}
		}

		stack = stack[:len(stack)-1]
		onStack[n] = false
	}

	for n := range g.nodes {
		if !visited[n] {
			visit(n)
		}
	}
	return cycles
}

// canonical rotates members so the earliest inserted node comes first.
func (g *DependencyGraph) canonical(members []int) Cycle {
	first := 0
	for i, n := range members {
		if n < members[first] {
			first = i
		}
	}
	nodes := make([]string, 0, len(members))
	for i := range members {
		nodes = append(nodes, g.nodes[members[(first+i)%len(members)]])
	}
	return Cycle{Nodes: nodes}
}
