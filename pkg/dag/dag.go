// Package dag provides the directed graph of calls between analysed units.
// It supports cycle detection, dependency-first ordering and impact
// analysis over callers and callees.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

// Node is one routine, view or trigger in the graph.
type Node struct {
	// ID is the upper-cased qualified unit name.
	ID string
	// External marks a routine that is called but was not analysed.
	External bool
	// Data holds the analysed script, nil for external nodes.
	Data any
}

// Graph is a call graph. An edge parent -> child means child calls parent,
// so parents are dependencies and children are dependents.
type Graph struct {
	nodes   map[string]*Node
	edges   map[string][]string // callee -> callers
	parents map[string][]string // caller -> callees
}

// CycleError reports a call cycle. Path starts and ends with the same node.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("call cycle detected: %s", strings.Join(e.Path, " -> "))
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds an analysed unit. Adding an existing ID replaces its data
// and clears the external mark.
func (g *Graph) AddNode(id string, data any) {
	if n, ok := g.nodes[id]; ok {
		n.Data = data
		n.External = false
		return
	}
	g.nodes[id] = &Node{ID: id, Data: data}
}

// AddExternal adds a routine that is referenced but not analysed. An
// existing node is left unchanged.
func (g *Graph) AddExternal(id string) {
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = &Node{ID: id, External: true}
	}
}

// AddEdge records that child calls parent. A routine calling itself is
// kept as a self edge and reported by HasCycle.
func (g *Graph) AddEdge(parentID, childID string) error {
	if _, ok := g.nodes[parentID]; !ok {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, ok := g.nodes[childID]; !ok {
		return fmt.Errorf("child node %q does not exist", childID)
	}

	if !slices.Contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !slices.Contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}
	return nil
}

// Node returns a node by ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Callees returns the routines id calls directly.
func (g *Graph) Callees(id string) []string {
	return sortedCopy(g.parents[id])
}

// Callers returns the units that call id directly.
func (g *Graph) Callers(id string) []string {
	return sortedCopy(g.edges[id])
}

// Nodes returns every node sorted by ID.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int { return strings.Compare(a.ID, b.ID) })
	return nodes
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of call edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, callers := range g.edges {
		count += len(callers)
	}
	return count
}

// HasCycle reports whether the graph contains a call cycle, along with the
// cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	from := make(map[string]string)

	var cycle []string
	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		onStack[id] = true

		for _, child := range g.edges[id] {
			if !visited[child] {
				from[child] = id
				if dfs(child) {
					return true
				}
			} else if onStack[child] {
				cycle = []string{child}
				for cur := id; cur != child; cur = from[cur] {
					cycle = append([]string{cur}, cycle...)
				}
				cycle = append([]string{child}, cycle...)
				return true
			}
		}

		onStack[id] = false
		return false
	}

	for _, id := range g.sortedIDs() {
		if !visited[id] && dfs(id) {
			return true, cycle
		}
	}
	return false, nil
}

// Order returns the nodes with every callee before its callers. Ties are
// broken by ID. A cycle yields a *CycleError.
func (g *Graph) Order() ([]*Node, error) {
	if found, path := g.HasCycle(); found {
		return nil, &CycleError{Path: path}
	}

	visited := make(map[string]bool)
	var out []*Node

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, p := range g.Callees(id) {
			visit(p)
		}
		out = append(out, g.nodes[id])
	}

	for _, id := range g.sortedIDs() {
		visit(id)
	}
	return out, nil
}

// Levels groups node IDs by call depth. Level 0 holds units that call
// nothing; a unit at level N only calls units below N.
func (g *Graph) Levels() ([][]string, error) {
	if found, path := g.HasCycle(); found {
		return nil, &CycleError{Path: path}
	}

	level := make(map[string]int)
	var depth func(id string) int
	depth = func(id string) int {
		if l, ok := level[id]; ok {
			return l
		}
		l := 0
		for _, p := range g.parents[id] {
			l = max(l, depth(p)+1)
		}
		level[id] = l
		return l
	}

	top := 0
	for id := range g.nodes {
		top = max(top, depth(id))
	}

	levels := make([][]string, top+1)
	for id, l := range level {
		levels[l] = append(levels[l], id)
	}
	for i := range levels {
		slices.Sort(levels[i])
	}
	return levels, nil
}

// Affected returns the changed units and every unit that reaches them
// through calls.
func (g *Graph) Affected(changed []string) []string {
	seen := make(map[string]bool)

	var mark func(id string)
	mark = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		for _, c := range g.edges[id] {
			mark(c)
		}
	}

	for _, id := range changed {
		if _, ok := g.nodes[id]; ok {
			mark(id)
		}
	}
	return sortedKeys(seen)
}

// Upstream returns every routine id calls directly or transitively.
func (g *Graph) Upstream(id string) []string {
	seen := make(map[string]bool)

	var mark func(n string)
	mark = func(n string) {
		for _, p := range g.parents[n] {
			if !seen[p] {
				seen[p] = true
				mark(p)
			}
		}
	}

	mark(id)
	return sortedKeys(seen)
}

// Roots returns units that call nothing.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.nodes {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	slices.Sort(roots)
	return roots
}

// Leaves returns units nothing calls.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.nodes {
		if len(g.edges[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	slices.Sort(leaves)
	return leaves
}

// Subgraph returns a graph holding only ids and the edges between them.
func (g *Graph) Subgraph(ids []string) *Graph {
	sub := NewGraph()
	keep := make(map[string]bool, len(ids))

	for _, id := range ids {
		if n, ok := g.nodes[id]; ok {
			keep[id] = true
			sub.nodes[id] = &Node{ID: n.ID, External: n.External, Data: n.Data}
		}
	}
	for id := range keep {
		for _, c := range g.edges[id] {
			if keep[c] {
				_ = sub.AddEdge(id, c)
			}
		}
	}
	return sub
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func sortedCopy(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
