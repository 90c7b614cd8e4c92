package workflow

import (
	"errors"
	"fmt"
)

// Sentinel node labels bounding every workflow graph.
const (
	StartNode = "START"
	EndNode   = "END"
)

var (
	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node index outside the node list. This indicates a caller
	// bug, not a data-quality issue, and is never degraded to a score.
	ErrInvalidEdgeEndpoint = errors.New("edge endpoint out of range")

	// ErrGraphHasCycle is returned by [Graph.CheckAcyclic] when a directed
	// cycle is detected. Cycles are detected using depth-first search with
	// white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Edge is a directed connection between two nodes, addressed by index
// into [Graph.Nodes].
type Edge struct {
	From int
	To   int
}

// Graph is an annotated directed workflow graph. Nodes[0] is the "START"
// sentinel and Nodes[len-1] is the "END" sentinel; interior nodes hold
// natural-language step descriptions. Edges reference nodes by index.
//
// Graph is a plain value: evaluation never mutates it, and instances are
// safe to share across goroutines once constructed.
type Graph struct {
	Nodes []string `json:"nodes" bson:"nodes"`
	Edges []Edge   `json:"edges" bson:"edges"`
}

// Validate checks that every edge endpoint is a valid node index.
// Returns ErrInvalidEdgeEndpoint wrapped with the offending edge otherwise.
//
// Validate does not check acyclicity - a cyclic graph is a recoverable
// condition for topological operations, handled by their callers, while a
// bad endpoint is a hard input error. Use CheckAcyclic separately.
func (g Graph) Validate() error {
	n := len(g.Nodes)
	for _, e := range g.Edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return fmt.Errorf("edge (%d,%d) in graph with %d nodes: %w", e.From, e.To, n, ErrInvalidEdgeEndpoint)
		}
	}
	return nil
}

// CheckAcyclic returns ErrGraphHasCycle if the edge relation contains a
// directed cycle, nil otherwise. Runs in O(N+E).
func (g Graph) CheckAcyclic() error {
	const (
		white = iota
		gray
		black
	)

	adj := g.Adjacency()
	color := make([]int, len(g.Nodes))
	var hasCycle bool

	var dfs func(u int)
	dfs = func(u int) {
		color[u] = gray
		for _, v := range adj[u] {
			switch color[v] {
			case white:
				dfs(v)
			case gray:
				hasCycle = true
				return
			}
		}
		color[u] = black
	}

	for u := range g.Nodes {
		if color[u] == white {
			dfs(u)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// Adjacency builds the outgoing adjacency list, one slice per node index.
func (g Graph) Adjacency() [][]int {
	adj := make([][]int, len(g.Nodes))
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

// Interior returns the node labels with the START/END sentinels removed,
// in their original order. Any node whose label equals a sentinel is
// dropped, matching how upstream graph builders mark boundaries.
func (g Graph) Interior() []string {
	interior := make([]string, 0, max(len(g.Nodes)-2, 0))
	for _, label := range g.Nodes {
		if IsSentinel(label) {
			continue
		}
		interior = append(interior, label)
	}
	return interior
}

// IsSentinel reports whether the label is one of the START/END markers.
func IsSentinel(label string) bool {
	return label == StartNode || label == EndNode
}

// Reachability returns the reachability closure of the edge set over a node
// domain of size n: the set of all ordered pairs (a,b) where b is reachable
// from a via one or more directed edges. Edges with endpoints outside
// [0,n) are ignored.
func Reachability(n int, edges []Edge) map[Edge]struct{} {
	adj := make([][]int, n)
	for _, e := range edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
	}

	closure := make(map[Edge]struct{})
	seen := make([]bool, n)
	var stack []int

	for s := range n {
		for i := range seen {
			seen[i] = false
		}
		stack = append(stack[:0], adj[s]...)
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if seen[u] {
				continue
			}
			seen[u] = true
			if u != s { // a node is not its own descendant
				closure[Edge{From: s, To: u}] = struct{}{}
			}
			stack = append(stack, adj[u]...)
		}
	}
	return closure
}
