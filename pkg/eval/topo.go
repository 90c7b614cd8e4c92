package eval

import (
	"github.com/flowmetric/flowmetric/pkg/workflow"
)

// TopoEnumerator enumerates topological orderings of a workflow graph's
// interior nodes. Implementations are swappable so alternative enumeration
// strategies (e.g. Kahn's algorithm with pruning heuristics) can be
// substituted without touching the scoring logic.
type TopoEnumerator interface {
	// Enumerate returns interior-node label sequences, one per valid
	// linearization. Returns workflow.ErrGraphHasCycle (possibly wrapped)
	// when the graph admits no linearization.
	Enumerate(g workflow.Graph) ([][]string, error)
}

// Enumerator is the default TopoEnumerator: an exhaustive backtracking
// enumeration in Kahn style, bounded two ways for tractability.
//
// If the graph has BypassNodes or more interior nodes, enumeration is
// skipped entirely and the nodes are returned in their given order - the
// number of linearizations is factorial in the worst case, and past a dozen
// nodes the approximation is cheaper than the search. Below that, all valid
// linearizations are produced but only the first Limit are kept.
//
// At each step ready nodes are tried in ascending index order, so the
// output order is deterministic.
type Enumerator struct {
	BypassNodes int // interior count at which enumeration is bypassed
	Limit       int // maximum orderings returned
}

// NewEnumerator creates an Enumerator with the given bounds.
func NewEnumerator(bypassNodes, limit int) Enumerator {
	return Enumerator{BypassNodes: bypassNodes, Limit: limit}
}

// Enumerate returns the interior-node sequences of all topological
// linearizations, subject to the enumerator's bounds.
func (e Enumerator) Enumerate(g workflow.Graph) ([][]string, error) {
	interior := g.Interior()
	if len(interior) >= e.BypassNodes {
		// Note the bypass happens before any acyclicity check: an oversized
		// graph is approximated by its input order even if malformed.
		return [][]string{interior}, nil
	}

	if err := g.CheckAcyclic(); err != nil {
		return nil, err
	}

	n := len(g.Nodes)
	adj := g.Adjacency()
	indegree := make([]int, n)
	for _, edge := range g.Edges {
		indegree[edge.To]++
	}

	var results [][]string
	order := make([]int, 0, n)
	used := make([]bool, n)

	// Backtracking over all Kahn choices. Returns false once the limit is
	// reached to cut the search short.
	var backtrack func() bool
	backtrack = func() bool {
		if len(order) == n {
			seq := make([]string, 0, len(interior))
			for _, idx := range order {
				if !workflow.IsSentinel(g.Nodes[idx]) {
					seq = append(seq, g.Nodes[idx])
				}
			}
			results = append(results, seq)
			return len(results) < e.Limit
		}
		for v := range n {
			if used[v] || indegree[v] != 0 {
				continue
			}
			used[v] = true
			order = append(order, v)
			for _, w := range adj[v] {
				indegree[w]--
			}

			more := backtrack()

			for _, w := range adj[v] {
				indegree[w]++
			}
			order = order[:len(order)-1]
			used[v] = false

			if !more {
				return false
			}
		}
		return true
	}
	backtrack()

	return results, nil
}

// Ensure Enumerator implements TopoEnumerator.
var _ TopoEnumerator = Enumerator{}
