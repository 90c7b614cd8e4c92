package eval

import (
	"context"

	"github.com/flowmetric/flowmetric/pkg/workflow"
)

// scoreReachability compares two graphs through their reachability closures.
// Candidate edges are first translated into the reference node space using
// the node correspondence, then the set of ordered pairs "u reaches v" is
// intersected between both graphs.
//
// Comparing closures instead of raw edges keeps the score stable when one
// side inserts intermediate steps or splits a branch differently.
func (e *Evaluator) scoreReachability(ctx context.Context, candidate, reference workflow.Graph) (Score, error) {
	if len(candidate.Nodes) == 0 || len(reference.Nodes) == 0 {
		return zeroScore, nil
	}

	matching, err := e.matcher.Match(ctx, candidate.Nodes, reference.Nodes)
	if err != nil {
		return zeroScore, err
	}

	// Translate candidate edges into reference indices, dropping any edge
	// with an unmatched endpoint.
	var mapped []workflow.Edge
	for _, edge := range candidate.Edges {
		gu, gv := matching[edge.From], matching[edge.To]
		if gu != Unmatched && gv != Unmatched {
			mapped = append(mapped, workflow.Edge{From: gu, To: gv})
		}
	}

	n := len(reference.Nodes)
	candReach := workflow.Reachability(n, mapped)
	refReach := workflow.Reachability(n, reference.Edges)

	// Two graphs with no reachable pairs at all are trivially identical.
	if len(candReach) == 0 && len(refReach) == 0 {
		return perfectScore, nil
	}

	inter := 0
	for pair := range candReach {
		if _, ok := refReach[pair]; ok {
			inter++
		}
	}

	var precision, recall float64
	if len(candReach) > 0 {
		precision = float64(inter) / float64(len(candReach))
	}
	if len(refReach) > 0 {
		recall = float64(inter) / float64(len(refReach))
	}
	return newScore(precision, recall), nil
}
