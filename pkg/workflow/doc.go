// Package workflow defines the annotated directed workflow graph consumed
// by the scoring engine, along with its JSON wire format and structural
// validation.
//
// A workflow graph is an ordered list of free-text step descriptions bounded
// by "START" and "END" sentinel nodes, connected by directed edges that
// reference nodes by index:
//
//	g := workflow.Graph{
//	    Nodes: []string{"START", "go to kitchen", "take sponge", "END"},
//	    Edges: []workflow.Edge{{0, 1}, {1, 2}, {2, 3}},
//	}
//
// Upstream builders guarantee the sentinel pair but not acyclicity or index
// validity, so consumers defend against both: Validate rejects out-of-range
// edge endpoints (a hard error) and CheckAcyclic reports cycles (a condition
// scoring degrades on rather than fails).
package workflow
