// Package eval implements similarity scoring between candidate and
// reference workflow graphs.
//
// This package implements the complete match → align → score pipeline used
// by CLI, API, and batch components. By centralizing this logic, all entry
// points report identical scores for identical inputs.
//
// # Architecture
//
// Scoring runs in three stages:
//
//  1. Match: Pair candidate nodes with reference nodes, exact text first,
//     then embedding similarity with maximum-weight assignment
//  2. Align: Score the paired sequence, order-sensitive (longest increasing
//     subsequence) or order-insensitive (coverage)
//  3. Aggregate: Keep the best F1 across enumerated reference orderings
//     (node metric), or compare reachability closures (graph metric)
//
// # Usage
//
// Create an Evaluator and score two graphs:
//
//	evaluator, err := eval.NewEvaluator(encoder, eval.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	score, err := evaluator.EvaluateNodes(ctx, candidate, reference)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(score.F1)
//
// EvaluateGraph works the same way but compares structure instead of
// sequence. Both metrics return precision, recall and F1 in [0,1].
package eval
