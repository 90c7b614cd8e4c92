package eval

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowmetric/flowmetric/pkg/embed"
	flowerrors "github.com/flowmetric/flowmetric/pkg/errors"
	"github.com/flowmetric/flowmetric/pkg/observability"
	"github.com/flowmetric/flowmetric/pkg/workflow"
)

// Evaluator scores candidate workflow graphs against reference graphs.
//
// The Evaluator is stateless except for its encoder and logger - it doesn't
// store evaluation results. Multiple goroutines can safely share one
// Evaluator.
type Evaluator struct {
	cfg        Config
	matcher    *Matcher
	enumerator TopoEnumerator
	Logger     *log.Logger
}

// Option customizes an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for recoverable evaluation warnings.
func WithLogger(l *log.Logger) Option { return func(e *Evaluator) { e.Logger = l } }

// WithTopoEnumerator replaces the ordering enumerator.
func WithTopoEnumerator(t TopoEnumerator) Option { return func(e *Evaluator) { e.enumerator = t } }

// WithAssigner replaces the bipartite matching solver.
func WithAssigner(a Assigner) Option {
	return func(e *Evaluator) { e.matcher.assigner = a }
}

// NewEvaluator creates an evaluator backed by the given embedding encoder.
// The zero-value Config is replaced by DefaultConfig.
func NewEvaluator(encoder embed.Encoder, cfg Config, opts ...Option) (*Evaluator, error) {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Evaluator{
		cfg:        cfg,
		matcher:    NewMatcher(encoder, nil, cfg),
		enumerator: NewEnumerator(cfg.EnumBypassNodes, cfg.EnumLimit),
		Logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// EvaluateNodes scores the candidate's interior node sequence against every
// enumerated ordering of the reference graph and keeps the best F1. A
// reference graph whose orderings cannot be enumerated (it has a cycle)
// scores zero rather than failing the whole run.
func (e *Evaluator) EvaluateNodes(ctx context.Context, candidate, reference workflow.Graph) (Score, error) {
	if err := validateGraphs(candidate, reference); err != nil {
		return zeroScore, err
	}

	start := time.Now()
	observability.Eval().OnEvaluateStart(ctx, "nodes", len(candidate.Nodes), len(reference.Nodes))

	orderings, err := e.enumerator.Enumerate(reference)
	if err != nil {
		e.Logger.Warn("reference orderings unavailable, scoring zero",
			"error", err,
			"nodes", len(reference.Nodes),
			"edges", len(reference.Edges))
		observability.Eval().OnEvaluateComplete(ctx, "nodes", 0, time.Since(start), nil)
		return zeroScore, nil
	}

	refInterior := len(reference.Interior())
	observability.Eval().OnEnumerate(ctx, refInterior, len(orderings), refInterior >= e.cfg.EnumBypassNodes)

	candNodes := candidate.Interior()

	best := zeroScore
	for _, refNodes := range orderings {
		matching, err := e.matcher.Match(ctx, candNodes, refNodes)
		if err != nil {
			observability.Eval().OnEvaluateComplete(ctx, "nodes", 0, time.Since(start), err)
			return zeroScore, err
		}
		score := Aligner{Ordered: true}.Align(matching, len(candNodes), len(refNodes))
		if score.F1 > best.F1 {
			best = score
		}
	}

	observability.Eval().OnEvaluateComplete(ctx, "nodes", best.F1, time.Since(start), nil)
	return best, nil
}

// EvaluateGraph scores the candidate graph against the reference graph by
// comparing reachability closures after semantic node matching.
func (e *Evaluator) EvaluateGraph(ctx context.Context, candidate, reference workflow.Graph) (Score, error) {
	if err := validateGraphs(candidate, reference); err != nil {
		return zeroScore, err
	}

	start := time.Now()
	observability.Eval().OnEvaluateStart(ctx, "graph", len(candidate.Nodes), len(reference.Nodes))

	score, err := e.scoreReachability(ctx, candidate, reference)
	observability.Eval().OnEvaluateComplete(ctx, "graph", score.F1, time.Since(start), err)
	return score, err
}

// validateGraphs rejects structurally broken inputs before any embedding
// work happens.
func validateGraphs(candidate, reference workflow.Graph) error {
	if err := candidate.Validate(); err != nil {
		return flowerrors.Wrap(flowerrors.ErrCodeInvalidGraph, err, "invalid candidate graph")
	}
	if err := reference.Validate(); err != nil {
		return flowerrors.Wrap(flowerrors.ErrCodeInvalidGraph, err, "invalid reference graph")
	}
	return nil
}
