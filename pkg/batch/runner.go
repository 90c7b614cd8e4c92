package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowmetric/flowmetric/pkg/errors"
	"github.com/flowmetric/flowmetric/pkg/eval"
	"github.com/flowmetric/flowmetric/pkg/workflow"
)

// Pair names one candidate/reference file pair to score.
type Pair struct {
	Name      string
	Candidate string // path to the candidate graph JSON
	Reference string // path to the reference graph JSON
}

// Sink receives scored records, e.g. for persistence. Implementations must
// tolerate being called once per record in file order.
type Sink interface {
	Write(ctx context.Context, rec Record) error
}

// Runner scores pairs of graph files.
//
// The Runner is stateless across Run calls. A nil Sink disables persistence;
// a nil Logger falls back to log.Default().
type Runner struct {
	Evaluator *eval.Evaluator
	Sink      Sink
	Logger    *log.Logger
}

// NewRunner creates a batch runner around an evaluator.
func NewRunner(evaluator *eval.Evaluator, sink Sink, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Evaluator: evaluator, Sink: sink, Logger: logger}
}

// Run scores every pair and returns the per-pair records. Scoring failures
// are captured in the record's Error field; only context cancellation and
// sink failures abort the run.
func (r *Runner) Run(ctx context.Context, pairs []Pair) ([]Record, error) {
	var results Collector
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return results.Records(), err
		}

		rec := r.scorePair(ctx, p)
		results.Add(rec)

		if rec.Failed() {
			r.Logger.Warn("pair failed", "name", p.Name, "error", rec.Error)
		} else {
			r.Logger.Info("pair scored",
				"name", p.Name,
				"node_f1", rec.NodeScore.F1,
				"graph_f1", rec.GraphScore.F1,
				"duration", rec.Duration)
		}

		if r.Sink != nil {
			if err := r.Sink.Write(ctx, rec); err != nil {
				return results.Records(), errors.Wrap(errors.ErrCodeInternal, err, "persist record %s", rec.Name)
			}
		}
	}
	return results.Records(), nil
}

// scorePair evaluates a single pair, converting any failure into the
// record's Error field. The result is named so the deferred duration stamp
// applies to whichever record is actually returned.
func (r *Runner) scorePair(ctx context.Context, p Pair) (rec Record) {
	rec = newRecord(p.Name, p.Candidate, p.Reference)
	start := time.Now()
	defer func() { rec.Duration = time.Since(start) }()

	cand, err := workflow.ReadGraphFile(p.Candidate)
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	ref, err := workflow.ReadGraphFile(p.Reference)
	if err != nil {
		rec.Error = err.Error()
		return rec
	}

	nodeScore, err := r.Evaluator.EvaluateNodes(ctx, cand, ref)
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	graphScore, err := r.Evaluator.EvaluateGraph(ctx, cand, ref)
	if err != nil {
		rec.Error = err.Error()
		return rec
	}

	rec.NodeScore = nodeScore
	rec.GraphScore = graphScore
	return rec
}

// DiscoverPairs pairs files with the same name between a candidate and a
// reference directory. Only .json files are considered. Files present on one
// side only are skipped with a warning so partial datasets still run.
func DiscoverPairs(candidateDir, referenceDir string, logger *log.Logger) ([]Pair, error) {
	if logger == nil {
		logger = log.Default()
	}

	refFiles, err := listJSON(referenceDir)
	if err != nil {
		return nil, err
	}
	candFiles, err := listJSON(candidateDir)
	if err != nil {
		return nil, err
	}

	candSet := make(map[string]bool, len(candFiles))
	for _, f := range candFiles {
		candSet[f] = true
	}

	var pairs []Pair
	for _, f := range refFiles {
		if !candSet[f] {
			logger.Warn("no candidate for reference", "file", f)
			continue
		}
		pairs = append(pairs, Pair{
			Name:      strings.TrimSuffix(f, filepath.Ext(f)),
			Candidate: filepath.Join(candidateDir, f),
			Reference: filepath.Join(referenceDir, f),
		})
	}
	for _, f := range candFiles {
		found := false
		for _, rf := range refFiles {
			if rf == f {
				found = true
				break
			}
		}
		if !found {
			logger.Warn("no reference for candidate", "file", f)
		}
	}

	if len(pairs) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no matching graph pairs between %s and %s", candidateDir, referenceDir)
	}
	return pairs, nil
}

func listJSON(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read directory %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}
