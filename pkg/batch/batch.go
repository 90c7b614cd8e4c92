// Package batch scores directories of workflow graph pairs and aggregates
// the results.
//
// A batch run walks a set of (candidate, reference) file pairs, scores each
// with the evaluation engine, and collects per-pair records plus an overall
// summary. Individual pair failures are recorded, not fatal: one malformed
// file must not sink an overnight run.
package batch

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/flowmetric/flowmetric/pkg/eval"
)

// Record holds the outcome of scoring one candidate/reference pair.
type Record struct {
	ID         string        `json:"id" bson:"_id"`
	Name       string        `json:"name" bson:"name"`
	Candidate  string        `json:"candidate" bson:"candidate"`
	Reference  string        `json:"reference" bson:"reference"`
	NodeScore  eval.Score    `json:"node_score" bson:"node_score"`
	GraphScore eval.Score    `json:"graph_score" bson:"graph_score"`
	Error      string        `json:"error,omitempty" bson:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns" bson:"duration_ns"`
	ScoredAt   time.Time     `json:"scored_at" bson:"scored_at"`
}

// newRecord creates a Record with a fresh ID and timestamp.
func newRecord(name, candidate, reference string) Record {
	return Record{
		ID:        uuid.NewString(),
		Name:      name,
		Candidate: candidate,
		Reference: reference,
		ScoredAt:  time.Now().UTC(),
	}
}

// Failed reports whether the pair could not be scored.
func (r Record) Failed() bool { return r.Error != "" }

// Summary aggregates a batch of records. Min/max scores are component-wise
// over the successfully scored records.
type Summary struct {
	Total     int           `json:"total" bson:"total"`
	Failed    int           `json:"failed" bson:"failed"`
	MeanNode  eval.Score    `json:"mean_node_score" bson:"mean_node_score"`
	MinNode   eval.Score    `json:"min_node_score" bson:"min_node_score"`
	MaxNode   eval.Score    `json:"max_node_score" bson:"max_node_score"`
	MeanGraph eval.Score    `json:"mean_graph_score" bson:"mean_graph_score"`
	MinGraph  eval.Score    `json:"min_graph_score" bson:"min_graph_score"`
	MaxGraph  eval.Score    `json:"max_graph_score" bson:"max_graph_score"`
	TotalTime time.Duration `json:"total_time_ns" bson:"total_time_ns"`
}

// Collector accumulates the records of one batch run. Each run owns its own
// Collector - there is no shared module-level state - so concurrent batch
// runs never see each other's results.
type Collector struct {
	records []Record
}

// Add appends one scored record.
func (c *Collector) Add(rec Record) {
	c.records = append(c.records, rec)
}

// Records returns the accumulated records in insertion order.
func (c *Collector) Records() []Record {
	return c.records
}

// Summary aggregates the accumulated records. Failed pairs count toward
// Total and Failed but are excluded from the score statistics.
func (c *Collector) Summary() Summary {
	s := Summary{Total: len(c.records)}
	scored := 0
	for _, r := range c.records {
		s.TotalTime += r.Duration
		if r.Failed() {
			s.Failed++
			continue
		}
		if scored == 0 {
			s.MinNode, s.MaxNode = r.NodeScore, r.NodeScore
			s.MinGraph, s.MaxGraph = r.GraphScore, r.GraphScore
		} else {
			s.MinNode = minScore(s.MinNode, r.NodeScore)
			s.MaxNode = maxScore(s.MaxNode, r.NodeScore)
			s.MinGraph = minScore(s.MinGraph, r.GraphScore)
			s.MaxGraph = maxScore(s.MaxGraph, r.GraphScore)
		}
		scored++
		s.MeanNode.Precision += r.NodeScore.Precision
		s.MeanNode.Recall += r.NodeScore.Recall
		s.MeanNode.F1 += r.NodeScore.F1
		s.MeanGraph.Precision += r.GraphScore.Precision
		s.MeanGraph.Recall += r.GraphScore.Recall
		s.MeanGraph.F1 += r.GraphScore.F1
	}
	if scored > 0 {
		n := float64(scored)
		s.MeanNode.Precision /= n
		s.MeanNode.Recall /= n
		s.MeanNode.F1 /= n
		s.MeanGraph.Precision /= n
		s.MeanGraph.Recall /= n
		s.MeanGraph.F1 /= n
	}
	return s
}

// Summarize computes the aggregate over an existing record slice.
func Summarize(records []Record) Summary {
	c := Collector{records: records}
	return c.Summary()
}

func minScore(a, b eval.Score) eval.Score {
	return eval.Score{
		Precision: math.Min(a.Precision, b.Precision),
		Recall:    math.Min(a.Recall, b.Recall),
		F1:        math.Min(a.F1, b.F1),
	}
}

func maxScore(a, b eval.Score) eval.Score {
	return eval.Score{
		Precision: math.Max(a.Precision, b.Precision),
		Recall:    math.Max(a.Recall, b.Recall),
		F1:        math.Max(a.F1, b.F1),
	}
}
