package eval

// Score is a precision/recall/F1 triple, each value in [0,1].
//
// F1 is the harmonic mean of precision and recall, with the convention that
// it is 0 whenever precision or recall is 0 (not just when both are). The
// inverse convention - a "vacuously perfect" (1,1,1) - applies when two
// empty structures are compared; see the graph scorer.
type Score struct {
	Precision float64 `json:"precision" bson:"precision"`
	Recall    float64 `json:"recall" bson:"recall"`
	F1        float64 `json:"f1_score" bson:"f1_score"`
}

// zeroScore is the degraded result for recovered failures and empty inputs.
var zeroScore = Score{}

// perfectScore is the vacuous result when both compared sets are empty.
var perfectScore = Score{Precision: 1, Recall: 1, F1: 1}

// newScore builds a Score from precision and recall, applying the F1
// zero-guard.
func newScore(precision, recall float64) Score {
	s := Score{Precision: precision, Recall: recall}
	if precision > 0 && recall > 0 {
		s.F1 = 2 * precision * recall / (precision + recall)
	}
	return s
}
