package eval

import (
	"context"

	"github.com/flowmetric/flowmetric/pkg/embed"
	"github.com/flowmetric/flowmetric/pkg/observability"
)

// Unmatched marks a candidate node with no reference counterpart.
const Unmatched = -1

// Matcher pairs candidate nodes with reference nodes. Exact string matches
// are resolved first; the remainder is matched semantically through an
// embedding encoder and a maximum-weight assignment.
type Matcher struct {
	encoder  embed.Encoder
	assigner Assigner
	cfg      Config
}

// NewMatcher builds a Matcher from an encoder and configuration. A nil
// assigner falls back to the Hungarian solver.
func NewMatcher(encoder embed.Encoder, assigner Assigner, cfg Config) *Matcher {
	if assigner == nil {
		assigner = HungarianAssigner{}
	}
	return &Matcher{encoder: encoder, assigner: assigner, cfg: cfg}
}

// Match returns a correspondence from every candidate index to a reference
// index, or Unmatched. The correspondence is injective: no reference node is
// claimed twice.
//
// When the exact pass already pairs every node on both sides the encoder is
// never called, so fully identical inputs need no embedding backend at all.
func (m *Matcher) Match(ctx context.Context, candidate, reference []string) (map[int]int, error) {
	matching := make(map[int]int, len(candidate))
	for i := range candidate {
		matching[i] = Unmatched
	}

	// === Exact pass ===
	refUsed := make([]bool, len(reference))
	matched := 0
	for i, cand := range candidate {
		for j, ref := range reference {
			if !refUsed[j] && cand == ref {
				matching[i] = j
				refUsed[j] = true
				matched++
				break
			}
		}
	}
	if matched == len(candidate) && matched == len(reference) {
		observability.Eval().OnMatch(ctx, len(candidate), len(reference), matched, 0)
		return matching, nil
	}

	// === Semantic pass ===
	var (
		candIdx, refIdx []int
		candTxt, refTxt []string
	)
	for i, c := range candidate {
		if matching[i] == Unmatched {
			candIdx = append(candIdx, i)
			candTxt = append(candTxt, c)
		}
	}
	for j, r := range reference {
		if !refUsed[j] {
			refIdx = append(refIdx, j)
			refTxt = append(refTxt, r)
		}
	}
	if len(candIdx) == 0 || len(refIdx) == 0 {
		observability.Eval().OnMatch(ctx, len(candidate), len(reference), matched, 0)
		return matching, nil
	}

	candVecs, err := m.encoder.Encode(ctx, candTxt)
	if err != nil {
		return nil, err
	}
	refVecs, err := m.encoder.Encode(ctx, refTxt)
	if err != nil {
		return nil, err
	}

	var edges []WeightedEdge
	for a, cv := range candVecs {
		for b, rv := range refVecs {
			sim := embed.Cosine(cv, rv)
			if sim < 0 {
				sim = 0
			}
			if sim < m.cfg.MatchThreshold {
				continue
			}
			// Identical similarities are broken toward nearby positions.
			dist := float64(candIdx[a] - refIdx[b])
			if dist < 0 {
				dist = -dist
			}
			edges = append(edges, WeightedEdge{
				Left:   a,
				Right:  b,
				Weight: sim - m.cfg.PositionPenalty*dist,
			})
		}
	}

	assigned := m.assigner.Assign(len(candIdx), len(refIdx), edges)
	for a, b := range assigned {
		matching[candIdx[a]] = refIdx[b]
	}
	observability.Eval().OnMatch(ctx, len(candidate), len(reference), matched, len(assigned))
	return matching, nil
}
