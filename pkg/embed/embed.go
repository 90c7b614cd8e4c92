package embed

import (
	"context"
	"math"
)

// Encoder converts a batch of texts into fixed-dimension vectors.
//
// Implementations must be deterministic for a given model version: the same
// text always yields the same vector. They must also be safe for concurrent
// use - an Encoder is typically created once per process and shared across
// evaluations.
//
// Callers batch all texts of one matching pass into a single Encode call;
// per-text calls are semantically equivalent but slower.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(ctx context.Context, texts []string) ([][]float64, error)

// Encode calls f.
func (f EncoderFunc) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	return f(ctx, texts)
}

// Cosine returns the cosine similarity of two vectors.
// Returns 0 for zero-length or zero-magnitude inputs, and 0 when the
// dimensions disagree - degenerate vectors should score as dissimilar,
// not crash the matching pass.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
