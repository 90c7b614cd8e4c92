package eval

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/flowmetric/flowmetric/pkg/embed"
)

// fakeEncoder returns fixed vectors per text and counts Encode calls.
// Unknown texts are an error so tests notice unexpected lookups.
type fakeEncoder struct {
	vecs  map[string][]float64
	calls int
}

func (f *fakeEncoder) Encode(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	out := make([][]float64, len(texts))
	for i, txt := range texts {
		v, ok := f.vecs[txt]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", txt)
		}
		out[i] = v
	}
	return out, nil
}

// kitchenVecs pairs each phrasing with a near-duplicate direction, with
// different actions kept nearly orthogonal.
var kitchenVecs = map[string][]float64{
	"go to kitchen":     {1, 0, 0, 0, 0},
	"go to the kitchen": {0.98, 0.199, 0, 0, 0},
	"pick up sponge":    {0, 1, 0, 0, 0},
	"grab the sponge":   {0.199, 0.98, 0, 0, 0},
	"wash sponge":       {0, 0, 1, 0, 0},
	"clean the sponge":  {0, 0.199, 0.98, 0, 0},
	// radio/music sit at 0.5 cosine, below the matching threshold
	"listen to the radio": {0, 0, 0, 1, 0},
	"listen to music":     {0, 0, 0, 0.5, 0.866},
}

func TestMatchExactShortCircuit(t *testing.T) {
	enc := &fakeEncoder{} // no vectors: any Encode call fails
	m := NewMatcher(enc, nil, DefaultConfig())

	nodes := []string{"go to kitchen", "pick up sponge", "wash sponge"}
	got, err := m.Match(context.Background(), nodes, nodes)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	want := map[int]int{0: 0, 1: 1, 2: 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match() = %v, want %v", got, want)
	}
	if enc.calls != 0 {
		t.Errorf("exact match used %d encoder calls, want 0", enc.calls)
	}
}

func TestMatchExactDuplicates(t *testing.T) {
	enc := &fakeEncoder{}
	m := NewMatcher(enc, nil, DefaultConfig())

	nodes := []string{"go to kitchen", "go to kitchen", "pick up sponge"}
	got, err := m.Match(context.Background(), nodes, nodes)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	// Duplicate labels pair up positionally, each reference used once.
	want := map[int]int{0: 0, 1: 1, 2: 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match() = %v, want %v", got, want)
	}
}

func TestMatchSemantic(t *testing.T) {
	enc := &fakeEncoder{vecs: kitchenVecs}
	m := NewMatcher(enc, nil, DefaultConfig())

	cand := []string{"go to kitchen", "pick up sponge", "wash sponge", "listen to the radio"}
	ref := []string{"go to the kitchen", "grab the sponge", "clean the sponge", "listen to music"}
	got, err := m.Match(context.Background(), cand, ref)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	want := map[int]int{0: 0, 1: 1, 2: 2, 3: Unmatched}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match() = %v, want %v", got, want)
	}
	if enc.calls != 2 {
		t.Errorf("semantic match used %d encoder calls, want 2 (one batch per side)", enc.calls)
	}
}

func TestMatchMixedExactAndSemantic(t *testing.T) {
	enc := &fakeEncoder{vecs: kitchenVecs}
	m := NewMatcher(enc, nil, DefaultConfig())

	cand := []string{"go to kitchen", "pick up sponge"}
	ref := []string{"go to kitchen", "grab the sponge"}
	got, err := m.Match(context.Background(), cand, ref)
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	want := map[int]int{0: 0, 1: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match() = %v, want %v", got, want)
	}
}

func TestMatchThresholdExcludes(t *testing.T) {
	enc := &fakeEncoder{vecs: kitchenVecs}
	m := NewMatcher(enc, nil, DefaultConfig())

	got, err := m.Match(context.Background(), []string{"listen to the radio"}, []string{"listen to music"})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	want := map[int]int{0: Unmatched}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match() = %v, want %v", got, want)
	}
}

func TestMatchPositionPenalty(t *testing.T) {
	// Four interchangeable texts, all with identical vectors. The position
	// penalty should settle the tie in favor of index-local pairings.
	vecs := map[string][]float64{
		"alpha": {1, 0, 0}, "beta": {1, 0, 0},
		"gamma": {1, 0, 0}, "delta": {1, 0, 0},
	}
	enc := &fakeEncoder{vecs: vecs}
	m := NewMatcher(enc, nil, DefaultConfig())

	got, err := m.Match(context.Background(), []string{"alpha", "beta"}, []string{"gamma", "delta"})
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	want := map[int]int{0: 0, 1: 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match() = %v, want %v", got, want)
	}
}

func TestMatchEncoderErrorPropagates(t *testing.T) {
	wantErr := errors.New("backend down")
	enc := embed.EncoderFunc(func(context.Context, []string) ([][]float64, error) {
		return nil, wantErr
	})
	m := NewMatcher(enc, nil, DefaultConfig())

	_, err := m.Match(context.Background(), []string{"a"}, []string{"b"})
	if !errors.Is(err, wantErr) {
		t.Errorf("Match() error = %v, want %v", err, wantErr)
	}
}
