package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flowmetric/flowmetric/pkg/errors"
)

func newEmbedServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestClientEncode(t *testing.T) {
	client := newEmbedServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req encodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		vectors := make([][]float64, len(req.Texts))
		for i := range req.Texts {
			vectors[i] = []float64{float64(i), 1}
		}
		json.NewEncoder(w).Encode(encodeResponse{Model: "test", Vectors: vectors, Dim: 2})
	})

	vecs, err := client.Encode(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("len(vecs) = %d", len(vecs))
	}
	if vecs[2][0] != 2 {
		t.Errorf("vecs[2] = %v", vecs[2])
	}
}

func TestClientEncodeEmptyBatch(t *testing.T) {
	client := NewClient("http://unreachable.invalid")
	vecs, err := client.Encode(context.Background(), nil)
	if err != nil || vecs != nil {
		t.Errorf("empty batch should short-circuit, got %v, %v", vecs, err)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newEmbedServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(encodeResponse{Vectors: [][]float64{{1}}})
	}).WithTimeout(5 * time.Second)

	vecs, err := client.Encode(context.Background(), []string{"a"})
	if err != nil {
		t.Fatalf("Encode after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if len(vecs) != 1 {
		t.Errorf("vecs = %v", vecs)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newEmbedServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad input", http.StatusBadRequest)
	})

	_, err := client.Encode(context.Background(), []string{"a"})
	if !errors.Is(err, errors.ErrCodeEmbedding) {
		t.Fatalf("Encode = %v, want EMBEDDING_ERROR", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestClientVectorCountMismatch(t *testing.T) {
	client := newEmbedServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(encodeResponse{Vectors: [][]float64{{1}}})
	})

	_, err := client.Encode(context.Background(), []string{"a", "b"})
	if !errors.Is(err, errors.ErrCodeEmbedding) {
		t.Errorf("Encode = %v, want EMBEDDING_ERROR", err)
	}
}

func TestClientHealth(t *testing.T) {
	client := newEmbedServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(healthResponse{Status: "ok", Model: "all-mpnet-base-v2"})
	})

	model, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if model != "all-mpnet-base-v2" {
		t.Errorf("model = %q", model)
	}
}
