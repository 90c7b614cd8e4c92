// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about evaluations, embedding calls, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEvalHooks(&myEvalHooks{})
//	    observability.SetEmbeddingHooks(&myEmbeddingHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Eval().OnEvaluateStart(ctx, metric, candNodes, refNodes)
//	// ... score ...
//	observability.Eval().OnEvaluateComplete(ctx, metric, f1, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Evaluation Hooks
// =============================================================================

// EvalHooks receives events from the scoring engine.
type EvalHooks interface {
	// OnEvaluateStart records the start of an evaluation.
	// metric is "nodes" or "graph".
	OnEvaluateStart(ctx context.Context, metric string, candidateNodes, referenceNodes int)

	// OnEvaluateComplete records a finished evaluation with its F1 score.
	OnEvaluateComplete(ctx context.Context, metric string, f1 float64, duration time.Duration, err error)

	// OnEnumerate records a topological enumeration of the reference graph.
	// bypassed reports whether full enumeration was skipped for size.
	OnEnumerate(ctx context.Context, interiorNodes, orderings int, bypassed bool)

	// OnMatch records a node-matching pass.
	// exact is the number of labels resolved by exact text, semantic the
	// number resolved by embedding similarity.
	OnMatch(ctx context.Context, candidateNodes, referenceNodes, exact, semantic int)
}

// =============================================================================
// Embedding Hooks
// =============================================================================

// EmbeddingHooks receives events from embedding-port calls.
type EmbeddingHooks interface {
	// OnEncodeStart records an outgoing batch encode call.
	OnEncodeStart(ctx context.Context, texts int)

	// OnEncodeComplete records a finished encode call.
	OnEncodeComplete(ctx context.Context, texts int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEvalHooks is a no-op implementation of EvalHooks.
type NoopEvalHooks struct{}

func (NoopEvalHooks) OnEvaluateStart(context.Context, string, int, int)                       {}
func (NoopEvalHooks) OnEvaluateComplete(context.Context, string, float64, time.Duration, error) {
}
func (NoopEvalHooks) OnEnumerate(context.Context, int, int, bool) {}
func (NoopEvalHooks) OnMatch(context.Context, int, int, int, int) {}

// NoopEmbeddingHooks is a no-op implementation of EmbeddingHooks.
type NoopEmbeddingHooks struct{}

func (NoopEmbeddingHooks) OnEncodeStart(context.Context, int)                          {}
func (NoopEmbeddingHooks) OnEncodeComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	evalHooks      EvalHooks      = NoopEvalHooks{}
	embeddingHooks EmbeddingHooks = NoopEmbeddingHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetEvalHooks registers custom evaluation hooks.
// This should be called once at application startup before any evaluations.
func SetEvalHooks(h EvalHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		evalHooks = h
	}
}

// SetEmbeddingHooks registers custom embedding hooks.
// This should be called once at application startup before any encode calls.
func SetEmbeddingHooks(h EmbeddingHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		embeddingHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Eval returns the registered evaluation hooks.
func Eval() EvalHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return evalHooks
}

// Embedding returns the registered embedding hooks.
func Embedding() EmbeddingHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return embeddingHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	evalHooks = NoopEvalHooks{}
	embeddingHooks = NoopEmbeddingHooks{}
	cacheHooks = NoopCacheHooks{}
}
