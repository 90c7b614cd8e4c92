// Package embed defines the embedding capability consumed by the scoring
// engine and provides its production implementations.
//
// The [Encoder] interface is the whole contract: a batch of strings in,
// a batch of fixed-dimension vectors out. The engine never talks to a
// model directly, which keeps scoring pure and lets tests inject
// deterministic doubles.
//
// Implementations:
//   - [Client]: HTTP client for a sentence-embedding service
//   - [OpenAI]: OpenAI embeddings API
//   - [Cached]: decorator that memoizes vectors in a cache backend
//
// Encoder failures are propagated to the evaluation caller unchanged; the
// engine has no retry or fallback policy of its own. The HTTP client does
// retry transient transport failures (5xx, connection errors) internally
// before giving up.
package embed
