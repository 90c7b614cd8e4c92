package embed

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/flowmetric/flowmetric/pkg/errors"
	"github.com/flowmetric/flowmetric/pkg/observability"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = string(openai.SmallEmbedding3)

// OpenAI is an Encoder backed by the OpenAI embeddings API.
// A custom base URL allows pointing it at OpenAI-compatible local servers.
type OpenAI struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAI creates an OpenAI-backed encoder. An empty model selects
// [DefaultOpenAIModel]; an empty baseURL uses the public API.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.EmbeddingModel(model),
	}
}

// Model returns the configured embedding model identifier.
func (o *OpenAI) Model() string { return string(o.model) }

// Encode embeds a batch of texts in a single API call.
func (o *OpenAI) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()
	observability.Embedding().OnEncodeStart(ctx, len(texts))

	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: o.model,
	})
	observability.Embedding().OnEncodeComplete(ctx, len(texts), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEmbedding, err, "openai encode %d texts", len(texts))
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.New(errors.ErrCodeEmbedding,
			"openai returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float64, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Ensure OpenAI implements Encoder.
var _ Encoder = (*OpenAI)(nil)
