package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flowmetric/flowmetric/pkg/errors"
	"github.com/flowmetric/flowmetric/pkg/httputil"
	"github.com/flowmetric/flowmetric/pkg/observability"
)

// DefaultTimeout is the default timeout for embedding requests.
const DefaultTimeout = 30 * time.Second

// Client is an Encoder backed by a sentence-embedding HTTP service.
//
// The service contract is a single batch endpoint:
//
//	POST {base}/embed  {"texts": ["a", "b"]}
//	  -> {"model": "...", "vectors": [[...], [...]], "dim": 768}
//
// plus GET {base}/health for liveness. Transient failures (network errors,
// 5xx responses) are retried with exponential backoff; anything else is
// surfaced immediately as an embedding-service error.
//
// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the embedding service at baseURL
// (e.g. "http://localhost:8000").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithTimeout sets a custom timeout for embedding requests.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// encodeRequest is the request body for the /embed endpoint.
type encodeRequest struct {
	Texts []string `json:"texts"`
}

// encodeResponse is the response from the /embed endpoint.
type encodeResponse struct {
	Model   string      `json:"model"`
	Vectors [][]float64 `json:"vectors"`
	Dim     int         `json:"dim"`
}

// healthResponse is the response from the /health endpoint.
type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// Encode embeds a batch of texts in a single service call.
func (c *Client) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()
	observability.Embedding().OnEncodeStart(ctx, len(texts))

	body, err := json.Marshal(encodeRequest{Texts: texts})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal encode request")
	}

	var out encodeResponse
	err = httputil.Retry(ctx, 3, time.Second, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &httputil.RetryableError{Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return &httputil.RetryableError{Err: fmt.Errorf("embedding service returned %d", resp.StatusCode)}
		}
		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("embedding service returned %d: %s", resp.StatusCode, msg)
		}
		return json.NewDecoder(resp.Body).Decode(&out)
	})
	observability.Embedding().OnEncodeComplete(ctx, len(texts), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEmbedding, err, "encode %d texts", len(texts))
	}

	if len(out.Vectors) != len(texts) {
		return nil, errors.New(errors.ErrCodeEmbedding,
			"embedding service returned %d vectors for %d texts", len(out.Vectors), len(texts))
	}
	return out.Vectors, nil
}

// Health checks the embedding service and returns the model it serves.
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "embedding service health check")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.ErrCodeEmbedding, "embedding service unhealthy: %d", resp.StatusCode)
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return "", errors.Wrap(errors.ErrCodeEmbedding, err, "decode health response")
	}
	return health.Model, nil
}

// Ensure Client implements Encoder.
var _ Encoder = (*Client)(nil)
