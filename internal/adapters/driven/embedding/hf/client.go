// Package hf provides an embedding service adapter for HuggingFace-style
// text-embedding inference endpoints.
//
// The remote service is unreliable by design: 500/503 responses and timeouts
// are retried with exponential backoff, and the response may arrive in three
// shapes (a flat vector, a singleton batch, or per-token rows) that are all
// normalised to a single vector of the configured dimension.
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/praxis-labs/recall/internal/core/domain"
	"github.com/praxis-labs/recall/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.EmbeddingService = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api-inference.huggingface.co"
	DefaultModel       = "BAAI/bge-small-en-v1.5"
	DefaultDimensions  = 384
	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second

	// DefaultQueryInstruction is the retrieval instruction prepended to
	// query-side embeddings. Document-side embeddings use no prefix;
	// asymmetric models depend on this split.
	DefaultQueryInstruction = "Represent this sentence for searching relevant passages: "
)

// Config holds configuration for the embedding client.
type Config struct {
	// BaseURL is the inference API root (default: HuggingFace).
	BaseURL string

	// Model is the embedding model identifier.
	Model string

	// APIKey is the bearer token.
	APIKey string

	// Dimensions is the expected vector size (default 384).
	Dimensions int

	// Timeout bounds each HTTP attempt.
	Timeout time.Duration

	// QueryInstruction overrides the retrieval instruction prefix.
	QueryInstruction string

	// MaxAttempts and BaseDelay override the retry policy.
	MaxAttempts int
	BaseDelay   time.Duration

	// RequestsPerSecond caps the client-side request rate. Zero disables
	// the limiter.
	RequestsPerSecond float64
}

// Client generates embeddings by calling a feature-extraction inference
// endpoint over HTTP.
type Client struct {
	client      *http.Client
	url         string
	apiKey      string
	model       string
	instruction string
	dimensions  int
	policy      BackoffPolicy
	limiter     *rate.Limiter
}

// embeddingRequest is the inference API request format.
type embeddingRequest struct {
	Inputs string `json:"inputs"`
}

// NewClient creates a new embedding client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.QueryInstruction == "" {
		cfg.QueryInstruction = DefaultQueryInstruction
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		client:      &http.Client{Timeout: cfg.Timeout},
		url:         cfg.BaseURL + "/pipeline/feature-extraction/" + cfg.Model,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		instruction: cfg.QueryInstruction,
		dimensions:  cfg.Dimensions,
		policy:      BackoffPolicy{MaxAttempts: cfg.MaxAttempts, BaseDelay: cfg.BaseDelay},
		limiter:     limiter,
	}
}

// Embed generates a document-side embedding (no instruction prefix).
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text)
}

// EmbedQuery generates a query-side embedding with the retrieval instruction
// prepended, matching asymmetric embedding models.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, c.instruction+text)
}

// Dimensions returns the embedding vector size.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// ModelName returns the name of the embedding model being used.
func (c *Client) ModelName() string {
	return c.model
}

// Close releases resources.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// embed runs the request through the retry policy and normalises the result.
// Once retries are exhausted the error wraps domain.ErrEmbeddingService and
// is terminal: callers must not retry further.
func (c *Client) embed(ctx context.Context, input string) ([]float32, error) {
	var vector []float32
	err := retryWithBackoff(ctx, c.policy, func() error {
		v, opErr := c.request(ctx, input)
		if opErr != nil {
			return opErr
		}
		vector = v
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingService, err)
	}
	return vector, nil
}

// request performs one HTTP attempt.
func (c *Client) request(ctx context.Context, input string) ([]float32, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(embeddingRequest{Inputs: input})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Transport errors and per-attempt timeouts are transient.
		return nil, retryable(fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retryable(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusInternalServerError,
		resp.StatusCode == http.StatusServiceUnavailable:
		return nil, retryable(fmt.Errorf("inference API status %d: %s", resp.StatusCode, respBody))
	default:
		return nil, fmt.Errorf("inference API status %d: %s", resp.StatusCode, respBody)
	}

	vector, err := normalizeResponse(respBody)
	if err != nil {
		return nil, err
	}
	if len(vector) != c.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(vector), c.dimensions)
	}
	return vector, nil
}

// normalizeResponse reduces the three response shapes to a single vector:
// a flat list of floats is used directly, a singleton batch is unwrapped,
// and per-token rows are mean-pooled column-wise.
func normalizeResponse(body []byte) ([]float32, error) {
	var flat []float64
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return toFloat32(flat), nil
	}

	var rows [][]float64
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("decode response: empty batch")
	}
	if len(rows) == 1 {
		return toFloat32(rows[0]), nil
	}

	// Mean pooling across token rows.
	width := len(rows[0])
	mean := make([]float64, width)
	for _, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("decode response: ragged token rows")
		}
		for i, v := range row {
			mean[i] += v
		}
	}
	n := float64(len(rows))
	for i := range mean {
		mean[i] /= n
	}
	return toFloat32(mean), nil
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
