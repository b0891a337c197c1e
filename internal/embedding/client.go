// Package embedding provides an HTTP client for a text-embedding endpoint.
// It speaks the Ollama /api/embeddings protocol and also understands the
// OpenAI-compatible response shape, so any local embedding server works.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"pubmedrag/internal/logger"
)

// ErrUnavailable marks embedding failures. Callers must not attempt indexing
// or retrieval without a working embedder; within a process this is not
// retryable.
var ErrUnavailable = errors.New("embedding endpoint unavailable")

// Client is an embeddings client implementing domain.Embedder.
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	dimension int
	client    *http.Client
}

// Config configures the embeddings client.
type Config struct {
	BaseURL   string
	Model     string
	APIKeyEnv string
	Timeout   time.Duration
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "nomic-embed-text"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return c.model }

// Dimension returns the dimensionality of produced vectors. Zero until the
// first successful embed.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns one vector per input text, in input order. Queries and
// documents share this code path so they land in the same vector space.
// Empty texts still get an embedding attempt.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := c.embedOne(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		if c.dimension == 0 {
			c.dimension = len(vec)
		}
		if len(vec) != c.dimension {
			return nil, fmt.Errorf("%w: got %d dimensions, want %d", ErrUnavailable, len(vec), c.dimension)
		}
		vectors[i] = vec
	}
	logger.Debugf("embedded %d texts (%d dimensions)", len(texts), c.dimension)
	return vectors, nil
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

func (c *Client) embedOne(ctx context.Context, text string) ([]float32, error) {
	data, err := json.Marshal(embedRequest{Model: c.model, Prompt: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/embeddings", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return decodeEmbedding(payload)
}

// decodeEmbedding accepts the Ollama-native shape {"embedding": [...]} and
// the OpenAI-compatible {"data": [{"embedding": [...]}]} shape.
func decodeEmbedding(payload []byte) ([]float32, error) {
	var native struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.Unmarshal(payload, &native); err == nil && len(native.Embedding) > 0 {
		return native.Embedding, nil
	}

	var compat struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &compat); err == nil &&
		len(compat.Data) > 0 && len(compat.Data[0].Embedding) > 0 {
		return compat.Data[0].Embedding, nil
	}
	return nil, fmt.Errorf("%w: no embedding in response", ErrUnavailable)
}
