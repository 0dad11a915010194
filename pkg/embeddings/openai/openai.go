// Package openai implements pkg/embeddings' Embedder over the OpenAI embeddings API.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/reverielabs/reverie/pkg/embeddings"
	"github.com/reverielabs/reverie/pkg/vector"
)

// DefaultEmbeddingModel is the default model used for embeddings.
const DefaultEmbeddingModel = goopenai.SmallEmbedding3

// Embedder wraps the OpenAI embeddings API.
type Embedder struct {
	client *goopenai.Client
	model  goopenai.EmbeddingModel
}

// EmbedderConfig holds configuration for the OpenAI embedder.
type EmbedderConfig struct {
	// APIKey authenticates against the OpenAI API. Required.
	APIKey string

	// BaseURL overrides the API endpoint, for proxies and compatible servers.
	BaseURL string

	// Model is the embedding model to use.
	// Defaults to DefaultEmbeddingModel if empty.
	Model string
}

// NewEmbedder creates a new embedder using the OpenAI embeddings API.
func NewEmbedder(cfg EmbedderConfig) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	model := goopenai.EmbeddingModel(cfg.Model)
	if model == "" {
		model = DefaultEmbeddingModel
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Embedder{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Embed converts text into a vector embedding.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai embeddings: %v", vector.ErrEmbedding, err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", vector.ErrEmbedding)
	}

	return resp.Data[0].Embedding, nil
}

// Close releases resources held by the embedder.
func (e *Embedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
