// Package embeddings provides text embedding capabilities.
package embeddings

import "context"

// Embedder converts text into fixed-length dense vectors using a pretrained
// sentence-embedding model. Output is deterministic for a fixed model and
// input: the same text always yields the same vector.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}

// EmbedAll embeds every text in order and returns one vector per input.
// The first failing text aborts the batch.
func EmbedAll(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}
