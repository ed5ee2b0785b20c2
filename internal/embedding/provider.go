// Package embedding provides text embedding providers and a TTL cache.
package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable marks embedding-model failures (missing key, unreachable
// endpoint). Callers degrade the semantic feature or report it unavailable
// instead of treating the failure as internal.
var ErrUnavailable = errors.New("embedding model unavailable")

// Provider defines the interface for generating text embeddings.
// Vectors from different models are never interchangeable: an index built
// with one model must be rebuilt before switching providers.
type Provider interface {
	// Embed generates an embedding for a single text string.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple text strings.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
