package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/corpora/embed"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements embed.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	dims     int
	logger   *slog.Logger
}

var _ embed.Embedder = (*Embedder)(nil)

// NewEmbedder creates an embedder using the provided configuration.
//
// Returns the embed.Embedder interface to enforce abstraction.
func NewEmbedder(config *embed.Config) (embed.Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		dims:     config.Dimensions,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// Dimensions returns the configured model vector length.
func (e *Embedder) Dimensions() int {
	return e.dims
}

// EmbedText generates a vector embedding for a single text string. The
// token count is a local whitespace approximation; remote APIs do not
// report it.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, int, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, 0, err
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, 0, nil
	}

	return vectors[0], len(strings.Fields(text)), nil
}

// EmbedTexts generates vector embeddings for multiple texts in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, []int, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, nil, err
	}

	counts := make([]int, len(texts))
	for i, text := range texts {
		counts[i] = len(strings.Fields(text))
	}
	return vectors, counts, nil
}
