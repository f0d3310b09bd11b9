// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package embed

import (
	"context"
	"hash/fnv"
	"log/slog"
	"strings"

	"github.com/poiesic/corpora/analysis"
)

// DefaultDimensions is the vector length used when none is configured.
const DefaultDimensions = 1536

// LexicalEmbedder produces TF-IDF vectors from a shared VocabularyStore.
// It is fully local and deterministic: the same text against the same
// corpus state always yields the same unit-length vector.
type LexicalEmbedder struct {
	vocab  *VocabularyStore
	dims   int
	logger *slog.Logger
}

var _ Embedder = (*LexicalEmbedder)(nil)

// Option configures a LexicalEmbedder.
type Option func(*LexicalEmbedder) error

// WithDimensions sets the output vector length.
// Default is DefaultDimensions.
func WithDimensions(dims int) Option {
	return func(e *LexicalEmbedder) error {
		if dims <= 0 {
			return ErrInvalidDimensions
		}
		e.dims = dims
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *LexicalEmbedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewLexicalEmbedder creates an embedder over the given vocabulary.
func NewLexicalEmbedder(vocab *VocabularyStore, opts ...Option) (*LexicalEmbedder, error) {
	if vocab == nil {
		return nil, ErrNilVocabulary
	}
	e := &LexicalEmbedder{
		vocab:  vocab,
		dims:   DefaultDimensions,
		logger: slog.Default().With("component", "lexical-embedder"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Dimensions returns the configured vector length.
func (e *LexicalEmbedder) Dimensions() int {
	return e.dims
}

// EmbedText tokenizes text, scores it against the vocabulary and projects
// the weights into the configured dimension count. Text with no signal
// tokens yields an all-zero vector and a zero token count, never an error.
func (e *LexicalEmbedder) EmbedText(ctx context.Context, text string) ([]float32, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	tokens := analysis.Tokenize(text)
	if len(tokens) == 0 {
		e.logger.Debug("no signal tokens in text", "length", len(text))
		return make([]float32, e.dims), 0, nil
	}

	weights, vocabSize := e.vocab.ScoreTransient(tokens)
	vector := e.project(weights, vocabSize, tokens)
	return NormalizeVector(vector), len(tokens), nil
}

// EmbedTexts embeds each text in order.
func (e *LexicalEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, []int, error) {
	vectors := make([][]float32, len(texts))
	counts := make([]int, len(texts))
	for i, text := range texts {
		vector, count, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, nil, err
		}
		vectors[i] = vector
		counts[i] = count
	}
	return vectors, counts, nil
}

// project places term weights into a dims-length vector. While the
// vocabulary fits, each term keeps its own coordinate and the unused tail
// is filled with tiny deterministic jitter so distinct texts do not
// collapse onto identical vectors. Once the vocabulary outgrows the
// dimension count, adjacent term indices are mean-pooled into buckets.
func (e *LexicalEmbedder) project(weights map[int]float32, vocabSize int, tokens []string) []float32 {
	vector := make([]float32, e.dims)

	if vocabSize <= e.dims {
		for idx, w := range weights {
			vector[idx] = w
		}

		h := fnv.New32a()
		h.Write([]byte(strings.Join(tokens, " ")))
		seed := h.Sum32()
		for i := vocabSize; i < e.dims; i++ {
			seed = seed*1664525 + 1013904223 // LCG constants
			vector[i] = float32(seed%1000) / 1000.0 * 1e-4
		}
		return vector
	}

	stride := (vocabSize + e.dims - 1) / e.dims
	for idx, w := range weights {
		vector[idx/stride] += w
	}
	for b := range vector {
		lo := b * stride
		hi := lo + stride
		if hi > vocabSize {
			hi = vocabSize
		}
		if hi > lo {
			vector[b] /= float32(hi - lo)
		}
	}
	return vector
}
