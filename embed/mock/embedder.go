package mock

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/poiesic/corpora/embed"
)

// DefaultDimensions is the vector length the mock produces unless a
// function field overrides the behavior.
const DefaultDimensions = 64

// MockEmbedder is a test double for embed.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, int, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, uses default deterministic behavior.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, []int, error)

	mu        sync.Mutex
	callCount int
}

var _ embed.Embedder = (*MockEmbedder)(nil)

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
// Returns the concrete type so tests can inject behavior and assert calls.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText generates a deterministic embedding based on text hash.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, int, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}

	return generateDeterministicVector(text, DefaultDimensions), len(strings.Fields(text)), nil
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, []int, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	counts := make([]int, len(texts))
	for i, text := range texts {
		vectors[i] = generateDeterministicVector(text, DefaultDimensions)
		counts[i] = len(strings.Fields(text))
	}
	return vectors, counts, nil
}

// Dimensions returns the mock's vector length.
func (m *MockEmbedder) Dimensions() int {
	return DefaultDimensions
}

// CallCount returns the number of times any embed method was called.
func (m *MockEmbedder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEmbedder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// generateDeterministicVector creates a deterministic embedding vector from
// text. It uses FNV hash so the same text always produces the same vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}
	return embed.NormalizeVector(vector)
}
