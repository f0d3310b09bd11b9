package embed

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The int result is the number of recognized tokens that contributed
	// to the vector; zero means the text carried no signal (for example
	// stop words only) and the vector is all zeros.
	EmbedText(ctx context.Context, text string) ([]float32, int, error)

	// EmbedTexts generates embeddings for multiple texts in one call.
	// Results are in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, []int, error)

	// Dimensions returns the length of every vector this embedder produces.
	Dimensions() int
}
