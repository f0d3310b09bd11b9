package search

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/corpora/analysis"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/embed"
	"github.com/poiesic/corpora/embed/mock"
	"github.com/poiesic/corpora/keyword"
	"github.com/poiesic/corpora/storage"
	badgerstore "github.com/poiesic/corpora/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	engine   *Engine
	docs     storage.DocumentRepository
	vectors  storage.VectorStore
	keywords *keyword.Index
	vocab    *embed.VocabularyStore
	embedder *embed.LexicalEmbedder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	docs, vectors, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		docs.Close()
		vectors.Close()
		backend.Close()
	})

	vocab := embed.NewVocabularyStore()
	embedder, err := embed.NewLexicalEmbedder(vocab, embed.WithDimensions(64))
	require.NoError(t, err)
	keywords := keyword.NewIndex()

	engine, err := NewEngine(vectors, docs, keywords, embedder, WithVocabulary(vocab))
	require.NoError(t, err)

	return &testEnv{
		engine:   engine,
		docs:     docs,
		vectors:  vectors,
		keywords: keywords,
		vocab:    vocab,
		embedder: embedder,
	}
}

// indexText indexes content as a single-chunk document, mirroring what the
// ingestion pipeline does.
func (env *testEnv) indexText(t *testing.T, docID, title, category, content string) {
	t.Helper()
	ctx := context.Background()

	doc := &core.RawDocument{
		DocID:   docID,
		Title:   title,
		Content: content,
		Metadata: core.Metadata{
			Category:  category,
			CreatedAt: time.Now().UTC(),
		},
		IndexedAt:  time.Now().UTC(),
		ChunkCount: 1,
	}
	require.NoError(t, env.docs.PutDocument(context.Background(), doc))

	env.vocab.CommitDocument(analysis.Tokenize(content))
	vector, _, err := env.embedder.EmbedText(ctx, content)
	require.NoError(t, err)

	chunk := core.Chunk{
		Id:          core.ChunkID(docID, 0),
		DocumentId:  doc.Id,
		Content:     content,
		TotalChunks: 1,
		EndOffset:   len(content),
		WordCount:   analysis.WordCount(content),
		Strategy:    "semantic",
	}
	require.NoError(t, env.vectors.Upsert(ctx, &core.IndexedEntry{
		Chunk:    chunk,
		Vector:   vector,
		Metadata: doc.Metadata,
	}))
	env.keywords.IndexChunk(chunk.Id, content)
}

func seedAnimalCorpus(t *testing.T, env *testEnv) {
	env.indexText(t, "fox-1", "Fox Facts", "animals",
		"The quick brown fox jumps over the lazy dog. Foxes are clever hunters.")
	env.indexText(t, "dog-1", "Dog Care", "animals",
		"Dogs enjoy long walks and structured training routines.")
	env.indexText(t, "db-1", "Storage Engines", "databases",
		"Database storage engines organize pages into trees for fast lookups.")
}

func TestEngine_Query_Hybrid(t *testing.T) {
	env := newTestEnv(t)
	seedAnimalCorpus(t, env)
	ctx := context.Background()

	resp, err := env.engine.Query(ctx, QueryRequest{Query: "clever fox"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)

	top := resp.Results[0]
	assert.Equal(t, "fox-1", top.Document.DocID)
	assert.Greater(t, top.SemanticScore, float32(0))
	assert.Greater(t, top.KeywordScore, float32(0))
	assert.Equal(t, core.MatchTypeHybrid, top.MatchType)
	assert.Contains(t, top.MatchedTerms, "fox")
	assert.False(t, resp.Partial)
	assert.False(t, resp.Degraded)

	t.Run("stats populated", func(t *testing.T) {
		assert.Greater(t, resp.Stats.Duration, time.Duration(0))
		assert.Greater(t, resp.Stats.SemanticCandidates, 0)
		assert.Greater(t, resp.Stats.KeywordCandidates, 0)
		assert.Equal(t, len(resp.Results), resp.Stats.Results)
	})

	t.Run("scores ranked descending", func(t *testing.T) {
		for i := 1; i < len(resp.Results); i++ {
			assert.GreaterOrEqual(t, resp.Results[i-1].Score, resp.Results[i].Score)
		}
	})

	t.Run("context bundle populated", func(t *testing.T) {
		assert.Contains(t, resp.Context, "quick brown fox")
		assert.Contains(t, resp.Sources, "Fox Facts (fox-1)")
	})
}

func TestEngine_Query_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.Query(ctx, QueryRequest{Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = env.engine.Query(ctx, QueryRequest{Query: "fox", TopK: -1})
	assert.ErrorIs(t, err, ErrInvalidTopK)

	_, err = env.engine.Query(ctx, QueryRequest{Query: "fox", SemanticWeight: -1})
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestEngine_Query_DocumentDedup(t *testing.T) {
	env := newTestEnv(t)
	env.indexText(t, "fox-1", "Fox Facts", "animals", "Foxes hunt at night.")
	ctx := context.Background()

	// Add a second chunk of the same document matching the same query.
	doc, err := env.docs.GetDocument(ctx, "fox-1")
	require.NoError(t, err)
	content := "Foxes also hunt at dawn."
	vector, _, err := env.embedder.EmbedText(ctx, content)
	require.NoError(t, err)
	chunk := core.Chunk{
		Id:          core.ChunkID("fox-1", 1),
		DocumentId:  doc.Id,
		Content:     content,
		Ordinal:     1,
		TotalChunks: 2,
		EndOffset:   len(content),
	}
	require.NoError(t, env.vectors.Upsert(ctx, &core.IndexedEntry{Chunk: chunk, Vector: vector, Metadata: doc.Metadata}))
	env.keywords.IndexChunk(chunk.Id, content)

	resp, err := env.engine.Query(ctx, QueryRequest{Query: "foxes hunt"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1, "one result per document")
	assert.Equal(t, doc.Id, resp.Results[0].Chunk.DocumentId)
}

func TestEngine_Query_MinSimilarity(t *testing.T) {
	env := newTestEnv(t)
	seedAnimalCorpus(t, env)
	ctx := context.Background()

	resp, err := env.engine.Query(ctx, QueryRequest{
		Query:         "canine training walks",
		MinSimilarity: 0.99,
	})
	require.NoError(t, err)

	// The strict threshold silences the semantic branch; anything left came
	// from exact keyword matches.
	for _, result := range resp.Results {
		assert.Equal(t, core.MatchTypeKeyword, result.MatchType)
		assert.Zero(t, result.SemanticScore)
	}
}

func TestEngine_Query_Filters(t *testing.T) {
	env := newTestEnv(t)
	seedAnimalCorpus(t, env)
	ctx := context.Background()

	resp, err := env.engine.Query(ctx, QueryRequest{
		Query:   "fox storage trees",
		Filters: &Filters{Category: "databases"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	for _, result := range resp.Results {
		assert.Equal(t, "db-1", result.Document.DocID)
	}

	t.Run("filter matching nothing", func(t *testing.T) {
		resp, err := env.engine.Query(ctx, QueryRequest{
			Query:   "fox",
			Filters: &Filters{Category: "geology"},
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Results)
		assert.NotEmpty(t, resp.Reason)
	})
}

func TestEngine_Query_TimeoutPartial(t *testing.T) {
	env := newTestEnv(t)
	seedAnimalCorpus(t, env)

	slow := mock.NewMockEmbedder()
	slow.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, int, error) {
		<-ctx.Done()
		return nil, 0, ctx.Err()
	}
	engine, err := NewEngine(env.vectors, env.docs, env.keywords, slow)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	resp, err := engine.Query(ctx, QueryRequest{Query: "clever fox"})
	require.NoError(t, err)
	assert.True(t, resp.Partial)
	require.NotEmpty(t, resp.Results, "keyword branch still serves results")
	assert.Equal(t, core.MatchTypeKeyword, resp.Results[0].MatchType)
}

func TestEngine_Query_Degraded(t *testing.T) {
	env := newTestEnv(t)
	seedAnimalCorpus(t, env)
	ctx := context.Background()

	env.vectors.(*badgerstore.VectorRepository).SetSimilarityAvailable(false)

	resp, err := env.engine.Query(ctx, QueryRequest{Query: "fox"})
	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	require.NotEmpty(t, resp.Results)
	found := false
	for _, result := range resp.Results {
		if result.Degraded {
			found = true
			assert.Equal(t, core.MatchTypeFallback, result.MatchType)
		}
	}
	assert.True(t, found, "expected at least one fallback result")
}

func TestEngine_Query_Suggestions(t *testing.T) {
	env := newTestEnv(t)
	seedAnimalCorpus(t, env)
	ctx := context.Background()

	resp, err := env.engine.Query(ctx, QueryRequest{
		Query:         "foxy hound",
		MinSimilarity: 0.5,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Contains(t, resp.Suggestions, "fox")
}

func TestFusion_WeightMonotonicity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	entry := func(id core.ID) *core.IndexedEntry {
		return &core.IndexedEntry{Chunk: core.Chunk{Id: id, DocumentId: id * 100}}
	}
	hits := []*storage.VectorHit{
		{Entry: entry(1), Similarity: 0.9},
		{Entry: entry(2), Similarity: 0.4},
	}
	matches := []keyword.Match{
		{ChunkID: 1, Score: 0.5, MatchedTerms: []string{"fox"}},
		{ChunkID: 2, Score: 0.5, MatchedTerms: []string{"fox"}},
	}

	t.Run("higher semantic score is never demoted", func(t *testing.T) {
		// Equal keyword scores: the chunk with the stronger semantic score
		// must stay on top for every weighting.
		for _, w := range []float32{0.1, 0.3, 0.5, 0.7, 0.9} {
			req := QueryRequest{Query: "fox", SemanticWeight: w, KeywordWeight: 1 - w}
			candidates := env.engine.fuse(ctx, hits, matches, req)
			require.Len(t, candidates, 2)
			rankCandidates(candidates)
			assert.Equal(t, core.ID(1), candidates[0].entry.Chunk.Id, "semantic weight %.1f", w)
			assert.GreaterOrEqual(t, candidates[0].score, candidates[1].score)
		}
	})

	t.Run("top score grows with the semantic weight", func(t *testing.T) {
		prev := float32(-1)
		for _, w := range []float32{0.2, 0.4, 0.6, 0.8} {
			req := QueryRequest{Query: "fox", SemanticWeight: w, KeywordWeight: 0.3}
			candidates := env.engine.fuse(ctx, hits, matches, req)
			require.NotEmpty(t, candidates)
			rankCandidates(candidates)
			assert.Greater(t, candidates[0].score, prev)
			prev = candidates[0].score
		}
	})
}

func TestNewEngine_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewEngine(nil, env.docs, env.keywords, env.embedder)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)
	_, err = NewEngine(env.vectors, nil, env.keywords, env.embedder)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)
	_, err = NewEngine(env.vectors, env.docs, nil, env.embedder)
	assert.ErrorIs(t, err, ErrKeywordIndexRequired)
	_, err = NewEngine(env.vectors, env.docs, env.keywords, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
