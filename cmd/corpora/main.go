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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poiesic/corpora"
	"github.com/poiesic/corpora/chunker"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/embed"
	"github.com/poiesic/corpora/embed/openai"
	"github.com/poiesic/corpora/ingestion"
	"github.com/poiesic/corpora/reindex"
	"github.com/poiesic/corpora/search"
	"github.com/urfave/cli/v2"
)

func main() {
	dbFlag := &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}

	app := &cli.App{
		Name:   "corpora",
		Usage:  "Hybrid lexical and semantic search over document corpora",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "index",
				Usage:     "Index text files into the corpus",
				ArgsUsage: "FILE [FILE...]",
				Action:    indexCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Chunking strategy (semantic, window, sentence, paragraph, hybrid)",
						Value: string(chunker.StrategySemantic),
					},
					&cli.IntFlag{
						Name:  "max-chunk-size",
						Usage: "Maximum words per chunk",
						Value: 250,
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Metadata category applied to every indexed file",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent document workers (0 uses the default)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run a hybrid search against the corpus",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of results",
						Value: search.DefaultTopK,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum cosine similarity for semantic candidates",
					},
					&cli.Float64Flag{
						Name:  "semantic-weight",
						Usage: "Weight of the semantic branch in fusion",
						Value: search.DefaultSemanticWeight,
					},
					&cli.Float64Flag{
						Name:  "keyword-weight",
						Usage: "Weight of the keyword branch in fusion",
						Value: search.DefaultKeywordWeight,
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Only return results from this category",
					},
					&cli.BoolFlag{
						Name:  "no-rerank",
						Usage: "Disable the rerank pass",
					},
					&cli.BoolFlag{
						Name:  "context",
						Usage: "Print an assembled context bundle instead of a hit list",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Overall query deadline",
						Value: 10 * time.Second,
					},
				},
			},
			{
				Name:      "suggest",
				Usage:     "Suggest vocabulary terms related to a query",
				ArgsUsage: "QUERY...",
				Action:    suggestCommand,
				Flags:     []cli.Flag{dbFlag},
			},
			{
				Name:   "stats",
				Usage:  "Print corpus statistics",
				Action: statsCommand,
				Flags:  []cli.Flag{dbFlag},
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every indexed chunk",
				Action: reindexCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "OpenAI-compatible embedding service URL (empty uses the lexical embedder)",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func openDatabase(c *cli.Context) (*corpora.Database, error) {
	return corpora.NewDatabase(c.String("db"))
}

func indexCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no files to index")
	}

	documents := make([]ingestion.Document, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		name := filepath.Base(path)
		documents = append(documents, ingestion.Document{
			DocID:   name,
			Title:   strings.TrimSuffix(name, filepath.Ext(name)),
			Source:  path,
			Content: string(content),
			Metadata: core.Metadata{
				Category:  c.String("category"),
				Source:    path,
				CreatedAt: time.Now().UTC(),
			},
		})
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []ingestion.Option{
		ingestion.WithChunkOptions(chunker.Options{
			Strategy:     chunker.Strategy(c.String("strategy")),
			MaxChunkSize: c.Int("max-chunk-size"),
		}),
	}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}

	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	tracker := ingestion.NewProgressTracker(os.Stderr)
	return pipeline.IndexDocuments(c.Context, documents, tracker.Report)
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no query given")
	}
	query := strings.Join(c.Args().Slice(), " ")

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	req := search.QueryRequest{
		Query:          query,
		TopK:           c.Int("top-k"),
		MinSimilarity:  float32(c.Float64("min-similarity")),
		SemanticWeight: float32(c.Float64("semantic-weight")),
		KeywordWeight:  float32(c.Float64("keyword-weight")),
		DisableRerank:  c.Bool("no-rerank"),
	}
	if category := c.String("category"); category != "" {
		req.Filters = &search.Filters{Category: category}
	}

	resp, err := db.Query(ctx, req)
	if err != nil {
		return err
	}

	if resp.Degraded {
		fmt.Fprintln(os.Stderr, "warning: similarity search unavailable, results are degraded")
	}
	if resp.Partial {
		fmt.Fprintln(os.Stderr, "warning: deadline hit, results are partial")
	}

	if len(resp.Results) == 0 {
		fmt.Printf("No results. %s\n", resp.Reason)
		if len(resp.Suggestions) > 0 {
			fmt.Printf("Did you mean: %s\n", strings.Join(resp.Suggestions, ", "))
		}
		return nil
	}

	if c.Bool("context") {
		fmt.Println(resp.Context)
		fmt.Printf("\nSources: %s\n", strings.Join(resp.Sources, "; "))
		return nil
	}

	fmt.Printf("Found %d hits in %v\n", len(resp.Results), resp.Stats.Duration.Round(time.Millisecond))
	for i, hit := range resp.Results {
		title := "(unknown document)"
		if hit.Document != nil {
			title = hit.Document.DocID
			if hit.Document.Title != "" {
				title = hit.Document.Title
			}
		}
		fmt.Printf("%d: %s [%s %.3f] (sem %.3f, kw %.3f)\n",
			i+1, title, hit.MatchType, hit.Score, hit.SemanticScore, hit.KeywordScore)
		fmt.Printf("   %s\n", snippet(hit.Chunk.Content, 140))
	}
	return nil
}

func suggestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no query given")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	suggestions := db.Suggest(strings.Join(c.Args().Slice(), " "), 10)
	if len(suggestions) == 0 {
		fmt.Println("No related terms found.")
		return nil
	}
	fmt.Println(strings.Join(suggestions, "\n"))
	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.Stats(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("Entries:     %d\n", stats.Vectors.Entries)
	fmt.Printf("Documents:   %d\n", stats.Vectors.Documents)
	fmt.Printf("Dimensions:  %d\n", stats.Vectors.Dimensions)
	fmt.Printf("Terms:       %d\n", stats.Keywords.Terms)
	fmt.Printf("Vocabulary:  %d\n", stats.Vocabulary.Terms)
	fmt.Printf("Epoch:       %d\n", stats.Vocabulary.Epoch)
	if stats.Vectors.Degraded {
		fmt.Println("Similarity search: DEGRADED")
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var embedder embed.Embedder
	if host := c.String("embedding-host"); host != "" {
		config := embed.NewConfig(
			embed.WithHost(host),
			embed.WithModel(c.String("embedding-model")),
		)
		embedder, err = openai.NewEmbedder(config)
		if err != nil {
			return err
		}
	}

	reindexer, err := db.NewReindexer(embedder, &reindex.Config{
		BatchSize:  c.Int("batch-size"),
		MaxRetries: c.Int("max-retries"),
		RetryDelay: c.Duration("retry-delay"),
	}, os.Stderr)
	if err != nil {
		return err
	}

	_, err = reindexer.Run(c.Context)
	return err
}

func snippet(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
