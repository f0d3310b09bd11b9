package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/poiesic/corpora"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/ingestion"
)

// Built-in corpus used when no source file is given. Each entry becomes one
// document.
var samples = []ingestion.Document{
	{
		DocID: "foxes", Title: "Fox Facts",
		Metadata: core.Metadata{Category: "animals"},
		Content: "The quick brown fox jumps over the lazy dog. Foxes are clever " +
			"hunters that adapt easily to cities and farmland. A silver fox " +
			"slipped past the fences into the twilight, following scents of " +
			"jasmine from distant gardens.",
	},
	{
		DocID: "lighthouse", Title: "The Lighthouse",
		Metadata: core.Metadata{Category: "places"},
		Content: "The lighthouse beam cut through fog, guiding sailors safely " +
			"past the rocks. The abandoned lighthouse still broadcasts its " +
			"warning every third Tuesday. Waves crash against the rocky shore " +
			"below while seabirds nest in the tower's cracks.",
	},
	{
		DocID: "storage", Title: "Storage Engines",
		Metadata: core.Metadata{Category: "engineering"},
		Content: "Database storage engines organize pages into trees for fast " +
			"lookups. Write-ahead logs protect committed transactions from " +
			"crashes, and compaction reclaims space left behind by deleted " +
			"keys. The cache invalidation problem solved itself out of spite.",
	},
	{
		DocID: "garden", Title: "Night Garden",
		Metadata: core.Metadata{Category: "places"},
		Content: "Sunlight filtered through curtains, turning dust motes into " +
			"golden specks. She collected feathers from birds that visited her " +
			"garden and painted the sunset with bold strokes of crimson and " +
			"gold. A gentle breeze rustled the leaves of the old oak tree.",
	},
	{
		DocID: "network", Title: "Network Notes",
		Metadata: core.Metadata{Category: "engineering"},
		Content: "Packets take the scenic route through deprecated protocols. " +
			"Load balancers developed preferences, and the firewall gained " +
			"sentience and immediately requested vacation days. TCP packets " +
			"started arriving before they were sent.",
	},
}

var (
	dbPath       = flag.String("db", "./corpora_db", "path to BadgerDB database directory")
	seedFileName = flag.String("src", "", "file of seed data, one document per line")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over non-empty lines in a file.
func linesFromFile(name string) (iter.Seq[string], error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}, nil
}

func main() {
	documents := samples
	if *seedFileName != "" {
		lines, err := linesFromFile(*seedFileName)
		if err != nil {
			slog.Error("failed to open seed file", "file", *seedFileName, "err", err)
			os.Exit(1)
		}
		documents = nil
		i := 0
		for line := range lines {
			documents = append(documents, ingestion.Document{
				DocID:   fmt.Sprintf("seed-%04d", i),
				Content: line,
			})
			i++
		}
	}

	db, err := corpora.NewDatabase(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "path", *dbPath, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		slog.Error("failed to create pipeline", "err", err)
		os.Exit(1)
	}
	defer pipeline.Release()

	tracker := ingestion.NewProgressTracker(os.Stderr)
	if err := pipeline.IndexDocuments(context.Background(), documents, tracker.Report); err != nil {
		slog.Error("indexing finished with errors", "err", err)
		os.Exit(1)
	}

	slog.Info("seeded corpus", "documents", len(documents), "vocabulary", db.Vocabulary().Size())
}
