package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Stage identifies where an indexing pass currently is.
type Stage string

const (
	// StageProcessing covers validation and chunking of a document.
	StageProcessing Stage = "processing"
	// StageEmbedding covers vector computation for a document's chunks.
	StageEmbedding Stage = "embedding"
	// StageIndexing marks a document's chunks landing in the stores.
	StageIndexing Stage = "indexing"
	// StageComplete is the single final event of a pass.
	StageComplete Stage = "complete"
)

// Progress is a snapshot of an indexing pass. Per-document events carry the
// DocID being worked on; events emitted as documents finish carry Completed
// and Percent. The final StageComplete event additionally carries every
// per-document error collected during the pass.
type Progress struct {
	Stage     Stage
	DocID     string
	Completed int
	Total     int
	Percent   float64
	Errors    []error
}

// ProgressFunc receives progress events. The pipeline serializes calls, so
// implementations need no locking of their own.
type ProgressFunc func(Progress)

// ProgressTracker renders progress events to a writer for CLI use.
type ProgressTracker struct {
	mu        sync.Mutex
	writer    io.Writer
	startTime time.Time
	started   bool
}

// NewProgressTracker creates a tracker writing to w.
func NewProgressTracker(w io.Writer) *ProgressTracker {
	return &ProgressTracker{writer: w}
}

// Report renders one progress event. The first call starts the elapsed
// clock; the complete event prints a summary line with throughput.
func (t *ProgressTracker) Report(p Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		t.started = true
		t.startTime = time.Now()
	}

	if p.Stage == StageComplete {
		elapsed := time.Since(t.startTime)
		rate := 0.0
		if elapsed > 0 {
			rate = float64(p.Completed) / elapsed.Seconds()
		}
		fmt.Fprintf(t.writer, "\rIndexed %d/%d documents in %s (%.1f documents/s), %d errors\n",
			p.Completed, p.Total, elapsed.Round(time.Millisecond), rate, len(p.Errors))
		return
	}

	if p.Completed > 0 {
		fmt.Fprintf(t.writer, "\rProgress: %d/%d (%.1f%%)", p.Completed, p.Total, p.Percent)
	}
}

// Elapsed returns time since the first reported event.
func (t *ProgressTracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return 0
	}
	return time.Since(t.startTime)
}
