package chunker

import (
	"fmt"
	"log/slog"

	"github.com/poiesic/corpora/analysis"
	"github.com/poiesic/corpora/core"
)

// Strategy selects how documents are split.
type Strategy string

const (
	// StrategySemantic packs whole sentences greedily up to the word budget
	// with sentence-level overlap between consecutive chunks.
	StrategySemantic Strategy = "semantic"
	// StrategyWindow slides a fixed word window with fixed word overlap.
	StrategyWindow Strategy = "window"
	// StrategySentence emits a fixed number of sentences per chunk.
	StrategySentence Strategy = "sentence"
	// StrategyParagraph splits on blank lines and packs paragraphs to the budget.
	StrategyParagraph Strategy = "paragraph"
	// StrategyHybrid runs semantic and falls back to window when the chunk
	// count deviates more than 2x from the expected count.
	StrategyHybrid Strategy = "hybrid"
)

// Options controls a single Process call. Zero values take defaults.
type Options struct {
	Strategy          Strategy
	MaxChunkSize      int // words per chunk
	MinChunkSize      int // chunks below this merge into a neighbor
	OverlapSize       int // words of overlap for the window strategy
	SentencesPerChunk int // for the sentence strategy
}

// DefaultOptions returns the options used when fields are left zero.
func DefaultOptions() Options {
	return Options{
		Strategy:          StrategySemantic,
		MaxChunkSize:      250,
		MinChunkSize:      10,
		OverlapSize:       50,
		SentencesPerChunk: 5,
	}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.Strategy == "" {
		o.Strategy = defaults.Strategy
	}
	if o.MaxChunkSize <= 0 {
		o.MaxChunkSize = defaults.MaxChunkSize
	}
	if o.MinChunkSize <= 0 {
		o.MinChunkSize = defaults.MinChunkSize
	}
	if o.OverlapSize <= 0 {
		o.OverlapSize = defaults.OverlapSize
	}
	if o.SentencesPerChunk <= 0 {
		o.SentencesPerChunk = defaults.SentencesPerChunk
	}
	return o
}

// Processor splits documents into chunks.
type Processor struct {
	logger *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProcessor creates a new document processor.
func NewProcessor(opts ...Option) (*Processor, error) {
	p := &Processor{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// span is a chunk under construction: a byte range plus overlap bookkeeping.
type span struct {
	start        int
	end          int
	overlapWords int
}

// Process splits text into chunks according to opts. The text is normalized
// first; all offsets refer to the normalized form. Blank input is a
// validation failure producing zero chunks; an unknown strategy is a
// configuration error. Non-blank input always yields at least one chunk.
func (p *Processor) Process(text string, opts Options) ([]core.Chunk, error) {
	normalized := core.NormalizeText(text)
	if normalized == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidDocument, core.ErrEmptyContent)
	}

	opts = opts.withDefaults()
	if opts.OverlapSize >= opts.MaxChunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than max chunk size %d",
			ErrInvalidChunkSize, opts.OverlapSize, opts.MaxChunkSize)
	}

	strategy := opts.Strategy
	var spans []span
	switch strategy {
	case StrategySemantic:
		spans = p.semanticSpans(normalized, opts)
	case StrategyWindow:
		spans = p.windowSpans(normalized, opts)
	case StrategySentence:
		spans = p.sentenceSpans(normalized, opts)
	case StrategyParagraph:
		spans = p.paragraphSpans(normalized, opts)
	case StrategyHybrid:
		spans, strategy = p.hybridSpans(normalized, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, opts.Strategy)
	}

	spans = mergeShortSpans(normalized, spans, opts.MinChunkSize)
	chunks := finalize(normalized, strategy, spans)

	p.logger.Debug("processed document",
		"strategy", string(strategy), "chunks", len(chunks), "bytes", len(normalized))
	return chunks, nil
}

// semanticSpans packs whole sentences greedily up to the word budget. Each
// chunk after the first starts at the previous chunk's final sentence so
// neighbouring chunks share one sentence of context.
func (p *Processor) semanticSpans(text string, opts Options) []span {
	sents := analysis.SentenceSpans(text)
	if len(sents) == 0 {
		return []span{{start: 0, end: len(text)}}
	}

	words := make([]int, len(sents))
	for i, s := range sents {
		words[i] = analysis.WordCount(text[s.Start:s.End])
	}

	var spans []span
	first := 0
	count := 0
	overlap := 0
	for i := 0; i < len(sents); i++ {
		if count > 0 && count+words[i] > opts.MaxChunkSize {
			spans = append(spans, span{start: sents[first].Start, end: sents[i-1].End, overlapWords: overlap})
			// Re-include the closing sentence for context, unless the chunk
			// was that single sentence.
			if i-1 > first {
				first = i - 1
				count = words[i-1]
				overlap = words[i-1]
			} else {
				first = i
				count = 0
				overlap = 0
			}
		}
		count += words[i]
	}
	spans = append(spans, span{start: sents[first].Start, end: sents[len(sents)-1].End, overlapWords: overlap})
	return spans
}

// windowSpans slides a fixed word window with fixed overlap.
func (p *Processor) windowSpans(text string, opts Options) []span {
	words := analysis.WordSpans(text)
	if len(words) == 0 {
		return []span{{start: 0, end: len(text)}}
	}
	if len(words) <= opts.MaxChunkSize {
		return []span{{start: words[0].Start, end: words[len(words)-1].End}}
	}

	step := opts.MaxChunkSize - opts.OverlapSize
	var spans []span
	for start := 0; start < len(words); start += step {
		endWord := start + opts.MaxChunkSize
		if endWord > len(words) {
			endWord = len(words)
		}
		overlap := 0
		if start > 0 {
			overlap = opts.OverlapSize
		}
		spans = append(spans, span{start: words[start].Start, end: words[endWord-1].End, overlapWords: overlap})
		if endWord == len(words) {
			break
		}
	}
	return spans
}

// sentenceSpans emits fixed groups of consecutive sentences.
func (p *Processor) sentenceSpans(text string, opts Options) []span {
	sents := analysis.SentenceSpans(text)
	if len(sents) == 0 {
		return []span{{start: 0, end: len(text)}}
	}

	var spans []span
	for i := 0; i < len(sents); i += opts.SentencesPerChunk {
		j := i + opts.SentencesPerChunk
		if j > len(sents) {
			j = len(sents)
		}
		spans = append(spans, span{start: sents[i].Start, end: sents[j-1].End})
	}
	return spans
}

// paragraphSpans splits on blank lines and packs whole paragraphs up to the
// word budget. A single paragraph larger than the budget stays one chunk.
func (p *Processor) paragraphSpans(text string, opts Options) []span {
	paras := splitParagraphs(text)
	if len(paras) == 0 {
		return []span{{start: 0, end: len(text)}}
	}

	words := make([]int, len(paras))
	for i, pr := range paras {
		words[i] = analysis.WordCount(text[pr.Start:pr.End])
	}

	var spans []span
	first := 0
	count := 0
	for i := 0; i < len(paras); i++ {
		if count > 0 && count+words[i] > opts.MaxChunkSize {
			spans = append(spans, span{start: paras[first].Start, end: paras[i-1].End})
			first = i
			count = 0
		}
		count += words[i]
	}
	spans = append(spans, span{start: paras[first].Start, end: paras[len(paras)-1].End})
	return spans
}

// hybridSpans runs the semantic strategy and falls back to the sliding
// window when the produced chunk count deviates more than 2x from the
// expected wordCount / (0.7 * maxChunkSize).
func (p *Processor) hybridSpans(text string, opts Options) ([]span, Strategy) {
	spans := p.semanticSpans(text, opts)

	estimate := float64(analysis.WordCount(text)) / (0.7 * float64(opts.MaxChunkSize))
	if estimate >= 1 {
		count := float64(len(spans))
		if count > 2*estimate || count < estimate/2 {
			p.logger.Debug("hybrid chunking falling back to window",
				"semanticChunks", len(spans), "estimate", estimate)
			return p.windowSpans(text, opts), StrategyWindow
		}
	}
	return spans, StrategySemantic
}

// splitParagraphs returns byte spans of blank-line-separated paragraphs.
func splitParagraphs(text string) []analysis.Span {
	var paras []analysis.Span
	start := -1
	i := 0
	for i < len(text) {
		if text[i] == '\n' && start >= 0 && blankLineAt(text, i) {
			paras = append(paras, analysis.Span{Start: start, End: trimSpanEnd(text, start, i)})
			start = -1
		} else if start < 0 && !isSpaceByte(text[i]) {
			start = i
		}
		i++
	}
	if start >= 0 {
		if end := trimSpanEnd(text, start, len(text)); end > start {
			paras = append(paras, analysis.Span{Start: start, End: end})
		}
	}
	return paras
}

// blankLineAt reports whether the newline at i is followed by another
// newline with only spaces or tabs in between.
func blankLineAt(text string, i int) bool {
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return false
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func trimSpanEnd(text string, start, end int) int {
	for end > start && isSpaceByte(text[end-1]) {
		end--
	}
	return end
}

// mergeShortSpans merges every chunk smaller than minWords into a
// neighbor: its predecessor when one exists, otherwise the following chunk.
// A single chunk is always kept, however small: a document shorter than the
// minimum becomes exactly one chunk.
func mergeShortSpans(text string, spans []span, minWords int) []span {
	for len(spans) > 1 {
		short := -1
		for i, s := range spans {
			if analysis.WordCount(text[s.start:s.end]) < minWords {
				short = i
				break
			}
		}
		if short < 0 {
			break
		}
		if short == 0 {
			next := &spans[1]
			next.start = spans[0].start
			next.overlapWords = spans[0].overlapWords
			spans = spans[1:]
			continue
		}
		prev := &spans[short-1]
		if spans[short].end > prev.end {
			prev.end = spans[short].end
		}
		spans = append(spans[:short], spans[short+1:]...)
	}
	return spans
}

// finalize converts spans into chunks with ordinals, totals and counts.
func finalize(text string, strategy Strategy, spans []span) []core.Chunk {
	chunks := make([]core.Chunk, len(spans))
	for i, s := range spans {
		content := text[s.start:s.end]
		chunks[i] = core.Chunk{
			Content:       content,
			Ordinal:       i,
			TotalChunks:   len(spans),
			StartOffset:   s.start,
			EndOffset:     s.end,
			WordCount:     analysis.WordCount(content),
			SentenceCount: analysis.SentenceCount(content),
			Strategy:      string(strategy),
			OverlapWords:  s.overlapWords,
		}
	}
	return chunks
}
