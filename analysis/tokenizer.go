package analysis

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// Stop words filtered out before stemming and indexing.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "and": true, "in": true,
	"that": true, "have": true, "has": true, "it": true, "for": true, "not": true,
	"on": true, "with": true, "as": true, "you": true, "do": true, "at": true,
	"this": true, "but": true, "by": true, "from": true, "or": true, "will": true,
	"would": true, "there": true, "their": true, "what": true, "so": true,
	"if": true, "about": true, "which": true, "when": true, "can": true,
	"its": true, "into": true, "than": true, "then": true, "them": true,
}

// IsStopWord reports whether the lowercased word is a stop word.
func IsStopWord(word string) bool {
	return stopWords[strings.ToLower(word)]
}

// Stem reduces a word to its English stem. Input the stemmer cannot handle
// is returned lowercased rather than failing.
func Stem(word string) string {
	stemmed, err := snowball.Stem(word, "english", false)
	if err != nil || stemmed == "" {
		return strings.ToLower(word)
	}
	return stemmed
}

// Tokenize splits text into lowercase stemmed terms: non-alphabetic runes
// act as separators, single-letter and stop-word tokens are dropped.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	terms := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < 2 || stopWords[word] {
			continue
		}
		terms = append(terms, Stem(word))
	}
	return terms
}

// Bigrams returns the adjacent term pairs of a token stream, joined with a
// single space. Fewer than two tokens yield no bigrams.
func Bigrams(terms []string) []string {
	if len(terms) < 2 {
		return nil
	}
	bigrams := make([]string, 0, len(terms)-1)
	for i := 0; i+1 < len(terms); i++ {
		bigrams = append(bigrams, terms[i]+" "+terms[i+1])
	}
	return bigrams
}

// TermFrequencies counts occurrences per term.
func TermFrequencies(terms []string) map[string]int {
	freqs := make(map[string]int, len(terms))
	for _, term := range terms {
		freqs[term]++
	}
	return freqs
}

// Span is a half-open byte range [Start, End) into the text it was derived from.
type Span struct {
	Start int
	End   int
}

// WordSpans returns the byte spans of whitespace-separated words.
func WordSpans(text string) []Span {
	var spans []Span
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, Span{Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(text)})
	}
	return spans
}

// WordCount returns the number of whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ContainsAllQueryWords checks if all query terms appear in the document text.
func ContainsAllQueryWords(document, query string) bool {
	queryTerms := Tokenize(query)
	if len(queryTerms) == 0 {
		return false
	}

	docTerms := Tokenize(document)
	docSet := make(map[string]bool, len(docTerms))
	for _, term := range docTerms {
		docSet[term] = true
	}

	for _, term := range queryTerms {
		if !docSet[term] {
			return false
		}
	}
	return true
}
