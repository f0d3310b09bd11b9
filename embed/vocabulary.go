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
	"math"
	"sort"
	"sync"
)

// VocabularyStore tracks the terms seen across the indexed corpus together
// with their document frequencies. Term indices are assigned once and never
// change or get reused, so a term's position in the projected vector space
// is stable for the lifetime of the store.
//
// The store is in-memory; it is rebuilt from stored chunks on startup.
// All methods are safe for concurrent use.
type VocabularyStore struct {
	mu        sync.Mutex
	index     map[string]int
	docFreq   map[string]int
	totalDocs int
	epoch     uint64
}

// NewVocabularyStore creates an empty vocabulary.
func NewVocabularyStore() *VocabularyStore {
	return &VocabularyStore{
		index:   make(map[string]int),
		docFreq: make(map[string]int),
	}
}

// CommitDocument permanently records one document's tokens: every distinct
// term gains a document-frequency count, new terms get the next free index,
// and the total document count and epoch advance. Tokens are expected to be
// already normalized (lowercased, stemmed, stop words removed).
func (v *VocabularyStore) CommitDocument(tokens []string) {
	if len(tokens) == 0 {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	seen := make(map[string]struct{}, len(tokens))
	for _, term := range tokens {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		if _, ok := v.index[term]; !ok {
			v.index[term] = len(v.index)
		}
		v.docFreq[term]++
	}
	v.totalDocs++
	v.epoch++
}

// ScoreTransient computes TF-IDF weights for the tokens as if they formed
// one additional document in the corpus, without growing the corpus. New
// terms still receive permanent indices, so two different unseen terms never
// collide on a vector position, but document frequencies and the document
// count are restored before returning.
//
// The result maps term index to weight; the second return is the vocabulary
// size after any new terms were assigned, which callers need to project the
// weights into a fixed-dimension space.
func (v *VocabularyStore) ScoreTransient(tokens []string) (map[int]float32, int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(tokens) == 0 {
		return nil, len(v.index)
	}

	counts := make(map[string]int, len(tokens))
	for _, term := range tokens {
		counts[term]++
	}

	for term := range counts {
		if _, ok := v.index[term]; !ok {
			v.index[term] = len(v.index)
		}
		v.docFreq[term]++
	}
	v.totalDocs++

	weights := make(map[int]float32, len(counts))
	total := float64(len(tokens))
	docs := float64(v.totalDocs)
	for term, count := range counts {
		tf := float64(count) / total
		idf := math.Log((docs+1)/float64(v.docFreq[term])) + 1
		weights[v.index[term]] = float32(tf * idf)
	}

	// Retract the pseudo-document.
	for term := range counts {
		if v.docFreq[term]--; v.docFreq[term] == 0 {
			delete(v.docFreq, term)
		}
	}
	v.totalDocs--

	return weights, len(v.index)
}

// VocabularyStats summarizes vocabulary contents.
type VocabularyStats struct {
	Terms     int
	Documents int
	Epoch     uint64
}

// Stats reports the term count, committed document count and epoch in one
// consistent snapshot.
func (v *VocabularyStore) Stats() VocabularyStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return VocabularyStats{
		Terms:     len(v.index),
		Documents: v.totalDocs,
		Epoch:     v.epoch,
	}
}

// Size returns the number of distinct terms ever seen.
func (v *VocabularyStore) Size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.index)
}

// TotalDocuments returns the number of committed documents.
func (v *VocabularyStore) TotalDocuments() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalDocs
}

// Epoch returns a counter that advances with every committed document.
// Callers can compare epochs to detect corpus growth since a vector was
// produced.
func (v *VocabularyStore) Epoch() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.epoch
}

// DocumentFrequency returns how many committed documents contain term.
func (v *VocabularyStore) DocumentFrequency(term string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.docFreq[term]
}

// TopTerms returns up to n committed terms ordered by descending document
// frequency, ties broken alphabetically.
func (v *VocabularyStore) TopTerms(n int) []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	terms := make([]string, 0, len(v.docFreq))
	for term := range v.docFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if v.docFreq[terms[i]] != v.docFreq[terms[j]] {
			return v.docFreq[terms[i]] > v.docFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if n >= 0 && len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
