// Package chunker splits normalized document text into overlapping chunks.
//
// Five strategies are supported: semantic (sentence-boundary-aware greedy
// packing), window (fixed word window with overlap), sentence (fixed
// sentence count), paragraph (blank-line splits packed to a word budget)
// and hybrid (semantic with a sliding-window fallback when the chunk count
// deviates badly from the expected count).
//
// Every produced chunk is a contiguous byte range of the input text;
// overlap is expressed by moving a chunk's start back over the previous
// chunk's trailing sentences or words, so Content always equals
// text[StartOffset:EndOffset].
package chunker
