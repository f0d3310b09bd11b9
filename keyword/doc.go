// Package keyword maintains an in-memory inverted index over chunk text
// for exact-term retrieval.
//
// Chunks are indexed under their stemmed unigrams and adjacent-word
// bigrams; bigram matches weigh double since they capture phrases. The
// index complements vector similarity inside the hybrid search engine and
// is rebuilt from stored chunks on startup.
package keyword
