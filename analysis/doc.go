// Package analysis provides the shared text analysis primitives used by the
// chunker, the embedding service and the keyword index: tokenization with
// stopword removal and stemming, word spans with byte offsets, and
// abbreviation-aware sentence segmentation.
//
// All components must tokenize identically, otherwise a stemmed term indexed
// by one component can never be matched by another. Keep every caller on
// this package.
package analysis
