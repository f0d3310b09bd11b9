// Package reindex re-embeds every indexed chunk with a configured embedder.
//
// The lexical embedder's vocabulary grows as documents are ingested, so
// vectors computed early drift away from vectors computed late; a reindex
// pass recomputes all of them against the settled vocabulary. The same pass
// migrates a corpus to a different embedder or dimensionality, since upserts
// replace entries wholesale.
//
// Entries stream out of the vector store in batches, are re-embedded with
// retry and backoff, normalized, and written back. Progress goes to a
// caller-supplied writer, typically os.Stderr.
package reindex
