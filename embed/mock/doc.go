// Package mock provides a test double for the embed.Embedder interface.
//
// MockEmbedder runs without any corpus or network dependency and produces
// deterministic vectors from a text hash, so tests get stable similarity
// orderings. Behavior can be overridden per test via the exported function
// fields, and CallCount supports interaction assertions.
package mock
