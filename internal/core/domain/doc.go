// Package domain defines the core business entities for askdocs.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded document and its full text
//   - Chunk: A searchable unit within a document
//   - Query: An ephemeral question
//   - Match: A ranked lexical hit
//   - Answer: The terminal result of an ask operation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
