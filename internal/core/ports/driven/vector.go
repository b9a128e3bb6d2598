package driven

import (
	"context"

	"github.com/custodia-labs/askdocs/internal/core/domain"
)

// VectorIndex provides similarity search over chunk embeddings.
// Brute-force cosine scan is sufficient at this scale; an ANN index may
// be substituted as long as cosine ranking semantics are preserved.
type VectorIndex interface {
	// Add replaces all vectors for the given document with the
	// provided chunks. Chunks without embeddings are ignored.
	Add(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// Delete removes every vector belonging to the document.
	Delete(ctx context.Context, documentID string) error

	// Search finds the k most similar chunks to the query vector,
	// ranked by descending cosine similarity, stable on insertion order.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score.
	Similarity float64
}
