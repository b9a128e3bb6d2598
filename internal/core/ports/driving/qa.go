package driving

import (
	"context"

	"github.com/custodia-labs/askdocs/internal/core/domain"
)

// QAService answers natural-language questions over stored documents.
type QAService interface {
	// Ask runs the full retrieval pipeline and always returns a
	// well-formed Answer, even in total provider outage.
	Ask(ctx context.Context, query string, maxResults int) (domain.Answer, error)

	// SearchByVector ranks chunks by cosine similarity to the query vector.
	SearchByVector(ctx context.Context, query []float32, maxResults int) ([]domain.Chunk, error)

	// SearchByKeywords ranks documents with the multi-strategy
	// lexical matcher.
	SearchByKeywords(ctx context.Context, query string, maxResults int) ([]domain.Match, error)

	// Synthesize produces an answer from retrieved chunks.
	Synthesize(ctx context.Context, query string, chunks []domain.Chunk) (domain.Answer, error)
}
