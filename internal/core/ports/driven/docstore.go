package driven

import (
	"context"

	"github.com/custodia-labs/askdocs/internal/core/domain"
)

// DocumentStore owns the document and chunk collections.
// Held in process memory for the process lifetime.
type DocumentStore interface {
	// SaveDocument stores a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all stored documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ReplaceChunks atomically swaps in the full chunk set for a document.
	// Readers never observe a partially replaced set.
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a document in index order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// AllChunks returns every chunk from every document.
	AllChunks(ctx context.Context) ([]domain.Chunk, error)

	// DeleteDocument removes a document and all its chunks.
	// Returns domain.ErrNotFound for an unknown ID.
	DeleteDocument(ctx context.Context, id string) error
}
