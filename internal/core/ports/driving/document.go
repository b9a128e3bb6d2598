package driving

import (
	"context"

	"github.com/custodia-labs/askdocs/internal/core/domain"
)

// DocumentService manages the document lifecycle.
type DocumentService interface {
	// Upload extracts text from raw bytes, stores the document and
	// processes it in the given mode. Returns the new document ID.
	Upload(ctx context.Context, filename, contentType string, data []byte, mode domain.ProcessMode) (string, error)

	// Store saves a document from already-extracted text without
	// processing it. Returns the new document ID.
	Store(ctx context.Context, filename, content string) (string, error)

	// Process chunks a stored document and, in embed mode, generates
	// embeddings for every chunk.
	Process(ctx context.Context, documentID string, mode domain.ProcessMode) error

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns all stored documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document and all its chunks from every index.
	Delete(ctx context.Context, documentID string) error
}
