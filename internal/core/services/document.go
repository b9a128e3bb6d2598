package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdocs/internal/chunker"
	"github.com/custodia-labs/askdocs/internal/core/domain"
	"github.com/custodia-labs/askdocs/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService owns the document lifecycle: extraction, storage,
// chunking, embedding and deletion.
type DocumentService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
	embedder    driven.EmbeddingService
	splitter    *chunker.Chunker
	extractors  map[string]driven.Extractor
}

// NewDocumentService creates a new document service. The embedder and
// vectorIndex are optional; without them documents are processed in
// chunk-only mode and retrieval is lexical.
func NewDocumentService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embedder driven.EmbeddingService,
	splitter *chunker.Chunker,
	extractors ...driven.Extractor,
) *DocumentService {
	byMIME := make(map[string]driven.Extractor)
	for _, ex := range extractors {
		for _, mime := range ex.SupportedMIMETypes() {
			byMIME[mime] = ex
		}
	}
	return &DocumentService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
		embedder:    embedder,
		splitter:    splitter,
		extractors:  byMIME,
	}
}

// Upload extracts text from the raw bytes, stores the document and
// processes it. The document is removed again if processing fails, so
// a failed upload leaves no half-indexed state behind.
func (s *DocumentService) Upload(ctx context.Context, filename, contentType string, data []byte, mode domain.ProcessMode) (string, error) {
	extractor, ok := s.extractors[normalizeMIME(contentType)]
	if !ok {
		return "", fmt.Errorf("content type %q: %w", contentType, domain.ErrUnsupportedType)
	}

	text, err := extractor.Extract(ctx, data)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filename, err)
	}

	id, err := s.Store(ctx, filename, text)
	if err != nil {
		return "", err
	}

	if err := s.Process(ctx, id, mode); err != nil {
		if delErr := s.Delete(ctx, id); delErr != nil {
			logger.Warn("rollback of document %s failed: %v", id, delErr)
		}
		return "", fmt.Errorf("process %s: %w", filename, err)
	}
	return id, nil
}

// Store saves a document from already-extracted text.
func (s *DocumentService) Store(ctx context.Context, filename, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", domain.ErrEmptyContent
	}
	if strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("filename: %w", domain.ErrInvalidInput)
	}

	doc := domain.Document{
		ID:         uuid.New().String(),
		Filename:   filename,
		Content:    content,
		UploadDate: time.Now(),
	}
	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}

	logger.Info("Stored document %s (%s, %d bytes)", doc.ID, filename, len(content))
	return doc.ID, nil
}

// Process chunks the document and, in embed mode, generates embeddings
// for every chunk. The chunk set is built fully before being swapped
// in, and the embedding call happens outside any store lock.
func (s *DocumentService) Process(ctx context.Context, documentID string, mode domain.ProcessMode) error {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get document %s: %w", documentID, err)
	}

	texts := s.splitter.Split(doc.Content)
	logger.Debug("Document %s split into %d chunks", documentID, len(texts))

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			DocumentID: documentID,
			Index:      i,
			Content:    text,
		}
	}

	if mode == domain.ProcessChunkEmbed && s.embedder != nil {
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			// Only reachable with a non-degrading embedder.
			return fmt.Errorf("embed chunks: %w", err)
		}
		for i := range chunks {
			if i < len(vectors) {
				chunks[i].Embedding = vectors[i]
			}
		}
	}

	if err := s.docStore.ReplaceChunks(ctx, documentID, chunks); err != nil {
		return fmt.Errorf("replace chunks: %w", err)
	}

	if s.vectorIndex != nil {
		if err := s.vectorIndex.Add(ctx, documentID, chunks); err != nil {
			return fmt.Errorf("index vectors: %w", err)
		}
	}

	logger.Info("Processed document %s: %d chunks", documentID, len(chunks))
	return nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// List returns all stored documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Delete removes the document from the store and the vector index.
// The delete is complete only once no index structure references the
// document's chunks.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	if s.vectorIndex != nil {
		if err := s.vectorIndex.Delete(ctx, documentID); err != nil {
			return fmt.Errorf("delete vectors for %s: %w", documentID, err)
		}
	}
	logger.Info("Deleted document %s", documentID)
	return nil
}

// normalizeMIME strips parameters like "; charset=utf-8".
func normalizeMIME(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
