package domain

import "time"

// Document represents an uploaded document held in memory.
// It is the canonical representation after text extraction.
type Document struct {
	// ID is the unique identifier for the document.
	ID string `json:"id"`

	// Filename is the name the document was uploaded under.
	Filename string `json:"filename"`

	// Content is the full extracted text.
	Content string `json:"content"`

	// Chunks holds the chunk texts in document order.
	// Populated by processing; replaced wholesale on re-processing.
	Chunks []string `json:"chunks,omitempty"`

	// UploadDate is when the document was stored.
	UploadDate time.Time `json:"upload_date"`
}

// Chunk represents a searchable unit within a document.
// Chunks are immutable once created; re-processing a document
// replaces its entire chunk set.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string `json:"document_id"`

	// Index is the 0-based position within the document.
	Index int `json:"index"`

	// Content is the text content of this chunk.
	Content string `json:"content"`

	// Embedding is the vector representation for semantic search.
	// Nil when the document was processed in chunk-only mode.
	Embedding []float32 `json:"-"`
}

// HasEmbedding reports whether the chunk carries a usable embedding.
func (c Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// ProcessMode selects how a document is processed.
type ProcessMode int

const (
	// ProcessChunkEmbed chunks the document and embeds every chunk.
	ProcessChunkEmbed ProcessMode = iota

	// ProcessChunkOnly chunks the document without generating embeddings.
	// Retrieval falls back to lexical matching for such documents.
	ProcessChunkOnly
)
