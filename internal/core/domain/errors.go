package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input,
	// such as an empty query.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown content type at upload.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrEmptyContent indicates extraction produced no text.
	ErrEmptyContent = errors.New("no text content could be extracted")

	// ErrLLMUnavailable indicates the completion service is not configured.
	// Answers degrade to deterministic concatenation without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval degrades to lexical matching without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
