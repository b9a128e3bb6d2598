package domain

// Query is the ephemeral input to an ask operation. It is never persisted.
type Query struct {
	// Text is the natural-language question.
	Text string

	// MaxResults caps the number of retrieved chunks or documents.
	MaxResults int
}

// Match is a ranked lexical search hit against a whole document.
type Match struct {
	// Document is the matched document.
	Document Document `json:"document"`

	// Score is the relevance score in [0, 1].
	Score float64 `json:"score"`

	// Chunks holds the matched chunk texts in document order.
	Chunks []string `json:"chunks,omitempty"`

	// ChunkIndexes holds the 0-based document positions of the
	// entries in Chunks, parallel to it.
	ChunkIndexes []int `json:"chunk_indexes,omitempty"`
}

// Answer is the terminal result of an ask operation.
// Every ask path produces exactly one Answer, even in total provider outage.
type Answer struct {
	// Text is the synthesized or fallback answer.
	Text string `json:"text"`

	// Sources lists the documents the answer draws from,
	// rendered as "<filename> (chunk <n>)" with 1-based chunk numbers.
	Sources []string `json:"sources,omitempty"`

	// Confidence is derived from retrieval scores, never from the
	// language model.
	Confidence float64 `json:"confidence"`

	// Degraded is true when the completion provider was unavailable
	// or rejected and the answer is deterministic concatenation.
	Degraded bool `json:"degraded,omitempty"`
}
