// Package chunker provides boundary-aware overlapping text chunking.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 50

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?;:\-()]`)
)

// Chunker splits normalized text into overlapping chunks, preferring
// sentence and word boundaries over hard cuts.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured chunk size in characters.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Normalize collapses consecutive whitespace to a single space and
// replaces characters outside the allow-list (word characters plus
// common punctuation) with spaces.
func Normalize(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Split normalizes the text and cuts it into overlapping chunks.
// Each cut prefers the last period within the chunk, then the last
// space, as long as the boundary lies past the chunk's midpoint;
// otherwise the chunk is cut at the full size. The result is
// deterministic and never contains an empty chunk.
func (c *Chunker) Split(text string) []string {
	text = Normalize(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + c.chunkSize
		if end < len(text) {
			// Prefer a sentence boundary, then a word boundary,
			// but only past the midpoint of the chunk.
			mid := start + c.chunkSize/2
			if dot := strings.LastIndexByte(text[start:end], '.'); dot >= 0 && start+dot > mid {
				end = start + dot + 1
			} else if space := strings.LastIndexByte(text[start:end], ' '); space >= 0 && start+space > mid {
				end = start + space
			}
		}

		sliceEnd := end
		if sliceEnd > len(text) {
			sliceEnd = len(text)
		}
		if chunk := strings.TrimSpace(text[start:sliceEnd]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		// Step back by the overlap, but never regress to or before the
		// current start; guarantees termination on pathological input.
		prev := start
		start = end - c.overlap
		if start <= prev {
			start = end
		}
	}

	return chunks
}
