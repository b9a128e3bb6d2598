// Package memory provides a brute-force in-memory vector index.
// A full cosine scan is the intended algorithm at this scale; an ANN
// structure could replace it without changing ranking semantics.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/askdocs/internal/core/domain"
	"github.com/custodia-labs/askdocs/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry pins a chunk vector to its insertion position for stable ties.
type entry struct {
	chunk domain.Chunk
	seq   int
}

// Index holds chunk vectors grouped by document.
type Index struct {
	mu      sync.RWMutex
	byDoc   map[string][]entry
	nextSeq int
}

// NewIndex creates an empty vector index.
func NewIndex() *Index {
	return &Index{byDoc: make(map[string][]entry)}
}

// Add replaces all vectors for the document with the embedded chunks.
// Chunks without embeddings are skipped.
func (idx *Index) Add(_ context.Context, documentID string, chunks []domain.Chunk) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	entries := make([]entry, 0, len(chunks))
	for _, chunk := range chunks {
		if !chunk.HasEmbedding() {
			continue
		}
		entries = append(entries, entry{chunk: chunk, seq: idx.nextSeq})
		idx.nextSeq++
	}
	idx.byDoc[documentID] = entries
	return nil
}

// Delete removes every vector belonging to the document.
func (idx *Index) Delete(_ context.Context, documentID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.byDoc, documentID)
	return nil
}

// Search scans every stored vector and returns the k most similar
// chunks, descending by cosine similarity, stable on insertion order.
// Returns an empty result when nothing in the index has an embedding.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	type scored struct {
		entry
		sim float64
	}

	var all []scored
	for _, entries := range idx.byDoc {
		for _, e := range entries {
			all = append(all, scored{entry: e, sim: Cosine(query, e.chunk.Embedding)})
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].sim != all[j].sim {
			return all[i].sim > all[j].sim
		}
		return all[i].seq < all[j].seq
	})

	if k < 0 {
		k = 0
	}
	if k > len(all) {
		k = len(all)
	}
	hits := make([]driven.VectorHit, 0, k)
	for _, s := range all[:k] {
		hits = append(hits, driven.VectorHit{Chunk: s.chunk, Similarity: s.sim})
	}
	return hits, nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// Cosine returns the cosine similarity of two vectors.
// Defined as 0 when either vector has zero magnitude.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		magA += float64(v) * float64(v)
	}
	for _, v := range b {
		magB += float64(v) * float64(v)
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
