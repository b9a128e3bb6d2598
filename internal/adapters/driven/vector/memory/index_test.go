package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs/internal/core/domain"
)

func chunk(docID string, index int, embedding []float32) domain.Chunk {
	return domain.Chunk{
		DocumentID: docID,
		Index:      index,
		Content:    "chunk",
		Embedding:  embedding,
	}
}

func TestCosine(t *testing.T) {
	a := []float32{1, 0, 1}
	b := []float32{0, 1, 1}

	assert.InDelta(t, Cosine(a, b), Cosine(b, a), 1e-12, "cosine must be symmetric")
	assert.InDelta(t, 1.0, Cosine(a, a), 1e-9, "self similarity is 1 for nonzero vectors")
	assert.Zero(t, Cosine([]float32{0, 0, 0}, a), "zero magnitude yields 0, not NaN")
	assert.Zero(t, Cosine(a, []float32{0, 0, 0}))
}

func TestCosine_Orthogonal(t *testing.T) {
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-12)
}

func TestIndex_SearchRanking(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "doc-1", []domain.Chunk{
		chunk("doc-1", 0, []float32{1, 0}),
		chunk("doc-1", 1, []float32{0, 1}),
		chunk("doc-1", 2, []float32{0.9, 0.1}),
	}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 0, hits[0].Chunk.Index)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-9)
	assert.Equal(t, 2, hits[1].Chunk.Index)
	assert.Equal(t, 1, hits[2].Chunk.Index)
}

func TestIndex_SearchRespectsLimit(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "doc-1", []domain.Chunk{
		chunk("doc-1", 0, []float32{1, 0}),
		chunk("doc-1", 1, []float32{1, 0}),
		chunk("doc-1", 2, []float32{1, 0}),
	}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestIndex_SearchStableOnTies(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "doc-1", []domain.Chunk{
		chunk("doc-1", 0, []float32{1, 0}),
		chunk("doc-1", 1, []float32{1, 0}),
	}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].Chunk.Index, "ties break by insertion order")
	assert.Equal(t, 1, hits[1].Chunk.Index)
}

func TestIndex_SkipsChunksWithoutEmbeddings(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "doc-1", []domain.Chunk{
		chunk("doc-1", 0, nil),
		chunk("doc-1", 1, []float32{1, 0}),
	}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Chunk.Index)
}

func TestIndex_EmptyWhenNoEmbeddings(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "doc-1", []domain.Chunk{chunk("doc-1", 0, nil)}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_AddReplacesDocumentVectors(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "doc-1", []domain.Chunk{
		chunk("doc-1", 0, []float32{1, 0}),
		chunk("doc-1", 1, []float32{1, 0}),
	}))
	require.NoError(t, idx.Add(ctx, "doc-1", []domain.Chunk{
		chunk("doc-1", 0, []float32{0, 1}),
	}))

	hits, err := idx.Search(ctx, []float32{0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Chunk.Index)
}

func TestIndex_DeleteRemovesDocument(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "doc-1", []domain.Chunk{chunk("doc-1", 0, []float32{1, 0})}))
	require.NoError(t, idx.Add(ctx, "doc-2", []domain.Chunk{chunk("doc-2", 0, []float32{1, 0})}))
	require.NoError(t, idx.Delete(ctx, "doc-1"))

	hits, err := idx.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-2", hits[0].Chunk.DocumentID)
}
