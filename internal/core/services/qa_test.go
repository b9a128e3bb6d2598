package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs/internal/adapters/driven/storage/memory"
	vectormem "github.com/custodia-labs/askdocs/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/askdocs/internal/core/domain"
	"github.com/custodia-labs/askdocs/internal/core/ports/driven"
)

type mockLLM struct {
	response string
	err      error
	prompt   string
	opts     driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompt = prompt
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func addDoc(t *testing.T, store *memory.DocumentStore, id, filename, content string) {
	t.Helper()
	err := store.SaveDocument(context.Background(), &domain.Document{
		ID:       id,
		Filename: filename,
		Content:  content,
	})
	require.NoError(t, err)
}

func TestAsk_EmptyQuery(t *testing.T) {
	svc := NewQAService(memory.NewDocumentStore(), nil, nil, nil)

	_, err := svc.Ask(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_NoDocuments(t *testing.T) {
	svc := NewQAService(memory.NewDocumentStore(), nil, nil, nil)

	answer, err := svc.Ask(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Equal(t, noDocumentsAnswer, answer.Text)
	assert.Zero(t, answer.Confidence)
	assert.Empty(t, answer.Sources)
}

func TestAsk_ExactPhraseMatch(t *testing.T) {
	store := memory.NewDocumentStore()
	addDoc(t, store, "doc1", "doc1.txt", "The capital of France is Paris.")
	llm := &mockLLM{response: "Paris is the capital of France."}
	svc := NewQAService(store, nil, nil, llm)

	answer, err := svc.Ask(context.Background(), "capital of France", 5)
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", answer.Text)
	assert.InDelta(t, 1.0, answer.Confidence, 1e-9)
	assert.False(t, answer.Degraded)
	require.NotEmpty(t, answer.Sources)
	assert.Contains(t, answer.Sources[0], "doc1.txt")
}

func TestAsk_CompletionFailureFallsBack(t *testing.T) {
	store := memory.NewDocumentStore()
	addDoc(t, store, "doc1", "notes.txt", "Alpha beta gamma delta epsilon.")
	llm := &mockLLM{err: errors.New("provider down")}
	svc := NewQAService(store, nil, nil, llm)

	answer, err := svc.Ask(context.Background(), "alpha gamma", 5)
	require.NoError(t, err, "a provider failure must never surface as an error")
	assert.True(t, answer.Degraded)
	assert.True(t, strings.HasPrefix(answer.Text, "Based on the available documents:"))
	assert.Contains(t, answer.Text, "From notes.txt:")
	// Raw overlap score: full coverage (0.7) plus two occurrences (0.2).
	assert.InDelta(t, 0.9, answer.Confidence, 1e-9)
}

func TestAsk_ShortCompletionDegrades(t *testing.T) {
	store := memory.NewDocumentStore()
	addDoc(t, store, "doc1", "notes.txt", "The capital of France is Paris.")
	llm := &mockLLM{response: "ok"}
	svc := NewQAService(store, nil, nil, llm)

	answer, err := svc.Ask(context.Background(), "capital of France", 5)
	require.NoError(t, err)
	assert.True(t, answer.Degraded)
	assert.Contains(t, answer.Text, "From notes.txt:")
	// Degraded synthesis keeps the raw exact-phrase score.
	assert.InDelta(t, 1.0, answer.Confidence, 1e-9)
}

func TestAsk_UnavailableMarkerDegrades(t *testing.T) {
	store := memory.NewDocumentStore()
	addDoc(t, store, "doc1", "notes.txt", "The capital of France is Paris.")
	llm := &mockLLM{response: "The AI service unavailable right now, try later."}
	svc := NewQAService(store, nil, nil, llm)

	answer, err := svc.Ask(context.Background(), "capital of France", 5)
	require.NoError(t, err)
	assert.True(t, answer.Degraded)
	assert.Contains(t, answer.Text, "From notes.txt:")
}

func TestAsk_DeletedDocumentExcluded(t *testing.T) {
	store := memory.NewDocumentStore()
	addDoc(t, store, "doc1", "physics.txt", "Quantum entanglement links particle states.")
	addDoc(t, store, "doc2", "cooking.txt", "Recipes for fresh pasta and sauces.")
	llm := &mockLLM{response: "Nothing relevant found in the documents."}
	svc := NewQAService(store, nil, nil, llm)

	require.NoError(t, store.DeleteDocument(context.Background(), "doc1"))

	answer, err := svc.Ask(context.Background(), "quantum entanglement", 5)
	require.NoError(t, err)
	assert.Equal(t, noMatchAnswer, answer.Text)
	assert.Zero(t, answer.Confidence)
	assert.Empty(t, answer.Sources)
}

func TestAsk_NoMatch(t *testing.T) {
	store := memory.NewDocumentStore()
	addDoc(t, store, "doc1", "cooking.txt", "Recipes for fresh pasta and sauces.")
	svc := NewQAService(store, nil, nil, &mockLLM{response: "irrelevant"})

	answer, err := svc.Ask(context.Background(), "blockchain consensus", 5)
	require.NoError(t, err)
	assert.Equal(t, noMatchAnswer, answer.Text)
	assert.Zero(t, answer.Confidence)
}

func TestAsk_VectorPath(t *testing.T) {
	store := memory.NewDocumentStore()
	index := vectormem.NewIndex()
	addDoc(t, store, "doc1", "vec.txt", "Indexed content with an embedding.")
	chunks := []domain.Chunk{{
		DocumentID: "doc1",
		Index:      0,
		Content:    "Indexed content with an embedding.",
		Embedding:  []float32{1, 0},
	}}
	require.NoError(t, store.ReplaceChunks(context.Background(), "doc1", chunks))
	require.NoError(t, index.Add(context.Background(), "doc1", chunks))

	embedder := &mockEmbedder{vector: []float32{1, 0}}
	llm := &mockLLM{response: "The indexed content answers this."}
	svc := NewQAService(store, index, embedder, llm)

	answer, err := svc.Ask(context.Background(), "what is indexed", 5)
	require.NoError(t, err)
	assert.Equal(t, "The indexed content answers this.", answer.Text)
	assert.InDelta(t, 1.0, answer.Confidence, 1e-9)
	require.NotEmpty(t, answer.Sources)
	assert.Equal(t, "vec.txt (chunk 1)", answer.Sources[0])
}

func TestAsk_LexicalSourceKeepsDocumentChunkPosition(t *testing.T) {
	store := memory.NewDocumentStore()
	addDoc(t, store, "doc1", "manual.txt", "Intro. Filler text. The warranty period is two years.")
	chunks := []domain.Chunk{
		{DocumentID: "doc1", Index: 0, Content: "Intro."},
		{DocumentID: "doc1", Index: 1, Content: "Filler text."},
		{DocumentID: "doc1", Index: 2, Content: "The warranty period is two years."},
	}
	require.NoError(t, store.ReplaceChunks(context.Background(), "doc1", chunks))

	llm := &mockLLM{response: "The warranty lasts two years."}
	svc := NewQAService(store, nil, nil, llm)

	answer, err := svc.Ask(context.Background(), "warranty period", 5)
	require.NoError(t, err)
	require.NotEmpty(t, answer.Sources)
	// The label carries the chunk's position in the document, not its
	// position among the matched chunks.
	assert.Equal(t, "manual.txt (chunk 3)", answer.Sources[0])
}

func TestAsk_ZeroQueryVectorFallsToLexical(t *testing.T) {
	store := memory.NewDocumentStore()
	index := vectormem.NewIndex()
	addDoc(t, store, "doc1", "doc1.txt", "The capital of France is Paris.")

	// A degraded embedding gateway returns all-zero vectors.
	embedder := &mockEmbedder{vector: []float32{0, 0, 0}}
	llm := &mockLLM{response: "Paris, according to the document."}
	svc := NewQAService(store, index, embedder, llm)

	answer, err := svc.Ask(context.Background(), "capital of France", 5)
	require.NoError(t, err)
	assert.Equal(t, "Paris, according to the document.", answer.Text)
	assert.InDelta(t, 1.0, answer.Confidence, 1e-9)
}

func TestAsk_EmptyVectorIndexFallsToLexical(t *testing.T) {
	store := memory.NewDocumentStore()
	index := vectormem.NewIndex()
	addDoc(t, store, "doc1", "doc1.txt", "The capital of France is Paris.")

	embedder := &mockEmbedder{vector: []float32{1, 0}}
	llm := &mockLLM{response: "Paris, according to the document."}
	svc := NewQAService(store, index, embedder, llm)

	answer, err := svc.Ask(context.Background(), "capital of France", 5)
	require.NoError(t, err)
	assert.Equal(t, "Paris, according to the document.", answer.Text)
}

func TestSynthesize_PromptAndOptions(t *testing.T) {
	store := memory.NewDocumentStore()
	addDoc(t, store, "doc1", "notes.txt", "Chunked content.")
	llm := &mockLLM{response: "A sufficiently long answer."}
	svc := NewQAService(store, nil, nil, llm)

	chunks := []domain.Chunk{{DocumentID: "doc1", Index: 0, Content: "Chunked content."}}
	_, err := svc.Synthesize(context.Background(), "what is in the notes", chunks)
	require.NoError(t, err)

	assert.Contains(t, llm.prompt, "Document: notes.txt")
	assert.Contains(t, llm.prompt, "Chunked content.")
	assert.Contains(t, llm.prompt, "Question: what is in the notes")
	assert.Equal(t, synthesisMaxTokens, llm.opts.MaxTokens)
	assert.InDelta(t, synthesisTemperature, llm.opts.Temperature, 1e-9)
	assert.NotEmpty(t, llm.opts.System)
}

func TestSynthesize_NoChunks(t *testing.T) {
	store := memory.NewDocumentStore()
	llm := &mockLLM{response: "an answer invented without any context"}
	svc := NewQAService(store, nil, nil, llm)

	answer, err := svc.Synthesize(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Equal(t, noMatchAnswer, answer.Text)
	assert.Zero(t, answer.Confidence)
	assert.Empty(t, answer.Sources)
	assert.Empty(t, llm.prompt, "the completion provider must not be called without candidates")
}

func TestSynthesize_NoLLM(t *testing.T) {
	store := memory.NewDocumentStore()
	addDoc(t, store, "doc1", "notes.txt", "Plain content.")
	svc := NewQAService(store, nil, nil, nil)

	chunks := []domain.Chunk{{DocumentID: "doc1", Index: 0, Content: "Plain content."}}
	answer, err := svc.Synthesize(context.Background(), "question", chunks)
	require.NoError(t, err)
	assert.True(t, answer.Degraded)
	assert.Contains(t, answer.Text, "From notes.txt: Plain content.")
}

func TestSynthesize_SkipsVanishedSources(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewQAService(store, nil, nil, nil)

	chunks := []domain.Chunk{{DocumentID: "ghost", Index: 0, Content: "Orphaned chunk."}}
	answer, err := svc.Synthesize(context.Background(), "question", chunks)
	require.NoError(t, err)
	assert.Empty(t, answer.Sources)
}

func TestSearchByVector_NoIndex(t *testing.T) {
	svc := NewQAService(memory.NewDocumentStore(), nil, nil, nil)

	_, err := svc.SearchByVector(context.Background(), []float32{1, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestSearchByKeywords(t *testing.T) {
	store := memory.NewDocumentStore()
	addDoc(t, store, "doc1", "doc1.txt", "The capital of France is Paris.")
	svc := NewQAService(store, nil, nil, nil)

	matches, err := svc.SearchByKeywords(context.Background(), "capital of France", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestSearchByKeywords_EmptyQuery(t *testing.T) {
	svc := NewQAService(memory.NewDocumentStore(), nil, nil, nil)

	_, err := svc.SearchByKeywords(context.Background(), "", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
