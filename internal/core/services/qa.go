package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdocs/internal/core/domain"
	"github.com/custodia-labs/askdocs/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs/internal/lexical"
	"github.com/custodia-labs/askdocs/internal/logger"
)

var _ driving.QAService = (*QAService)(nil)

const (
	defaultMaxResults = 5

	// Completions shorter than this are treated as a failed synthesis
	// and trigger the extractive fallback.
	minAnswerLen = 10

	// unavailableMarker flags completions where the provider answered
	// with a service error dressed as text.
	unavailableMarker = "service unavailable"

	synthesisMaxTokens   = 500
	synthesisTemperature = 0.3

	systemPrompt = "You are a precise assistant that answers questions using only the provided documents."

	noDocumentsAnswer = "No documents have been uploaded yet. Upload a document first, then ask again."
	noMatchAnswer     = "No relevant information found in the uploaded documents."
)

// QAService answers questions over stored documents. Retrieval prefers
// the vector index and falls back to lexical matching; synthesis
// prefers the LLM and falls back to extractive concatenation. Every
// failure degrades the answer instead of erroring out.
type QAService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	matcher     *lexical.Matcher
}

// NewQAService creates a QA service. vectorIndex, embedder and llm are
// all optional; each missing piece removes one stage of the pipeline
// and the degraded path takes over.
func NewQAService(
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
) *QAService {
	return &QAService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
		embedder:    embedder,
		llm:         llm,
		matcher:     lexical.New(),
	}
}

// Ask runs the full question-answering pipeline. It returns an error
// only for invalid input; provider failures surface as a degraded
// answer with reduced confidence.
func (s *QAService) Ask(ctx context.Context, query string, maxResults int) (domain.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Answer{}, fmt.Errorf("query: %w", domain.ErrInvalidInput)
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	logger.Section("Question: " + query)

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return domain.Answer{Text: noDocumentsAnswer, Confidence: 0}, nil
	}

	// Retrieval: vector first, lexical as fallback.
	chunks, maxScore, fromVector := s.retrieve(ctx, query, maxResults, docs)
	if len(chunks) == 0 {
		return domain.Answer{Text: noMatchAnswer, Confidence: 0}, nil
	}

	answer, err := s.Synthesize(ctx, query, chunks)
	if err != nil {
		return domain.Answer{}, err
	}

	// Confidence comes from retrieval, never from the model. The
	// lexical score only earns its synthesis bonus when synthesis
	// actually happened.
	switch {
	case fromVector:
		answer.Confidence = 1.0
	case answer.Degraded:
		answer.Confidence = maxScore
	default:
		answer.Confidence = maxScore + 0.3
		if answer.Confidence > 1.0 {
			answer.Confidence = 1.0
		}
	}
	return answer, nil
}

// retrieve selects the best chunks for the query, reporting the top
// lexical match score and whether the vector path produced the result.
func (s *QAService) retrieve(ctx context.Context, query string, maxResults int, docs []domain.Document) ([]domain.Chunk, float64, bool) {
	if s.embedder != nil && s.vectorIndex != nil {
		vector, err := s.embedder.Embed(ctx, query)
		if err == nil && !isZero(vector) {
			chunks, err := s.SearchByVector(ctx, vector, maxResults)
			switch {
			case err == nil && len(chunks) > 0:
				logger.Debug("Vector search returned %d chunks", len(chunks))
				return chunks, 0, true
			case err == nil:
				logger.Debug("Vector search found nothing, trying lexical match")
			default:
				logger.Warn("vector search failed: %v", err)
			}
		} else if err != nil {
			logger.Warn("query embedding failed: %v", err)
		}
	}

	matches := s.matcher.Match(docs, query, maxResults)
	logger.Debug("Lexical match returned %d documents", len(matches))
	if len(matches) == 0 {
		return nil, 0, false
	}

	maxScore := matches[0].Score
	for _, m := range matches {
		if m.Score > maxScore {
			maxScore = m.Score
		}
	}

	var chunks []domain.Chunk
	for _, m := range matches {
		for i, text := range m.Chunks {
			chunks = append(chunks, domain.Chunk{
				DocumentID: m.Document.ID,
				Index:      m.ChunkIndexes[i],
				Content:    text,
			})
		}
	}
	return chunks, maxScore, false
}

// SearchByVector ranks stored chunks by cosine similarity.
func (s *QAService) SearchByVector(ctx context.Context, query []float32, maxResults int) ([]domain.Chunk, error) {
	if s.vectorIndex == nil {
		return nil, fmt.Errorf("vector index: %w", domain.ErrEmbeddingUnavailable)
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	hits, err := s.vectorIndex.Search(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	chunks := make([]domain.Chunk, len(hits))
	for i, hit := range hits {
		chunks[i] = hit.Chunk
	}
	return chunks, nil
}

// SearchByKeywords ranks documents with the lexical matcher.
func (s *QAService) SearchByKeywords(ctx context.Context, query string, maxResults int) ([]domain.Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query: %w", domain.ErrInvalidInput)
	}
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return s.matcher.Match(docs, query, maxResults), nil
}

// Synthesize produces an answer from retrieved chunks. When the LLM is
// missing, fails, or returns an implausibly short completion, the
// answer falls back to a deterministic concatenation of the chunks.
func (s *QAService) Synthesize(ctx context.Context, query string, chunks []domain.Chunk) (domain.Answer, error) {
	// No candidates means no provider call: the answer is fixed.
	if len(chunks) == 0 {
		return domain.Answer{Text: noMatchAnswer, Confidence: 0}, nil
	}

	sources := s.sourceLabels(ctx, chunks)

	if s.llm == nil {
		logger.Debug("synthesis degraded: %v", domain.ErrLLMUnavailable)
		return domain.Answer{
			Text:     s.extractiveAnswer(ctx, chunks),
			Sources:  sources,
			Degraded: true,
		}, nil
	}

	prompt := buildPrompt(ctx, s.docStore, query, chunks)
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		System:      systemPrompt,
		MaxTokens:   synthesisMaxTokens,
		Temperature: synthesisTemperature,
	})
	text = strings.TrimSpace(text)
	if err != nil || lowQuality(text) {
		if err != nil {
			logger.Warn("completion failed: %v", err)
		} else {
			logger.Warn("completion rejected (%d chars), using extractive answer", len(text))
		}
		return domain.Answer{
			Text:     s.extractiveAnswer(ctx, chunks),
			Sources:  sources,
			Degraded: true,
		}, nil
	}

	return domain.Answer{
		Text:    text,
		Sources: sources,
	}, nil
}

// lowQuality reports whether a completion should be discarded in favor
// of the extractive fallback.
func lowQuality(text string) bool {
	if len(text) < minAnswerLen {
		return true
	}
	return strings.Contains(strings.ToLower(text), unavailableMarker)
}

// extractiveAnswer builds the degraded answer: the retrieved chunks
// concatenated under their source filenames. Deterministic for a given
// chunk set.
func (s *QAService) extractiveAnswer(ctx context.Context, chunks []domain.Chunk) string {
	var b strings.Builder
	b.WriteString("Based on the available documents:\n\n")
	for _, chunk := range chunks {
		b.WriteString(fmt.Sprintf("From %s: %s\n\n", s.filename(ctx, chunk.DocumentID), chunk.Content))
	}
	return strings.TrimSpace(b.String())
}

// sourceLabels renders "filename (chunk n)" labels in chunk order,
// deduplicated. Documents deleted since retrieval are skipped.
func (s *QAService) sourceLabels(ctx context.Context, chunks []domain.Chunk) []string {
	var labels []string
	seen := make(map[string]struct{})
	for _, chunk := range chunks {
		doc, err := s.docStore.GetDocument(ctx, chunk.DocumentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			logger.Warn("source lookup for %s failed: %v", chunk.DocumentID, err)
			continue
		}
		label := fmt.Sprintf("%s (chunk %d)", doc.Filename, chunk.Index+1)
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

func (s *QAService) filename(ctx context.Context, documentID string) string {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return documentID
	}
	return doc.Filename
}

// buildPrompt assembles the completion prompt from the chunks and their
// source documents.
func buildPrompt(ctx context.Context, store driven.DocumentStore, query string, chunks []domain.Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		name := chunk.DocumentID
		if doc, err := store.GetDocument(ctx, chunk.DocumentID); err == nil {
			name = doc.Filename
		}
		parts = append(parts, fmt.Sprintf("Document: %s\nContent: %s\n", name, chunk.Content))
	}
	return fmt.Sprintf(
		"Using these documents, answer the user's question succinctly. If the documents do not contain the answer, say so.\n\n%s\n---\nQuestion: %s\nAnswer:",
		strings.Join(parts, "---\n"), query)
}

// isZero reports whether every component of the vector is zero, the
// signature of a degraded embedding.
func isZero(vector []float32) bool {
	for _, v := range vector {
		if v != 0 {
			return false
		}
	}
	return true
}
