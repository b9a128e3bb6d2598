package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs/internal/core/domain"
)

func doc(id, filename, content string) domain.Document {
	return domain.Document{ID: id, Filename: filename, Content: content}
}

func TestMatch_ExactPhraseScoresOne(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "france.txt", "The capital of France is Paris."),
		doc("2", "spain.txt", "The capital of Spain is Madrid."),
	}

	matches := m.Match(docs, "capital of France", 5)

	require.NotEmpty(t, matches)
	assert.Equal(t, "1", matches[0].Document.ID)
	assert.Equal(t, 1.0, matches[0].Score)
}

func TestMatch_ExactPhraseRanksFirst(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "a.txt", "capital city planning and capital budgets"),
		doc("2", "b.txt", "the capital of France is Paris"),
	}

	matches := m.Match(docs, "capital of france", 5)

	require.Len(t, matches, 2)
	assert.Equal(t, "2", matches[0].Document.ID)
	assert.Equal(t, 1.0, matches[0].Score)
	assert.Less(t, matches[1].Score, 1.0)
}

func TestMatch_WeightedWordOverlap(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "a.txt", "The project deadline is Friday. The deadline matters."),
	}

	matches := m.Match(docs, "project deadline", 5)

	require.Len(t, matches, 1)
	// Both tokens found: 0.7 coverage. Occurrences: project x1 +
	// deadline x2 = 3, bonus 0.3. Total 1.0.
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestMatch_PartialOverlap(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "a.txt", "Deadlines are strict here."),
	}

	matches := m.Match(docs, "project deadline", 5)

	require.Len(t, matches, 1)
	// One of two tokens found once: 0.7*0.5 + 0.1 = 0.45.
	assert.InDelta(t, 0.45, matches[0].Score, 1e-9)
}

func TestMatch_OccurrenceBonusCapped(t *testing.T) {
	m := New()
	content := ""
	for i := 0; i < 50; i++ {
		content += "widget "
	}
	docs := []domain.Document{doc("1", "a.txt", content)}

	matches := m.Match(docs, "widget", 5)

	require.Len(t, matches, 1)
	// Full coverage plus the capped occurrence bonus.
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestMatch_SynonymExpansion(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "a.txt", "The product is called Zephyr."),
	}

	matches := m.Match(docs, "product name", 5)

	require.Len(t, matches, 1)
	// Both tokens covered, "name" via its synonym "called".
	assert.GreaterOrEqual(t, matches[0].Score, coverageWeight)
}

func TestMatch_QuestionFallback(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "a.txt", "Nothing related to the query at all."),
	}

	matches := m.Match(docs, "tell me about quasars", 5)

	require.Len(t, matches, 1)
	assert.Equal(t, scoreQuestion, matches[0].Score)
}

func TestMatch_NonQuestionNoOverlapEmpty(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "a.txt", "Completely unrelated content."),
	}

	matches := m.Match(docs, "zx qp", 5)

	assert.Empty(t, matches)
}

func TestMatch_FuzzySingleToken(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "a.txt", "We deploy code every friday."),
	}

	// "deployments" never appears verbatim, but the document word
	// "deploy" is contained in the query token.
	matches := m.Match(docs, "deployments", 5)

	require.Len(t, matches, 1)
	assert.Equal(t, scoreFuzzy, matches[0].Score)
}

func TestMatch_FuzzyRequiresLongToken(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "a.txt", "ab cd ef"),
	}

	// "abcd" is only four characters, below the fuzzy threshold.
	matches := m.Match(docs, "abcd", 5)

	assert.Empty(t, matches)
}

func TestMatch_QuestionKeepsAllDocuments(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "a.txt", "alpha"),
		doc("2", "b.txt", "beta"),
	}

	matches := m.Match(docs, "wha zzz", 5)
	assert.Empty(t, matches, "non-question gibberish returns nothing")

	// "zzzqqq" is found nowhere; the question fallback keeps every
	// document in play instead of returning "no data".
	matches = m.Match(docs, "what zzzqqq", 5)
	require.Len(t, matches, 2)
	for _, match := range matches {
		assert.Equal(t, scoreQuestion, match.Score)
	}
}

func TestMatch_TruncatesToMaxResults(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "a.txt", "shared keyword"),
		doc("2", "b.txt", "shared keyword"),
		doc("3", "c.txt", "shared keyword"),
	}

	matches := m.Match(docs, "keyword", 2)

	assert.Len(t, matches, 2)
}

func TestMatch_StableOrderOnTies(t *testing.T) {
	m := New()
	docs := []domain.Document{
		doc("1", "a.txt", "shared keyword"),
		doc("2", "b.txt", "shared keyword"),
	}

	matches := m.Match(docs, "keyword", 5)

	require.Len(t, matches, 2)
	assert.Equal(t, "1", matches[0].Document.ID)
	assert.Equal(t, "2", matches[1].Document.ID)
}

func TestMatch_EmptyQueryOrNoDocuments(t *testing.T) {
	m := New()

	assert.Nil(t, m.Match(nil, "anything", 5))
	assert.Nil(t, m.Match([]domain.Document{doc("1", "a.txt", "text")}, "   ", 5))
}

func TestMatch_ChunkSelection(t *testing.T) {
	m := New()
	d := doc("1", "a.txt", "Paris is in France. Berlin is in Germany.")
	d.Chunks = []string{"Paris is in France.", "Berlin is in Germany."}

	matches := m.Match([]domain.Document{d}, "paris", 5)

	require.Len(t, matches, 1)
	require.Len(t, matches[0].Chunks, 1)
	assert.Equal(t, "Paris is in France.", matches[0].Chunks[0])
}

func TestMatch_ChunkIndexesAreDocumentPositions(t *testing.T) {
	m := New()
	d := doc("1", "a.txt", "Intro. Filler. Paris is in France.")
	d.Chunks = []string{"Intro.", "Filler.", "Paris is in France."}

	matches := m.Match([]domain.Document{d}, "paris", 5)

	require.Len(t, matches, 1)
	require.Len(t, matches[0].Chunks, 1)
	assert.Equal(t, "Paris is in France.", matches[0].Chunks[0])
	assert.Equal(t, []int{2}, matches[0].ChunkIndexes)
}

func TestMatch_UnprocessedDocumentUsesContent(t *testing.T) {
	m := New()
	d := doc("1", "a.txt", "raw unchunked text about llamas")

	matches := m.Match([]domain.Document{d}, "llamas", 5)

	require.Len(t, matches, 1)
	require.Len(t, matches[0].Chunks, 1)
	assert.Equal(t, d.Content, matches[0].Chunks[0])
	assert.Equal(t, []int{0}, matches[0].ChunkIndexes)
}
