// Package lexical provides multi-strategy keyword matching over raw
// document content. It is the retrieval path when embeddings are
// unavailable and the fallback when vector search finds nothing.
package lexical

import (
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/askdocs/internal/core/domain"
)

// Strategy scores.
const (
	scoreExactPhrase  = 1.0
	scoreQuestion     = 0.4
	scoreFuzzy        = 0.3
	scoreNeutral      = 0.5
	coverageWeight    = 0.7
	occurrenceWeight  = 0.3
	occurrenceDivisor = 10.0
	minTokenLen       = 3
	minFuzzyTokenLen  = 5
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// synonyms expands query tokens to related words commonly used in
// documents. English-only; see the design notes on locale handling.
var synonyms = map[string][]string{
	"name":     {"called", "named", "title"},
	"author":   {"writer", "wrote", "written"},
	"date":     {"when", "time", "year", "day"},
	"location": {"place", "where", "address", "city"},
	"cost":     {"price", "amount", "value", "fee"},
	"work":     {"job", "employment", "occupation"},
}

// questionWords are interrogative cues. A query containing one of these
// is treated as an open-ended question that should never silently
// return nothing.
var questionWords = map[string]struct{}{
	"what":     {},
	"who":      {},
	"where":    {},
	"when":     {},
	"how":      {},
	"tell":     {},
	"describe": {},
}

// Matcher scores documents against a query using layered strategies:
// exact phrase, weighted word overlap with synonym expansion, a fixed
// question fallback, and fuzzy single-token containment.
type Matcher struct{}

// New creates a lexical matcher.
func New() *Matcher {
	return &Matcher{}
}

// Match ranks the documents against the query. Results are sorted by
// descending score, stable on document order, and truncated to
// maxResults. For a question query that matches nothing, every
// document is returned at a neutral score instead of an empty result.
func (m *Matcher) Match(documents []domain.Document, query string, maxResults int) []domain.Match {
	if maxResults <= 0 {
		maxResults = 5
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" || len(documents) == 0 {
		return nil
	}

	tokens := queryTokens(queryLower)
	isQuestion := containsQuestionWord(queryLower)

	var matches []domain.Match
	for i := range documents {
		doc := documents[i]
		score, covered := m.scoreDocument(&doc, queryLower, tokens, isQuestion)
		if score <= 0 {
			continue
		}
		texts, indexes := matchedChunks(&doc, queryLower, covered)
		matches = append(matches, domain.Match{
			Document:     doc,
			Score:        score,
			Chunks:       texts,
			ChunkIndexes: indexes,
		})
	}

	// A well-formed question never returns "no data" while documents
	// exist: fall back to every document at a neutral score.
	if len(matches) == 0 && isQuestion {
		for i := range documents {
			doc := documents[i]
			texts, indexes := matchedChunks(&doc, queryLower, nil)
			matches = append(matches, domain.Match{
				Document:     doc,
				Score:        scoreNeutral,
				Chunks:       texts,
				ChunkIndexes: indexes,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// scoreDocument evaluates all strategies for one document and returns
// the highest applicable score plus the set of query expansions found
// in the content (used for chunk selection).
func (m *Matcher) scoreDocument(doc *domain.Document, queryLower string, tokens []string, isQuestion bool) (float64, []string) {
	contentLower := strings.ToLower(doc.Content)

	best := 0.0
	var covered []string

	// Strategy 1: exact phrase.
	if strings.Contains(contentLower, queryLower) {
		best = scoreExactPhrase
	}

	// Strategy 2: weighted word overlap with synonym expansion.
	found := 0
	occurrences := 0
	for _, token := range tokens {
		tokenHit := false
		for _, candidate := range expand(token) {
			if n := strings.Count(contentLower, candidate); n > 0 {
				tokenHit = true
				occurrences += n
				covered = append(covered, candidate)
			}
		}
		if tokenHit {
			found++
		}
	}
	if found > 0 && len(tokens) > 0 {
		coverage := float64(found) / float64(len(tokens))
		occBonus := float64(occurrences) / occurrenceDivisor
		if occBonus > occurrenceWeight {
			occBonus = occurrenceWeight
		}
		if s := coverageWeight*coverage + occBonus; s > best {
			best = s
		}
	}

	// Strategy 3: question fallback. Open-ended questions keep every
	// document in play even when no token matched.
	if best == 0 && found == 0 && isQuestion {
		best = scoreQuestion
	}

	// Strategy 4: fuzzy single-token containment.
	if best == 0 && len(tokens) == 1 && len(tokens[0]) >= minFuzzyTokenLen {
		token := tokens[0]
		for _, word := range wordRe.FindAllString(contentLower, -1) {
			if strings.Contains(word, token) || strings.Contains(token, word) {
				best = scoreFuzzy
				covered = append(covered, word)
				break
			}
		}
	}

	return best, covered
}

// matchedChunks picks the document chunks containing the phrase or any
// covered expansion, in document order, together with their 0-based
// positions in the document. Falls back to all chunks, or to the raw
// content when the document was never processed.
func matchedChunks(doc *domain.Document, queryLower string, covered []string) ([]string, []int) {
	if len(doc.Chunks) == 0 {
		return []string{doc.Content}, []int{0}
	}

	var texts []string
	var indexes []int
	for i, chunk := range doc.Chunks {
		chunkLower := strings.ToLower(chunk)
		if strings.Contains(chunkLower, queryLower) {
			texts = append(texts, chunk)
			indexes = append(indexes, i)
			continue
		}
		for _, term := range covered {
			if strings.Contains(chunkLower, term) {
				texts = append(texts, chunk)
				indexes = append(indexes, i)
				break
			}
		}
	}
	if len(texts) == 0 {
		indexes = make([]int, len(doc.Chunks))
		for i := range indexes {
			indexes[i] = i
		}
		return doc.Chunks, indexes
	}
	return texts, indexes
}

// queryTokens extracts lowercased words longer than two characters.
func queryTokens(queryLower string) []string {
	var tokens []string
	for _, word := range wordRe.FindAllString(queryLower, -1) {
		if len(word) >= minTokenLen {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// expand returns the token and its synonyms, including reverse
// mappings so "called" also reaches "name".
func expand(token string) []string {
	out := []string{token}
	if alts, ok := synonyms[token]; ok {
		out = append(out, alts...)
	}
	for key, alts := range synonyms {
		for _, alt := range alts {
			if alt == token {
				out = append(out, key)
				break
			}
		}
	}
	return out
}

func containsQuestionWord(queryLower string) bool {
	for _, word := range wordRe.FindAllString(queryLower, -1) {
		if _, ok := questionWords[word]; ok {
			return true
		}
	}
	return false
}
