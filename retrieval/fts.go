package retrieval

import (
	"sort"
	"strings"

	"github.com/patter-ai/patter/core"
)

// Stop words to filter out of full-text queries
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation,
// and removes stop words
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// ftsRank scores a chunk against query words: every query word must
// appear (AND semantics), the score weighs term frequency against
// document length, coarsely approximating cover-density ranking.
func ftsRank(content string, queryWords []string) (float64, bool) {
	if len(queryWords) == 0 {
		return 0, false
	}

	docWords := tokenizeAndFilter(content)
	if len(docWords) == 0 {
		return 0, false
	}

	counts := make(map[string]int, len(docWords))
	for _, word := range docWords {
		counts[word]++
	}

	var matched int
	for _, qWord := range queryWords {
		if counts[qWord] == 0 {
			return 0, false
		}
		matched += counts[qWord]
	}

	return float64(matched) / float64(len(docWords)), true
}

// searchFullText ranks chunks whose content contains every query word,
// best first.
func searchFullText(chunks []*core.Chunk, query string, limit int) []core.ID {
	queryWords := tokenizeAndFilter(query)
	if len(queryWords) == 0 {
		return nil
	}

	type scored struct {
		id    core.ID
		score float64
	}
	var hits []scored
	for _, chunk := range chunks {
		if score, ok := ftsRank(chunk.Content, queryWords); ok {
			hits = append(hits, scored{id: chunk.Id, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	ids := make([]core.ID, len(hits))
	for i, hit := range hits {
		ids[i] = hit.id
	}
	return ids
}
