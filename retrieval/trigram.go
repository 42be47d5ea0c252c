package retrieval

import (
	"sort"
	"strings"

	"github.com/patter-ai/patter/core"
)

// trigramSet extracts the set of letter trigrams from text, lowercased,
// with word boundaries padded the way pg_trgm does.
func trigramSet(text string) map[string]bool {
	grams := make(map[string]bool)
	for _, word := range tokenizeAndFilter(text) {
		padded := "  " + word + " "
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			grams[string(runes[i:i+3])] = true
		}
	}
	return grams
}

// trigramSimilarity computes Jaccard similarity between the trigram sets
// of two texts. Returns 0 when either set is empty.
func trigramSimilarity(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	var shared int
	for gram := range small {
		if large[gram] {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

// trigramMinSimilarity filters out chunks with near-zero lexical overlap.
const trigramMinSimilarity = 0.05

// searchTrigram ranks chunks by trigram similarity to the query, best
// first. Catches misspellings and partial matches the full-text leg's
// exact AND semantics would miss.
func searchTrigram(chunks []*core.Chunk, query string, limit int) []core.ID {
	queryGrams := trigramSet(strings.TrimSpace(query))
	if len(queryGrams) == 0 {
		return nil
	}

	type scored struct {
		id    core.ID
		score float64
	}
	var hits []scored
	for _, chunk := range chunks {
		score := trigramSimilarity(queryGrams, trigramSet(chunk.Content))
		if score >= trigramMinSimilarity {
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
