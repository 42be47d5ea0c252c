package retrieval

import "github.com/patter-ai/patter/core"

// excerptLimit bounds citation excerpts, in runes.
const excerptLimit = 200

// Citation is the user-facing reference for one retrieved passage.
type Citation struct {
	DocumentId core.ID `json:"documentId"`
	ChunkId    core.ID `json:"chunkId"`
	Similarity float64 `json:"similarity"`
	Excerpt    string  `json:"excerpt"`
}

// ToCitations converts results into citations. Total over its input:
// nil chunks are skipped, never an error.
func ToCitations(results []*Result) []Citation {
	citations := make([]Citation, 0, len(results))
	for _, result := range results {
		if result == nil || result.Chunk == nil {
			continue
		}
		citations = append(citations, Citation{
			DocumentId: result.Chunk.DocumentId,
			ChunkId:    result.Chunk.Id,
			Similarity: result.Score,
			Excerpt:    excerpt(result.Chunk.Content),
		})
	}
	return citations
}

// excerpt truncates content to the excerpt limit on a rune boundary.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLimit {
		return content
	}
	return string(runes[:excerptLimit])
}
