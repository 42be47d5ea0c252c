package retrieval

import (
	"strings"
	"testing"

	"github.com/patter-ai/patter/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuseRankingsScoreFormula(t *testing.T) {
	hits := fuseRankings([]core.ID{"a", "b"})

	require.Len(t, hits, 2)
	assert.Equal(t, core.ID("a"), hits[0].id)
	assert.InDelta(t, 1.0/61.0, hits[0].score, 1e-12)
	assert.InDelta(t, 1.0/62.0, hits[1].score, 1e-12)
}

func TestFuseRankingsSharedIdsAccumulate(t *testing.T) {
	vector := []core.ID{"a", "b", "c"}
	text := []core.ID{"b", "a"}
	trigram := []core.ID{"c", "b"}

	hits := fuseRankings(vector, text, trigram)
	require.Len(t, hits, 3)

	// b appears at ranks 1, 0, 1 and outscores a (ranks 0, 1).
	assert.Equal(t, core.ID("b"), hits[0].id)
	assert.InDelta(t, 1.0/62.0+1.0/61.0+1.0/62.0, hits[0].score, 1e-12)
}

func TestFuseRankingsDeterministic(t *testing.T) {
	lists := [][]core.ID{
		{"a", "b", "c", "d"},
		{"c", "d", "e"},
		{"e", "a"},
	}

	first := fuseRankings(lists...)
	for i := 0; i < 10; i++ {
		again := fuseRankings(lists...)
		require.Equal(t, first, again)
	}
}

func TestFuseRankingsTieBreaksOnFirstAppearance(t *testing.T) {
	// x and y receive identical scores; x appeared first.
	hits := fuseRankings([]core.ID{"x"}, []core.ID{"y"})

	require.Len(t, hits, 2)
	assert.Equal(t, core.ID("x"), hits[0].id)
	assert.Equal(t, core.ID("y"), hits[1].id)
}

func TestToCitationsExcerptTruncation(t *testing.T) {
	long := strings.Repeat("é", 500)
	results := []*Result{
		{Chunk: &core.Chunk{Id: "c1", DocumentId: "d1", Content: long}, Score: 0.9},
		{Chunk: &core.Chunk{Id: "c2", DocumentId: "d1", Content: "short"}, Score: 0.5},
	}

	citations := ToCitations(results)
	require.Len(t, citations, 2)

	assert.Len(t, []rune(citations[0].Excerpt), 200)
	assert.Equal(t, "short", citations[1].Excerpt)
	assert.Equal(t, core.ID("d1"), citations[0].DocumentId)
	assert.InDelta(t, 0.9, citations[0].Similarity, 1e-12)
}

func TestToCitationsTotal(t *testing.T) {
	citations := ToCitations([]*Result{nil, {Chunk: nil, Score: 1}, {}})
	assert.Empty(t, citations)

	assert.Empty(t, ToCitations(nil))
}

func TestSearchFullTextANDSemantics(t *testing.T) {
	chunks := []*core.Chunk{
		{Id: "both", Content: "The venue offers outdoor and indoor catering options."},
		{Id: "one", Content: "The venue has a lovely garden."},
		{Id: "none", Content: "Parking is available on weekends."},
	}

	ids := searchFullText(chunks, "venue catering", 10)
	assert.Equal(t, []core.ID{"both"}, ids)
}

func TestSearchFullTextRanksDenserMatchesFirst(t *testing.T) {
	chunks := []*core.Chunk{
		{Id: "sparse", Content: "catering " + strings.Repeat("filler words everywhere ", 40)},
		{Id: "dense", Content: "catering menu catering prices catering availability"},
	}

	ids := searchFullText(chunks, "catering", 10)
	require.Len(t, ids, 2)
	assert.Equal(t, core.ID("dense"), ids[0])
}

func TestSearchTrigramCatchesMisspelling(t *testing.T) {
	chunks := []*core.Chunk{
		{Id: "target", Content: "Our catering packages include beverages."},
		{Id: "other", Content: "Checkout policies and refunds."},
	}

	ids := searchTrigram(chunks, "caterring packges", 10)
	require.NotEmpty(t, ids)
	assert.Equal(t, core.ID("target"), ids[0])
}
