package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/patter-ai/patter/ai/mock"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sentenceSplitter is a test stand-in for the token chunker.
type sentenceSplitter struct{}

func (sentenceSplitter) Split(text string) []string {
	var windows []string
	for _, part := range strings.Split(text, ".") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			windows = append(windows, trimmed)
		}
	}
	return windows
}

type recordingRetuner struct {
	agentIDs []core.ID
	err      error
}

func (r *recordingRetuner) Retune(ctx context.Context, agentID core.ID) error {
	r.agentIDs = append(r.agentIDs, agentID)
	return r.err
}

func setupPipeline(t *testing.T, opts ...Option) (*Pipeline, *badger.MemoryRepositories) {
	t.Helper()

	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	pipeline, err := NewPipeline(repos.Documents, repos.Chunks, sentenceSplitter{}, mock.NewMockEmbedder(), opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, repos
}

func addAgentAndDocument(t *testing.T, repos *badger.MemoryRepositories, text string) (*core.Agent, *core.Document) {
	t.Helper()
	ctx := context.Background()

	agent, err := repos.Agents.AddAgent(ctx, &core.Agent{Name: "Concierge", Status: core.AgentStatusActive})
	require.NoError(t, err)

	doc, err := repos.Documents.AddDocument(ctx, &core.Document{
		AgentId: agent.Id,
		Title:   "faq",
		RawText: text,
	})
	require.NoError(t, err)
	return agent, doc
}

func TestNewPipelineValidation(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	_, err = NewPipeline(nil, repos.Chunks, sentenceSplitter{}, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	_, err = NewPipeline(repos.Documents, nil, sentenceSplitter{}, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = NewPipeline(repos.Documents, repos.Chunks, nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrSplitterRequired)

	_, err = NewPipeline(repos.Documents, repos.Chunks, sentenceSplitter{}, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIngestDocumentStoresEmbeddedChunks(t *testing.T) {
	pipeline, repos := setupPipeline(t)
	ctx := context.Background()

	_, doc := addAgentAndDocument(t, repos, "Catering starts at fifty dollars. The terrace seats two hundred. Parking is free.")

	require.NoError(t, pipeline.IngestDocument(ctx, doc.Id))

	chunks, err := repos.Chunks.GetChunksByDocument(ctx, doc.Id)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.PositionIndex)
		assert.NotEmpty(t, chunk.Embedding)
		assert.Equal(t, doc.AgentId, chunk.AgentId)
	}
	assert.Equal(t, "Catering starts at fifty dollars", chunks[0].Content)
}

func TestIngestDocumentDeterministicChunkIDs(t *testing.T) {
	pipeline, repos := setupPipeline(t)
	ctx := context.Background()

	_, doc := addAgentAndDocument(t, repos, "First sentence. Second sentence.")

	require.NoError(t, pipeline.IngestDocument(ctx, doc.Id))
	first, err := repos.Chunks.GetChunksByDocument(ctx, doc.Id)
	require.NoError(t, err)

	require.NoError(t, pipeline.IngestDocument(ctx, doc.Id))
	second, err := repos.Chunks.GetChunksByDocument(ctx, doc.Id)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Id, second[i].Id)
	}
}

func TestIngestDocumentRetunesIndex(t *testing.T) {
	retuner := &recordingRetuner{}
	pipeline, repos := setupPipeline(t, WithRetuner(retuner))
	ctx := context.Background()

	agent, doc := addAgentAndDocument(t, repos, "Only sentence.")

	require.NoError(t, pipeline.IngestDocument(ctx, doc.Id))
	require.Len(t, retuner.agentIDs, 1)
	assert.Equal(t, agent.Id, retuner.agentIDs[0])
}

func TestIngestDocumentRetuneFailureIsNotFatal(t *testing.T) {
	retuner := &recordingRetuner{err: errors.New("index rebuild failed")}
	pipeline, repos := setupPipeline(t, WithRetuner(retuner))

	_, doc := addAgentAndDocument(t, repos, "Only sentence.")
	assert.NoError(t, pipeline.IngestDocument(context.Background(), doc.Id))
}

func TestIngestDocumentFailsClosedOnEmbeddingError(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("provider unreachable")
	}

	pipeline, err := NewPipeline(repos.Documents, repos.Chunks, sentenceSplitter{}, embedder)
	require.NoError(t, err)
	defer pipeline.Release()
	pipeline.embedder.maxRetries = 1

	_, doc := addAgentAndDocument(t, repos, "Some text.")
	err = pipeline.IngestDocument(context.Background(), doc.Id)
	require.Error(t, err)

	// Nothing landed.
	chunks, err := repos.Chunks.GetChunksByDocument(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestReindexAgentAbortsOnFirstFailure(t *testing.T) {
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()
	ctx := context.Background()

	agent, err := repos.Agents.AddAgent(ctx, &core.Agent{Name: "Concierge", Status: core.AgentStatusActive})
	require.NoError(t, err)

	texts := []string{"Fine document.", "poison document.", "Never reached."}
	for _, text := range texts {
		_, err := repos.Documents.AddDocument(ctx, &core.Document{
			AgentId: agent.Id, Title: "doc", RawText: text,
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	embedder := mock.NewMockEmbedder()
	var embeddedBatches [][]string
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		for _, text := range texts {
			if strings.Contains(text, "poison") {
				return nil, errors.New("provider rejected input")
			}
		}
		embeddedBatches = append(embeddedBatches, texts)
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{1, 0}
		}
		return vectors, nil
	}

	pipeline, err := NewPipeline(repos.Documents, repos.Chunks, sentenceSplitter{}, embedder)
	require.NoError(t, err)
	defer pipeline.Release()
	pipeline.embedder.maxRetries = 1

	err = pipeline.ReindexAgent(ctx, agent.Id)
	require.Error(t, err)

	// The first document landed, the third was never attempted.
	require.Len(t, embeddedBatches, 1)
	assert.Equal(t, []string{"Fine document"}, embeddedBatches[0])
}

func TestIngestTextStoresDocumentAndChunks(t *testing.T) {
	pipeline, repos := setupPipeline(t)
	ctx := context.Background()

	agent, err := repos.Agents.AddAgent(ctx, &core.Agent{Name: "Concierge", Status: core.AgentStatusActive})
	require.NoError(t, err)

	doc, err := pipeline.IngestText(ctx, agent.Id, "pricing", "s3://docs/pricing.txt", "One. Two.")
	require.NoError(t, err)
	require.NotEmpty(t, doc.Id)

	chunks, err := repos.Chunks.GetChunksByDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestBatchEmbedderPartitionsInput(t *testing.T) {
	var batchSizes []int
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		batchSizes = append(batchSizes, len(texts))
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{float32(i)}
		}
		return vectors, nil
	}

	be := newBatchEmbedder(embedder, 2, nil)
	vectors, err := be.embedAll(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)

	assert.Len(t, vectors, 5)
	assert.Equal(t, []int{2, 2, 1}, batchSizes)
}

func TestBatchEmbedderMismatch(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	}

	be := newBatchEmbedder(embedder, 8, nil)
	_, err := be.embedAll(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrEmbeddingMismatch)
}

func TestRetryWithBackoffEventualSuccess(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, 3, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoffExhaustion(t *testing.T) {
	boom := errors.New("permanent")
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		return boom
	}, 2, time.Millisecond)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, attempts)
}

func TestRetryWithBackoffInvalidAttempts(t *testing.T) {
	err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return errors.New("never retried") }, 3, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
}
