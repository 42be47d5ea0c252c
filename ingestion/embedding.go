package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patter-ai/patter/ai"
)

const (
	// defaultBatchSize bounds how many texts one embedding call carries.
	defaultBatchSize = 64

	// defaultMaxRetries bounds attempts per batch.
	defaultMaxRetries = 3

	// defaultBaseBackoff is the first retry delay; it doubles per retry.
	defaultBaseBackoff = 500 * time.Millisecond
)

// batchEmbedder embeds text collections in bounded batches, retrying
// each batch independently. One exhausted batch fails the whole call.
type batchEmbedder struct {
	embedder    ai.Embedder
	batchSize   int
	maxRetries  int
	baseBackoff time.Duration
	logger      *slog.Logger
}

func newBatchEmbedder(embedder ai.Embedder, batchSize int, logger *slog.Logger) *batchEmbedder {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &batchEmbedder{
		embedder:    embedder,
		batchSize:   batchSize,
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
		logger:      logger.With("component", "batch-embedder"),
	}
}

// embedAll returns one vector per input text, in input order.
func (b *batchEmbedder) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		var embeddings [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			embeddings, embedErr = b.embedder.EmbedTexts(ctx, batch)
			return embedErr
		}, b.maxRetries, b.baseBackoff)
		if err != nil {
			b.logger.Error("embedding batch exhausted retries",
				"batchStart", start, "batchSize", len(batch), "err", err)
			return nil, err
		}
		if len(embeddings) != len(batch) {
			return nil, fmt.Errorf("%w: expected %d, received %d",
				ErrEmbeddingMismatch, len(batch), len(embeddings))
		}

		vectors = append(vectors, embeddings...)
	}

	return vectors, nil
}
