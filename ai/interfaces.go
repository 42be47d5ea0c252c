package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in
	// one call. The returned slice contains embeddings in the same order as
	// the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatModel produces a completion for a single consolidated prompt.
// Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	// Complete sends one prompt to the model and returns the raw reply
	// text. Returns ErrProviderUnavailable when the backing provider is
	// unreachable or misconfigured.
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

// RerankResult references a position in the caller's document list together
// with the cross-encoder's relevance score for it.
type RerankResult struct {
	Index int     `json:"index"`
	Score float64 `json:"relevance_score"`
}

// Reranker scores (query, document) pairs jointly for more accurate
// relevance ordering than first-pass retrieval. Callers are expected to
// fail open when a Reranker errors: retrieval must never fail because
// reranking failed.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topK int) ([]RerankResult, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// ChatModel returns the completion service, or nil when the provider
	// has no chat model configured.
	ChatModel() ChatModel

	// Close releases resources held by the provider and its services.
	Close() error
}
