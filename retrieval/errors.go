package retrieval

import "errors"

var (
	// ErrChunkRepositoryRequired indicates a nil chunk repository was provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")

	// ErrEmbedderRequired indicates a nil embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmptyQuery indicates an empty search query.
	ErrEmptyQuery = errors.New("query must not be empty")
)
