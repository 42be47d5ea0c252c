// Copyright 2025 Patter AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/patter-ai/patter/ai"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/storage"
)

// Splitter cuts document text into retrieval-sized windows.
type Splitter interface {
	Split(text string) []string
}

// Retuner rebuilds an agent's vector index after its corpus changes.
type Retuner interface {
	Retune(ctx context.Context, agentID core.ID) error
}

// Pipeline turns uploaded documents into embedded, indexed chunks.
// Ingestion is fail-closed: a document whose chunks cannot be embedded
// or stored reports a hard error rather than landing partially.
type Pipeline struct {
	documents storage.DocumentRepository
	chunks    storage.ChunkRepository
	splitter  Splitter
	embedder  *batchEmbedder
	retuner   Retuner
	pool      *ants.Pool
	progress  io.Writer
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for background ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithRetuner wires the vector index retune step that runs after each
// successful ingest.
func WithRetuner(retuner Retuner) Option {
	return func(p *Pipeline) error {
		p.retuner = retuner
		return nil
	}
}

// WithProgress sets a writer that receives reindex progress lines.
// Default is no progress output.
func WithProgress(writer io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = writer
		return nil
	}
}

// WithBatchSize sets the embedding batch size.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		p.embedder.batchSize = size
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	splitter Splitter,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "ingestion")
	p := &Pipeline{
		documents: documents,
		chunks:    chunks,
		splitter:  splitter,
		embedder:  newBatchEmbedder(embedder, defaultBatchSize, logger),
		pool:      pool,
		logger:    logger,
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release shuts down the worker pool. In-flight tasks finish first.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// IngestText stores a document and ingests it in one call.
func (p *Pipeline) IngestText(ctx context.Context, agentID core.ID, title, sourceURI, text string) (*core.Document, error) {
	doc, err := p.documents.AddDocument(ctx, &core.Document{
		AgentId:   agentID,
		Title:     title,
		SourceURI: sourceURI,
		RawText:   text,
	})
	if err != nil {
		return nil, err
	}
	if err := p.IngestDocument(ctx, doc.Id); err != nil {
		return nil, err
	}
	return doc, nil
}

// IngestDocument chunks and embeds one document, then swaps its chunk
// set in a single transaction and retunes the agent's vector index.
func (p *Pipeline) IngestDocument(ctx context.Context, documentID core.ID) error {
	doc, err := p.documents.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	windows := p.splitter.Split(doc.RawText)
	p.logger.Info("ingesting document",
		"documentId", doc.Id, "agentId", doc.AgentId, "windows", len(windows))

	embeddings, err := p.embedder.embedAll(ctx, windows)
	if err != nil {
		return fmt.Errorf("embedding document %s: %w", doc.Id, err)
	}

	chunks := make([]*core.Chunk, len(windows))
	for i, window := range windows {
		chunks[i] = &core.Chunk{
			// Content-derived so re-ingesting identical content yields
			// identical chunk ids.
			Id:            core.IDFromContent(fmt.Sprintf("%s:%d:%s", doc.Id, i, window)),
			DocumentId:    doc.Id,
			AgentId:       doc.AgentId,
			Content:       window,
			PositionIndex: i,
			Embedding:     embeddings[i],
		}
	}

	if _, err := p.chunks.ReplaceDocumentChunks(ctx, doc.Id, chunks); err != nil {
		return fmt.Errorf("replacing chunks for document %s: %w", doc.Id, err)
	}

	if p.retuner != nil {
		if err := p.retuner.Retune(ctx, doc.AgentId); err != nil {
			// The chunk set already committed; a failed retune only
			// delays ANN freshness.
			p.logger.Warn("vector index retune failed", "agentId", doc.AgentId, "err", err)
		}
	}

	return nil
}

// IngestDocumentAsync schedules an ingest on the worker pool. Errors are
// logged, not returned.
func (p *Pipeline) IngestDocumentAsync(documentID core.ID) error {
	return p.pool.Submit(func() {
		if err := p.IngestDocument(context.Background(), documentID); err != nil {
			p.logger.Error("async ingest failed", "documentId", documentID, "err", err)
		}
	})
}

// ReindexAgent re-ingests every document of an agent, aborting on the
// first failing document.
func (p *Pipeline) ReindexAgent(ctx context.Context, agentID core.ID) error {
	docs, err := p.documents.GetDocumentsByAgent(ctx, agentID)
	if err != nil {
		return err
	}

	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, len(docs), 1)
		tracker.Start()
	}

	for _, doc := range docs {
		if err := p.IngestDocument(ctx, doc.Id); err != nil {
			return fmt.Errorf("reindex aborted at document %s: %w", doc.Id, err)
		}
		if tracker != nil {
			tracker.Increment(1)
		}
	}

	if tracker != nil {
		tracker.Finish()
	}
	p.logger.Info("agent reindexed", "agentId", agentID, "documents", len(docs))
	return nil
}
