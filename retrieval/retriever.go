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


package retrieval

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/patter-ai/patter/ai"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/storage"
)

// defaultLegDepth is how many candidates each retrieval leg contributes
// before fusion.
const defaultLegDepth = 200

// Result is one retrieved chunk with its relevance score. After fusion
// the score is the RRF sum; after a successful rerank it is the
// cross-encoder's relevance score.
type Result struct {
	Chunk *core.Chunk
	Score float64
}

// Retriever provides hybrid retrieval over an agent's chunks: vector,
// full-text, and trigram legs fused with reciprocal rank fusion, with an
// optional cross-encoder rerank on top.
type Retriever struct {
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	reranker ai.Reranker
	monitor  SearchMonitor
	logger   *slog.Logger
	legDepth int

	mu      sync.Mutex
	indexes map[core.ID]*VectorIndex
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithReranker sets a cross-encoder reranker. Reranking always fails
// open: a rerank error never fails a search.
func WithReranker(reranker ai.Reranker) Option {
	return func(r *Retriever) error {
		r.reranker = reranker
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithMonitor sets a search monitor that observes each stage of every
// hybrid search. Default is a no-op monitor.
func WithMonitor(monitor SearchMonitor) Option {
	return func(r *Retriever) error {
		if monitor == nil {
			monitor = noopMonitor{}
		}
		r.monitor = monitor
		return nil
	}
}

// WithLegDepth sets how many candidates each leg contributes to fusion.
func WithLegDepth(depth int) Option {
	return func(r *Retriever) error {
		if depth > 0 {
			r.legDepth = depth
		}
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(chunks storage.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		chunks:   chunks,
		embedder: embedder,
		monitor:  noopMonitor{},
		logger:   slog.Default().With("component", "retriever"),
		legDepth: defaultLegDepth,
		indexes:  make(map[core.ID]*VectorIndex),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// SearchHybrid retrieves the topK most relevant chunks for the query.
// The three legs run in parallel; a failing leg degrades the search
// instead of failing it. Fused candidates are reranked when a reranker
// is configured, failing open to the fused order.
func (r *Retriever) SearchHybrid(ctx context.Context, agentID core.ID, query string, topK int) ([]*Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		return nil, nil
	}

	r.monitor.Start(agentID, query)

	corpus, err := r.chunks.GetChunksByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if len(corpus) == 0 {
		r.monitor.Finish(nil)
		return nil, nil
	}

	byID := make(map[core.ID]*core.Chunk, len(corpus))
	for _, chunk := range corpus {
		byID[chunk.Id] = chunk
	}

	var (
		wg                              sync.WaitGroup
		vectorIDs, textIDs, trigramIDs []core.ID
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		ids, err := r.searchVector(ctx, agentID, corpus, query)
		if err != nil {
			r.logger.Warn("vector leg failed, degrading", "err", err)
			return
		}
		vectorIDs = ids
	}()
	go func() {
		defer wg.Done()
		textIDs = searchFullText(corpus, query, r.legDepth)
	}()
	go func() {
		defer wg.Done()
		trigramIDs = searchTrigram(corpus, query, r.legDepth)
	}()
	wg.Wait()

	r.monitor.AfterVectorLeg(vectorIDs)
	r.monitor.AfterFullTextLeg(textIDs)
	r.monitor.AfterTrigramLeg(trigramIDs)

	fused := fuseRankings(vectorIDs, textIDs, trigramIDs)
	if len(fused) > topK {
		fused = fused[:topK]
	}

	results := make([]*Result, 0, len(fused))
	for _, hit := range fused {
		if chunk := byID[hit.id]; chunk != nil {
			results = append(results, &Result{Chunk: chunk, Score: hit.score})
		}
	}
	r.monitor.AfterFusion(results)

	results = r.rerank(ctx, query, results, topK)
	r.monitor.Finish(results)
	return results, nil
}

// Retune rebuilds the agent's vector index, resizing its inverted lists
// to the current corpus. Called after ingestion changes the chunk set.
func (r *Retriever) Retune(ctx context.Context, agentID core.ID) error {
	corpus, err := r.chunks.GetChunksByAgent(ctx, agentID)
	if err != nil {
		return err
	}

	index := r.indexFor(agentID)
	index.Build(corpus)
	r.logger.Debug("vector index retuned",
		"agentId", agentID, "vectors", index.Size(), "lists", index.ListCount())
	return nil
}

// searchVector runs the vector leg: ANN through the agent's index when
// one is built, full scan otherwise.
func (r *Retriever) searchVector(ctx context.Context, agentID core.ID, corpus []*core.Chunk, query string) ([]core.ID, error) {
	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	index := r.indexFor(agentID)
	if index.Size() > 0 {
		return index.Search(embedding, r.legDepth), nil
	}

	// No index yet: brute-force scan the loaded corpus.
	type hit struct {
		id    core.ID
		score float32
	}
	var hits []hit
	for _, chunk := range corpus {
		if len(chunk.Embedding) == 0 {
			continue
		}
		hits = append(hits, hit{id: chunk.Id, score: dotProduct(embedding, chunk.Embedding)})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > r.legDepth {
		hits = hits[:r.legDepth]
	}

	ids := make([]core.ID, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	return ids, nil
}

// rerank reorders results with the cross-encoder. Every failure mode
// (no reranker, error, empty response) falls back to the input order.
func (r *Retriever) rerank(ctx context.Context, query string, results []*Result, topK int) []*Result {
	if r.reranker == nil || len(results) == 0 {
		return results
	}

	documents := make([]string, len(results))
	for i, result := range results {
		documents[i] = result.Chunk.Content
	}

	ranked, err := r.reranker.Rerank(ctx, query, documents, topK)
	if err != nil {
		r.logger.Warn("rerank failed, keeping fused order", "err", err)
		return results
	}
	if len(ranked) == 0 {
		return results
	}

	reordered := make([]*Result, 0, len(ranked))
	for _, rr := range ranked {
		if rr.Index < 0 || rr.Index >= len(results) {
			r.logger.Warn("rerank returned out-of-range index, keeping fused order", "index", rr.Index)
			return results
		}
		reordered = append(reordered, &Result{
			Chunk: results[rr.Index].Chunk,
			Score: rr.Score,
		})
	}
	r.monitor.AfterRerank(reordered)
	return reordered
}

// indexFor returns the agent's vector index, creating an empty one on
// first use.
func (r *Retriever) indexFor(agentID core.ID) *VectorIndex {
	r.mu.Lock()
	defer r.mu.Unlock()
	index, ok := r.indexes[agentID]
	if !ok {
		index = NewVectorIndex()
		r.indexes[agentID] = index
	}
	return index
}
