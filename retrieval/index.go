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
	"math"
	"sort"
	"sync"

	"github.com/patter-ai/patter/core"
)

const (
	minLists = 10
	maxLists = 2000

	// lloydIterations bounds centroid refinement passes.
	lloydIterations = 3

	// defaultNProbe is how many inverted lists a search visits.
	defaultNProbe = 4
)

// listCountFor derives the inverted list count from the corpus size:
// floor(sqrt(n)) clamped to [10, 2000]. Small corpora get enough lists
// to be meaningful, large ones stay bounded.
func listCountFor(n int) int {
	lists := int(math.Floor(math.Sqrt(float64(n))))
	if lists < minLists {
		return minLists
	}
	if lists > maxLists {
		return maxLists
	}
	return lists
}

type indexEntry struct {
	id     core.ID
	vector []float32
}

// VectorIndex is an IVF-style approximate nearest neighbor index over
// one agent's chunk embeddings. Vectors are partitioned into inverted
// lists around centroids; a search only scans the nProbe closest lists.
// Safe for concurrent use; Build swaps the partitioning atomically.
type VectorIndex struct {
	mu        sync.RWMutex
	centroids [][]float32
	lists     [][]indexEntry
	size      int
	nProbe    int
}

// NewVectorIndex creates an empty index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{nProbe: defaultNProbe}
}

// Build repartitions the index around fresh centroids sized to the
// corpus. Chunks without embeddings are skipped.
func (x *VectorIndex) Build(chunks []*core.Chunk) {
	entries := make([]indexEntry, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			continue
		}
		entries = append(entries, indexEntry{id: chunk.Id, vector: chunk.Embedding})
	}

	listCount := listCountFor(len(entries))
	if listCount > len(entries) {
		listCount = len(entries)
	}

	centroids := initialCentroids(entries, listCount)
	var lists [][]indexEntry
	for iter := 0; iter < lloydIterations && len(centroids) > 0; iter++ {
		lists = assign(entries, centroids)
		centroids = recenter(lists, centroids)
	}

	x.mu.Lock()
	x.centroids = centroids
	x.lists = lists
	x.size = len(entries)
	x.mu.Unlock()
}

// Size returns how many vectors the index holds.
func (x *VectorIndex) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.size
}

// ListCount returns the current inverted list count.
func (x *VectorIndex) ListCount() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.centroids)
}

// Search returns the ids of the k nearest vectors by dot product,
// scanning the nProbe closest inverted lists.
func (x *VectorIndex) Search(vector []float32, k int) []core.ID {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.centroids) == 0 || k <= 0 {
		return nil
	}

	// Rank centroids by similarity to the query.
	type ranked struct {
		idx   int
		score float32
	}
	order := make([]ranked, len(x.centroids))
	for i, centroid := range x.centroids {
		order[i] = ranked{idx: i, score: dotProduct(vector, centroid)}
	}
	sort.Slice(order, func(i, j int) bool { return order[i].score > order[j].score })

	probe := x.nProbe
	if probe > len(order) {
		probe = len(order)
	}

	type hit struct {
		id    core.ID
		score float32
	}
	var hits []hit
	for _, r := range order[:probe] {
		for _, entry := range x.lists[r.idx] {
			hits = append(hits, hit{id: entry.id, score: dotProduct(vector, entry.vector)})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > k {
		hits = hits[:k]
	}

	ids := make([]core.ID, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	return ids
}

// initialCentroids picks evenly spaced seed vectors.
func initialCentroids(entries []indexEntry, listCount int) [][]float32 {
	if listCount == 0 || len(entries) == 0 {
		return nil
	}
	centroids := make([][]float32, 0, listCount)
	step := len(entries) / listCount
	if step == 0 {
		step = 1
	}
	for i := 0; i < len(entries) && len(centroids) < listCount; i += step {
		centroid := make([]float32, len(entries[i].vector))
		copy(centroid, entries[i].vector)
		centroids = append(centroids, centroid)
	}
	return centroids
}

// assign distributes entries to their most similar centroid.
func assign(entries []indexEntry, centroids [][]float32) [][]indexEntry {
	lists := make([][]indexEntry, len(centroids))
	for _, entry := range entries {
		best := 0
		bestScore := float32(math.Inf(-1))
		for i, centroid := range centroids {
			if score := dotProduct(entry.vector, centroid); score > bestScore {
				best = i
				bestScore = score
			}
		}
		lists[best] = append(lists[best], entry)
	}
	return lists
}

// recenter recomputes each centroid as the mean of its list, keeping the
// previous centroid for empty lists.
func recenter(lists [][]indexEntry, previous [][]float32) [][]float32 {
	centroids := make([][]float32, len(lists))
	for i, list := range lists {
		if len(list) == 0 {
			centroids[i] = previous[i]
			continue
		}
		mean := make([]float32, len(list[0].vector))
		for _, entry := range list {
			for d := range mean {
				if d < len(entry.vector) {
					mean[d] += entry.vector[d]
				}
			}
		}
		for d := range mean {
			mean[d] /= float32(len(list))
		}
		centroids[i] = mean
	}
	return centroids
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
