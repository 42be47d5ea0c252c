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
	"sort"

	"github.com/patter-ai/patter/core"
)

// rrfK is the reciprocal rank fusion smoothing constant.
const rrfK = 60

// fusedHit is one entry of the fused ranking.
type fusedHit struct {
	id    core.ID
	score float64
}

// fuseRankings merges ordered result lists with reciprocal rank fusion.
// Each list contributes 1/(k + rank + 1) per id, where rank is the id's
// zero-based position in that list. Output is ordered by fused score
// descending; ties break on first appearance across the lists in input
// order, so fusion is deterministic for fixed inputs.
func fuseRankings(lists ...[]core.ID) []fusedHit {
	scores := make(map[core.ID]float64)
	firstSeen := make(map[core.ID]int)
	arrival := 0

	for _, list := range lists {
		for rank, id := range list {
			scores[id] += 1.0 / float64(rrfK+rank+1)
			if _, ok := firstSeen[id]; !ok {
				firstSeen[id] = arrival
				arrival++
			}
		}
	}

	hits := make([]fusedHit, 0, len(scores))
	for id, score := range scores {
		hits = append(hits, fusedHit{id: id, score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return firstSeen[hits[i].id] < firstSeen[hits[j].id]
	})

	return hits
}
