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

import "github.com/patter-ai/patter/core"

// SearchMonitor observes the stages of a hybrid search. Implementations
// receive each leg's ranked candidates, the fused set, and the final
// results. Monitors must not retain or mutate the slices they are given.
type SearchMonitor interface {
	// Start is called once per search with the raw query.
	Start(agentID core.ID, query string)

	// AfterVectorLeg receives the vector leg's ranked candidate ids.
	// An empty slice means the leg found nothing or failed.
	AfterVectorLeg(ids []core.ID)

	// AfterFullTextLeg receives the full-text leg's ranked candidate ids.
	AfterFullTextLeg(ids []core.ID)

	// AfterTrigramLeg receives the trigram leg's ranked candidate ids.
	AfterTrigramLeg(ids []core.ID)

	// AfterFusion receives the fused candidates, truncated to topK.
	AfterFusion(results []*Result)

	// AfterRerank receives the reranked results. Not called when no
	// reranker is configured or the rerank fell back to fused order.
	AfterRerank(results []*Result)

	// Finish is called once per search with the results being returned.
	Finish(results []*Result)
}

type noopMonitor struct{}

func (noopMonitor) Start(core.ID, string)      {}
func (noopMonitor) AfterVectorLeg([]core.ID)   {}
func (noopMonitor) AfterFullTextLeg([]core.ID) {}
func (noopMonitor) AfterTrigramLeg([]core.ID)  {}
func (noopMonitor) AfterFusion([]*Result)      {}
func (noopMonitor) AfterRerank([]*Result)      {}
func (noopMonitor) Finish([]*Result)           {}
