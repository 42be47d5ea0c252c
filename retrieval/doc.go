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


// Package retrieval implements hybrid passage retrieval over an agent's
// chunk corpus.
//
// A search runs three legs in parallel: approximate nearest neighbor
// over an IVF-partitioned vector index (full scan until the index is
// built), full-text with AND semantics and a term-density rank, and
// letter-trigram Jaccard similarity for misspellings and partial
// matches. Leg rankings merge with reciprocal rank fusion; an optional
// cross-encoder rerank reorders the fused candidates and fails open to
// the fused order on any error.
//
// Retrieval never fails a conversational turn: a degraded leg logs and
// contributes nothing, and reranking errors are swallowed.
package retrieval
