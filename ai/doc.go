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


// Package ai provides abstractions for the AI services used by Patter.
//
// It defines interfaces for text embedding, chat completion, and
// cross-encoder reranking, following the dependency inversion principle:
// the retrieval, ingestion, and conversation packages depend on these
// abstractions rather than concrete clients.
//
// # Implementation Packages
//
//   - ai/openai: production embeddings and completions over any
//     OpenAI-compatible API
//   - ai/voyage: cross-encoder reranking via the Voyage AI rerank endpoint
//   - ai/mock: deterministic test doubles for unit testing without
//     external services
//
// # Failure Semantics
//
// Every implementation reports misconfiguration or unreachable backends as
// ErrProviderUnavailable. Callers on the conversational path are expected
// to fail open (empty passages, fallback replies); the ingestion path
// fails closed, since its whole purpose is producing usable chunks.
package ai
