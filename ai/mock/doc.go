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


// Package mock provides test doubles for AI service interfaces.
//
// Mock implementations support function-field injection for custom
// behavior in tests, plus deterministic defaults: the embedder derives a
// stable pseudo-random vector from the input text, the chat model echoes
// a configurable reply, and the reranker preserves input order with
// descending scores. All mocks record call counts and last-seen inputs
// for assertions.
package mock
