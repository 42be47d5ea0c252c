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


// Package bot orchestrates retrieval-augmented intake conversations.
//
// Each inbound message becomes one turn: the engine loads the
// conversation's persisted intake state, retrieves passages when the agent
// has a document corpus, builds a single consolidated prompt, makes one
// model call, merges the structured reply into the lead and dynamic
// schemas, persists state, upserts the lead record, and returns the reply
// with citations. Provider failures degrade to fallback replies; the user
// always gets an answer.
package bot
