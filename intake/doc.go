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


// Package intake implements schema-driven slot filling for conversational
// data collection.
//
// An agent carries two independent intake schemas: a fixed "lead" schema of
// configured questions and an open-ended "dynamic" schema that may grow new
// questions as the conversation surfaces unexpected information. Both share
// one shape: sections of typed questions whose Collected/IsDone flags are
// always derived from answer presence, never set directly.
//
// # Merging
//
// Merge is the single entry point for applying model-proposed slot updates.
// It is pure: the caller's schema is deep-copied, answers are normalized per
// question type (phone numbers to E.164, dates to ISO-8601), and completion
// flags are rederived for every question whether or not it was updated.
// Failed normalization stores the raw input verbatim so user data is never
// silently discarded.
//
// # Type normalization
//
// Per-question behavior dispatches through a table keyed by the closed
// QuestionType enum. Adding a type means adding one table entry, not a new
// branch at every call site.
package intake
