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


// Package ingestion turns uploaded documents into embedded chunks ready
// for retrieval.
//
// A document ingest chunks the text into token windows, embeds the
// windows in bounded batches with per-batch retries, and replaces the
// document's entire chunk set in one storage transaction. Unlike the
// conversational path, ingestion fails closed: an exhausted embedding
// batch or a failed transaction surfaces as a hard error for that
// document. Agent reindexing walks every document and aborts on the
// first failure.
package ingestion
