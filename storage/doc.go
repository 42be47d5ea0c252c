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


// Package storage provides the storage abstraction layer for patter.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, so different backends (BadgerDB,
// in-memory, etc.) can be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return these interfaces:
//
//	repo, err := badger.NewAgentRepository(backend)  // returns storage.AgentRepository
//
// Internal constructors may return concrete types since they're only
// used within the implementation package.
//
// # Repositories
//
//   - AgentRepository: agent configurations and base intake schemas
//   - DocumentRepository: uploaded source documents
//   - ChunkRepository: embedded token windows, replaced wholesale per document
//   - ConversationRepository: conversations, state blobs, and messages
//   - LeadRepository: collected intake results, one per conversation
//   - VendorRepository: lead routing destinations
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
