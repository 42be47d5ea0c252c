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


package badger

import "github.com/patter-ai/patter/storage"

// MemoryRepositories bundles one in-memory repository per entity for
// testing. Caller must Close the backend when done.
type MemoryRepositories struct {
	Agents        storage.AgentRepository
	Documents     storage.DocumentRepository
	Chunks        storage.ChunkRepository
	Conversations storage.ConversationRepository
	Leads         storage.LeadRepository
	Vendors       storage.VendorRepository
	Backend       *Backend
}

// NewMemoryRepositories creates in-memory repositories for testing.
func NewMemoryRepositories() (*MemoryRepositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	agents, err := NewAgentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	documents, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	chunks, err := NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	conversations, err := NewConversationRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	leads, err := NewLeadRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	vendors, err := NewVendorRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &MemoryRepositories{
		Agents:        agents,
		Documents:     documents,
		Chunks:        chunks,
		Conversations: conversations,
		Leads:         leads,
		Vendors:       vendors,
		Backend:       backend,
	}, nil
}

// Close closes the shared backend.
func (m *MemoryRepositories) Close() error {
	return m.Backend.Close()
}
