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


package patter

import (
	"log/slog"

	"github.com/patter-ai/patter/ai"
	"github.com/patter-ai/patter/ai/openai"
	"github.com/patter-ai/patter/ai/voyage"
	"github.com/patter-ai/patter/bot"
	"github.com/patter-ai/patter/chunker"
	"github.com/patter-ai/patter/ingestion"
	"github.com/patter-ai/patter/retrieval"
	"github.com/patter-ai/patter/routing"
	"github.com/patter-ai/patter/storage"
	"github.com/patter-ai/patter/storage/badger"
)

// Database wires the storage backend, the AI provider, and one shared
// retriever into a single handle. The retriever is shared so ingestion
// retunes the same vector indexes chat turns search.
type Database struct {
	backend       *badger.Backend
	agents        storage.AgentRepository
	documents     storage.DocumentRepository
	chunks        storage.ChunkRepository
	conversations storage.ConversationRepository
	leads         storage.LeadRepository
	vendors       storage.VendorRepository
	provider      ai.Provider
	retriever     *retrieval.Retriever
	logger        *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) { o.aiConfig = config }
}

// WithProvider injects a pre-built AI provider instead of constructing
// one from configuration. The Database takes ownership and closes it.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) { o.provider = provider }
}

// WithInMemory opens the storage backend in memory, for tests and
// ephemeral use.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) { o.inMemory = true }
}

// NewDatabase opens the storage backend at filePath and wires every
// repository and service.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	agents, err := badger.NewAgentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	chunks, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	conversations, err := badger.NewConversationRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	leads, err := badger.NewLeadRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	vendors, err := badger.NewVendorRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	retrieverOpts := []retrieval.Option{}
	if options.aiConfig.RerankAPIKey != "" {
		retrieverOpts = append(retrieverOpts,
			retrieval.WithReranker(voyage.NewReranker(options.aiConfig.RerankAPIKey, options.aiConfig.RerankModel)))
	}
	retriever, err := retrieval.NewRetriever(chunks, provider.Embedder(), retrieverOpts...)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:       backend,
		agents:        agents,
		documents:     documents,
		chunks:        chunks,
		conversations: conversations,
		leads:         leads,
		vendors:       vendors,
		provider:      provider,
		retriever:     retriever,
		logger:        slog.Default(),
	}, nil
}

// Close releases the AI provider and the storage backend.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) AgentRepository() storage.AgentRepository {
	return db.agents
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.documents
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunks
}

func (db *Database) ConversationRepository() storage.ConversationRepository {
	return db.conversations
}

func (db *Database) LeadRepository() storage.LeadRepository {
	return db.leads
}

func (db *Database) VendorRepository() storage.VendorRepository {
	return db.vendors
}

// Retriever returns the shared hybrid retriever.
func (db *Database) Retriever() *retrieval.Retriever {
	return db.retriever
}

// NewIngestionPipeline builds a pipeline that chunks with the default
// tokenizer, embeds through the provider, and retunes the shared
// retriever after each ingest.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	splitter, err := chunker.New()
	if err != nil {
		return nil, err
	}

	merged := append([]ingestion.Option{ingestion.WithRetuner(db.retriever)}, opts...)
	return ingestion.NewPipeline(db.documents, db.chunks, splitter, db.provider.Embedder(), merged...)
}

// NewEngine builds a conversation engine wired to the shared retriever,
// the provider's chat model, and vendor suggestions.
func (db *Database) NewEngine(opts ...bot.Option) (*bot.Engine, error) {
	merged := []bot.Option{
		bot.WithSearcher(db.retriever),
		bot.WithVendors(db.vendors),
	}
	if chat := db.provider.ChatModel(); chat != nil {
		merged = append(merged, bot.WithChatModel(chat))
	}
	merged = append(merged, opts...)
	return bot.NewEngine(db.agents, db.conversations, db.leads, db.chunks, merged...)
}

// NewRouter builds a lead router over the vendor and lead repositories.
func (db *Database) NewRouter(opts ...routing.Option) (*routing.Router, error) {
	return routing.NewRouter(db.vendors, db.leads, opts...)
}

// NewSchemaBuilder builds a schema builder over the provider's chat model.
func (db *Database) NewSchemaBuilder() (*bot.SchemaBuilder, error) {
	return bot.NewSchemaBuilder(db.agents, db.provider.ChatModel())
}
