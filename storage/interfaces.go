package storage

import (
	"context"

	"github.com/patter-ai/patter/core"
)

// Repository provides common storage operations shared across all
// repositories. Implementations must be thread-safe and support
// concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// AgentRepository provides operations for managing agent configurations.
type AgentRepository interface {
	Repository

	// AddAgent stores a new agent. Generates an ID when the agent has
	// none and sets InsertedAt/UpdatedAt.
	AddAgent(ctx context.Context, agent *core.Agent) (*core.Agent, error)

	// UpdateAgent updates an existing agent.
	// Returns ErrNotFound if the agent doesn't exist.
	UpdateAgent(ctx context.Context, agent *core.Agent) (*core.Agent, error)

	// GetAgent retrieves a single agent by ID.
	// Returns ErrNotFound if the agent doesn't exist.
	GetAgent(ctx context.Context, id core.ID) (*core.Agent, error)

	// ListAgents retrieves all agents.
	ListAgents(ctx context.Context) ([]*core.Agent, error)
}

// DocumentRepository provides operations for managing source documents.
type DocumentRepository interface {
	Repository

	// AddDocument stores a new document. Generates an ID when the
	// document has none and sets InsertedAt/UpdatedAt.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// GetDocumentsByAgent retrieves all documents belonging to an agent,
	// ordered by insertion time.
	GetDocumentsByAgent(ctx context.Context, agentID core.ID) ([]*core.Document, error)

	// DeleteDocument removes a document and all of its chunks in one
	// transaction. Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id core.ID) error
}

// ChunkRepository provides operations for managing document chunks.
// A document's chunk set only changes wholesale: ReplaceDocumentChunks
// is the sole write path, there are no partial chunk updates.
type ChunkRepository interface {
	Repository

	// ReplaceDocumentChunks atomically deletes every existing chunk of
	// the document and stores the new set. Sets timestamps. Either all
	// writes land or none do.
	ReplaceDocumentChunks(ctx context.Context, documentID core.ID, chunks []*core.Chunk) ([]*core.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunksByDocument retrieves a document's chunks ordered by
	// position index.
	GetChunksByDocument(ctx context.Context, documentID core.ID) ([]*core.Chunk, error)

	// GetChunksByAgent retrieves all chunks belonging to an agent's
	// documents. Used to build retrieval indexes.
	GetChunksByAgent(ctx context.Context, agentID core.ID) ([]*core.Chunk, error)

	// CountChunksByAgent returns how many chunks an agent has without
	// loading them.
	CountChunksByAgent(ctx context.Context, agentID core.ID) (int, error)
}

// ConversationRepository provides operations for conversations and their
// messages.
type ConversationRepository interface {
	Repository

	// GetOrCreateConversation finds the conversation for the
	// (agent, client, channel) tuple, creating it when absent.
	// Thread-safe: handles concurrent creation attempts.
	GetOrCreateConversation(ctx context.Context, agentID core.ID, clientID, channel string) (*core.Conversation, error)

	// GetConversation retrieves a single conversation by ID.
	// Returns ErrNotFound if the conversation doesn't exist.
	GetConversation(ctx context.Context, id core.ID) (*core.Conversation, error)

	// UpdateConversation updates an existing conversation, refreshing
	// UpdatedAt. Returns ErrNotFound if the conversation doesn't exist.
	UpdateConversation(ctx context.Context, conv *core.Conversation) (*core.Conversation, error)

	// AddMessages appends messages to their conversations. Generates IDs
	// and sets InsertedAt.
	AddMessages(ctx context.Context, messages ...*core.Message) ([]*core.Message, error)

	// GetRecentMessages retrieves up to limit most recent messages of a
	// conversation in chronological order (oldest of the window first).
	GetRecentMessages(ctx context.Context, conversationID core.ID, limit int) ([]*core.Message, error)
}

// LeadRepository provides operations for managing leads. At most one
// lead exists per (agent, conversation) pair; UpsertLead enforces it.
type LeadRepository interface {
	Repository

	// UpsertLead creates the conversation's lead or overwrites its
	// payload and status, preserving Id and InsertedAt on update.
	UpsertLead(ctx context.Context, lead *core.Lead) (*core.Lead, error)

	// GetLead retrieves a single lead by ID.
	// Returns ErrNotFound if the lead doesn't exist.
	GetLead(ctx context.Context, id core.ID) (*core.Lead, error)

	// GetLeadByConversation retrieves the lead collected in a
	// conversation. Returns ErrNotFound when none exists yet.
	GetLeadByConversation(ctx context.Context, agentID, conversationID core.ID) (*core.Lead, error)

	// GetLeadsByAgent retrieves all leads belonging to an agent.
	GetLeadsByAgent(ctx context.Context, agentID core.ID) ([]*core.Lead, error)

	// UpdateLeadStatus transitions a lead's status.
	// Returns ErrNotFound if the lead doesn't exist.
	UpdateLeadStatus(ctx context.Context, id core.ID, status core.LeadStatus) (*core.Lead, error)
}

// VendorRepository provides operations for managing routing vendors.
type VendorRepository interface {
	Repository

	// AddVendor stores a new vendor. Generates an ID when the vendor has
	// none and sets InsertedAt/UpdatedAt.
	AddVendor(ctx context.Context, vendor *core.Vendor) (*core.Vendor, error)

	// GetVendor retrieves a single vendor by ID.
	// Returns ErrNotFound if the vendor doesn't exist.
	GetVendor(ctx context.Context, id core.ID) (*core.Vendor, error)

	// GetVendorsByAgent retrieves an agent's vendors ordered by creation
	// time, oldest first. Selection tie-breaking depends on this order.
	GetVendorsByAgent(ctx context.Context, agentID core.ID) ([]*core.Vendor, error)

	// DeleteVendor removes a vendor by ID.
	// Returns ErrNotFound if the vendor doesn't exist.
	DeleteVendor(ctx context.Context, id core.ID) error
}
