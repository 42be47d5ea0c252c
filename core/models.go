package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for domain entities.
// Entity IDs are random UUIDs; chunk IDs are content-derived so that
// re-ingesting identical content yields identical IDs.
type ID string

// NewID generates a random ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing. Identical content always produces the same ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	sum := h.Sum(nil)
	u, err := uuid.FromBytes(sum)
	if err != nil {
		return ID(uuid.NewSHA1(uuid.NameSpaceOID, sum).String())
	}
	return ID(u.String())
}

// Uint64 returns the first 8 bytes of the ID's text as an unsigned integer.
// Used for stable ordering in storage keys.
func (id ID) Uint64() uint64 {
	b := []byte(id)
	if len(b) < 8 {
		padded := make([]byte, 8)
		copy(padded, b)
		b = padded
	}
	return binary.BigEndian.Uint64(b[:8])
}

// AgentStatus controls whether an agent accepts conversations.
type AgentStatus string

const (
	AgentStatusActive   AgentStatus = "active"
	AgentStatusDisabled AgentStatus = "disabled"
)

// Agent is a configured conversational intake agent.
// The lead and dynamic schemas stored here are the base templates seeded
// into each conversation on its first turn; per-conversation snapshots
// evolve independently in the conversation's state blob.
type Agent struct {
	Id                  ID
	Name                string
	Status              AgentStatus
	WelcomeMessage      string
	SpecialInstructions string
	PostCollectionText  string
	LeadSchemaJSON      string // base lead intake schema, JSON-encoded
	DynSchemaJSON       string // base dynamic intake schema, JSON-encoded
	InsertedAt          time.Time
	UpdatedAt           time.Time
}

// Document is an uploaded source document. Text is immutable after upload;
// destroying a document cascades its chunks.
type Document struct {
	Id         ID
	AgentId    ID
	Title      string
	SourceURI  string
	RawText    string
	Metadata   map[string]string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Chunk is a bounded token window of a document, the unit of retrieval.
// A document's chunk set is destroyed and regenerated wholesale on reindex;
// there are no partial chunk updates.
type Chunk struct {
	Id            ID
	DocumentId    ID
	AgentId       ID
	Content       string
	PositionIndex int
	Embedding     []float32
	InsertedAt    time.Time
	UpdatedAt     time.Time
}

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message is a single turn in a conversation.
type Message struct {
	Id             ID
	ConversationId ID
	Role           MessageRole
	Text           string
	CitationsJSON  string // citations attached to assistant replies, JSON-encoded
	InsertedAt     time.Time
}

// Conversation is a long-lived exchange between a client and an agent.
// Meta holds the opaque, versioned conversation state blob (intake schema
// snapshots, undo stack, completed sections). It never reaches a terminal
// state; it evolves for the life of the conversation.
type Conversation struct {
	Id         ID
	AgentId    ID
	ClientId   string
	Channel    string
	Meta       string // versioned state blob, JSON-encoded
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// LeadStatus tracks a lead through its lifecycle.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusRejected  LeadStatus = "rejected"
)

// Lead is the structured intake result for one conversation: a flat map of
// question id to collected answer. At most one lead exists per
// (agent, conversation) pair.
type Lead struct {
	Id             ID
	AgentId        ID
	ConversationId ID
	Payload        map[string]string
	Status         LeadStatus
	InsertedAt     time.Time
	UpdatedAt      time.Time
}

// VendorStatus controls whether a vendor participates in lead routing.
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusInactive VendorStatus = "inactive"
)

// VendorCriterion matches one lead payload field against an expected value
// or set of values.
type VendorCriterion struct {
	Field  string
	Equals []string // single expected value or an accepted set
}

// Vendor is a routing destination for qualified leads. Vendors are
// read-only from the engine's perspective; retrieval and orchestration
// never mutate them.
type Vendor struct {
	Id         ID
	AgentId    ID
	Name       string
	Criteria   []VendorCriterion
	Status     VendorStatus
	InsertedAt time.Time
	UpdatedAt  time.Time
}
