package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	a := IDFromContent("hello world")
	b := IDFromContent("hello world")
	c := IDFromContent("hello worlds")

	assert.Equal(t, a, b, "identical content must produce identical IDs")
	assert.NotEqual(t, a, c, "different content must produce different IDs")
	assert.NotEmpty(t, a)
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		require.False(t, seen[id], "duplicate ID generated")
		seen[id] = true
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid",
			doc:  &Document{AgentId: NewID(), RawText: "some text"},
		},
		{
			name:    "nil",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "missing agent",
			doc:     &Document{RawText: "some text"},
			wantErr: ErrMissingAgent,
		},
		{
			name:    "empty text",
			doc:     &Document{AgentId: NewID()},
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	agentID := NewID()
	docID := NewID()

	valid := &Chunk{AgentId: agentID, DocumentId: docID, Content: "window", PositionIndex: 0}
	assert.NoError(t, ValidateChunk(valid))

	negative := &Chunk{AgentId: agentID, DocumentId: docID, Content: "window", PositionIndex: -1}
	assert.ErrorIs(t, ValidateChunk(negative), ErrInvalidChunk)

	noEmbedding := &Chunk{AgentId: agentID, DocumentId: docID, Content: "window", PositionIndex: 3}
	assert.NoError(t, ValidateChunk(noEmbedding), "embedding is populated later by ingestion")
}

func TestValidateLeadStatus(t *testing.T) {
	for _, s := range []LeadStatus{LeadStatusNew, LeadStatusQualified, LeadStatusContacted, LeadStatusConverted, LeadStatusRejected} {
		assert.NoError(t, ValidateLeadStatus(s))
	}
	assert.ErrorIs(t, ValidateLeadStatus("archived"), ErrInvalidLeadStatus)
}

func TestValidateVendor(t *testing.T) {
	v := &Vendor{AgentId: NewID(), Criteria: []VendorCriterion{{Field: "city", Equals: []string{"NYC"}}}}
	assert.NoError(t, ValidateVendor(v))

	empty := &Vendor{AgentId: NewID()}
	assert.NoError(t, ValidateVendor(empty), "empty criteria list is a valid fallback vendor")

	bad := &Vendor{AgentId: NewID(), Criteria: []VendorCriterion{{Equals: []string{"x"}}}}
	assert.ErrorIs(t, ValidateVendor(bad), ErrInvalidVendor)
}
