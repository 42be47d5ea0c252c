package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/storage"
)

// LeadRepository implements storage.LeadRepository for BadgerDB.
type LeadRepository struct {
	backend *Backend
}

var _ storage.LeadRepository = (*LeadRepository)(nil)

// NewLeadRepository creates a new LeadRepository.
func NewLeadRepository(backend *Backend) (*LeadRepository, error) {
	return &LeadRepository{backend: backend}, nil
}

// Close releases resources. LeadRepository has no resources to release.
func (r *LeadRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *LeadRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// leadStatusRank orders statuses along their progression. Routing and
// manual transitions advance a lead; per-turn upserts must never move
// it backwards.
func leadStatusRank(status core.LeadStatus) int {
	switch status {
	case core.LeadStatusQualified:
		return 1
	case core.LeadStatusContacted:
		return 2
	case core.LeadStatusConverted, core.LeadStatusRejected:
		return 3
	}
	return 0
}

// UpsertLead creates the conversation's lead or overwrites its payload
// and status, preserving Id, InsertedAt, and any more advanced status
// on update.
func (r *LeadRepository) UpsertLead(ctx context.Context, lead *core.Lead) (*core.Lead, error) {
	if err := core.ValidateLead(lead); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		tupleKey := makeLeadTupleKey(lead.AgentId, lead.ConversationId)
		existingID, err := readIndexedID(tx, tupleKey)
		if err != nil {
			return err
		}

		now := storageNow()
		if existingID != "" {
			existing, err := readRecord(tx, makeRecordKey(leadPrefix, existingID), storage.UnmarshalLead)
			if err != nil {
				return err
			}
			if existing != nil {
				lead.Id = existing.Id
				lead.InsertedAt = existing.InsertedAt
				if leadStatusRank(existing.Status) > leadStatusRank(lead.Status) {
					lead.Status = existing.Status
				}
			}
		}
		if lead.Id == "" {
			lead.Id = core.NewID()
			lead.InsertedAt = now
		}
		lead.UpdatedAt = now

		key := makeRecordKey(leadPrefix, lead.Id)
		if err := tx.Set(key, storage.MarshalLead(lead)); err != nil {
			return err
		}
		if err := tx.Set(tupleKey, storage.MarshalID(lead.Id)); err != nil {
			return err
		}

		agentKey := makeScopeKey(leadAgentIdx, lead.AgentId, lead.Id)
		if err := tx.Set(agentKey, storage.MarshalID(lead.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return lead, err
}

// GetLead retrieves a single lead by ID.
func (r *LeadRepository) GetLead(ctx context.Context, id core.ID) (*core.Lead, error) {
	var result *core.Lead
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord(tx, makeRecordKey(leadPrefix, id), storage.UnmarshalLead)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetLeadByConversation retrieves the lead collected in a conversation.
func (r *LeadRepository) GetLeadByConversation(ctx context.Context, agentID, conversationID core.ID) (*core.Lead, error) {
	var result *core.Lead
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := readIndexedID(tx, makeLeadTupleKey(agentID, conversationID))
		if err != nil {
			return err
		}
		if id == "" {
			return storage.ErrNotFound
		}
		result, err = readRecord(tx, makeRecordKey(leadPrefix, id), storage.UnmarshalLead)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetLeadsByAgent retrieves all leads belonging to an agent.
func (r *LeadRepository) GetLeadsByAgent(ctx context.Context, agentID core.ID) ([]*core.Lead, error) {
	var results []*core.Lead
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := scanIndexIDs(tx, makeScopePrefix(leadAgentIdx, agentID))
		if err != nil {
			return err
		}
		for _, id := range ids {
			lead, err := readRecord(tx, makeRecordKey(leadPrefix, id), storage.UnmarshalLead)
			if err != nil {
				return err
			}
			if lead != nil {
				results = append(results, lead)
			}
		}
		return nil
	}, false)
	return results, err
}

// UpdateLeadStatus transitions a lead's status.
func (r *LeadRepository) UpdateLeadStatus(ctx context.Context, id core.ID, status core.LeadStatus) (*core.Lead, error) {
	if err := core.ValidateLeadStatus(status); err != nil {
		return nil, err
	}

	var result *core.Lead
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(leadPrefix, id)
		lead, err := readRecord(tx, key, storage.UnmarshalLead)
		if err != nil {
			return err
		}
		if lead == nil {
			return storage.ErrNotFound
		}

		lead.Status = status
		lead.UpdatedAt = storageNow()

		if err := tx.Set(key, storage.MarshalLead(lead)); err != nil {
			return err
		}
		result = lead
		return tx.Commit()
	}, true)

	return result, err
}
