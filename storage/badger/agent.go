package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/storage"
)

// AgentRepository implements storage.AgentRepository for BadgerDB.
type AgentRepository struct {
	backend *Backend
}

var _ storage.AgentRepository = (*AgentRepository)(nil)

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(backend *Backend) (*AgentRepository, error) {
	return &AgentRepository{backend: backend}, nil
}

// Close releases resources. AgentRepository has no resources to release.
func (r *AgentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *AgentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddAgent stores a new agent.
func (r *AgentRepository) AddAgent(ctx context.Context, agent *core.Agent) (*core.Agent, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if agent.Id == "" {
			agent.Id = core.NewID()
		}
		agent.InsertedAt = storageNow()
		agent.UpdatedAt = agent.InsertedAt

		key := makeRecordKey(agentPrefix, agent.Id)
		if err := tx.Set(key, storage.MarshalAgent(agent)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return agent, err
}

// UpdateAgent updates an existing agent.
func (r *AgentRepository) UpdateAgent(ctx context.Context, agent *core.Agent) (*core.Agent, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(agentPrefix, agent.Id)
		old, err := readRecord(tx, key, storage.UnmarshalAgent)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		agent.InsertedAt = old.InsertedAt
		agent.UpdatedAt = storageNow()

		if err := tx.Set(key, storage.MarshalAgent(agent)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return agent, err
}

// GetAgent retrieves a single agent by ID.
func (r *AgentRepository) GetAgent(ctx context.Context, id core.ID) (*core.Agent, error) {
	var result *core.Agent
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord(tx, makeRecordKey(agentPrefix, id), storage.UnmarshalAgent)
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

// ListAgents retrieves all agents.
func (r *AgentRepository) ListAgents(ctx context.Context) ([]*core.Agent, error) {
	var results []*core.Agent
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(agentPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var agent *core.Agent
			err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				agent, unmarshalErr = storage.UnmarshalAgent(val)
				return unmarshalErr
			})
			if err != nil {
				return err
			}
			results = append(results, agent)
		}
		return nil
	}, false)
	return results, err
}
