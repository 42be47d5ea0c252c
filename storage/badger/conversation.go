package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/storage"
)

// ConversationRepository implements storage.ConversationRepository for
// BadgerDB.
type ConversationRepository struct {
	backend *Backend
}

var _ storage.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(backend *Backend) (*ConversationRepository, error) {
	return &ConversationRepository{backend: backend}, nil
}

// Close releases resources. ConversationRepository has no resources to release.
func (r *ConversationRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ConversationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetOrCreateConversation finds the conversation for the
// (agent, client, channel) tuple, creating it when absent.
func (r *ConversationRepository) GetOrCreateConversation(ctx context.Context, agentID core.ID, clientID, channel string) (*core.Conversation, error) {
	existing, err := r.findByTuple(agentID, clientID, channel)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	conv := &core.Conversation{
		Id:       core.NewID(),
		AgentId:  agentID,
		ClientId: clientID,
		Channel:  channel,
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		conv.InsertedAt = storageNow()
		conv.UpdatedAt = conv.InsertedAt

		key := makeRecordKey(conversationPrefix, conv.Id)
		if err := tx.Set(key, storage.MarshalConversation(conv)); err != nil {
			return err
		}

		tupleKey := makeConversationTupleKey(agentID, clientID, channel)
		if err := tx.Set(tupleKey, storage.MarshalID(conv.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	// A concurrent turn may have created the conversation first; the
	// commit conflict resolves to the winner's record.
	if err == badger.ErrConflict {
		winner, findErr := r.findByTuple(agentID, clientID, channel)
		if findErr != nil {
			return nil, findErr
		}
		if winner != nil {
			return winner, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// GetConversation retrieves a single conversation by ID.
func (r *ConversationRepository) GetConversation(ctx context.Context, id core.ID) (*core.Conversation, error) {
	var result *core.Conversation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord(tx, makeRecordKey(conversationPrefix, id), storage.UnmarshalConversation)
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

// UpdateConversation updates an existing conversation.
func (r *ConversationRepository) UpdateConversation(ctx context.Context, conv *core.Conversation) (*core.Conversation, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(conversationPrefix, conv.Id)
		old, err := readRecord(tx, key, storage.UnmarshalConversation)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		conv.InsertedAt = old.InsertedAt
		conv.UpdatedAt = storageNow()

		if err := tx.Set(key, storage.MarshalConversation(conv)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return conv, err
}

// AddMessages appends messages to their conversations.
func (r *ConversationRepository) AddMessages(ctx context.Context, messages ...*core.Message) ([]*core.Message, error) {
	for _, msg := range messages {
		if err := core.ValidateMessageRole(msg.Role); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, msg := range messages {
			if msg.Id == "" {
				msg.Id = core.NewID()
			}
			if msg.InsertedAt.IsZero() {
				msg.InsertedAt = storageNow()
			}

			key := makeRecordKey(messagePrefix, msg.Id)
			if err := tx.Set(key, storage.MarshalMessage(msg)); err != nil {
				return err
			}

			idxKey := makeTimeKey(messageConvIdx, msg.ConversationId, msg.InsertedAt, msg.Id)
			if err := tx.Set(idxKey, storage.MarshalID(msg.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return messages, err
}

// GetRecentMessages retrieves up to limit most recent messages of a
// conversation in chronological order.
func (r *ConversationRepository) GetRecentMessages(ctx context.Context, conversationID core.ID, limit int) ([]*core.Message, error) {
	if limit <= 0 {
		return nil, nil
	}

	var results []*core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeScopePrefix(messageConvIdx, conversationID)

		// Reverse iterate to find the newest entries, then flip back to
		// chronological order.
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the end of the prefix range.
		seekKey := append(append([]byte{}, prefix...), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

		var ids []core.ID
		for iter.Seek(seekKey); iter.Valid() && len(ids) < limit; iter.Next() {
			key := iter.Item().Key()
			if !hasPrefix(key, prefix) {
				break
			}
			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				id, unmarshalErr = storage.UnmarshalID(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			ids = append(ids, id)
		}

		for i := len(ids) - 1; i >= 0; i-- {
			msg, err := readRecord(tx, makeRecordKey(messagePrefix, ids[i]), storage.UnmarshalMessage)
			if err != nil {
				return err
			}
			if msg != nil {
				results = append(results, msg)
			}
		}
		return nil
	}, false)

	return results, err
}

// findByTuple looks up a conversation through the tuple index. Returns
// nil without error when absent.
func (r *ConversationRepository) findByTuple(agentID core.ID, clientID, channel string) (*core.Conversation, error) {
	var result *core.Conversation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		id, err := readIndexedID(tx, makeConversationTupleKey(agentID, clientID, channel))
		if err != nil {
			return err
		}
		if id == "" {
			return nil
		}
		result, err = readRecord(tx, makeRecordKey(conversationPrefix, id), storage.UnmarshalConversation)
		return err
	}, false)
	return result, err
}
