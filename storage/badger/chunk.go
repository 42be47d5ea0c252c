package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	return &ChunkRepository{backend: backend}, nil
}

// Close releases resources. ChunkRepository has no resources to release.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// ReplaceDocumentChunks atomically deletes every existing chunk of the
// document and stores the new set. Either all writes commit or none do.
func (r *ChunkRepository) ReplaceDocumentChunks(ctx context.Context, documentID core.ID, chunks []*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		doc, err := readRecord(tx, makeRecordKey(documentPrefix, documentID), storage.UnmarshalDocument)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		if err := deleteDocumentChunks(tx, doc.AgentId, documentID); err != nil {
			return err
		}

		now := storageNow()
		for _, chunk := range chunks {
			if chunk.Id == "" {
				chunk.Id = core.IDFromContent(chunk.Content)
			}
			chunk.DocumentId = documentID
			chunk.AgentId = doc.AgentId
			chunk.InsertedAt = now
			chunk.UpdatedAt = now

			// Validated after scope back-fill so callers may pass chunks
			// carrying only content and position.
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}

			key := makeRecordKey(chunkPrefix, chunk.Id)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}

			posKey := makePositionKey(chunkDocumentIdx, documentID, chunk.PositionIndex, chunk.Id)
			if err := tx.Set(posKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}

			agentKey := makeScopeKey(chunkAgentIdx, doc.AgentId, chunk.Id)
			if err := tx.Set(agentKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	var result *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord(tx, makeRecordKey(chunkPrefix, id), storage.UnmarshalChunk)
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

// GetChunksByDocument retrieves a document's chunks ordered by position
// index.
func (r *ChunkRepository) GetChunksByDocument(ctx context.Context, documentID core.ID) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := scanIndexIDs(tx, makeScopePrefix(chunkDocumentIdx, documentID))
		if err != nil {
			return err
		}
		for _, id := range ids {
			chunk, err := readRecord(tx, makeRecordKey(chunkPrefix, id), storage.UnmarshalChunk)
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetChunksByAgent retrieves all chunks belonging to an agent's documents.
func (r *ChunkRepository) GetChunksByAgent(ctx context.Context, agentID core.ID) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := scanIndexIDs(tx, makeScopePrefix(chunkAgentIdx, agentID))
		if err != nil {
			return err
		}
		for _, id := range ids {
			chunk, err := readRecord(tx, makeRecordKey(chunkPrefix, id), storage.UnmarshalChunk)
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	return results, err
}

// CountChunksByAgent returns how many chunks an agent has without
// loading them.
func (r *ChunkRepository) CountChunksByAgent(ctx context.Context, agentID core.ID) (int, error) {
	var count int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		keys, err := scanIndexKeys(tx, makeScopePrefix(chunkAgentIdx, agentID))
		if err != nil {
			return err
		}
		count = len(keys)
		return nil
	}, false)
	return count, err
}

// deleteDocumentChunks removes a document's chunks and their index
// entries within an open transaction.
func deleteDocumentChunks(tx *badger.Txn, agentID, documentID core.ID) error {
	ids, err := scanIndexIDs(tx, makeScopePrefix(chunkDocumentIdx, documentID))
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := tx.Delete(makeRecordKey(chunkPrefix, id)); err != nil {
			return err
		}
		if err := tx.Delete(makeScopeKey(chunkAgentIdx, agentID, id)); err != nil {
			return err
		}
	}

	posKeys, err := scanIndexKeys(tx, makeScopePrefix(chunkDocumentIdx, documentID))
	if err != nil {
		return err
	}
	for _, key := range posKeys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
