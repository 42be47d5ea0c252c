package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	return &DocumentRepository{backend: backend}, nil
}

// Close releases resources. DocumentRepository has no resources to release.
func (r *DocumentRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *DocumentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddDocument stores a new document.
func (r *DocumentRepository) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if doc.Id == "" {
			doc.Id = core.NewID()
		}
		doc.InsertedAt = storageNow()
		doc.UpdatedAt = doc.InsertedAt

		key := makeRecordKey(documentPrefix, doc.Id)
		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}

		// Agent index, ordered by insertion time
		idxKey := makeTimeKey(documentAgentIdx, doc.AgentId, doc.InsertedAt, doc.Id)
		if err := tx.Set(idxKey, storage.MarshalID(doc.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return doc, err
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord(tx, makeRecordKey(documentPrefix, id), storage.UnmarshalDocument)
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

// GetDocumentsByAgent retrieves all documents belonging to an agent,
// ordered by insertion time.
func (r *DocumentRepository) GetDocumentsByAgent(ctx context.Context, agentID core.ID) ([]*core.Document, error) {
	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := scanIndexIDs(tx, makeScopePrefix(documentAgentIdx, agentID))
		if err != nil {
			return err
		}
		for _, id := range ids {
			doc, err := readRecord(tx, makeRecordKey(documentPrefix, id), storage.UnmarshalDocument)
			if err != nil {
				return err
			}
			if doc != nil {
				results = append(results, doc)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteDocument removes a document and all of its chunks in one
// transaction.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(documentPrefix, id)
		doc, err := readRecord(tx, key, storage.UnmarshalDocument)
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}

		// Chunks cascade with their document.
		if err := deleteDocumentChunks(tx, doc.AgentId, doc.Id); err != nil {
			return err
		}

		idxKey := makeTimeKey(documentAgentIdx, doc.AgentId, doc.InsertedAt, doc.Id)
		if err := tx.Delete(idxKey); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
