package badger

import (
	"bytes"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/storage"
)

// storageNow returns the current time at the codec's microsecond
// resolution, so returned records match what a later read decodes.
func storageNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// readRecord reads and decodes a record. Returns nil without error when
// the key is absent.
func readRecord[T any](tx *badger.Txn, key []byte, unmarshal func([]byte) (*T, error)) (*T, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *T
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = unmarshal(val)
		return unmarshalErr
	})
	return record, err
}

// readIndexedID reads an entity ID stored as an index value. Returns
// empty ID without error when the key is absent.
func readIndexedID(tx *badger.Txn, key []byte) (core.ID, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return "", nil
		}
		return "", err
	}

	var id core.ID
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		id, unmarshalErr = storage.UnmarshalID(val)
		return unmarshalErr
	})
	return id, err
}

// scanIndexIDs collects every entity ID stored under an index prefix, in
// key order.
func scanIndexIDs(tx *badger.Txn, prefix []byte) ([]core.ID, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var ids []core.ID
	for iter.Rewind(); iter.Valid(); iter.Next() {
		var id core.ID
		err := iter.Item().Value(func(val []byte) error {
			var unmarshalErr error
			id, unmarshalErr = storage.UnmarshalID(val)
			return unmarshalErr
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// scanIndexKeys collects every raw index key under a prefix, in key order.
func scanIndexKeys(tx *badger.Txn, prefix []byte) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys, nil
}

// hasPrefix reports whether a key falls under an index prefix.
func hasPrefix(key, prefix []byte) bool {
	return bytes.HasPrefix(key, prefix)
}
