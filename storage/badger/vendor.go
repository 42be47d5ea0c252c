package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/patter-ai/patter/core"
	"github.com/patter-ai/patter/storage"
)

// VendorRepository implements storage.VendorRepository for BadgerDB.
type VendorRepository struct {
	backend *Backend
}

var _ storage.VendorRepository = (*VendorRepository)(nil)

// NewVendorRepository creates a new VendorRepository.
func NewVendorRepository(backend *Backend) (*VendorRepository, error) {
	return &VendorRepository{backend: backend}, nil
}

// Close releases resources. VendorRepository has no resources to release.
func (r *VendorRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *VendorRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddVendor stores a new vendor.
func (r *VendorRepository) AddVendor(ctx context.Context, vendor *core.Vendor) (*core.Vendor, error) {
	if err := core.ValidateVendor(vendor); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if vendor.Id == "" {
			vendor.Id = core.NewID()
		}
		vendor.InsertedAt = storageNow()
		vendor.UpdatedAt = vendor.InsertedAt

		key := makeRecordKey(vendorPrefix, vendor.Id)
		if err := tx.Set(key, storage.MarshalVendor(vendor)); err != nil {
			return err
		}

		// Creation-time index; selection tie-breaking depends on it.
		idxKey := makeTimeKey(vendorAgentIdx, vendor.AgentId, vendor.InsertedAt, vendor.Id)
		if err := tx.Set(idxKey, storage.MarshalID(vendor.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return vendor, err
}

// GetVendor retrieves a single vendor by ID.
func (r *VendorRepository) GetVendor(ctx context.Context, id core.ID) (*core.Vendor, error) {
	var result *core.Vendor
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord(tx, makeRecordKey(vendorPrefix, id), storage.UnmarshalVendor)
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

// GetVendorsByAgent retrieves an agent's vendors ordered by creation
// time, oldest first.
func (r *VendorRepository) GetVendorsByAgent(ctx context.Context, agentID core.ID) ([]*core.Vendor, error) {
	var results []*core.Vendor
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := scanIndexIDs(tx, makeScopePrefix(vendorAgentIdx, agentID))
		if err != nil {
			return err
		}
		for _, id := range ids {
			vendor, err := readRecord(tx, makeRecordKey(vendorPrefix, id), storage.UnmarshalVendor)
			if err != nil {
				return err
			}
			if vendor != nil {
				results = append(results, vendor)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteVendor removes a vendor by ID.
func (r *VendorRepository) DeleteVendor(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRecordKey(vendorPrefix, id)
		vendor, err := readRecord(tx, key, storage.UnmarshalVendor)
		if err != nil {
			return err
		}
		if vendor == nil {
			return storage.ErrNotFound
		}

		idxKey := makeTimeKey(vendorAgentIdx, vendor.AgentId, vendor.InsertedAt, vendor.Id)
		if err := tx.Delete(idxKey); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
