package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/giftstream/internal/storage"
)

var credentialKey = []byte("current")

// SaveAdminCredential stores the admin credential hash
func (s *Storage) SaveAdminCredential(ctx context.Context, cred *storage.AdminCredential) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAdmin)
		if bucket == nil {
			return fmt.Errorf("admin bucket not found")
		}

		data, err := json.Marshal(cred)
		if err != nil {
			return fmt.Errorf("failed to marshal admin credential: %w", err)
		}

		if err := bucket.Put(credentialKey, data); err != nil {
			return fmt.Errorf("failed to save admin credential: %w", err)
		}

		return nil
	})
}

// GetAdminCredential retrieves the stored admin credential
func (s *Storage) GetAdminCredential(ctx context.Context) (*storage.AdminCredential, error) {
	var cred *storage.AdminCredential

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAdmin)
		if bucket == nil {
			return fmt.Errorf("admin bucket not found")
		}

		data := bucket.Get(credentialKey)
		if data == nil {
			return storage.ErrCredentialNotFound
		}

		cred = &storage.AdminCredential{}
		if err := json.Unmarshal(data, cred); err != nil {
			return fmt.Errorf("failed to unmarshal admin credential: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return cred, nil
}
