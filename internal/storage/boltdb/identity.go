package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/giftstream/internal/models"
	"github.com/iudanet/giftstream/internal/storage"
)

var identityKey = []byte("current")

// SaveIdentity stores the local giver identity record
func (s *Storage) SaveIdentity(ctx context.Context, giver *models.Giver) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketIdentity)
		if bucket == nil {
			return fmt.Errorf("identity bucket not found")
		}

		data, err := json.Marshal(giver)
		if err != nil {
			return fmt.Errorf("failed to marshal identity: %w", err)
		}

		if err := bucket.Put(identityKey, data); err != nil {
			return fmt.Errorf("failed to save identity: %w", err)
		}

		return nil
	})
}

// GetIdentity retrieves the local giver identity record
func (s *Storage) GetIdentity(ctx context.Context) (*models.Giver, error) {
	var giver *models.Giver

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketIdentity)
		if bucket == nil {
			return fmt.Errorf("identity bucket not found")
		}

		data := bucket.Get(identityKey)
		if data == nil {
			return storage.ErrIdentityNotFound
		}

		giver = &models.Giver{}
		if err := json.Unmarshal(data, giver); err != nil {
			return fmt.Errorf("failed to unmarshal identity: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return giver, nil
}

// DeleteIdentity removes the local giver identity record
func (s *Storage) DeleteIdentity(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketIdentity)
		if bucket == nil {
			return fmt.Errorf("identity bucket not found")
		}

		if bucket.Get(identityKey) == nil {
			return storage.ErrIdentityNotFound
		}

		if err := bucket.Delete(identityKey); err != nil {
			return fmt.Errorf("failed to delete identity: %w", err)
		}

		return nil
	})
}
