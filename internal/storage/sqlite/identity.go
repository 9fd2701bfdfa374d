package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/giftstream/internal/models"
	"github.com/iudanet/giftstream/internal/storage"
)

// SaveIdentity stores the local giver identity record
func (s *Storage) SaveIdentity(ctx context.Context, giver *models.Giver) error {
	data, err := json.Marshal(giver)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO giver_identity (id, payload) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`,
		data)
	if err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}
	return nil
}

// GetIdentity retrieves the local giver identity record
func (s *Storage) GetIdentity(ctx context.Context) (*models.Giver, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM giver_identity WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}

	giver := &models.Giver{}
	if err := json.Unmarshal(data, giver); err != nil {
		return nil, fmt.Errorf("failed to unmarshal identity: %w", err)
	}
	return giver, nil
}

// DeleteIdentity removes the local giver identity record
func (s *Storage) DeleteIdentity(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM giver_identity WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrIdentityNotFound
	}
	return nil
}
