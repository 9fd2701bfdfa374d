package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/giftstream/internal/storage"
)

// SaveAdminCredential stores the admin credential hash
func (s *Storage) SaveAdminCredential(ctx context.Context, cred *storage.AdminCredential) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_credential (id, hash, salt, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET hash = excluded.hash, salt = excluded.salt, updated_at = excluded.updated_at`,
		cred.Hash, cred.Salt, cred.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save admin credential: %w", err)
	}
	return nil
}

// GetAdminCredential retrieves the stored admin credential
func (s *Storage) GetAdminCredential(ctx context.Context) (*storage.AdminCredential, error) {
	cred := &storage.AdminCredential{}
	err := s.db.QueryRowContext(ctx,
		`SELECT hash, salt, updated_at FROM admin_credential WHERE id = 1`).
		Scan(&cred.Hash, &cred.Salt, &cred.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin credential: %w", err)
	}
	return cred, nil
}
