package storage

import (
	"context"

	"github.com/iudanet/giftstream/internal/models"
)

// Имена слотов, под которыми коллекции хранятся в durable storage
const (
	KeyTeams       = "teams"
	KeyGivers      = "givers"
	KeyGifts       = "gifts"
	KeyGiftEvents  = "gift_events"
	KeyCurrentTeam = "current_team"
)

//go:generate moq -out storage_mock.go . Storage

// Storage объединяет все персистентные интерфейсы одного контекста.
type Storage interface {
	CollectionStorage
	AdminStorage
	IdentityStorage

	// Close closes the underlying storage
	Close() error
}

// CollectionStorage defines durable per-context persistence of the five
// state collections. Every save writes the whole serialized collection
// (never a delta) and advances the change sequence.
type CollectionStorage interface {
	// SaveTeams stores the whole team list
	SaveTeams(ctx context.Context, teams []models.Team) error

	// LoadTeams retrieves the stored team list
	// Returns ErrNotFound if the slot has never been written
	LoadTeams(ctx context.Context) ([]models.Team, error)

	// SaveGivers stores the whole giver list
	SaveGivers(ctx context.Context, givers []models.Giver) error

	// LoadGivers retrieves the stored giver list
	// Returns ErrNotFound if the slot has never been written
	LoadGivers(ctx context.Context) ([]models.Giver, error)

	// SaveGifts stores the whole gift catalog
	SaveGifts(ctx context.Context, gifts []models.Gift) error

	// LoadGifts retrieves the stored gift catalog
	// Returns ErrNotFound if the slot has never been written
	LoadGifts(ctx context.Context) ([]models.Gift, error)

	// SaveEvents stores the whole gift event log
	SaveEvents(ctx context.Context, events []models.GiftEvent) error

	// LoadEvents retrieves the stored gift event log
	// Returns ErrNotFound if the slot has never been written
	LoadEvents(ctx context.Context) ([]models.GiftEvent, error)

	// SaveCurrentTeam stores the current-team selector (nil = сцена пуста)
	SaveCurrentTeam(ctx context.Context, teamID *int64) error

	// LoadCurrentTeam retrieves the current-team selector
	// Returns ErrNotFound if the slot has never been written
	LoadCurrentTeam(ctx context.Context) (*int64, error)

	// ChangeSeq returns a counter that grows on every successful save.
	// Используется storage-watcher'ом для обнаружения чужих записей.
	ChangeSeq(ctx context.Context) (uint64, error)
}

// AdminCredential представляет хеш пароля администратора в хранилище.
// Пароль хранится только как argon2id хеш, никогда открытым текстом.
type AdminCredential struct {
	Hash      string `json:"hash"` // base64-encoded argon2id hash
	Salt      string `json:"salt"` // base64-encoded random salt
	UpdatedAt int64  `json:"updated_at"`
}

// AdminStorage defines persistence of the admin gate credential.
type AdminStorage interface {
	// SaveAdminCredential stores the admin credential hash
	SaveAdminCredential(ctx context.Context, cred *AdminCredential) error

	// GetAdminCredential retrieves the stored admin credential
	// Returns ErrCredentialNotFound if no credential has been set
	GetAdminCredential(ctx context.Context) (*AdminCredential, error)
}

// IdentityStorage defines persistence of the giver-facing "who am I" record.
// Хранится отдельно от коллекции дарителей и сверяется с ней через
// дедупликацию по номеру телефона при каждой загрузке контекста.
type IdentityStorage interface {
	// SaveIdentity stores the local giver identity record
	SaveIdentity(ctx context.Context, giver *models.Giver) error

	// GetIdentity retrieves the local giver identity record
	// Returns ErrIdentityNotFound if no identity has been saved
	GetIdentity(ctx context.Context) (*models.Giver, error)

	// DeleteIdentity removes the local giver identity record
	DeleteIdentity(ctx context.Context) error
}
