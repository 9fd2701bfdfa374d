// Package memory предоставляет map-backed реализацию Storage для тестов
// и эфемерных демо. Коллекции хранятся сериализованными в JSON, как и в
// durable-реализациях, поэтому round-trip и corrupt-payload сценарии
// воспроизводимы без файлов на диске.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/iudanet/giftstream/internal/models"
	"github.com/iudanet/giftstream/internal/storage"
)

// Storage is an in-memory Storage implementation.
type Storage struct {
	slots  map[string][]byte
	cred   *storage.AdminCredential
	ident  *models.Giver
	seq    uint64
	closed bool
	mu     sync.RWMutex
}

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{
		slots: make(map[string][]byte),
	}
}

// Close marks the storage closed.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// PutRaw записывает сырые байты в слот коллекции, минуя сериализацию.
// Используется тестами для имитации испорченного persisted payload.
func (s *Storage) PutRaw(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = data
	s.seq++
}

func (s *Storage) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}
	s.slots[key] = data
	s.seq++
	return nil
}

func (s *Storage) load(key string, v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return storage.ErrStorageClosed
	}

	data, ok := s.slots[key]
	if !ok {
		return storage.ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// SaveTeams stores the whole team list.
func (s *Storage) SaveTeams(ctx context.Context, teams []models.Team) error {
	return s.save(storage.KeyTeams, teams)
}

// LoadTeams retrieves the stored team list.
func (s *Storage) LoadTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := s.load(storage.KeyTeams, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// SaveGivers stores the whole giver list.
func (s *Storage) SaveGivers(ctx context.Context, givers []models.Giver) error {
	return s.save(storage.KeyGivers, givers)
}

// LoadGivers retrieves the stored giver list.
func (s *Storage) LoadGivers(ctx context.Context) ([]models.Giver, error) {
	var givers []models.Giver
	if err := s.load(storage.KeyGivers, &givers); err != nil {
		return nil, err
	}
	return givers, nil
}

// SaveGifts stores the whole gift catalog.
func (s *Storage) SaveGifts(ctx context.Context, gifts []models.Gift) error {
	return s.save(storage.KeyGifts, gifts)
}

// LoadGifts retrieves the stored gift catalog.
func (s *Storage) LoadGifts(ctx context.Context) ([]models.Gift, error) {
	var gifts []models.Gift
	if err := s.load(storage.KeyGifts, &gifts); err != nil {
		return nil, err
	}
	return gifts, nil
}

// SaveEvents stores the whole gift event log.
func (s *Storage) SaveEvents(ctx context.Context, events []models.GiftEvent) error {
	return s.save(storage.KeyGiftEvents, events)
}

// LoadEvents retrieves the stored gift event log.
func (s *Storage) LoadEvents(ctx context.Context) ([]models.GiftEvent, error) {
	var events []models.GiftEvent
	if err := s.load(storage.KeyGiftEvents, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SaveCurrentTeam stores the current-team selector.
func (s *Storage) SaveCurrentTeam(ctx context.Context, teamID *int64) error {
	return s.save(storage.KeyCurrentTeam, teamID)
}

// LoadCurrentTeam retrieves the current-team selector.
func (s *Storage) LoadCurrentTeam(ctx context.Context) (*int64, error) {
	var teamID *int64
	if err := s.load(storage.KeyCurrentTeam, &teamID); err != nil {
		return nil, err
	}
	return teamID, nil
}

// ChangeSeq returns the change counter.
func (s *Storage) ChangeSeq(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, storage.ErrStorageClosed
	}
	return s.seq, nil
}

// SaveAdminCredential stores the admin credential hash.
func (s *Storage) SaveAdminCredential(ctx context.Context, cred *storage.AdminCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}
	c := *cred
	s.cred = &c
	return nil
}

// GetAdminCredential retrieves the stored admin credential.
func (s *Storage) GetAdminCredential(ctx context.Context) (*storage.AdminCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrStorageClosed
	}
	if s.cred == nil {
		return nil, storage.ErrCredentialNotFound
	}
	c := *s.cred
	return &c, nil
}

// SaveIdentity stores the local giver identity record.
func (s *Storage) SaveIdentity(ctx context.Context, giver *models.Giver) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}
	g := *giver
	s.ident = &g
	return nil
}

// GetIdentity retrieves the local giver identity record.
func (s *Storage) GetIdentity(ctx context.Context) (*models.Giver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrStorageClosed
	}
	if s.ident == nil {
		return nil, storage.ErrIdentityNotFound
	}
	g := *s.ident
	return &g, nil
}

// DeleteIdentity removes the local giver identity record.
func (s *Storage) DeleteIdentity(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}
	if s.ident == nil {
		return storage.ErrIdentityNotFound
	}
	s.ident = nil
	return nil
}
