package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/giftstream/internal/models"
	"github.com/iudanet/giftstream/internal/storage"
)

// saveCollection сериализует коллекцию в JSON, пишет ее целиком под своим
// ключом и двигает счетчик изменений — все в одной транзакции.
func (s *Storage) saveCollection(ctx context.Context, key string, v any) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCollections)
		if bucket == nil {
			return fmt.Errorf("collections bucket not found")
		}

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", key, err)
		}

		if err := bucket.Put([]byte(key), data); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}

		// sequence бакета служит счетчиком изменений для watcher'а
		if _, err := bucket.NextSequence(); err != nil {
			return fmt.Errorf("failed to advance change seq: %w", err)
		}

		return nil
	})
}

// loadCollection читает и десериализует коллекцию по ключу.
// Возвращает storage.ErrNotFound, если слот никогда не записывался.
func (s *Storage) loadCollection(ctx context.Context, key string, v any) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCollections)
		if bucket == nil {
			return fmt.Errorf("collections bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrNotFound
		}

		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", key, err)
		}

		return nil
	})
}

// SaveTeams stores the whole team list.
func (s *Storage) SaveTeams(ctx context.Context, teams []models.Team) error {
	return s.saveCollection(ctx, storage.KeyTeams, teams)
}

// LoadTeams retrieves the stored team list.
func (s *Storage) LoadTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := s.loadCollection(ctx, storage.KeyTeams, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// SaveGivers stores the whole giver list.
func (s *Storage) SaveGivers(ctx context.Context, givers []models.Giver) error {
	return s.saveCollection(ctx, storage.KeyGivers, givers)
}

// LoadGivers retrieves the stored giver list.
func (s *Storage) LoadGivers(ctx context.Context) ([]models.Giver, error) {
	var givers []models.Giver
	if err := s.loadCollection(ctx, storage.KeyGivers, &givers); err != nil {
		return nil, err
	}
	return givers, nil
}

// SaveGifts stores the whole gift catalog.
func (s *Storage) SaveGifts(ctx context.Context, gifts []models.Gift) error {
	return s.saveCollection(ctx, storage.KeyGifts, gifts)
}

// LoadGifts retrieves the stored gift catalog.
func (s *Storage) LoadGifts(ctx context.Context) ([]models.Gift, error) {
	var gifts []models.Gift
	if err := s.loadCollection(ctx, storage.KeyGifts, &gifts); err != nil {
		return nil, err
	}
	return gifts, nil
}

// SaveEvents stores the whole gift event log.
func (s *Storage) SaveEvents(ctx context.Context, events []models.GiftEvent) error {
	return s.saveCollection(ctx, storage.KeyGiftEvents, events)
}

// LoadEvents retrieves the stored gift event log.
func (s *Storage) LoadEvents(ctx context.Context) ([]models.GiftEvent, error) {
	var events []models.GiftEvent
	if err := s.loadCollection(ctx, storage.KeyGiftEvents, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SaveCurrentTeam stores the current-team selector (nil сериализуется
// как JSON null — слот записан, но сцена пуста).
func (s *Storage) SaveCurrentTeam(ctx context.Context, teamID *int64) error {
	return s.saveCollection(ctx, storage.KeyCurrentTeam, teamID)
}

// LoadCurrentTeam retrieves the current-team selector.
func (s *Storage) LoadCurrentTeam(ctx context.Context) (*int64, error) {
	var teamID *int64
	if err := s.loadCollection(ctx, storage.KeyCurrentTeam, &teamID); err != nil {
		return nil, err
	}
	return teamID, nil
}

// ChangeSeq returns the change counter advanced by every save.
func (s *Storage) ChangeSeq(ctx context.Context) (uint64, error) {
	var seq uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCollections)
		if bucket == nil {
			return fmt.Errorf("collections bucket not found")
		}
		seq = bucket.Sequence()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seq, nil
}
