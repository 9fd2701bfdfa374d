package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	// BoltDB bucket names
	bucketCollections = []byte("collections")
	bucketAdmin       = []byte("admin")
	bucketIdentity    = []byte("identity")
)

// Storage represents BoltDB storage implementation for one context.
// Файл держится под эксклюзивной блокировкой, поэтому bolt подходит
// для контекстов внутри одного процесса; межпроцессным контекстам
// нужен sqlite-бэкенд.
type Storage struct {
	db *bbolt.DB
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{db: db}

	// Инициализируем buckets
	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path. Наблюдатель хранилища
// подписывается на fsnotify-события этого файла.
func (s *Storage) Path() string {
	return s.db.Path()
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketCollections, bucketAdmin, bucketIdentity} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}
