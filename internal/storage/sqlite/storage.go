package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage represents SQLite storage implementation.
// В отличие от bolt-бэкенда, файл sqlite в WAL-режиме могут разделять
// несколько OS-процессов — это субстрат, через который сходятся контексты
// из разных процессов (аналог per-origin localStorage).
type Storage struct {
	db   *sql.DB
	path string
}

// New creates a new SQLite storage instance
// dbPath is the path to the SQLite database file
// Use ":memory:" for in-memory database (useful for testing)
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем соединение с БД
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Настраиваем connection pool
	// SQLite с WAL mode может поддерживать несколько читателей, но только одного писателя
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Включаем WAL mode и другие оптимизации
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	storage := &Storage{db: db, path: dbPath}

	// Запускаем миграции
	if err := storage.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file path. Наблюдатель хранилища
// подписывается на fsnotify-события этого файла и его -wal соседа.
func (s *Storage) Path() string {
	return s.path
}

// runMigrations выполняет миграции из embedded FS
func (s *Storage) runMigrations() error {
	// Устанавливаем dialect для SQLite
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	// Устанавливаем источник миграций из embedded FS
	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
