// Package watcher реализует fallback-путь репликации: наблюдение за
// изменениями durable storage. Контекст, который не был открыт в момент
// отправки сообщения (или пропустил его), видит чужую запись как новое
// полное значение коллекций и замещает ими локальное состояние.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultInterval задает период опроса счетчика изменений.
const DefaultInterval = 500 * time.Millisecond

// Sequencer exposes the storage change counter.
type Sequencer interface {
	ChangeSeq(ctx context.Context) (uint64, error)
}

// Target is the part of the state store the watcher drives.
type Target interface {
	ReplaceFromStorage(ctx context.Context)
}

// Options configures a Watcher.
type Options struct {
	// Path is the storage database file. Если задан, запись соседнего
	// процесса подхватывается по fsnotify-событию, не дожидаясь тика.
	Path string

	// Interval is the fallback poll period. Defaults to DefaultInterval.
	Interval time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher наблюдает за счетчиком изменений хранилища и при каждом росте
// просит store перечитать коллекции целиком.
type Watcher struct {
	seq      Sequencer
	target   Target
	logger   *slog.Logger
	path     string
	interval time.Duration
	last     uint64
}

// New creates a Watcher.
func New(seq Sequencer, target Target, opts Options) *Watcher {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		seq:      seq,
		target:   target,
		logger:   logger,
		path:     opts.Path,
		interval: interval,
	}
}

// Run watches until ctx is cancelled.
// Собственные записи контекста тоже двигают счетчик; повторная загрузка
// в этом случае лишняя, но безвредная — состояние уже совпадает.
func (w *Watcher) Run(ctx context.Context) error {
	if last, err := w.seq.ChangeSeq(ctx); err == nil {
		w.last = last
	} else {
		w.logger.Warn("failed to read initial change seq", "error", err)
	}

	var fsEvents <-chan fsnotify.Event
	if w.path != "" {
		fw, err := fsnotify.NewWatcher()
		if err != nil {
			w.logger.Warn("fsnotify unavailable, falling back to polling", "error", err)
		} else {
			defer fw.Close()
			// наблюдаем каталог: sqlite пишет в -wal/-shm рядом с файлом БД
			if err := fw.Add(filepath.Dir(w.path)); err != nil {
				w.logger.Warn("failed to watch storage directory, falling back to polling",
					"dir", filepath.Dir(w.path), "error", err)
			} else {
				fsEvents = fw.Events
				go func() {
					for err := range fw.Errors {
						w.logger.Warn("fsnotify error", "error", err)
					}
				}()
			}
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case ev, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if !strings.HasPrefix(filepath.Base(ev.Name), base) {
				continue
			}
		}
		w.check(ctx)
	}
}

// check сравнивает счетчик с последним виденным и при росте замещает
// локальное состояние содержимым хранилища.
func (w *Watcher) check(ctx context.Context) {
	seq, err := w.seq.ChangeSeq(ctx)
	if err != nil {
		w.logger.Warn("failed to read change seq", "error", err)
		return
	}
	if seq == w.last {
		return
	}
	w.last = seq
	w.target.ReplaceFromStorage(ctx)
	w.logger.Debug("storage change observed, state replaced", "seq", seq)
}
