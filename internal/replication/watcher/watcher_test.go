package watcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSeq — управляемый счетчик изменений.
type fakeSeq struct {
	seq   atomic.Uint64
	reads atomic.Int64
	err   atomic.Bool
}

func (f *fakeSeq) ChangeSeq(ctx context.Context) (uint64, error) {
	f.reads.Add(1)
	if f.err.Load() {
		return 0, errors.New("storage unavailable")
	}
	return f.seq.Load(), nil
}

// fakeTarget считает вызовы ReplaceFromStorage.
type fakeTarget struct {
	calls atomic.Int64
}

func (f *fakeTarget) ReplaceFromStorage(ctx context.Context) {
	f.calls.Add(1)
}

func runWatcher(t *testing.T, seq Sequencer, target Target, opts Options) context.CancelFunc {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	w := New(seq, target, opts)
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("watcher did not stop after cancel")
		}
	})

	return cancel
}

func TestWatcher_ReplacesOnSeqGrowth(t *testing.T) {
	seq := &fakeSeq{}
	target := &fakeTarget{}
	runWatcher(t, seq, target, Options{Interval: 10 * time.Millisecond})

	// счетчик не двигается — загрузок нет
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, target.calls.Load())

	seq.seq.Add(1)
	require.Eventually(t, func() bool {
		return target.calls.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// без нового роста повторных загрузок нет
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), target.calls.Load())
}

func TestWatcher_CoalescesBurstIntoSingleReplace(t *testing.T) {
	seq := &fakeSeq{}
	target := &fakeTarget{}
	runWatcher(t, seq, target, Options{Interval: 50 * time.Millisecond})

	// дожидаемся стартового чтения счетчика, иначе рост незаметен
	require.Eventually(t, func() bool {
		return seq.reads.Load() >= 1
	}, time.Second, time.Millisecond)

	// несколько записей между тиками — один replace на тик
	seq.seq.Add(5)
	require.Eventually(t, func() bool {
		return target.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int64(1), target.calls.Load())
}

func TestWatcher_SurvivesSeqErrors(t *testing.T) {
	seq := &fakeSeq{}
	seq.err.Store(true)
	target := &fakeTarget{}
	runWatcher(t, seq, target, Options{Interval: 10 * time.Millisecond})

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, target.calls.Load())

	// хранилище ожило — наблюдение продолжается
	seq.err.Store(false)
	seq.seq.Add(1)
	require.Eventually(t, func() bool {
		return target.calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	seq := &fakeSeq{}
	target := &fakeTarget{}
	cancel := runWatcher(t, seq, target, Options{Interval: 10 * time.Millisecond})

	cancel()
	time.Sleep(30 * time.Millisecond)

	before := target.calls.Load()
	seq.seq.Add(1)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, target.calls.Load(), "cancelled watcher must not observe further changes")
}
