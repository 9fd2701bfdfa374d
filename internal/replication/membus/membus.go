// Package membus реализует живой канал репликации: эфемерный pub/sub,
// доставляющий типизированные сообщения всем подписчикам, открытым в момент
// отправки. Сообщения контекстам, которые не были открыты, теряются на этом
// пути — их подбирает storage-fallback.
package membus

import (
	"log/slog"
	"sync"

	"github.com/iudanet/giftstream/internal/models"
)

// subscriberBuffer задает размер очереди одного подписчика.
// При переполнении сообщения отбрасываются: канал best-effort,
// издатель никогда не блокируется.
const subscriberBuffer = 256

type subscriber struct {
	ch chan models.Message
}

// Bus is an in-process broadcast channel shared by every context
// (store instance) running in the same process.
type Bus struct {
	logger *slog.Logger
	subs   map[int]*subscriber
	nextID int
	closed bool
	mu     sync.Mutex
}

// New creates a Bus.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger: logger,
		subs:   make(map[int]*subscriber),
	}
}

// Subscribe registers a handler for every published message and returns
// a cancel function releasing the subscription.
// Handler вызывается в отдельной горутине подписчика; порядок сообщений
// внутри одной подписки сохраняется.
func (b *Bus) Subscribe(fn func(models.Message)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	id := b.nextID
	b.nextID++

	sub := &subscriber{ch: make(chan models.Message, subscriberBuffer)}
	b.subs[id] = sub

	go func() {
		for msg := range sub.ch {
			fn(msg)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; !ok {
				return
			}
			delete(b.subs, id)
			close(sub.ch)
		})
	}
}

// Publish delivers msg to every live subscriber, fire-and-forget.
// Подписчики с переполненной очередью сообщение не получают.
func (b *Bus) Publish(msg models.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		select {
		case sub.ch <- msg:
		default:
			b.logger.Warn("dropping replication message, subscriber queue full", "type", msg.Type)
		}
	}
}

// Close tears down the bus and all subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}
