package membus

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/giftstream/internal/models"
)

func newTestBus() *Bus {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// collector накапливает доставленные сообщения под мьютексом:
// handler вызывается из горутины подписчика.
type collector struct {
	mu       sync.Mutex
	messages []models.Message
}

func (c *collector) handle(msg models.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func (c *collector) snapshot() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Message(nil), c.messages...)
}

func TestBus_DeliversToAllSubscribers(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	a := &collector{}
	b := &collector{}
	bus.Subscribe(a.handle)
	bus.Subscribe(b.handle)

	two := int64(2)
	bus.Publish(models.NewSetTeam("node-a", &two))

	// сообщение доставляется всем, включая подписку издателя;
	// эхо фильтрует получатель по NodeID
	require.Eventually(t, func() bool {
		return a.len() == 1 && b.len() == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, models.MsgSetTeam, a.snapshot()[0].Type)
	assert.Equal(t, "node-a", b.snapshot()[0].NodeID)
}

func TestBus_PreservesOrderPerSubscriber(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	c := &collector{}
	bus.Subscribe(c.handle)

	const n = 50
	for i := 0; i < n; i++ {
		bus.Publish(models.NewAddGiver("node-a", models.Giver{ID: fmt.Sprintf("giver-%03d", i)}))
	}

	require.Eventually(t, func() bool { return c.len() == n }, time.Second, 10*time.Millisecond)

	for i, msg := range c.snapshot() {
		require.NotNil(t, msg.Giver)
		assert.Equal(t, fmt.Sprintf("giver-%03d", i), msg.Giver.ID)
	}
}

func TestBus_CancelStopsDelivery(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	c := &collector{}
	cancel := bus.Subscribe(c.handle)

	bus.Publish(models.NewSetTeam("node-a", nil))
	require.Eventually(t, func() bool { return c.len() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	// повторная отмена безопасна
	cancel()

	bus.Publish(models.NewSetTeam("node-a", nil))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, c.len(), "cancelled subscriber must not receive messages")
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := newTestBus()

	c := &collector{}
	cancel := bus.Subscribe(c.handle)
	bus.Close()

	// после Close публикация — no-op, отмена не паникует
	bus.Publish(models.NewSetTeam("node-a", nil))
	cancel()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, c.len())
}

func TestBus_SubscribeAfterClose(t *testing.T) {
	bus := newTestBus()
	bus.Close()

	c := &collector{}
	cancel := bus.Subscribe(c.handle)
	cancel()

	bus.Publish(models.NewSetTeam("node-a", nil))
	assert.Zero(t, c.len())
}
