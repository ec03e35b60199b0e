// Package outbox keeps backend updates in the order they happened and sends
// them one at a time. A failed send stops the drain; the item stays at the
// head and is retried on the next drain.
package outbox

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"circle-route/api"

	"github.com/google/uuid"
)

type Item struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"timestamp"`
	Payload   api.Update `json:"payload"`
}

// Store persists queued items. Pending must return them oldest first.
type Store interface {
	Append(item Item) error
	Pending() ([]Item, error)
	Remove(id string) error
}

type Sender interface {
	PostUpdate(ctx context.Context, update api.Update) error
}

type Queue struct {
	store    Store
	sender   Sender
	logger   *slog.Logger
	now      func() time.Time
	draining atomic.Bool
}

// New builds a queue. sender may be nil when no backend is configured;
// items are then only stored.
func New(store Store, sender Sender, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		store:  store,
		sender: sender,
		logger: logger,
		now:    time.Now,
	}
}

func (q *Queue) Enqueue(update api.Update) error {
	item := Item{
		ID:        uuid.NewString(),
		CreatedAt: q.now().UTC(),
		Payload:   update,
	}
	if err := q.store.Append(item); err != nil {
		return fmt.Errorf("queue %s: %w", update.Describe(), err)
	}
	q.logger.Debug("queued update", "id", item.ID, "update", update.Describe())
	return nil
}

func (q *Queue) Pending() ([]Item, error) {
	return q.store.Pending()
}

// Drain sends queued items head first and returns how many were delivered.
// Only one drain runs at a time; a concurrent call returns immediately.
func (q *Queue) Drain(ctx context.Context) (int, error) {
	if q.sender == nil {
		q.logger.Debug("no backend configured, keeping updates queued")
		return 0, nil
	}
	if !q.draining.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer q.draining.Store(false)

	sent := 0
	for {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		items, err := q.store.Pending()
		if err != nil {
			return sent, fmt.Errorf("load queue: %w", err)
		}
		if len(items) == 0 {
			return sent, nil
		}

		head := items[0]
		if err := q.sender.PostUpdate(ctx, head.Payload); err != nil {
			q.logger.Warn("sync failed, will retry later",
				"id", head.ID,
				"update", head.Payload.Describe(),
				"pending", len(items),
				"error", err)
			return sent, err
		}
		if err := q.store.Remove(head.ID); err != nil {
			return sent, fmt.Errorf("dequeue %s: %w", head.ID, err)
		}
		sent++
		q.logger.Debug("synced update", "id", head.ID, "update", head.Payload.Describe())
	}
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.Mutex
	items []Item
}

func (m *MemoryStore) Append(item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, item)
	return nil
}

func (m *MemoryStore) Pending() ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Item(nil), m.items...), nil
}

func (m *MemoryStore) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items {
		if item.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}
