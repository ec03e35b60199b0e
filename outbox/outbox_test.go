package outbox_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"circle-route/api"
	"circle-route/outbox"

	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu     sync.Mutex
	sent   []api.Update
	failOn map[string]bool
}

func (s *recordingSender) PostUpdate(ctx context.Context, update api.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn[update.Describe()] {
		return errors.New("network down")
	}
	s.sent = append(s.sent, update)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestQueue_DrainInOrder(t *testing.T) {
	store := &outbox.MemoryStore{}
	sender := &recordingSender{}
	q := outbox.New(store, sender, discardLogger())

	updates := []api.Update{
		{Space: "東A01"},
		{Space: "東A02"},
		{Space: "東A01", Undo: true},
		{Spaces: []string{"東A02"}, Undo: true},
	}
	for _, u := range updates {
		require.NoError(t, q.Enqueue(u))
	}

	pending, err := q.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 4)
	require.NotEmpty(t, pending[0].ID)
	require.NotEqual(t, pending[0].ID, pending[1].ID)

	sent, err := q.Drain(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, sent)
	require.Equal(t, updates, sender.sent)

	pending, err = q.Pending()
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestQueue_FailureStopsAndKeepsHead(t *testing.T) {
	store := &outbox.MemoryStore{}
	sender := &recordingSender{failOn: map[string]bool{"purchase 東A02": true}}
	q := outbox.New(store, sender, discardLogger())

	require.NoError(t, q.Enqueue(api.Update{Space: "東A01"}))
	require.NoError(t, q.Enqueue(api.Update{Space: "東A02"}))
	require.NoError(t, q.Enqueue(api.Update{Space: "東A03"}))

	sent, err := q.Drain(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, sent)
	require.Equal(t, []api.Update{{Space: "東A01"}}, sender.sent)

	pending, err := q.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "東A02", pending[0].Payload.Space)

	// Backend recovers: the failed item goes first.
	sender.failOn = nil
	sent, err = q.Drain(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, sent)
	require.Equal(t, []api.Update{{Space: "東A01"}, {Space: "東A02"}, {Space: "東A03"}}, sender.sent)
}

func TestQueue_NoSenderKeepsItems(t *testing.T) {
	store := &outbox.MemoryStore{}
	q := outbox.New(store, nil, discardLogger())
	require.NoError(t, q.Enqueue(api.Update{Space: "東A01"}))

	sent, err := q.Drain(context.Background())
	require.NoError(t, err)
	require.Zero(t, sent)

	pending, err := q.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestQueue_CancelledContext(t *testing.T) {
	store := &outbox.MemoryStore{}
	sender := &recordingSender{}
	q := outbox.New(store, sender, discardLogger())
	require.NoError(t, q.Enqueue(api.Update{Space: "東A01"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sent, err := q.Drain(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, sent)
	require.Empty(t, sender.sent)
}
