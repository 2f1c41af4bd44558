package bus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadOTaha/side-planner/internal/common/logger"
)

func receive(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
		return nil
	}
}

func TestMemoryEventBus_PublishSubscribe(t *testing.T) {
	b := NewMemoryEventBus(logger.NewNop())
	defer b.Close()

	received := make(chan *Event, 1)
	sub, err := b.Subscribe("task.moved", func(ctx context.Context, e *Event) error {
		received <- e
		return nil
	})
	require.NoError(t, err)
	assert.True(t, sub.IsValid())

	event := NewEvent("task.moved", "test", map[string]interface{}{"board_id": "b1"})
	require.NoError(t, b.Publish(context.Background(), "task.moved", event))

	got := receive(t, received)
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, "b1", got.String("board_id"))
	assert.Empty(t, got.String("missing"))
}

func TestMemoryEventBus_Wildcards(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		match   bool
	}{
		{"task.*", "task.moved", true},
		{"task.*", "task.moved.extra", false},
		{"task.>", "task.moved.extra", true},
		{"task.>", "board.created", false},
		{"*.created", "board.created", true},
		{"task.moved", "task.moved", true},
		{"task.moved", "task.movedx", false},
	}
	for _, tt := range tests {
		sub := &memorySubscription{subject: tt.pattern, pattern: compilePattern(tt.pattern)}
		assert.Equal(t, tt.match, sub.matches(tt.subject), "%s vs %s", tt.pattern, tt.subject)
	}
}

func TestMemoryEventBus_Unsubscribe(t *testing.T) {
	b := NewMemoryEventBus(logger.NewNop())
	defer b.Close()

	var count int32
	sub, err := b.Subscribe("board.>", func(ctx context.Context, e *Event) error {
		atomic.AddInt32(&count, 1)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, sub.Unsubscribe())
	assert.False(t, sub.IsValid())

	require.NoError(t, b.Publish(context.Background(), "board.created", NewEvent("board.created", "test", nil)))
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&count))
}

func TestMemoryEventBus_HandlerSurvivesPublisherCancel(t *testing.T) {
	b := NewMemoryEventBus(logger.NewNop())
	defer b.Close()

	errs := make(chan error, 1)
	_, err := b.Subscribe("task.created", func(ctx context.Context, e *Event) error {
		errs <- ctx.Err()
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, b.Publish(ctx, "task.created", NewEvent("task.created", "test", nil)))
	cancel()

	select {
	case err := <-errs:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("handler not called")
	}
}

func TestMemoryEventBus_Close(t *testing.T) {
	b := NewMemoryEventBus(logger.NewNop())
	assert.True(t, b.IsConnected())
	b.Close()
	b.Close()
	assert.False(t, b.IsConnected())

	assert.ErrorIs(t, b.Publish(context.Background(), "x", NewEvent("x", "test", nil)), ErrClosed)
	_, err := b.Subscribe("x", func(context.Context, *Event) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}
