package websocket

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	"github.com/MohammadOTaha/side-planner/internal/events"
	"github.com/MohammadOTaha/side-planner/internal/events/bus"
	ws "github.com/MohammadOTaha/side-planner/pkg/websocket"
)

// BoardEventBroadcaster forwards board and task events to the clients
// watching the board named in the event. New boards go to every connection
// of their owner instead, since nobody can be subscribed to them yet.
type BoardEventBroadcaster struct {
	hub           *Hub
	subscriptions []bus.Subscription
	logger        *logger.Logger
}

// RegisterBoardNotifications subscribes to every board and task subject. The
// subscriptions end when ctx is cancelled. A failed subscription undoes the
// ones already made.
func RegisterBoardNotifications(ctx context.Context, eventBus bus.EventBus, hub *Hub, log *logger.Logger) (*BoardEventBroadcaster, error) {
	b := &BoardEventBroadcaster{
		hub:    hub,
		logger: log.WithFields(zap.String("component", "ws-board-broadcaster")),
	}
	if eventBus == nil {
		return b, nil
	}

	for _, subject := range []string{events.BoardWildcard, events.TaskWildcard} {
		if err := b.subscribe(eventBus, subject); err != nil {
			b.Close()
			return nil, err
		}
	}

	go func() {
		<-ctx.Done()
		b.Close()
	}()
	return b, nil
}

func (b *BoardEventBroadcaster) Close() {
	for _, sub := range b.subscriptions {
		if sub != nil && sub.IsValid() {
			_ = sub.Unsubscribe()
		}
	}
	b.subscriptions = nil
}

func (b *BoardEventBroadcaster) subscribe(eventBus bus.EventBus, subject string) error {
	sub, err := eventBus.Subscribe(subject, b.forward)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	b.subscriptions = append(b.subscriptions, sub)
	return nil
}

func (b *BoardEventBroadcaster) forward(_ context.Context, event *bus.Event) error {
	boardID := event.String("board_id")
	if boardID == "" {
		b.logger.Debug("dropping event without board_id", zap.String("event_type", event.Type))
		return nil
	}

	msg, err := ws.NewNotification(event.Type, event.Data)
	if err != nil {
		b.logger.Error("failed to build websocket notification", zap.String("action", event.Type), zap.Error(err))
		return nil
	}

	if event.Type == events.BoardCreated {
		ownerID := event.String("owner_id")
		if ownerID == "" {
			b.logger.Debug("dropping board.created without owner_id", zap.String("board_id", boardID))
			return nil
		}
		b.hub.BroadcastToOwner(ownerID, msg)
		return nil
	}

	b.hub.BroadcastToBoard(boardID, msg)
	if event.Type == events.BoardDeleted {
		b.hub.DropBoard(boardID)
	}
	return nil
}
