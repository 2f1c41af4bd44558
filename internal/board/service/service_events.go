package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/board/models"
	"github.com/MohammadOTaha/side-planner/internal/events/bus"
)

const eventSource = "board-service"

// publishTaskEvent publishes task events to the event bus
func (s *Service) publishTaskEvent(ctx context.Context, eventType string, task *models.Task, extra map[string]interface{}) {
	data := map[string]interface{}{
		"board_id":   task.BoardID,
		"task_id":    task.ID,
		"title":      task.Title,
		"status":     string(task.Status),
		"position":   task.Position,
		"priority":   string(task.Priority),
		"complexity": string(task.Complexity),
		"updated_at": task.UpdatedAt.Format(time.RFC3339),
	}
	if task.ParentID != nil {
		data["parent_id"] = *task.ParentID
	}
	for k, v := range extra {
		data[k] = v
	}
	s.publish(ctx, eventType, data)
}

func (s *Service) publishBoardEvent(ctx context.Context, eventType string, board *models.Board) {
	s.publish(ctx, eventType, map[string]interface{}{
		"board_id": board.ID,
		"owner_id": board.OwnerID,
		"name":     board.Name,
	})
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventBus == nil {
		return
	}
	event := bus.NewEvent(eventType, eventSource, data)
	if err := s.eventBus.Publish(ctx, eventType, event); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}
