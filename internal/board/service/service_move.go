package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/board/models"
	"github.com/MohammadOTaha/side-planner/internal/board/ordering"
	"github.com/MohammadOTaha/side-planner/internal/board/repository"
	"github.com/MohammadOTaha/side-planner/internal/events"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

// MoveTask places a task at position within the status column of boardID.
//
// position is clamped to [0, N] where N is the size of the destination
// column without the moving task. Both touched columns are contiguous from
// zero afterwards and only rows whose status or position changed are
// written. Moving a task to the slot it already holds writes nothing.
//
// Ownership of boardID must be checked by the caller.
func (s *Service) MoveTask(ctx context.Context, boardID, taskID string, status v1.TaskStatus, position int) (*MoveResult, error) {
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	result := &MoveResult{Columns: map[v1.TaskStatus][]*models.Task{}}
	var writes int
	err := s.repo.InBoardTx(ctx, boardID, func(tx repository.Tx) error {
		task, err := liveTask(ctx, tx, boardID, taskID)
		if err != nil {
			return err
		}
		result.FromStatus = task.Status

		destination, err := tx.ListPartition(ctx, boardID, status)
		if err != nil {
			return err
		}
		source := destination
		if task.Status != status {
			if source, err = tx.ListPartition(ctx, boardID, task.Status); err != nil {
				return err
			}
		}

		plan := ordering.PlanMove(ordering.Move{
			TaskID:       task.ID,
			FromStatus:   task.Status,
			FromPosition: task.Position,
			ToStatus:     status,
			ToPosition:   position,
		}, repository.Refs(destination), repository.Refs(source))

		if plan.NoOp {
			result.Task = task
			result.Columns[status] = destination
			return nil
		}

		if err := tx.ApplyPlacements(ctx, plan.Writes, s.now()); err != nil {
			return err
		}
		writes = len(plan.Writes)
		result.Moved = true

		// Read back inside the transaction so the response matches what
		// was committed.
		if result.Columns[status], err = tx.ListPartition(ctx, boardID, status); err != nil {
			return err
		}
		if task.Status != status {
			if result.Columns[task.Status], err = tx.ListPartition(ctx, boardID, task.Status); err != nil {
				return err
			}
		}
		result.Task, err = tx.GetTask(ctx, task.ID)
		return err
	})
	if err != nil {
		return nil, classify("move task", err, ErrBoardNotFound)
	}

	if !result.Moved {
		s.logger.WithBoardID(boardID).WithTaskID(taskID).Debug("task move is a no-op",
			zap.String("status", string(status)),
			zap.Int("position", result.Task.Position))
		return result, nil
	}

	s.publishTaskEvent(ctx, events.TaskMoved, result.Task, map[string]interface{}{
		"from_status": string(result.FromStatus),
		"to_status":   string(status),
	})
	s.logger.WithBoardID(boardID).WithTaskID(taskID).Info("task moved",
		zap.String("from_status", string(result.FromStatus)),
		zap.String("to_status", string(status)),
		zap.Int("position", result.Task.Position),
		zap.Int("rows_written", writes))
	return result, nil
}
