package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/board/models"
	"github.com/MohammadOTaha/side-planner/internal/board/ordering"
	"github.com/MohammadOTaha/side-planner/internal/board/repository"
	"github.com/MohammadOTaha/side-planner/internal/events"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

type taskGetter interface {
	GetTask(ctx context.Context, id string) (*models.Task, error)
}

// liveTask loads a non-deleted task of boardID.
func liveTask(ctx context.Context, g taskGetter, boardID, taskID string) (*models.Task, error) {
	task, err := g.GetTask(ctx, taskID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	if task.BoardID != boardID || task.IsDeleted() {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// checkParent verifies parentID names a live task on boardID and that
// linking taskID under it does not create a cycle.
func checkParent(ctx context.Context, g taskGetter, boardID, taskID, parentID string) error {
	seen := map[string]bool{}
	for id := parentID; id != ""; {
		if id == taskID || seen[id] {
			return fmt.Errorf("%w: %s would create a cycle", ErrInvalidParent, parentID)
		}
		seen[id] = true

		parent, err := liveTask(ctx, g, boardID, id)
		if errors.Is(err, ErrTaskNotFound) {
			if id == parentID {
				return fmt.Errorf("%w: %s is not a task on this board", ErrInvalidParent, parentID)
			}
			return nil
		}
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		id = *parent.ParentID
	}
	return nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTaskTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func validateStatus(status v1.TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return nil
}

func validatePriority(p v1.TaskPriority) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, p)
	}
	return nil
}

func validateComplexity(c v1.TaskComplexity) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidComplexity, c)
	}
	return nil
}

// newTask validates req and builds the task to insert, filling defaults.
func newTask(req *CreateTaskRequest) (*models.Task, error) {
	title, err := validateTitle(req.Title)
	if err != nil {
		return nil, err
	}
	task := &models.Task{
		ID:          uuid.New().String(),
		BoardID:     req.BoardID,
		ParentID:    req.ParentID,
		Title:       title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Complexity:  req.Complexity,
		DueDate:     req.DueDate,
	}
	if task.Status == "" {
		task.Status = v1.TaskStatusBacklog
	}
	if task.Priority == "" {
		task.Priority = v1.PriorityMedium
	}
	if task.Complexity == "" {
		task.Complexity = v1.ComplexityMedium
	}
	if err := validateStatus(task.Status); err != nil {
		return nil, err
	}
	if err := validatePriority(task.Priority); err != nil {
		return nil, err
	}
	if err := validateComplexity(task.Complexity); err != nil {
		return nil, err
	}
	if task.ParentID != nil && *task.ParentID == "" {
		task.ParentID = nil
	}
	return task, nil
}

// appendPosition returns the slot after the last task of partition.
func appendPosition(partition []*models.Task) int {
	pos := len(partition)
	if n := len(partition); n > 0 && partition[n-1].Position >= pos {
		pos = partition[n-1].Position + 1
	}
	return pos
}

// insertAtEnd appends task to its partition inside tx.
func insertAtEnd(ctx context.Context, tx repository.Tx, task *models.Task) error {
	partition, err := tx.ListPartition(ctx, task.BoardID, task.Status)
	if err != nil {
		return err
	}
	task.Position = appendPosition(partition)
	return tx.InsertTask(ctx, task)
}

// CreateTask appends a new task to the end of its column.
func (s *Service) CreateTask(ctx context.Context, req *CreateTaskRequest) (*models.Task, error) {
	task, err := newTask(req)
	if err != nil {
		return nil, err
	}
	task.CreatedAt = s.now()
	task.UpdatedAt = task.CreatedAt

	err = s.repo.InBoardTx(ctx, req.BoardID, func(tx repository.Tx) error {
		if task.ParentID != nil {
			if err := checkParent(ctx, tx, task.BoardID, task.ID, *task.ParentID); err != nil {
				return err
			}
		}
		return insertAtEnd(ctx, tx, task)
	})
	if err != nil {
		return nil, classify("create task", err, ErrBoardNotFound)
	}

	s.publishTaskEvent(ctx, events.TaskCreated, task, nil)
	s.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("board_id", task.BoardID),
		zap.String("status", string(task.Status)),
		zap.Int("position", task.Position))
	return task, nil
}

// CreateTaskWithSubtasks creates parent and every subtask in backlog in one
// transaction. Subtasks reference the parent and follow it in column order.
func (s *Service) CreateTaskWithSubtasks(ctx context.Context, parentReq *CreateTaskRequest, subtasks []SubtaskInput) (*models.Task, []*models.Task, error) {
	req := *parentReq
	req.Status = v1.TaskStatusBacklog
	parent, err := newTask(&req)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	parent.CreatedAt, parent.UpdatedAt = now, now
	children := make([]*models.Task, 0, len(subtasks))
	for _, st := range subtasks {
		child, err := newTask(&CreateTaskRequest{
			BoardID:     parent.BoardID,
			ParentID:    &parent.ID,
			Title:       st.Title,
			Description: st.Description,
			Status:      v1.TaskStatusBacklog,
			Complexity:  st.Complexity,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("subtask %q: %w", st.Title, err)
		}
		child.CreatedAt, child.UpdatedAt = now, now
		children = append(children, child)
	}

	err = s.repo.InBoardTx(ctx, parent.BoardID, func(tx repository.Tx) error {
		if parent.ParentID != nil {
			if err := checkParent(ctx, tx, parent.BoardID, parent.ID, *parent.ParentID); err != nil {
				return err
			}
		}
		if err := insertAtEnd(ctx, tx, parent); err != nil {
			return err
		}
		for _, child := range children {
			if err := insertAtEnd(ctx, tx, child); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, classify("create task with subtasks", err, ErrBoardNotFound)
	}

	s.publishTaskEvent(ctx, events.TaskCreated, parent, nil)
	for _, child := range children {
		s.publishTaskEvent(ctx, events.TaskCreated, child, nil)
	}
	s.logger.Info("task created with subtasks",
		zap.String("task_id", parent.ID),
		zap.String("board_id", parent.BoardID),
		zap.Int("subtasks", len(children)))
	return parent, children, nil
}

// GetTask returns a live task of boardID.
func (s *Service) GetTask(ctx context.Context, boardID, taskID string) (*models.Task, error) {
	task, err := liveTask(ctx, s.repo, boardID, taskID)
	if err != nil {
		return nil, classify("get task", err, ErrTaskNotFound)
	}
	return task, nil
}

// ListTasks returns the live tasks of a board in column order, then by
// position.
func (s *Service) ListTasks(ctx context.Context, boardID string) ([]*models.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, boardID)
	if err != nil {
		return nil, classify("list tasks", err, ErrBoardNotFound)
	}
	return tasks, nil
}

// ListPartition returns the live tasks of one column ordered by position.
func (s *Service) ListPartition(ctx context.Context, boardID string, status v1.TaskStatus) ([]*models.Task, error) {
	if err := validateStatus(status); err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListPartition(ctx, boardID, status)
	if err != nil {
		return nil, classify("list partition", err, ErrBoardNotFound)
	}
	return tasks, nil
}

// UpdateTask patches task details. It never touches status or position.
func (s *Service) UpdateTask(ctx context.Context, boardID, taskID string, req *UpdateTaskRequest) (*models.Task, error) {
	task, err := liveTask(ctx, s.repo, boardID, taskID)
	if err != nil {
		return nil, classify("update task", err, ErrTaskNotFound)
	}

	if req.Title != nil {
		title, err := validateTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		if err := validatePriority(*req.Priority); err != nil {
			return nil, err
		}
		task.Priority = *req.Priority
	}
	if req.Complexity != nil {
		if err := validateComplexity(*req.Complexity); err != nil {
			return nil, err
		}
		task.Complexity = *req.Complexity
	}
	switch {
	case req.ClearParent:
		task.ParentID = nil
	case req.ParentID != nil && *req.ParentID != "":
		if err := checkParent(ctx, s.repo, boardID, task.ID, *req.ParentID); err != nil {
			return nil, classify("update task", err, ErrTaskNotFound)
		}
		parentID := *req.ParentID
		task.ParentID = &parentID
	}
	switch {
	case req.ClearDueDate:
		task.DueDate = nil
	case req.DueDate != nil:
		due := *req.DueDate
		task.DueDate = &due
	}

	if err := s.repo.UpdateTaskDetails(ctx, task); err != nil {
		return nil, classify("update task", err, ErrTaskNotFound)
	}

	s.publishTaskEvent(ctx, events.TaskUpdated, task, nil)
	s.logger.Info("task updated", zap.String("task_id", task.ID))
	return task, nil
}

// DeleteTask soft-deletes a task and closes the gap it leaves in its
// column. Subtasks keep their parent reference.
func (s *Service) DeleteTask(ctx context.Context, boardID, taskID string) error {
	var task *models.Task
	err := s.repo.InBoardTx(ctx, boardID, func(tx repository.Tx) error {
		var err error
		task, err = liveTask(ctx, tx, boardID, taskID)
		if err != nil {
			return err
		}
		partition, err := tx.ListPartition(ctx, boardID, task.Status)
		if err != nil {
			return err
		}

		now := s.now()
		if err := tx.SetDeleted(ctx, task.ID, &now, now); err != nil {
			return err
		}
		task.DeletedAt = &now
		task.UpdatedAt = now
		writes := ordering.Compact(repository.Refs(partition), task.ID, task.Status)
		return tx.ApplyPlacements(ctx, writes, now)
	})
	if err != nil {
		return classify("delete task", err, ErrBoardNotFound)
	}

	s.publishTaskEvent(ctx, events.TaskDeleted, task, nil)
	s.logger.Info("task deleted", zap.String("task_id", taskID), zap.String("board_id", boardID))
	return nil
}

// RestoreTask clears the soft-delete marker and appends the task to the end
// of its column. Restoring a live task returns it unchanged.
func (s *Service) RestoreTask(ctx context.Context, boardID, taskID string) (*models.Task, error) {
	var task *models.Task
	restored := false
	err := s.repo.InBoardTx(ctx, boardID, func(tx repository.Tx) error {
		var err error
		task, err = tx.GetTask(ctx, taskID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		if err != nil {
			return err
		}
		if task.BoardID != boardID {
			return ErrTaskNotFound
		}
		if !task.IsDeleted() {
			return nil
		}

		partition, err := tx.ListPartition(ctx, boardID, task.Status)
		if err != nil {
			return err
		}
		now := s.now()
		if err := tx.SetDeleted(ctx, task.ID, nil, now); err != nil {
			return err
		}
		task.DeletedAt = nil
		task.UpdatedAt = now
		task.Position = appendPosition(partition)
		restored = true
		return tx.ApplyPlacements(ctx, []ordering.Placement{
			{ID: task.ID, Status: task.Status, Position: task.Position},
		}, now)
	})
	if err != nil {
		return nil, classify("restore task", err, ErrBoardNotFound)
	}

	if restored {
		s.publishTaskEvent(ctx, events.TaskRestored, task, nil)
		s.logger.Info("task restored", zap.String("task_id", taskID), zap.Int("position", task.Position))
	}
	return task, nil
}
