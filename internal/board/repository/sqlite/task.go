package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/MohammadOTaha/side-planner/internal/board/models"
	"github.com/MohammadOTaha/side-planner/internal/board/repository"
	"github.com/MohammadOTaha/side-planner/internal/common/tracing"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

const taskColumns = `id, board_id, parent_id, title, description, status, priority, complexity,
	position, due_date, created_at, updated_at, deleted_at`

// partitionOrder breaks position ties deterministically so a partition
// with duplicate positions still renumbers the same way every time.
const partitionOrder = `ORDER BY position, created_at, id`

// GetTask returns a task by ID, including soft-deleted ones.
func (r *Repository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return getTask(ctx, r.ro, id)
}

// ListTasks returns the board's live tasks in column order, then position.
func (r *Repository) ListTasks(ctx context.Context, boardID string) ([]*models.Task, error) {
	ctx, span := tracing.Tracer(tracing.DBTracer).Start(ctx, "db.ListTasks")
	defer span.End()
	span.SetAttributes(attribute.String("board.id", boardID))

	tasks := []*models.Task{}
	err := r.ro.SelectContext(ctx, &tasks, r.ro.Rebind(`
		SELECT `+taskColumns+` FROM tasks
		WHERE board_id = ? AND deleted_at IS NULL
		ORDER BY CASE status
			WHEN 'backlog' THEN 0
			WHEN 'todo' THEN 1
			WHEN 'in-progress' THEN 2
			WHEN 'done' THEN 3
			ELSE 4 END, position, created_at, id
	`), boardID)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListPartition returns the live tasks of one column ordered by position.
func (r *Repository) ListPartition(ctx context.Context, boardID string, status v1.TaskStatus) ([]*models.Task, error) {
	ctx, span := tracing.Tracer(tracing.DBTracer).Start(ctx, "db.ListPartition")
	defer span.End()
	return listPartition(ctx, r.ro, boardID, status)
}

// UpdateTaskDetails updates title, description, priority, complexity,
// parent and due date.
func (r *Repository) UpdateTaskDetails(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE tasks SET title = ?, description = ?, priority = ?, complexity = ?,
			parent_id = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`), task.Title, task.Description, string(task.Priority), string(task.Complexity),
		task.ParentID, task.DueDate, task.UpdatedAt, task.ID)
	if err != nil {
		return err
	}
	return requireRow(result, "task", task.ID)
}

func getTask(ctx context.Context, q sqlx.ExtContext, id string) (*models.Task, error) {
	var task models.Task
	err := sqlx.GetContext(ctx, q, &task, q.Rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func listPartition(ctx context.Context, q sqlx.ExtContext, boardID string, status v1.TaskStatus) ([]*models.Task, error) {
	tasks := []*models.Task{}
	err := sqlx.SelectContext(ctx, q, &tasks, q.Rebind(`
		SELECT `+taskColumns+` FROM tasks
		WHERE board_id = ? AND status = ? AND deleted_at IS NULL
		`+partitionOrder), boardID, string(status))
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
