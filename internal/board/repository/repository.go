// Package repository defines board and task storage.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/MohammadOTaha/side-planner/internal/board/models"
	"github.com/MohammadOTaha/side-planner/internal/board/ordering"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

// ErrNotFound is returned when a board or task does not exist.
var ErrNotFound = errors.New("not found")

// Repository defines the interface for board and task storage.
type Repository interface {
	// Board operations
	CreateBoard(ctx context.Context, board *models.Board) error
	GetBoard(ctx context.Context, id string) (*models.Board, error)
	ListBoards(ctx context.Context, ownerID string) ([]*models.Board, error)
	UpdateBoard(ctx context.Context, board *models.Board) error
	DeleteBoard(ctx context.Context, id string) error

	// Task reads. Soft-deleted tasks are returned by GetTask only.
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, boardID string) ([]*models.Task, error)
	ListPartition(ctx context.Context, boardID string, status v1.TaskStatus) ([]*models.Task, error)

	// UpdateTaskDetails writes everything except status, position and
	// deleted_at.
	UpdateTaskDetails(ctx context.Context, task *models.Task) error

	// InBoardTx runs fn in a transaction that holds the board's write lock.
	// It returns ErrNotFound when the board does not exist.
	InBoardTx(ctx context.Context, boardID string, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
	Close() error
}

// Tx is the task store as seen from inside InBoardTx.
type Tx interface {
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListPartition(ctx context.Context, boardID string, status v1.TaskStatus) ([]*models.Task, error)
	InsertTask(ctx context.Context, task *models.Task) error
	// ApplyPlacements writes status and position for each placement and
	// sets updated_at on the rewritten rows.
	ApplyPlacements(ctx context.Context, placements []ordering.Placement, at time.Time) error
	// SetDeleted sets or clears deleted_at.
	SetDeleted(ctx context.Context, id string, deletedAt *time.Time, at time.Time) error
}

// Refs converts an ordered partition into ordering refs.
func Refs(tasks []*models.Task) []ordering.Ref {
	out := make([]ordering.Ref, len(tasks))
	for i, t := range tasks {
		out[i] = ordering.Ref{ID: t.ID, Position: t.Position}
	}
	return out
}
