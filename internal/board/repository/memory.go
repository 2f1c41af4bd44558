package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MohammadOTaha/side-planner/internal/board/models"
	"github.com/MohammadOTaha/side-planner/internal/board/ordering"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

// MemoryRepository provides in-memory board storage. A single mutex guards
// all state, so InBoardTx serializes every writer.
type MemoryRepository struct {
	boards map[string]*models.Board
	tasks  map[string]*models.Task
	mu     sync.RWMutex
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		boards: make(map[string]*models.Board),
		tasks:  make(map[string]*models.Task),
	}
}

func (r *MemoryRepository) Ping(ctx context.Context) error { return nil }

// Close is a no-op for the in-memory repository.
func (r *MemoryRepository) Close() error { return nil }

// Board operations

func (r *MemoryRepository) CreateBoard(ctx context.Context, board *models.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if board.ID == "" {
		board.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if board.CreatedAt.IsZero() {
		board.CreatedAt = now
	}
	board.UpdatedAt = now
	r.boards[board.ID] = board.Clone()
	return nil
}

func (r *MemoryRepository) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.boards[id]
	if !ok {
		return nil, fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	return b.Clone(), nil
}

func (r *MemoryRepository) ListBoards(ctx context.Context, ownerID string) ([]*models.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Board
	for _, b := range r.boards {
		if b.OwnerID == ownerID {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) UpdateBoard(ctx context.Context, board *models.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.boards[board.ID]; !ok {
		return fmt.Errorf("board %s: %w", board.ID, ErrNotFound)
	}
	board.UpdatedAt = time.Now().UTC()
	r.boards[board.ID] = board.Clone()
	return nil
}

// DeleteBoard removes the board and every task on it.
func (r *MemoryRepository) DeleteBoard(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.boards[id]; !ok {
		return fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	delete(r.boards, id)
	for tid, t := range r.tasks {
		if t.BoardID == id {
			delete(r.tasks, tid)
		}
	}
	return nil
}

// Task reads

func (r *MemoryRepository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return getTask(r.tasks, id)
}

func (r *MemoryRepository) ListTasks(ctx context.Context, boardID string) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Task
	for _, t := range r.tasks {
		if t.BoardID == boardID && !t.IsDeleted() {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Status.Rank(), out[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return lessByPosition(out[i], out[j])
	})
	return out, nil
}

func (r *MemoryRepository) ListPartition(ctx context.Context, boardID string, status v1.TaskStatus) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return listPartition(r.tasks, boardID, status), nil
}

func (r *MemoryRepository) UpdateTaskDetails(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.tasks[task.ID]
	if !ok {
		return fmt.Errorf("task %s: %w", task.ID, ErrNotFound)
	}
	next := cur.Clone()
	next.Title = task.Title
	next.Description = task.Description
	next.Priority = task.Priority
	next.Complexity = task.Complexity
	next.ParentID = task.ParentID
	next.DueDate = task.DueDate
	next.UpdatedAt = time.Now().UTC()
	task.UpdatedAt = next.UpdatedAt
	r.tasks[task.ID] = next.Clone()
	return nil
}

// InBoardTx stages writes in a private copy and commits them only when fn
// succeeds.
func (r *MemoryRepository) InBoardTx(ctx context.Context, boardID string, fn func(tx Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.boards[boardID]; !ok {
		return fmt.Errorf("board %s: %w", boardID, ErrNotFound)
	}

	staged := make(map[string]*models.Task, len(r.tasks))
	for id, t := range r.tasks {
		staged[id] = t
	}
	tx := &memoryTx{tasks: staged}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.tasks = staged
	return nil
}

type memoryTx struct {
	tasks map[string]*models.Task
}

func (tx *memoryTx) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return getTask(tx.tasks, id)
}

func (tx *memoryTx) ListPartition(ctx context.Context, boardID string, status v1.TaskStatus) ([]*models.Task, error) {
	return listPartition(tx.tasks, boardID, status), nil
}

func (tx *memoryTx) InsertTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if _, exists := tx.tasks[task.ID]; exists {
		return fmt.Errorf("task %s already exists", task.ID)
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	tx.tasks[task.ID] = task.Clone()
	return nil
}

func (tx *memoryTx) ApplyPlacements(ctx context.Context, placements []ordering.Placement, at time.Time) error {
	for _, p := range placements {
		cur, ok := tx.tasks[p.ID]
		if !ok {
			return fmt.Errorf("task %s: %w", p.ID, ErrNotFound)
		}
		next := cur.Clone()
		next.Status = p.Status
		next.Position = p.Position
		next.UpdatedAt = at
		tx.tasks[p.ID] = next
	}
	return nil
}

func (tx *memoryTx) SetDeleted(ctx context.Context, id string, deletedAt *time.Time, at time.Time) error {
	cur, ok := tx.tasks[id]
	if !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	next := cur.Clone()
	next.DeletedAt = deletedAt
	next.UpdatedAt = at
	tx.tasks[id] = next
	return nil
}

func getTask(tasks map[string]*models.Task, id string) (*models.Task, error) {
	t, ok := tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t.Clone(), nil
}

func listPartition(tasks map[string]*models.Task, boardID string, status v1.TaskStatus) []*models.Task {
	var out []*models.Task
	for _, t := range tasks {
		if t.BoardID == boardID && t.Status == status && !t.IsDeleted() {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessByPosition(out[i], out[j]) })
	return out
}

// lessByPosition matches ORDER BY position, created_at, id.
func lessByPosition(a, b *models.Task) bool {
	if a.Position != b.Position {
		return a.Position < b.Position
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
