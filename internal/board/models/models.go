// Package models holds the persisted board and task entities.
package models

import (
	"time"

	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

// Board is a kanban board owned by a single user.
type Board struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Features    string    `db:"features"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Task is a card on a board. Position orders it within its
// (BoardID, Status) partition.
type Task struct {
	ID          string            `db:"id"`
	BoardID     string            `db:"board_id"`
	ParentID    *string           `db:"parent_id"`
	Title       string            `db:"title"`
	Description string            `db:"description"`
	Status      v1.TaskStatus     `db:"status"`
	Priority    v1.TaskPriority   `db:"priority"`
	Complexity  v1.TaskComplexity `db:"complexity"`
	Position    int               `db:"position"`
	DueDate     *time.Time        `db:"due_date"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
	DeletedAt   *time.Time        `db:"deleted_at"`
}

// IsDeleted reports whether the task has been soft-deleted.
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	c := *t
	if t.ParentID != nil {
		p := *t.ParentID
		c.ParentID = &p
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.DeletedAt != nil {
		d := *t.DeletedAt
		c.DeletedAt = &d
	}
	return &c
}

// Clone returns a copy of b.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}
