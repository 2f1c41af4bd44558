// Package dto converts between board models and the v1 wire types.
package dto

import (
	"strings"

	"github.com/MohammadOTaha/side-planner/internal/board/models"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

// FromBoard converts a board model to its wire form.
func FromBoard(b *models.Board) v1.Board {
	return v1.Board{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: b.Description,
		Features:    b.Features,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// FromBoards converts a board list, never returning nil.
func FromBoards(boards []*models.Board) []v1.Board {
	out := make([]v1.Board, 0, len(boards))
	for _, b := range boards {
		out = append(out, FromBoard(b))
	}
	return out
}

// FromTask converts a task model to its wire form.
func FromTask(t *models.Task) v1.Task {
	return v1.Task{
		ID:          t.ID,
		BoardID:     t.BoardID,
		ParentID:    t.ParentID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Complexity:  t.Complexity,
		Position:    t.Position,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DeletedAt:   t.DeletedAt,
	}
}

// FromTasks converts a task list, never returning nil.
func FromTasks(tasks []*models.Task) []v1.Task {
	out := make([]v1.Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, FromTask(t))
	}
	return out
}

// ParseStatus normalizes a wire status. Unknown values are passed through
// for the service to reject.
func ParseStatus(s string) v1.TaskStatus {
	return v1.TaskStatus(strings.ToLower(strings.TrimSpace(s)))
}

// ParsePriority normalizes a wire priority.
func ParsePriority(s string) v1.TaskPriority {
	return v1.TaskPriority(strings.ToLower(strings.TrimSpace(s)))
}

// ParseComplexity normalizes a wire complexity, accepting the easy/hard
// aliases. Unknown values are passed through for the service to reject.
func ParseComplexity(s string) v1.TaskComplexity {
	if c, ok := v1.ParseComplexity(s); ok {
		return c
	}
	return v1.TaskComplexity(strings.TrimSpace(s))
}
