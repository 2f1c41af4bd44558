// Package v1 holds the wire types of the side-planner HTTP API.
package v1

import (
	"strings"
	"time"
)

// TaskStatus is the kanban column a task belongs to.
type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "backlog"
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists the columns in board order.
var TaskStatuses = []TaskStatus{
	TaskStatusBacklog,
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusDone,
}

// Valid reports whether s is one of the known columns.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusBacklog, TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Rank returns the column index of s, or len(TaskStatuses) when unknown.
func (s TaskStatus) Rank() int {
	for i, st := range TaskStatuses {
		if st == s {
			return i
		}
	}
	return len(TaskStatuses)
}

// TaskPriority is the user-assigned urgency of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// TaskComplexity is the estimated effort of a task.
type TaskComplexity string

const (
	ComplexityLow    TaskComplexity = "low"
	ComplexityMedium TaskComplexity = "medium"
	ComplexityHigh   TaskComplexity = "high"
)

func (c TaskComplexity) Valid() bool {
	return c == ComplexityLow || c == ComplexityMedium || c == ComplexityHigh
}

// ParseComplexity normalizes the labels clients and the AI provider use
// ("Easy", "Medium", "Hard", "Low", "High") to a TaskComplexity.
func ParseComplexity(s string) (TaskComplexity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "easy":
		return ComplexityLow, true
	case "medium", "moderate":
		return ComplexityMedium, true
	case "high", "hard":
		return ComplexityHigh, true
	}
	return "", false
}

// Task is the wire representation of a task.
type Task struct {
	ID          string         `json:"id"`
	BoardID     string         `json:"board_id"`
	ParentID    *string        `json:"parent_id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      TaskStatus     `json:"status"`
	Priority    TaskPriority   `json:"priority"`
	Complexity  TaskComplexity `json:"complexity"`
	Position    int            `json:"position"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty"`
}

// CreateTaskRequest creates a task at the end of its column.
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Complexity  string     `json:"complexity"`
	ParentID    *string    `json:"parent_id"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest patches task details. Status and position change only
// through MoveTaskRequest.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Complexity  *string    `json:"complexity"`
	ParentID    *string    `json:"parent_id"`
	ClearParent bool       `json:"clear_parent"`
	DueDate     *time.Time `json:"due_date"`
	ClearDue    bool       `json:"clear_due_date"`
}

// MoveTaskRequest places a task at Position within the Status column.
// Out-of-range positions are clamped.
type MoveTaskRequest struct {
	Status   string `json:"status" binding:"required"`
	Position *int   `json:"position" binding:"required"`
}

// MoveTaskResponse carries the moved task and the authoritative order of
// every column the move touched.
type MoveTaskResponse struct {
	Task    Task                  `json:"task"`
	Moved   bool                  `json:"moved"`
	Columns map[TaskStatus][]Task `json:"columns"`
}

// ListTasksResponse is returned by the task list endpoint.
type ListTasksResponse struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
}
