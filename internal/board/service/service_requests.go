package service

import (
	"time"

	"github.com/MohammadOTaha/side-planner/internal/board/models"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

// CreateBoardRequest contains the data for creating a new board
type CreateBoardRequest struct {
	OwnerID     string
	Name        string
	Description string
	Features    string
}

// UpdateBoardRequest contains the board fields to change. Nil fields are
// left untouched.
type UpdateBoardRequest struct {
	Name        *string
	Description *string
	Features    *string
}

// CreateTaskRequest contains the data for creating a new task. Empty enum
// fields take their defaults.
type CreateTaskRequest struct {
	BoardID     string
	ParentID    *string
	Title       string
	Description string
	Status      v1.TaskStatus
	Priority    v1.TaskPriority
	Complexity  v1.TaskComplexity
	DueDate     *time.Time
}

// UpdateTaskRequest contains the task details to change. Status and
// position are changed only by MoveTask.
type UpdateTaskRequest struct {
	Title        *string
	Description  *string
	Priority     *v1.TaskPriority
	Complexity   *v1.TaskComplexity
	ParentID     *string
	ClearParent  bool
	DueDate      *time.Time
	ClearDueDate bool
}

// SubtaskInput is one accepted subtask suggestion.
type SubtaskInput struct {
	Title       string
	Description string
	Complexity  v1.TaskComplexity
}

// MoveResult is the outcome of MoveTask. Columns holds the final order of
// every column the move touched, keyed by status.
type MoveResult struct {
	Task       *models.Task
	Moved      bool
	FromStatus v1.TaskStatus
	Columns    map[v1.TaskStatus][]*models.Task
}
