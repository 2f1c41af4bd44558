// Package service implements board and task business logic on top of a
// repository.Repository. Every write that changes positions runs inside
// Repository.InBoardTx.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/MohammadOTaha/side-planner/internal/board/repository"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	"github.com/MohammadOTaha/side-planner/internal/events/bus"
)

const (
	maxBoardNameLength = 100
	maxTaskTitleLength = 255
)

var (
	ErrBoardNotFound = fmt.Errorf("board %w", repository.ErrNotFound)
	ErrTaskNotFound  = fmt.Errorf("task %w", repository.ErrNotFound)

	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("invalid task priority")
	ErrInvalidComplexity = errors.New("invalid task complexity")
	ErrTitleRequired     = errors.New("task title is required")
	ErrTitleTooLong      = fmt.Errorf("task title must be at most %d characters", maxTaskTitleLength)
	ErrInvalidBoardName  = fmt.Errorf("board name must be between 1 and %d characters", maxBoardNameLength)
	ErrInvalidParent     = errors.New("invalid parent task")
)

// PersistenceError reports a storage failure. Callers should not retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err was caused by bad input.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidStatus, ErrInvalidPriority, ErrInvalidComplexity,
		ErrTitleRequired, ErrTitleTooLong, ErrInvalidBoardName, ErrInvalidParent,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Service provides board and task business logic
type Service struct {
	repo     repository.Repository
	eventBus bus.EventBus
	logger   *logger.Logger
	now      func() time.Time
}

// NewService creates a new board service. eventBus may be nil.
func NewService(repo repository.Repository, eventBus bus.EventBus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// classify turns repository errors into service errors. Errors already
// produced by this package pass through; a bare repository.ErrNotFound
// becomes notFound; everything else is a PersistenceError.
func classify(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrBoardNotFound) || errors.Is(err, ErrTaskNotFound) || IsValidationError(err) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return &PersistenceError{Op: op, Err: err}
}
