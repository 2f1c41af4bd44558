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
	"github.com/MohammadOTaha/side-planner/internal/board/ordering"
	"github.com/MohammadOTaha/side-planner/internal/board/repository"
	"github.com/MohammadOTaha/side-planner/internal/common/tracing"
	"github.com/MohammadOTaha/side-planner/internal/db"
	"github.com/MohammadOTaha/side-planner/internal/db/dialect"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

// InBoardTx runs fn in a write transaction.
//
// On PostgreSQL the board row is locked FOR UPDATE first, so concurrent
// transactions on the same board queue behind each other. On SQLite the
// single writer connection and BEGIN IMMEDIATE give the same guarantee for
// the whole database.
func (r *Repository) InBoardTx(ctx context.Context, boardID string, fn func(tx repository.Tx) error) error {
	ctx, span := tracing.Tracer(tracing.DBTracer).Start(ctx, "db.InBoardTx")
	defer span.End()
	span.SetAttributes(attribute.String("board.id", boardID))

	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var id string
		lock := `SELECT id FROM boards WHERE id = ?` + dialect.ForUpdate(tx.DriverName())
		err := tx.QueryRowxContext(ctx, tx.Rebind(lock), boardID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("board %s: %w", boardID, repository.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock board: %w", err)
		}
		return fn(&sqlTx{tx: tx})
	})
}

type sqlTx struct {
	tx *sqlx.Tx
}

func (t *sqlTx) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return getTask(ctx, t.tx, id)
}

func (t *sqlTx) ListPartition(ctx context.Context, boardID string, status v1.TaskStatus) ([]*models.Task, error) {
	return listPartition(ctx, t.tx, boardID, status)
}

func (t *sqlTx) InsertTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		return errors.New("task id is required")
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}

	_, err := t.tx.ExecContext(ctx, t.tx.Rebind(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), task.ID, task.BoardID, task.ParentID, task.Title, task.Description,
		string(task.Status), string(task.Priority), string(task.Complexity),
		task.Position, task.DueDate, task.CreatedAt, task.UpdatedAt, task.DeletedAt)
	return err
}

func (t *sqlTx) ApplyPlacements(ctx context.Context, placements []ordering.Placement, at time.Time) error {
	if len(placements) == 0 {
		return nil
	}
	stmt, err := t.tx.PreparexContext(ctx, t.tx.Rebind(`
		UPDATE tasks SET status = ?, position = ?, updated_at = ? WHERE id = ?
	`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range placements {
		result, err := stmt.ExecContext(ctx, string(p.Status), p.Position, at, p.ID)
		if err != nil {
			return fmt.Errorf("update position of %s: %w", p.ID, err)
		}
		if err := requireRow(result, "task", p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (t *sqlTx) SetDeleted(ctx context.Context, id string, deletedAt *time.Time, at time.Time) error {
	result, err := t.tx.ExecContext(ctx, t.tx.Rebind(`
		UPDATE tasks SET deleted_at = ?, updated_at = ? WHERE id = ?
	`), deletedAt, at, id)
	if err != nil {
		return err
	}
	return requireRow(result, "task", id)
}
