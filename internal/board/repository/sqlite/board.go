package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MohammadOTaha/side-planner/internal/board/models"
	"github.com/MohammadOTaha/side-planner/internal/board/repository"
	"github.com/MohammadOTaha/side-planner/internal/db"
)

const boardColumns = `id, owner_id, name, description, features, created_at, updated_at`

// CreateBoard creates a new board
func (r *Repository) CreateBoard(ctx context.Context, board *models.Board) error {
	if board.ID == "" {
		board.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if board.CreatedAt.IsZero() {
		board.CreatedAt = now
	}
	board.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO boards (`+boardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), board.ID, board.OwnerID, board.Name, board.Description, board.Features, board.CreatedAt, board.UpdatedAt)
	return err
}

// GetBoard retrieves a board by ID
func (r *Repository) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	var board models.Board
	err := r.ro.GetContext(ctx, &board, r.ro.Rebind(`SELECT `+boardColumns+` FROM boards WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("board %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// ListBoards returns the owner's boards, newest first.
func (r *Repository) ListBoards(ctx context.Context, ownerID string) ([]*models.Board, error) {
	boards := []*models.Board{}
	err := r.ro.SelectContext(ctx, &boards, r.ro.Rebind(`
		SELECT `+boardColumns+` FROM boards
		WHERE owner_id = ?
		ORDER BY created_at DESC, id
	`), ownerID)
	if err != nil {
		return nil, err
	}
	return boards, nil
}

// UpdateBoard updates name, description and features.
func (r *Repository) UpdateBoard(ctx context.Context, board *models.Board) error {
	board.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE boards SET name = ?, description = ?, features = ?, updated_at = ?
		WHERE id = ?
	`), board.Name, board.Description, board.Features, board.UpdatedAt, board.ID)
	if err != nil {
		return err
	}
	return requireRow(result, "board", board.ID)
}

// DeleteBoard deletes a board and all of its tasks.
func (r *Repository) DeleteBoard(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM tasks WHERE board_id = ?`), id); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM boards WHERE id = ?`), id)
		if err != nil {
			return err
		}
		return requireRow(result, "board", id)
	})
}

func requireRow(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, repository.ErrNotFound)
	}
	return nil
}
