// Package sqlite provides the SQL-backed board repository. It runs on
// SQLite (mattn/go-sqlite3) and PostgreSQL (pgx) through sqlx, using the
// dialect helpers where the two differ.
package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MohammadOTaha/side-planner/internal/board/repository"
	"github.com/MohammadOTaha/side-planner/internal/db"
	"github.com/MohammadOTaha/side-planner/internal/db/dialect"
)

// Repository provides SQL-based board storage.
type Repository struct {
	db *sqlx.DB // writer
	ro *sqlx.DB // reader
}

var _ repository.Repository = (*Repository)(nil)

// NewWithPool creates a repository on an existing pool and makes sure the
// schema exists. The pool stays owned by the caller.
func NewWithPool(pool *db.Pool) (*Repository, error) {
	return NewWithDB(pool.Writer(), pool.Reader())
}

// NewWithDB creates a repository on separate writer and reader handles.
func NewWithDB(writer, reader *sqlx.DB) (*Repository, error) {
	repo := &Repository{db: writer, ro: reader}
	if err := repo.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return repo, nil
}

// Close is a no-op; the pool owner closes the connections.
func (r *Repository) Close() error {
	return nil
}

// Ping runs SELECT 1 against the writer.
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

func (r *Repository) initSchema() error {
	ts := dialect.TimestampType(r.db.DriverName())
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS boards (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			features TEXT NOT NULL DEFAULT '',
			created_at %[1]s NOT NULL,
			updated_at %[1]s NOT NULL
		)`, ts),
		`CREATE INDEX IF NOT EXISTS idx_boards_owner ON boards(owner_id, created_at)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			board_id TEXT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
			parent_id TEXT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'backlog',
			priority TEXT NOT NULL DEFAULT 'medium',
			complexity TEXT NOT NULL DEFAULT 'medium',
			position INTEGER NOT NULL DEFAULT 0,
			due_date %[1]s,
			created_at %[1]s NOT NULL,
			updated_at %[1]s NOT NULL,
			deleted_at %[1]s
		)`, ts),
		`CREATE INDEX IF NOT EXISTS idx_tasks_partition ON tasks(board_id, status, deleted_at, position)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
