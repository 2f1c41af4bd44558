// Package db opens the SQLite and PostgreSQL connections used by the board
// repositories.
package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Pool holds separate write and read handles.
//
// For SQLite the writer is a single connection so every write transaction is
// serialized, while the reader opens several read-only connections that see
// WAL snapshots. For PostgreSQL both handles are the same *sqlx.DB.
type Pool struct {
	writer *sqlx.DB
	reader *sqlx.DB

	// onClose releases whatever sits under the handles, such as a pgxpool.
	onClose func()
}

// NewPool creates a Pool from separate writer and reader connections.
func NewPool(writer, reader *sqlx.DB) *Pool {
	return &Pool{writer: writer, reader: reader}
}

// Writer returns the handle used for INSERT, UPDATE, DELETE and transactions.
func (p *Pool) Writer() *sqlx.DB { return p.writer }

// Reader returns the handle used for SELECT queries.
func (p *Pool) Reader() *sqlx.DB { return p.reader }

// DriverName reports the sqlx driver name of the writer.
func (p *Pool) DriverName() string { return p.writer.DriverName() }

// Ping runs SELECT 1 on the writer.
func (p *Pool) Ping(ctx context.Context) error {
	var one int
	return p.writer.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// Close closes both handles, once each.
func (p *Pool) Close() error {
	wErr := p.writer.Close()
	var rErr error
	if p.reader != p.writer {
		rErr = p.reader.Close()
	}
	if p.onClose != nil {
		p.onClose()
	}
	if wErr != nil {
		return wErr
	}
	return rErr
}
