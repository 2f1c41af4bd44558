package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MohammadOTaha/side-planner/internal/db/dialect"
)

const (
	defaultBusyTimeout       = 5 * time.Second
	defaultSQLiteReaderConns = 4
)

// OpenSQLite opens the single-connection SQLite writer.
//
// _txlock=immediate makes every BEGIN take the write lock up front, so a
// move's reads and writes are never interleaved with another writer.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	path := normalizeSQLitePath(dbPath)
	if err := ensureSQLiteDir(path); err != nil {
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}
	if err := ensureSQLiteFile(path); err != nil {
		return nil, fmt.Errorf("failed to create database file: %w", err)
	}

	dsn := fmt.Sprintf(
		"file:%s?_foreign_keys=on&_mode=rwc&_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL&_txlock=immediate",
		path,
		int(defaultBusyTimeout/time.Millisecond),
	)
	conn, err := sql.Open(dialect.SQLite3, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	return conn, nil
}

// OpenSQLiteReader opens a read-only pool over the same file.
func OpenSQLiteReader(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_foreign_keys=on&_mode=ro&_busy_timeout=%d",
		normalizeSQLitePath(dbPath),
		int(defaultBusyTimeout/time.Millisecond),
	)
	conn, err := sql.Open(dialect.SQLite3, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open read-only database: %w", err)
	}
	conn.SetMaxOpenConns(defaultSQLiteReaderConns)
	conn.SetMaxIdleConns(defaultSQLiteReaderConns)
	return conn, nil
}

// OpenSQLitePool opens writer and reader handles for path.
func OpenSQLitePool(path string) (*Pool, error) {
	writer, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	reader, err := OpenSQLiteReader(path)
	if err != nil {
		_ = writer.Close()
		return nil, err
	}
	return NewPool(sqlx.NewDb(writer, dialect.SQLite3), sqlx.NewDb(reader, dialect.SQLite3)), nil
}

func ensureSQLiteDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func ensureSQLiteFile(dbPath string) error {
	f, err := os.OpenFile(dbPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

func normalizeSQLitePath(dbPath string) string {
	if dbPath == "" {
		return dbPath
	}
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return dbPath
	}
	return abs
}
