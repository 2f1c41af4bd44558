// Package dialect provides SQL fragment helpers for SQLite/PostgreSQL portability.
package dialect

const (
	SQLite3 = "sqlite3"
	PGX     = "pgx"
)

// IsPostgres returns true if the driver is PostgreSQL (pgx).
func IsPostgres(driver string) bool {
	return driver == PGX
}

// ForUpdate returns the row-lock suffix for a SELECT.
//
//	SQLite:   "" (the single writer connection already serializes)
//	Postgres: " FOR UPDATE"
func ForUpdate(driver string) string {
	if IsPostgres(driver) {
		return " FOR UPDATE"
	}
	return ""
}

// TimestampType returns the column type used for timestamps.
//
//	SQLite:   DATETIME
//	Postgres: TIMESTAMPTZ
func TimestampType(driver string) string {
	if IsPostgres(driver) {
		return "TIMESTAMPTZ"
	}
	return "DATETIME"
}
