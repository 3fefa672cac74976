package migrate

import "fmt"

// Dialect supplies the SQL differences between supported databases. Only
// the version-table statements differ; migration scripts themselves are the
// author's responsibility.
type Dialect interface {
	// CreateVersionTable returns DDL that creates the version table if it
	// does not exist.
	CreateVersionTable(table string) string
	// InsertVersion returns an insert with placeholders for version, name
	// and checksum.
	InsertVersion(table string) string
	// DeleteVersion returns a delete with a placeholder for version.
	DeleteVersion(table string) string
	// SelectVersions returns a query for all records ordered by version.
	SelectVersions(table string) string
}

// DialectFor returns the dialect for a driver name ("pgx" or "sqlite").
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "pgx", "postgres", "pg":
		return postgresDialect{}, nil
	case "sqlite", "sqlite3":
		return sqliteDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported driver %q", driver)
}

type postgresDialect struct{}

func (postgresDialect) CreateVersionTable(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, table)
}

func (postgresDialect) InsertVersion(table string) string {
	return fmt.Sprintf("INSERT INTO %s (version, name, checksum) VALUES ($1, $2, $3)", table)
}

func (postgresDialect) DeleteVersion(table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE version = $1", table)
}

func (postgresDialect) SelectVersions(table string) string {
	return fmt.Sprintf("SELECT version, name, checksum, applied_at FROM %s ORDER BY version", table)
}

type sqliteDialect struct{}

func (sqliteDialect) CreateVersionTable(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, table)
}

func (sqliteDialect) InsertVersion(table string) string {
	return fmt.Sprintf("INSERT INTO %s (version, name, checksum) VALUES (?, ?, ?)", table)
}

func (sqliteDialect) DeleteVersion(table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE version = ?", table)
}

func (sqliteDialect) SelectVersions(table string) string {
	return fmt.Sprintf("SELECT version, name, checksum, applied_at FROM %s ORDER BY version", table)
}
