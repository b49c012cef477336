package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

// schemaVersion is stored in PRAGMA user_version by schema.sql.
const schemaVersion = 1

//go:embed schema.sql
var schema string

// ensureSchema creates the tables on a fresh database. A database written by
// a newer build is refused rather than silently downgraded.
func ensureSchema(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	switch {
	case version == schemaVersion:
		return nil
	case version > schemaVersion:
		return fmt.Errorf("schema version %d is newer than supported version %d", version, schemaVersion)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
