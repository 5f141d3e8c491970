package database

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaVersionQuery = `SELECT COALESCE(MAX(version_id), 0) FROM goose_db_version WHERE is_applied`

// SchemaVersion reports the highest applied goose migration.
func SchemaVersion(ctx context.Context, db *sql.DB) (int64, error) {
	var version int64
	if err := db.QueryRowContext(ctx, schemaVersionQuery).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
