package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Import is one successful load of a cities dataset into its own database.
type Import struct {
	DBName     string
	ImportedAt time.Time
}

// latestImportQuery selects the newest import whose database name contains
// the dataset token. The meta table lives in the server's default database.
func latestImportQuery(driver string) string {
	if driver == DriverMySQL {
		return `
SELECT db_name, imported_at
FROM latest_successful_imports
WHERE LOWER(db_name) LIKE CONCAT('%', LOWER(?), '%')
ORDER BY imported_at DESC
LIMIT 1`
	}
	return `
SELECT db_name, imported_at
FROM public.latest_successful_imports
WHERE db_name ILIKE '%' || $1 || '%'
ORDER BY imported_at DESC
LIMIT 1`
}

// LatestImport resolves the database holding the most recent import of dataset.
func LatestImport(ctx context.Context, meta *sql.DB, driver, dataset string) (Import, error) {
	dataset = strings.TrimSpace(dataset)
	if dataset == "" {
		return Import{}, fmt.Errorf("dataset is required")
	}
	var (
		name sql.NullString
		at   sql.NullTime
	)
	err := meta.QueryRowContext(ctx, latestImportQuery(driver), dataset).Scan(&name, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, fmt.Errorf("no import found for dataset like %q", dataset)
	}
	if err != nil {
		return Import{}, err
	}
	if !name.Valid || name.String == "" {
		return Import{}, fmt.Errorf("empty db_name for dataset like %q", dataset)
	}
	return Import{DBName: name.String, ImportedAt: at.Time}, nil
}
