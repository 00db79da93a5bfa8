package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// DefaultDriver is the database/sql driver used when ReadOptions.Driver is empty.
const DefaultDriver = "sqlite3"

// ReadOptions controls how a history database is opened and filtered.
type ReadOptions struct {
	// Driver is a registered database/sql driver name: "sqlite3"
	// (mattn/go-sqlite3) or "sqlite" (modernc.org/sqlite).
	Driver string
	// Snapshot copies the database and its -wal/-shm files to a temp
	// directory first, so a running browser's lock does not block the read.
	Snapshot bool
	// MinVisits keeps rows with visit_count strictly greater than this.
	MinVisits int
}

// ReadVisits runs the fixed query for kind against the database at path and
// returns the matching rows ordered by visit count, highest first.
func ReadVisits(ctx context.Context, kind Kind, path string, opts ReadOptions) ([]Visit, error) {
	query, err := kind.Query()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("history database: %w", err)
	}

	driver := opts.Driver
	if driver == "" {
		driver = DefaultDriver
	}

	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, err
	}

	if opts.Snapshot {
		dir, err := os.MkdirTemp("", "histrank-*")
		if err != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", err)
		}
		defer os.RemoveAll(dir)

		copyPath := filepath.Join(dir, "history.db")
		if err := snapshot(path, copyPath); err != nil {
			return nil, err
		}
		// The copy is ours, so it may be opened writable; that lets SQLite
		// replay a copied -wal file.
		dsn = "file:" + copyPath
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var rows []row
	if err := db.SelectContext(ctx, &rows, query, opts.MinVisits); err != nil {
		return nil, fmt.Errorf("query %s history: %w", kind, err)
	}

	visits := make([]Visit, 0, len(rows))
	for _, r := range rows {
		visits = append(visits, r.visit(kind))
	}
	return visits, nil
}

// readOnlyDSN builds a SQLite URI filename that opens path without write access.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve database path: %w", err)
	}
	return "file:" + filepath.ToSlash(abs) + "?mode=ro", nil
}
