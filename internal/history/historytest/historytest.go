// Package historytest builds small Chrome and Firefox history databases for tests.
package historytest

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Row is one history row to seed. A zero LastVisit stores a NULL
// (Firefox) or 0 (Chrome) timestamp; a nil Title or empty URL stores NULL.
type Row struct {
	URL        string
	Title      *string
	VisitCount int64
	LastVisit  time.Time
	Frecency   int64
}

// Title returns a pointer to s, for filling Row.Title.
func Title(s string) *string { return &s }

const chromeSchema = `
	CREATE TABLE urls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url LONGVARCHAR,
		title LONGVARCHAR,
		visit_count INTEGER DEFAULT 0 NOT NULL,
		typed_count INTEGER DEFAULT 0 NOT NULL,
		last_visit_time INTEGER NOT NULL,
		hidden INTEGER DEFAULT 0 NOT NULL
	)
`

const firefoxSchema = `
	CREATE TABLE moz_places (
		id INTEGER PRIMARY KEY,
		url LONGVARCHAR,
		title LONGVARCHAR,
		rev_host LONGVARCHAR,
		visit_count INTEGER DEFAULT 0,
		hidden INTEGER DEFAULT 0 NOT NULL,
		typed INTEGER DEFAULT 0 NOT NULL,
		frecency INTEGER DEFAULT -1 NOT NULL,
		last_visit_date INTEGER
	)
`

// WebkitEpoch is the zero point of Chrome timestamps.
var WebkitEpoch = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)

// ChromeTime converts t to Chrome's microseconds-since-1601 encoding.
func ChromeTime(t time.Time) int64 {
	return (t.Unix() - WebkitEpoch.Unix()) * 1_000_000
}

// FirefoxTime converts t to microseconds since the Unix epoch.
func FirefoxTime(t time.Time) int64 {
	return t.UnixMicro()
}

// WriteChrome creates a Chrome "History" database in a temp dir and returns its path.
func WriteChrome(t *testing.T, rows []Row) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "History")
	db := create(t, path, chromeSchema)
	defer db.Close()

	for _, r := range rows {
		var ts int64
		if !r.LastVisit.IsZero() {
			ts = ChromeTime(r.LastVisit)
		}
		_, err := db.Exec(
			"INSERT INTO urls (url, title, visit_count, last_visit_time) VALUES (?, ?, ?, ?)",
			nullURL(r.URL), r.Title, r.VisitCount, ts,
		)
		require.NoError(t, err)
	}
	return path
}

// WriteFirefox creates a Firefox "places.sqlite" database in a temp dir and returns its path.
func WriteFirefox(t *testing.T, rows []Row) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.sqlite")
	db := create(t, path, firefoxSchema)
	defer db.Close()

	for _, r := range rows {
		var ts sql.NullInt64
		if !r.LastVisit.IsZero() {
			ts = sql.NullInt64{Int64: FirefoxTime(r.LastVisit), Valid: true}
		}
		_, err := db.Exec(
			"INSERT INTO moz_places (url, title, visit_count, frecency, last_visit_date) VALUES (?, ?, ?, ?, ?)",
			nullURL(r.URL), r.Title, r.VisitCount, r.Frecency, ts,
		)
		require.NoError(t, err)
	}
	return path
}

func nullURL(u string) sql.NullString {
	return sql.NullString{String: u, Valid: u != ""}
}

func create(t *testing.T, path, schema string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}
