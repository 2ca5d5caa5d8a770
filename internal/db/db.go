// Package db archives analysis runs in SQLite. The archive is write-only
// from the pipeline's point of view: nothing stored here is read back into
// an analysis.
package db

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/presence.report/internal/timeutil"
)

// pragmas are applied to every pooled connection.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
	"foreign_keys(ON)",
}

type DB struct {
	*sql.DB
	// Clock stamps runs recorded without a CreatedAt. Nil uses the wall clock.
	Clock timeutil.Clock
}

func (db *DB) clock() timeutil.Clock {
	if db.Clock == nil {
		return timeutil.RealClock{}
	}
	return db.Clock
}

// NewDB opens (creating if needed) the archive at path and applies the
// embedded migrations.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := &DB{DB: sqlDB}
	if err := db.MigrateUp(MigrationsFS()); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}
