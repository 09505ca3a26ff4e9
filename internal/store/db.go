package store

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a SQLite connection to a message store (sms.db / chat.db).
type DB struct {
	*sql.DB
}

// Open opens an existing store read-only. The store is never written during an export.
func Open(path string) (*DB, error) {
	return open(fileURI(path) + "?mode=ro&_busy_timeout=5000")
}

// Create opens (creating if needed) a writable store. Used for demo databases.
func Create(path string) (*DB, error) {
	return open(fileURI(path) + "?mode=rwc&_busy_timeout=5000&_foreign_keys=on")
}

// fileURI percent-encodes path so '?', '#' and '%' in directory or file
// names are not read as URI syntax.
func fileURI(path string) string {
	return "file:" + (&url.URL{Path: path}).EscapedPath()
}

func open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Verify connection.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &DB{db}, nil
}
