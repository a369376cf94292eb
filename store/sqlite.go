package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/always-cache/fwserve/resource"

	_ "github.com/glebarez/go-sqlite"
)

// MemoryDSN opens a shared in-memory database.
const MemoryDSN = "file::memory:?cache=shared"

// SQLiteStore keeps a resource bundle in a single SQLite file.
type SQLiteStore struct {
	db         *sql.DB
	writeMutex *sync.Mutex
}

// NewSQLiteStore opens the bundle with the given filename.
// If file name is empty, a new in-memory db is opened.
func NewSQLiteStore(filename string) (SQLiteStore, error) {
	if filename == "" {
		filename = MemoryDSN
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return SQLiteStore{}, fmt.Errorf("open bundle %s: %w", filename, err)
	}
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resources (
			name TEXT PRIMARY KEY,
			modified INTEGER,
			version TEXT,
			body BLOB
		)`,
		"PRAGMA journal_mode=WAL",
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return SQLiteStore{}, fmt.Errorf("prepare bundle %s: %w", filename, err)
		}
	}
	return SQLiteStore{
		db:         db,
		writeMutex: &sync.Mutex{},
	}, nil
}

func (s SQLiteStore) Close() error {
	return s.db.Close()
}

func (s SQLiteStore) Put(ctx context.Context, name string, modified time.Time, body []byte) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO resources (name, modified, version, body) VALUES (?, ?, ?, ?)",
		name, modified.Unix(), contentVersion(body), body)
	return err
}

func (s SQLiteStore) Lookup(ctx context.Context, name string) (resource.Descriptor, error) {
	var modified, size int64
	var version string
	err := s.db.QueryRowContext(ctx,
		"SELECT modified, version, length(body) FROM resources WHERE name = ?", name,
	).Scan(&modified, &version, &size)
	if errors.Is(err, sql.ErrNoRows) {
		return resource.Descriptor{}, resource.NotFound(name)
	} else if err != nil {
		return resource.Descriptor{}, fmt.Errorf("lookup %s: %w", name, err)
	}
	return resource.Describe(resource.Descriptor{
		Name:     name,
		Size:     size,
		Modified: time.Unix(modified, 0),
		Version:  version,
	}), nil
}

func (s SQLiteStore) Open(ctx context.Context, d resource.Descriptor) (io.ReadCloser, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, "SELECT body FROM resources WHERE name = ?", d.Name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, resource.NotFound(d.Name)
	} else if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Name, err)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

// Names calls the given callback for each resource name with the given prefix.
func (s SQLiteStore) Names(ctx context.Context, prefix string, cb func(string)) error {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM resources WHERE name LIKE ? ORDER BY name", prefix+"%")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		cb(name)
	}
	return rows.Err()
}
