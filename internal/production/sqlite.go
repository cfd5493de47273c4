package production

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/comalice/superstate/app"
	"github.com/comalice/superstate/ecs"
)

// SQLitePersister stores one JSON snapshot per world in a SQLite table.
type SQLitePersister struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLitePersister opens (or creates) the database at path. Use ":memory:"
// for a private in-memory database.
func NewSQLitePersister(path string) (*SQLitePersister, error) {
	if path == "" {
		path = "superstate.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A :memory: database lives only as long as its connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		world_id TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		saved_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &SQLitePersister{db: db}, nil
}

func (p *SQLitePersister) Save(ctx context.Context, snap ecs.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = p.db.ExecContext(ctx, `INSERT INTO snapshots (world_id, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(world_id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		snap.WorldID, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", snap.WorldID, err)
	}
	return nil
}

func (p *SQLitePersister) Load(ctx context.Context, worldID string) (ecs.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var data []byte
	err := p.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE world_id = ?`, worldID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ecs.Snapshot{}, fmt.Errorf("world %q: %w", worldID, app.ErrSnapshotNotFound)
	}
	if err != nil {
		return ecs.Snapshot{}, fmt.Errorf("select snapshot %s: %w", worldID, err)
	}
	var snap ecs.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ecs.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", worldID, err)
	}
	snap.WorldID = worldID
	return snap, nil
}

// Worlds lists the ids of all stored worlds in ascending order.
func (p *SQLitePersister) Worlds(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rows, err := p.db.QueryContext(ctx, `SELECT world_id FROM snapshots ORDER BY world_id`)
	if err != nil {
		return nil, fmt.Errorf("select worlds: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (p *SQLitePersister) Close() error {
	return p.db.Close()
}
