// Package localstore persists state to a single sqlite file on the local
// device. It mirrors the browser's origin-scoped storage model: one fixed key
// for live state, one for the most recent backup envelope, and a ~5MB quota
// on the serialized payload. No cross-device sync.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/jonathan/resume-builder/internal/storage"
)

const (
	stateKey  = "resume_builder_state"
	backupKey = "resume_builder_backup"

	// MaxStateBytes caps the serialized snapshot, matching the capacity of
	// the origin storage this backend stands in for.
	MaxStateBytes = 5 * 1024 * 1024
)

// Gateway is the device-local persistence backend.
type Gateway struct {
	db   *sql.DB
	path string
}

// Open creates or opens the local store at path. The parent directory is
// created if missing; an unwritable location yields ErrUnavailable so callers
// can fail gracefully in non-interactive contexts.
func Open(path string) (*Gateway, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no local storage path configured", storage.ErrUnavailable)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	g := &Gateway{db: db, path: path}
	if err := g.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	return g, nil
}

func (g *Gateway) initSchema() error {
	_, err := g.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	return err
}

// Close closes the underlying database.
func (g *Gateway) Close() error {
	return g.db.Close()
}

// Path returns the database file path.
func (g *Gateway) Path() string { return g.path }

// Name identifies the backend.
func (g *Gateway) Name() string { return "local" }

// Save serializes the snapshot and writes it under the state key. The upsert
// is a single statement, so a torn write is never observable.
func (g *Gateway) Save(ctx context.Context, snap *storage.Snapshot) error {
	raw, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if len(raw) > MaxStateBytes {
		return fmt.Errorf("%w: state is %d bytes, limit %d", storage.ErrQuotaExceeded, len(raw), MaxStateBytes)
	}
	return g.put(ctx, stateKey, string(raw))
}

// Load reads and validates the last saved snapshot.
func (g *Gateway) Load(ctx context.Context) (*storage.Snapshot, error) {
	raw, err := g.get(ctx, stateKey)
	if err != nil {
		return nil, err
	}
	return storage.DecodeSnapshot([]byte(raw))
}

// Backup wraps the current state in a versioned envelope and stores the
// envelope under its own key, independent of live state.
func (g *Gateway) Backup(ctx context.Context) (string, error) {
	snap, err := g.Load(ctx)
	if err != nil {
		return "", err
	}
	env, err := storage.EncodeBackup(snap)
	if err != nil {
		return "", err
	}
	if err := g.put(ctx, backupKey, env); err != nil {
		return "", err
	}
	return env, nil
}

// Restore validates an envelope and replaces live state with its payload.
func (g *Gateway) Restore(ctx context.Context, envelope string) error {
	snap, err := storage.DecodeBackup(envelope)
	if err != nil {
		return err
	}
	return g.Save(ctx, snap)
}

// Clear wipes both the state and backup keys.
func (g *Gateway) Clear(ctx context.Context) error {
	_, err := g.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (?, ?)`, stateKey, backupKey)
	if err != nil {
		return fmt.Errorf("failed to clear local store: %w", err)
	}
	return nil
}

func (g *Gateway) put(ctx context.Context, key, value string) error {
	_, err := g.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (g *Gateway) get(ctx context.Context, key string) (string, error) {
	var value string
	err := g.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNoSavedState
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}
