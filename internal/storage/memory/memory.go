// Package memory provides an in-process persistence gateway. It backs the
// zero-config development mode and is the gateway store tests inject.
package memory

import (
	"context"
	"sync"

	"github.com/jonathan/resume-builder/internal/storage"
)

// Gateway keeps serialized state in memory. It round-trips through the same
// encode/decode path as the durable backends so validation behavior matches.
type Gateway struct {
	mu     sync.Mutex
	state  []byte
	backup string

	// SaveErr, when set, makes every Save fail with that error. Used by tests
	// to exercise the store's optimistic-update-on-failed-save contract.
	SaveErr error
}

// New creates an empty in-memory gateway.
func New() *Gateway {
	return &Gateway{}
}

// Name identifies the backend.
func (g *Gateway) Name() string { return "memory" }

// Save serializes and stores the snapshot.
func (g *Gateway) Save(_ context.Context, snap *storage.Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.SaveErr != nil {
		return g.SaveErr
	}

	raw, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	g.state = raw
	return nil
}

// Load returns the last saved snapshot.
func (g *Gateway) Load(_ context.Context) (*storage.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == nil {
		return nil, storage.ErrNoSavedState
	}
	return storage.DecodeSnapshot(g.state)
}

// Backup returns a versioned envelope of the current state.
func (g *Gateway) Backup(_ context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == nil {
		return "", storage.ErrNoSavedState
	}
	snap, err := storage.DecodeSnapshot(g.state)
	if err != nil {
		return "", err
	}
	env, err := storage.EncodeBackup(snap)
	if err != nil {
		return "", err
	}
	g.backup = env
	return env, nil
}

// Restore replaces state with a validated envelope payload.
func (g *Gateway) Restore(_ context.Context, envelope string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap, err := storage.DecodeBackup(envelope)
	if err != nil {
		return err
	}
	raw, err := storage.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	g.state = raw
	return nil
}

// Clear wipes stored state.
func (g *Gateway) Clear(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = nil
	g.backup = ""
	return nil
}
