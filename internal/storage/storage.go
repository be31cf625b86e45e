// Package storage defines the persistence gateway contract shared by the
// interchangeable backends (device-local sqlite, Postgres, in-memory) and the
// migrate operation that moves state between them.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// Sentinel errors surfaced by every backend. The store layer matches on these
// with errors.Is and converts them to its single user-facing error string.
var (
	// ErrNoSavedState indicates Load was called before any successful Save.
	ErrNoSavedState = errors.New("no saved state")
	// ErrInvalidSnapshot indicates stored or restored data failed structural validation.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrUnavailable indicates the backend cannot be reached in this context.
	ErrUnavailable = errors.New("storage backend unavailable")
	// ErrQuotaExceeded indicates the serialized state exceeds the backend's size limit.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Snapshot is the unit of persistence: the full profile list and the master
// data bundle, always written and read together.
type Snapshot struct {
	Profiles []types.Profile  `json:"profiles"`
	Data     types.DataBundle `json:"data"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Profiles: make([]types.Profile, len(s.Profiles)),
		Data:     s.Data.Clone(),
	}
	for i, p := range s.Profiles {
		out.Profiles[i] = p.Clone()
	}
	return out
}

// Gateway is the persistence contract. Save and Load operate on the snapshot
// as one atomic unit; Backup and Restore round-trip an opaque versioned
// envelope string independent of the live state key.
type Gateway interface {
	// Save writes the snapshot as a unit. Partial writes must not be observable.
	Save(ctx context.Context, snap *Snapshot) error
	// Load reads the last saved snapshot. Returns ErrNoSavedState when no
	// prior save exists and ErrInvalidSnapshot when the stored shape fails
	// validation.
	Load(ctx context.Context) (*Snapshot, error)
	// Backup returns a versioned, timestamped envelope of the current state.
	Backup(ctx context.Context) (string, error)
	// Restore validates an envelope and replaces the current state with its
	// payload. Malformed input is rejected without touching existing state.
	Restore(ctx context.Context, envelope string) error
	// Clear wipes all stored state.
	Clear(ctx context.Context) error
	// Name identifies the backend ("local", "database", "memory").
	Name() string
}

// Migrate copies all state from one backend to another: full load, then full
// save. The destination is only written after the source load succeeds, so a
// failed migration never leaves partial state behind. Switching the active
// backend pointer is the caller's job and must happen only on success.
func Migrate(ctx context.Context, from, to Gateway) error {
	snap, err := from.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load from %s: %w", from.Name(), err)
	}
	if err := to.Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to save to %s: %w", to.Name(), err)
	}
	return nil
}
