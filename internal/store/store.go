// Package store is the single funnel for state mutation. Every method
// computes a new in-memory state, installs it, and then persists the full
// snapshot through the injected gateway. The in-memory update always completes
// before persistence starts, so reads never wait on storage; a failed save is
// recorded as the store's error string and never rolls the state back.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/types"
)

// Sentinel errors for the mutation surface.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrBadCategory     = errors.New("unknown category")
	ErrBadIndex        = errors.New("index out of range")
)

// Store holds the live profile list and master data bundle.
type Store struct {
	mu sync.Mutex

	profiles []types.Profile
	data     types.DataBundle

	// saveMu serializes persistence in mutation order. It is acquired while
	// mu is still held, so overlapping mutations persist in the order their
	// in-memory updates landed. It also guards the active gateway pointer;
	// mu is never taken while saveMu is held.
	saveMu  sync.Mutex
	gateway storage.Gateway

	// lastErr has its own lock so the save path can record failures without
	// touching mu while saveMu is held.
	errMu   sync.Mutex
	lastErr string
}

// New creates a store backed by the given gateway. State is empty until Load
// or the first mutation.
func New(gateway storage.Gateway) *Store {
	return &Store{gateway: gateway}
}

// Load pulls the last saved snapshot from the gateway. When no usable state
// exists (nothing saved yet, or the stored shape failed validation) the store
// seeds defaults instead, so the application always starts with usable state.
func (s *Store) Load(ctx context.Context) error {
	s.saveMu.Lock()
	snap, err := s.gateway.Load(ctx)
	s.saveMu.Unlock()
	if err != nil {
		if errors.Is(err, storage.ErrNoSavedState) || errors.Is(err, storage.ErrInvalidSnapshot) {
			snap = DefaultSnapshot()
		} else {
			s.setError(err)
			snap = DefaultSnapshot()
		}
	}

	s.mu.Lock()
	s.profiles = snap.Profiles
	s.data = snap.Data
	s.mu.Unlock()
	return nil
}

// Profiles returns a deep copy of all profiles.
func (s *Store) Profiles() []types.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Profile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = p.Clone()
	}
	return out
}

// Profile returns a deep copy of one profile.
func (s *Store) Profile(id string) (types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return types.Profile{}, profileNotFound(id)
}

// Data returns a deep copy of the master data bundle.
func (s *Store) Data() types.DataBundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Snapshot returns a deep copy of the full persisted unit.
func (s *Store) Snapshot() *storage.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// BackendName reports the active gateway.
func (s *Store) BackendName() string {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.gateway.Name()
}

// LastError returns the most recent persistence error message, empty when the
// last operation succeeded.
func (s *Store) LastError() string {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.lastErr
}

// ClearError dismisses the persistence error banner state.
func (s *Store) ClearError() {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	s.lastErr = ""
}

// mutate runs fn against live state under the lock, then persists the
// resulting snapshot. fn returning an error aborts before any persistence.
func (s *Store) mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked()
	s.saveMu.Lock()
	s.mu.Unlock()
	defer s.saveMu.Unlock()

	if err := s.gateway.Save(ctx, snap); err != nil {
		s.setError(err)
		return nil // optimistic update stands; error is surfaced via LastError
	}
	s.ClearError()
	return nil
}

func (s *Store) snapshotLocked() *storage.Snapshot {
	snap := &storage.Snapshot{Profiles: s.profiles, Data: s.data}
	return snap.Clone()
}

func (s *Store) setError(err error) {
	s.errMu.Lock()
	s.lastErr = err.Error()
	s.errMu.Unlock()
}

func (s *Store) findProfileLocked(id string) (*types.Profile, error) {
	for i := range s.profiles {
		if s.profiles[i].ID == id {
			return &s.profiles[i], nil
		}
	}
	return nil, profileNotFound(id)
}

func profileNotFound(id string) error {
	return &notFoundError{kind: ErrProfileNotFound, id: id}
}

func itemNotFound(category types.Category, id string) error {
	return &notFoundError{kind: ErrItemNotFound, id: string(category) + "/" + id}
}

type notFoundError struct {
	kind error
	id   string
}

func (e *notFoundError) Error() string { return e.kind.Error() + ": " + e.id }
func (e *notFoundError) Unwrap() error { return e.kind }
