package store

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/storage"
)

// Backup persists current in-memory state and returns a versioned envelope
// string of it.
func (s *Store) Backup(ctx context.Context) (string, error) {
	// Push live state down first so the envelope reflects what the user sees,
	// not the last successful save.
	snap := s.Snapshot()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.gateway.Save(ctx, snap); err != nil {
		s.setError(err)
		return "", err
	}
	env, err := s.gateway.Backup(ctx)
	if err != nil {
		s.setError(err)
		return "", err
	}
	return env, nil
}

// Restore replaces both stored and in-memory state with a backup envelope's
// payload. A malformed envelope leaves everything untouched.
func (s *Store) Restore(ctx context.Context, envelope string) error {
	snap, err := storage.DecodeBackup(envelope)
	if err != nil {
		return err
	}

	s.saveMu.Lock()
	if err := s.gateway.Restore(ctx, envelope); err != nil {
		s.saveMu.Unlock()
		s.setError(err)
		return err
	}
	s.saveMu.Unlock()

	s.mu.Lock()
	s.profiles = snap.Profiles
	s.data = snap.Data
	s.mu.Unlock()
	s.ClearError()
	return nil
}

// SwitchBackend migrates all state to the destination gateway and only then
// swaps the active backend pointer. A failed migration leaves the current
// backend active and untouched.
func (s *Store) SwitchBackend(ctx context.Context, to storage.Gateway) error {
	// Flush in-memory state so the migration source is current.
	snap := s.Snapshot()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.gateway.Save(ctx, snap); err != nil {
		s.setError(err)
		return fmt.Errorf("failed to flush state before migration: %w", err)
	}
	if err := storage.Migrate(ctx, s.gateway, to); err != nil {
		s.setError(err)
		return err
	}

	s.gateway = to
	s.ClearError()
	return nil
}

// ClearAll wipes stored state and resets the store to seeded defaults.
func (s *Store) ClearAll(ctx context.Context) error {
	s.saveMu.Lock()
	if err := s.gateway.Clear(ctx); err != nil {
		s.saveMu.Unlock()
		s.setError(err)
		return err
	}
	s.saveMu.Unlock()

	snap := DefaultSnapshot()
	s.mu.Lock()
	s.profiles = snap.Profiles
	s.data = snap.Data
	s.mu.Unlock()
	s.ClearError()
	return nil
}
