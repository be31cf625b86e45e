// Package postgres persists state to a relational store scoped by user id.
// The snapshot decomposes into normalized rows (items with bullet and tag
// sub-rows, profiles, and one polymorphic profile_items join) and reassembles
// into the same in-memory shapes on load.
package postgres

import (
	"context"
	"errors"
	"fmt"

	_ "embed"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-builder/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

// Item type discriminators for the polymorphic sub-row and join tables.
const (
	itemTypeExperience = "EXPERIENCE"
	itemTypeProject    = "PROJECT"
	itemTypeSkill      = "SKILL"
	itemTypeEducation  = "EDUCATION"
)

// Gateway is the database persistence backend for one user.
type Gateway struct {
	pool   *pgxpool.Pool
	userID uuid.UUID
}

// Connect establishes a connection pool and returns a gateway scoped to userID.
func Connect(ctx context.Context, databaseURL string, userID uuid.UUID) (*Gateway, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	return &Gateway{pool: pool, userID: userID}, nil
}

// Setup applies the embedded schema. Idempotent.
func (g *Gateway) Setup(ctx context.Context) error {
	if _, err := g.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (g *Gateway) Close() {
	if g.pool != nil {
		g.pool.Close()
	}
}

// Name identifies the backend.
func (g *Gateway) Name() string { return "database" }

// ForUser returns a gateway bound to a different user on the same pool.
func (g *Gateway) ForUser(userID uuid.UUID) *Gateway {
	return &Gateway{pool: g.pool, userID: userID}
}

// UserID returns the user this gateway is scoped to.
func (g *Gateway) UserID() uuid.UUID { return g.userID }

// Backup loads current state and stores a versioned envelope of it, kept
// independently of the live rows.
func (g *Gateway) Backup(ctx context.Context) (string, error) {
	snap, err := g.Load(ctx)
	if err != nil {
		return "", err
	}
	env, err := storage.EncodeBackup(snap)
	if err != nil {
		return "", err
	}
	_, err = g.pool.Exec(ctx,
		`INSERT INTO backups (user_id, envelope)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET envelope = $2, created_at = NOW()`,
		g.userID, env,
	)
	if err != nil {
		return "", fmt.Errorf("failed to store backup: %w", err)
	}
	return env, nil
}

// Restore validates an envelope and replaces the user's rows with its payload.
func (g *Gateway) Restore(ctx context.Context, envelope string) error {
	snap, err := storage.DecodeBackup(envelope)
	if err != nil {
		return err
	}
	return g.Save(ctx, snap)
}

// Clear deletes every row belonging to the user.
func (g *Gateway) Clear(ctx context.Context) error {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if err := deleteUserRows(ctx, tx, g.userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM backups WHERE user_id = $1`, g.userID); err != nil {
		return fmt.Errorf("failed to clear backups: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func deleteUserRows(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	tables := []string{
		"profile_items", "profiles", "item_tags", "item_bullets",
		"experiences", "projects", "skills", "education",
		"personal_info", "user_state",
	}
	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table), userID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		_ = err
	}
}
