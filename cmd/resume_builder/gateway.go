package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/storage/localstore"
	"github.com/jonathan/resume-builder/internal/storage/memory"
	"github.com/jonathan/resume-builder/internal/storage/postgres"
)

// newGatewayFactory builds the backend constructor the server and the
// maintenance commands share.
func newGatewayFactory(cfg config.Config) server.GatewayFactory {
	return func(ctx context.Context, backend, userID string) (storage.Gateway, error) {
		switch backend {
		case config.BackendLocal:
			return localstore.Open(cfg.LocalDBPath)
		case config.BackendDatabase:
			if cfg.DatabaseURL == "" {
				return nil, fmt.Errorf("backend %q requires DATABASE_URL", backend)
			}
			gw, err := postgres.Connect(ctx, cfg.DatabaseURL, userUUID(userID))
			if err != nil {
				return nil, err
			}
			if err := gw.Setup(ctx); err != nil {
				gw.Close()
				return nil, err
			}
			return gw, nil
		case config.BackendMemory:
			return memory.New(), nil
		default:
			return nil, fmt.Errorf("unknown backend %q", backend)
		}
	}
}

// userUUID maps a request user id onto the database's uuid keyspace. Ids
// that already are uuids pass through; anything else (header names, token
// subjects) maps deterministically so the same user always hits the same
// rows.
func userUUID(userID string) uuid.UUID {
	if id, err := uuid.Parse(userID); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(userID))
}
