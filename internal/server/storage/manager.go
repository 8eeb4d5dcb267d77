// Package storage selects and initializes the identity-store backend
// configured for the server.
package storage

import (
	"context"
	"fmt"

	"github.com/dkarpov/shopgraph/internal/server/config"
	"github.com/dkarpov/shopgraph/internal/server/identities"
)

// Manager owns the backend connection and hands out repositories bound to
// it. The connection is pooled and shared by all concurrent requests.
type Manager interface {
	Identities() identities.Repository
	Close() error
}

// NewManager builds the Manager for the configured backend and runs any
// required migrations. Unknown backends are a startup-time error.
func NewManager(ctx context.Context, cfg *config.Config) (Manager, error) {
	switch cfg.StorageBackend {
	case "postgres":
		return NewPostgresManager(ctx, cfg.DatabaseDSN)
	case "redis":
		return NewRedisManager(ctx, cfg.RedisURL)
	case "memory":
		return NewMemoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
