package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dkarpov/shopgraph/internal/server/identities"
	"github.com/redis/go-redis/v9"
)

type RedisManager struct {
	client     *redis.Client
	identities identities.Repository
}

func NewRedisManager(ctx context.Context, url string) (*RedisManager, error) {

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url error: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect error: %w", err)
	}

	return &RedisManager{
		client:     client,
		identities: identities.NewRedisRepository(client),
	}, nil
}

func (m *RedisManager) Identities() identities.Repository {
	return m.identities
}

func (m *RedisManager) Close() error {
	return m.client.Close()
}
