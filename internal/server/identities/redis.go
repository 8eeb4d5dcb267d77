package identities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkarpov/shopgraph/internal/common"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	recordKeyPrefix = "identity:id:"
	handleKeyPrefix = "identity:handle:"
	emailKeyPrefix  = "identity:email:"
)

// RedisRepository stores identities in Redis. The record lives under
// identity:id:<id> as JSON; identity:handle:<handle> and
// identity:email:<email> are index keys pointing at the id. Uniqueness is
// enforced by claiming the index keys with SETNX, so of two concurrent
// writers exactly one wins each key.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Create(ctx context.Context, identity *UserIdentity) (*UserIdentity, error) {

	identity.ID = uuid.NewString()

	ok, err := r.client.SetNX(ctx, handleKeyPrefix+identity.Handle, identity.ID, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("error claiming handle: %w", err)
	}
	if !ok {
		return nil, common.ErrDuplicateHandle
	}

	ok, err = r.client.SetNX(ctx, emailKeyPrefix+identity.Email, identity.ID, 0).Result()
	if err == nil && !ok {
		err = common.ErrDuplicateEmail
	}
	if err != nil {
		// release the handle claim so the winner of the email key, or a
		// retry, can still use it
		r.client.Del(context.WithoutCancel(ctx), handleKeyPrefix+identity.Handle)
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("error claiming email: %w", err)
	}

	data, err := json.Marshal(identity)
	if err != nil {
		r.releaseIndexes(ctx, identity)
		return nil, fmt.Errorf("error encoding identity: %w", err)
	}
	if err := r.client.Set(ctx, recordKeyPrefix+identity.ID, data, 0).Err(); err != nil {
		r.releaseIndexes(ctx, identity)
		return nil, fmt.Errorf("error storing identity: %w", err)
	}

	return identity, nil
}

// releaseIndexes drops both index claims so a failed create does not leave
// the handle or email squatted by a record that was never written. Runs
// detached from ctx so an expired request deadline cannot skip the cleanup.
func (r *RedisRepository) releaseIndexes(ctx context.Context, identity *UserIdentity) {
	r.client.Del(context.WithoutCancel(ctx),
		handleKeyPrefix+identity.Handle, emailKeyPrefix+identity.Email)
}

func (r *RedisRepository) GetByHandle(ctx context.Context, handle string) (*UserIdentity, error) {
	return r.getByIndex(ctx, handleKeyPrefix+handle)
}

func (r *RedisRepository) GetByEmail(ctx context.Context, email string) (*UserIdentity, error) {
	return r.getByIndex(ctx, emailKeyPrefix+email)
}

func (r *RedisRepository) getByIndex(ctx context.Context, indexKey string) (*UserIdentity, error) {
	id, err := r.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error reading index: %w", err)
	}

	data, err := r.client.Get(ctx, recordKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// index exists but the record write has not landed yet
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error reading identity: %w", err)
	}

	identity := &UserIdentity{}
	if err := json.Unmarshal(data, identity); err != nil {
		return nil, err
	}
	return identity, nil
}
