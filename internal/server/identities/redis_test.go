package identities

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dkarpov/shopgraph/internal/common"
	"github.com/redis/go-redis/v9"
)

func newRedisRepo(t *testing.T) *RedisRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRepository(client)
}

func TestRedisCreateAndGet(t *testing.T) {
	repo := newRedisRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &UserIdentity{
		Handle:       "alice",
		Email:        "alice@example.com",
		PasswordHash: "digest",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("Create must assign an id")
	}

	byHandle, err := repo.GetByHandle(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByHandle error: %v", err)
	}
	if byHandle.Email != "alice@example.com" || byHandle.PasswordHash != "digest" {
		t.Fatalf("unexpected identity: %+v", byHandle)
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("index mismatch: %q vs %q", byEmail.ID, created.ID)
	}
}

func TestRedisCreate_DuplicateHandle(t *testing.T) {
	repo := newRedisRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &UserIdentity{Handle: "alice", Email: "a@example.com", PasswordHash: "d"}); err != nil {
		t.Fatalf("first Create error: %v", err)
	}

	_, err := repo.Create(ctx, &UserIdentity{Handle: "alice", Email: "b@example.com", PasswordHash: "d"})
	if !errors.Is(err, common.ErrDuplicateHandle) {
		t.Fatalf("want ErrDuplicateHandle, got %v", err)
	}
}

func TestRedisCreate_DuplicateEmailReleasesHandle(t *testing.T) {
	repo := newRedisRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, &UserIdentity{Handle: "alice", Email: "a@example.com", PasswordHash: "d"}); err != nil {
		t.Fatalf("first Create error: %v", err)
	}

	_, err := repo.Create(ctx, &UserIdentity{Handle: "bob", Email: "a@example.com", PasswordHash: "d"})
	if !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}

	// the losing signup must not have squatted the handle
	if _, err := repo.Create(ctx, &UserIdentity{Handle: "bob", Email: "b@example.com", PasswordHash: "d"}); err != nil {
		t.Fatalf("handle claim was not released: %v", err)
	}
}

// recordWriteFailure fails every write to the record key while letting the
// index claims through, like a connection dropping mid-create.
type recordWriteFailure struct{}

func (recordWriteFailure) DialHook(next redis.DialHook) redis.DialHook { return next }

func (recordWriteFailure) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (recordWriteFailure) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "set" {
			if key, ok := cmd.Args()[1].(string); ok && strings.HasPrefix(key, recordKeyPrefix) {
				return errors.New("transient network error")
			}
		}
		return next(ctx, cmd)
	}
}

func TestRedisCreate_FailedWriteReleasesIndexes(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	broken := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	broken.AddHook(recordWriteFailure{})
	t.Cleanup(func() { _ = broken.Close() })

	_, err := NewRedisRepository(broken).Create(ctx, &UserIdentity{
		Handle: "alice", Email: "a@example.com", PasswordHash: "d",
	})
	if err == nil {
		t.Fatal("Create must fail when the record write fails")
	}

	healthy := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = healthy.Close() })
	repo := NewRedisRepository(healthy)

	if _, err := repo.GetByHandle(ctx, "alice"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound for unwritten record, got %v", err)
	}

	// both index claims must be gone, so the handle and email stay usable
	if _, err := repo.Create(ctx, &UserIdentity{Handle: "alice", Email: "a@example.com", PasswordHash: "d"}); err != nil {
		t.Fatalf("index claims were not released: %v", err)
	}
}

func TestRedisGet_NotFound(t *testing.T) {
	repo := newRedisRepo(t)

	if _, err := repo.GetByHandle(context.Background(), "ghost"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
