package identities

import (
	"context"
	"sync"
	"time"

	"github.com/dkarpov/shopgraph/internal/common"
	"github.com/google/uuid"
)

// MemoryRepository is a mutex-guarded in-process store used for development
// and tests. Duplicate semantics match the persistent backends: the insert
// itself is the authoritative uniqueness check.
type MemoryRepository struct {
	mu       sync.RWMutex
	byHandle map[string]*UserIdentity
	byEmail  map[string]*UserIdentity
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byHandle: make(map[string]*UserIdentity),
		byEmail:  make(map[string]*UserIdentity),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, identity *UserIdentity) (*UserIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byHandle[identity.Handle]; ok {
		return nil, common.ErrDuplicateHandle
	}
	if _, ok := r.byEmail[identity.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}

	identity.ID = uuid.NewString()
	identity.CreatedAt = time.Now()

	stored := *identity
	r.byHandle[identity.Handle] = &stored
	r.byEmail[identity.Email] = &stored

	return identity, nil
}

func (r *MemoryRepository) GetByHandle(ctx context.Context, handle string) (*UserIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byHandle[handle]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *identity
	return &out, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*UserIdentity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *identity
	return &out, nil
}
