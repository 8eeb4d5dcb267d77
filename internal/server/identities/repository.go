package identities

import "context"

// Repository is the narrow identity-store contract consumed by the
// credential service. Any keyed store with unique-constraint semantics on
// handle and email can implement it.
//
// GetByHandle and GetByEmail return common.ErrNotFound when no record
// matches. Create assigns the record's ID, and returns
// common.ErrDuplicateHandle or common.ErrDuplicateEmail when a concurrent
// writer already committed the same handle or email; that signal is
// authoritative even when a caller's pre-check passed.
type Repository interface {
	GetByHandle(ctx context.Context, handle string) (*UserIdentity, error)
	GetByEmail(ctx context.Context, email string) (*UserIdentity, error)
	Create(ctx context.Context, identity *UserIdentity) (*UserIdentity, error)
}
