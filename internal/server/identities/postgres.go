package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dkarpov/shopgraph/internal/common"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository stores identities in PostgreSQL. Uniqueness of handle
// and email is enforced by the identities_handle_key and identities_email_key
// constraints, so concurrent inserts of the same value cannot both commit.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, identity *UserIdentity) (*UserIdentity, error) {

	identity.ID = uuid.NewString()

	query :=
		`INSERT INTO identities (id, handle, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		identity.ID, identity.Handle, identity.Email, identity.PasswordHash).Scan(&identity.CreatedAt)

	if err != nil {
		if dup := classifyUniqueViolation(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return identity, nil
}

func (r *PostgresRepository) GetByHandle(ctx context.Context, handle string) (*UserIdentity, error) {
	return r.getByField(ctx, "handle", handle)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*UserIdentity, error) {
	return r.getByField(ctx, "email", email)
}

func (r *PostgresRepository) getByField(ctx context.Context, field string, value string) (*UserIdentity, error) {
	query := fmt.Sprintf(
		`SELECT id, handle, email, password_hash, is_admin, created_at FROM identities
		 WHERE %s = $1
		 `, field)

	identity := &UserIdentity{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&identity.ID, &identity.Handle, &identity.Email,
		&identity.PasswordHash, &identity.IsAdmin, &identity.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return identity, nil
}

// classifyUniqueViolation maps a pg unique_violation (23505) to the
// duplicate sentinel for the field named by the violated constraint. It
// prefers the stable constraint names from the schema and falls back to
// substring matching. A violation naming neither field returns nil so the
// caller reports it as a generic storage error instead of a bogus conflict.
func classifyUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	if pgErr.Code != "23505" { // unique_violation
		return nil
	}

	c := strings.ToLower(pgErr.ConstraintName)
	switch {
	case c == "identities_handle_key" || strings.Contains(c, "handle"):
		return common.ErrDuplicateHandle
	case c == "identities_email_key" || strings.Contains(c, "email"):
		return common.ErrDuplicateEmail
	default:
		return nil
	}
}
