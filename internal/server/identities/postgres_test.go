package identities

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dkarpov/shopgraph/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestPostgresCreate_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	created := time.Now()
	mock.ExpectQuery("INSERT INTO identities").
		WithArgs(sqlmock.AnyArg(), "alice", "alice@example.com", "digest").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	repo := NewPostgresRepository(db)
	identity, err := repo.Create(context.Background(), &UserIdentity{
		Handle:       "alice",
		Email:        "alice@example.com",
		PasswordHash: "digest",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if identity.ID == "" {
		t.Fatalf("Create must assign an id")
	}
	if !identity.CreatedAt.Equal(created) {
		t.Fatalf("created_at not populated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestPostgresCreate_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"handle constraint", "identities_handle_key", common.ErrDuplicateHandle},
		{"email constraint", "identities_email_key", common.ErrDuplicateEmail},
		{"heuristic email match", "uq_identities_email_norm", common.ErrDuplicateEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newSQLMockDB(t)
			defer db.Close()

			mock.ExpectQuery("INSERT INTO identities").
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			repo := NewPostgresRepository(db)
			_, err := repo.Create(context.Background(), &UserIdentity{
				Handle: "alice", Email: "alice@example.com", PasswordHash: "digest",
			})
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPostgresCreate_UnrecognizedConstraintNotClassified(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO identities").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "identities_phone_key"})

	repo := NewPostgresRepository(db)
	_, err := repo.Create(context.Background(), &UserIdentity{
		Handle: "alice", Email: "alice@example.com", PasswordHash: "digest",
	})
	if err == nil || errors.Is(err, common.ErrDuplicateHandle) || errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("violation naming neither field must not be reported as a conflict, got %v", err)
	}
}

func TestPostgresCreate_OtherErrorPassesThrough(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO identities").
		WillReturnError(errors.New("connection reset"))

	repo := NewPostgresRepository(db)
	_, err := repo.Create(context.Background(), &UserIdentity{
		Handle: "alice", Email: "alice@example.com", PasswordHash: "digest",
	})
	if err == nil || errors.Is(err, common.ErrDuplicateHandle) || errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("non-unique-violation error must not be classified as duplicate, got %v", err)
	}
}

func TestPostgresGetByHandle(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "handle", "email", "password_hash", "is_admin", "created_at"}).
		AddRow("id-1", "alice", "alice@example.com", "digest", false, time.Now())
	mock.ExpectQuery("SELECT id, handle, email, password_hash, is_admin, created_at FROM identities").
		WithArgs("alice").
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	identity, err := repo.GetByHandle(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByHandle error: %v", err)
	}
	if identity.Handle != "alice" || identity.PasswordHash != "digest" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestPostgresGetByEmail_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, handle, email, password_hash, is_admin, created_at FROM identities").
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	repo := NewPostgresRepository(db)
	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
