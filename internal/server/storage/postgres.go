package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dkarpov/shopgraph/internal/server/identities"
	"github.com/dkarpov/shopgraph/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresManager struct {
	db         *sql.DB
	identities identities.Repository
}

func NewPostgresManager(ctx context.Context, dsn string) (*PostgresManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresManager{
		db:         db,
		identities: identities.NewPostgresRepository(db),
	}

	if err := m.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

func (m *PostgresManager) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

func (m *PostgresManager) Identities() identities.Repository {
	return m.identities
}

func (m *PostgresManager) Close() error {
	return m.db.Close()
}
