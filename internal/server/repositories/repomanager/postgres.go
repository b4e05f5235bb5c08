package repomanager

import (
	"context"
	"database/sql"

	"github.com/batteriesproject/server/internal/dbx"
	"github.com/batteriesproject/server/internal/server/migrations"
	"github.com/batteriesproject/server/internal/server/repositories/companies"
	"github.com/batteriesproject/server/internal/server/repositories/errorlogs"
	"github.com/batteriesproject/server/internal/server/repositories/scores"
	"github.com/batteriesproject/server/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Companies(db dbx.DBTX) companies.Repository {
	return companies.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Scores(db dbx.DBTX) scores.Repository {
	return scores.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ErrorLogs(db dbx.DBTX) errorlogs.Repository {
	return errorlogs.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
