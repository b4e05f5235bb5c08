// Package repomanager hands out repository implementations bound to a DB
// handle (plain connection or transaction) and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/batteriesproject/server/internal/dbx"
	"github.com/batteriesproject/server/internal/server/repositories/companies"
	"github.com/batteriesproject/server/internal/server/repositories/errorlogs"
	"github.com/batteriesproject/server/internal/server/repositories/scores"
	"github.com/batteriesproject/server/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Companies(db dbx.DBTX) companies.Repository
	Scores(db dbx.DBTX) scores.Repository
	ErrorLogs(db dbx.DBTX) errorlogs.Repository
}
