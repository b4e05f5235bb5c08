package errorlogs

import (
	"context"
	"fmt"

	"github.com/batteriesproject/server/internal/dbx"
	"github.com/batteriesproject/server/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, log *models.ErrorLog) error {
	query := `
		INSERT INTO error_logs (trace_id, type, message, source, stack_trace, ts)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		log.TraceID, log.Type, log.Message, log.Source, log.StackTrace, log.Timestamp)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}
