// Package errorlogs declares the repository contract for persisted error
// records written by the HTTP catch-all middleware.
package errorlogs

import (
	"context"

	"github.com/batteriesproject/server/internal/server/models"
)

type Repository interface {
	// Create persists one error record. Failures here must never mask the
	// original error being recorded; callers log and move on.
	Create(ctx context.Context, log *models.ErrorLog) error
}
