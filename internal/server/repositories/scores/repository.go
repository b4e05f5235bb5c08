// Package scores declares the repository contract for per-company loyalty
// scores.
package scores

import (
	"context"

	"github.com/batteriesproject/server/internal/server/models"
)

type Repository interface {
	// Get returns the score row for (userID, companyID), or
	// common.ErrorNotFound when the user has no score with that company.
	Get(ctx context.Context, userID, companyID int64) (*models.UserCompanyScore, error)

	// ListByUser returns all score rows for one user.
	ListByUser(ctx context.Context, userID int64) ([]*models.UserCompanyScore, error)

	// Add increments (upserting at zero) the user's score with a company and
	// returns the resulting total.
	Add(ctx context.Context, userID, companyID int64, delta int) (int, error)
}
