// Package users declares the repository contract for account records.
package users

import (
	"context"
	"time"

	"github.com/batteriesproject/server/internal/server/models"
)

// Repository defines the persistence operations the auth and profile flows
// need. Implementations must return common.ErrorNotFound for absent rows and
// common.ErrorAlreadyExists on uniqueness violations.
type Repository interface {
	// Create inserts a new user and returns it with the store-assigned ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// ExistsByEmail reports whether any user has the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// UpdateRememberMe persists the remember-me preference chosen at sign-in.
	UpdateRememberMe(ctx context.Context, id int64, rememberMe bool) error

	// UpdateRefreshToken overwrites the user's single refresh-token slot and
	// its expiry in one atomic row update.
	UpdateRefreshToken(ctx context.Context, email, token string, expiry time.Time) error

	// ClearRefreshToken empties the slot only if it currently holds token,
	// and reports whether the clear happened.
	ClearRefreshToken(ctx context.Context, email, token string) (bool, error)

	// UpdatePasswordHash replaces the stored credential.
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	// UpdateProfilePhoto sets (or clears, with an empty key) the storage key
	// of the user's profile photo.
	UpdateProfilePhoto(ctx context.Context, id int64, storageKey string) error
}
