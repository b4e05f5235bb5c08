package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/batteriesproject/server/internal/common"
	"github.com/batteriesproject/server/internal/dbx"
	"github.com/batteriesproject/server/internal/server/config"
	"github.com/batteriesproject/server/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// RefreshTokenService manages the single refresh-token slot each user row
// carries. A user has at most one live refresh token; saving a new one
// silently invalidates the previous, so every sign-in or rotation logs out
// any other active session for that user.
//
// Concurrent refresh calls for one user are not serialized: every mutation is
// a single atomic row update and the last writer wins.
type RefreshTokenService struct {
	db                 *sql.DB
	repomanager        repomanager.RepositoryManager
	validity           time.Duration
	rememberMeValidity time.Duration
	now                func() time.Time
}

// NewRefreshTokenService constructs the service using repositories and server
// config.
func NewRefreshTokenService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *RefreshTokenService {
	return &RefreshTokenService{
		db:                 db,
		repomanager:        m,
		validity:           cfg.RefreshTokenValidityDuration,
		rememberMeValidity: cfg.RefreshTokenRememberMeValidityDuration,
		now:                time.Now,
	}
}

// Generate produces a fresh opaque refresh token (random v4 UUID). Pure: no
// store access, no uniqueness check (collision probability is negligible).
func (s *RefreshTokenService) Generate() string {
	return uuid.NewString()
}

// Save stores token as the user's refresh token with an expiry computed from
// the user's persisted remember-me preference: now+30 days when set,
// now+1 day otherwise. Any previous token is overwritten.
func (s *RefreshTokenService) Save(ctx context.Context, email, token string) error {
	return s.save(ctx, s.db, email, token)
}

func (s *RefreshTokenService) save(ctx context.Context, db dbx.DBTX, email, token string) error {
	repo := s.repomanager.Users(db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	validity := s.validity
	if user.RememberMe {
		validity = s.rememberMeValidity
	}

	return repo.UpdateRefreshToken(ctx, email, token, s.now().Add(validity))
}

// Get returns the user's current refresh token. An absent user yields
// common.ErrorNotFound; an existing user with no active session yields
// an empty string.
func (s *RefreshTokenService) Get(ctx context.Context, email string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}

	return user.RefreshToken, nil
}

// IsExpired reports whether the user's refresh token has passed its expiry.
// An absent user reports false: existence is the caller's concern.
func (s *RefreshTokenService) IsExpired(ctx context.Context, email string) (bool, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error loading user: %w", err)
	}

	return !s.now().Before(user.ExpiryTime), nil
}

// Delete clears the user's refresh-token slot only when it still holds token,
// and reports whether the clear happened. A stale token is a no-op returning
// false.
func (s *RefreshTokenService) Delete(ctx context.Context, email, token string) (bool, error) {
	return s.delete(ctx, s.db, email, token)
}

func (s *RefreshTokenService) delete(ctx context.Context, db dbx.DBTX, email, token string) (bool, error) {
	return s.repomanager.Users(db).ClearRefreshToken(ctx, email, token)
}
