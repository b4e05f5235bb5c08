// Package services implements the application logic between the HTTP layer
// and the repositories: session lifecycle, refresh-token storage, company
// benefits and loyalty scores, and profile media.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/batteriesproject/server/internal/common"
	"github.com/batteriesproject/server/internal/dbx"
	"github.com/batteriesproject/server/internal/server/auth"
	"github.com/batteriesproject/server/internal/server/config"
	"github.com/batteriesproject/server/internal/server/models"
	"github.com/batteriesproject/server/internal/server/repositories/repomanager"
)

// Session is the result of a successful sign-in or refresh: the user's
// display name plus a fresh access token and the refresh token that pairs
// with it.
type Session struct {
	Name         string
	AccessToken  string
	RefreshToken string
}

// SessionService orchestrates sign-up, sign-in, token refresh and password
// change. It owns the credential rules end to end; handlers only translate
// its sentinel errors into HTTP statuses.
type SessionService struct {
	db                  *sql.DB
	repomanager         repomanager.RepositoryManager
	refreshTokens       *RefreshTokenService
	secretKey           []byte
	accessTokenValidity time.Duration
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, rt *RefreshTokenService, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                  db,
		repomanager:         m,
		refreshTokens:       rt,
		secretKey:           []byte(cfg.SecretKey),
		accessTokenValidity: cfg.AccessTokenValidityDuration,
	}
}

// SignUp validates the password against the strength policy, checks the email
// is not taken, hashes the password and creates the account. A weak password
// yields common.ErrorWeakPassword; a taken email yields
// common.ErrorAlreadyExists.
func (s *SessionService) SignUp(ctx context.Context, nick, email, password string) (*models.User, error) {
	if !auth.IsPasswordValid(password) {
		return nil, common.ErrorWeakPassword
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, common.ErrorAlreadyExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := repo.Create(ctx, &models.User{
		Nick:         nick,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// SignIn authenticates the user and opens a session. An unknown email yields
// common.ErrorNotFound and a wrong password common.ErrorUnauthorized; the two
// are deliberately distinct statuses at the HTTP boundary.
//
// The remember-me preference is persisted before any token is issued, so the
// refresh-token expiry saved below is always computed from the preference of
// this sign-in, not a previous one.
func (s *SessionService) SignIn(ctx context.Context, email, password string, rememberMe bool) (*Session, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	if err := repo.UpdateRememberMe(ctx, user.ID, rememberMe); err != nil {
		return nil, fmt.Errorf("error saving remember-me preference: %w", err)
	}

	accessToken, err := auth.IssueToken(user.Email, user.Nick, s.secretKey, s.accessTokenValidity)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	refreshToken := s.refreshTokens.Generate()
	if err := s.refreshTokens.Save(ctx, user.Email, refreshToken); err != nil {
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}

	return &Session{
		Name:         user.Nick,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges an expired (or still valid) access token plus the
// matching refresh token for a fresh access token.
//
// The access token is parsed with lifetime validation skipped; signature and
// algorithm checks still apply, so a forged token fails here with
// common.ErrInvalidToken. A refresh token that does not match the stored one
// yields common.ErrInvalidRefreshToken, never a not-found: the caller must be
// able to tell a revoked session from a missing one.
//
// While the stored refresh token is unexpired it is returned unchanged and
// only the access token is reissued. Once it has expired it is rotated:
// the old token is cleared and a new one saved in one transaction.
func (s *SessionService) Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	claims, err := auth.ParseExpiredToken(accessToken, s.secretKey)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	stored, err := s.refreshTokens.Get(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if stored == "" {
		// no active session to refresh
		return nil, common.ErrorNotFound
	}

	if stored != refreshToken {
		return nil, common.ErrInvalidRefreshToken
	}

	expired, err := s.refreshTokens.IsExpired(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	next := stored
	if expired {
		next = s.refreshTokens.Generate()
		err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if _, err := s.refreshTokens.delete(ctx, tx, user.Email, stored); err != nil {
				return err
			}
			return s.refreshTokens.save(ctx, tx, user.Email, next)
		})
		if err != nil {
			return nil, fmt.Errorf("error rotating refresh token: %w", err)
		}
	}

	newAccessToken, err := auth.ReissueFromClaims(claims, s.secretKey, s.accessTokenValidity)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	return &Session{
		Name:         user.Nick,
		AccessToken:  newAccessToken,
		RefreshToken: next,
	}, nil
}

// ChangePassword replaces the user's password after verifying the current
// one. The new password must satisfy the same strength policy as sign-up.
func (s *SessionService) ChangePassword(ctx context.Context, email, password, newPassword string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return common.ErrorUnauthorized
	}

	if !auth.IsPasswordValid(newPassword) {
		return common.ErrorWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	return nil
}
