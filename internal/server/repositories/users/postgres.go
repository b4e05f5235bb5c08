// Package users provides the PostgreSQL-backed repository for account rows.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/batteriesproject/server/internal/common"
	"github.com/batteriesproject/server/internal/dbx"
	"github.com/batteriesproject/server/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (nick, email, password_hash)
		VALUES (NULLIF($1, ''), $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, user.Nick, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, COALESCE(nick, ''), email, password_hash, refresh_token,
		       expiry_time, remember_me, profile_photo, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Nick, &user.Email, &user.PasswordHash, &user.RefreshToken,
		&user.ExpiryTime, &user.RememberMe, &user.ProfilePhoto, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) UpdateRememberMe(ctx context.Context, id int64, rememberMe bool) error {
	query := `UPDATE users SET remember_me = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, rememberMe)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return checkAffected(res)
}

func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, email, token string, expiry time.Time) error {
	query := `
		UPDATE users SET refresh_token = $2, expiry_time = $3
		WHERE lower(email) = lower($1)
	`
	res, err := r.db.ExecContext(ctx, query, email, token, expiry)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return checkAffected(res)
}

// ClearRefreshToken is a compare-and-clear: the slot is emptied only when it
// still holds the supplied token, in a single atomic update.
func (r *PostgresRepository) ClearRefreshToken(ctx context.Context, email, token string) (bool, error) {
	query := `
		UPDATE users SET refresh_token = ''
		WHERE lower(email) = lower($1) AND refresh_token = $2
	`
	res, err := r.db.ExecContext(ctx, query, email, token)
	if err != nil {
		return false, fmt.Errorf("error performing sql request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return checkAffected(res)
}

func (r *PostgresRepository) UpdateProfilePhoto(ctx context.Context, id int64, storageKey string) error {
	query := `UPDATE users SET profile_photo = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, storageKey)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
