package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/batteriesproject/server/internal/common"
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

func (r *PostgresRepository) Get(ctx context.Context, userID, companyID int64) (*models.UserCompanyScore, error) {
	query := `
		SELECT user_id, company_id, score
		FROM user_company_scores
		WHERE user_id = $1 AND company_id = $2
	`
	score := &models.UserCompanyScore{}
	err := r.db.QueryRowContext(ctx, query, userID, companyID).
		Scan(&score.UserID, &score.CompanyID, &score.Score)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return score, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.UserCompanyScore, error) {
	query := `
		SELECT user_id, company_id, score
		FROM user_company_scores
		WHERE user_id = $1
		ORDER BY company_id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*models.UserCompanyScore
	for rows.Next() {
		s := &models.UserCompanyScore{}
		if err := rows.Scan(&s.UserID, &s.CompanyID, &s.Score); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Add(ctx context.Context, userID, companyID int64, delta int) (int, error) {
	query := `
		INSERT INTO user_company_scores (user_id, company_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, company_id)
		DO UPDATE SET score = user_company_scores.score + EXCLUDED.score
		RETURNING score
	`
	var total int
	if err := r.db.QueryRowContext(ctx, query, userID, companyID, delta).Scan(&total); err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}
	return total, nil
}
