package companies

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

func (r *PostgresRepository) Create(ctx context.Context, company *models.Company) (*models.Company, error) {
	query := `
		INSERT INTO companies (title, address, phone_number, opening_hours)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		company.Title, company.Address, company.PhoneNumber, company.OpeningHours).
		Scan(&company.ID, &company.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return company, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Company, error) {
	query := `
		SELECT id, title, address, phone_number, opening_hours, created_at
		FROM companies
		WHERE id = $1
	`
	company := &models.Company{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&company.ID, &company.Title, &company.Address,
		&company.PhoneNumber, &company.OpeningHours, &company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return company, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Company, error) {
	query := `
		SELECT id, title, address, phone_number, opening_hours, created_at
		FROM companies
		ORDER BY title
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*models.Company
	for rows.Next() {
		company := &models.Company{}
		if err := rows.Scan(
			&company.ID, &company.Title, &company.Address,
			&company.PhoneNumber, &company.OpeningHours, &company.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies
		SET title = $2, address = $3, phone_number = $4, opening_hours = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		company.ID, company.Title, company.Address, company.PhoneNumber, company.OpeningHours)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM companies WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateBenefit(ctx context.Context, benefit *models.CompanyBenefit) (*models.CompanyBenefit, error) {
	query := `
		INSERT INTO company_benefits (company_id, benefit, description, score_needed, disabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		benefit.CompanyID, benefit.Benefit, benefit.Description,
		benefit.ScoreNeeded, benefit.Disabled).
		Scan(&benefit.ID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return benefit, nil
}

func (r *PostgresRepository) ListBenefits(ctx context.Context, companyID int64) ([]*models.CompanyBenefit, error) {
	query := `
		SELECT id, company_id, benefit, description, score_needed, disabled
		FROM company_benefits
		WHERE company_id = $1
		ORDER BY score_needed
	`
	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*models.CompanyBenefit
	for rows.Next() {
		b := &models.CompanyBenefit{}
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.Benefit, &b.Description,
			&b.ScoreNeeded, &b.Disabled); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}
