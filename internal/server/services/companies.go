package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/batteriesproject/server/internal/common"
	"github.com/batteriesproject/server/internal/dbx"
	"github.com/batteriesproject/server/internal/server/models"
	"github.com/batteriesproject/server/internal/server/repositories/repomanager"
)

// CompanyService covers the partner-company catalogue, the benefits each
// company exposes at score thresholds, and per-user loyalty scores.
type CompanyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCompanyService(db *sql.DB, m repomanager.RepositoryManager) *CompanyService {
	return &CompanyService{db: db, repomanager: m}
}

// CreateCompany registers a company together with its initial benefits. The
// company row and the benefit rows are written in one transaction, so a
// half-created company is never visible.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company, benefits []*models.CompanyBenefit) (*models.Company, error) {
	var created *models.Company

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Companies(tx)

		c, err := repo.Create(ctx, company)
		if err != nil {
			return err
		}

		for _, b := range benefits {
			b.CompanyID = c.ID
			if _, err := repo.CreateBenefit(ctx, b); err != nil {
				return err
			}
		}

		created = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating company: %w", err)
	}

	return created, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	return s.repomanager.Companies(s.db).Get(ctx, id)
}

func (s *CompanyService) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	return s.repomanager.Companies(s.db).List(ctx)
}

func (s *CompanyService) UpdateCompany(ctx context.Context, company *models.Company) error {
	return s.repomanager.Companies(s.db).Update(ctx, company)
}

func (s *CompanyService) DeleteCompany(ctx context.Context, id int64) error {
	return s.repomanager.Companies(s.db).Delete(ctx, id)
}

// AddBenefit attaches a benefit to an existing company.
func (s *CompanyService) AddBenefit(ctx context.Context, benefit *models.CompanyBenefit) (*models.CompanyBenefit, error) {
	return s.repomanager.Companies(s.db).CreateBenefit(ctx, benefit)
}

func (s *CompanyService) ListBenefits(ctx context.Context, companyID int64) ([]*models.CompanyBenefit, error) {
	return s.repomanager.Companies(s.db).ListBenefits(ctx, companyID)
}

// AddScore credits delta points to the user's score with a company and
// returns the new total. A first credit creates the score row.
func (s *CompanyService) AddScore(ctx context.Context, email string, companyID int64, delta int) (int, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	return s.repomanager.Scores(s.db).Add(ctx, user.ID, companyID, delta)
}

// ListScores returns the user's scores across all companies.
func (s *CompanyService) ListScores(ctx context.Context, email string) ([]*models.UserCompanyScore, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Scores(s.db).ListByUser(ctx, user.ID)
}

// UnlockedBenefits returns the company's benefits the user's current score
// has unlocked. A user with no score row counts as zero points; disabled
// benefits never unlock regardless of score.
func (s *CompanyService) UnlockedBenefits(ctx context.Context, email string, companyID int64) ([]*models.CompanyBenefit, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	score := 0

	row, err := s.repomanager.Scores(s.db).Get(ctx, user.ID, companyID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error loading score: %w", err)
	}
	if err == nil {
		score = row.Score
	}

	benefits, err := s.repomanager.Companies(s.db).ListBenefits(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("error loading benefits: %w", err)
	}

	unlocked := make([]*models.CompanyBenefit, 0, len(benefits))
	for _, b := range benefits {
		if b.Disabled || score < b.ScoreNeeded {
			continue
		}
		unlocked = append(unlocked, b)
	}

	return unlocked, nil
}

func (s *CompanyService) userByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}
