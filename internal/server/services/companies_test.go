package services

import (
	"context"
	"errors"
	"testing"

	"github.com/batteriesproject/server/internal/common"
	"github.com/batteriesproject/server/internal/server/models"
	companiesrepo "github.com/batteriesproject/server/internal/server/repositories/companies"
	scoresrepo "github.com/batteriesproject/server/internal/server/repositories/scores"
)

type fakeCompaniesRepo struct {
	companiesrepo.Repository

	benefits []*models.CompanyBenefit
	listErr  error

	createErr  error
	benefitErr error

	createdBenefits []*models.CompanyBenefit
}

func (f *fakeCompaniesRepo) Create(ctx context.Context, c *models.Company) (*models.Company, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *c
	created.ID = 7
	return &created, nil
}

func (f *fakeCompaniesRepo) CreateBenefit(ctx context.Context, b *models.CompanyBenefit) (*models.CompanyBenefit, error) {
	if f.benefitErr != nil {
		return nil, f.benefitErr
	}
	f.createdBenefits = append(f.createdBenefits, b)
	return b, nil
}

func (f *fakeCompaniesRepo) ListBenefits(ctx context.Context, companyID int64) ([]*models.CompanyBenefit, error) {
	return f.benefits, f.listErr
}

type fakeScoresRepo struct {
	scoresrepo.Repository

	score  *models.UserCompanyScore
	getErr error
}

func (f *fakeScoresRepo) Get(ctx context.Context, userID, companyID int64) (*models.UserCompanyScore, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.score == nil {
		return nil, common.ErrorNotFound
	}
	return f.score, nil
}

func TestCreateCompany_WithBenefitsCommits(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	cr := &fakeCompaniesRepo{}
	s := NewCompanyService(db, &fakeRepoManager{c: cr})

	benefits := []*models.CompanyBenefit{
		{Benefit: "Free coffee", ScoreNeeded: 10},
		{Benefit: "Discount", ScoreNeeded: 50},
	}
	created, err := s.CreateCompany(context.Background(), &models.Company{Title: "Acme"}, benefits)
	if err != nil {
		t.Fatalf("CreateCompany error: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("no ID assigned: %+v", created)
	}
	if len(cr.createdBenefits) != 2 {
		t.Fatalf("benefits created: %d", len(cr.createdBenefits))
	}
	for _, b := range cr.createdBenefits {
		if b.CompanyID != created.ID {
			t.Fatalf("benefit not linked to company: %+v", b)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreateCompany_BenefitErrorRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	cr := &fakeCompaniesRepo{benefitErr: errBoom{}}
	s := NewCompanyService(db, &fakeRepoManager{c: cr})

	_, err := s.CreateCompany(context.Background(), &models.Company{Title: "Acme"},
		[]*models.CompanyBenefit{{Benefit: "Free coffee"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUnlockedBenefits(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	benefits := []*models.CompanyBenefit{
		{ID: 1, Benefit: "Sticker", ScoreNeeded: 0},
		{ID: 2, Benefit: "Coffee", ScoreNeeded: 50},
		{ID: 3, Benefit: "Lunch", ScoreNeeded: 100},
		{ID: 4, Benefit: "Weekend trip", ScoreNeeded: 500},
		{ID: 5, Benefit: "Retired promo", ScoreNeeded: 10, Disabled: true},
	}

	member := &fakeUsersRepo{user: &models.User{ID: 1, Email: "a@b.c"}}

	t.Run("score unlocks thresholds at or below it", func(t *testing.T) {
		rm := &fakeRepoManager{
			u: member,
			c: &fakeCompaniesRepo{benefits: benefits},
			s: &fakeScoresRepo{score: &models.UserCompanyScore{UserID: 1, CompanyID: 7, Score: 100}},
		}
		s := NewCompanyService(db, rm)

		got, err := s.UnlockedBenefits(context.Background(), "a@b.c", 7)
		if err != nil {
			t.Fatalf("UnlockedBenefits error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("unlocked: got %d, want 3", len(got))
		}
		for _, b := range got {
			if b.Disabled || b.ScoreNeeded > 100 {
				t.Fatalf("benefit should not be unlocked: %+v", b)
			}
		}
	})

	t.Run("no score row counts as zero", func(t *testing.T) {
		rm := &fakeRepoManager{
			u: member,
			c: &fakeCompaniesRepo{benefits: benefits},
			s: &fakeScoresRepo{},
		}
		s := NewCompanyService(db, rm)

		got, err := s.UnlockedBenefits(context.Background(), "a@b.c", 7)
		if err != nil {
			t.Fatalf("UnlockedBenefits error: %v", err)
		}
		if len(got) != 1 || got[0].ID != 1 {
			t.Fatalf("want only the zero-threshold benefit, got %+v", got)
		}
	})

	t.Run("score lookup failure propagates", func(t *testing.T) {
		rm := &fakeRepoManager{
			u: member,
			c: &fakeCompaniesRepo{benefits: benefits},
			s: &fakeScoresRepo{getErr: errBoom{}},
		}
		s := NewCompanyService(db, rm)

		if _, err := s.UnlockedBenefits(context.Background(), "a@b.c", 7); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unknown user yields not-found", func(t *testing.T) {
		rm := &fakeRepoManager{
			u: &fakeUsersRepo{},
			c: &fakeCompaniesRepo{benefits: benefits},
			s: &fakeScoresRepo{},
		}
		s := NewCompanyService(db, rm)

		if _, err := s.UnlockedBenefits(context.Background(), "ghost@b.c", 7); !errors.Is(err, common.ErrorNotFound) {
			t.Fatalf("want ErrorNotFound, got %v", err)
		}
	})
}
