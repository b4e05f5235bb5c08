// Package companies declares the repository contract for companies and the
// benefits they expose at score thresholds.
package companies

import (
	"context"

	"github.com/batteriesproject/server/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, company *models.Company) (*models.Company, error)
	Get(ctx context.Context, id int64) (*models.Company, error)
	List(ctx context.Context) ([]*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, id int64) error

	CreateBenefit(ctx context.Context, benefit *models.CompanyBenefit) (*models.CompanyBenefit, error)
	ListBenefits(ctx context.Context, companyID int64) ([]*models.CompanyBenefit, error)
}
