// Package httpapi exposes the REST surface of the server: session endpoints,
// the company/benefit catalogue, loyalty scores and profile photos. Handlers
// translate service sentinel errors into HTTP statuses and nothing else; all
// business rules live in the services.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/batteriesproject/server/internal/logging"
	"github.com/batteriesproject/server/internal/server/models"
	"github.com/batteriesproject/server/internal/server/repositories/errorlogs"
	"github.com/batteriesproject/server/internal/server/services"
)

// SessionManager is the slice of the session service the handlers consume.
type SessionManager interface {
	SignIn(ctx context.Context, email, password string, rememberMe bool) (*services.Session, error)
	SignUp(ctx context.Context, nick, email, password string) (*models.User, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*services.Session, error)
	ChangePassword(ctx context.Context, email, password, newPassword string) error
}

// CompanyManager covers the catalogue, benefits and loyalty scores.
type CompanyManager interface {
	CreateCompany(ctx context.Context, company *models.Company, benefits []*models.CompanyBenefit) (*models.Company, error)
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company) error
	DeleteCompany(ctx context.Context, id int64) error
	AddBenefit(ctx context.Context, benefit *models.CompanyBenefit) (*models.CompanyBenefit, error)
	ListBenefits(ctx context.Context, companyID int64) ([]*models.CompanyBenefit, error)
	AddScore(ctx context.Context, email string, companyID int64, delta int) (int, error)
	ListScores(ctx context.Context, email string) ([]*models.UserCompanyScore, error)
	UnlockedBenefits(ctx context.Context, email string, companyID int64) ([]*models.CompanyBenefit, error)
}

// MediaManager covers profile photo storage.
type MediaManager interface {
	UploadProfilePhoto(ctx context.Context, email, contentType string, body io.Reader) (string, error)
	DownloadProfilePhoto(ctx context.Context, email string) (io.ReadCloser, string, error)
	RemoveProfilePhoto(ctx context.Context, email string) error
	ProfilePhotoURL(ctx context.Context, email string) (string, error)
}

type HTTPServer struct {
	address   string
	logger    logging.Logger
	sessions  SessionManager
	companies CompanyManager
	media     MediaManager
	errorLogs errorlogs.Repository
	jwtSecret []byte
}

func NewHTTPServer(address string, l logging.Logger, sm SessionManager, cm CompanyManager,
	mm MediaManager, el errorlogs.Repository, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   address,
		logger:    l.With("module", "http_server"),
		sessions:  sm,
		companies: cm,
		media:     mm,
		errorLogs: el,
		jwtSecret: []byte(secretKey),
	}
}

// Handler assembles the full route table wrapped in the middleware chain.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/sign-in", s.handleSignIn)
	mux.HandleFunc("POST /auth/sign-up", s.handleSignUp)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	mux.HandleFunc("PUT /auth/change-password", s.withAuth(s.handleChangePassword))

	mux.HandleFunc("GET /companies", s.withAuth(s.handleListCompanies))
	mux.HandleFunc("POST /companies", s.withAuth(s.handleCreateCompany))
	mux.HandleFunc("GET /companies/{id}", s.withAuth(s.handleGetCompany))
	mux.HandleFunc("PUT /companies/{id}", s.withAuth(s.handleUpdateCompany))
	mux.HandleFunc("DELETE /companies/{id}", s.withAuth(s.handleDeleteCompany))
	mux.HandleFunc("GET /companies/{id}/benefits", s.withAuth(s.handleListBenefits))
	mux.HandleFunc("POST /companies/{id}/benefits", s.withAuth(s.handleAddBenefit))
	mux.HandleFunc("GET /companies/{id}/benefits/unlocked", s.withAuth(s.handleUnlockedBenefits))
	mux.HandleFunc("POST /companies/{id}/scores", s.withAuth(s.handleAddScore))

	mux.HandleFunc("GET /users/me/scores", s.withAuth(s.handleListScores))
	mux.HandleFunc("PUT /users/me/photo", s.withAuth(s.handleUploadPhoto))
	mux.HandleFunc("GET /users/me/photo", s.withAuth(s.handleDownloadPhoto))
	mux.HandleFunc("DELETE /users/me/photo", s.withAuth(s.handleRemovePhoto))
	mux.HandleFunc("GET /users/me/photo/url", s.withAuth(s.handlePhotoURL))

	return s.withRecovery(s.withLogging(mux))
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
