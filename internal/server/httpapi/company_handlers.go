package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/batteriesproject/server/internal/common"
	"github.com/batteriesproject/server/internal/server/models"
)

type companyDTO struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Address      string `json:"address"`
	PhoneNumber  string `json:"phoneNumber"`
	OpeningHours string `json:"openingHours"`
}

type benefitDTO struct {
	ID          int64  `json:"id"`
	CompanyID   int64  `json:"companyId"`
	Benefit     string `json:"benefit"`
	Description string `json:"description"`
	ScoreNeeded int    `json:"scoreNeeded"`
	Disabled    bool   `json:"disabled"`
}

type scoreDTO struct {
	CompanyID int64 `json:"companyId"`
	Score     int   `json:"score"`
}

func toCompanyDTO(c *models.Company) companyDTO {
	return companyDTO{
		ID:           c.ID,
		Title:        c.Title,
		Address:      c.Address,
		PhoneNumber:  c.PhoneNumber,
		OpeningHours: c.OpeningHours,
	}
}

func toBenefitDTO(b *models.CompanyBenefit) benefitDTO {
	return benefitDTO{
		ID:          b.ID,
		CompanyID:   b.CompanyID,
		Benefit:     b.Benefit,
		Description: b.Description,
		ScoreNeeded: b.ScoreNeeded,
		Disabled:    b.Disabled,
	}
}

func toBenefitDTOs(benefits []*models.CompanyBenefit) []benefitDTO {
	out := make([]benefitDTO, 0, len(benefits))
	for _, b := range benefits {
		out = append(out, toBenefitDTO(b))
	}
	return out
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

type createCompanyRequest struct {
	Title        string `json:"title"`
	Address      string `json:"address"`
	PhoneNumber  string `json:"phoneNumber"`
	OpeningHours string `json:"openingHours"`

	Benefits []struct {
		Benefit     string `json:"benefit"`
		Description string `json:"description"`
		ScoreNeeded int    `json:"scoreNeeded"`
	} `json:"benefits"`
}

func (s *HTTPServer) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "title is required")
		return
	}

	benefits := make([]*models.CompanyBenefit, 0, len(req.Benefits))
	for _, b := range req.Benefits {
		benefits = append(benefits, &models.CompanyBenefit{
			Benefit:     b.Benefit,
			Description: b.Description,
			ScoreNeeded: b.ScoreNeeded,
		})
	}

	company, err := s.companies.CreateCompany(r.Context(), &models.Company{
		Title:        req.Title,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		OpeningHours: req.OpeningHours,
	}, benefits)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCompanyDTO(company))
}

func (s *HTTPServer) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.companies.ListCompanies(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	out := make([]companyDTO, 0, len(companies))
	for _, c := range companies {
		out = append(out, toCompanyDTO(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}

	company, err := s.companies.GetCompany(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "company not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCompanyDTO(company))
}

func (s *HTTPServer) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}

	var req createCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	err := s.companies.UpdateCompany(r.Context(), &models.Company{
		ID:           id,
		Title:        req.Title,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
		OpeningHours: req.OpeningHours,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "company not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}

	if err := s.companies.DeleteCompany(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "company not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type addBenefitRequest struct {
	Benefit     string `json:"benefit"`
	Description string `json:"description"`
	ScoreNeeded int    `json:"scoreNeeded"`
	Disabled    bool   `json:"disabled"`
}

func (s *HTTPServer) handleAddBenefit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}

	var req addBenefitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	benefit, err := s.companies.AddBenefit(r.Context(), &models.CompanyBenefit{
		CompanyID:   id,
		Benefit:     req.Benefit,
		Description: req.Description,
		ScoreNeeded: req.ScoreNeeded,
		Disabled:    req.Disabled,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "company not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBenefitDTO(benefit))
}

func (s *HTTPServer) handleListBenefits(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}

	benefits, err := s.companies.ListBenefits(r.Context(), id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBenefitDTOs(benefits))
}

func (s *HTTPServer) handleUnlockedBenefits(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}

	benefits, err := s.companies.UnlockedBenefits(r.Context(), claims.Email, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBenefitDTOs(benefits))
}

type addScoreRequest struct {
	Delta int `json:"delta"`
}

type addScoreResponse struct {
	Score int `json:"score"`
}

func (s *HTTPServer) handleAddScore(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid company id")
		return
	}

	var req addScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Delta <= 0 {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "delta must be positive")
		return
	}

	score, err := s.companies.AddScore(r.Context(), claims.Email, id, req.Delta)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, addScoreResponse{Score: score})
}

func (s *HTTPServer) handleListScores(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	rows, err := s.companies.ListScores(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	out := make([]scoreDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoreDTO{CompanyID: row.CompanyID, Score: row.Score})
	}
	writeJSON(w, http.StatusOK, out)
}
