package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/batteriesproject/server/internal/common"
)

type uploadPhotoResponse struct {
	Key string `json:"key"`
}

func (s *HTTPServer) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "missing content type")
		return
	}

	key, err := s.media.UploadProfilePhoto(r.Context(), claims.Email, contentType, r.Body)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadPhotoResponse{Key: key})
}

func (s *HTTPServer) handleDownloadPhoto(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	body, contentType, err := s.media.DownloadProfilePhoto(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "no profile photo")
			return
		}
		s.internalError(w, r, err)
		return
	}
	defer body.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, body)
}

func (s *HTTPServer) handleRemovePhoto(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	if err := s.media.RemoveProfilePhoto(r.Context(), claims.Email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type photoURLResponse struct {
	URL string `json:"url"`
}

func (s *HTTPServer) handlePhotoURL(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	url, err := s.media.ProfilePhotoURL(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "no profile photo")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, photoURLResponse{URL: url})
}
