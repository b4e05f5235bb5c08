package httpapi

import (
	"errors"
	"net/http"

	"github.com/batteriesproject/server/internal/common"
)

type signInRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type sessionResponse struct {
	Name         string `json:"name"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *HTTPServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	session, err := s.sessions.SignIn(r.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "wrong password")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Name:         session.Name,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

type signUpRequest struct {
	Nick     string `json:"nick"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpResponse struct {
	ID    int64  `json:"id"`
	Nick  string `json:"nick"`
	Email string `json:"email"`
}

func (s *HTTPServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	user, err := s.sessions.SignUp(r.Context(), req.Nick, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorWeakPassword), errors.Is(err, common.ErrorEmptyPassword):
			writeError(w, http.StatusBadRequest, "WEAK_PASSWORD",
				"password must be at least 8 characters and contain upper case, lower case, a digit and a special character")
		case errors.Is(err, common.ErrorAlreadyExists):
			writeError(w, http.StatusUnprocessableEntity, "ALREADY_EXISTS", "email already registered")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, signUpResponse{ID: user.ID, Nick: user.Nick, Email: user.Email})
}

type refreshRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	session, err := s.sessions.Refresh(r.Context(), req.AccessToken, req.RefreshToken)
	if err != nil {
		switch {
		// a mismatched refresh token gets its own code so clients can force a
		// full re-login instead of retrying
		case errors.Is(err, common.ErrInvalidRefreshToken):
			writeError(w, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "refresh token does not match the active session")
		case errors.Is(err, common.ErrInvalidToken):
			writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid access token")
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "no session to refresh")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Name:         session.Name,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

type changePasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

func (s *HTTPServer) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "MISSING_TOKEN", "missing access token")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	err := s.sessions.ChangePassword(r.Context(), claims.Email, req.Password, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "wrong password")
		case errors.Is(err, common.ErrorWeakPassword), errors.Is(err, common.ErrorEmptyPassword):
			writeError(w, http.StatusBadRequest, "WEAK_PASSWORD",
				"password must be at least 8 characters and contain upper case, lower case, a digit and a special character")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
