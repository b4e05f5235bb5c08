package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/batteriesproject/server/internal/common"
	"github.com/batteriesproject/server/internal/server/auth"
	"github.com/batteriesproject/server/internal/server/models"
	"github.com/google/uuid"
)

type ctxKey string

const claimsKey ctxKey = "claims"

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// withAuth requires a valid Bearer access token and stores its claims in the
// request context.
func (s *HTTPServer) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "MISSING_TOKEN", "missing access token")
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "access token expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid access token")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *HTTPServer) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

// withRecovery is the catch-all: any panic below it becomes a 500 carrying a
// trace id, and the failure is persisted for diagnosis. The response never
// includes the panic value itself.
func (s *HTTPServer) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				traceID := s.recordError(r, fmt.Sprintf("%T", p), fmt.Sprint(p), string(debug.Stack()))
				writeJSON(w, http.StatusInternalServerError, errorResponse{
					Code:    "INTERNAL",
					Message: "internal server error",
					TraceID: traceID,
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// internalError reports a non-panic failure the same way the recovery
// middleware reports panics.
func (s *HTTPServer) internalError(w http.ResponseWriter, r *http.Request, err error) {
	traceID := s.recordError(r, fmt.Sprintf("%T", err), err.Error(), string(debug.Stack()))
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    "INTERNAL",
		Message: "internal server error",
		TraceID: traceID,
	})
}

// recordError persists one error record and returns its trace id. Persisting
// is best effort: a store failure is logged and must never mask the original
// error.
func (s *HTTPServer) recordError(r *http.Request, errType, message, stack string) string {
	traceID := uuid.NewString()

	ctx := r.Context()
	s.logger.Error(ctx, "unhandled error", "traceId", traceID, "type", errType, "message", message)

	if s.errorLogs == nil {
		return traceID
	}

	err := s.errorLogs.Create(context.WithoutCancel(ctx), &models.ErrorLog{
		TraceID:    traceID,
		Type:       errType,
		Message:    message,
		Source:     r.Method + " " + r.URL.Path,
		StackTrace: stack,
		Timestamp:  time.Now(),
	})
	if err != nil {
		s.logger.Error(ctx, "error saving error record", "traceId", traceID, "error", err.Error())
	}

	return traceID
}
