package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/camiseteria/camiseteria-server/internal/auth"
	"github.com/camiseteria/camiseteria-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeySession contextKey = "session"

// requireAdmin validates the session token from the cookie or the
// Authorization header and attaches the session to the request context.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := sessionToken(r)
		if err != nil {
			response.Unauthorized(w, err.Error(), s.logger)
			return
		}

		session, err := s.services.Auth.Authenticate(r.Context(), token)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeySession, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type authError string

func (e authError) Error() string { return string(e) }

// sessionToken extracts the raw session token. A Bearer header wins over the cookie.
func sessionToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", authError("Invalid authorization header format")
		}
		return token, nil
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", authError("Authentication required")
}

// getSession returns the admin session attached by requireAdmin, or nil.
func getSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(contextKeySession).(*auth.Session)
	return session
}

// requestLogger logs one structured line per request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				level := slog.LevelInfo
				if status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
				logger.Log(r.Context(), level, "http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
