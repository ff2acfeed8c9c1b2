package api

import (
	"net/http"
	"time"

	"github.com/camiseteria/camiseteria-server/internal/http/response"
	"github.com/camiseteria/camiseteria-server/internal/service"
)

// handleLogin verifies admin credentials and sets the session cookie.
// The token is also returned for clients that prefer the Authorization header.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	req.IPAddress = getClientIP(r)

	resp, err := s.services.Auth.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	http.SetCookie(w, s.sessionCookie(resp.Token, resp.Session.ExpiresAt))
	w.Header().Set("Cache-Control", CacheNoStore)
	response.Success(w, resp, s.logger)
}

// handleLogout revokes the current session, if any, and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, err := sessionToken(r); err == nil {
		s.services.Auth.Logout(r.Context(), token)
	}

	cookie := s.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
	response.SuccessMessage(w, nil, "logged out", s.logger)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", CacheNoStore)
	response.Success(w, getSession(r.Context()), s.logger)
}

func (s *Server) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
