package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/bump-journal/internal/domain"
	"github.com/msomdec/bump-journal/internal/metrics"
	"github.com/msomdec/bump-journal/internal/service"
)

// AuthHandler handles authentication and account HTTP requests.
type AuthHandler struct {
	auth         *service.AuthService
	metrics      *metrics.Metrics
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, m *metrics.Metrics, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: m, cookieSecure: cookieSecure}
}

// HandleRegister processes a JSON registration request.
// POST /auth/register
// Request:  {"email":"...","password":"...","name":"..."}
// Response: {"token":"...","user":{...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.metrics.IncrementUsersRegistered()

	h.setAuthCookie(w, token)
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: toUserDTO(user)})
}

// HandleLogin processes a JSON login request.
// POST /auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"token":"...","user":{...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	h.setAuthCookie(w, token)
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: toUserDTO(user)})
}

// HandleLogout clears the auth cookie.
// POST /auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated user.
// GET /me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUser(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleSetDueDate sets or clears the caller's due date.
// PUT /me/due-date
// Request: {"dueDate":"YYYY-MM-DD"} or {"dueDate":null}
func (h *AuthHandler) HandleSetDueDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DueDate *string `json:"dueDate"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	var due *domain.Date
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := domain.ParseDate(*req.DueDate)
		if err != nil {
			writeServiceError(w, r, domain.Invalid("dueDate", "dueDate must be a calendar date formatted as YYYY-MM-DD"))
			return
		}
		due = &d
	}

	user, err := h.auth.SetDueDate(r.Context(), PrincipalFromContext(r.Context()), due)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.auth.TokenTTL().Seconds()),
	})
}
