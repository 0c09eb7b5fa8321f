package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/templui/lifeos/internal/ctxkeys"
	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/service"
	"github.com/templui/lifeos/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Email     string    `json:"email"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CSRFToken string    `json:"csrf_token"`
}

// Login sets the session cookie and also returns the token for API clients
// that send it as a Bearer header.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := render.Decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	v := &validation.Errors{}
	v.Required("email", req.Email)
	v.Required("password", req.Password)
	if err := v.Err(); err != nil {
		render.Error(w, r, err)
		return
	}

	token, expiry, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		slog.Warn("admin login failed", "ip", r.RemoteAddr)
		render.Error(w, r, err)
		return
	}

	h.authService.SetJWTCookie(w, token, expiry)
	slog.Info("admin logged in")

	render.JSON(w, http.StatusOK, sessionResponse{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Token:     token,
		ExpiresAt: expiry,
		CSRFToken: ctxkeys.CSRFToken(r.Context()),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	render.NoContent(w)
}

// Me reports the current session and the CSRF token the client must echo.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.Admin(r.Context())
	render.JSON(w, http.StatusOK, sessionResponse{
		Email:     admin.Email,
		ExpiresAt: admin.ExpiresAt,
		CSRFToken: ctxkeys.CSRFToken(r.Context()),
	})
}
