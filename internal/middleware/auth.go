package middleware

import (
	"net/http"
	"strings"

	"github.com/templui/lifeos/internal/ctxkeys"
	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/service"
)

// TokenVerifier validates admin session tokens.
type TokenVerifier interface {
	VerifyJWT(token string) (*model.Admin, error)
	ClearJWTCookie(w http.ResponseWriter)
}

// AuthMiddleware puts the admin into the context when the request carries a
// valid token, either as the auth cookie or as a Bearer header.
func AuthMiddleware(auth TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				admin, err := auth.VerifyJWT(token)
				if err == nil {
					ctx := ctxkeys.WithAdmin(r.Context(), admin, ctxkeys.AuthViaBearer)
					r = r.WithContext(ctx)
				}
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(service.AuthCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			admin, err := auth.VerifyJWT(cookie.Value)
			if err != nil {
				// Expired or forged, drop it
				auth.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithAdmin(r.Context(), admin, ctxkeys.AuthViaCookie)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAdmin rejects anonymous requests with 401.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Admin(r.Context()) == nil {
			render.Message(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	}
}
