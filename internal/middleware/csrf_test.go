package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/lifeos/internal/ctxkeys"
	"github.com/templui/lifeos/internal/service"
)

func TestCSRFProtection(t *testing.T) {
	token := mustToken(t)
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ctxkeys.CSRFToken(r.Context())))
	}),
		AuthMiddleware(newAuthService()),
		CSRFProtection,
	)

	// A safe request hands out the token.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	csrfToken := rec.Body.String()
	require.NotEmpty(t, csrfToken)

	var csrfCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			csrfCookie = c
		}
	}
	require.NotNil(t, csrfCookie)
	assert.Equal(t, csrfToken, csrfCookie.Value)
	assert.True(t, csrfCookie.HttpOnly)

	post := func(setup func(r *http.Request)) int {
		req := httptest.NewRequest(http.MethodPost, "/api/goals", nil)
		setup(req)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}
	withSession := func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: token})
		r.AddCookie(csrfCookie)
	}

	assert.Equal(t, http.StatusForbidden, post(withSession), "cookie session without header")
	assert.Equal(t, http.StatusForbidden, post(func(r *http.Request) {
		withSession(r)
		r.Header.Set(csrfHeader, "forged")
	}))
	assert.Equal(t, http.StatusOK, post(func(r *http.Request) {
		withSession(r)
		r.Header.Set(csrfHeader, csrfToken)
	}))
	assert.Equal(t, http.StatusOK, post(func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}), "bearer requests are exempt")
	assert.Equal(t, http.StatusOK, post(func(r *http.Request) {}), "anonymous requests are exempt")
}

func TestCSRFTokenIsReused(t *testing.T) {
	handler := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ctxkeys.CSRFToken(r.Context())))
	}))

	existing := generateCSRFToken()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: existing})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, existing, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies(), "no new cookie when the current one is valid")
}
