package service

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T, expiry time.Duration) *AuthService {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(" Coach@Example.com ", string(hash), "test-secret", expiry, true)
}

func TestLogin(t *testing.T) {
	auth := newAuthService(t, time.Hour)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{name: "valid", email: "coach@example.com", password: "correct horse battery"},
		{name: "email is case insensitive", email: "  COACH@example.com", password: "correct horse battery"},
		{name: "wrong password", email: "coach@example.com", password: "wrong", wantErr: true},
		{name: "wrong email", email: "other@example.com", password: "correct horse battery", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, expiry, err := auth.Login(tt.email, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				return
			}
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)

			admin, err := auth.VerifyJWT(token)
			require.NoError(t, err)
			assert.Equal(t, "coach@example.com", admin.Email)
		})
	}
}

func TestVerifyJWTRejects(t *testing.T) {
	auth := newAuthService(t, time.Hour)

	other := NewAuthService("coach@example.com", "", "another-secret", time.Hour, false)
	forged, _, err := other.GenerateJWT("coach@example.com")
	require.NoError(t, err)

	stranger, _, err := auth.GenerateJWT("someone@example.com")
	require.NoError(t, err)

	expired, _, err := newAuthService(t, -time.Minute).GenerateJWT("coach@example.com")
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-jwt",
		"wrong secret": forged,
		"other user":   stranger,
		"expired":      expired,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.VerifyJWT(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestHashPassword(t *testing.T) {
	auth := newAuthService(t, time.Hour)

	hash, err := auth.HashPassword("tangerine river lamp")
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword("tangerine river lamp", hash))
	assert.Error(t, auth.ComparePassword("something else", hash))

	_, err = auth.HashPassword("short")
	assert.Error(t, err)
}

func TestAuthCookies(t *testing.T) {
	auth := newAuthService(t, time.Hour)

	rec := httptest.NewRecorder()
	auth.SetJWTCookie(rec, "token", time.Now().Add(time.Hour))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AuthCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	rec = httptest.NewRecorder()
	auth.ClearJWTCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
