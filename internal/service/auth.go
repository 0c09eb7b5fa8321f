package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/validation"
)

const (
	AuthCookieName = "auth_token"
	RoleAdmin      = "admin"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService guards admin writes. There is a single admin account
// configured through ADMIN_EMAIL and ADMIN_PASSWORD_HASH.
type AuthService struct {
	adminEmail   string
	passwordHash string
	jwtSecret    string
	jwtExpiry    time.Duration
	isProduction bool
}

func NewAuthService(adminEmail, passwordHash, jwtSecret string, jwtExpiry time.Duration, isProduction bool) *AuthService {
	return &AuthService{
		adminEmail:   strings.ToLower(strings.TrimSpace(adminEmail)),
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		jwtExpiry:    jwtExpiry,
		isProduction: isProduction,
	}
}

// Login checks the credentials and returns a signed session token.
func (s *AuthService) Login(email, password string) (string, time.Time, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	// Always run bcrypt so a wrong email costs as much as a wrong password.
	pwErr := s.ComparePassword(password, s.passwordHash)
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	if pwErr != nil || !emailOK {
		return "", time.Time{}, fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
	}

	return s.GenerateJWT(s.adminEmail)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	err := validation.ValidatePassword(password)
	if err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(email string) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(s.jwtExpiry)

	claims := jwt.MapClaims{
		"sub":  email,
		"role": RoleAdmin,
		"exp":  expiry.Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiry, nil
}

// VerifyJWT parses the token and returns the admin it was issued to.
func (s *AuthService) VerifyJWT(tokenString string) (*model.Admin, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	email, _ := claims["sub"].(string)
	if role != RoleAdmin || email != s.adminEmail {
		return nil, ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	return &model.Admin{Email: email, ExpiresAt: exp.Time}, nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
