package ctxkeys

import (
	"context"

	"github.com/templui/lifeos/internal/config"
	"github.com/templui/lifeos/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	AdminKey     contextKey = "admin"
	AuthViaKey   contextKey = "auth_via"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
)

// Auth sources stored under AuthViaKey.
const (
	AuthViaCookie = "cookie"
	AuthViaBearer = "bearer"
)

func Admin(ctx context.Context) *model.Admin {
	admin, _ := ctx.Value(AdminKey).(*model.Admin)
	return admin
}

func WithAdmin(ctx context.Context, admin *model.Admin, via string) context.Context {
	ctx = context.WithValue(ctx, AdminKey, admin)
	return context.WithValue(ctx, AuthViaKey, via)
}

// AuthVia reports how the admin authenticated, or "" for anonymous requests.
func AuthVia(ctx context.Context) string {
	via, _ := ctx.Value(AuthViaKey).(string)
	return via
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}
