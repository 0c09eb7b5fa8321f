package cmd

import (
	"context"

	"github.com/templui/lifeos/internal/app"
	"github.com/templui/lifeos/internal/config"
	"github.com/templui/lifeos/internal/logger"
)

// openApp loads config from the environment (and .env) and wires the app the
// same way the server does, migrations included.
func openApp(ctx context.Context) (*app.App, error) {
	cfg := config.Load()
	logger.Init(cfg.AppName, cfg.IsDevelopment(), "")
	return app.New(ctx, cfg)
}
