package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/templui/lifeos/internal/config"
	"github.com/templui/lifeos/internal/db"
	"github.com/templui/lifeos/internal/middleware"
	"github.com/templui/lifeos/internal/repository"
	"github.com/templui/lifeos/internal/scheduler"
	"github.com/templui/lifeos/internal/service"
	"github.com/templui/lifeos/internal/storage"
)

type App struct {
	Cfg *config.Config
	DB  *sqlx.DB

	AuthService        *service.AuthService
	EmailService       *service.EmailService
	FileService        *service.FileService
	BookingService     *service.BookingService
	AreaService        *service.AreaService
	GoalService        *service.GoalService
	StepService        *service.StepService
	HabitService       *service.HabitService
	MetricService      *service.MetricService
	DashboardService   *service.DashboardService
	ArticleService     *service.ArticleService
	InspirationService *service.InspirationService
	PrincipleService   *service.PrincipleService
	SitemapService     *service.SitemapService
	Importer           *service.Importer

	// PublicLimiter guards unauthenticated writes (bookings, newsletter).
	PublicLimiter *middleware.RateLimiter
	// LoginLimiter guards the admin login.
	LoginLimiter *middleware.RateLimiter
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	app := Build(cfg, database, fileStorage)
	return app, nil
}

// Build wires repositories and services on an open, migrated database.
// fileStorage may be nil.
func Build(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage) *App {
	loc := cfg.BookingLocation()

	// Repositories
	availabilityRepository := repository.NewAvailabilityRepository(database)
	slotRepository := repository.NewSlotRepository(database)
	bookingRepository := repository.NewBookingRepository(database)
	areaRepository := repository.NewAreaRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	stepRepository := repository.NewStepRepository(database)
	habitRepository := repository.NewHabitRepository(database)
	metricRepository := repository.NewMetricRepository(database)
	articleRepository := repository.NewArticleRepository(database)
	inspirationRepository := repository.NewInspirationRepository(database)
	principleRepository := repository.NewPrincipleRepository(database)
	fileRepository := repository.NewFileRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.CoachEmail,
		cfg.ResendAudienceID,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
		loc,
	)
	authService := service.NewAuthService(
		cfg.AdminEmail,
		cfg.AdminPasswordHash,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
	)
	bookingService := service.NewBookingService(
		availabilityRepository,
		slotRepository,
		bookingRepository,
		emailService,
		loc,
		cfg.BookingSlotDuration,
		cfg.BookingHorizonDays,
	)
	areaService := service.NewAreaService(areaRepository)
	goalService := service.NewGoalService(goalRepository, stepRepository, metricRepository, areaRepository)
	stepService := service.NewStepService(stepRepository, goalRepository, goalService, loc)
	habitService := service.NewHabitService(habitRepository, areaRepository, loc)
	metricService := service.NewMetricService(metricRepository, goalRepository, goalService)
	articleService := service.NewArticleService(articleRepository)
	inspirationService := service.NewInspirationService(inspirationRepository)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		AuthService:        authService,
		EmailService:       emailService,
		FileService:        service.NewFileService(fileRepository, fileStorage),
		BookingService:     bookingService,
		AreaService:        areaService,
		GoalService:        goalService,
		StepService:        stepService,
		HabitService:       habitService,
		MetricService:      metricService,
		DashboardService:   service.NewDashboardService(goalService, habitService, stepService, bookingService),
		ArticleService:     articleService,
		InspirationService: inspirationService,
		PrincipleService:   service.NewPrincipleService(principleRepository),
		SitemapService:     service.NewSitemapService(articleService, cfg.AppURL),
		Importer:           service.NewImporter(articleService, inspirationService),
		PublicLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, time.Hour),
		LoginLimiter:       middleware.NewRateLimiter(cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst, time.Hour),
	}
}

// Jobs returns the recurring background work.
func (a *App) Jobs() []scheduler.Job {
	return []scheduler.Job{
		{
			Name:       "generate_slots",
			Spec:       "@every 1h",
			Timeout:    5 * time.Minute,
			RunOnStart: true,
			Run: func(ctx context.Context) error {
				_, err := a.BookingService.Generate(ctx, a.Cfg.BookingHorizonDays)
				return err
			},
		},
		{
			Name:    "purge_past_slots",
			Spec:    "@daily",
			Timeout: time.Minute,
			Run: func(ctx context.Context) error {
				n, err := a.BookingService.PurgePastSlots()
				if err != nil {
					return err
				}
				if n > 0 {
					slog.Info("purged past slots", "count", n)
				}
				return nil
			},
		},
		{
			Name:    "reset_recurring_steps",
			Spec:    "@every 15m",
			Timeout: time.Minute,
			Run: func(ctx context.Context) error {
				_, err := a.StepService.ResetRecurring(time.Now())
				return err
			},
		},
		{
			Name:    "rate_limit_cleanup",
			Spec:    "@every 10m",
			Timeout: 10 * time.Second,
			Run: func(ctx context.Context) error {
				removed := a.PublicLimiter.Cleanup() + a.LoginLimiter.Cleanup()
				if removed > 0 {
					slog.Debug("rate limiter cleanup", "removed", removed)
				}
				return nil
			},
		},
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
