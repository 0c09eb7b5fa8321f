package routes

import (
	"net/http"

	"github.com/templui/lifeos/internal/app"
	"github.com/templui/lifeos/internal/handler"
	"github.com/templui/lifeos/internal/metrics"
	"github.com/templui/lifeos/internal/middleware"
	"github.com/templui/lifeos/internal/render"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	seo := handler.NewSEOHandler(app.SitemapService)
	auth := handler.NewAuthHandler(app.AuthService)
	newsletter := handler.NewNewsletterHandler(app.EmailService)
	booking := handler.NewBookingHandler(app.BookingService)
	area := handler.NewAreaHandler(app.AreaService)
	goal := handler.NewGoalHandler(app.GoalService)
	step := handler.NewStepHandler(app.StepService, app.Cfg.BookingLocation())
	habit := handler.NewHabitHandler(app.HabitService)
	metric := handler.NewMetricHandler(app.MetricService)
	dashboard := handler.NewDashboardHandler(app.DashboardService)
	article := handler.NewArticleHandler(app.ArticleService)
	content := handler.NewContentHandler(app.InspirationService, app.PrincipleService)
	upload := handler.NewUploadHandler(app.FileService)

	public := app.PublicLimiter.Limit
	admin := middleware.RequireAdmin

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// SEO and operations
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		err := app.DB.PingContext(r.Context())
		if err != nil {
			render.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Booking
	mux.HandleFunc("GET /api/slots", booking.Slots)
	mux.HandleFunc("POST /api/bookings", public(booking.Book))

	// Content
	mux.HandleFunc("GET /api/articles", article.Published)
	mux.HandleFunc("GET /api/articles/{slug}", article.Show)
	mux.HandleFunc("GET /api/inspirations", content.PublishedInspirations)
	mux.HandleFunc("GET /api/principles", content.Principles)
	mux.HandleFunc("POST /api/newsletter", public(newsletter.Subscribe))

	// Auth
	mux.HandleFunc("POST /auth/login", app.LoginLimiter.Limit(auth.Login))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("GET /auth/me", admin(auth.Me))

	// ============================================================================
	// ADMIN ROUTES
	// ============================================================================

	// Booking
	mux.HandleFunc("GET /api/admin/availability", admin(booking.Availability))
	mux.HandleFunc("POST /api/admin/availability", admin(booking.AddAvailability))
	mux.HandleFunc("DELETE /api/admin/availability/{id}", admin(booking.DeleteAvailability))
	mux.HandleFunc("GET /api/admin/slots", admin(booking.AllSlots))
	mux.HandleFunc("POST /api/admin/slots", admin(booking.AddSlot))
	mux.HandleFunc("POST /api/admin/slots/generate", admin(booking.GenerateSlots))
	mux.HandleFunc("GET /api/admin/slots/preview", admin(booking.PreviewSlots))
	mux.HandleFunc("DELETE /api/admin/slots/{id}", admin(booking.DeleteSlot))
	mux.HandleFunc("GET /api/admin/bookings", admin(booking.Bookings))
	mux.HandleFunc("GET /api/admin/bookings/{id}", admin(booking.Booking))
	mux.HandleFunc("POST /api/admin/bookings/{id}/cancel", admin(booking.Cancel))

	// Areas
	mux.HandleFunc("GET /api/areas", admin(area.List))
	mux.HandleFunc("POST /api/areas", admin(area.Create))
	mux.HandleFunc("GET /api/areas/{id}", admin(area.Get))
	mux.HandleFunc("PUT /api/areas/{id}", admin(area.Update))
	mux.HandleFunc("DELETE /api/areas/{id}", admin(area.Delete))

	// Goals
	mux.HandleFunc("GET /api/goals", admin(goal.List))
	mux.HandleFunc("POST /api/goals", admin(goal.Create))
	mux.HandleFunc("GET /api/goals/export", admin(goal.Export))
	mux.HandleFunc("GET /api/goals/{id}", admin(goal.Get))
	mux.HandleFunc("PUT /api/goals/{id}", admin(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", admin(goal.Delete))
	mux.HandleFunc("PUT /api/goals/{id}/progress", admin(goal.SetProgress))
	mux.HandleFunc("POST /api/goals/{id}/recalculate", admin(goal.Recalculate))

	// Steps
	mux.HandleFunc("GET /api/steps", admin(step.List))
	mux.HandleFunc("POST /api/steps", admin(step.Create))
	mux.HandleFunc("GET /api/steps/{id}", admin(step.Get))
	mux.HandleFunc("PUT /api/steps/{id}", admin(step.Update))
	mux.HandleFunc("DELETE /api/steps/{id}", admin(step.Delete))
	mux.HandleFunc("POST /api/steps/{id}/complete", admin(step.Complete))
	mux.HandleFunc("DELETE /api/steps/{id}/complete", admin(step.Uncomplete))

	// Habits
	mux.HandleFunc("GET /api/habits", admin(habit.List))
	mux.HandleFunc("POST /api/habits", admin(habit.Create))
	mux.HandleFunc("GET /api/habits/{id}", admin(habit.Get))
	mux.HandleFunc("PUT /api/habits/{id}", admin(habit.Update))
	mux.HandleFunc("DELETE /api/habits/{id}", admin(habit.Delete))
	mux.HandleFunc("PUT /api/habits/{id}/checkins/{day}", admin(habit.Checkin))
	mux.HandleFunc("DELETE /api/habits/{id}/checkins/{day}", admin(habit.Uncheck))
	mux.HandleFunc("GET /api/habits/{id}/stats", admin(habit.Stats))

	// Metrics
	mux.HandleFunc("GET /api/metrics", admin(metric.List))
	mux.HandleFunc("POST /api/metrics", admin(metric.Create))
	mux.HandleFunc("GET /api/metrics/{id}", admin(metric.Get))
	mux.HandleFunc("PUT /api/metrics/{id}", admin(metric.Update))
	mux.HandleFunc("DELETE /api/metrics/{id}", admin(metric.Delete))
	mux.HandleFunc("GET /api/metrics/{id}/entries", admin(metric.Entries))
	mux.HandleFunc("POST /api/metrics/{id}/entries", admin(metric.AddEntry))
	mux.HandleFunc("DELETE /api/metrics/{id}/entries/{entryID}", admin(metric.DeleteEntry))
	mux.HandleFunc("GET /api/units", admin(metric.Units))

	mux.HandleFunc("GET /api/dashboard", admin(dashboard.Dashboard))

	// Articles
	mux.HandleFunc("GET /api/admin/articles", admin(article.List))
	mux.HandleFunc("POST /api/admin/articles", admin(article.Create))
	mux.HandleFunc("GET /api/admin/articles/{id}", admin(article.Get))
	mux.HandleFunc("PUT /api/admin/articles/{id}", admin(article.Update))
	mux.HandleFunc("DELETE /api/admin/articles/{id}", admin(article.Delete))
	mux.HandleFunc("POST /api/admin/articles/{id}/publish", admin(article.Publish))
	mux.HandleFunc("DELETE /api/admin/articles/{id}/publish", admin(article.Unpublish))

	// Inspirations
	mux.HandleFunc("GET /api/admin/inspirations", admin(content.Inspirations))
	mux.HandleFunc("POST /api/admin/inspirations", admin(content.CreateInspiration))
	mux.HandleFunc("PUT /api/admin/inspirations/reorder", admin(content.ReorderInspirations))
	mux.HandleFunc("GET /api/admin/inspirations/{id}", admin(content.GetInspiration))
	mux.HandleFunc("PUT /api/admin/inspirations/{id}", admin(content.UpdateInspiration))
	mux.HandleFunc("DELETE /api/admin/inspirations/{id}", admin(content.DeleteInspiration))

	// Principles
	mux.HandleFunc("GET /api/admin/principles", admin(content.Principles))
	mux.HandleFunc("POST /api/admin/principles", admin(content.CreatePrinciple))
	mux.HandleFunc("PUT /api/admin/principles/reorder", admin(content.ReorderPrinciples))
	mux.HandleFunc("PUT /api/admin/principles/{id}", admin(content.UpdatePrinciple))
	mux.HandleFunc("DELETE /api/admin/principles/{id}", admin(content.DeletePrinciple))

	// Uploads
	mux.HandleFunc("GET /api/admin/uploads", admin(upload.List))
	mux.HandleFunc("POST /api/admin/uploads", admin(upload.Upload))
	mux.HandleFunc("DELETE /api/admin/uploads/{id}", admin(upload.Delete))

	// 404 fallback
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		render.Message(w, http.StatusNotFound, "not found")
	})

	// Apply global middleware
	return middleware.Chain(mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		metrics.InstrumentHandler,
		middleware.AuthMiddleware(app.AuthService),
		middleware.CSRFProtection,
	)
}
