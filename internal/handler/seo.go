package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/lifeos/internal/render"
	"github.com/templui/lifeos/internal/service"
)

type SEOHandler struct {
	sitemapService *service.SitemapService
}

func NewSEOHandler(sitemapService *service.SitemapService) *SEOHandler {
	return &SEOHandler{
		sitemapService: sitemapService,
	}
}

func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := w.Write([]byte(h.sitemapService.RobotsTxt()))
	if err != nil {
		slog.Debug("failed to write robots.txt", "error", err)
	}
}

// Sitemap generates and serves the sitemap.xml dynamically
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	sitemap, err := h.sitemapService.GenerateSitemap()
	if err != nil {
		render.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, err = w.Write(sitemap)
	if err != nil {
		slog.Debug("failed to write sitemap", "error", err)
	}
}
