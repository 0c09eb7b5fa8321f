package service

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/templui/lifeos/internal/model"
)

// publicRoutes are the static public pages listed in the sitemap.
var publicRoutes = []struct {
	Path       string
	Priority   string
	ChangeFreq string
}{
	{"/", "1.0", "daily"},
	{"/articles", "0.8", "daily"},
	{"/inspirations", "0.6", "weekly"},
	{"/principles", "0.5", "monthly"},
	{"/booking", "0.7", "daily"},
}

type ArticleLister interface {
	Articles(publishedOnly bool) ([]*model.Article, error)
}

type SitemapService struct {
	articles ArticleLister
	baseURL  string
	now      func() time.Time
}

func NewSitemapService(articles ArticleLister, baseURL string) *SitemapService {
	return &SitemapService{
		articles: articles,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		now:      time.Now,
	}
}

// GenerateSitemap renders the static routes plus every published article.
func (s *SitemapService) GenerateSitemap() ([]byte, error) {
	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  s.staticURLs(),
	}

	articles, err := s.articles.Articles(true)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles for sitemap: %w", err)
	}
	for _, article := range articles {
		lastMod := article.UpdatedAt
		if lastMod.IsZero() && article.PublishedAt != nil {
			lastMod = *article.PublishedAt
		}
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + "/articles/" + article.Slug,
			LastMod:    lastMod.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return []byte(xml.Header + string(output)), nil
}

func (s *SitemapService) staticURLs() []model.SitemapURL {
	today := s.now().UTC().Format("2006-01-02")
	urls := make([]model.SitemapURL, 0, len(publicRoutes))
	for _, route := range publicRoutes {
		urls = append(urls, model.SitemapURL{
			Loc:        s.baseURL + route.Path,
			LastMod:    today,
			ChangeFreq: route.ChangeFreq,
			Priority:   route.Priority,
		})
	}
	return urls
}

// RobotsTxt allows crawling of public pages and points at the sitemap.
func (s *SitemapService) RobotsTxt() string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/admin/\n")
	b.WriteString("Disallow: /auth/\n")
	b.WriteString("\n")
	b.WriteString("Sitemap: " + s.baseURL + "/sitemap.xml\n")
	return b.String()
}
