package service

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/templui/lifeos/internal/markdown"
	"github.com/templui/lifeos/internal/model"
	"github.com/templui/lifeos/internal/slug"
)

type ArticleUpserter interface {
	Upsert(input ArticleInput, draft bool, publishedAt *time.Time) (*model.Article, bool, error)
}

type InspirationUpserter interface {
	Upsert(input InspirationInput) (*model.Inspiration, bool, error)
}

type ImportFailure struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

type ImportReport struct {
	Created  int             `json:"created"`
	Updated  int             `json:"updated"`
	Failures []ImportFailure `json:"failures"`
}

func (r *ImportReport) record(created bool) {
	if created {
		r.Created++
	} else {
		r.Updated++
	}
}

func (r *ImportReport) fail(source string, err error) {
	slog.Warn("failed to import entry", "source", source, "error", err)
	r.Failures = append(r.Failures, ImportFailure{Source: source, Error: err.Error()})
}

// Importer loads content written outside the admin API: markdown articles
// with YAML frontmatter and a YAML inspiration library.
type Importer struct {
	articles     ArticleUpserter
	inspirations InspirationUpserter
	parser       *markdown.Parser
}

func NewImporter(articles ArticleUpserter, inspirations InspirationUpserter) *Importer {
	return &Importer{
		articles:     articles,
		inspirations: inspirations,
		parser:       markdown.NewParser(),
	}
}

// ImportArticles upserts every *.md file at the root of fsys, keyed by slug.
// A file that fails to import is reported and skipped.
func (i *Importer) ImportArticles(fsys fs.FS) (*ImportReport, error) {
	files, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to list markdown files: %w", err)
	}

	report := &ImportReport{}
	for _, name := range files {
		created, err := i.importArticle(fsys, name)
		if err != nil {
			report.fail(name, err)
			continue
		}
		report.record(created)
	}

	slog.Info("imported articles", "created", report.Created, "updated", report.Updated, "failed", len(report.Failures))
	return report, nil
}

func (i *Importer) importArticle(fsys fs.FS, name string) (bool, error) {
	source, err := fs.ReadFile(fsys, name)
	if err != nil {
		return false, err
	}

	meta, body, err := i.parser.ParseDocument(source)
	if err != nil {
		return false, err
	}

	publishedAt, err := meta.PublishedAt()
	if err != nil {
		return false, err
	}

	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = slug.Title(strings.ReplaceAll(base, "-", " "))
	}
	articleSlug := meta.Slug
	if articleSlug == "" {
		articleSlug = base
	}

	_, created, err := i.articles.Upsert(ArticleInput{
		Title:      title,
		Slug:       articleSlug,
		Excerpt:    meta.Description,
		Body:       strings.TrimSpace(body),
		CoverImage: meta.CoverImage,
		Author:     meta.Author,
	}, meta.Draft, publishedAt)
	return created, err
}

type inspirationEntry struct {
	Kind        string `yaml:"kind"`
	Title       string `yaml:"title"`
	Creator     string `yaml:"creator"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
	Position    *int   `yaml:"position"`
	Published   *bool  `yaml:"published"`
}

// ImportInspirations reads a YAML list of inspirations and upserts each one,
// matching existing rows by kind and title. Entries without a position keep
// the file order.
func (i *Importer) ImportInspirations(r io.Reader) (*ImportReport, error) {
	var entries []inspirationEntry
	err := yaml.NewDecoder(r).Decode(&entries)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode inspirations: %w", err)
	}

	report := &ImportReport{}
	for n, entry := range entries {
		position := entry.Position
		if position == nil {
			p := n
			position = &p
		}

		_, created, err := i.inspirations.Upsert(InspirationInput{
			Kind:        entry.Kind,
			Title:       entry.Title,
			Creator:     entry.Creator,
			URL:         entry.URL,
			Description: strings.TrimSpace(entry.Description),
			ImageURL:    entry.ImageURL,
			Position:    position,
			Published:   entry.Published,
		})
		if err != nil {
			report.fail(fmt.Sprintf("#%d %s", n+1, entry.Title), err)
			continue
		}
		report.record(created)
	}

	slog.Info("imported inspirations", "created", report.Created, "updated", report.Updated, "failed", len(report.Failures))
	return report, nil
}
