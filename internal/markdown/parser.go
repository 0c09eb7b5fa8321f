package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

// Frontmatter is the YAML header of an imported article file.
type Frontmatter struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Date        string `yaml:"date"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	CoverImage  string `yaml:"cover_image"`
	Draft       bool   `yaml:"draft"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"}

// PublishedAt parses Date, returning nil when it is empty.
func (f Frontmatter) PublishedAt() (*time.Time, error) {
	if strings.TrimSpace(f.Date) == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(f.Date)); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", f.Date)
}

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

// Render converts markdown to HTML. Raw HTML in the source is escaped.
func (p *Parser) Render(source string) (string, error) {
	var buf bytes.Buffer
	err := p.md.Convert([]byte(source), &buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseDocument splits a markdown file into its frontmatter and body.
// The body is returned as markdown, without the YAML header.
func (p *Parser) ParseDocument(source []byte) (Frontmatter, string, error) {
	var fm Frontmatter

	ctx := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	if data := frontmatter.Get(ctx); data != nil {
		if err := data.Decode(&fm); err != nil {
			return fm, "", fmt.Errorf("failed to decode frontmatter: %w", err)
		}
	}

	return fm, stripFrontmatter(string(source)), nil
}

func stripFrontmatter(source string) string {
	s := strings.TrimPrefix(source, "\ufeff")
	for _, delim := range []string{"---", "+++"} {
		if !strings.HasPrefix(s, delim+"\n") && !strings.HasPrefix(s, delim+"\r\n") {
			continue
		}
		rest := s[len(delim):]
		end := strings.Index(rest, "\n"+delim)
		if end < 0 {
			return source
		}
		body := rest[end+len(delim)+1:]
		return strings.TrimLeft(body, "\r\n")
	}
	return source
}

// ReadTime estimates minutes of reading at 200 words per minute, at least one.
func ReadTime(source string) int {
	words := len(strings.Fields(source))
	minutes := (words + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Excerpt returns the first paragraph of source as plain text, cut at n runes.
func Excerpt(source string, n int) string {
	for _, block := range strings.Split(stripFrontmatter(source), "\n\n") {
		line := strings.TrimSpace(block)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") || strings.HasPrefix(line, "```") {
			continue
		}
		line = strings.Join(strings.Fields(line), " ")
		r := []rune(line)
		if len(r) > n {
			return strings.TrimSpace(string(r[:n])) + "…"
		}
		return line
	}
	return ""
}
