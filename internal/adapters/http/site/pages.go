// Package site renders the HTML pages of the stat card web app.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/okian/radar/internal/domain/stats"
	"github.com/okian/radar/internal/domain/types"
)

// URL prefixes the pages link to. The API mounts its file servers here.
const (
	UploadsPrefix = "/static/uploads/"
	ChartsPrefix  = "/static/charts/"
	AssetsPrefix  = "/assets/"
)

// Error constants
var (
	ErrParse  = errors.New("site templates parse failed")
	ErrRender = errors.New("site page render failed")
)

// UploadURL returns the link to a stored photo.
func UploadURL(name string) string { return UploadsPrefix + url.PathEscape(name) }

// ChartURL returns the link to a rendered chart.
func ChartURL(name string) string { return ChartsPrefix + url.PathEscape(name) }

// ResultPage is the data behind the result page.
type ResultPage struct {
	Name     string
	PhotoURL string
	ChartURL string
	Stats    []stats.Score
}

// NewResultPage builds the result page for one submission.
func NewResultPage(name, photo, chart string, s stats.StatSet) ResultPage {
	return ResultPage{
		Name:     name,
		PhotoURL: UploadURL(photo),
		ChartURL: ChartURL(chart),
		Stats:    s.Scores(),
	}
}

// CategoryLink is one entry of the leaderboard category switcher.
type CategoryLink struct {
	Name   string
	Active bool
}

// LeaderboardPage is the data behind the leaderboard page.
type LeaderboardPage struct {
	Category   string
	Categories []CategoryLink
	Entries    []types.RankedEntry
}

// NewLeaderboardPage builds the leaderboard page for category. Every known
// category gets a link; the shown one is marked active.
func NewLeaderboardPage(category string, entries []types.RankedEntry) LeaderboardPage {
	cats := stats.Categories()
	links := make([]CategoryLink, len(cats))
	for i, c := range cats {
		links[i] = CategoryLink{Name: c.String(), Active: c.String() == category}
	}
	return LeaderboardPage{
		Category:   category,
		Categories: links,
		Entries:    entries,
	}
}

// Pages holds the parsed templates.
type Pages struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Pages, error) {
	tmpl, err := template.New("site").
		Funcs(template.FuncMap{"photoURL": UploadURL}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &Pages{tmpl: tmpl}, nil
}

// Index writes the submission form.
func (p *Pages) Index(w http.ResponseWriter) error {
	return p.render(w, "index.html", nil)
}

// Result writes the result page.
func (p *Pages) Result(w http.ResponseWriter, data ResultPage) error {
	return p.render(w, "result.html", data)
}

// Leaderboard writes the leaderboard page.
func (p *Pages) Leaderboard(w http.ResponseWriter, data LeaderboardPage) error {
	return p.render(w, "leaderboard.html", data)
}

// render executes into a buffer first so a template failure never leaves a
// half-written 200 response.
func (p *Pages) render(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
	return nil
}
