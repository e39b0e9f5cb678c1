// Package chart renders stat sets as radar chart images.
package chart

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/radar/internal/domain/stats"
	"github.com/okian/radar/pkg/logger"
	"github.com/okian/radar/pkg/metrics"
	gochart "github.com/wcharczuk/go-chart/v2"
)

const (
	defaultSize     = 400
	gridRings       = 4
	lineWidth       = 2.0
	gridWidth       = 1.0
	labelFontSize   = 9.0
	labelPadding    = 14
	marginFraction  = 0.22
	chartExtension  = ".png"
	defaultFileMode = 0o644
)

// Renderer turns a StatSet into a stored image and returns its filename.
type Renderer interface {
	Render(ctx context.Context, s stats.StatSet, name string) (string, error)
}

// RadarRenderer draws a closed radar polygon of the six scores and writes it
// as a PNG named after the digest of the owner's name. Repeat renders for
// the same name overwrite the same file; digest collisions overwrite too.
type RadarRenderer struct {
	dir      string
	width    int
	height   int
	palette  Palette
	fileMode os.FileMode
	logger   logger.Logger
}

// NewRadarRenderer creates dir if needed and returns a renderer writing there.
func NewRadarRenderer(dir string, opts ...Option) (*RadarRenderer, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: chart dir is required", ErrInvalidDir)
	}
	r := &RadarRenderer{
		dir:      filepath.Clean(dir),
		width:    defaultSize,
		height:   defaultSize,
		palette:  DefaultPalette,
		fileMode: defaultFileMode,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	return r, nil
}

// Dir returns the directory charts are written to.
func (r *RadarRenderer) Dir() string { return r.dir }

// Filename returns the artifact name used for name.
func Filename(name string) string {
	return stats.Digest(name) + chartExtension
}

// Render implements Renderer.
func (r *RadarRenderer) Render(ctx context.Context, s stats.StatSet, name string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordChartRenderLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := r.Draw(s)
	if err != nil {
		metrics.RecordErrorByComponent("chart", "render")
		return "", err
	}

	filename := Filename(name)
	if err := r.write(filename, img); err != nil {
		metrics.RecordErrorByComponent("chart", "write")
		return "", err
	}
	r.logger.Debug(ctx, "chart written",
		logger.String("file", filename),
		logger.Int("bytes", len(img)),
	)
	return filename, nil
}

// Draw renders s to PNG bytes without touching the filesystem.
func (r *RadarRenderer) Draw(s stats.StatSet) ([]byte, error) {
	rend, err := gochart.PNG(r.width, r.height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("%w: load font: %w", ErrRender, err)
	}
	rend.SetFont(font)

	cx, cy := r.width/2, r.height/2
	radius := float64(min(r.width, r.height)) * (0.5 - marginFraction)
	labels := stats.Categories()
	n := len(labels)

	// Background.
	rend.SetFillColor(r.palette.Background)
	rend.MoveTo(0, 0)
	rend.LineTo(r.width, 0)
	rend.LineTo(r.width, r.height)
	rend.LineTo(0, r.height)
	rend.Close()
	rend.Fill()

	// Grid rings and spokes.
	full := make([]int, n)
	for i := range full {
		full[i] = stats.MaxScore
	}
	rend.SetStrokeColor(r.palette.Grid)
	rend.SetStrokeWidth(gridWidth)
	for ring := 1; ring <= gridRings; ring++ {
		tracePolygon(rend, radarPoints(cx, cy, radius*float64(ring)/gridRings, full, stats.MaxScore))
		rend.Stroke()
	}
	for _, p := range radarPoints(cx, cy, radius, full, stats.MaxScore) {
		rend.MoveTo(cx, cy)
		rend.LineTo(p.X, p.Y)
		rend.Stroke()
	}

	// Scores.
	rend.SetFillColor(r.palette.Fill)
	rend.SetStrokeColor(r.palette.Line)
	rend.SetStrokeWidth(lineWidth)
	tracePolygon(rend, radarPoints(cx, cy, radius, s.Values(), stats.MaxScore))
	rend.FillStroke()

	// Labels sit just outside the outer ring, pulled towards the center by
	// their own extent so they do not clip at the image edge.
	rend.SetFontColor(r.palette.Text)
	rend.SetFontSize(labelFontSize)
	for i, c := range labels {
		theta := spokeAngle(i, n)
		anchor := polar(cx, cy, radius+labelPadding, theta)
		box := rend.MeasureText(string(c))
		x := anchor.X - int(math.Round(float64(box.Width())*(1-math.Cos(theta))/2))
		y := anchor.Y + int(math.Round(float64(box.Height())*(1-math.Sin(theta))/2))
		rend.Text(string(c), x, y)
	}

	var buf bytes.Buffer
	if err := rend.Save(&buf); err != nil {
		return nil, fmt.Errorf("%w: encode png: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// tracePolygon starts a closed path through pts, returning to the first point.
func tracePolygon(rend gochart.Renderer, pts []point) {
	if len(pts) == 0 {
		return
	}
	rend.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		rend.LineTo(p.X, p.Y)
	}
	rend.LineTo(pts[0].X, pts[0].Y)
	rend.Close()
}

func (r *RadarRenderer) write(filename string, data []byte) error {
	tmp, err := os.CreateTemp(r.dir, ".chart-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Chmod(tmpName, r.fileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Rename(tmpName, filepath.Join(r.dir, filename)); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
