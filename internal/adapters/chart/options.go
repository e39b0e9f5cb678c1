package chart

import (
	"os"

	"github.com/okian/radar/pkg/logger"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette holds the colors of a radar chart.
type Palette struct {
	Background drawing.Color
	Grid       drawing.Color
	Line       drawing.Color
	Fill       drawing.Color
	Text       drawing.Color
}

// DefaultPalette is cyan on black.
var DefaultPalette = Palette{
	Background: drawing.Color{R: 0, G: 0, B: 0, A: 255},
	Grid:       drawing.Color{R: 90, G: 90, B: 90, A: 255},
	Line:       drawing.Color{R: 0, G: 255, B: 255, A: 255},
	Fill:       drawing.Color{R: 0, G: 255, B: 255, A: 77},
	Text:       drawing.Color{R: 230, G: 230, B: 230, A: 255},
}

// Option applies a configuration option to the RadarRenderer.
type Option func(*RadarRenderer)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(r *RadarRenderer) {
		if width > 0 && height > 0 {
			r.width = width
			r.height = height
		}
	}
}

// WithPalette overrides the chart colors.
func WithPalette(p Palette) Option {
	return func(r *RadarRenderer) {
		r.palette = p
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *RadarRenderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithFileMode sets the permissions of written chart files.
func WithFileMode(mode os.FileMode) Option {
	return func(r *RadarRenderer) {
		if mode != 0 {
			r.fileMode = mode
		}
	}
}
