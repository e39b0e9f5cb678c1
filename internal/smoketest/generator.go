package smoketest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/google/uuid"
)

// generateNames returns n distinct names. Each carries a random suffix so
// repeated runs against the same server do not overwrite each other.
func generateNames(prefix string, n int) []string {
	run := uuid.NewString()[:8]
	names := make([]string, n)
	for i := range names {
		names[i] = prefix + "-" + run + "-" + uuid.NewString()[:8]
	}
	return names
}

// photoPNG returns a tiny solid PNG to upload as the photo.
func photoPNG() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: 0, G: 229, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
