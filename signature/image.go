package signature

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/webp"
)

// Image is a signature ready to embed.
type Image struct {
	Data   []byte
	Ext    string // with leading dot, as excelize expects
	Width  int
	Height int
}

// Load reads the image at path and reports its pixel size. WebP images are
// re-encoded as PNG since spreadsheets cannot hold them.
func Load(path string) (Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read %s: %w", path, err)
	}

	if isWebP(raw) {
		img, err := webp.Decode(bytes.NewReader(raw))
		if err != nil {
			return Image{}, fmt.Errorf("decode webp %s: %w", path, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return Image{}, fmt.Errorf("encode png: %w", err)
		}
		b := img.Bounds()
		return Image{Data: buf.Bytes(), Ext: ".png", Width: b.Dx(), Height: b.Dy()}, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %w", path, err)
	}
	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}
	return Image{Data: raw, Ext: ext, Width: cfg.Width, Height: cfg.Height}, nil
}

// Fit returns the uniform scale that makes a w×h image fit inside a
// maxW×maxH box. Images are never enlarged; a zero bound is unbounded.
func Fit(w, h, maxW, maxH int) float64 {
	scale := 1.0
	if w <= 0 || h <= 0 {
		return scale
	}
	if maxW > 0 {
		scale = min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = min(scale, float64(maxH)/float64(h))
	}
	return scale
}

func isWebP(b []byte) bool {
	return len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WEBP"
}
