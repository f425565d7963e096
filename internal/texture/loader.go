// Package texture loads optional images the preview track is painted with.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
)

// Load reads a TGA, PNG or JPEG file and returns an NRGBA image. The
// decoder is chosen by extension.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	var img image.Image
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".tga":
		img, err = tga.Decode(bytes.NewReader(raw))
	case ".png":
		img, err = png.Decode(bytes.NewReader(raw))
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("texture: unknown extension: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA format with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
