package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownsampleSize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 36))
	for i := range src.Pix {
		src.Pix[i] = 255
	}

	out := Downsample(src, 32, 18)
	assert.Equal(t, image.Rect(0, 0, 32, 18), out.Bounds())

	c := out.NRGBAAt(16, 9)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, c)
}

func TestDownsampleNoopWhenSmaller(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	assert.Same(t, src, Downsample(src, 20, 20))
}

func TestDownsampleKeepsOpaqueColor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			src.SetNRGBA(x, y, color.NRGBA{255, 0, 100, 255})
		}
	}

	c := Downsample(src, 20, 20).NRGBAAt(10, 10)
	assert.InDelta(t, 255, c.R, 1)
	assert.InDelta(t, 0, c.G, 1)
	assert.InDelta(t, 100, c.B, 1)
}
