package raster

import "image/color"

// FrameBuffer holds the rendering target as a flat slice for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8 // RGBA interleaved, len = W*H*4
}

// NewFrameBuffer allocates a buffer cleared to bg.
func NewFrameBuffer(w, h int, bg color.NRGBA) *FrameBuffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	buf := make([]uint8, w*h*4)
	for i := 0; i < len(buf); i += 4 {
		buf[i], buf[i+1], buf[i+2], buf[i+3] = bg.R, bg.G, bg.B, bg.A
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  buf,
	}
}
