package raster

import (
	"image"
	"math"

	"camera-curve-editor/internal/preview"
)

// RasterizeTriangle fills one screen-space triangle of mesh with
// interpolated vertex colors, modulated by tex when non-nil, and blends
// it over the framebuffer (source-over). Triangles are drawn in submission
// order; there is no depth test.
//
// This is the HOT PATH: zero allocation in the inner loop.
func RasterizeTriangle(fb *FrameBuffer, verts []preview.Vertex, idx [3]uint32, tex *image.NRGBA) {
	nv := uint32(len(verts))
	for _, i := range idx {
		if i >= nv {
			return
		}
	}

	v0, v1, v2 := verts[idx[0]], verts[idx[1]], verts[idx[2]]
	x0, y0 := v0.Pos[0], v0.Pos[1]
	x1, y1 := v1.Pos[0], v1.Pos[1]
	x2, y2 := v2.Pos[0], v2.Pos[1]

	for _, c := range [...]float64{x0, y0, x1, y1, x2, y2} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return
		}
	}

	// Bounding box, clamped to the buffer
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX > fb.Width-1 {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY > fb.Height-1 {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	const inv = 1.0 / 255
	c0 := [4]float64{float64(v0.Color.R) * inv, float64(v0.Color.G) * inv, float64(v0.Color.B) * inv, float64(v0.Color.A) * inv}
	c1 := [4]float64{float64(v1.Color.R) * inv, float64(v1.Color.G) * inv, float64(v1.Color.B) * inv, float64(v1.Color.A) * inv}
	c2 := [4]float64{float64(v2.Color.R) * inv, float64(v2.Color.G) * inv, float64(v2.Color.B) * inv, float64(v2.Color.A) * inv}

	// Pixel loop: sample at pixel centers
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			r := w0*c0[0] + w1*c1[0] + w2*c2[0]
			g := w0*c0[1] + w1*c1[1] + w2*c2[1]
			b := w0*c0[2] + w1*c1[2] + w2*c2[2]
			a := w0*c0[3] + w1*c1[3] + w2*c2[3]

			if tex != nil {
				u := w0*v0.UV[0] + w1*v1.UV[0] + w2*v2.UV[0]
				v := w0*v0.UV[1] + w1*v1.UV[1] + w2*v2.UV[1]
				tr, tg, tb, ta := SampleTexture(tex, u, v)
				r, g, b, a = r*tr, g*tg, b*tb, a*ta
			}

			if a <= 0 {
				continue
			}

			pxIdx := (rowOff + sx) * 4
			blendOver(fb.Color[pxIdx:pxIdx+4], r, g, b, a)
		}
	}
}

// blendOver composites a straight-alpha color over dst.
func blendOver(dst []uint8, r, g, b, a float64) {
	const inv = 1.0 / 255
	da := float64(dst[3]) * inv
	outA := a + da*(1-a)
	if outA <= 0 {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}
	dst[0] = blendChannel(r, dst[0], a, da, outA)
	dst[1] = blendChannel(g, dst[1], a, da, outA)
	dst[2] = blendChannel(b, dst[2], a, da, outA)
	dst[3] = clamp255(outA * 255)
}

// blendChannel composites one channel; src is in 0..1, a and da are the
// source and destination alphas and outA the composite alpha.
func blendChannel(src float64, d uint8, a, da, outA float64) uint8 {
	const inv = 1.0 / 255
	return clamp255((src*a + float64(d)*inv*da*(1-a)) / outA * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
