// Package raster draws projected preview meshes into an image.
package raster

import (
	"image"
	"image/color"

	"camera-curve-editor/internal/preview"
)

// Background is the viewport clear color.
var Background = color.NRGBA{0, 0, 0, 255}

// Textures maps mesh texture ids to decoded images.
type Textures map[preview.TextureID]*image.NRGBA

// Render rasterizes screen-space meshes into a width×height image. Mesh
// positions are pixels relative to the image's top-left corner. Meshes are
// painted in order.
func Render(meshes []preview.Mesh, width, height int, textures Textures) *image.NRGBA {
	fb := NewFrameBuffer(width, height, Background)

	for _, mesh := range meshes {
		if len(mesh.Vertices) == 0 {
			continue
		}

		var tex *image.NRGBA
		if mesh.Texture != preview.NoTexture {
			tex = textures[mesh.Texture]
		}

		for i := 0; i+2 < len(mesh.Indices); i += 3 {
			tri := [3]uint32{mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]}
			RasterizeTriangle(fb, mesh.Vertices, tri, tex)
		}
	}

	// Convert framebuffer to image
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)

	return img
}
