package preview

import (
	"image/color"

	"camera-curve-editor/internal/mathutil"
)

// TextureID selects the texture a mesh samples. NoTexture draws vertex
// colors only.
type TextureID int

const NoTexture TextureID = 0

// whiteUV is the texel every colored rect samples; texture loaders keep
// it white so untextured geometry is tinted by vertex color alone.
var whiteUV = mathutil.Vec2{0, 0}

// Vertex is one mesh vertex. Pos is in track-local 2D space before
// projection and in screen pixels after.
type Vertex struct {
	Pos   mathutil.Vec2
	UV    mathutil.Vec2
	Color color.NRGBA
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Texture  TextureID
}

// Rect is an axis-aligned rectangle, Min top-left.
type Rect struct {
	Min, Max mathutil.Vec2
}

func (r Rect) Size() mathutil.Vec2 {
	return r.Max.Sub(r.Min)
}

// AddColoredRect appends a rect as two triangles: corners are emitted
// left-top, right-top, left-bottom, right-bottom.
func (m *Mesh) AddColoredRect(r Rect, c color.NRGBA) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		Vertex{Pos: r.Min, UV: whiteUV, Color: c},
		Vertex{Pos: mathutil.Vec2{r.Max[0], r.Min[1]}, UV: whiteUV, Color: c},
		Vertex{Pos: mathutil.Vec2{r.Min[0], r.Max[1]}, UV: whiteUV, Color: c},
		Vertex{Pos: r.Max, UV: whiteUV, Color: c},
	)
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base+2, base+1, base+3,
	)
}

// AddTexturedRect appends a rect mapping the full texture onto it.
func (m *Mesh) AddTexturedRect(r Rect, c color.NRGBA) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		Vertex{Pos: r.Min, UV: mathutil.Vec2{0, 0}, Color: c},
		Vertex{Pos: mathutil.Vec2{r.Max[0], r.Min[1]}, UV: mathutil.Vec2{1, 0}, Color: c},
		Vertex{Pos: mathutil.Vec2{r.Min[0], r.Max[1]}, UV: mathutil.Vec2{0, 1}, Color: c},
		Vertex{Pos: r.Max, UV: mathutil.Vec2{1, 1}, Color: c},
	)
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base+2, base+1, base+3,
	)
}

func gray(v uint8) color.NRGBA {
	return color.NRGBA{v, v, v, 255}
}

const (
	// TrackWidth is the width of the preview track in track units.
	TrackWidth = 1.0

	lineHalfWidth = 0.01
	lanes         = 6
)

var (
	laserLeft  = color.NRGBA{255, 0, 100, 255}
	laserRight = color.NRGBA{0, 100, 255, 255}
	judgeLine  = color.NRGBA{255, 0, 0, 255}
)

// TrackMesh builds the flat preview track: the lane bed, five lane dividers,
// both laser lanes and the judge line at y = 0. The track runs from y = 0 to
// y = length in its local frame.
func TrackMesh(length float64) Mesh {
	left := -TrackWidth / 2
	right := TrackWidth / 2
	laneWidth := TrackWidth / lanes

	var m Mesh
	m.AddColoredRect(Rect{mathutil.Vec2{left, 0}, mathutil.Vec2{right, length}}, gray(50))

	for i := 0; i < lanes-1; i++ {
		x := left + float64(i+1)*laneWidth
		m.AddColoredRect(Rect{
			mathutil.Vec2{x - lineHalfWidth, 0},
			mathutil.Vec2{x + lineHalfWidth, length},
		}, gray(100))
	}

	m.AddColoredRect(Rect{mathutil.Vec2{left, 0}, mathutil.Vec2{left + laneWidth, length}}, laserLeft)
	m.AddColoredRect(Rect{mathutil.Vec2{right - laneWidth, 0}, mathutil.Vec2{right, length}}, laserRight)
	m.AddColoredRect(Rect{mathutil.Vec2{left, -lineHalfWidth}, mathutil.Vec2{right, lineHalfWidth}}, judgeLine)

	return m
}

// TexturedBed is a track-sized quad sampling tex, tinted translucent so it
// can be drawn over the track without hiding the lane markings.
func TexturedBed(length float64, tex TextureID) Mesh {
	m := Mesh{Texture: tex}
	m.AddTexturedRect(Rect{
		mathutil.Vec2{-TrackWidth / 2, 0},
		mathutil.Vec2{TrackWidth / 2, length},
	}, color.NRGBA{255, 255, 255, 128})
	return m
}
