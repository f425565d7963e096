package preview

import (
	"image/color"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camera-curve-editor/internal/camera"
	"camera-curve-editor/internal/mathutil"
)

func topDownPose() camera.Pose {
	return camera.Pose{Radius: 1, Angle: 0, FOV: camera.FOV, TrackLength: camera.TrackLength}
}

func TestProjectKeepsCornerOrdering(t *testing.T) {
	var quad Mesh
	quad.AddColoredRect(Rect{mathutil.Vec2{-0.5, -0.5}, mathutil.Vec2{0.5, 0.5}}, color.NRGBA{255, 255, 255, 255})

	rect := Rect{Min: mathutil.Vec2{10, 20}, Max: mathutil.Vec2{330, 200}}
	out := Project([]Mesh{quad}, topDownPose(), rect)
	require.Len(t, out, 1)
	v := out[0].Vertices
	lt, rt, lb, rb := v[0].Pos, v[1].Pos, v[2].Pos, v[3].Pos

	// Left stays left.
	assert.Less(t, lt[0], rt[0])
	assert.Less(t, lb[0], rb[0])
	// Top stays top (screen Y grows downward).
	assert.Less(t, lt[1], lb[1])
	assert.Less(t, rt[1], rb[1])
	// Rows and columns stay aligned.
	assert.InDelta(t, lt[1], rt[1], 1e-9)
	assert.InDelta(t, lt[0], lb[0], 1e-9)

	// The quad is centered on the viewport.
	assert.InDelta(t, 170, (lt[0]+rb[0])/2, 1e-9)
	assert.InDelta(t, 110, (lt[1]+rb[1])/2, 1e-9)
}

func TestProjectPreservesEverythingButPositions(t *testing.T) {
	meshes := []Mesh{TrackMesh(camera.TrackLength)}
	meshes[0].Texture = 3

	out := Project(meshes, camera.Build(0, 0), Rect{Max: mathutil.Vec2{640, 360}})
	require.Len(t, out, 1)

	assert.Equal(t, meshes[0].Indices, out[0].Indices)
	assert.Equal(t, TextureID(3), out[0].Texture)
	require.Len(t, out[0].Vertices, len(meshes[0].Vertices))

	ignorePos := cmp.Transformer("dropPos", func(v Vertex) Vertex {
		v.Pos = mathutil.Vec2{}
		return v
	})
	if diff := cmp.Diff(meshes[0].Vertices, out[0].Vertices, ignorePos); diff != "" {
		t.Errorf("vertex attributes changed (-in +out):\n%s", diff)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	in := TrackMesh(4)
	before := append([]Vertex(nil), in.Vertices...)
	Project([]Mesh{in}, camera.Build(1, 1), Rect{Max: mathutil.Vec2{320, 180}})
	assert.Equal(t, before, in.Vertices)
}

func TestProjectDegenerateCameraStaysFinite(t *testing.T) {
	poses := []camera.Pose{
		{Radius: 0, FOV: camera.FOV, TrackLength: camera.TrackLength},
		{Radius: -2, Angle: -90, FOV: camera.FOV, TrackLength: camera.TrackLength},
		{Radius: 1, FOV: 0, TrackLength: 0},
		camera.Build(3, -3),
	}
	rects := []Rect{
		{Max: mathutil.Vec2{320, 180}},
		{Max: mathutil.Vec2{0, 0}},
	}
	for _, pose := range poses {
		for _, rect := range rects {
			for _, m := range Project([]Mesh{TrackMesh(camera.TrackLength)}, pose, rect) {
				for _, v := range m.Vertices {
					for _, c := range v.Pos {
						require.False(t, math.IsNaN(c) || math.IsInf(c, 0), "pose %+v rect %+v", pose, rect)
					}
				}
			}
		}
	}
}

func TestViewportSize(t *testing.T) {
	wide := ViewportSize(mathutil.Vec2{640, 900}, DefaultDesiredSize)
	assert.Equal(t, 640.0, wide[0])
	assert.InDelta(t, 360, wide[1], 1e-9)

	narrow := ViewportSize(mathutil.Vec2{100, 900}, DefaultDesiredSize)
	assert.Equal(t, 300.0, narrow[0])
	assert.InDelta(t, 168.75, narrow[1], 1e-9)
}

func TestTrackMeshLayout(t *testing.T) {
	m := TrackMesh(16)

	// bed + 5 dividers + 2 laser lanes + judge line
	assert.Len(t, m.Vertices, 9*4)
	assert.Len(t, m.Indices, 9*6)
	assert.Equal(t, NoTexture, m.Texture)

	assert.Equal(t, gray(50), m.Vertices[0].Color)
	assert.Equal(t, mathutil.Vec2{0.5, 16}, m.Vertices[3].Pos)

	judge := m.Vertices[len(m.Vertices)-4:]
	for _, v := range judge {
		assert.Equal(t, color.NRGBA{255, 0, 0, 255}, v.Color)
		assert.LessOrEqual(t, math.Abs(v.Pos[1]), 0.01)
	}

	for _, i := range m.Indices {
		assert.Less(t, int(i), len(m.Vertices))
	}
}

func TestViewLayout(t *testing.T) {
	v := NewView(DefaultDesiredSize, camera.Build(0, 0))
	v.AddTrack()
	v.AddMesh(Mesh{})
	require.Len(t, v.Meshes, 2)

	rect, meshes := v.Layout(mathutil.Vec2{400, 0}, mathutil.Vec2{5, 7})
	assert.Equal(t, mathutil.Vec2{5, 7}, rect.Min)
	assert.Equal(t, 405.0, rect.Max[0])
	assert.InDelta(t, 232, rect.Max[1], 1e-9)
	assert.Len(t, meshes, 2)
}

func TestTexturedBed(t *testing.T) {
	m := TexturedBed(16, TextureID(3))
	assert.Equal(t, TextureID(3), m.Texture)
	require.Len(t, m.Vertices, 4)
	assert.Equal(t, mathutil.Vec2{1, 1}, m.Vertices[3].UV)
	assert.Equal(t, mathutil.Vec2{0.5, 16}, m.Vertices[3].Pos)
	assert.Equal(t, uint8(128), m.Vertices[0].Color.A)
}
