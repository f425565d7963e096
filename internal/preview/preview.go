// Package preview turns track geometry and a camera pose into screen-space
// meshes for the camera preview viewport.
package preview

import (
	"math"

	"camera-curve-editor/internal/camera"
	"camera-curve-editor/internal/mathutil"
)

// AspectRatio of the preview viewport (width / height).
const AspectRatio = 16.0 / 9.0

// minW keeps the perspective divide away from zero for geometry on the
// camera plane.
const minW = 1e-6

// trackToCamera turns the flat track so its length runs along the camera's
// forward axis.
var trackToCamera = mathutil.FromMat3Translation(mathutil.RotY(mathutil.Deg2Rad(90)), mathutil.Vec3{})

// DefaultDesiredSize is the smallest preview the editor asks for.
var DefaultDesiredSize = mathutil.Vec2{300, 200}

// View collects the meshes to show through one camera pose.
type View struct {
	Desired mathutil.Vec2
	Pose    camera.Pose
	Meshes  []Mesh
}

// NewView creates an empty view.
func NewView(desired mathutil.Vec2, pose camera.Pose) *View {
	return &View{Desired: desired, Pose: pose}
}

// AddTrack appends the standard track mesh sized to the pose's track length.
func (v *View) AddTrack() {
	length := v.Pose.TrackLength
	if !(length > 0) {
		length = camera.TrackLength
	}
	v.Meshes = append(v.Meshes, TrackMesh(length))
}

// AddMesh appends an arbitrary track-local mesh.
func (v *View) AddMesh(m Mesh) {
	v.Meshes = append(v.Meshes, m)
}

// Layout sizes the viewport for the available width and projects all
// meshes into it. origin is the viewport's top-left corner.
func (v *View) Layout(available mathutil.Vec2, origin mathutil.Vec2) (Rect, []Mesh) {
	size := ViewportSize(available, v.Desired)
	rect := Rect{Min: origin, Max: origin.Add(size)}
	return rect, Project(v.Meshes, v.Pose, rect)
}

// ViewportSize fills the available width, never going below the desired
// width, at a fixed 16:9 ratio.
func ViewportSize(available, desired mathutil.Vec2) mathutil.Vec2 {
	w := math.Max(available[0], desired[0])
	return mathutil.Vec2{w, w / AspectRatio}
}

// Project maps track-local meshes into screen space for rect. Indices,
// UVs, colors and textures are kept; only positions change.
func Project(meshes []Mesh, pose camera.Pose, rect Rect) []Mesh {
	size := rect.Size()
	projection, view := pose.Matrix(size)
	m := mathutil.Mat4Mul(projection, mathutil.Mat4Mul(view, trackToCamera))

	out := make([]Mesh, len(meshes))
	for i, mesh := range meshes {
		verts := make([]Vertex, len(mesh.Vertices))
		for j, vert := range mesh.Vertices {
			verts[j] = Vertex{
				Pos:   projectPoint(m, vert.Pos, rect.Min, size),
				UV:    vert.UV,
				Color: vert.Color,
			}
		}
		out[i] = Mesh{Vertices: verts, Indices: mesh.Indices, Texture: mesh.Texture}
	}
	return out
}

// projectPoint embeds a track-local point, projects it and maps clip space
// to pixels (Y down).
func projectPoint(m mathutil.Mat4, p mathutil.Vec2, origin, size mathutil.Vec2) mathutil.Vec2 {
	ndc := m.Project(mathutil.Vec3{p[0], 0, p[1]}, minW)
	if !ndc.Finite() {
		return origin
	}
	x := (ndc[0] + 1) / 2
	y := (-ndc[1] + 1) / 2
	return mathutil.Vec2{origin[0] + x*size[0], origin[1] + y*size[1]}
}
