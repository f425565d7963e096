// Package camera derives the preview camera pose from the two camera tracks.
package camera

import (
	"math"

	"camera-curve-editor/internal/mathutil"
)

const (
	// FOV is the vertical field of view in degrees.
	FOV = 70.0
	// TrackLength is the length of the preview track in track units.
	TrackLength = 16.0

	// MinRadius keeps the eye off the focal center.
	MinRadius = 1e-3

	near = 0.01
)

// Pose is a camera pose built fresh every frame. Angles are in degrees.
type Pose struct {
	Center      mathutil.Vec3
	Angle       float64
	FOV         float64
	Radius      float64
	Tilt        float64
	TrackLength float64
}

// Build maps raw track values (author range -3..3) to a pose.
func Build(radiusValue, angleValue float32) Pose {
	return Pose{
		Center:      mathutil.Vec3{},
		Angle:       -45 - 14*float64(angleValue),
		FOV:         FOV,
		Radius:      (-float64(radiusValue) + 3.1) / 2,
		Tilt:        0,
		TrackLength: TrackLength,
	}
}

// Eye returns the camera position and up vector.
//
// The eye orbits Center in the vertical plane containing the track's
// forward axis (+X after the track is turned into camera space). Angle 0
// looks straight down with the track's start at the top of the view;
// more negative angles swing the eye toward the horizon.
func (p Pose) Eye() (eye, up mathutil.Vec3) {
	r := p.Radius
	if !(r > MinRadius) {
		r = MinRadius
	}
	theta := mathutil.Deg2Rad(-p.Angle)
	s, c := math.Sin(theta), math.Cos(theta)

	eye = p.Center.Add(mathutil.Vec3{s, c, 0}.Scale(r))
	up = mathutil.Vec3{-c, s, 0}
	return eye, up
}

// View returns the world-to-camera transform, with Tilt as a roll about
// the view axis.
func (p Pose) View() mathutil.Mat4 {
	eye, up := p.Eye()
	look := mathutil.LookAt(eye, p.Center, up)
	roll := mathutil.FromMat3Translation(mathutil.RotZ(mathutil.Deg2Rad(p.Tilt)), mathutil.Vec3{})
	return mathutil.Mat4Mul(roll, look)
}

// Projection returns the perspective transform for a viewport of the given
// pixel size. A collapsed viewport is treated as square.
func (p Pose) Projection(size mathutil.Vec2) mathutil.Mat4 {
	aspect := 1.0
	if size[0] > 0 && size[1] > 0 {
		aspect = size[0] / size[1]
	}
	fov := p.FOV
	if !(fov > 1) || fov >= 179 {
		fov = FOV
	}
	far := math.Max(100, 4*p.TrackLength)
	return mathutil.Perspective(mathutil.Deg2Rad(fov), aspect, near, far)
}

// Matrix returns (projection, view) for a viewport.
func (p Pose) Matrix(size mathutil.Vec2) (projection, view mathutil.Mat4) {
	return p.Projection(size), p.View()
}
