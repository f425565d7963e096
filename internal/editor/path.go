package editor

import "camera-curve-editor/internal/chart"

// Path selects one of the two camera tracks.
type Path int

const (
	PathRadius Path = iota
	PathAngle
)

// Paths lists every track in display order.
func Paths() []Path {
	return []Path{PathRadius, PathAngle}
}

// Field returns the track p refers to inside c, or nil for an unknown path.
func (p Path) Field(c *chart.Chart) *chart.Graph {
	switch p {
	case PathRadius:
		return &c.Camera.Cam.Body.Zoom
	case PathAngle:
		return &c.Camera.Cam.Body.RotationX
	}
	return nil
}

// String is the name shown in the track selector.
func (p Path) String() string {
	switch p {
	case PathRadius:
		return "Radius"
	case PathAngle:
		return "Angle"
	}
	return "Unknown"
}

// Noun is the lower-case name used in history descriptions.
func (p Path) Noun() string {
	switch p {
	case PathRadius:
		return "radius"
	case PathAngle:
		return "angle"
	}
	return "unknown"
}

// Next cycles to the following track.
func (p Path) Next() Path {
	if p == PathRadius {
		return PathAngle
	}
	return PathRadius
}
