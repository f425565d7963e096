// Package chart holds the slice of the chart document the camera editor
// works on: the radius (zoom) and angle (rotation_x) keyframe tracks.
//
// Everything else in a chart file is carried through untouched, so a chart
// loaded and saved by this package keeps fields it does not understand.
package chart

import (
	"encoding/json"
	"fmt"
	"os"
)

// Chart is a chart document.
type Chart struct {
	Camera Camera
	Extra  RawObject
}

// Camera is the chart's camera section.
type Camera struct {
	Cam   CamPattern
	Extra RawObject
}

// CamPattern wraps the camera body.
type CamPattern struct {
	Body  CamBody
	Extra RawObject
}

// CamBody holds the camera tracks.
type CamBody struct {
	Zoom      Graph
	RotationX Graph
	Extra     RawObject
}

// Clone returns a deep copy of the camera tracks. Unknown fields are
// shared; they are never modified in place.
func (c *Chart) Clone() *Chart {
	out := *c
	out.Camera.Cam.Body.Zoom = c.Camera.Cam.Body.Zoom.Clone()
	out.Camera.Cam.Body.RotationX = c.Camera.Cam.Body.RotationX.Clone()
	return &out
}

// Validate checks tick order on both tracks.
func (c *Chart) Validate() error {
	if err := c.Camera.Cam.Body.Zoom.Validate(); err != nil {
		return fmt.Errorf("zoom: %w", err)
	}
	if err := c.Camera.Cam.Body.RotationX.Validate(); err != nil {
		return fmt.Errorf("rotation_x: %w", err)
	}
	return nil
}

// Load reads a chart JSON file.
func Load(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chart: read %s: %w", path, err)
	}

	var c Chart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("chart: parse %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the chart as indented JSON.
func Save(path string, c *Chart) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("chart: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("chart: write %s: %w", path, err)
	}
	return nil
}

func (c *Chart) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	if err := raw.take("camera", &c.Camera); err != nil {
		return err
	}
	c.Extra = raw
	return nil
}

func (c Chart) MarshalJSON() ([]byte, error) {
	return c.Extra.encode(map[string]any{"camera": c.Camera})
}

func (c *Camera) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	if err := raw.take("cam", &c.Cam); err != nil {
		return err
	}
	c.Extra = raw
	return nil
}

func (c Camera) MarshalJSON() ([]byte, error) {
	return c.Extra.encode(map[string]any{"cam": c.Cam})
}

func (p *CamPattern) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	if err := raw.take("body", &p.Body); err != nil {
		return err
	}
	p.Extra = raw
	return nil
}

func (p CamPattern) MarshalJSON() ([]byte, error) {
	return p.Extra.encode(map[string]any{"body": p.Body})
}

func (b *CamBody) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return err
	}
	if err := raw.take("zoom", &b.Zoom); err != nil {
		return err
	}
	if err := raw.take("rotation_x", &b.RotationX); err != nil {
		return err
	}
	b.Extra = raw
	return nil
}

func (b CamBody) MarshalJSON() ([]byte, error) {
	return b.Extra.encode(map[string]any{
		"zoom":       nonNil(b.Zoom),
		"rotation_x": nonNil(b.RotationX),
	})
}

func nonNil(g Graph) Graph {
	if g == nil {
		return Graph{}
	}
	return g
}
