package batch

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/rs/zerolog"

	"camera-curve-editor/internal/camera"
	"camera-curve-editor/internal/chart"
	"camera-curve-editor/internal/mathutil"
	"camera-curve-editor/internal/postprocess"
	"camera-curve-editor/internal/preview"
	"camera-curve-editor/internal/raster"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Width       int
	Supersample int
	Workers     int

	// Texture, when not NoTexture, is drawn over the track from Textures.
	Texture  preview.TextureID
	Textures raster.Textures

	Logger   zerolog.Logger
	Progress time.Duration
}

// Frame is one sampled camera state.
type Frame struct {
	Tick   uint32
	Radius float64
	Angle  float64
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame   Frame
	Image   string
	Success bool
	Error   string
}

// Frames samples both camera tracks every step ticks over [start, end].
func Frames(c *chart.Chart, start, end, step uint32) []Frame {
	if step == 0 {
		step = 1
	}
	var out []Frame
	for tick := uint64(start); tick <= uint64(end); tick += uint64(step) {
		t := float64(tick)
		out = append(out, Frame{
			Tick:   uint32(tick),
			Radius: c.Camera.Cam.Body.Zoom.ValueAt(t),
			Angle:  c.Camera.Cam.Body.RotationX.ValueAt(t),
		})
	}
	return out
}

// Span returns the tick range covered by keyframes on either track.
func Span(c *chart.Chart) (start, end uint32, ok bool) {
	for _, g := range []chart.Graph{c.Camera.Cam.Body.Zoom, c.Camera.Cam.Body.RotationX} {
		if len(g) == 0 {
			continue
		}
		first, last := g[0].Y, g[len(g)-1].Y
		if !ok || first < start {
			start = first
		}
		if !ok || last > end {
			end = last
		}
		ok = true
	}
	return start, end, ok
}

// FrameSize returns the output image size for a viewport width.
func FrameSize(width int) (int, int) {
	size := preview.ViewportSize(mathutil.Vec2{float64(width), 0}, preview.DefaultDesiredSize)
	return int(math.Round(size[0])), int(math.Round(size[1]))
}

// Run renders all frames using a worker pool.
func Run(cfg Config, frames []Frame) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Progress <= 0 {
		cfg.Progress = 2 * time.Second
	}

	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.Progress)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					cfg.Logger.Info().
						Int64("done", p).
						Int("total", total).
						Float64("rate", float64(p)/elapsed).
						Msg("rendering frames")
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = processFrame(cfg, frames[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	cfg.Logger.Info().Int("frames", total).Dur("elapsed", time.Since(start)).Msg("frames rendered")
	return results
}

// RenderFrame draws the preview for one frame at the final size.
func RenderFrame(cfg Config, fr Frame) *image.NRGBA {
	w, h := FrameSize(cfg.Width)
	ss := cfg.Supersample
	if ss < 1 {
		ss = 1
	}

	pose := camera.Build(float32(fr.Radius), float32(fr.Angle))
	view := preview.NewView(preview.DefaultDesiredSize, pose)
	view.AddTrack()
	if cfg.Texture != preview.NoTexture {
		view.AddMesh(preview.TexturedBed(pose.TrackLength, cfg.Texture))
	}

	rect := preview.Rect{Max: mathutil.Vec2{float64(w * ss), float64(h * ss)}}
	meshes := preview.Project(view.Meshes, pose, rect)
	img := raster.Render(meshes, w*ss, h*ss, cfg.Textures)

	// Post-processing: supersample downsample
	if ss > 1 {
		img = postprocess.Downsample(img, w, h)
	}
	return img
}

func frameName(fr Frame) string {
	return fmt.Sprintf("%08d.webp", fr.Tick)
}

func processFrame(cfg Config, fr Frame) Result {
	img := RenderFrame(cfg, fr)

	name := frameName(fr)
	outPath := filepath.Join(cfg.OutputDir, name)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return Result{Frame: fr, Error: err.Error()}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return Result{Frame: fr, Error: err.Error()}
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return Result{Frame: fr, Error: fmt.Sprintf("WebP encode: %v", err)}
	}

	return Result{Frame: fr, Image: name, Success: true}
}
