package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"camera-curve-editor/internal/batch"
	"camera-curve-editor/internal/chart"
	"camera-curve-editor/internal/config"
	"camera-curve-editor/internal/graphplot"
	"camera-curve-editor/internal/logging"
	"camera-curve-editor/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config JSON file")
	chartFile := flag.String("chart", "", "Chart file to preview")
	outputDir := flag.String("output", "", "Output directory (default: camera-preview next to the chart)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	width := flag.Int("width", 0, "Frame width in pixels (minimum 300)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	startTick := flag.Int("start", -1, "First tick (default: first keyframe)")
	endTick := flag.Int("end", -1, "Last tick (default: last keyframe)")
	step := flag.Int("step", 0, "Ticks between frames (default: preview.frame_step)")
	single := flag.Int("tick", -1, "Render only the frame at this tick")
	graphOut := flag.String("graph", "", "Also export the curve graph to this PNG")

	flag.Parse()

	// Load config
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Chart:     *chartFile,
		OutputDir: *outputDir,
		LogLevel:  *logLevel,
		Width:     *width,
		Workers:   *workers,
	})
	if *step > 0 {
		cfg.Preview.FrameStep = *step
	}

	log := logging.Console(cfg.LogLevel)

	if cfg.Chart == "" {
		fmt.Fprintln(os.Stderr, "Error: no chart. Use -chart flag or config file.")
		os.Exit(1)
	}

	c, err := chart.Load(cfg.Chart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading chart: %v\n", err)
		os.Exit(1)
	}

	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Width:       cfg.Viewport.Width,
		Supersample: cfg.Preview.Supersample,
		Workers:     cfg.Preview.Workers,
		Logger:      log,
	}

	// Optional track texture
	if cfg.Preview.TrackTexture != "" {
		textures := texture.NewCache()
		id, err := textures.Add(cfg.Preview.TrackTexture)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Preview.TrackTexture).Msg("track texture not loaded")
		} else {
			batchCfg.Texture = id
			batchCfg.Textures = textures.Textures()
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}

	if *graphOut != "" {
		if err := graphplot.Render(c, *graphOut, graphplot.Options{Title: filepath.Base(cfg.Chart)}); err != nil {
			log.Error().Err(err).Msg("graph export failed")
		} else {
			log.Info().Str("path", *graphOut).Msg("graph exported")
		}
	}

	if *single >= 0 {
		frames := batch.Frames(c, uint32(*single), uint32(*single), 1)
		if err := writeFrame(batchCfg, frames[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering frame: %v\n", err)
			os.Exit(1)
		}
		return
	}

	first, last, ok := batch.Span(c)
	if !ok {
		fmt.Println("No camera keyframes to render.")
		os.Exit(0)
	}
	if *startTick >= 0 {
		first = uint32(*startTick)
	}
	if *endTick >= 0 {
		last = uint32(*endTick)
	}
	frames := batch.Frames(c, first, last, uint32(cfg.Preview.FrameStep))

	w, h := batch.FrameSize(cfg.Viewport.Width)
	log.Info().
		Int("frames", len(frames)).
		Int("workers", cfg.Preview.Workers).
		Str("size", fmt.Sprintf("%dx%d", w, h)).
		Str("output", cfg.OutputDir).
		Msg("camera preview")

	start := time.Now()
	results := batch.Run(batchCfg, frames)

	// Count results
	success, failed := 0, 0
	for _, r := range results {
		if r.Success {
			success++
			continue
		}
		failed++
		log.Error().Uint32("tick", r.Frame.Tick).Str("error", r.Error).Msg("frame failed")
	}
	log.Info().Int("rendered", success).Int("failed", failed).Dur("elapsed", time.Since(start)).Msg("done")

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		log.Warn().Err(err).Msg("manifest write failed")
	} else {
		log.Info().Str("path", manifestPath).Msg("manifest written")
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func writeFrame(cfg batch.Config, fr batch.Frame) error {
	img := batch.RenderFrame(cfg, fr)
	path := filepath.Join(cfg.OutputDir, fmt.Sprintf("frame_%d.webp", fr.Tick))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("WebP encode: %w", err)
	}
	cfg.Logger.Info().Str("path", path).Float64("radius", fr.Radius).Float64("angle", fr.Angle).Msg("frame written")
	return nil
}

