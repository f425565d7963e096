package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := `{
		"chart": "/charts/song.kson",
		"log_level": "debug",
		"preview": { "supersample": 3, "frame_step": 24 },
		"editor": { "hit_radius": 8 }
	}`
	path := filepath.Join(dir, "camedit.json")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/charts/song.kson", c.Chart)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 3, c.Preview.Supersample)
	assert.Equal(t, 24, c.Preview.FrameStep)
	assert.Equal(t, 0, c.Preview.Workers)
	assert.Equal(t, 8.0, c.Editor.HitRadius)
	assert.Equal(t, 1920, c.Editor.TickSpan)
}

func TestLoad_DefaultValues(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 300, c.Viewport.Width)
	assert.Equal(t, 2, c.Preview.Supersample)
	assert.Equal(t, 48, c.Preview.FrameStep)
	assert.Equal(t, 5.0, c.Editor.HitRadius)
	assert.Empty(t, c.Preview.TrackTexture)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/camedit.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"chart": `), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestResolve_FlagsOverride(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	c.Resolve(Flags{Chart: "/charts/a.kson", OutputDir: "/tmp/out", Workers: 3, Width: 640})
	assert.Equal(t, "/charts/a.kson", c.Chart)
	assert.Equal(t, "/tmp/out", c.OutputDir)
	assert.Equal(t, 3, c.Preview.Workers)
	assert.Equal(t, 640, c.Viewport.Width)
}

func TestResolve_DerivedDefaults(t *testing.T) {
	c := Config{Chart: filepath.Join("charts", "a.kson")}
	c.Resolve(Flags{})

	assert.Equal(t, filepath.Join("charts", "camera-preview"), c.OutputDir)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, runtime.NumCPU(), c.Preview.Workers)
	assert.Equal(t, 5.0, c.Editor.HitRadius)

	rel := Config{Chart: filepath.Join("charts", "a.kson"), OutputDir: "frames"}
	rel.Resolve(Flags{})
	assert.Equal(t, filepath.Join("charts", "frames"), rel.OutputDir)
}
