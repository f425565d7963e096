package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Tick   uint32  `json:"tick"`
	Radius float64 `json:"radius"`
	Angle  float64 `json:"angle"`
	Image  string  `json:"image"`
}

// WriteManifest writes manifest.json for the frames that rendered.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Tick:   r.Frame.Tick,
			Radius: r.Frame.Radius,
			Angle:  r.Frame.Angle,
			Image:  r.Image,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
