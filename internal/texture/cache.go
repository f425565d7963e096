package texture

import (
	"image"
	"sync"

	"camera-curve-editor/internal/preview"
	"camera-curve-editor/internal/raster"
)

// Cache is a concurrency-safe texture registry. Each distinct path is
// decoded once and given a stable TextureID.
type Cache struct {
	mu     sync.RWMutex
	byPath map[string]preview.TextureID
	images raster.Textures
	next   preview.TextureID
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		byPath: make(map[string]preview.TextureID),
		images: make(raster.Textures),
		next:   preview.NoTexture + 1,
	}
}

// Add loads path (once) and returns its id.
func (c *Cache) Add(path string) (preview.TextureID, error) {
	// Fast path: read lock
	c.mu.RLock()
	if id, ok := c.byPath[path]; ok {
		c.mu.RUnlock()
		return id, nil
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := Load(path)
	if err != nil {
		return preview.NoTexture, err
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.byPath[path]; ok {
		return id, nil
	}
	id := c.next
	c.next++
	c.byPath[path] = id
	c.images[id] = img
	return id, nil
}

// Get returns the image for id, or nil.
func (c *Cache) Get(id preview.TextureID) *image.NRGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.images[id]
}

// Textures returns a snapshot usable by raster.Render.
func (c *Cache) Textures() raster.Textures {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(raster.Textures, len(c.images))
	for id, img := range c.images {
		out[id] = img
	}
	return out
}
