package wormhole

import "github.com/gogpu/wormhole/internal/cache"

// CubemapCache keeps decoded skyboxes so that renderers built for the
// same directories decode each face set once. Cubemaps are read-only, so
// sharing them between renderers is safe. Entries are keyed by directory
// and extension only; use one cache per ImageLoader.
//
// A CubemapCache is safe for concurrent use.
type CubemapCache struct {
	c *cache.Cache[cubemapKey, *Cubemap]
}

type cubemapKey struct {
	dir, ext string
}

// NewCubemapCache returns a cache holding at most limit cubemaps, or any
// number when limit is 0.
func NewCubemapCache(limit int) *CubemapCache {
	return &CubemapCache{c: cache.New[cubemapKey, *Cubemap](limit)}
}

// Load returns the cached cubemap for dir and ext, loading it with loader
// on a miss. Failed loads are not cached.
func (c *CubemapCache) Load(loader ImageLoader, dir, ext string) (*Cubemap, error) {
	return c.c.GetOrLoad(cubemapKey{dir, ext}, func() (*Cubemap, error) {
		return LoadCubemap(loader, dir, ext)
	})
}

// Forget drops the cubemap of dir and ext, for example after its files
// changed on disk.
func (c *CubemapCache) Forget(dir, ext string) bool {
	return c.c.Delete(cubemapKey{dir, ext})
}

// Len returns the number of cached cubemaps.
func (c *CubemapCache) Len() int { return c.c.Len() }

// Clear drops every cached cubemap.
func (c *CubemapCache) Clear() { c.c.Clear() }
