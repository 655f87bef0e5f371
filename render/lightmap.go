package render

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/humboldt-xie/blockworld/world"
)

const (
	LightSun    = float32(1.0)
	LightShadow = float32(0.6)
)

// Lightmap holds, per column of a chunk, the z of the highest opaque block
// inside the chunk, -1 when the chunk part of the column is empty. It only
// reads the chunk's own blocks.
type Lightmap struct {
	start   Vec3
	w, h    int
	heights []int
}

func NewLightmap(w *world.World, reg *world.Registry, c *Chunk) *Lightmap {
	lm := &Lightmap{
		start: c.Start,
		w:     c.End.X - c.Start.X,
		h:     c.End.Y - c.Start.Y,
	}
	lm.heights = make([]int, lm.w*lm.h)
	for x := 0; x < lm.w; x++ {
		for y := 0; y < lm.h; y++ {
			top := w.HeightIn(reg, c.Start.X+x, c.Start.Y+y, c.Start.Z, c.End.Z)
			if top == c.Start.Z {
				top = 0
			}
			lm.heights[x*lm.h+y] = top - 1
		}
	}
	return lm
}

// Height returns the stored column height, or -1 outside the chunk columns.
func (lm *Lightmap) Height(x, y int) int {
	x -= lm.start.X
	y -= lm.start.Y
	if x < 0 || y < 0 || x >= lm.w || y >= lm.h {
		return -1
	}
	return lm.heights[x*lm.h+y]
}

// Light is full from the top opaque block up and shadowed below it.
func (lm *Lightmap) Light(x, y, z int) float32 {
	if z >= lm.Height(x, y) {
		return LightSun
	}
	return LightShadow
}

// lightCache keeps lightmaps by chunk index until a block of the chunk changes.
type lightCache struct {
	cache *lru.Cache
	hits  int
	miss  int
}

func newLightCache(size int) *lightCache {
	if size <= 0 {
		size = 1
	}
	c, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return &lightCache{cache: c}
}

func (lc *lightCache) get(w *world.World, reg *world.Registry, c *Chunk) *Lightmap {
	if v, ok := lc.cache.Get(c.Index); ok {
		lc.hits++
		return v.(*Lightmap)
	}
	lc.miss++
	lm := NewLightmap(w, reg, c)
	lc.cache.Add(c.Index, lm)
	return lm
}

func (lc *lightCache) remove(c *Chunk) {
	lc.cache.Remove(c.Index)
}

func (lc *lightCache) purge() {
	lc.cache.Purge()
}

func (lc *lightCache) len() int {
	return lc.cache.Len()
}
