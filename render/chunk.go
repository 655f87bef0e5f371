package render

import (
	"fmt"
	"log"

	"github.com/humboldt-xie/blockworld/world"
)

type Vec3 = world.Vec3

// Chunk is a box [Start, End) of the world meshed as one buffer.
type Chunk struct {
	Index      int
	Start, End Vec3
	Dirty      bool
	Buffer     *Buffer
}

func (c *Chunk) Contains(x, y, z int) bool {
	return x >= c.Start.X && x < c.End.X &&
		y >= c.Start.Y && y < c.End.Y &&
		z >= c.Start.Z && z < c.End.Z
}

// Vertices is the vertex count of the uploaded mesh.
func (c *Chunk) Vertices() int {
	if c.Buffer == nil {
		return 0
	}
	return c.Buffer.Vertices()
}

func (c *Chunk) String() string {
	return fmt.Sprintf("chunk %d %v-%v", c.Index, c.Start, c.End)
}

// ChunkIndex partitions the world once into chunks of a fixed extent. The
// last chunk on an axis is clipped to the world.
type ChunkIndex struct {
	size   Vec3
	extent Vec3
	chunks []*Chunk
}

func NewChunkIndex(sx, sy, sz int, extent Vec3) *ChunkIndex {
	if extent.X <= 0 || extent.Y <= 0 || extent.Z <= 0 {
		log.Panicf("bad chunk extent %v", extent)
	}
	ci := &ChunkIndex{
		size:   Vec3{sx, sy, sz},
		extent: extent,
	}
	for x := 0; x < sx; x += extent.X {
		for y := 0; y < sy; y += extent.Y {
			for z := 0; z < sz; z += extent.Z {
				ci.chunks = append(ci.chunks, &Chunk{
					Index: len(ci.chunks),
					Start: Vec3{x, y, z},
					End:   Vec3{imin(x+extent.X, sx), imin(y+extent.Y, sy), imin(z+extent.Z, sz)},
					Dirty: true,
				})
			}
		}
	}
	return ci
}

func imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (ci *ChunkIndex) Chunks() []*Chunk {
	return ci.chunks
}

func (ci *ChunkIndex) Len() int {
	return len(ci.chunks)
}

func (ci *ChunkIndex) Extent() Vec3 {
	return ci.extent
}

// MarkBlock marks dirty every chunk containing x,y,z and returns them.
// Neighbouring chunks are left alone.
func (ci *ChunkIndex) MarkBlock(x, y, z int) []*Chunk {
	var marked []*Chunk
	for _, c := range ci.chunks {
		if c.Contains(x, y, z) {
			c.Dirty = true
			marked = append(marked, c)
		}
	}
	return marked
}

func (ci *ChunkIndex) MarkAll() {
	for _, c := range ci.chunks {
		c.Dirty = true
	}
}

// DirtyCount returns the number of chunks waiting for a rebuild.
func (ci *ChunkIndex) DirtyCount() int {
	n := 0
	for _, c := range ci.chunks {
		if c.Dirty {
			n++
		}
	}
	return n
}

// Release frees every chunk buffer.
func (ci *ChunkIndex) Release() {
	for _, c := range ci.chunks {
		if c.Buffer != nil {
			c.Buffer.Release()
			c.Buffer = nil
		}
	}
}
