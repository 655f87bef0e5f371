package render

import (
	"sync"

	"github.com/humboldt-xie/blockworld/world"
)

// MeshBuilder turns the blocks of a chunk into a vertex stream.
type MeshBuilder struct {
	world  *world.World
	reg    *world.Registry
	lights *lightCache

	facePool *sync.Pool
}

func NewMeshBuilder(w *world.World, reg *world.Registry, lightmapCache int) *MeshBuilder {
	return &MeshBuilder{
		world:  w,
		reg:    reg,
		lights: newLightCache(lightmapCache),
		facePool: &sync.Pool{
			New: func() interface{} {
				// room for a 16x16x16 chunk of half visible faces
				return make([]float32, 0, 16*16*16*3*FaceVertices*VertexSize)
			},
		},
	}
}

// ShowFaces reports which faces of the block at id border a non solid block.
func ShowFaces(w *world.World, reg *world.Registry, id Vec3) FaceFilter {
	var show FaceFilter
	for face, n := range faceNormals {
		show[face] = !reg.Solid(w.Block(id.X+n.X, id.Y+n.Y, id.Z+n.Z))
	}
	return show
}

// AppendChunk appends the mesh of c to dst.
func (b *MeshBuilder) AppendChunk(dst []float32, c *Chunk) []float32 {
	lm := b.lights.get(b.world, b.reg, c)
	for x := c.Start.X; x < c.End.X; x++ {
		for y := c.Start.Y; y < c.End.Y; y++ {
			for z := c.Start.Z; z < c.End.Z; z++ {
				id := b.world.Block(x, y, z)
				if id == world.Air {
					continue
				}
				show := ShowFaces(b.world, b.reg, Vec3{x, y, z})
				dst = makeCubeData(dst, b.reg.Type(id), show, x, y, z, lm.Light(x, y, z))
			}
		}
	}
	return dst
}

// Build returns the mesh of c in a fresh slice.
func (b *MeshBuilder) Build(c *Chunk) []float32 {
	return b.AppendChunk(nil, c)
}

func (b *MeshBuilder) scratch() []float32 {
	return b.facePool.Get().([]float32)[:0]
}

func (b *MeshBuilder) recycle(s []float32) {
	b.facePool.Put(s[:0])
}

// InvalidateChunk drops the cached lightmap of c.
func (b *MeshBuilder) InvalidateChunk(c *Chunk) {
	b.lights.remove(c)
}

func (b *MeshBuilder) InvalidateAll() {
	b.lights.purge()
}
