package world

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BlockObserver is notified of every SetBlock call.
type BlockObserver interface {
	OnBlockChanged(x, y, z int)
}

// World is a dense, fixed size grid of blocks. z is up.
type World struct {
	sx, sy, sz int
	blocks     []BlockID

	Spawn   mgl32.Vec3
	Players map[int32]*Player

	observers []BlockObserver
}

func NewWorld(sx, sy, sz int) *World {
	if sx <= 0 || sy <= 0 || sz <= 0 {
		log.Panicf("bad world size %dx%dx%d", sx, sy, sz)
	}
	return &World{
		sx:      sx,
		sy:      sy,
		sz:      sz,
		blocks:  make([]BlockID, sx*sy*sz),
		Players: make(map[int32]*Player),
	}
}

func (w *World) Size() (sx, sy, sz int) {
	return w.sx, w.sy, w.sz
}

func (w *World) Volume() int {
	return len(w.blocks)
}

func (w *World) InRange(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < w.sx && y < w.sy && z < w.sz
}

// index follows the scan order of the network encoding: x, then y, then z.
func (w *World) index(x, y, z int) int {
	return (x*w.sy+y)*w.sz + z
}

// Block returns the block at x,y,z, or Air outside the world.
func (w *World) Block(x, y, z int) BlockID {
	if !w.InRange(x, y, z) {
		return Air
	}
	return w.blocks[w.index(x, y, z)]
}

func (w *World) BlockAt(id Vec3) BlockID {
	return w.Block(id.X, id.Y, id.Z)
}

// SetBlock stores id at x,y,z and notifies the observers, whether or not the
// value changed. Writing outside the world panics.
func (w *World) SetBlock(x, y, z int, id BlockID) {
	if !w.InRange(x, y, z) {
		log.Panicf("set block out of world: %d,%d,%d size %dx%dx%d", x, y, z, w.sx, w.sy, w.sz)
	}
	w.blocks[w.index(x, y, z)] = id
	for _, o := range w.observers {
		o.OnBlockChanged(x, y, z)
	}
}

func (w *World) Observe(o BlockObserver) {
	w.observers = append(w.observers, o)
}

// CreateFlatWorld fills everything below height with dirt and the rest with air.
func (w *World) CreateFlatWorld(height int) {
	w.Spawn = mgl32.Vec3{float32(w.sx)/2 + 0.5, float32(w.sy)/2 + 0.5, float32(height)}
	for x := 0; x < w.sx; x++ {
		for y := 0; y < w.sy; y++ {
			for z := 0; z < w.sz; z++ {
				id := Air
				if z < height {
					id = Dirt
				}
				w.blocks[w.index(x, y, z)] = id
			}
		}
	}
}

// Height returns the z just above the highest solid block of column x,y,
// or 0 when the column is empty.
func (w *World) Height(reg *Registry, x, y int) int {
	return w.HeightIn(reg, x, y, 0, w.sz)
}

// HeightIn is Height limited to the cells z0 <= z < z1. It returns z0 when
// none of them is solid.
func (w *World) HeightIn(reg *Registry, x, y, z0, z1 int) int {
	if x < 0 || y < 0 || x >= w.sx || y >= w.sy {
		return z0
	}
	lo, hi := z0, z1
	if lo < 0 {
		lo = 0
	}
	if hi > w.sz {
		hi = w.sz
	}
	base := w.index(x, y, 0)
	for z := hi - 1; z >= lo; z-- {
		if reg.Solid(w.blocks[base+z]) {
			return z + 1
		}
	}
	return z0
}

// BlockOf returns the cell containing pos.
func BlockOf(pos mgl32.Vec3) Vec3 {
	return Vec3{
		int(math.Floor(float64(pos.X()))),
		int(math.Floor(float64(pos.Y()))),
		int(math.Floor(float64(pos.Z()))),
	}
}

// HitTest walks from pos along dir and returns the first cell holding a non
// air block, and the cell crossed just before it. ok is false when nothing is
// hit within maxLen.
func (w *World) HitTest(pos, dir mgl32.Vec3, maxLen float32) (hit, prev Vec3, ok bool) {
	const step = float32(0.125)
	if dir.Len() == 0 {
		return hit, prev, false
	}
	dir = dir.Normalize()
	prev = BlockOf(pos)
	for length := float32(0); length < maxLen; length += step {
		block := BlockOf(pos.Add(dir.Mul(length)))
		if block == prev && length > 0 {
			continue
		}
		if w.BlockAt(block) != Air {
			return block, prev, true
		}
		prev = block
	}
	return hit, prev, false
}
