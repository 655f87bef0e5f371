package render

import (
	"log"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// BuildStat reports one BuildChunks call.
type BuildStat struct {
	Visited  int // chunks inside the load window looked at
	Rebuilt  int
	Failed   int
	Deferred int // dirty chunks inside the window left for a later call
}

// Scheduler rebuilds dirty chunks near the viewer, a bounded number per call.
type Scheduler struct {
	chunks       *ChunkIndex
	builder      *MeshBuilder
	dev          Device
	size         Vec3
	loadDistance int
}

func NewScheduler(chunks *ChunkIndex, builder *MeshBuilder, dev Device, loadDistance int) *Scheduler {
	return &Scheduler{
		chunks:       chunks,
		builder:      builder,
		dev:          dev,
		size:         chunks.size,
		loadDistance: loadDistance,
	}
}

// Window returns the half open box of cells within the load distance of
// viewer, clipped to the world.
func (s *Scheduler) Window(viewer mgl32.Vec3) (lo, hi Vec3) {
	var c [3]int
	for i := range c {
		c[i] = int(math.Floor(float64(viewer[i])))
	}
	d := s.loadDistance
	lo = Vec3{imax(0, c[0]-d), imax(0, c[1]-d), imax(0, c[2]-d)}
	hi = Vec3{imin(s.size.X, c[0]+d), imin(s.size.Y, c[1]+d), imin(s.size.Z, c[2]+d)}
	return lo, hi
}

func inWindow(c *Chunk, lo, hi Vec3) bool {
	return c.Start.X >= lo.X && c.End.X <= hi.X &&
		c.Start.Y >= lo.Y && c.End.Y <= hi.Y &&
		c.Start.Z >= lo.Z && c.End.Z <= hi.Z
}

// BuildChunks rebuilds at most budget dirty chunks lying fully inside the
// load window, in index order. A chunk whose upload fails stays dirty and
// still counts against the budget.
func (s *Scheduler) BuildChunks(budget int, viewer mgl32.Vec3) BuildStat {
	var stat BuildStat
	lo, hi := s.Window(viewer)
	for _, c := range s.chunks.chunks {
		if !inWindow(c, lo, hi) {
			continue
		}
		if budget <= 0 {
			if c.Dirty {
				stat.Deferred++
			}
			continue
		}
		stat.Visited++
		if !c.Dirty {
			continue
		}
		budget--
		if err := s.rebuild(c); err != nil {
			log.Printf("rebuild %v: %v", c, err)
			stat.Failed++
			continue
		}
		stat.Rebuilt++
	}
	return stat
}

func (s *Scheduler) rebuild(c *Chunk) error {
	start := time.Now()
	facedata := s.builder.scratch()
	defer func() {
		s.builder.recycle(facedata)
	}()

	facedata = s.builder.AppendChunk(facedata, c)
	if c.Buffer == nil {
		buf, err := NewBuffer(s.dev, facedata)
		if err != nil {
			return err
		}
		c.Buffer = buf
	} else if err := c.Buffer.Update(facedata); err != nil {
		return err
	}
	c.Dirty = false
	if d := time.Since(start); d > 10*time.Millisecond {
		log.Printf("make chunk spend %fs %v faces %d", d.Seconds(), c, c.Buffer.Vertices()/FaceVertices)
	}
	return nil
}
