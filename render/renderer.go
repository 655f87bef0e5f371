package render

import (
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/humboldt-xie/blockworld/world"
	"github.com/pkg/errors"
)

type Options struct {
	ChunkExtent   Vec3
	LoadDistance  int // in blocks
	LightmapCache int // lightmaps kept between rebuilds
}

func DefaultOptions() Options {
	return Options{
		ChunkExtent:   Vec3{16, 16, 16},
		LoadDistance:  32,
		LightmapCache: 256,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.ChunkExtent == (Vec3{}) {
		o.ChunkExtent = def.ChunkExtent
	}
	if o.LoadDistance <= 0 {
		o.LoadDistance = def.LoadDistance
	}
	if o.LightmapCache <= 0 {
		o.LightmapCache = def.LightmapCache
	}
	return o
}

// Stat describes the last Draw.
type Stat struct {
	Chunks        int
	RendingChunks int
	CulledChunks  int
	Faces         int
	DirtyChunks   int
}

// Renderer keeps the chunk meshes of one world on one device. It observes the
// world and must be driven from the thread owning the device.
type Renderer struct {
	world   *world.World
	reg     *world.Registry
	dev     Device
	opts    Options
	chunks  *ChunkIndex
	builder *MeshBuilder
	sched   *Scheduler
	camera  *CameraState

	program bool
	stat    Stat
}

func NewRenderer(w *world.World, reg *world.Registry, dev Device, opts Options) *Renderer {
	opts = opts.withDefaults()
	sx, sy, sz := w.Size()
	r := &Renderer{
		world:  w,
		reg:    reg,
		dev:    dev,
		opts:   opts,
		chunks: NewChunkIndex(sx, sy, sz, opts.ChunkExtent),
		camera: NewCameraState(),
	}
	r.builder = NewMeshBuilder(w, reg, opts.LightmapCache)
	r.sched = NewScheduler(r.chunks, r.builder, dev, opts.LoadDistance)
	w.Observe(r)
	log.Printf("renderer: world %dx%dx%d, %d chunks of %v", sx, sy, sz, r.chunks.Len(), opts.ChunkExtent)
	return r
}

// LoadShaders installs the block program once. Later calls do nothing.
func (r *Renderer) LoadShaders() error {
	if r.program {
		return nil
	}
	if err := r.dev.LoadProgram(blockVertexSource, blockFragmentSource); err != nil {
		return errors.Wrap(err, "load shaders")
	}
	r.program = true
	r.dev.SetUniform(UniformModel, mgl32.Ident4())
	if r.camera.projValid {
		r.dev.SetUniform(UniformProjection, r.camera.Projection())
	}
	if r.camera.viewValid {
		r.dev.SetUniform(UniformView, r.camera.View())
	}
	return nil
}

// OnBlockChanged marks the chunk holding x,y,z for rebuild and drops its
// lightmap.
func (r *Renderer) OnBlockChanged(x, y, z int) {
	for _, c := range r.chunks.MarkBlock(x, y, z) {
		r.builder.InvalidateChunk(c)
	}
}

// BuildChunks rebuilds up to budget dirty chunks around viewer.
func (r *Renderer) BuildChunks(budget int, viewer mgl32.Vec3) BuildStat {
	return r.sched.BuildChunks(budget, viewer)
}

// SetPerspective takes fov in degrees.
func (r *Renderer) SetPerspective(fov, near, far float32) {
	if r.camera.SetPerspective(fov, near, far) {
		r.uploadProjection()
	}
}

func (r *Renderer) SetViewport(width, height int) {
	if r.camera.SetViewport(width, height) {
		r.uploadProjection()
	}
}

func (r *Renderer) uploadProjection() {
	if r.program {
		r.dev.SetUniform(UniformProjection, r.camera.Projection())
	}
}

// SetCamera takes ang as pitch, yaw, roll in radians.
func (r *Renderer) SetCamera(pos, ang mgl32.Vec3) {
	if r.camera.SetCamera(pos, ang) && r.program {
		r.dev.SetUniform(UniformView, r.camera.View())
	}
}

// RenderPlayer draws model at pos rotated by rot.
func (r *Renderer) RenderPlayer(model *PlayerModel, pos, rot mgl32.Vec3) {
	if model == nil {
		return
	}
	r.dev.SetUniform(UniformModel, PlayerMatrix(pos, rot))
	model.Draw()
	r.dev.SetUniform(UniformModel, mgl32.Ident4())
}

// Draw draws every chunk holding vertices. Chunks outside the view frustum
// are skipped once the camera is set.
func (r *Renderer) Draw() {
	stat := Stat{Chunks: r.chunks.Len()}
	cull := r.camera.projValid && r.camera.viewValid
	var planes [6]mgl32.Vec4
	if cull {
		mat := r.camera.Projection().Mul4(r.camera.View())
		planes = frustumPlanes(&mat)
	}
	for _, c := range r.chunks.chunks {
		if c.Dirty {
			stat.DirtyChunks++
		}
		if c.Vertices() == 0 {
			continue
		}
		if cull && !isChunkVisible(planes, c) {
			stat.CulledChunks++
			continue
		}
		stat.RendingChunks++
		stat.Faces += c.Vertices() / FaceVertices
		c.Buffer.Draw()
	}
	r.stat = stat
}

// Invalidate schedules every chunk for rebuild, after a bulk load of the
// world for instance.
func (r *Renderer) Invalidate() {
	r.chunks.MarkAll()
	r.builder.InvalidateAll()
}

// Close releases every chunk buffer.
func (r *Renderer) Close() {
	r.chunks.Release()
}

func (r *Renderer) Stat() Stat {
	return r.stat
}

func (r *Renderer) Chunks() *ChunkIndex {
	return r.chunks
}

func (r *Renderer) Camera() *CameraState {
	return r.camera
}

func (r *Renderer) World() *world.World {
	return r.world
}
