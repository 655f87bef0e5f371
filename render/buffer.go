package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// BufferID names a vertex buffer of a Device. 0 is never a valid buffer.
type BufferID uint32

// Device is the part of the graphics context the renderer needs. All calls
// happen on the thread owning the context.
type Device interface {
	// LoadProgram compiles and installs the shader program. On error nothing
	// is installed.
	LoadProgram(vertexSource, fragmentSource string) error
	// NewBuffer allocates a buffer sized to data and fills it.
	NewBuffer(data []float32) (BufferID, error)
	// UpdateBuffer overwrites the start of a buffer. data must fit.
	UpdateBuffer(id BufferID, data []float32) error
	DeleteBuffer(id BufferID)
	DrawTriangles(id BufferID, vertices int)
	SetUniform(name string, m mgl32.Mat4)
}

const (
	UniformProjection = "uProjMatrix"
	UniformView       = "uViewMatrix"
	UniformModel      = "uModelMatrix"
)

var ErrReleased = errors.New("buffer released")

// Buffer is a device vertex buffer owned by one chunk or model.
type Buffer struct {
	dev      Device
	id       BufferID
	vertices int
	capacity int
}

func NewBuffer(dev Device, data []float32) (*Buffer, error) {
	id, err := dev.NewBuffer(data)
	if err != nil {
		return nil, errors.Wrap(err, "new buffer")
	}
	n := len(data) / VertexSize
	return &Buffer{dev: dev, id: id, vertices: n, capacity: n}, nil
}

// Update replaces the contents. A stream that fits is written in place, a
// larger one moves to a new allocation. Capacity never shrinks. On error the
// old contents stay in place.
func (b *Buffer) Update(data []float32) error {
	if b.id == 0 {
		return ErrReleased
	}
	n := len(data) / VertexSize
	if n <= b.capacity {
		if err := b.dev.UpdateBuffer(b.id, data); err != nil {
			return errors.Wrap(err, "update buffer")
		}
		b.vertices = n
		return nil
	}
	id, err := b.dev.NewBuffer(data)
	if err != nil {
		return errors.Wrap(err, "grow buffer")
	}
	b.dev.DeleteBuffer(b.id)
	b.id = id
	b.vertices = n
	b.capacity = n
	return nil
}

func (b *Buffer) Draw() {
	if b.id != 0 && b.vertices > 0 {
		b.dev.DrawTriangles(b.id, b.vertices)
	}
}

func (b *Buffer) Release() {
	if b.id != 0 {
		b.dev.DeleteBuffer(b.id)
		b.id = 0
		b.vertices = 0
		b.capacity = 0
	}
}

func (b *Buffer) ID() BufferID {
	return b.id
}

func (b *Buffer) Vertices() int {
	return b.vertices
}

// Capacity is the allocated size in vertices.
func (b *Buffer) Capacity() int {
	return b.capacity
}
