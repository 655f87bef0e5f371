package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var errInjected = errors.New("injected failure")

// fakeDevice records every call and keeps a copy of the uploaded data.
type fakeDevice struct {
	next     BufferID
	buffers  map[BufferID][]float32
	capacity map[BufferID]int // in floats
	deleted  []BufferID
	draws    map[BufferID]int

	uniforms    map[string]int
	lastUniform map[string]mgl32.Mat4
	programs    int

	newCalls    int
	updateCalls int

	// failures to inject into the next calls
	failNew     int
	failUpdate  int
	failProgram bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		buffers:     make(map[BufferID][]float32),
		capacity:    make(map[BufferID]int),
		draws:       make(map[BufferID]int),
		uniforms:    make(map[string]int),
		lastUniform: make(map[string]mgl32.Mat4),
	}
}

func (d *fakeDevice) LoadProgram(vertexSource, fragmentSource string) error {
	if d.failProgram {
		return errInjected
	}
	d.programs++
	return nil
}

func (d *fakeDevice) NewBuffer(data []float32) (BufferID, error) {
	d.newCalls++
	if d.failNew > 0 {
		d.failNew--
		return 0, errInjected
	}
	d.next++
	d.buffers[d.next] = append([]float32(nil), data...)
	d.capacity[d.next] = len(data)
	return d.next, nil
}

func (d *fakeDevice) UpdateBuffer(id BufferID, data []float32) error {
	d.updateCalls++
	if d.failUpdate > 0 {
		d.failUpdate--
		return errInjected
	}
	c, ok := d.capacity[id]
	if !ok {
		return errors.Errorf("no buffer %d", id)
	}
	if len(data) > c {
		return errors.Errorf("buffer %d overflow: %d > %d", id, len(data), c)
	}
	d.buffers[id] = append([]float32(nil), data...)
	return nil
}

func (d *fakeDevice) DeleteBuffer(id BufferID) {
	delete(d.buffers, id)
	delete(d.capacity, id)
	d.deleted = append(d.deleted, id)
}

func (d *fakeDevice) DrawTriangles(id BufferID, vertices int) {
	d.draws[id] += vertices
}

func (d *fakeDevice) SetUniform(name string, m mgl32.Mat4) {
	d.uniforms[name]++
	d.lastUniform[name] = m
}

func (d *fakeDevice) live() int {
	return len(d.buffers)
}
