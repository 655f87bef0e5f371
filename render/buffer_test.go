package render

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vertices(n int) []float32 {
	data := make([]float32, n*VertexSize)
	for i := range data {
		data[i] = float32(i)
	}
	return data
}

func TestBufferUpdateInPlace(t *testing.T) {
	dev := newFakeDevice()
	b, err := NewBuffer(dev, vertices(4))
	require.NoError(t, err)
	id := b.ID()
	assert.Equal(t, 4, b.Vertices())
	assert.Equal(t, 4, b.Capacity())

	require.NoError(t, b.Update(vertices(2)))
	assert.Equal(t, id, b.ID())
	assert.Equal(t, 2, b.Vertices())
	assert.Equal(t, 4, b.Capacity())
	assert.Equal(t, 1, dev.updateCalls)
	assert.Equal(t, vertices(2), dev.buffers[id])

	b.Draw()
	assert.Equal(t, 2, dev.draws[id])
}

func TestBufferGrows(t *testing.T) {
	dev := newFakeDevice()
	b, err := NewBuffer(dev, vertices(2))
	require.NoError(t, err)
	old := b.ID()

	require.NoError(t, b.Update(vertices(5)))
	assert.NotEqual(t, old, b.ID())
	assert.Equal(t, []BufferID{old}, dev.deleted)
	assert.Equal(t, 5, b.Vertices())
	assert.Equal(t, 5, b.Capacity())
	assert.Equal(t, 1, dev.live())

	// shrinking keeps the allocation
	require.NoError(t, b.Update(nil))
	assert.Equal(t, 0, b.Vertices())
	assert.Equal(t, 5, b.Capacity())
	b.Draw()
	assert.Empty(t, dev.draws)
}

func TestBufferUpdateFailureKeepsContents(t *testing.T) {
	dev := newFakeDevice()
	b, err := NewBuffer(dev, vertices(2))
	require.NoError(t, err)
	id := b.ID()

	dev.failNew = 1
	err = b.Update(vertices(3))
	assert.Equal(t, errInjected, errors.Cause(err))
	assert.Equal(t, id, b.ID())
	assert.Equal(t, 2, b.Vertices())
	assert.Empty(t, dev.deleted)

	dev.failUpdate = 1
	err = b.Update(vertices(1))
	assert.Equal(t, errInjected, errors.Cause(err))
	assert.Equal(t, 2, b.Vertices())
}

func TestBufferRelease(t *testing.T) {
	dev := newFakeDevice()
	b, err := NewBuffer(dev, vertices(1))
	require.NoError(t, err)
	id := b.ID()

	b.Release()
	assert.Equal(t, []BufferID{id}, dev.deleted)
	assert.Zero(t, b.ID())
	assert.Equal(t, ErrReleased, b.Update(vertices(1)))

	// a second release does nothing
	b.Release()
	assert.Len(t, dev.deleted, 1)
	b.Draw()
	assert.Empty(t, dev.draws)
}

func TestNewBufferFailure(t *testing.T) {
	dev := newFakeDevice()
	dev.failNew = 1
	_, err := NewBuffer(dev, vertices(1))
	assert.Equal(t, errInjected, errors.Cause(err))
	assert.Zero(t, dev.live())
}
