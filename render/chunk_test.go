package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkIndexPartition(t *testing.T) {
	ci := NewChunkIndex(10, 7, 5, Vec3{4, 4, 4})
	require.Equal(t, 3*2*2, ci.Len())

	// every cell belongs to exactly one chunk
	for x := 0; x < 10; x++ {
		for y := 0; y < 7; y++ {
			for z := 0; z < 5; z++ {
				n := 0
				for _, c := range ci.Chunks() {
					if c.Contains(x, y, z) {
						n++
					}
				}
				assert.Equal(t, 1, n, "%d,%d,%d", x, y, z)
			}
		}
	}

	chunks := ci.Chunks()
	// x outer, z inner
	assert.Equal(t, Vec3{0, 0, 4}, chunks[1].Start)
	assert.Equal(t, Vec3{0, 4, 0}, chunks[2].Start)
	last := chunks[len(chunks)-1]
	assert.Equal(t, Vec3{8, 4, 4}, last.Start)
	assert.Equal(t, Vec3{10, 7, 5}, last.End)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.True(t, c.Dirty)
		assert.Zero(t, c.Vertices())
	}
	assert.Equal(t, ci.Len(), ci.DirtyCount())
}

func TestChunkIndexBadExtent(t *testing.T) {
	assert.Panics(t, func() { NewChunkIndex(4, 4, 4, Vec3{4, 0, 4}) })
}

func cleanAll(ci *ChunkIndex) {
	for _, c := range ci.Chunks() {
		c.Dirty = false
	}
}

func TestMarkBlock(t *testing.T) {
	ci := NewChunkIndex(10, 7, 5, Vec3{4, 4, 4})

	for _, tc := range []struct {
		name  string
		block Vec3
		start Vec3
	}{
		{"interior", Vec3{1, 1, 1}, Vec3{0, 0, 0}},
		{"boundary", Vec3{4, 4, 4}, Vec3{4, 4, 4}},
		{"below boundary", Vec3{3, 3, 3}, Vec3{0, 0, 0}},
		{"world corner", Vec3{9, 6, 4}, Vec3{8, 4, 4}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cleanAll(ci)
			marked := ci.MarkBlock(tc.block.X, tc.block.Y, tc.block.Z)
			require.Len(t, marked, 1)
			assert.Equal(t, tc.start, marked[0].Start)
			assert.True(t, marked[0].Dirty)
			assert.Equal(t, 1, ci.DirtyCount())
		})
	}

	cleanAll(ci)
	assert.Empty(t, ci.MarkBlock(10, 0, 0))
	assert.Zero(t, ci.DirtyCount())

	ci.MarkAll()
	assert.Equal(t, ci.Len(), ci.DirtyCount())
}
