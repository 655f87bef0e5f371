package world

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSeed = `32x24
(4;5)estructuraarbol,(20,12)estructuracasa
16
8x3
`

func TestParseSeed(t *testing.T) {
	s, err := ParseSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)
	assert.Equal(t, 32, s.Width)
	assert.Equal(t, 24, s.Height)
	assert.Equal(t, []Placement{{4, 5, "arbol"}, {20, 12, "casa"}}, s.Structures)
	assert.Equal(t, []int{16}, s.ChunkSizes)
	assert.Equal(t, 8, s.CaveWidth)
	assert.Equal(t, 3, s.CaveHeight)

	e, ok := s.ChunkExtent()
	assert.True(t, ok)
	assert.Equal(t, Vec3{16, 16, 16}, e)
}

func TestParseSeedEmptyStructures(t *testing.T) {
	s, err := ParseSeed(strings.NewReader("8x8\n\n4,4,2\n0x0\n"))
	require.NoError(t, err)
	assert.Empty(t, s.Structures)
	e, ok := s.ChunkExtent()
	assert.True(t, ok)
	assert.Equal(t, Vec3{4, 4, 2}, e)
}

func TestParseSeedMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"32x24\n\n16\n",
		"32\n\n16\n8x3\n",
		"32x24\ngarbage\n16\n8x3\n",
		"32x24\n(1)estructuraarbol\n16\n8x3\n",
		"32x24\n\nsixteen\n8x3\n",
		"32x24\n\n0\n8x3\n",
		"32x24\n\n16\n8by3\n",
	} {
		_, err := ParseSeed(strings.NewReader(in))
		assert.Equal(t, ErrBadSeed, errors.Cause(err), "%q", in)
	}
}

func TestSeedWriteParse(t *testing.T) {
	s := &Seed{
		Width:      40,
		Height:     30,
		Structures: []Placement{{1, 2, "tree"}, {30, 20, "rock"}},
		ChunkSizes: []int{8, 8, 16},
		CaveWidth:  6,
		CaveHeight: 2,
	}
	var sb strings.Builder
	_, err := s.WriteTo(&sb)
	require.NoError(t, err)
	parsed, err := ParseSeed(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, s, parsed)
}

func TestCreateDefaultWorld(t *testing.T) {
	s, err := ParseSeed(strings.NewReader(sampleSeed))
	require.NoError(t, err)
	reg := DefaultRegistry()
	w, err := CreateDefaultWorld(s, 16, reg)
	require.NoError(t, err)

	sx, sy, sz := w.Size()
	assert.Equal(t, []int{32, 24, 16}, []int{sx, sy, sz})
	// ground at depth/2
	assert.Equal(t, Grass, w.Block(0, 0, 7))
	assert.Equal(t, Stone, w.Block(0, 0, 0))
	// tree trunk on the ground
	assert.Equal(t, Wood, w.Block(4, 5, 8))
	assert.Equal(t, Leaves, w.Block(6, 7, 12))
	// house walls are brick, inside is hollow
	assert.Equal(t, Brick, w.Block(18, 10, 8))
	assert.Equal(t, Air, w.Block(20, 12, 8))
	// cave under the centre
	assert.Equal(t, Air, w.Block(16, 12, 2))
}

func TestCreateDefaultWorldErrors(t *testing.T) {
	reg := DefaultRegistry()
	_, err := CreateDefaultWorld(&Seed{Width: 8, Height: 8, Structures: []Placement{{1, 1, "castle"}}}, 8, reg)
	assert.Equal(t, ErrBadSeed, errors.Cause(err))

	_, err = CreateDefaultWorld(&Seed{Width: 8, Height: 8, Structures: []Placement{{9, 1, "tree"}}}, 8, reg)
	assert.Equal(t, ErrBadSeed, errors.Cause(err))

	_, err = CreateDefaultWorld(&Seed{Width: 0, Height: 8}, 8, reg)
	assert.Equal(t, ErrBadSeed, errors.Cause(err))
}
