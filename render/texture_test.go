package render

import (
	"fmt"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/humboldt-xie/blockworld/world"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{255, 0, 0, 255}

func TestAtlasAssignsTiles(t *testing.T) {
	a := NewAtlas(2)
	assert.Equal(t, 2*world.AtlasTiles, a.Image().Bounds().Dx())

	tile, err := a.AddImage("red", imaging.New(8, 8, red))
	require.NoError(t, err)
	assert.Equal(t, world.Tile{Col: 0, Row: 0}, tile)

	tile, err = a.AddImage("red", imaging.New(8, 8, color.White))
	require.NoError(t, err)
	assert.Equal(t, world.Tile{Col: 0, Row: 0}, tile)

	tile, err = a.AddImage("blue", imaging.New(8, 8, color.NRGBA{0, 0, 255, 255}))
	require.NoError(t, err)
	assert.Equal(t, world.Tile{Col: 1, Row: 0}, tile)
	assert.Equal(t, 2, a.Len())

	px := a.Image().NRGBAAt(1, 1)
	assert.InDelta(t, 255, px.R, 1)
	px = a.Image().NRGBAAt(3, 1)
	assert.InDelta(t, 255, px.B, 1)
	assert.InDelta(t, 0, px.R, 1)
}

func TestAtlasFull(t *testing.T) {
	a := NewAtlas(1)
	skin := make(map[world.Tile]bool)
	for _, tile := range DefaultSkin.Tiles() {
		skin[tile] = true
	}
	free := world.AtlasTiles*world.AtlasTiles - len(skin)
	for i := 0; i < free; i++ {
		tile, err := a.AddImage(fmt.Sprint(i), imaging.New(1, 1, red))
		require.NoError(t, err)
		assert.False(t, skin[tile], "skin tile %v handed out", tile)
	}
	assert.Equal(t, free, a.Len())
	_, err := a.AddImage("one more", imaging.New(1, 1, red))
	assert.Equal(t, ErrAtlasFull, errors.Cause(err))
}

func TestAtlasReserve(t *testing.T) {
	a := NewAtlas(1)
	a.Reserve(world.Tile{Col: 1, Row: 0})
	a.AddImage("a", imaging.New(1, 1, red))
	tile, err := a.AddImage("b", imaging.New(1, 1, red))
	require.NoError(t, err)
	assert.Equal(t, world.Tile{Col: 2, Row: 0}, tile)
}

func TestAtlasFiles(t *testing.T) {
	dir := t.TempDir()
	face := filepath.Join(dir, "face.png")
	require.NoError(t, imaging.Save(imaging.New(16, 16, red), face))

	a := NewAtlas(4)
	a.Set(world.Tile{Col: 3, Row: 15}, imaging.New(4, 4, color.White))
	tile, err := a.Add(face)
	require.NoError(t, err)
	assert.Equal(t, world.Tile{}, tile)

	_, err = a.Add(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	out := filepath.Join(dir, "atlas.png")
	require.NoError(t, a.Save(out))
	img, err := LoadImage(out)
	require.NoError(t, err)
	assert.Equal(t, 4*world.AtlasTiles, img.Bounds().Dx())
	assert.Equal(t, uint8(255), img.NRGBAAt(3*4+1, 15*4+1).G)
}

func TestPlayerMeshes(t *testing.T) {
	head, body := PlayerMeshes(DefaultSkin)
	assert.Len(t, head, 6*FaceVertices*VertexSize)
	assert.Len(t, body, 5*6*FaceVertices*VertexSize)

	// feet on the ground, head on top
	minZ, maxZ := float32(10), float32(-10)
	for _, data := range [][]float32{head, body} {
		for i := 0; i < len(data); i += VertexSize {
			z := data[i+2]
			if z < minZ {
				minZ = z
			}
			if z > maxZ {
				maxZ = z
			}
		}
	}
	assert.Equal(t, float32(0), minZ)
	assert.InDelta(t, 1.95, maxZ, 1e-6)
}
