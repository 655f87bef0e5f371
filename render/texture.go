package render

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/humboldt-xie/blockworld/world"
	"github.com/pkg/errors"
)

var ErrAtlasFull = errors.New("texture atlas full")

func LoadImage(fname string) (*image.NRGBA, error) {
	img, err := imaging.Open(fname)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

// Atlas packs square face images into a world.AtlasTiles x world.AtlasTiles
// grid, left to right then top to bottom. Reserved tiles, the player skin
// among them, are never handed out.
type Atlas struct {
	img      *image.NRGBA
	tile     int
	next     int
	tiles    map[string]world.Tile
	reserved map[world.Tile]bool
}

func NewAtlas(tileSize int) *Atlas {
	n := tileSize * world.AtlasTiles
	a := &Atlas{
		img:      imaging.New(n, n, image.Transparent),
		tile:     tileSize,
		tiles:    make(map[string]world.Tile),
		reserved: make(map[world.Tile]bool),
	}
	for _, t := range DefaultSkin.Tiles() {
		a.Reserve(t)
	}
	return a
}

// Reserve keeps t out of AddImage.
func (a *Atlas) Reserve(t world.Tile) {
	a.reserved[t] = true
}

// Add loads path into the next free tile. Adding the same path twice
// returns the first tile.
func (a *Atlas) Add(path string) (world.Tile, error) {
	if t, ok := a.tiles[path]; ok {
		return t, nil
	}
	img, err := LoadImage(path)
	if err != nil {
		return world.Tile{}, errors.Wrapf(err, "atlas image %s", path)
	}
	return a.AddImage(path, img)
}

// AddImage resizes img to one tile and stores it under key.
func (a *Atlas) AddImage(key string, img image.Image) (world.Tile, error) {
	if t, ok := a.tiles[key]; ok {
		return t, nil
	}
	var t world.Tile
	for {
		if a.next >= world.AtlasTiles*world.AtlasTiles {
			return world.Tile{}, errors.Wrapf(ErrAtlasFull, "adding %s", key)
		}
		t = world.Tile{Col: a.next % world.AtlasTiles, Row: a.next / world.AtlasTiles}
		a.next++
		if !a.reserved[t] {
			break
		}
	}
	rs := imaging.Resize(img, a.tile, a.tile, imaging.Lanczos)
	a.img = imaging.Paste(a.img, rs, image.Pt(t.Col*a.tile, t.Row*a.tile))
	a.tiles[key] = t
	return t, nil
}

// Set places img on a fixed tile, for skins and other reserved cells.
func (a *Atlas) Set(t world.Tile, img image.Image) {
	rs := imaging.Resize(img, a.tile, a.tile, imaging.Lanczos)
	a.img = imaging.Paste(a.img, rs, image.Pt(t.Col*a.tile, t.Row*a.tile))
}

// Len is the number of images added.
func (a *Atlas) Len() int {
	return len(a.tiles)
}

func (a *Atlas) Image() *image.NRGBA {
	return a.img
}

func (a *Atlas) Save(path string) error {
	return imaging.Save(a.img, path)
}
