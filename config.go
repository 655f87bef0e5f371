package main

import (
	"image/color"
	"io/ioutil"
	"log"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/humboldt-xie/blockworld/render"
	"github.com/humboldt-xie/blockworld/world"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type TextureConfig struct {
	Default string `yaml:"default"`
	Left    string `yaml:"left"`
	Right   string `yaml:"right"`
	Top     string `yaml:"top"`
	Bottom  string `yaml:"bottom"`
	Front   string `yaml:"front"`
	Back    string `yaml:"back"`
}

// Faces loads every face image into the atlas, in world.Face order.
func (t *TextureConfig) Faces(atlas *render.Atlas, dir string) ([6]world.Tile, error) {
	var faces [6]world.Tile
	paths := [6]string{
		world.FaceTop:    t.Top,
		world.FaceBottom: t.Bottom,
		world.FaceFront:  t.Front,
		world.FaceBack:   t.Back,
		world.FaceLeft:   t.Left,
		world.FaceRight:  t.Right,
	}
	for i, p := range paths {
		if p == "" {
			p = t.Default
		}
		if p == "" {
			return faces, errors.Errorf("face %d has no texture", i)
		}
		tile, err := atlas.Add(filepath.Join(dir, p))
		if err != nil {
			return faces, err
		}
		faces[i] = tile
	}
	return faces, nil
}

type ItemConfig struct {
	Id            int           `yaml:"id"`
	Name          string        `yaml:"name"`
	IsObstacle    bool          `yaml:"is_obstacle"`
	IsTransparent bool          `yaml:"is_transparent"`
	Texture       TextureConfig `yaml:"texture"`
}

type SkinConfig struct {
	Head string `yaml:"head"`
	Body string `yaml:"body"`
	Arm  string `yaml:"arm"`
	Leg  string `yaml:"leg"`
}

type Config struct {
	TileSize int          `yaml:"tile_size"`
	Items    []ItemConfig `yaml:"items"`
	Skin     SkinConfig   `yaml:"skin"`
}

const defaultTileSize = 32

// InitConfig reads the block config at file and builds the registry and
// texture atlas from it. Texture paths are relative to the config file. An
// empty file selects the built in blocks with flat colored tiles.
func InitConfig(file string) (*world.Registry, *render.Atlas, error) {
	if file == "" {
		reg := world.DefaultRegistry()
		return reg, defaultAtlas(reg), nil
	}
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}
	config := Config{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, nil, errors.Wrapf(err, "parse %s", file)
	}
	if config.TileSize <= 0 {
		config.TileSize = defaultTileSize
	}
	dir := filepath.Dir(file)
	atlas := render.NewAtlas(config.TileSize)

	var types []world.BlockType
	for _, item := range config.Items {
		if item.Id <= 0 || item.Id > int(world.MaxBlockID) {
			return nil, nil, errors.Errorf("block %q: bad id %d", item.Name, item.Id)
		}
		faces, err := item.Texture.Faces(atlas, dir)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "block %q", item.Name)
		}
		types = append(types, world.BlockType{
			ID:          world.BlockID(item.Id),
			Name:        item.Name,
			Obstacle:    item.IsObstacle,
			Transparent: item.IsTransparent,
			Faces:       faces,
		})
		log.Printf("add item %d %s %v", item.Id, item.Name, faces)
	}
	reg, err := world.NewRegistry(types...)
	if err != nil {
		return nil, nil, err
	}
	if err := loadSkin(atlas, dir, config.Skin); err != nil {
		return nil, nil, err
	}
	return reg, atlas, nil
}

func loadSkin(atlas *render.Atlas, dir string, skin SkinConfig) error {
	parts := []struct {
		path string
		tile world.Tile
	}{
		{skin.Head, render.DefaultSkin.Head},
		{skin.Body, render.DefaultSkin.Body},
		{skin.Arm, render.DefaultSkin.Arm},
		{skin.Leg, render.DefaultSkin.Leg},
	}
	for _, p := range parts {
		if p.path == "" {
			continue
		}
		img, err := render.LoadImage(filepath.Join(dir, p.path))
		if err != nil {
			return errors.Wrap(err, "player skin")
		}
		atlas.Set(p.tile, img)
	}
	return nil
}

var defaultColors = map[string]color.NRGBA{
	"dirt":   {134, 96, 67, 255},
	"stone":  {125, 125, 125, 255},
	"grass":  {95, 159, 53, 255},
	"sand":   {219, 211, 160, 255},
	"wood":   {102, 81, 51, 255},
	"leaves": {60, 120, 40, 200},
	"water":  {47, 67, 244, 160},
	"glass":  {200, 230, 240, 90},
	"brick":  {150, 74, 58, 255},
}

// defaultAtlas paints the tiles used by reg with the color of the lowest
// block id using them.
func defaultAtlas(reg *world.Registry) *render.Atlas {
	atlas := render.NewAtlas(defaultTileSize)
	painted := make(map[world.Tile]bool)
	for id := world.BlockID(1); id <= world.MaxBlockID; id++ {
		if !reg.Has(id) {
			continue
		}
		bt := reg.Type(id)
		c, ok := defaultColors[bt.Name]
		if !ok {
			continue
		}
		tile := imaging.New(defaultTileSize, defaultTileSize, c)
		for _, t := range bt.Faces {
			if !painted[t] {
				atlas.Set(t, tile)
				painted[t] = true
			}
		}
	}
	skin := imaging.New(defaultTileSize, defaultTileSize, color.NRGBA{230, 180, 140, 255})
	for _, t := range render.DefaultSkin.Tiles() {
		atlas.Set(t, skin)
	}
	return atlas
}
