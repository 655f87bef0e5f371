package world

import "fmt"

type Vec3 struct {
	X, Y, Z int
}

func (v Vec3) Left() Vec3 {
	return Vec3{v.X - 1, v.Y, v.Z}
}
func (v Vec3) Right() Vec3 {
	return Vec3{v.X + 1, v.Y, v.Z}
}
func (v Vec3) Front() Vec3 {
	return Vec3{v.X, v.Y - 1, v.Z}
}
func (v Vec3) Back() Vec3 {
	return Vec3{v.X, v.Y + 1, v.Z}
}

// z is the vertical axis
func (v Vec3) Up() Vec3 {
	return Vec3{v.X, v.Y, v.Z + 1}
}
func (v Vec3) Down() Vec3 {
	return Vec3{v.X, v.Y, v.Z - 1}
}

type BlockID uint8

const Air BlockID = 0

// MaxBlockID is the largest id the network encoding can carry.
const MaxBlockID = BlockID('~' - symbolBase)

// Face indexes into BlockType.Faces.
type Face int

const (
	FaceTop Face = iota
	FaceBottom
	FaceFront
	FaceBack
	FaceLeft
	FaceRight
)

// AtlasTiles is the number of tiles per row and column of the texture atlas.
const AtlasTiles = 16

// Tile is a cell of the texture atlas.
type Tile struct {
	Col, Row int
}

// UV returns the normalized atlas rectangle of the tile.
func (t Tile) UV() (u0, v0, u1, v1 float32) {
	const s = float32(1) / AtlasTiles
	return float32(t.Col) * s, float32(t.Row) * s, float32(t.Col+1) * s, float32(t.Row+1) * s
}

type BlockType struct {
	ID          BlockID
	Name        string
	Transparent bool
	Obstacle    bool
	Faces       [6]Tile
}

// Solid reports whether the block hides the faces of its neighbours.
func (t *BlockType) Solid() bool {
	return !t.Transparent
}

func uniform(t Tile) [6]Tile {
	return [6]Tile{t, t, t, t, t, t}
}

// Registry maps block ids to their static properties. It is not modified
// after loading.
type Registry struct {
	types  map[BlockID]*BlockType
	byName map[string]BlockID
}

var airType = BlockType{ID: Air, Name: "air", Transparent: true}

func NewRegistry(types ...BlockType) (*Registry, error) {
	r := &Registry{
		types:  make(map[BlockID]*BlockType),
		byName: make(map[string]BlockID),
	}
	air := airType
	r.types[Air] = &air
	r.byName[air.Name] = Air
	for i := range types {
		t := types[i]
		if t.ID > MaxBlockID {
			return nil, fmt.Errorf("block %q: id %d out of range", t.Name, t.ID)
		}
		if t.ID == Air {
			// air is always transparent
			t.Transparent = true
			t.Obstacle = false
		}
		r.types[t.ID] = &t
		if t.Name != "" {
			r.byName[t.Name] = t.ID
		}
	}
	return r, nil
}

const (
	Dirt   BlockID = 1
	Stone  BlockID = 2
	Grass  BlockID = 3
	Sand   BlockID = 4
	Wood   BlockID = 5
	Leaves BlockID = 6
	Water  BlockID = 7
	Glass  BlockID = 8
	Brick  BlockID = 9
)

func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		BlockType{ID: Dirt, Name: "dirt", Obstacle: true, Faces: uniform(Tile{2, 0})},
		BlockType{ID: Stone, Name: "stone", Obstacle: true, Faces: uniform(Tile{1, 0})},
		BlockType{ID: Grass, Name: "grass", Obstacle: true, Faces: [6]Tile{{0, 0}, {2, 0}, {3, 0}, {3, 0}, {3, 0}, {3, 0}}},
		BlockType{ID: Sand, Name: "sand", Obstacle: true, Faces: uniform(Tile{2, 1})},
		BlockType{ID: Wood, Name: "wood", Obstacle: true, Faces: [6]Tile{{5, 1}, {5, 1}, {4, 1}, {4, 1}, {4, 1}, {4, 1}}},
		BlockType{ID: Leaves, Name: "leaves", Obstacle: true, Transparent: true, Faces: uniform(Tile{4, 3})},
		BlockType{ID: Water, Name: "water", Transparent: true, Faces: uniform(Tile{13, 12})},
		BlockType{ID: Glass, Name: "glass", Obstacle: true, Transparent: true, Faces: uniform(Tile{1, 3})},
		BlockType{ID: Brick, Name: "brick", Obstacle: true, Faces: uniform(Tile{7, 0})},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Type returns the properties of id. Unknown ids resolve to air.
func (r *Registry) Type(id BlockID) *BlockType {
	if t, ok := r.types[id]; ok {
		return t
	}
	return r.types[Air]
}

func (r *Registry) Has(id BlockID) bool {
	_, ok := r.types[id]
	return ok
}

func (r *Registry) Solid(id BlockID) bool {
	return r.Type(id).Solid()
}

func (r *Registry) Lookup(name string) (BlockID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Len returns the number of registered types, air included.
func (r *Registry) Len() int {
	return len(r.types)
}
