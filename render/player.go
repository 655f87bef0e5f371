package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/humboldt-xie/blockworld/world"
)

// PlayerSkin picks the atlas tiles the humanoid model samples.
type PlayerSkin struct {
	Head, Body, Arm, Leg world.Tile
}

var DefaultSkin = PlayerSkin{
	Head: world.Tile{Col: 8, Row: 15},
	Body: world.Tile{Col: 9, Row: 15},
	Arm:  world.Tile{Col: 10, Row: 15},
	Leg:  world.Tile{Col: 11, Row: 15},
}

func (s PlayerSkin) Tiles() []world.Tile {
	return []world.Tile{s.Head, s.Body, s.Arm, s.Leg}
}

type box struct {
	min, max [3]float32
}

// humanoid parts, feet at the origin, z up
var (
	headBox  = box{[3]float32{-0.25, -0.25, 1.45}, [3]float32{0.25, 0.25, 1.95}}
	torsoBox = box{[3]float32{-0.30, -0.125, 0.73}, [3]float32{0.30, 0.125, 1.45}}
	armBoxes = [2]box{
		{[3]float32{-0.50, -0.125, 0.73}, [3]float32{-0.30, 0.125, 1.45}},
		{[3]float32{0.30, -0.125, 0.73}, [3]float32{0.50, 0.125, 1.45}},
	}
	legBoxes = [2]box{
		{[3]float32{-0.30, -0.125, 0}, [3]float32{-0.01, 0.125, 0.73}},
		{[3]float32{0.01, -0.125, 0}, [3]float32{0.30, 0.125, 0.73}},
	}
)

// PlayerModel is the static humanoid mesh, built once.
type PlayerModel struct {
	Head *Buffer
	Body *Buffer
}

// PlayerMeshes returns the head and body vertex streams.
func PlayerMeshes(skin PlayerSkin) (head, body []float32) {
	head = makeBoxData(nil, headBox.min, headBox.max, skin.Head)
	body = makeBoxData(nil, torsoBox.min, torsoBox.max, skin.Body)
	for _, b := range armBoxes {
		body = makeBoxData(body, b.min, b.max, skin.Arm)
	}
	for _, b := range legBoxes {
		body = makeBoxData(body, b.min, b.max, skin.Leg)
	}
	return head, body
}

func NewPlayerModel(dev Device, skin PlayerSkin) (*PlayerModel, error) {
	headData, bodyData := PlayerMeshes(skin)
	head, err := NewBuffer(dev, headData)
	if err != nil {
		return nil, err
	}
	body, err := NewBuffer(dev, bodyData)
	if err != nil {
		head.Release()
		return nil, err
	}
	return &PlayerModel{Head: head, Body: body}, nil
}

func (m *PlayerModel) Draw() {
	m.Head.Draw()
	m.Body.Draw()
}

func (m *PlayerModel) Release() {
	m.Head.Release()
	m.Body.Release()
}

// PlayerMatrix places a model at pos, rotated by rot[0] about x and then
// rot[1] about y.
func PlayerMatrix(pos, rot mgl32.Vec3) mgl32.Mat4 {
	m := mgl32.Translate3D(pos[0], pos[1], pos[2])
	m = m.Mul4(mgl32.HomogRotate3DX(rot[0]))
	return m.Mul4(mgl32.HomogRotate3DY(rot[1]))
}
