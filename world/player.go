package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Player is the replicated state of a connected player. The world only
// stores it; movement is driven elsewhere.
type Player struct {
	ID  int32
	Pos mgl32.Vec3
	// Pitch and yaw in radians. Roll is unused for players.
	Pitch, Yaw float32
}

func NewPlayer(id int32, pos mgl32.Vec3) *Player {
	return &Player{ID: id, Pos: pos}
}

// Front is the horizontal facing direction.
func (p *Player) Front() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Sin(float64(p.Yaw))),
		float32(math.Cos(float64(p.Yaw))),
		0,
	}
}

// Rotation returns pitch, yaw, roll.
func (p *Player) Rotation() mgl32.Vec3 {
	return mgl32.Vec3{p.Pitch, p.Yaw, 0}
}

func (w *World) AddPlayer(p *Player) {
	w.Players[p.ID] = p
}

func (w *World) RemovePlayer(id int32) {
	delete(w.Players, id)
}
