package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCameraPerspectiveCached(t *testing.T) {
	c := NewCameraState()
	assert.True(t, c.SetPerspective(70, 0.1, 100))
	assert.False(t, c.SetPerspective(70, 0.1, 100))
	assert.Equal(t, 1, c.ProjectionUpdates())

	assert.True(t, c.SetPerspective(60, 0.1, 100))
	assert.Equal(t, 2, c.ProjectionUpdates())
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100), c.Projection())

	assert.True(t, c.SetViewport(800, 400))
	assert.False(t, c.SetViewport(800, 400))
	assert.False(t, c.SetViewport(0, 400))
	assert.Equal(t, 3, c.ProjectionUpdates())
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(60), 2, 0.1, 100), c.Projection())
}

func TestCameraViewportBeforePerspective(t *testing.T) {
	c := NewCameraState()
	assert.False(t, c.SetViewport(800, 400))
	assert.Zero(t, c.ProjectionUpdates())

	c.SetPerspective(90, 1, 10)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(90), 2, 1, 10), c.Projection())
}

func TestCameraViewCached(t *testing.T) {
	c := NewCameraState()
	pos := mgl32.Vec3{1, 2, 3}
	ang := mgl32.Vec3{0.1, 0.2, 0}
	assert.True(t, c.SetCamera(pos, ang))
	assert.False(t, c.SetCamera(pos, ang))
	assert.Equal(t, 1, c.ViewUpdates())
	assert.Equal(t, ViewMatrix(pos, ang), c.View())

	assert.True(t, c.SetCamera(pos, mgl32.Vec3{0.1, 0.3, 0}))
	assert.Equal(t, 2, c.ViewUpdates())
	assert.Equal(t, pos, c.Position())
	assert.Equal(t, mgl32.Vec3{0.1, 0.3, 0}, c.Angles())
}

func TestViewMatrixLooksAlongYaw(t *testing.T) {
	pos := mgl32.Vec3{5, 5, 5}
	for _, yaw := range []float32{0, math.Pi / 2, 1} {
		view := ViewMatrix(pos, mgl32.Vec3{0, yaw, 0})
		dir := mgl32.Vec3{float32(math.Sin(float64(yaw))), float32(math.Cos(float64(yaw))), 0}
		p := view.Mul4x1(pos.Add(dir).Vec4(1))
		// one unit straight ahead, on the negative z axis of the eye
		assert.InDelta(t, 0, p.X(), 1e-5)
		assert.InDelta(t, 0, p.Y(), 1e-5)
		assert.InDelta(t, -1, p.Z(), 1e-5)
	}

	// pitch up looks at +z
	view := ViewMatrix(pos, mgl32.Vec3{math.Pi / 2, 0, 0})
	p := view.Mul4x1(pos.Add(mgl32.Vec3{0, 0, 1}).Vec4(1))
	assert.InDelta(t, -1, p.Z(), 1e-5)
}
