package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraState caches the projection and view matrices and recomputes them
// only when their inputs change.
type CameraState struct {
	fov, near, far float32 // fov in degrees
	width, height  int

	pos, ang mgl32.Vec3 // ang is pitch, yaw, roll

	proj, view           mgl32.Mat4
	projValid, viewValid bool
	projUpdates          int
	viewUpdates          int
}

func NewCameraState() *CameraState {
	return &CameraState{
		width:  1,
		height: 1,
		proj:   mgl32.Ident4(),
		view:   mgl32.Ident4(),
	}
}

// SetPerspective reports whether the projection was recomputed.
func (c *CameraState) SetPerspective(fov, near, far float32) bool {
	if c.projValid && c.fov == fov && c.near == near && c.far == far {
		return false
	}
	c.fov, c.near, c.far = fov, near, far
	c.updateProjection()
	return true
}

// SetViewport changes the aspect ratio. It reports whether the projection
// was recomputed.
func (c *CameraState) SetViewport(width, height int) bool {
	if width <= 0 || height <= 0 || (c.width == width && c.height == height) {
		return false
	}
	c.width, c.height = width, height
	if !c.projValid {
		return false
	}
	c.updateProjection()
	return true
}

func (c *CameraState) updateProjection() {
	aspect := float32(c.width) / float32(c.height)
	c.proj = mgl32.Perspective(mgl32.DegToRad(c.fov), aspect, c.near, c.far)
	c.projValid = true
	c.projUpdates++
}

// SetCamera reports whether the view was recomputed.
func (c *CameraState) SetCamera(pos, ang mgl32.Vec3) bool {
	if c.viewValid && c.pos == pos && c.ang == ang {
		return false
	}
	c.pos, c.ang = pos, ang
	c.view = ViewMatrix(pos, ang)
	c.viewValid = true
	c.viewUpdates++
	return true
}

// ViewMatrix looks from pos with pitch, yaw and roll in ang. Pitch 0 looks
// along the horizon of a z up world.
func ViewMatrix(pos, ang mgl32.Vec3) mgl32.Mat4 {
	m := mgl32.HomogRotate3DX(-ang[0] - math.Pi/2)
	m = m.Mul4(mgl32.HomogRotate3DZ(ang[1]))
	m = m.Mul4(mgl32.HomogRotate3DY(-ang[2]))
	return m.Mul4(mgl32.Translate3D(-pos[0], -pos[1], -pos[2]))
}

func (c *CameraState) Projection() mgl32.Mat4 {
	return c.proj
}

func (c *CameraState) View() mgl32.Mat4 {
	return c.view
}

func (c *CameraState) Position() mgl32.Vec3 {
	return c.pos
}

func (c *CameraState) Angles() mgl32.Vec3 {
	return c.ang
}

func (c *CameraState) ProjectionUpdates() int {
	return c.projUpdates
}

func (c *CameraState) ViewUpdates() int {
	return c.viewUpdates
}
