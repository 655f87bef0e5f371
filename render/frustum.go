package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

func frustumPlanes(mat *mgl32.Mat4) [6]mgl32.Vec4 {
	r1, r2, r3, r4 := mat.Rows()
	return [6]mgl32.Vec4{
		r4.Add(r1), // left
		r4.Sub(r1), // right
		r4.Sub(r2), // top
		r4.Add(r2), // bottom
		r4.Add(r3), // near
		r4.Sub(r3), // far
	}
}

// isChunkVisible is false only when every corner of c lies outside one plane.
func isChunkVisible(planes [6]mgl32.Vec4, c *Chunk) bool {
	lo := mgl32.Vec3{float32(c.Start.X), float32(c.Start.Y), float32(c.Start.Z)}
	hi := mgl32.Vec3{float32(c.End.X), float32(c.End.Y), float32(c.End.Z)}
	points := [8]mgl32.Vec3{
		{lo.X(), lo.Y(), lo.Z()},
		{hi.X(), lo.Y(), lo.Z()},
		{hi.X(), hi.Y(), lo.Z()},
		{lo.X(), hi.Y(), lo.Z()},
		{lo.X(), lo.Y(), hi.Z()},
		{hi.X(), lo.Y(), hi.Z()},
		{hi.X(), hi.Y(), hi.Z()},
		{lo.X(), hi.Y(), hi.Z()},
	}
	for _, plane := range planes {
		in := 0
		for _, point := range points {
			if plane.Dot(point.Vec4(1)) >= 0 {
				in++
				break
			}
		}
		if in == 0 {
			return false
		}
	}
	return true
}
