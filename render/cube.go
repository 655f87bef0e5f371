package render

import (
	"github.com/humboldt-xie/blockworld/world"
)

// VertexSize is the number of floats per vertex: position 3, texcoord 2, rgba 4.
const VertexSize = 9

// FaceVertices is the number of vertices emitted per visible face.
const FaceVertices = 6

// corner offsets of every face, counter clockwise seen from outside. z is up.
var faceCorners = [6][4][3]float32{
	world.FaceTop:    {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	world.FaceBottom: {{0, 1, 0}, {1, 1, 0}, {1, 0, 0}, {0, 0, 0}},
	world.FaceFront:  {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	world.FaceBack:   {{1, 1, 0}, {0, 1, 0}, {0, 1, 1}, {1, 1, 1}},
	world.FaceLeft:   {{0, 1, 0}, {0, 0, 0}, {0, 0, 1}, {0, 1, 1}},
	world.FaceRight:  {{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
}

// neighbour direction of every face
var faceNormals = [6]Vec3{
	world.FaceTop:    {0, 0, 1},
	world.FaceBottom: {0, 0, -1},
	world.FaceFront:  {0, -1, 0},
	world.FaceBack:   {0, 1, 0},
	world.FaceLeft:   {-1, 0, 0},
	world.FaceRight:  {1, 0, 0},
}

var faceShade = [6]float32{
	world.FaceTop:    1.0,
	world.FaceBottom: 0.5,
	world.FaceFront:  0.8,
	world.FaceBack:   0.8,
	world.FaceLeft:   0.7,
	world.FaceRight:  0.7,
}

// two triangles per quad
var quadOrder = [FaceVertices]int{0, 1, 2, 2, 3, 0}

// FaceFilter selects the faces to emit, indexed by world.Face.
type FaceFilter [6]bool

var AllFaces = FaceFilter{true, true, true, true, true, true}

// makeCubeData appends the faces of the unit cube at x,y,z selected by show.
func makeCubeData(vertices []float32, t *world.BlockType, show FaceFilter, x, y, z int, light float32) []float32 {
	px, py, pz := float32(x), float32(y), float32(z)
	for face := range faceCorners {
		if !show[face] {
			continue
		}
		u0, v0, u1, v1 := t.Faces[face].UV()
		uv := [4][2]float32{{u0, v1}, {u1, v1}, {u1, v0}, {u0, v0}}
		c := faceShade[face] * light
		for _, i := range quadOrder {
			p := faceCorners[face][i]
			vertices = append(vertices,
				px+p[0], py+p[1], pz+p[2],
				uv[i][0], uv[i][1],
				c, c, c, 1,
			)
		}
	}
	return vertices
}

// makeBoxData appends a box from min to max. Every face samples tile.
func makeBoxData(vertices []float32, min, max [3]float32, tile world.Tile) []float32 {
	u0, v0, u1, v1 := tile.UV()
	uv := [4][2]float32{{u0, v1}, {u1, v1}, {u1, v0}, {u0, v0}}
	for face := range faceCorners {
		c := faceShade[face]
		for _, i := range quadOrder {
			p := faceCorners[face][i]
			vertices = append(vertices,
				min[0]+p[0]*(max[0]-min[0]),
				min[1]+p[1]*(max[1]-min[1]),
				min[2]+p[2]*(max[2]-min[2]),
				uv[i][0], uv[i][1],
				c, c, c, 1,
			)
		}
	}
	return vertices
}
