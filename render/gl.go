package render

import (
	"image"
	"unsafe"

	"github.com/faiface/glhf"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var ErrNoProgram = errors.New("no shader program loaded")

// VertexFormat matches the float layout produced by the mesh builder.
var VertexFormat = glhf.AttrFormat{
	glhf.Attr{Name: "aPos", Type: glhf.Vec3},
	glhf.Attr{Name: "aTexCoord", Type: glhf.Vec2},
	glhf.Attr{Name: "aColor", Type: glhf.Vec4},
}

var UniformFormat = glhf.AttrFormat{
	glhf.Attr{Name: UniformProjection, Type: glhf.Mat4},
	glhf.Attr{Name: UniformView, Type: glhf.Mat4},
	glhf.Attr{Name: UniformModel, Type: glhf.Mat4},
}

// GLDevice draws with OpenGL 3.3. It must be created and used on the thread
// that owns the context.
type GLDevice struct {
	shader  *glhf.Shader
	texture *glhf.Texture
	atlas   *image.NRGBA

	vaos     map[BufferID]uint32
	uniforms map[string]int
}

// NewGLDevice samples every face from atlas once a program is loaded.
func NewGLDevice(atlas *image.NRGBA) *GLDevice {
	d := &GLDevice{
		atlas:    atlas,
		vaos:     make(map[BufferID]uint32),
		uniforms: make(map[string]int),
	}
	for i, attr := range UniformFormat {
		d.uniforms[attr.Name] = i
	}
	return d
}

func (d *GLDevice) LoadProgram(vertexSource, fragmentSource string) error {
	shader, err := glhf.NewShader(VertexFormat, UniformFormat, vertexSource, fragmentSource)
	if err != nil {
		return errors.Wrap(err, "load program")
	}
	d.shader = shader
	if d.atlas != nil && d.texture == nil {
		rect := d.atlas.Bounds()
		d.texture = glhf.NewTexture(rect.Dx(), rect.Dy(), false, d.atlas.Pix)
	}
	return nil
}

func (d *GLDevice) NewBuffer(data []float32) (BufferID, error) {
	if d.shader == nil {
		return 0, ErrNoProgram
	}
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, ptr(data), gl.STATIC_DRAW)

	offset := 0
	stride := int32(d.shader.VertexFormat().Size())
	for _, attr := range d.shader.VertexFormat() {
		loc := gl.GetAttribLocation(d.shader.ID(), gl.Str(attr.Name+"\x00"))
		var size int32
		switch attr.Type {
		case glhf.Float:
			size = 1
		case glhf.Vec2:
			size = 2
		case glhf.Vec3:
			size = 3
		case glhf.Vec4:
			size = 4
		}
		if loc >= 0 {
			gl.VertexAttribPointer(uint32(loc), size, gl.FLOAT, false, stride, gl.PtrOffset(offset))
			gl.EnableVertexAttribArray(uint32(loc))
		}
		offset += attr.Type.Size()
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if e := gl.GetError(); e != gl.NO_ERROR {
		gl.DeleteVertexArrays(1, &vao)
		gl.DeleteBuffers(1, &vbo)
		return 0, errors.Errorf("gl error 0x%x allocating %d floats", e, len(data))
	}

	id := BufferID(vbo)
	d.vaos[id] = vao
	return id, nil
}

func (d *GLDevice) UpdateBuffer(id BufferID, data []float32) error {
	if _, ok := d.vaos[id]; !ok {
		return errors.Errorf("unknown buffer %d", id)
	}
	if len(data) == 0 {
		return nil
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(id))
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(data))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if e := gl.GetError(); e != gl.NO_ERROR {
		return errors.Errorf("gl error 0x%x updating buffer %d", e, id)
	}
	return nil
}

func (d *GLDevice) DeleteBuffer(id BufferID) {
	vao, ok := d.vaos[id]
	if !ok {
		return
	}
	vbo := uint32(id)
	gl.DeleteVertexArrays(1, &vao)
	gl.DeleteBuffers(1, &vbo)
	delete(d.vaos, id)
}

func (d *GLDevice) DrawTriangles(id BufferID, vertices int) {
	vao, ok := d.vaos[id]
	if !ok || d.shader == nil {
		return
	}
	d.shader.Begin()
	if d.texture != nil {
		d.texture.Begin()
	}
	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(vertices))
	gl.BindVertexArray(0)
	if d.texture != nil {
		d.texture.End()
	}
	d.shader.End()
}

func (d *GLDevice) SetUniform(name string, m mgl32.Mat4) {
	i, ok := d.uniforms[name]
	if !ok || d.shader == nil {
		return
	}
	d.shader.Begin()
	d.shader.SetUniformAttr(i, m)
	d.shader.End()
}

// Clear resets the color and depth buffers for a new frame.
func (d *GLDevice) Clear(r, g, b float32) {
	gl.ClearColor(r, g, b, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func ptr(data []float32) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}
