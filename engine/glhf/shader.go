package glhf

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
	"github.com/memmaker/sdfterrain/engine/voxel"
	"github.com/pkg/errors"
)

// Shader is an OpenGL shader program.
type Shader struct {
	program    binder
	vertexFmt  AttrFormat
	uniformFmt AttrFormat
	uniformLoc []int32
}

// NewShader creates a new shader program from the specified vertex shader and fragment shader
// sources.
//
// Note that vertexShader and fragmentShader parameters must contain the source code, they're
// not filenames.
func NewShader(vertexFmt, uniformFmt AttrFormat, vertexShader, fragmentShader string) (*Shader, error) {
	shader := &Shader{
		program: binder{
			restoreLoc: gl.CURRENT_PROGRAM,
			bindFunc: func(obj uint32) {
				gl.UseProgram(obj)
			},
		},
		vertexFmt:  vertexFmt,
		uniformFmt: uniformFmt,
		uniformLoc: make([]int32, len(uniformFmt)),
	}

	vshader, err := compileShader(gl.VERTEX_SHADER, vertexShader)
	if err != nil {
		return nil, errors.Wrap(err, "error compiling vertex shader")
	}
	defer gl.DeleteShader(vshader)

	fshader, err := compileShader(gl.FRAGMENT_SHADER, fragmentShader)
	if err != nil {
		return nil, errors.Wrap(err, "error compiling fragment shader")
	}
	defer gl.DeleteShader(fshader)

	shader.program.obj = gl.CreateProgram()
	gl.AttachShader(shader.program.obj, vshader)
	gl.AttachShader(shader.program.obj, fshader)
	// vertex attributes live at their index in the vertex format
	for i, attr := range vertexFmt {
		gl.BindAttribLocation(shader.program.obj, uint32(i), gl.Str(attr.Name+"\x00"))
	}
	gl.LinkProgram(shader.program.obj)

	var success int32
	gl.GetProgramiv(shader.program.obj, gl.LINK_STATUS, &success)
	if success == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(shader.program.obj, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := make([]byte, logLen+1)
		gl.GetProgramInfoLog(shader.program.obj, logLen, nil, &infoLog[0])
		gl.DeleteProgram(shader.program.obj)
		return nil, errors.Errorf("error linking shader program: %s", strings.TrimRight(string(infoLog), "\x00"))
	}

	for i, uniform := range uniformFmt {
		loc := gl.GetUniformLocation(shader.program.obj, gl.Str(uniform.Name+"\x00"))
		if loc < 0 {
			util.LogGlDebug("uniform not used by shader", "name", uniform.Name)
		}
		shader.uniformLoc[i] = loc
	}
	return shader, nil
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	src, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(shader, 1, src, nil)
	gl.CompileShader(shader)

	var success int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &success)
	if success == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &infoLog[0])
		gl.DeleteShader(shader)
		return 0, errors.New(strings.TrimRight(string(infoLog), "\x00"))
	}
	return shader, nil
}

// Delete frees the program. It must run on the GL thread.
func (s *Shader) Delete() {
	gl.DeleteProgram(s.program.obj)
}

// ID returns the OpenGL ID of this Shader.
func (s *Shader) ID() uint32 {
	return s.program.obj
}

func (s *Shader) VertexFormat() AttrFormat {
	return s.vertexFmt
}

func (s *Shader) UniformFormat() AttrFormat {
	return s.uniformFmt
}

// SetUniformAttr sets the value of a uniform attribute of this Shader. The attribute is
// specified by the index in the Shader's uniform format.
//
// If the uniform attribute does not exist in the Shader, this method returns false.
//
// Supplied value must correspond to the type of the attribute. Correct types are these
// (right-hand is the type of the value):
//
//	Attr{Type: Int}:   int32
//	Attr{Type: UInt}:  uint32
//	Attr{Type: Float}: float32
//	Attr{Type: Vec2}:  mgl32.Vec2
//	Attr{Type: Vec3}:  mgl32.Vec3
//	Attr{Type: Vec4}:  mgl32.Vec4
//	Attr{Type: Mat4}:  mgl32.Mat4
//
// No other types are supported.
//
// The Shader must be bound before calling this method.
func (s *Shader) SetUniformAttr(uniform int, value any) bool {
	if s.uniformLoc[uniform] < 0 {
		return false
	}

	switch s.uniformFmt[uniform].Type {
	case Int:
		gl.Uniform1i(s.uniformLoc[uniform], value.(int32))
	case UInt:
		gl.Uniform1ui(s.uniformLoc[uniform], value.(uint32))
	case Float:
		gl.Uniform1f(s.uniformLoc[uniform], value.(float32))
	case Vec2:
		v := value.(mgl32.Vec2)
		gl.Uniform2fv(s.uniformLoc[uniform], 1, &v[0])
	case Vec3:
		v := value.(mgl32.Vec3)
		gl.Uniform3fv(s.uniformLoc[uniform], 1, &v[0])
	case Vec4:
		v := value.(mgl32.Vec4)
		gl.Uniform4fv(s.uniformLoc[uniform], 1, &v[0])
	case Mat4:
		m := value.(mgl32.Mat4)
		gl.UniformMatrix4fv(s.uniformLoc[uniform], 1, false, &m[0])
	default:
		panic(fmt.Sprintf("set uniform attr: invalid attribute type %d", s.uniformFmt[uniform].Type))
	}
	return true
}

// SetUniform sets a uniform by name. Names missing from the uniform format are ignored.
func (s *Shader) SetUniform(name string, value any) bool {
	for i, attr := range s.uniformFmt {
		if attr.Name == name {
			return s.SetUniformAttr(i, value)
		}
	}
	return false
}

// Begin binds the Shader program. This is necessary before using the Shader.
func (s *Shader) Begin() {
	s.program.bind()
}

// End unbinds the Shader program and restores the previous one.
func (s *Shader) End() {
	s.program.restore()
}

// TerrainShader adapts a Shader to the terrain renderer, which passes uniforms by name.
type TerrainShader struct {
	*Shader
}

var _ voxel.Shader = TerrainShader{}

func (t TerrainShader) Begin(uniforms voxel.Uniforms) {
	t.Shader.Begin()
	for name, value := range uniforms {
		t.Shader.SetUniform(name, value)
	}
}

func (t TerrainShader) End() {
	t.Shader.End()
}
