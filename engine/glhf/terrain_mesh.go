package glhf

import (
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/memmaker/sdfterrain/engine/util"
	"github.com/memmaker/sdfterrain/engine/voxel"
)

// TerrainMesh keeps one chunk's geometry in a vertex array with an index buffer.
// Attribute i of voxel.VertexLayout is bound to location i, matching the terrain shader.
// All methods must run on the GL thread.
type TerrainMesh struct {
	vao, vbo, ibo binder
	indexCount    int32
	vertexCap     int
	indexCap      int
	released      bool
}

var _ voxel.RenderMesh = (*TerrainMesh)(nil)

// NewTerrainMesh matches voxel.MeshFactory.
func NewTerrainMesh() voxel.RenderMesh {
	m := &TerrainMesh{
		vao: binder{
			restoreLoc: gl.VERTEX_ARRAY_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindVertexArray(obj)
			},
		},
		vbo: binder{
			restoreLoc: gl.ARRAY_BUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindBuffer(gl.ARRAY_BUFFER, obj)
			},
		},
		ibo: binder{
			restoreLoc: gl.ELEMENT_ARRAY_BUFFER_BINDING,
			bindFunc: func(obj uint32) {
				gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, obj)
			},
		},
	}

	gl.GenVertexArrays(1, &m.vao.obj)
	gl.GenBuffers(1, &m.vbo.obj)
	gl.GenBuffers(1, &m.ibo.obj)

	m.vao.bind()
	m.vbo.bind()
	// the element buffer binding is part of the vertex array state
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ibo.obj)
	for i, attrib := range voxel.VertexLayout {
		glType := uint32(gl.FLOAT)
		if attrib.Type == voxel.AttribUByte {
			glType = gl.UNSIGNED_BYTE
		}
		gl.VertexAttribPointerWithOffset(
			uint32(i),
			int32(attrib.Components),
			glType,
			attrib.Normalized,
			int32(voxel.VertexStride),
			attrib.Offset,
		)
		gl.EnableVertexAttribArray(uint32(i))
	}
	m.vbo.restore()
	m.vao.restore()

	if glError := gl.GetError(); glError != gl.NO_ERROR {
		util.LogGlError("failed to create terrain mesh", "error", glError)
	}
	return m
}

// Upload replaces the buffer contents, growing the buffers when needed.
func (m *TerrainMesh) Upload(vertices []voxel.Vertex, indices []voxel.Index) {
	if m.released {
		panic("terrain mesh: upload after release")
	}
	m.indexCount = int32(len(indices))
	if len(vertices) == 0 || len(indices) == 0 {
		return
	}

	m.vao.bind()
	defer m.vao.restore()

	m.vbo.bind()
	vertexBytes := len(vertices) * voxel.VertexStride
	if len(vertices) > m.vertexCap {
		gl.BufferData(gl.ARRAY_BUFFER, vertexBytes, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
		m.vertexCap = len(vertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, vertexBytes, gl.Ptr(vertices))
	}
	m.vbo.restore()

	indexBytes := len(indices) * 2
	if len(indices) > m.indexCap {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, indexBytes, gl.Ptr(indices), gl.DYNAMIC_DRAW)
		m.indexCap = len(indices)
	} else {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, indexBytes, gl.Ptr(indices))
	}
}

func (m *TerrainMesh) Draw(shader voxel.Shader, uniforms voxel.Uniforms) {
	if m.released || m.indexCount == 0 {
		return
	}
	if shader != nil {
		shader.Begin(uniforms)
		defer shader.End()
	}
	m.vao.bind()
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_SHORT, gl.Ptr(nil))
	m.vao.restore()
}

// Release deletes the GL objects. The terrain calls it from Terminate on the GL thread.
func (m *TerrainMesh) Release() {
	if m.released {
		return
	}
	m.released = true
	gl.DeleteVertexArrays(1, &m.vao.obj)
	gl.DeleteBuffers(1, &m.vbo.obj)
	gl.DeleteBuffers(1, &m.ibo.obj)
}
