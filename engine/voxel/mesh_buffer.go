package voxel

// Uniforms are handed to the shader for every chunk draw.
type Uniforms map[string]any

type Shader interface {
	Begin(uniforms Uniforms)
	End()
}

// RenderMesh is the GPU side of a chunk. A chunk keeps its mesh while it moves
// through the pool, Upload replaces the previous contents.
type RenderMesh interface {
	Upload(vertices []Vertex, indices []Index)
	Draw(shader Shader, uniforms Uniforms)
	Release()
}

type MeshFactory func() RenderMesh

// MeshBuffer keeps uploaded geometry in memory. It is the mesh used when no
// graphics backend is attached.
type MeshBuffer struct {
	vertices  []Vertex
	indices   []Index
	drawCalls int
}

func NewMeshBuffer() RenderMesh {
	return &MeshBuffer{}
}

func (m *MeshBuffer) Upload(vertices []Vertex, indices []Index) {
	m.vertices = append(m.vertices[:0], vertices...)
	m.indices = append(m.indices[:0], indices...)
}

func (m *MeshBuffer) Draw(shader Shader, uniforms Uniforms) {
	if len(m.indices) == 0 {
		return
	}
	if shader != nil {
		shader.Begin(uniforms)
		defer shader.End()
	}
	m.drawCalls++
}

func (m *MeshBuffer) Release() {
	m.vertices = nil
	m.indices = nil
}

func (m *MeshBuffer) TriangleCount() int {
	return len(m.indices) / 3
}

func (m *MeshBuffer) Vertices() []Vertex {
	return m.vertices
}

func (m *MeshBuffer) Indices() []Index {
	return m.indices
}

func (m *MeshBuffer) DrawCalls() int {
	return m.drawCalls
}
