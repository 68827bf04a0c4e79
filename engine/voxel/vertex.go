package voxel

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

type Index uint16

const INVALID_INDEX Index = 0xFFFF

// Vertex is the terrain vertex as it is uploaded. Info carries per vertex flags,
// Materials holds one weight per material channel.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	Info      [4]uint8
	Materials [4]uint8
}

type AttribType int

const (
	AttribFloat AttribType = iota
	AttribUByte
)

type VertexAttrib struct {
	Name       string
	Type       AttribType
	Components int
	Normalized bool
	Offset     uintptr
}

const VertexStride = int(unsafe.Sizeof(Vertex{}))

// VertexLayout describes Vertex for a render backend.
var VertexLayout = []VertexAttrib{
	{Name: "a_position", Type: AttribFloat, Components: 3, Offset: unsafe.Offsetof(Vertex{}.Position)},
	{Name: "a_normal", Type: AttribFloat, Components: 3, Offset: unsafe.Offsetof(Vertex{}.Normal)},
	{Name: "a_info", Type: AttribUByte, Components: 4, Offset: unsafe.Offsetof(Vertex{}.Info)},
	{Name: "a_materials", Type: AttribUByte, Components: 4, Normalized: true, Offset: unsafe.Offsetof(Vertex{}.Materials)},
}
