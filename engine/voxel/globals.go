package voxel

import "github.com/go-gl/mathgl/mgl32"

const (
	CHUNK_SIZE         int32 = 16
	CHUNK_SIZE_SQUARED int32 = CHUNK_SIZE * CHUNK_SIZE
	CHUNK_SIZE_CUBED   int32 = CHUNK_SIZE * CHUNK_SIZE * CHUNK_SIZE

	// samples kept around a chunk so edges and normals at its border can be evaluated
	SDF_CACHE_OFFSET int32 = 2
	SDF_CACHE_DIM    int32 = CHUNK_SIZE + 2*SDF_CACHE_OFFSET + 1

	TEMP_CHUNK_SIZE  int32 = CHUNK_SIZE + 2
	TEMP_CHUNK_CUBED int32 = TEMP_CHUNK_SIZE * TEMP_CHUNK_SIZE * TEMP_CHUNK_SIZE

	// SDF_BOUNDARY grows every dirty region, a surface moved by an edit affects
	// vertices up to this far away.
	SDF_BOUNDARY float32 = 2

	MAX_CHUNK_VERTS   = 1 << 14
	MAX_CHUNK_INDICES = MAX_CHUNK_VERTS * 4

	SKY_BRIGHTNESS float32 = 5

	DEFAULT_MAX_LOADED_CHUNKS = 512
	DEFAULT_MAX_ACTIVE_CHUNKS = 256
)

// VertexCount is the classification of a chunk position. Values between the
// sentinels are real vertex counts of a generated chunk.
type VertexCount uint16

const (
	VertexCountEmpty    VertexCount = 0
	VertexCountDirty    VertexCount = 0xFFFE
	VertexCountInterior VertexCount = 0xFFFF
)

func (v VertexCount) IsMesh() bool {
	return v != VertexCountEmpty && v != VertexCountDirty && v != VertexCountInterior
}

func (v VertexCount) String() string {
	switch v {
	case VertexCountEmpty:
		return "empty"
	case VertexCountDirty:
		return "dirty"
	case VertexCountInterior:
		return "interior"
	}
	return "mesh"
}

type Int3 struct {
	X, Y, Z int32
}

func (i Int3) Add(other Int3) Int3 {
	return Int3{i.X + other.X, i.Y + other.Y, i.Z + other.Z}
}

func (i Int3) Sub(other Int3) Int3 {
	return Int3{i.X - other.X, i.Y - other.Y, i.Z - other.Z}
}

func (i Int3) Mul(factor int32) Int3 {
	return Int3{i.X * factor, i.Y * factor, i.Z * factor}
}

func (i Int3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X), float32(i.Y), float32(i.Z)}
}

// ToBlockCenterVec3 is the world position of the middle of voxel i.
func (i Int3) ToBlockCenterVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X) + 0.5, float32(i.Y) + 0.5, float32(i.Z) + 0.5}
}

func (i Int3) Less(other Int3) bool {
	if i.X != other.X {
		return i.X < other.X
	}
	if i.Y != other.Y {
		return i.Y < other.Y
	}
	return i.Z < other.Z
}
