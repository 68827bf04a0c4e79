package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
)

// Chunk is one generated CHUNK_SIZE cube of terrain. Chunks live in a fixed pool
// and are recycled, reset clears everything but the render mesh.
type Chunk struct {
	pos        Int3
	geoDirty   bool
	lightDirty bool

	t [CHUNK_SIZE_CUBED]BlockType
	l [CHUNK_SIZE_CUBED]float32
	i [CHUNK_SIZE_CUBED]Index

	vertices   []Vertex
	indexCount int
	mesh       RenderMesh
}

func blockIndex(x, y, z int32) int32 {
	return x + y*CHUNK_SIZE + z*CHUNK_SIZE_SQUARED
}

func (c *Chunk) reset(pos Int3) {
	c.pos = pos
	c.geoDirty = false
	c.lightDirty = true
	for n := range c.t {
		c.t[n] = Exterior
		c.l[n] = 0
		c.i[n] = INVALID_INDEX
	}
	c.vertices = nil
	c.indexCount = 0
}

func (c *Chunk) Position() Int3 {
	return c.pos
}

func (c *Chunk) Contains(x, y, z int32) bool {
	return x >= 0 && x < CHUNK_SIZE && y >= 0 && y < CHUNK_SIZE && z >= 0 && z < CHUNK_SIZE
}

// GetLocalBlock returns the classification of a voxel in chunk coordinates.
func (c *Chunk) GetLocalBlock(x, y, z int32) BlockType {
	if !c.Contains(x, y, z) {
		return Unloaded
	}
	return c.t[blockIndex(x, y, z)]
}

func (c *Chunk) Vertices() []Vertex {
	return c.vertices
}

// vertex returns the surface vertex owned by a local voxel, or nil.
func (c *Chunk) vertex(x, y, z int32) *Vertex {
	index := c.i[blockIndex(x, y, z)]
	if index == INVALID_INDEX || int(index) >= len(c.vertices) {
		return nil
	}
	return &c.vertices[index]
}

func (c *Chunk) SetDirty() {
	c.geoDirty = true
}

func (c *Chunk) IsDirty() bool {
	return c.geoDirty
}

func (c *Chunk) AABB() util.AABB {
	return ChunkAABB(c.pos)
}

func (c *Chunk) String() string {
	return fmt.Sprintf("chunk(%d,%d,%d)", c.pos.X, c.pos.Y, c.pos.Z)
}

func ChunkAABB(pos Int3) util.AABB {
	min := pos.Mul(CHUNK_SIZE).ToVec3()
	size := float32(CHUNK_SIZE)
	return util.NewAABBFromMin(min, mgl32.Vec3{size, size, size})
}

// ChunkPosFromBlock maps a world voxel to its chunk and the voxel inside that chunk.
func ChunkPosFromBlock(x, y, z int32) (Int3, Int3) {
	chunk := Int3{util.FloorDiv(x, CHUNK_SIZE), util.FloorDiv(y, CHUNK_SIZE), util.FloorDiv(z, CHUNK_SIZE)}
	local := Int3{util.Mod(x, CHUNK_SIZE), util.Mod(y, CHUNK_SIZE), util.Mod(z, CHUNK_SIZE)}
	return chunk, local
}

func ChunkPosFromWorld(p mgl32.Vec3) Int3 {
	x, y, z := util.ToGrid(p)
	chunk, _ := ChunkPosFromBlock(x, y, z)
	return chunk
}
