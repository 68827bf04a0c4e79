package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
)

// GetVoxelAt classifies the voxel containing a world position.
func (t *Terrain) GetVoxelAt(position mgl32.Vec3) BlockType {
	return t.GetVoxel(util.ToGrid(position))
}

func (t *Terrain) GetVoxel(x, y, z int32) BlockType {
	chunkPos, local := ChunkPosFromBlock(x, y, z)
	switch t.vertexCounts[chunkPos] {
	case VertexCountEmpty:
		return Exterior
	case VertexCountDirty:
		return Unloaded
	case VertexCountInterior:
		return Interior
	}
	chunk := t.chunks[chunkPos]
	if chunk == nil {
		return Unloaded
	}
	return chunk.t[blockIndex(local.X, local.Y, local.Z)]
}

func (t *Terrain) GetCollisionAt(position mgl32.Vec3) bool {
	return t.GetCollision(util.ToGrid(position))
}

func (t *Terrain) GetCollision(x, y, z int32) bool {
	return t.blockCollision[t.GetVoxel(x, y, z)]
}

// GetLight returns the light of a voxel, open sky where no chunk is resident.
func (t *Terrain) GetLight(x, y, z int32) float32 {
	chunkPos, local := ChunkPosFromBlock(x, y, z)
	chunk := t.chunks[chunkPos]
	if chunk == nil {
		return SKY_BRIGHTNESS
	}
	return chunk.l[blockIndex(local.X, local.Y, local.Z)]
}

func (t *Terrain) getVertex(x, y, z int32) *Vertex {
	chunkPos, local := ChunkPosFromBlock(x, y, z)
	if !t.vertexCounts[chunkPos].IsMesh() {
		return nil
	}
	chunk := t.chunks[chunkPos]
	if chunk == nil {
		return nil
	}
	return chunk.vertex(local.X, local.Y, local.Z)
}
