package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
)

// Every voxel owns the three edges that meet at its (1,1,1) corner.
const (
	EDGE_TOP_FRONT_BIT       uint16 = 1 << 0
	EDGE_TOP_RIGHT_BIT       uint16 = 1 << 1
	EDGE_SIDE_FRONTRIGHT_BIT uint16 = 1 << 5
)

var edgeBits = [3]uint16{EDGE_TOP_FRONT_BIT, EDGE_TOP_RIGHT_BIT, EDGE_SIDE_FRONTRIGHT_BIT}

var edgeCorners = [3][2]Int3{
	{{0, 1, 1}, {1, 1, 1}},
	{{1, 0, 1}, {1, 1, 1}},
	{{1, 1, 0}, {1, 1, 1}},
}

// the four voxels sharing an owned edge, in quad order
var edgeQuads = [3][4]Int3{
	{{0, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 1, 1}},
	{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {1, 0, 1}},
	{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}, {1, 1, 0}},
}

// The twelve edges around a voxel, found through the voxel that owns each one.
// shift moves the crossing into the frame of the voxel being solved.
var voxelEdges = [12]struct {
	owner Int3
	edge  int
	shift mgl32.Vec3
}{
	{Int3{1, 1, 1}, 0, mgl32.Vec3{}},
	{Int3{1, 1, 1}, 1, mgl32.Vec3{}},
	{Int3{1, 1, 1}, 2, mgl32.Vec3{}},
	{Int3{0, 1, 1}, 1, mgl32.Vec3{-1, 0, 0}},
	{Int3{0, 1, 1}, 2, mgl32.Vec3{-1, 0, 0}},
	{Int3{1, 0, 1}, 0, mgl32.Vec3{0, -1, 0}},
	{Int3{1, 0, 1}, 2, mgl32.Vec3{0, -1, 0}},
	{Int3{0, 0, 1}, 2, mgl32.Vec3{-1, -1, 0}},
	{Int3{0, 1, 0}, 1, mgl32.Vec3{-1, 0, -1}},
	{Int3{1, 0, 0}, 0, mgl32.Vec3{0, -1, -1}},
	{Int3{1, 1, 0}, 0, mgl32.Vec3{0, 0, -1}},
	{Int3{1, 1, 0}, 1, mgl32.Vec3{0, 0, -1}},
}

const (
	edgeSearchSteps   = 16
	edgeSearchEpsilon = 0.001
	intersectionSteps = 10
)

// TempEdges is the per voxel scratch of one extraction. Positions are local to the
// owning voxel.
type TempEdges struct {
	b uint16
	p [3]mgl32.Vec3
	n [3]mgl32.Vec3
}

func tempEdgeIndex(x, y, z int32) int32 {
	return (x + 1) + TEMP_CHUNK_SIZE*((y+1)+TEMP_CHUNK_SIZE*(z+1))
}

// Generate extracts the surface of the cached volume for this chunk with surface nets.
// vertices and indices must hold MAX_CHUNK_VERTS and MAX_CHUNK_INDICES entries and
// edges TEMP_CHUNK_CUBED. Chunks that produce no triangles report Empty, or Interior
// when every voxel is solid.
func (c *Chunk) Generate(cache *SdfCache, edges []TempEdges, vertices []Vertex, indices []Index) (VertexCount, int) {
	for n := range edges {
		edges[n] = TempEdges{}
	}
	chunkOffset := c.pos.Mul(CHUNK_SIZE)
	vertexCount := 0
	indexCount := 0

	for z := int32(-1); z <= CHUNK_SIZE; z++ {
		for y := int32(-1); y <= CHUNK_SIZE; y++ {
			for x := int32(-1); x <= CHUNK_SIZE; x++ {
				voxel := Int3{x, y, z}
				inChunk := c.Contains(x, y, z)

				var cornerValues [3][2]float32
				var bits uint16
				for e := 0; e < 3; e++ {
					for j := 0; j < 2; j++ {
						v := cache.ValueAt(chunkOffset.Add(voxel).Add(edgeCorners[e][j]))
						if v == 0 {
							v = 0.0001
						}
						cornerValues[e][j] = v
					}
					if cornerValues[e][0]*cornerValues[e][1] <= 0 {
						bits |= edgeBits[e]
					}
				}

				if bits == 0 {
					if inChunk {
						index := blockIndex(x, y, z)
						if c.i[index] == INVALID_INDEX {
							if cache.Value(chunkOffset.Add(voxel).ToBlockCenterVec3()) > 0 {
								c.t[index] = Exterior
							} else {
								c.t[index] = Interior
							}
						}
					}
					continue
				}

				te := &edges[tempEdgeIndex(x, y, z)]
				te.b = bits
				voxelPos := chunkOffset.Add(voxel).ToVec3()

				for e := 0; e < 3; e++ {
					if bits&edgeBits[e] == 0 {
						continue
					}
					if vertexCount+4 >= MAX_CHUNK_VERTS || indexCount+6 > MAX_CHUNK_INDICES {
						return VertexCountEmpty, 0
					}

					// c0 stays on the solid side
					c0 := edgeCorners[e][0].ToVec3()
					c1 := edgeCorners[e][1].ToVec3()
					if cornerValues[e][0] > cornerValues[e][1] {
						c0, c1 = c1, c0
					}
					var crossing mgl32.Vec3
					for step := 0; step < edgeSearchSteps; step++ {
						crossing = c0.Add(c1).Mul(0.5)
						v := cache.Value(voxelPos.Add(crossing))
						if util.Abs(v) < edgeSearchEpsilon {
							break
						} else if v < 0 {
							c0 = crossing
						} else {
							c1 = crossing
						}
					}
					if util.IsNaN3(crossing) {
						panic(fmt.Sprintf("surface nets: NaN edge crossing in %v", c))
					}
					te.p[e] = crossing
					te.n[e] = cache.Derivative(voxelPos.Add(crossing))

					// edges of the padding ring only feed vertex placement
					if !inChunk {
						continue
					}

					var quad [4]Index
					for j := 0; j < 4; j++ {
						o := voxel.Add(edgeQuads[e][j])
						inCurrent := o.X < CHUNK_SIZE && o.Y < CHUNK_SIZE && o.Z < CHUNK_SIZE
						if !inCurrent || c.i[blockIndex(o.X, o.Y, o.Z)] == INVALID_INDEX {
							index := Index(vertexCount)
							vertices[vertexCount] = Vertex{Position: o.ToBlockCenterVec3()}
							vertexCount++
							quad[j] = index
							if inCurrent {
								c.i[blockIndex(o.X, o.Y, o.Z)] = index
								c.t[blockIndex(o.X, o.Y, o.Z)] = Surface
							}
						} else {
							quad[j] = c.i[blockIndex(o.X, o.Y, o.Z)]
						}
					}

					var flip bool
					if e == 0 {
						flip = cornerValues[e][1] > 0
					} else {
						flip = cornerValues[e][1] < 0
					}
					if flip {
						indices[indexCount+0] = quad[0]
						indices[indexCount+1] = quad[1]
						indices[indexCount+2] = quad[2]
						indices[indexCount+3] = quad[1]
						indices[indexCount+4] = quad[3]
						indices[indexCount+5] = quad[2]
					} else {
						indices[indexCount+0] = quad[0]
						indices[indexCount+1] = quad[2]
						indices[indexCount+2] = quad[1]
						indices[indexCount+3] = quad[1]
						indices[indexCount+4] = quad[2]
						indices[indexCount+5] = quad[3]
					}
					indexCount += 6
				}
			}
		}
	}

	if indexCount == 0 {
		for n := range c.t {
			if c.t[n] != Interior {
				return VertexCountEmpty, 0
			}
		}
		return VertexCountInterior, 0
	}

	var positions, normals [12]mgl32.Vec3
	for n := 0; n < vertexCount; n++ {
		vertex := &vertices[n]
		x, y, z := util.ToGrid(vertex.Position)
		if x < 0 || y < 0 || z < 0 || x > CHUNK_SIZE || y > CHUNK_SIZE || z > CHUNK_SIZE {
			panic(fmt.Sprintf("surface nets: vertex %v outside %v", vertex.Position, c))
		}
		voxel := Int3{x, y, z}

		count := 0
		for _, ve := range voxelEdges {
			owner := voxel.Add(ve.owner)
			te := &edges[(owner.X)+TEMP_CHUNK_SIZE*((owner.Y)+TEMP_CHUNK_SIZE*(owner.Z))]
			if te.b&edgeBits[ve.edge] == 0 {
				continue
			}
			positions[count] = te.p[ve.edge].Add(ve.shift)
			normals[count] = te.n[ve.edge]
			count++
		}
		if count == 0 {
			panic(fmt.Sprintf("surface nets: vertex %v without edges in %v", vertex.Position, c))
		}

		var normal mgl32.Vec3
		for j := 0; j < count; j++ {
			normal = normal.Add(normals[j])
		}
		normal = util.SafeNormalize(normal)

		local := GetIntersection(positions[:count], normals[:count])
		position := chunkOffset.Add(voxel).ToVec3().Add(local)
		if util.IsNaN3(position) || util.IsNaN3(normal) {
			panic(fmt.Sprintf("surface nets: NaN vertex in %v", c))
		}

		vertex.Position = position
		vertex.Normal = normal
		vertex.Info = [4]uint8{0, 1, 255, 0}
		vertex.Materials = [4]uint8{}
		material := cache.Material(position)
		if material < 4 {
			vertex.Materials[material] = 255
		}
	}

	return VertexCount(vertexCount), indexCount
}

// GetIntersection moves the centroid of the edge crossings towards the planes they
// define. The result is not clamped to the voxel.
func GetIntersection(positions, normals []mgl32.Vec3) mgl32.Vec3 {
	var c mgl32.Vec3
	for _, p := range positions {
		c = c.Add(p)
	}
	c = c.Mul(1 / float32(len(positions)))

	for i := 0; i < intersectionSteps; i++ {
		for j := range positions {
			d := normals[j].Dot(positions[j].Sub(c))
			c = c.Add(normals[j].Mul(d * 0.5))
		}
	}
	return c
}
