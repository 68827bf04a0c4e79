package voxel

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/sdf"
	"github.com/memmaker/sdfterrain/engine/util"
)

// Sampler is the read side of a signed distance volume. Negative values are solid.
type Sampler interface {
	Value(p mgl32.Vec3) float32
	Derivative(p mgl32.Vec3) mgl32.Vec3
	Material(p mgl32.Vec3) uint8
}

// SdfCache holds the volume sampled on the integer grid around one chunk, padded
// by SDF_CACHE_OFFSET on every side.
type SdfCache struct {
	sampler Sampler
	chunk   Int3
	offseti Int3
	offsetf mgl32.Vec3
	values  []float32
}

func NewSdfCache() *SdfCache {
	return &SdfCache{values: make([]float32, SDF_CACHE_DIM*SDF_CACHE_DIM*SDF_CACHE_DIM)}
}

func cacheIndex(x, y, z int32) int32 {
	return x + SDF_CACHE_DIM*(y+SDF_CACHE_DIM*z)
}

// Generate samples the volume for the chunk at chunkPos. Afterwards the cache answers
// queries in world space.
func (c *SdfCache) Generate(chunkPos Int3, sampler Sampler) {
	c.sampler = sampler
	c.chunk = chunkPos
	origin := chunkPos.Mul(CHUNK_SIZE)
	base := Int3{origin.X - SDF_CACHE_OFFSET, origin.Y - SDF_CACHE_OFFSET, origin.Z - SDF_CACHE_OFFSET}
	c.offseti = Int3{-base.X, -base.Y, -base.Z}
	c.offsetf = c.offseti.ToVec3()

	for z := int32(0); z < SDF_CACHE_DIM; z++ {
		for y := int32(0); y < SDF_CACHE_DIM; y++ {
			for x := int32(0); x < SDF_CACHE_DIM; x++ {
				p := base.Add(Int3{x, y, z}).ToVec3()
				v := sampler.Value(p)
				if math.IsNaN(float64(v)) {
					panic(fmt.Sprintf("sdf cache: NaN sample at %v", p))
				}
				c.values[cacheIndex(x, y, z)] = v
			}
		}
	}
}

// ValueAt reads a grid sample at a world voxel corner.
func (c *SdfCache) ValueAt(p Int3) float32 {
	q := p.Add(c.offseti)
	if q.X < 0 || q.Y < 0 || q.Z < 0 || q.X >= SDF_CACHE_DIM || q.Y >= SDF_CACHE_DIM || q.Z >= SDF_CACHE_DIM {
		panic(fmt.Sprintf("sdf cache: %v outside cache of chunk %v", p, c.chunk))
	}
	return c.values[cacheIndex(q.X, q.Y, q.Z)]
}

// Value interpolates the grid samples trilinearly.
func (c *SdfCache) Value(p mgl32.Vec3) float32 {
	p = p.Add(c.offsetf)
	x, y, z := util.ToGrid(p)
	fx := p.X() - float32(x)
	fy := p.Y() - float32(y)
	fz := p.Z() - float32(z)
	if x < 0 || y < 0 || z < 0 || x+1 >= SDF_CACHE_DIM || y+1 >= SDF_CACHE_DIM || z+1 >= SDF_CACHE_DIM {
		panic(fmt.Sprintf("sdf cache: %v outside cache of chunk %v", p.Sub(c.offsetf), c.chunk))
	}

	v000 := c.values[cacheIndex(x, y, z)]
	v100 := c.values[cacheIndex(x+1, y, z)]
	v010 := c.values[cacheIndex(x, y+1, z)]
	v110 := c.values[cacheIndex(x+1, y+1, z)]
	v001 := c.values[cacheIndex(x, y, z+1)]
	v101 := c.values[cacheIndex(x+1, y, z+1)]
	v011 := c.values[cacheIndex(x, y+1, z+1)]
	v111 := c.values[cacheIndex(x+1, y+1, z+1)]

	x00 := util.Lerp(v000, v100, fx)
	x10 := util.Lerp(v010, v110, fx)
	x01 := util.Lerp(v001, v101, fx)
	x11 := util.Lerp(v011, v111, fx)
	y0 := util.Lerp(x00, x10, fy)
	y1 := util.Lerp(x01, x11, fy)
	return util.Lerp(y0, y1, fz)
}

func (c *SdfCache) Derivative(p mgl32.Vec3) mgl32.Vec3 {
	return sdf.Gradient(c.Value, p)
}

// Material is not cached, it goes straight to the volume.
func (c *SdfCache) Material(p mgl32.Vec3) uint8 {
	return c.sampler.Material(p)
}
