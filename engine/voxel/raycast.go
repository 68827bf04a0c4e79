package voxel

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
)

const raycastRefineSteps = 10

type RaycastResult struct {
	Hit             bool
	Type            BlockType
	Distance        float32
	PosI            Int3
	PosF            mgl32.Vec3
	Normal          mgl32.Vec3
	TouchedUnloaded bool
}

func (r RaycastResult) String() string {
	if !r.Hit {
		return fmt.Sprintf("miss (unloaded: %t)", r.TouchedUnloaded)
	}
	return fmt.Sprintf("hit %s at %v d=%.3f n=%v", r.Type, r.PosF, r.Distance, r.Normal)
}

// VoxelRaycast walks whole voxels from start along ray and reports whether a
// colliding voxel is reached. The first minSteps voxels never count.
func (t *Terrain) VoxelRaycast(start, ray mgl32.Vec3, minSteps int) bool {
	if _, ok := util.NewVoxelWalk(start, ray); !ok {
		return false
	}
	steps := 0
	_, _, _, hit := util.DDARaycast(start, start.Add(ray), func(x, y, z int32) bool {
		if steps < minSteps {
			steps++
			return false
		}
		return t.GetCollision(x, y, z)
	})
	return hit
}

// RaycastFast stops at the first surface voxel and intersects the ray with the
// plane of that voxel's vertex. The voxel containing start only counts when
// allowSourceCollision is set.
func (t *Terrain) RaycastFast(start, ray mgl32.Vec3, allowSourceCollision bool) RaycastResult {
	inf := float32(math.Inf(1))
	result := RaycastResult{
		Type:     Exterior,
		Distance: inf,
		PosF:     mgl32.Vec3{inf, inf, inf},
		Normal:   mgl32.Vec3{inf, inf, inf},
	}
	walk, ok := util.NewVoxelWalk(start, ray)
	if !ok {
		return result
	}

	for {
		result.Type = t.GetVoxel(walk.X, walk.Y, walk.Z)
		if result.Type == Surface && allowSourceCollision {
			break
		}
		if result.Type == Unloaded {
			result.TouchedUnloaded = true
		}
		allowSourceCollision = true
		if !walk.Next() {
			return result
		}
	}

	result.Hit = true
	result.PosI = Int3{walk.X, walk.Y, walk.Z}
	vertex := t.getVertex(walk.X, walk.Y, walk.Z)
	if vertex == nil {
		panic(fmt.Sprintf("raycast: surface voxel %v without vertex", result.PosI))
	}
	p := vertex.Position
	n := util.SafeNormalize(vertex.Normal)
	r := util.SafeNormalize(ray)
	distance := n.Dot(p.Sub(start)) / n.Dot(r)
	result.Distance = distance
	result.PosF = start.Add(r.Mul(distance))
	result.Normal = n
	return result
}

// Raycast checks where the ray enters and leaves every surface voxel against the
// live volume and bisects the first sign change it finds.
func (t *Terrain) Raycast(start, ray mgl32.Vec3) RaycastResult {
	result := RaycastResult{
		Type:     Exterior,
		Distance: float32(math.Inf(1)),
	}
	walk, ok := util.NewVoxelWalk(start, ray)
	if !ok {
		return result
	}

	prevPos := start
	prevValue := t.volume.Value(prevPos)
	for {
		result.Type = t.GetVoxel(walk.X, walk.Y, walk.Z)
		if result.Type == Surface {
			result.PosI = Int3{walk.X, walk.Y, walk.Z}
			entry, exit := util.RayVoxelSpan(start, ray, walk.X, walk.Y, walk.Z)
			for _, nextPos := range [2]mgl32.Vec3{entry, exit} {
				nextValue := t.volume.Value(nextPos)
				if nextValue*prevValue > 0 {
					prevPos = nextPos
					prevValue = nextValue
					continue
				}
				p := t.refineCrossing(prevPos, prevValue, nextPos, nextValue)
				result.Distance = p.Sub(start).Len()
				result.PosF = p
				result.Normal = t.volume.Derivative(p)
				result.Hit = true
				return result
			}
		} else if result.Type == Unloaded {
			result.TouchedUnloaded = true
		}
		if !walk.Next() {
			return result
		}
	}
}

// refineCrossing bisects between two points on opposite sides of the surface.
func (t *Terrain) refineCrossing(a mgl32.Vec3, va float32, b mgl32.Vec3, vb float32) mgl32.Vec3 {
	// inside ends up on the solid side
	inside, outside := b, a
	if vb > va {
		inside, outside = a, b
	}
	var p mgl32.Vec3
	for i := 0; i < raycastRefineSteps; i++ {
		p = inside.Add(outside).Mul(0.5)
		if t.volume.Value(p) < 0 {
			inside = p
		} else {
			outside = p
		}
	}
	return p
}
