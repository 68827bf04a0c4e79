package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
)

type SweepResult struct {
	Distance float32
	Normal   mgl32.Vec3
	Position mgl32.Vec3
}

func voxelRange(box util.AABB) (Int3, Int3) {
	minX, minY, minZ := util.ToGrid(box.Min())
	max := box.Max()
	return Int3{minX, minY, minZ}, Int3{util.CeilInt(max.X()), util.CeilInt(max.Y()), util.CeilInt(max.Z())}
}

func (t *Terrain) eachVertex(box util.AABB, fn func(v *Vertex)) {
	min, max := voxelRange(box)
	for z := min.Z; z < max.Z; z++ {
		for y := min.Y; y < max.Y; y++ {
			for x := min.X; x < max.X; x++ {
				if v := t.getVertex(x, y, z); v != nil {
					fn(v)
				}
			}
		}
	}
}

// SweepSphere moves sphere along ray and returns the first surface vertex it touches.
func (t *Terrain) SweepSphere(sphere util.Sphere, ray mgl32.Vec3) (SweepResult, bool) {
	end := sphere
	end.Center = sphere.Center.Add(ray)
	bounds := util.NewAABBFromSphere(sphere).Union(util.NewAABBFromSphere(end))
	travel := util.LineSegment{P0: sphere.Center, P1: end.Center}

	var result SweepResult
	anyHit := false
	tMin := ray.Len()
	back := ray.Mul(-1)
	t.eachVertex(bounds, func(v *Vertex) {
		if travel.MinDistance(v.Position) > sphere.Radius {
			return
		}
		if ray.Dot(v.Position.Sub(sphere.Center)) <= 0 {
			return
		}
		// cast from the vertex back against the sphere at its start
		if d, hit := sphere.Raycast(v.Position, back); hit && d <= tMin {
			anyHit = true
			tMin = d
			result.Position = v.Position
			result.Normal = util.SafeNormalize(v.Normal)
		}
	})
	if !anyHit {
		return SweepResult{}, false
	}
	result.Distance = tMin
	return result, true
}

// PushOutSphere returns the offset that moves sphere clear of every surface vertex
// inside it. It returns false when no vertex is inside.
func (t *Terrain) PushOutSphere(sphere util.Sphere) (mgl32.Vec3, bool) {
	bounds := util.NewAABBFromSphere(sphere)
	rr := sphere.Radius * sphere.Radius

	var pushOutDir mgl32.Vec3
	t.eachVertex(bounds, func(v *Vertex) {
		centerToVert := v.Position.Sub(sphere.Center)
		if centerToVert.Dot(centerToVert)-rr > 0 {
			return
		}
		pushOutDir = pushOutDir.Add(util.SafeNormalize(v.Normal))
	})
	if pushOutDir == (mgl32.Vec3{}) {
		return mgl32.Vec3{}, false
	}
	pushOutDir = util.SafeNormalize(pushOutDir)

	var pushOutLength float32
	t.eachVertex(bounds, func(v *Vertex) {
		centerToVert := v.Position.Sub(sphere.Center)
		c := centerToVert.Dot(centerToVert) - rr
		if c > 0 {
			return
		}
		// the vertex normal points against the direction the sphere has to move
		normal := util.SafeNormalize(v.Normal)
		b := centerToVert.Dot(normal)
		surfaceToVert := normal.Mul(b + util.Sqrt(b*b-c))
		pushOutLength = util.Max(pushOutLength, pushOutDir.Dot(surfaceToVert))
	})
	return pushOutDir.Mul(pushOutLength), true
}
