package util

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis aligned box stored as min and max corners.
type AABB struct {
	min mgl32.Vec3
	max mgl32.Vec3
}

func NewAABB(center, extents mgl32.Vec3) AABB {
	half := extents.Mul(0.5)
	return AABB{
		min: center.Sub(half),
		max: center.Add(half),
	}
}

func NewAABBFromMinMax(min, max mgl32.Vec3) AABB {
	return AABB{min: min, max: max}
}

func NewAABBFromMin(min, extents mgl32.Vec3) AABB {
	return AABB{min: min, max: min.Add(extents)}
}

func NewAABBFromSphere(s Sphere) AABB {
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{min: s.Center.Sub(r), max: s.Center.Add(r)}
}

func (a AABB) Min() mgl32.Vec3 {
	return a.min
}

func (a AABB) Max() mgl32.Vec3 {
	return a.max
}

func (a AABB) Center() mgl32.Vec3 {
	return a.min.Add(a.max).Mul(0.5)
}

func (a AABB) HalfSize() mgl32.Vec3 {
	return a.max.Sub(a.min).Mul(0.5)
}

// Expand grows the box by amount on every side.
func (a AABB) Expand(amount float32) AABB {
	d := mgl32.Vec3{amount, amount, amount}
	return AABB{min: a.min.Sub(d), max: a.max.Add(d)}
}

func (a AABB) Union(other AABB) AABB {
	return AABB{
		min: mgl32.Vec3{Min(a.min.X(), other.min.X()), Min(a.min.Y(), other.min.Y()), Min(a.min.Z(), other.min.Z())},
		max: mgl32.Vec3{Max(a.max.X(), other.max.X()), Max(a.max.Y(), other.max.Y()), Max(a.max.Z(), other.max.Z())},
	}
}

func (a AABB) Contains(point mgl32.Vec3) bool {
	return InRange(point.X(), a.min.X(), a.max.X()) &&
		InRange(point.Y(), a.min.Y(), a.max.Y()) &&
		InRange(point.Z(), a.min.Z(), a.max.Z())
}

func (a AABB) Intersects(other AABB) bool {
	return a.min.X() <= other.max.X() && a.max.X() >= other.min.X() &&
		a.min.Y() <= other.max.Y() && a.max.Y() >= other.min.Y() &&
		a.min.Z() <= other.max.Z() && a.max.Z() >= other.min.Z()
}

// IsFinite is false for boxes that cannot be turned into a chunk range.
func (a AABB) IsFinite() bool {
	for i := 0; i < 3; i++ {
		if math.IsInf(float64(a.min[i]), 0) || math.IsInf(float64(a.max[i]), 0) ||
			math.IsNaN(float64(a.min[i])) || math.IsNaN(float64(a.max[i])) {
			return false
		}
	}
	return true
}

// Transform returns the box that bounds the eight transformed corners.
func (a AABB) Transform(m mgl32.Mat4) AABB {
	inf := float32(math.Inf(1))
	out := AABB{min: mgl32.Vec3{inf, inf, inf}, max: mgl32.Vec3{-inf, -inf, -inf}}
	for i := 0; i < 8; i++ {
		corner := a.min
		if i&1 != 0 {
			corner[0] = a.max[0]
		}
		if i&2 != 0 {
			corner[1] = a.max[1]
		}
		if i&4 != 0 {
			corner[2] = a.max[2]
		}
		p := m.Mul4x1(corner.Vec4(1)).Vec3()
		out = out.Union(AABB{min: p, max: p})
	}
	return out
}

func (a AABB) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f]-[%.2f %.2f %.2f]", a.min.X(), a.min.Y(), a.min.Z(), a.max.X(), a.max.Y(), a.max.Z())
}

func InRange(value, min, max float32) bool {
	return value >= min && value <= max
}

// IntersectRayVoxel returns the point where p + d*t enters the unit voxel at v.
// Axes with a near zero direction are ignored.
func IntersectRayVoxel(p, d mgl32.Vec3, vx, vy, vz int32) mgl32.Vec3 {
	entry, _ := RayVoxelSpan(p, d, vx, vy, vz)
	return entry
}

// RayVoxelSpan returns where p + d*t enters and leaves the unit voxel at v, with t
// never below zero. A ray without usable axes leaves where it enters.
func RayVoxelSpan(p, d mgl32.Vec3, vx, vy, vz int32) (mgl32.Vec3, mgl32.Vec3) {
	v := [3]float32{float32(vx), float32(vy), float32(vz)}
	tmin := float32(0)
	tmax := float32(math.Inf(1))
	for i := 0; i < 3; i++ {
		if Abs(d[i]) < 0.001 {
			continue
		}
		ood := 1.0 / d[i]
		t1 := (v[i] - p[i]) * ood
		t2 := (v[i] + 1 - p[i]) * ood
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}
	if math.IsInf(float64(tmax), 1) || tmax < tmin {
		tmax = tmin
	}
	return p.Add(d.Mul(tmin)), p.Add(d.Mul(tmax))
}
