package sdf

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
)

// Box is centered on the origin. CornerRadius rounds the edges without growing the box.
type Box struct {
	HalfExtents  mgl32.Vec3
	CornerRadius float32
}

func NewBox(halfExtents mgl32.Vec3, cornerRadius float32) *Shape {
	return NewShape(Box{HalfExtents: halfExtents, CornerRadius: cornerRadius})
}

func (b Box) Distance(p mgl32.Vec3) float32 {
	r := util.Min(b.CornerRadius, util.Min(b.HalfExtents.X(), util.Min(b.HalfExtents.Y(), b.HalfExtents.Z())))
	q := mgl32.Vec3{
		util.Abs(p.X()) - (b.HalfExtents.X() - r),
		util.Abs(p.Y()) - (b.HalfExtents.Y() - r),
		util.Abs(p.Z()) - (b.HalfExtents.Z() - r),
	}
	outside := mgl32.Vec3{util.Max(q.X(), 0), util.Max(q.Y(), 0), util.Max(q.Z(), 0)}.Len()
	inside := util.Min(util.Max(q.X(), util.Max(q.Y(), q.Z())), 0)
	return outside + inside - r
}

func (b Box) Bounds() util.AABB {
	return util.NewAABBFromMinMax(b.HalfExtents.Mul(-1), b.HalfExtents)
}

type Sphere struct {
	Radius float32
}

func NewSphere(radius float32) *Shape {
	return NewShape(Sphere{Radius: radius})
}

func (s Sphere) Distance(p mgl32.Vec3) float32 {
	return p.Len() - s.Radius
}

func (s Sphere) Bounds() util.AABB {
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	return util.NewAABBFromMinMax(r.Mul(-1), r)
}

// Cylinder stands on the Z axis.
type Cylinder struct {
	Radius     float32
	HalfHeight float32
}

func NewCylinder(radius, halfHeight float32) *Shape {
	return NewShape(Cylinder{Radius: radius, HalfHeight: halfHeight})
}

func (c Cylinder) Distance(p mgl32.Vec3) float32 {
	dx := mgl32.Vec2{p.X(), p.Y()}.Len() - c.Radius
	dz := util.Abs(p.Z()) - c.HalfHeight
	inside := util.Min(util.Max(dx, dz), 0)
	outside := mgl32.Vec2{util.Max(dx, 0), util.Max(dz, 0)}.Len()
	return inside + outside
}

func (c Cylinder) Bounds() util.AABB {
	e := mgl32.Vec3{c.Radius, c.Radius, c.HalfHeight}
	return util.NewAABBFromMinMax(e.Mul(-1), e)
}
