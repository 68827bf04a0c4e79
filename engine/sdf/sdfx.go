package sdf

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
	"github.com/pkg/errors"
)

// SDF3 lets any sdfx solid take part in a Volume.
type SDF3 struct {
	Solid sdf.SDF3
}

func NewSDF3(s sdf.SDF3) *Shape {
	return NewShape(SDF3{Solid: s})
}

func (s SDF3) Distance(p mgl32.Vec3) float32 {
	return float32(s.Solid.Evaluate(v3.Vec{X: float64(p.X()), Y: float64(p.Y()), Z: float64(p.Z())}))
}

func (s SDF3) Bounds() util.AABB {
	bb := s.Solid.BoundingBox()
	return util.NewAABBFromMinMax(toVec3(bb.Min), toVec3(bb.Max))
}

func toVec3(v v3.Vec) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// RoundedBox builds a box with sdfx, size is the full edge length.
func RoundedBox(size mgl32.Vec3, round float32) (*Shape, error) {
	s, err := sdf.Box3D(v3.Vec{X: float64(size.X()), Y: float64(size.Y()), Z: float64(size.Z())}, float64(round))
	if err != nil {
		return nil, errors.Wrap(err, "sdfx box")
	}
	return NewSDF3(s), nil
}

// Pillar builds a Z-up cylinder with rounded rims.
func Pillar(height, radius, round float32) (*Shape, error) {
	s, err := sdf.Cylinder3D(float64(height), float64(radius), float64(round))
	if err != nil {
		return nil, errors.Wrap(err, "sdfx pillar")
	}
	return NewSDF3(s), nil
}

// Arch carves a cylindrical tunnel through a box, both from sdfx.
func Arch(size mgl32.Vec3, tunnelRadius float32) (*Shape, error) {
	block, err := sdf.Box3D(v3.Vec{X: float64(size.X()), Y: float64(size.Y()), Z: float64(size.Z())}, 0)
	if err != nil {
		return nil, errors.Wrap(err, "sdfx arch block")
	}
	tunnel, err := sdf.Cylinder3D(float64(size.Y())*2, float64(tunnelRadius), 0)
	if err != nil {
		return nil, errors.Wrap(err, "sdfx arch tunnel")
	}
	tunnel = sdf.Transform3D(tunnel, sdf.Translate3d(v3.Vec{Z: -float64(size.Z()) * 0.5}).Mul(sdf.RotateX(math.Pi/2)))
	return NewSDF3(sdf.Difference3D(block, tunnel)), nil
}
