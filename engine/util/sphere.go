package util

import "github.com/go-gl/mathgl/mgl32"

type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Raycast intersects the ray origin + dir*t with the sphere. dir does not need to be
// normalized, t is measured in units of its length. Origins inside the sphere hit at t = 0.
func (s Sphere) Raycast(origin, dir mgl32.Vec3) (float32, bool) {
	m := origin.Sub(s.Center)
	a := dir.Dot(dir)
	if a == 0 {
		return 0, false
	}
	b := m.Dot(dir)
	c := m.Dot(m) - s.Radius*s.Radius
	if c > 0 && b > 0 {
		return 0, false
	}
	discr := b*b - a*c
	if discr < 0 {
		return 0, false
	}
	t := (-b - Sqrt(discr)) / a
	if t < 0 {
		t = 0
	}
	return t * dir.Len(), true
}

type LineSegment struct {
	P0, P1 mgl32.Vec3
}

func (l LineSegment) ClosestPoint(p mgl32.Vec3) mgl32.Vec3 {
	ab := l.P1.Sub(l.P0)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return l.P0
	}
	t := Clamp(p.Sub(l.P0).Dot(ab)/lenSq, 0, 1)
	return l.P0.Add(ab.Mul(t))
}

func (l LineSegment) MinDistance(p mgl32.Vec3) float32 {
	return p.Sub(l.ClosestPoint(p)).Len()
}
