package sdf

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
)

// FarDistance is the value of a volume with nothing in it.
const FarDistance float32 = 1e6

// DerivativeStep is the offset used for finite difference gradients.
const DerivativeStep float32 = 0.2

// Volume is an ordered fold over shapes. Value, Derivative and Material read only
// committed state and may run on many goroutines at once. Everything else belongs
// to the owning goroutine and must not overlap with UpdatePending.
type Volume struct {
	shapes  []*Shape
	active  []*Shape
	removed []util.AABB
	pending bool
}

func NewVolume() *Volume {
	return &Volume{}
}

// Add schedules a shape for insertion and returns it.
func (v *Volume) Add(shape *Shape) *Shape {
	for _, s := range v.shapes {
		if s == shape {
			return shape
		}
	}
	shape.dirty = true
	v.shapes = append(v.shapes, shape)
	v.pending = true
	return shape
}

// Remove schedules a shape for removal. Its last reported region is kept so it can
// be regenerated.
func (v *Volume) Remove(shape *Shape) {
	for i, s := range v.shapes {
		if s != shape {
			continue
		}
		v.shapes = append(v.shapes[:i:i], v.shapes[i+1:]...)
		if prev, ok := shape.PreviousAABB(); ok {
			v.removed = append(v.removed, prev)
		}
		v.removed = append(v.removed, shape.AABB())
		v.pending = true
		return
	}
}

func (v *Volume) Shapes() []*Shape {
	return v.shapes
}

// HasPending reports edits that sampling does not see yet.
func (v *Volume) HasPending() bool {
	if v.pending {
		return true
	}
	for _, s := range v.shapes {
		if s.edited {
			return true
		}
	}
	return false
}

// UpdatePending swaps all pending edits into the sampled state.
// No goroutine may be sampling the volume while this runs.
func (v *Volume) UpdatePending() {
	active := make([]*Shape, len(v.shapes))
	copy(active, v.shapes)
	for _, s := range active {
		s.commit()
	}
	v.active = active
	v.pending = false
}

// DirtyRegions returns the previous and current bounds of every modified shape plus the
// bounds of removed shapes, and marks them clean.
func (v *Volume) DirtyRegions() []util.AABB {
	regions := v.removed
	v.removed = nil
	for _, s := range v.shapes {
		if !s.dirty {
			continue
		}
		current := s.AABB()
		if s.hasPrev {
			regions = append(regions, s.aabbPrev)
		}
		regions = append(regions, current)
		s.dirty = false
		s.hasPrev = true
		s.aabbPrev = current
	}
	return regions
}

func (v *Volume) Value(p mgl32.Vec3) float32 {
	value := FarDistance
	for _, s := range v.active {
		d := s.active.distance(p)
		switch s.active.op {
		case Union:
			value = util.Min(value, d)
		case Subtraction:
			value = util.Max(value, -d)
		case SmoothUnion:
			value = smoothMin(value, d, s.active.smoothing)
		case SmoothSubtraction:
			value = -smoothMin(-value, d, s.active.smoothing)
		}
	}
	if math.IsNaN(float64(value)) {
		panic(fmt.Sprintf("sdf: NaN value at %v", p))
	}
	return value
}

func (v *Volume) Derivative(p mgl32.Vec3) mgl32.Vec3 {
	return Gradient(v.Value, p)
}

// Material is the material of the shape whose surface is closest to p.
func (v *Volume) Material(p mgl32.Vec3) uint8 {
	var material uint8
	best := float32(math.MaxFloat32)
	for _, s := range v.active {
		d := util.Abs(s.active.distance(p))
		if d < best {
			best = d
			material = s.active.material
		}
	}
	return material
}

// Gradient estimates the surface normal of value at p from a forward and a backward
// difference. A degenerate estimate yields the zero vector.
func Gradient(value func(mgl32.Vec3) float32, p mgl32.Vec3) mgl32.Vec3 {
	center := value(p)
	var forward, backward mgl32.Vec3
	for i := 0; i < 3; i++ {
		nt := p
		nt[i] += DerivativeStep
		forward[i] = value(nt) - center

		nt = p
		nt[i] -= DerivativeStep
		backward[i] = center - value(nt)
	}
	forward = util.SafeNormalize(forward)
	backward = util.SafeNormalize(backward)
	return util.SafeNormalize(forward.Add(backward))
}

// polynomial smooth minimum, k is the blend radius
func smoothMin(a, b, k float32) float32 {
	if k <= 0 {
		return util.Min(a, b)
	}
	h := util.Clamp(0.5+0.5*(b-a)/k, 0, 1)
	return util.Lerp(b, a, h) - k*h*(1-h)
}
