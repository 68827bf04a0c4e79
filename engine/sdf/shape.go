package sdf

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
	"github.com/pkg/errors"
)

// Primitive is a signed distance function in its own local space.
type Primitive interface {
	Distance(local mgl32.Vec3) float32
	Bounds() util.AABB
}

// Op is how a shape is folded into the shapes before it.
type Op int

const (
	Union Op = iota
	Subtraction
	SmoothUnion
	SmoothSubtraction
)

func (o Op) String() string {
	switch o {
	case Union:
		return "union"
	case Subtraction:
		return "subtraction"
	case SmoothUnion:
		return "smooth_union"
	case SmoothSubtraction:
		return "smooth_subtraction"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

func ParseOp(s string) (Op, error) {
	switch s {
	case "", "union":
		return Union, nil
	case "subtraction", "subtract":
		return Subtraction, nil
	case "smooth_union":
		return SmoothUnion, nil
	case "smooth_subtraction":
		return SmoothSubtraction, nil
	}
	return Union, errors.Errorf("unknown sdf op %q", s)
}

type shapeState struct {
	primitive Primitive
	op        Op
	smoothing float32
	material  uint8
	transform mgl32.Mat4
	inverse   mgl32.Mat4
	scale     float32
}

func (s *shapeState) setTransform(m mgl32.Mat4) {
	s.transform = m
	s.inverse = m.Inv()
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	s.scale = util.Min(sx, util.Min(sy, sz))
}

func (s *shapeState) distance(p mgl32.Vec3) float32 {
	local := s.inverse.Mul4x1(p.Vec4(1)).Vec3()
	return s.primitive.Distance(local) * s.scale
}

func (s *shapeState) aabb() util.AABB {
	return s.primitive.Bounds().Transform(s.transform)
}

// Shape places a primitive in a Volume. Edits made through the setters stay pending
// until the owning volume commits them, sampling always sees the committed state.
type Shape struct {
	active  shapeState
	pending shapeState

	dirty    bool
	edited   bool
	hasPrev  bool
	aabbPrev util.AABB
}

func NewShape(p Primitive) *Shape {
	state := shapeState{primitive: p, op: Union}
	state.setTransform(mgl32.Ident4())
	return &Shape{
		active:  state,
		pending: state,
		dirty:   true,
	}
}

func (s *Shape) SetTransform(m mgl32.Mat4) *Shape {
	s.pending.setTransform(m)
	s.dirty = true
	s.edited = true
	return s
}

func (s *Shape) SetPosition(pos mgl32.Vec3) *Shape {
	m := s.pending.transform
	m.SetCol(3, pos.Vec4(1))
	return s.SetTransform(m)
}

func (s *Shape) Position() mgl32.Vec3 {
	return s.pending.transform.Col(3).Vec3()
}

func (s *Shape) SetOp(op Op, smoothing float32) *Shape {
	s.pending.op = op
	s.pending.smoothing = smoothing
	s.dirty = true
	s.edited = true
	return s
}

func (s *Shape) SetMaterial(material uint8) *Shape {
	s.pending.material = material
	s.dirty = true
	s.edited = true
	return s
}

func (s *Shape) Material() uint8 {
	return s.pending.material
}

// AABB bounds the shape as it will be after the next commit.
// Smooth ops grow the box by their smoothing radius.
func (s *Shape) AABB() util.AABB {
	box := s.pending.aabb()
	if s.pending.op == SmoothUnion || s.pending.op == SmoothSubtraction {
		box = box.Expand(s.pending.smoothing)
	}
	return box
}

func (s *Shape) Dirty() bool {
	return s.dirty
}

// PreviousAABB is the box reported the last time the shape was cleaned.
func (s *Shape) PreviousAABB() (util.AABB, bool) {
	return s.aabbPrev, s.hasPrev
}

func (s *Shape) commit() {
	s.active = s.pending
	s.edited = false
}
