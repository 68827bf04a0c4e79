package util

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRayVoxelSpan(t *testing.T) {
	entry, exit := RayVoxelSpan(mgl32.Vec3{0.5, 0.5, 5.5}, mgl32.Vec3{0, 0, -1}, 0, 0, 2)
	if !entry.ApproxEqual(mgl32.Vec3{0.5, 0.5, 3}) || !exit.ApproxEqual(mgl32.Vec3{0.5, 0.5, 2}) {
		t.Fatalf("span %v -> %v", entry, exit)
	}

	// starting inside the voxel enters at the start
	entry, exit = RayVoxelSpan(mgl32.Vec3{0.25, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 0, 0, 0)
	if !entry.ApproxEqual(mgl32.Vec3{0.25, 0.5, 0.5}) || !exit.ApproxEqual(mgl32.Vec3{1, 0.5, 0.5}) {
		t.Fatalf("span %v -> %v", entry, exit)
	}

	if got := IntersectRayVoxel(mgl32.Vec3{-1.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, 0, 0, 0); !got.ApproxEqual(mgl32.Vec3{0, 0.5, 0.5}) {
		t.Fatalf("entry %v", got)
	}
}

func TestAABB(t *testing.T) {
	box := NewAABBFromMinMax(mgl32.Vec3{-1, 0, 2}, mgl32.Vec3{1, 4, 6})
	if !box.Center().ApproxEqual(mgl32.Vec3{0, 2, 4}) {
		t.Fatalf("center %v", box.Center())
	}
	grown := box.Expand(2)
	if !grown.Min().ApproxEqual(mgl32.Vec3{-3, -2, 0}) || !grown.Max().ApproxEqual(mgl32.Vec3{3, 6, 8}) {
		t.Fatalf("expanded %v", grown)
	}
	union := box.Union(NewAABBFromSphere(Sphere{Center: mgl32.Vec3{5, 0, 0}, Radius: 1}))
	if !union.Max().ApproxEqual(mgl32.Vec3{6, 4, 6}) || !union.Min().ApproxEqual(mgl32.Vec3{-1, -1, -1}) {
		t.Fatalf("union %v", union)
	}
	if !box.Contains(mgl32.Vec3{0, 1, 3}) || box.Contains(mgl32.Vec3{0, 5, 3}) {
		t.Fatalf("contains")
	}

	inf := float32(math.Inf(1))
	if !box.IsFinite() || NewAABBFromMinMax(mgl32.Vec3{-inf, 0, 0}, mgl32.Vec3{0, 1, 1}).IsFinite() {
		t.Fatalf("finiteness")
	}
}

func TestSphereRaycast(t *testing.T) {
	s := Sphere{Center: mgl32.Vec3{0, 0, 10}, Radius: 2}
	d, hit := s.Raycast(mgl32.Vec3{}, mgl32.Vec3{0, 0, 4})
	if !hit || math.Abs(float64(d-8)) > 1e-4 {
		t.Fatalf("hit %t at %v, want 8", hit, d)
	}
	if _, hit := s.Raycast(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}); hit {
		t.Fatalf("ray pointing away hit")
	}
	if d, hit := s.Raycast(mgl32.Vec3{0, 0, 9}, mgl32.Vec3{1, 0, 0}); !hit || d != 0 {
		t.Fatalf("origin inside: %t %v", hit, d)
	}

	seg := LineSegment{P0: mgl32.Vec3{}, P1: mgl32.Vec3{0, 0, 4}}
	if d := seg.MinDistance(mgl32.Vec3{3, 0, 2}); math.Abs(float64(d-3)) > 1e-5 {
		t.Fatalf("segment distance %v", d)
	}
}

func TestGridMath(t *testing.T) {
	if FloorDiv(-1, 16) != -1 || FloorDiv(16, 16) != 1 || FloorDiv(-16, 16) != -1 || FloorDiv(-17, 16) != -2 {
		t.Fatalf("FloorDiv")
	}
	if Mod(-1, 16) != 15 || Mod(17, 16) != 1 || Mod(-16, 16) != 0 {
		t.Fatalf("Mod")
	}
	x, y, z := ToGrid(mgl32.Vec3{-0.5, 1.5, -2})
	if x != -1 || y != 1 || z != -2 {
		t.Fatalf("ToGrid = %d,%d,%d", x, y, z)
	}
	if n := SafeNormalize(mgl32.Vec3{}); n != (mgl32.Vec3{}) {
		t.Fatalf("SafeNormalize of zero = %v", n)
	}
}
