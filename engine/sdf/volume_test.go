package sdf

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestVolumeEditsStayPendingUntilCommit(t *testing.T) {
	v := NewVolume()
	if got := v.Value(mgl32.Vec3{}); got != FarDistance {
		t.Fatalf("empty volume value = %v, want %v", got, FarDistance)
	}

	sphere := v.Add(NewSphere(5))
	if !v.HasPending() {
		t.Fatalf("expected pending edit after Add")
	}
	if got := v.Value(mgl32.Vec3{}); got != FarDistance {
		t.Fatalf("uncommitted shape changed value to %v", got)
	}

	v.UpdatePending()
	if v.HasPending() {
		t.Fatalf("pending edits left after commit")
	}
	if got := v.Value(mgl32.Vec3{}); !near(got, -5, 1e-5) {
		t.Fatalf("value at center = %v, want -5", got)
	}

	sphere.SetPosition(mgl32.Vec3{10, 0, 0})
	if !v.HasPending() {
		t.Fatalf("moving a shape must be pending")
	}
	if got := v.Value(mgl32.Vec3{}); !near(got, -5, 1e-5) {
		t.Fatalf("moved shape visible before commit: %v", got)
	}
	v.UpdatePending()
	if got := v.Value(mgl32.Vec3{10, 0, 0}); !near(got, -5, 1e-5) {
		t.Fatalf("value at new center = %v, want -5", got)
	}
}

func TestDirtyRegionsReportPreviousAndCurrentBounds(t *testing.T) {
	v := NewVolume()
	box := v.Add(NewBox(mgl32.Vec3{1, 1, 1}, 0))

	regions := v.DirtyRegions()
	if len(regions) != 1 {
		t.Fatalf("new shape: got %d regions, want 1", len(regions))
	}
	if len(v.DirtyRegions()) != 0 {
		t.Fatalf("regions must be cleared after reading")
	}

	box.SetPosition(mgl32.Vec3{20, 0, 0})
	regions = v.DirtyRegions()
	if len(regions) != 2 {
		t.Fatalf("moved shape: got %d regions, want 2", len(regions))
	}
	if c := regions[0].Center(); !near(c.X(), 0, 1e-5) {
		t.Errorf("previous region centered at %v, want origin", c)
	}
	if c := regions[1].Center(); !near(c.X(), 20, 1e-5) {
		t.Errorf("current region centered at %v, want x=20", c)
	}

	v.Remove(box)
	regions = v.DirtyRegions()
	if len(regions) == 0 {
		t.Fatalf("removing a shape must dirty its region")
	}
}

func TestOpsFoldInOrder(t *testing.T) {
	v := NewVolume()
	v.Add(NewBox(mgl32.Vec3{10, 10, 10}, 0)).SetMaterial(1)
	v.Add(NewSphere(4)).SetOp(Subtraction, 0).SetMaterial(2)
	v.UpdatePending()

	if got := v.Value(mgl32.Vec3{}); got <= 0 {
		t.Fatalf("carved center should be outside, got %v", got)
	}
	if got := v.Value(mgl32.Vec3{7, 0, 0}); got >= 0 {
		t.Fatalf("solid part should be inside, got %v", got)
	}
	if got := v.Material(mgl32.Vec3{4, 0, 0}); got != 2 {
		t.Errorf("material on carved surface = %d, want 2", got)
	}
	if got := v.Material(mgl32.Vec3{10, 0, 0}); got != 1 {
		t.Errorf("material on box surface = %d, want 1", got)
	}
}

func TestSmoothUnionBlends(t *testing.T) {
	hard := NewVolume()
	hard.Add(NewSphere(3)).SetPosition(mgl32.Vec3{-3, 0, 0})
	hard.Add(NewSphere(3)).SetPosition(mgl32.Vec3{3, 0, 0})
	hard.UpdatePending()

	smooth := NewVolume()
	smooth.Add(NewSphere(3)).SetPosition(mgl32.Vec3{-3, 0, 0})
	smooth.Add(NewSphere(3)).SetPosition(mgl32.Vec3{3, 0, 0}).SetOp(SmoothUnion, 2)
	smooth.UpdatePending()

	p := mgl32.Vec3{0, 2.5, 0}
	if smooth.Value(p) >= hard.Value(p) {
		t.Fatalf("smooth union should fill the crease: %v >= %v", smooth.Value(p), hard.Value(p))
	}
}

func TestGradientOfSphere(t *testing.T) {
	v := NewVolume()
	v.Add(NewSphere(8))
	v.UpdatePending()

	n := v.Derivative(mgl32.Vec3{0, 0, 8})
	if !near(n.Z(), 1, 1e-3) || !near(n.X(), 0, 1e-3) {
		t.Fatalf("normal at top = %v", n)
	}
	n = v.Derivative(mgl32.Vec3{-8, 0, 0})
	if !near(n.X(), -1, 1e-3) {
		t.Fatalf("normal at -x = %v", n)
	}
}

func TestTransformAndBounds(t *testing.T) {
	s := NewCylinder(2, 5)
	s.SetTransform(mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DX(math.Pi / 2)))
	box := s.AABB()
	if !near(box.Max().Y()-box.Min().Y(), 10, 1e-4) {
		t.Fatalf("rotated cylinder should span 10 on y, got %v", box)
	}
	if !near(box.Center().Z(), 3, 1e-4) {
		t.Fatalf("bounds center = %v", box.Center())
	}
}

func TestSDF3Adapter(t *testing.T) {
	shape, err := RoundedBox(mgl32.Vec3{4, 4, 4}, 0)
	if err != nil {
		t.Fatalf("RoundedBox: %v", err)
	}
	v := NewVolume()
	v.Add(shape)
	v.UpdatePending()

	if got := v.Value(mgl32.Vec3{}); !near(got, -2, 1e-4) {
		t.Fatalf("center distance = %v, want -2", got)
	}
	if got := v.Value(mgl32.Vec3{5, 0, 0}); !near(got, 3, 1e-4) {
		t.Fatalf("outside distance = %v, want 3", got)
	}
	b := shape.AABB()
	if !near(b.Min().X(), -2, 1e-4) || !near(b.Max().X(), 2, 1e-4) {
		t.Fatalf("bounds = %v", b)
	}

	arch, err := Arch(mgl32.Vec3{10, 4, 8}, 2)
	if err != nil {
		t.Fatalf("Arch: %v", err)
	}
	av := NewVolume()
	av.Add(arch)
	av.UpdatePending()
	if got := av.Value(mgl32.Vec3{0, 0, -3.5}); got <= 0 {
		t.Errorf("tunnel should be open, got %v", got)
	}
	if got := av.Value(mgl32.Vec3{4, 0, 2}); got >= 0 {
		t.Errorf("arch wall should be solid, got %v", got)
	}
}

func TestHeightMapFromImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(0, 0, color.Gray{Y: 0})
	img.SetGray(1, 0, color.Gray{Y: 255})
	img.SetGray(0, 1, color.Gray{Y: 0})
	img.SetGray(1, 1, color.Gray{Y: 255})

	hm := NewHeightMapFromImage(img, 0, mgl32.Vec2{10, 10}, 20)
	if got := hm.HeightAt(0, 5); !near(got, 0, 1e-4) {
		t.Errorf("left edge height = %v", got)
	}
	if got := hm.HeightAt(10, 5); !near(got, 20, 1e-4) {
		t.Errorf("right edge height = %v", got)
	}
	if got := hm.HeightAt(5, 5); !near(got, 10, 1e-3) {
		t.Errorf("middle height = %v", got)
	}
	if d := hm.Distance(mgl32.Vec3{5, 5, 15}); !near(d, 5, 1e-3) {
		t.Errorf("distance above middle = %v", d)
	}

	scaled := NewHeightMapFromImage(img, 8, mgl32.Vec2{10, 10}, 20)
	if scaled.width != 8 || scaled.depth != 8 {
		t.Errorf("resampled to %dx%d", scaled.width, scaled.depth)
	}
}

func TestLoadHeightMapMissingFile(t *testing.T) {
	if _, err := LoadHeightMap("does/not/exist.png", 0, mgl32.Vec2{1, 1}, 1); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseOp(t *testing.T) {
	if op, err := ParseOp("smooth_union"); err != nil || op != SmoothUnion {
		t.Fatalf("ParseOp(smooth_union) = %s, %v", op, err)
	}
	if _, err := ParseOp("intersection"); err == nil {
		t.Fatalf("unknown op accepted")
	}
}
