package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/sdf"
	"github.com/memmaker/sdfterrain/engine/util"
)

// ground is a horizontal plane at height h. Its bounds only cover a few chunks.
type ground struct {
	h float32
}

func (g ground) Distance(p mgl32.Vec3) float32 {
	return p.Z() - g.h
}

func (g ground) Bounds() util.AABB {
	return util.NewAABBFromMinMax(mgl32.Vec3{-24, -24, g.h - 1}, mgl32.Vec3{24, 24, g.h + 1})
}

const groundHeight = 5.3

func groundTerrain(t *testing.T) *Terrain {
	t.Helper()
	terrain := newTestTerrain(t, 0, DefaultOptions())
	terrain.Volume().Add(sdf.NewShape(ground{h: groundHeight}))
	settle(t, terrain, mgl32.Vec3{8, 8, 12}, 48, func() { checkClassification(t, terrain) })
	if terrain.GetChunk(Int3{}) == nil {
		t.Fatalf("ground chunk not resident")
	}
	return terrain
}

func TestGroundVoxels(t *testing.T) {
	terrain := groundTerrain(t)
	cases := []struct {
		z    int32
		want BlockType
	}{
		{9, Exterior},
		{6, Exterior},
		{5, Surface},
		{3, Interior},
	}
	for _, c := range cases {
		if got := terrain.GetVoxel(8, 8, c.z); got != c.want {
			t.Errorf("voxel at z=%d is %s, want %s", c.z, got, c.want)
		}
	}

	lit := SKY_BRIGHTNESS * ambientOcclusion * 0.85
	if got := terrain.GetLight(8, 8, 5); !near(got, lit, 1e-5) {
		t.Errorf("resident light = %v, want %v", got, lit)
	}
	if got := terrain.GetLight(100, 100, 100); got != SKY_BRIGHTNESS {
		t.Errorf("light without chunk = %v", got)
	}
}

func TestRaycastFindsGround(t *testing.T) {
	terrain := groundTerrain(t)
	start := mgl32.Vec3{8.5, 8.5, 12.3}

	result := terrain.Raycast(start, mgl32.Vec3{0, 0, -20})
	if !result.Hit {
		t.Fatalf("raycast missed: %s", result)
	}
	if !near(result.Distance, 7, 0.01) || !near(result.PosF.Z(), groundHeight, 0.01) {
		t.Errorf("raycast hit %s", result)
	}
	if result.PosI != (Int3{8, 8, 5}) {
		t.Errorf("raycast voxel %v", result.PosI)
	}
	if n := util.SafeNormalize(result.Normal); n.Z() < 0.99 {
		t.Errorf("raycast normal %v", result.Normal)
	}

	if up := terrain.Raycast(start, mgl32.Vec3{0, 0, 20}); up.Hit {
		t.Errorf("upward raycast hit %s", up)
	}
}

func TestRaycastFast(t *testing.T) {
	terrain := groundTerrain(t)

	result := terrain.RaycastFast(mgl32.Vec3{8.5, 8.5, 12.3}, mgl32.Vec3{0, 0, -20}, false)
	if !result.Hit || result.Type != Surface {
		t.Fatalf("fast raycast missed: %s", result)
	}
	if !near(result.Distance, 7, 0.01) || !near(result.Normal.Z(), 1, 0.01) {
		t.Errorf("fast raycast hit %s", result)
	}

	// starting inside a surface voxel only counts with allowSourceCollision
	inside := mgl32.Vec3{8.5, 8.5, 5.5}
	if skipped := terrain.RaycastFast(inside, mgl32.Vec3{0, 0, -5}, false); skipped.Hit {
		t.Errorf("source voxel counted: %s", skipped)
	}
	if src := terrain.RaycastFast(inside, mgl32.Vec3{0, 0, -5}, true); !src.Hit || !near(src.Distance, 0.2, 0.01) {
		t.Errorf("source voxel hit %s", src)
	}
}

func TestVoxelRaycast(t *testing.T) {
	terrain := groundTerrain(t)
	start := mgl32.Vec3{8.5, 8.5, 12.3}
	if !terrain.VoxelRaycast(start, mgl32.Vec3{0, 0, -20}, 0) {
		t.Errorf("downward voxel raycast missed")
	}
	if terrain.VoxelRaycast(start, mgl32.Vec3{0, 0, 20}, 0) {
		t.Errorf("upward voxel raycast hit")
	}
	if terrain.VoxelRaycast(start, mgl32.Vec3{0, 0, -3}, 0) {
		t.Errorf("short voxel raycast reached the ground")
	}
}

func TestVoxelRaycastCollisionOverride(t *testing.T) {
	terrain := groundTerrain(t)
	start := mgl32.Vec3{8.5, 8.5, 12.3}
	// ends inside the surface voxel at z=5, the interior below is never visited
	ray := mgl32.Vec3{0, 0, -6.5}
	if !terrain.VoxelRaycast(start, ray, 0) {
		t.Fatalf("voxel raycast missed the surface voxel")
	}

	terrain.SetBlockCollision(Surface, false)
	if terrain.GetCollision(8, 8, 5) {
		t.Errorf("surface voxel still collides")
	}
	if terrain.VoxelRaycast(start, ray, 0) {
		t.Errorf("voxel raycast hit a non colliding surface")
	}
	if !terrain.VoxelRaycast(start, mgl32.Vec3{0, 0, -20}, 0) {
		t.Errorf("voxel raycast did not reach the interior")
	}

	terrain.SetBlockCollision(Surface, true)
	if !terrain.VoxelRaycast(start, ray, 0) {
		t.Errorf("restored collision not honoured")
	}
	if terrain.VoxelRaycast(mgl32.Vec3{8.5, 8.5, 5.5}, mgl32.Vec3{0, 0, 0.9}, 1) {
		t.Errorf("minSteps did not skip the source voxel")
	}
}

func TestRaycastTouchesUnloaded(t *testing.T) {
	terrain := groundTerrain(t)
	terrain.Dirty(util.NewAABBFromMinMax(mgl32.Vec3{198, 6, 6}, mgl32.Vec3{202, 10, 10}))

	result := terrain.Raycast(mgl32.Vec3{200.5, 8.5, 12.3}, mgl32.Vec3{0, 0, -10})
	if result.Hit || !result.TouchedUnloaded {
		t.Errorf("raycast through unloaded chunk: %s", result)
	}
	fast := terrain.RaycastFast(mgl32.Vec3{200.5, 8.5, 12.3}, mgl32.Vec3{0, 0, -10}, false)
	if fast.Hit || !fast.TouchedUnloaded {
		t.Errorf("fast raycast through unloaded chunk: %s", fast)
	}
}

func TestSweepSphere(t *testing.T) {
	terrain := groundTerrain(t)
	sphere := util.Sphere{Center: mgl32.Vec3{8.5, 8.5, 8.3}, Radius: 1}

	result, ok := terrain.SweepSphere(sphere, mgl32.Vec3{0, 0, -5})
	if !ok {
		t.Fatalf("sweep missed the ground")
	}
	if !near(result.Distance, 2, 0.01) {
		t.Errorf("sweep distance %v, want 2", result.Distance)
	}
	if !near(result.Normal.Z(), 1, 0.01) {
		t.Errorf("sweep normal %v", result.Normal)
	}
	if result.Position.Sub(mgl32.Vec3{8.5, 8.5, groundHeight}).Len() > 0.01 {
		t.Errorf("sweep contact %v", result.Position)
	}

	if _, ok := terrain.SweepSphere(sphere, mgl32.Vec3{0, 0, 5}); ok {
		t.Errorf("sweep away from the ground hit")
	}
}

func TestPushOutSphere(t *testing.T) {
	terrain := groundTerrain(t)

	offset, ok := terrain.PushOutSphere(util.Sphere{Center: mgl32.Vec3{8.5, 8.5, 5.8}, Radius: 1})
	if !ok {
		t.Fatalf("sphere inside the ground was not pushed out")
	}
	if offset.Sub(mgl32.Vec3{0, 0, 0.5}).Len() > 0.01 {
		t.Errorf("push out offset %v, want (0, 0, 0.5)", offset)
	}

	if _, ok := terrain.PushOutSphere(util.Sphere{Center: mgl32.Vec3{8.5, 8.5, 20}, Radius: 1}); ok {
		t.Errorf("sphere above the ground was pushed")
	}
}
