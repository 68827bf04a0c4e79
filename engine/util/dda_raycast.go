package util

import (
	"github.com/go-gl/mathgl/mgl32"
)

const ddaNoCrossing = 1000000

// VoxelWalk is a 3D DDA (Amanatides & Woo) over the unit grid.
// X, Y and Z hold the current voxel. The walk ends when an axis steps onto
// the voxel just past the end of the ray on that axis.
type VoxelWalk struct {
	X, Y, Z int32

	step   [3]int32
	out    [3]int32
	tMax   mgl32.Vec3
	tDelta mgl32.Vec3
}

// NewVoxelWalk starts a walk at the voxel containing start. It returns false for rays
// that are too short to have a direction.
func NewVoxelWalk(start, ray mgl32.Vec3) (*VoxelWalk, bool) {
	w := &VoxelWalk{}
	w.X, w.Y, w.Z = ToGrid(start)
	if ray.LenSqr() < 0.001 {
		return w, false
	}
	dir := SafeNormalize(ray)
	end := start.Add(ray)
	cell := [3]int32{w.X, w.Y, w.Z}

	for i := 0; i < 3; i++ {
		var boundary float32
		if dir[i] > 0 {
			w.step[i] = 1
			w.out[i] = CeilInt(end[i])
			boundary = float32(cell[i] + 1)
		} else {
			w.step[i] = -1
			w.out[i] = FloorInt(end[i]) - 1
			boundary = float32(cell[i])
		}

		if dir[i] != 0 {
			inv := 1.0 / dir[i]
			w.tMax[i] = (boundary - start[i]) * inv
			w.tDelta[i] = float32(w.step[i]) * inv
		} else {
			w.tMax[i] = ddaNoCrossing
		}
	}
	return w, true
}

// Next moves to the neighbouring voxel the ray enters first.
// It returns false once the ray has left its extent.
func (w *VoxelWalk) Next() bool {
	axis := 2
	if w.tMax[0] < w.tMax[1] {
		if w.tMax[0] < w.tMax[2] {
			axis = 0
		}
	} else if w.tMax[1] < w.tMax[2] {
		axis = 1
	}

	switch axis {
	case 0:
		w.X += w.step[0]
		if w.X == w.out[0] {
			return false
		}
	case 1:
		w.Y += w.step[1]
		if w.Y == w.out[1] {
			return false
		}
	default:
		w.Z += w.step[2]
		if w.Z == w.out[2] {
			return false
		}
	}
	w.tMax[axis] += w.tDelta[axis]
	return true
}

// DDARaycast walks from rayStart to rayEnd and reports the first voxel for which stopRay is true.
func DDARaycast(rayStart, rayEnd mgl32.Vec3, stopRay func(x, y, z int32) bool) (int32, int32, int32, bool) {
	walk, ok := NewVoxelWalk(rayStart, rayEnd.Sub(rayStart))
	if !ok {
		return walk.X, walk.Y, walk.Z, stopRay(walk.X, walk.Y, walk.Z)
	}
	for !stopRay(walk.X, walk.Y, walk.Z) {
		if !walk.Next() {
			return walk.X, walk.Y, walk.Z, false
		}
	}
	return walk.X, walk.Y, walk.Z, true
}
