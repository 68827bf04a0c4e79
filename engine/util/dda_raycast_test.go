package util

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func walkAll(start, ray mgl32.Vec3) [][3]int32 {
	walk, ok := NewVoxelWalk(start, ray)
	cells := [][3]int32{{walk.X, walk.Y, walk.Z}}
	if !ok {
		return cells
	}
	for walk.Next() {
		cells = append(cells, [3]int32{walk.X, walk.Y, walk.Z})
	}
	return cells
}

func TestVoxelWalkAxis(t *testing.T) {
	cells := walkAll(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{3, 0, 0})
	want := [][3]int32{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	if len(cells) != len(want) {
		t.Fatalf("walked %v, want %v", cells, want)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Fatalf("walked %v, want %v", cells, want)
		}
	}
}

func TestVoxelWalkNegative(t *testing.T) {
	// the end point lies in voxel -2, it must be visited
	cells := walkAll(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{-2.25, 0, 0})
	last := cells[len(cells)-1]
	if last != [3]int32{-2, 0, 0} {
		t.Fatalf("walk ended in %v, visited %v", last, cells)
	}
	if len(cells) != 3 {
		t.Fatalf("visited %v", cells)
	}
}

func TestVoxelWalkFaceConnected(t *testing.T) {
	cells := walkAll(mgl32.Vec3{0.2, 0.7, 0.1}, mgl32.Vec3{4.3, -3.1, 2.6})
	for i := 1; i < len(cells); i++ {
		d := 0
		for a := 0; a < 3; a++ {
			diff := cells[i][a] - cells[i-1][a]
			if diff < 0 {
				diff = -diff
			}
			d += int(diff)
		}
		if d != 1 {
			t.Fatalf("step %d jumps from %v to %v", i, cells[i-1], cells[i])
		}
	}
	last := cells[len(cells)-1]
	if last != [3]int32{4, -3, 2} {
		t.Fatalf("walk ended in %v", last)
	}
}

func TestVoxelWalkZeroRay(t *testing.T) {
	if _, ok := NewVoxelWalk(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}); ok {
		t.Fatalf("zero ray must not walk")
	}
}

func TestDDARaycast(t *testing.T) {
	x, y, z, hit := DDARaycast(mgl32.Vec3{0.5, 0.5, 5.5}, mgl32.Vec3{0.5, 0.5, -5.5}, func(x, y, z int32) bool {
		return z < 2
	})
	if !hit || x != 0 || y != 0 || z != 1 {
		t.Fatalf("stopped at %d,%d,%d hit=%t", x, y, z, hit)
	}
}
