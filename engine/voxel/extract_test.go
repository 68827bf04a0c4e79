package voxel

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/sdf"
	"github.com/memmaker/sdfterrain/engine/util"
)

func sphereVolume(center mgl32.Vec3, radius float32) *sdf.Volume {
	vol := sdf.NewVolume()
	vol.Add(sdf.NewSphere(radius)).SetPosition(center)
	vol.UpdatePending()
	return vol
}

// generateChunk runs one job to completion on the calling goroutine.
func generateChunk(t *testing.T, sampler Sampler, pos Int3) (*Job, *Chunk) {
	t.Helper()
	job := NewJob(nil)
	chunk := &Chunk{}
	chunk.reset(pos)
	job.StartNew(sampler, chunk)
	job.run()
	job.Do()
	if state := job.Poll(); state != JobPendingFinish {
		t.Fatalf("job state after Do = %s", state)
	}
	return job, chunk
}

type edgeKey struct{ a, b Index }

func undirected(a, b Index) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

func TestSphereMeshIsClosed(t *testing.T) {
	center := mgl32.Vec3{8, 8, 8}
	job, _ := generateChunk(t, sphereVolume(center, 5), Int3{})

	if !job.VertexCount().IsMesh() {
		t.Fatalf("sphere chunk classified %s", job.VertexCount())
	}
	vertices := job.Vertices()
	indices := job.Indices()
	if len(indices)%3 != 0 || len(indices) == 0 {
		t.Fatalf("index count %d", len(indices))
	}

	edges := make(map[edgeKey]int)
	for i := 0; i < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		edges[undirected(a, b)]++
		edges[undirected(b, c)]++
		edges[undirected(c, a)]++
	}
	for e, n := range edges {
		if n != 2 {
			t.Fatalf("edge %v shared by %d triangles", e, n)
		}
	}

	outward := 0
	for i := 0; i < len(indices); i += 3 {
		p0 := vertices[indices[i]].Position
		p1 := vertices[indices[i+1]].Position
		p2 := vertices[indices[i+2]].Position
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3.0)
		if n.Dot(centroid.Sub(center)) > 0 {
			outward++
		}
	}
	if triangles := len(indices) / 3; outward < triangles*95/100 {
		t.Errorf("only %d of %d triangles face outwards", outward, triangles)
	}
}

func TestSphereVerticesLieOnSurface(t *testing.T) {
	center := mgl32.Vec3{8, 8, 8}
	job, chunk := generateChunk(t, sphereVolume(center, 5), Int3{})

	for i, v := range job.Vertices() {
		d := v.Position.Sub(center)
		if !near(d.Len(), 5, 0.25) {
			t.Fatalf("vertex %d at distance %v from center", i, d.Len())
		}
		if v.Normal.Dot(d.Normalize()) < 0.9 {
			t.Fatalf("vertex %d normal %v is not radial", i, v.Normal)
		}
		if v.Materials != [4]uint8{255, 0, 0, 0} {
			t.Fatalf("vertex %d materials %v", i, v.Materials)
		}
	}

	if got := chunk.GetLocalBlock(8, 8, 8); got != Interior {
		t.Errorf("center voxel = %s, want interior", got)
	}
	if got := chunk.GetLocalBlock(0, 0, 0); got != Exterior {
		t.Errorf("corner voxel = %s, want exterior", got)
	}
	surfaces := 0
	for n := range chunk.t {
		if chunk.t[n] == Surface {
			surfaces++
			if chunk.i[n] == INVALID_INDEX {
				t.Fatalf("surface voxel %d without vertex", n)
			}
		}
	}
	if surfaces == 0 {
		t.Fatalf("no surface voxels")
	}
}

func TestRegenerationIsIdempotent(t *testing.T) {
	vol := sphereVolume(mgl32.Vec3{3, 5, 7}, 11)
	first, _ := generateChunk(t, vol, Int3{})
	second, _ := generateChunk(t, vol, Int3{})
	if first.VertexCount() != second.VertexCount() {
		t.Fatalf("vertex counts differ: %d vs %d", first.VertexCount(), second.VertexCount())
	}
	if len(first.Indices()) != len(second.Indices()) {
		t.Fatalf("index counts differ: %d vs %d", len(first.Indices()), len(second.Indices()))
	}
}

func TestChunkClassification(t *testing.T) {
	vol := sphereVolume(mgl32.Vec3{}, 100)

	job, _ := generateChunk(t, vol, Int3{})
	if job.VertexCount() != VertexCountInterior {
		t.Errorf("chunk inside sphere = %s, want interior", job.VertexCount())
	}
	if job.Vertices() != nil {
		t.Errorf("interior chunk returned vertices")
	}

	job, _ = generateChunk(t, vol, Int3{20, 0, 0})
	if job.VertexCount() != VertexCountEmpty {
		t.Errorf("chunk outside sphere = %s, want empty", job.VertexCount())
	}
}

// checkerboard changes sign at every grid corner, so each voxel edge has a crossing.
type checkerboard struct{}

func (checkerboard) Distance(p mgl32.Vec3) float32 {
	wave := func(v float32) float64 { return math.Sin(math.Pi*float64(v) + 0.5) }
	return float32(wave(p.X()) * wave(p.Y()) * wave(p.Z()))
}

func (checkerboard) Bounds() util.AABB {
	return util.NewAABBFromMinMax(mgl32.Vec3{-64, -64, -64}, mgl32.Vec3{64, 64, 64})
}

func checkerboardVolume() *sdf.Volume {
	vol := sdf.NewVolume()
	vol.Add(sdf.NewShape(checkerboard{}))
	vol.UpdatePending()
	return vol
}

func TestCapacityOverflowIsEmpty(t *testing.T) {
	job, _ := generateChunk(t, checkerboardVolume(), Int3{})
	if job.VertexCount() != VertexCountEmpty {
		t.Fatalf("overflowing chunk classified %s, want empty", job.VertexCount())
	}
	if len(job.Indices()) != 0 || len(job.Vertices()) != 0 {
		t.Fatalf("overflowing chunk kept %d vertices and %d indices", len(job.Vertices()), len(job.Indices()))
	}
}

func TestJobStateMachine(t *testing.T) {
	job := NewJob(nil)
	if job.HasJob() {
		t.Fatalf("new job must be idle")
	}
	chunk := &Chunk{}
	chunk.reset(Int3{1, 2, 3})
	job.StartNew(sphereVolume(mgl32.Vec3{}, 3), chunk)
	if !job.HasJob() || !job.HasChunk(Int3{1, 2, 3}) || job.HasChunk(Int3{}) {
		t.Fatalf("assigned job does not report its chunk")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("starting an assigned job must panic")
		}
	}()
	job.StartNew(sphereVolume(mgl32.Vec3{}, 3), &Chunk{})
}

func TestGetIntersectionSolvesPlanes(t *testing.T) {
	positions := []mgl32.Vec3{{0.5, 0, 0.2}, {0, 0.5, 0.2}, {1, 0.5, 0.2}, {0.5, 1, 0.2}}
	normals := []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	p := GetIntersection(positions, normals)
	if !near(p.Z(), 0.2, 1e-4) || !near(p.X(), 0.5, 1e-4) || !near(p.Y(), 0.5, 1e-4) {
		t.Fatalf("intersection = %v", p)
	}
}

func BenchmarkGenerateSphereChunk(b *testing.B) {
	vol := sphereVolume(mgl32.Vec3{8, 8, 8}, 7)
	job := NewJob(nil)
	chunk := &Chunk{}
	for i := 0; i < b.N; i++ {
		chunk.reset(Int3{})
		job.StartNew(vol, chunk)
		job.run()
		job.Do()
		job.Poll()
		job.Finish()
	}
}
