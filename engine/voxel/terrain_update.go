package voxel

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/util"
)

var faceNeighbours = [6]Int3{
	{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	{-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
}

// chunkScore ranks a chunk position, lower is better. Positions without a known
// neighbour are pushed back so the surface is followed outwards first.
func (t *Terrain) chunkScore(pos Int3) float32 {
	centerDistance := t.center.Sub(ChunkAABB(pos).Center()).Len()
	for _, offset := range faceNeighbours {
		if t.vertexCounts[pos.Add(offset)] > VertexCountEmpty {
			return centerDistance
		}
	}
	return centerDistance * centerDistance
}

// Update drives streaming. It must be called once per frame or tick from the
// goroutine that owns the terrain.
func (t *Terrain) Update(center mgl32.Vec3, radius float32) {
	if !t.initialized {
		panic("terrain: Update before Initialize")
	}
	stop := t.ctx.Timer.Start("terrain.update")
	defer stop()

	t.center = center
	t.radius = radius
	t.equilibrium = false

	for _, region := range t.volume.DirtyRegions() {
		t.Dirty(region)
	}

	t.buildCandidates()
	t.emitDebugText()
	t.finishJobs()

	if t.pool.Size() == 0 || t.pool.Idle() == t.pool.Size() {
		t.volume.UpdatePending()
	} else if t.volume.HasPending() {
		t.updateLighting()
		return
	}

	t.dispatchJobs()
	t.updateLighting()
}

func (t *Terrain) buildCandidates() {
	chunkViewRadius := int32(t.radius / float32(CHUNK_SIZE))
	viewDiam := chunkViewRadius + chunkViewRadius
	viewChunk := Int3{
		int32(util.Round(t.center.X() / float32(CHUNK_SIZE))),
		int32(util.Round(t.center.Y() / float32(CHUNK_SIZE))),
		int32(util.Round(t.center.Z() / float32(CHUNK_SIZE))),
	}

	candidates := make(map[Int3]chunkSort)
	for k := int32(0); k < viewDiam; k++ {
		for j := int32(0); j < viewDiam; j++ {
			for i := int32(0); i < viewDiam; i++ {
				pos := Int3{i - chunkViewRadius, j - chunkViewRadius, k - chunkViewRadius}.Add(viewChunk)
				if t.center.Sub(ChunkAABB(pos).Center()).Len() >= t.radius {
					continue
				}
				count := t.vertexCounts[pos]
				if count == VertexCountEmpty || count == VertexCountInterior {
					continue
				}
				c := t.chunks[pos]
				if c != nil && len(c.vertices) == 0 {
					panic(fmt.Sprintf("terrain: resident %v without vertices", c))
				}
				candidates[pos] = chunkSort{c: c, pos: pos, score: t.chunkScore(pos)}
			}
		}
	}
	for pos, c := range t.generated {
		candidates[pos] = chunkSort{c: c, pos: pos, score: t.chunkScore(pos)}
	}

	t.sorts = t.sorts[:0]
	for _, cs := range candidates {
		t.sorts = append(t.sorts, cs)
	}
	sort.SliceStable(t.sorts, func(a, b int) bool {
		if t.sorts[a].score != t.sorts[b].score {
			return t.sorts[a].score < t.sorts[b].score
		}
		return t.sorts[a].pos.Less(t.sorts[b].pos)
	})
}

func (t *Terrain) jobWithChunk(pos Int3) *Job {
	for _, job := range t.jobs {
		if job.HasChunk(pos) {
			return job
		}
	}
	return nil
}

func (t *Terrain) emitDebugText() {
	if t.debugText == nil {
		return
	}
	for _, cs := range t.sorts {
		status := "pending"
		if cs.c != nil {
			if t.jobWithChunk(cs.pos) != nil {
				status = "refreshing"
			} else {
				status = "generated"
			}
		}
		text := fmt.Sprintf("pos:%d,%d,%d\nscore:%.2f\nstatus:%s", cs.pos.X, cs.pos.Y, cs.pos.Z, cs.score, status)
		t.debugText(ChunkAABB(cs.pos).Center(), text)
	}
}

// finishJobs merges every completed job into the world.
func (t *Terrain) finishJobs() {
	for _, job := range t.jobs {
		if job.Poll() != JobPendingFinish {
			continue
		}
		newChunk := job.Chunk()
		if newChunk == nil {
			panic("terrain: finished job without chunk")
		}
		pos := newChunk.pos
		vertexCount := job.VertexCount()
		oldChunk := t.chunks[pos]

		if !vertexCount.IsMesh() {
			t.freeChunk(newChunk)
			newChunk = nil
		} else {
			vertices := job.Vertices()
			indices := job.Indices()
			if t.render {
				if newChunk.mesh == nil {
					newChunk.mesh = t.ctx.NewMesh()
					t.meshes = append(t.meshes, newChunk.mesh)
				}
				newChunk.mesh.Upload(vertices, indices)
			}
			newChunk.vertices = make([]Vertex, len(vertices))
			copy(newChunk.vertices, vertices)
			newChunk.indexCount = len(indices)
			newChunk.lightDirty = true
			if oldChunk != nil {
				// edits made while the job ran are still pending on the old chunk
				newChunk.geoDirty = oldChunk.geoDirty
			}
			if job.stale {
				newChunk.geoDirty = true
			}
		}

		if oldChunk != nil {
			for i := range t.sorts {
				if t.sorts[i].c == oldChunk {
					t.sorts[i].c = newChunk
					break
				}
			}
			t.freeChunk(oldChunk)
		}

		t.setVertexCount(pos, vertexCount)
		if job.stale && newChunk == nil {
			t.setVertexCount(pos, VertexCountDirty)
		}
		if newChunk != nil {
			t.chunks[pos] = newChunk
			t.generated[pos] = newChunk
		} else {
			delete(t.chunks, pos)
		}

		t.ctx.Log.Log(util.LogJobs, util.LogLevelDebug, "finished chunk", "pos", pos, "vertices", vertexCount, "stale", job.stale)
		job.Finish()
	}
}

// dispatchJobs walks the candidates in priority order and starts jobs for missing
// or dirty chunks until workers, jobs or pool slots run out.
func (t *Terrain) dispatchJobs() {
	for i := 0; i < len(t.sorts); i++ {
		cs := t.sorts[i]
		pos := cs.pos
		chunk := cs.c
		indexed := t.chunks[pos]
		if chunk != nil {
			if indexed != chunk {
				panic(fmt.Sprintf("terrain: sorted %v is not the indexed chunk %v", chunk, indexed))
			}
			if t.vertexCounts[pos] == VertexCountDirty {
				panic(fmt.Sprintf("terrain: resident %v classified dirty", chunk))
			}
		} else {
			// picks up chunks finished after sorting
			chunk = indexed
		}

		if chunk != nil && !chunk.geoDirty {
			continue
		}
		if t.pool.Idle() == 0 && t.pool.Size() > 0 {
			break
		}
		var job *Job
		for _, j := range t.jobs {
			if !j.HasJob() {
				job = j
				break
			}
		}
		if job == nil {
			break
		}
		if t.jobWithChunk(pos) != nil {
			continue
		}

		chunkDirty := false
		if chunk != nil && chunk.geoDirty {
			// cleared now so edits arriving while the job runs dirty the result again
			chunk.geoDirty = false
			chunkDirty = true
		}

		chunk = t.allocChunk(pos)
		if chunk == nil {
			chunk = t.evictFor(i, chunkDirty)
		}
		if chunk == nil {
			t.equilibrium = true
			t.ctx.Log.Log(util.LogJobs, util.LogLevelDebug, "chunk loading reached equilibrium", "allocated", t.chunkPool.Len())
			break
		}

		job.StartNew(t.volume, chunk)
		job.run()
		t.ctx.Log.Log(util.LogJobs, util.LogLevelDebug, "start chunk", "pos", pos, "score", cs.score, "dirty", chunkDirty)
		if !t.pool.Submit(job.Do) {
			job.Do()
			break
		}
	}
}

// evictFor frees the lowest priority resident chunk to make room for the candidate
// at index. Dirty candidates may always steal.
func (t *Terrain) evictFor(index int, chunkDirty bool) *Chunk {
	candidate := t.sorts[index]
	for i := len(t.sorts) - 1; i >= 0; i-- {
		other := t.sorts[i]
		if other.c == nil {
			t.sorts = append(t.sorts[:i], t.sorts[i+1:]...)
			continue
		}
		if !chunkDirty && other.score <= candidate.score {
			return nil
		}
		t.ctx.Log.Log(util.LogJobs, util.LogLevelDebug, "evict chunk", "pos", other.pos, "score", other.score, "for", candidate.pos)
		t.freeChunk(other.c)
		t.sorts = append(t.sorts[:i], t.sorts[i+1:]...)
		chunk := t.allocChunk(candidate.pos)
		if chunk == nil {
			panic("terrain: pool still exhausted after eviction")
		}
		return chunk
	}
	return nil
}

// Dirty schedules every chunk touching aabb, grown by SDF_BOUNDARY, for regeneration.
func (t *Terrain) Dirty(aabb util.AABB) {
	if !aabb.IsFinite() {
		t.ctx.Log.Log(util.LogVoxel, util.LogLevelWarning, "ignoring non finite dirty region", "aabb", aabb.String())
		return
	}
	aabb = aabb.Expand(SDF_BOUNDARY)
	size := float32(CHUNK_SIZE)
	minChunk := Int3{util.FloorInt(aabb.Min().X() / size), util.FloorInt(aabb.Min().Y() / size), util.FloorInt(aabb.Min().Z() / size)}
	maxChunk := Int3{util.CeilInt(aabb.Max().X() / size), util.CeilInt(aabb.Max().Y() / size), util.CeilInt(aabb.Max().Z() / size)}
	t.ctx.Log.Log(util.LogVoxel, util.LogLevelDebug, "dirty area", "aabb", aabb.String(), "min", minChunk, "max", maxChunk)

	for z := minChunk.Z; z < maxChunk.Z; z++ {
		for y := minChunk.Y; y < maxChunk.Y; y++ {
			for x := minChunk.X; x < maxChunk.X; x++ {
				pos := Int3{x, y, z}
				if chunk := t.chunks[pos]; chunk != nil {
					chunk.geoDirty = true
				} else {
					t.setVertexCount(pos, VertexCountDirty)
				}
				if job := t.jobWithChunk(pos); job != nil {
					job.stale = true
				}
			}
		}
	}
}
