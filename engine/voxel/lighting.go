package voxel

import "github.com/memmaker/sdfterrain/engine/util"

// ambient occlusion factor applied to every voxel until occlusion rays are traced
const ambientOcclusion float32 = 0.7125

func (t *Terrain) updateLighting() {
	stop := t.ctx.Timer.Start("terrain.lighting")
	defer stop()
	lit := 0
	for _, chunk := range t.chunks {
		if !chunk.lightDirty {
			continue
		}
		t.updateChunkLighting(chunk)
		lit++
	}
	if lit > 0 {
		t.ctx.Log.Log(util.LogVoxel, util.LogLevelDebug, "lit chunks", "count", lit)
	}
}

func (t *Terrain) updateChunkLighting(chunk *Chunk) {
	light := SKY_BRIGHTNESS * ambientOcclusion * 0.85
	for n := range chunk.l {
		chunk.l[n] = light
	}
	chunk.lightDirty = false
}
