package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/sdfterrain/engine/sdf"
	"github.com/memmaker/sdfterrain/engine/util"
)

// Context carries what used to be process wide state. Terrain and its jobs only
// log and time through it.
type Context struct {
	Log     *util.Logger
	Timer   *util.Timer
	NewMesh MeshFactory
}

func NewContext(log *util.Logger) *Context {
	if log == nil {
		log = util.DefaultLogger()
	}
	return &Context{
		Log:     log,
		Timer:   util.NewTimer(),
		NewMesh: NewMeshBuffer,
	}
}

type Options struct {
	// MaxLoadedChunks is the chunk pool capacity, it includes chunks owned by jobs.
	MaxLoadedChunks int
	// MaxActiveChunks caps the chunks drawn per Render call.
	MaxActiveChunks int
}

func DefaultOptions() Options {
	return Options{
		MaxLoadedChunks: DEFAULT_MAX_LOADED_CHUNKS,
		MaxActiveChunks: DEFAULT_MAX_ACTIVE_CHUNKS,
	}
}

type chunkSort struct {
	c     *Chunk
	pos   Int3
	score float32
}

// Terrain streams chunks of the volume around a view center. All methods belong to
// a single goroutine, only job bodies run on the worker pool.
type Terrain struct {
	ctx    *Context
	opts   Options
	volume *sdf.Volume

	render      bool
	initialized bool
	pool        *util.WorkerPool
	jobs        []*Job

	chunkPool    *util.ObjectPool[Chunk]
	meshes       []RenderMesh
	chunks       map[Int3]*Chunk
	vertexCounts map[Int3]VertexCount
	generated    map[Int3]*Chunk
	sorts        []chunkSort

	center mgl32.Vec3
	radius float32

	blockCollision [BlockTypeCount]bool
	debugText      func(pos mgl32.Vec3, text string)
	equilibrium    bool
}

func NewTerrain(ctx *Context, opts Options) *Terrain {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	if ctx.NewMesh == nil {
		ctx.NewMesh = NewMeshBuffer
	}
	if opts.MaxLoadedChunks <= 0 {
		opts.MaxLoadedChunks = DEFAULT_MAX_LOADED_CHUNKS
	}
	if opts.MaxActiveChunks <= 0 {
		opts.MaxActiveChunks = DEFAULT_MAX_ACTIVE_CHUNKS
	}
	return &Terrain{
		ctx:            ctx,
		opts:           opts,
		volume:         sdf.NewVolume(),
		chunkPool:      util.NewObjectPool[Chunk](opts.MaxLoadedChunks),
		chunks:         make(map[Int3]*Chunk),
		vertexCounts:   make(map[Int3]VertexCount),
		generated:      make(map[Int3]*Chunk),
		blockCollision: defaultBlockCollision(),
	}
}

// Initialize starts maxThreads workers. With zero workers every job runs inline
// inside Update. One job slot exists per worker, at least one.
func (t *Terrain) Initialize(maxThreads int, render bool) {
	if t.initialized {
		t.Terminate()
	}
	if maxThreads < 0 {
		maxThreads = 0
	}
	t.render = render
	t.pool = util.NewWorkerPool(maxThreads)
	jobCount := max(1, maxThreads)
	t.jobs = make([]*Job, jobCount)
	for i := range t.jobs {
		t.jobs[i] = NewJob(t.ctx.Timer)
	}
	t.initialized = true
	t.ctx.Log.Log(util.LogSystem, util.LogLevelInfo, "terrain initialized", "workers", maxThreads, "jobs", jobCount, "render", render, "maxLoadedChunks", t.opts.MaxLoadedChunks)
}

// Terminate waits for running jobs, drops their results and frees every chunk.
func (t *Terrain) Terminate() {
	if !t.initialized {
		return
	}
	t.pool.Stop(true)
	t.pool = nil

	for _, job := range t.jobs {
		if job.Wait() == JobPendingFinish {
			job.Finish()
		}
	}
	t.jobs = nil

	for _, chunk := range t.chunkPool.Allocated() {
		t.freeChunk(chunk)
	}
	if t.chunkPool.Len() != 0 {
		panic("terrain: chunks left allocated after terminate")
	}
	// meshes survive pooling, release them once at the end
	for _, mesh := range t.meshes {
		mesh.Release()
	}
	t.meshes = nil

	t.sorts = nil
	t.generated = make(map[Int3]*Chunk)
	t.initialized = false
	t.ctx.Log.Log(util.LogSystem, util.LogLevelInfo, "terrain terminated")
}

func (t *Terrain) Volume() *sdf.Volume {
	return t.volume
}

// SetDebugText installs a callback that receives a label for every candidate chunk
// on each Update.
func (t *Terrain) SetDebugText(fn func(pos mgl32.Vec3, text string)) {
	t.debugText = fn
}

// SetBlockCollision overrides which block types stop VoxelRaycast and collide.
func (t *Terrain) SetBlockCollision(block BlockType, collides bool) {
	t.blockCollision[block] = collides
}

// Equilibrium reports whether the last Update stopped dispatching because every
// chunk slot already holds higher priority terrain.
func (t *Terrain) Equilibrium() bool {
	return t.equilibrium
}

// Busy reports whether any job is still assigned.
func (t *Terrain) Busy() bool {
	for _, job := range t.jobs {
		if job.HasJob() {
			return true
		}
	}
	return false
}

func (t *Terrain) allocChunk(pos Int3) *Chunk {
	chunk := t.chunkPool.Allocate()
	if chunk == nil {
		return nil
	}
	chunk.reset(pos)
	return chunk
}

// freeChunk drops a chunk from the world index if it is the indexed one and
// returns it to the pool. The render mesh stays with the pooled chunk.
func (t *Terrain) freeChunk(chunk *Chunk) {
	if resident, ok := t.chunks[chunk.pos]; ok && resident == chunk {
		delete(t.chunks, chunk.pos)
	}
	if generated, ok := t.generated[chunk.pos]; ok && generated == chunk {
		delete(t.generated, chunk.pos)
	}
	chunk.vertices = nil
	t.chunkPool.Free(chunk)
}

func (t *Terrain) GetChunk(pos Int3) *Chunk {
	return t.chunks[pos]
}

func (t *Terrain) GetVertexCount(pos Int3) VertexCount {
	return t.vertexCounts[pos]
}

func (t *Terrain) setVertexCount(pos Int3, count VertexCount) {
	if count != VertexCountDirty && count != VertexCountInterior && int(count) >= MAX_CHUNK_VERTS {
		panic("terrain: vertex count out of range")
	}
	if count == VertexCountEmpty {
		delete(t.vertexCounts, pos)
		return
	}
	t.vertexCounts[pos] = count
}

// Render draws resident chunks in priority order, at most MaxActiveChunks of them.
func (t *Terrain) Render(shader Shader, uniforms Uniforms) {
	if !t.render {
		return
	}
	active := 0
	for _, sort := range t.sorts {
		if active >= t.opts.MaxActiveChunks {
			break
		}
		if sort.c == nil {
			continue
		}
		if t.vertexCounts[sort.pos] == VertexCountEmpty {
			panic("terrain: rendering chunk without vertices")
		}
		if sort.c.mesh != nil {
			sort.c.mesh.Draw(shader, uniforms)
			active++
		}
	}
	t.ctx.Log.Log(util.LogOpenGL, util.LogLevelDebug, "terrain render", "active", active, "allocated", t.chunkPool.Len())
}

type Stats struct {
	Allocated   int
	Resident    int
	Generated   int
	Candidates  int
	RunningJobs int
	Vertices    int
	Triangles   int
	Interior    int
	Dirty       int
	Meshes      int
}

func (t *Terrain) Stats() Stats {
	s := Stats{
		Allocated:  t.chunkPool.Len(),
		Resident:   len(t.chunks),
		Generated:  len(t.generated),
		Candidates: len(t.sorts),
	}
	for _, job := range t.jobs {
		if job.HasJob() {
			s.RunningJobs++
		}
	}
	for _, chunk := range t.chunks {
		s.Vertices += len(chunk.vertices)
		s.Triangles += chunk.indexCount / 3
	}
	for _, count := range t.vertexCounts {
		switch count {
		case VertexCountDirty:
			s.Dirty++
		case VertexCountInterior:
			s.Interior++
		default:
			s.Meshes++
		}
	}
	return s
}
