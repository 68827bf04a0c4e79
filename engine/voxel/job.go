package voxel

import (
	"fmt"

	"github.com/memmaker/sdfterrain/engine/util"
)

type JobState int

const (
	JobIdle JobState = iota
	JobAssigned
	JobRunning
	JobPendingFinish
)

func (s JobState) String() string {
	switch s {
	case JobIdle:
		return "idle"
	case JobAssigned:
		return "assigned"
	case JobRunning:
		return "running"
	case JobPendingFinish:
		return "pending finish"
	}
	return fmt.Sprintf("JobState(%d)", int(s))
}

// Job generates one chunk off the owning goroutine. Only Do runs on a worker, every
// other method belongs to the terrain's goroutine. The scratch buffers are reused
// from chunk to chunk.
type Job struct {
	state   JobState
	sampler Sampler
	chunk   *Chunk
	timer   *util.Timer

	cache    *SdfCache
	edges    []TempEdges
	vertices []Vertex
	indices  []Index

	vertexCount VertexCount
	indexCount  int
	// stale is set when the chunk was dirtied while the job ran
	stale bool

	done chan struct{}
}

func NewJob(timer *util.Timer) *Job {
	return &Job{
		timer:    timer,
		cache:    NewSdfCache(),
		edges:    make([]TempEdges, TEMP_CHUNK_CUBED),
		vertices: make([]Vertex, MAX_CHUNK_VERTS),
		indices:  make([]Index, MAX_CHUNK_INDICES),
		done:     make(chan struct{}, 1),
	}
}

// StartNew assigns a freshly allocated chunk to an idle job.
func (j *Job) StartNew(sampler Sampler, chunk *Chunk) {
	if j.state != JobIdle || j.chunk != nil {
		panic(fmt.Sprintf("job: start %v while %s with %v", chunk, j.state, j.chunk))
	}
	j.sampler = sampler
	j.chunk = chunk
	j.vertexCount = VertexCountEmpty
	j.indexCount = 0
	j.stale = false
	j.state = JobAssigned
}

// run marks the job as handed to a worker, Do may be called from then on.
func (j *Job) run() {
	if j.state != JobAssigned {
		panic(fmt.Sprintf("job: run while %s", j.state))
	}
	j.state = JobRunning
}

// Do samples the volume and extracts the mesh. It signals completion through Poll.
func (j *Job) Do() {
	stop := j.timer.Start("terrain.job")
	j.cache.Generate(j.chunk.pos, j.sampler)
	j.vertexCount, j.indexCount = j.chunk.Generate(j.cache, j.edges, j.vertices, j.indices)
	stop()
	j.done <- struct{}{}
}

// Poll moves a running job to pending finish once Do has returned.
func (j *Job) Poll() JobState {
	if j.state == JobRunning {
		select {
		case <-j.done:
			j.state = JobPendingFinish
		default:
		}
	}
	return j.state
}

// Wait blocks until a running job is done.
func (j *Job) Wait() JobState {
	if j.state == JobRunning {
		<-j.done
		j.state = JobPendingFinish
	}
	return j.state
}

func (j *Job) Finish() {
	if j.state != JobPendingFinish {
		panic(fmt.Sprintf("job: finish while %s", j.state))
	}
	j.chunk = nil
	j.sampler = nil
	j.state = JobIdle
}

func (j *Job) HasJob() bool {
	return j.state != JobIdle
}

func (j *Job) HasChunk(pos Int3) bool {
	return j.chunk != nil && j.chunk.pos == pos
}

func (j *Job) Chunk() *Chunk {
	return j.chunk
}

func (j *Job) VertexCount() VertexCount {
	return j.vertexCount
}

func (j *Job) Vertices() []Vertex {
	if !j.vertexCount.IsMesh() {
		return nil
	}
	return j.vertices[:j.vertexCount]
}

func (j *Job) Indices() []Index {
	return j.indices[:j.indexCount]
}
