package voxelcore

import (
	"sync"
	"sync/atomic"

	"github.com/oakmoss-games/voxelcore/chunk"
)

// Renderer holds the published mesh for one resident chunk plus the
// version tag that makes a late-scheduled mesh job win over an earlier,
// still-running one. It carries no back-pointer to the store: jobs
// receive a Store explicitly (see store.go) per the no-embedded-pointer
// design for ChunkData.
type Renderer struct {
	id chunk.ID

	version atomic.Uint64

	genMu sync.Mutex // serializes version bump + capture with job dispatch

	meshMu sync.Mutex
	mesh   chunk.Mesh
	dirty  bool
}

func newRenderer(id chunk.ID) *Renderer {
	return &Renderer{id: id}
}

// ID returns the chunk id this renderer belongs to.
func (r *Renderer) ID() chunk.ID { return r.id }

// BeginJob increments the version counter and returns the new value.
// Call this on the scheduling thread before handing a closure to the
// work pool; the closure captures the returned version and checks it
// with IsCurrent before publishing.
func (r *Renderer) BeginJob() uint64 {
	r.genMu.Lock()
	defer r.genMu.Unlock()
	return r.version.Add(1)
}

// IsCurrent reports whether version is still the latest one issued,
// i.e. whether a job holding it is allowed to publish its result.
func (r *Renderer) IsCurrent(version uint64) bool {
	return r.version.Load() == version
}

// Publish installs a freshly computed mesh if version is still
// current, discarding it otherwise. Returns whether the mesh was
// published.
func (r *Renderer) Publish(version uint64, mesh chunk.Mesh) bool {
	if !r.IsCurrent(version) {
		return false
	}
	r.meshMu.Lock()
	defer r.meshMu.Unlock()
	if !r.IsCurrent(version) {
		return false
	}
	r.mesh = mesh
	r.dirty = true
	return true
}

// TakeMesh returns the current mesh and clears the dirty flag, for the
// render thread to upload. ok is false if nothing new is pending.
func (r *Renderer) TakeMesh() (chunk.Mesh, bool) {
	r.meshMu.Lock()
	defer r.meshMu.Unlock()
	if !r.dirty {
		return chunk.Mesh{}, false
	}
	r.dirty = false
	return r.mesh, true
}
