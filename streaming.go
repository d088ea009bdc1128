package voxelcore

import (
	"sync"

	"github.com/oakmoss-games/voxelcore/chunk"
)

// Scheduler is the streaming thread (C7): it watches the viewer's chunk
// id and produces a prioritized residency queue, then evicts renderers
// and chunk data that have fallen outside render distance. It is meant
// to be driven by a single goroutine calling Tick in a loop, mirroring
// the reference server's single-threaded tick structure.
type Scheduler struct {
	store *Store

	mu             sync.Mutex
	renderDistance int32
	renderHeight   int32
	viewer         chunk.ID
	hasViewer      bool
	pending        []chunk.ID

	deletionMu    sync.Mutex
	deletionQueue []*Renderer
}

// NewScheduler builds a scheduler over store with the given horizontal
// render distance R and vertical render height H, both in chunks.
func NewScheduler(store *Store, renderDistance, renderHeight int32) *Scheduler {
	return &Scheduler{
		store:          store,
		renderDistance: renderDistance,
		renderHeight:   renderHeight,
	}
}

// SetViewDistance updates R and H. Takes effect on the next viewer
// change or Tick.
func (sch *Scheduler) SetViewDistance(renderDistance, renderHeight int32) {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	sch.renderDistance = renderDistance
	sch.renderHeight = renderHeight
}

// Tick recomputes residency for the viewer's current chunk id, drains
// up to batchSize pending residency requests onto the work pool, and
// runs eviction. Call once per streaming-thread loop iteration.
func (sch *Scheduler) Tick(viewerChunk chunk.ID, batchSize int) {
	sch.setViewer(viewerChunk)
	sch.drainBatch(batchSize)
	sch.evict()
}

// setViewer records a new viewer chunk id. If it differs from the
// previous one, the pending queue is cleared and rebuilt in shell
// order. A no-op when the viewer hasn't moved chunks.
func (sch *Scheduler) setViewer(viewerChunk chunk.ID) {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	if sch.hasViewer && sch.viewer == viewerChunk {
		return
	}
	sch.viewer = viewerChunk
	sch.hasViewer = true
	sch.pending = buildShellQueue(viewerChunk, sch.renderDistance, sch.renderHeight)
}

func (sch *Scheduler) drainBatch(batchSize int) {
	sch.mu.Lock()
	n := batchSize
	if n > len(sch.pending) {
		n = len(sch.pending)
	}
	batch := sch.pending[:n]
	sch.pending = sch.pending[n:]
	sch.mu.Unlock()

	for _, id := range batch {
		sch.store.EnqueueResidency(id)
	}
}

// evict drops renderers outside render distance onto the deferred
// deletion queue, then evicts chunk data whose full ±1 neighborhood
// also has no renderer.
func (sch *Scheduler) evict() {
	sch.mu.Lock()
	viewer, r, h := sch.viewer, sch.renderDistance, sch.renderHeight
	sch.mu.Unlock()

	for _, id := range sch.store.RendererIDs() {
		if !withinResidency(viewer, id, r, h) {
			if renderer, ok := sch.store.EvictRenderer(id); ok {
				sch.deletionMu.Lock()
				sch.deletionQueue = append(sch.deletionQueue, renderer)
				sch.deletionMu.Unlock()
			}
		}
	}

	for _, id := range sch.store.ChunkIDs() {
		if sch.neighborhoodHasNoRenderer(id) {
			sch.store.Evict(id)
		}
	}
}

func (sch *Scheduler) neighborhoodHasNoRenderer(id chunk.ID) bool {
	for dz := int32(-1); dz <= 1; dz++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				if _, ok := sch.store.GetRenderer(id.Add(dx, dy, dz)); ok {
					return false
				}
			}
		}
	}
	return true
}

// DrainDeletionQueue returns and clears renderers evicted since the
// last call, for the render thread to release GPU resources for.
func (sch *Scheduler) DrainDeletionQueue() []*Renderer {
	sch.deletionMu.Lock()
	defer sch.deletionMu.Unlock()
	drained := sch.deletionQueue
	sch.deletionQueue = nil
	return drained
}

func withinResidency(viewer, id chunk.ID, renderDistance, renderHeight int32) bool {
	dx, dz := abs32(id.X-viewer.X), abs32(id.Z-viewer.Z)
	horiz := dx
	if dz > horiz {
		horiz = dz
	}
	return horiz <= renderDistance && abs32(id.Y-viewer.Y) <= renderHeight
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

type shellOffset struct{ dx, dz int32 }

// buildShellQueue enumerates target chunk ids in shells of increasing
// Chebyshev distance from the viewer. Within a shell, axis-aligned
// offsets ("middle columns") are enqueued first, then edge offsets,
// then corners; each horizontal offset is expanded across vertical
// layers alternating above and below the viewer.
func buildShellQueue(viewer chunk.ID, renderDistance, renderHeight int32) []chunk.ID {
	verticals := verticalOrder(renderHeight)
	queue := make([]chunk.ID, 0, (2*renderDistance+1)*(2*renderDistance+1)*int32(len(verticals)))

	for r := int32(0); r <= renderDistance; r++ {
		for _, off := range shellOffsets(r) {
			for _, dy := range verticals {
				queue = append(queue, chunk.ID{
					X: viewer.X + off.dx,
					Y: viewer.Y + dy,
					Z: viewer.Z + off.dz,
				})
			}
		}
	}
	return queue
}

// shellOffsets returns every (dx,dz) with Chebyshev distance exactly r
// from the origin, ordered axis offsets, then edges, then corners.
func shellOffsets(r int32) []shellOffset {
	if r == 0 {
		return []shellOffset{{0, 0}}
	}

	var axis, edge, corner []shellOffset
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			if abs32(dx) != r && abs32(dz) != r {
				continue // interior, belongs to a smaller shell
			}
			off := shellOffset{dx, dz}
			switch {
			case dx == 0 || dz == 0:
				axis = append(axis, off)
			case abs32(dx) == r && abs32(dz) == r:
				corner = append(corner, off)
			default:
				edge = append(edge, off)
			}
		}
	}

	result := make([]shellOffset, 0, len(axis)+len(edge)+len(corner))
	result = append(result, axis...)
	result = append(result, edge...)
	result = append(result, corner...)
	return result
}

// verticalOrder returns the sequence of vertical offsets 0, +1, -1,
// +2, -2, ... out to ±h, alternating above and below the viewer.
func verticalOrder(h int32) []int32 {
	order := make([]int32, 0, 2*h+1)
	order = append(order, 0)
	for dy := int32(1); dy <= h; dy++ {
		order = append(order, dy, -dy)
	}
	return order
}
