// Package voxelcore wires the chunk data model, lighting engine, mesher,
// and work pool into the resident chunk-id->data map described by the
// reference server's chunk map, generalized from its fixed 16x128 world
// to the floored-address, stage-gated chunk format in package chunk.
package voxelcore

import (
	"sync"

	"github.com/oakmoss-games/voxelcore/chunk"
	"github.com/oakmoss-games/voxelcore/internal/config"
	"github.com/oakmoss-games/voxelcore/internal/engineerr"
	"github.com/oakmoss-games/voxelcore/internal/lighting"
	"github.com/oakmoss-games/voxelcore/internal/mesher"
	"github.com/oakmoss-games/voxelcore/internal/persist"
	"github.com/oakmoss-games/voxelcore/internal/workpool"
	"go.uber.org/zap"
)

// Store is the chunk-id -> data map (C6): shared/exclusive locking over
// map structure, disk save/load, and the entry point for the block-edit
// protocol. It never locks a chunk's contents while running lighting or
// meshing; that serialization is the lightingMu / renderer generation
// mutex pair described in the concurrency model.
type Store struct {
	cfg  config.Config
	log  *zap.Logger
	reg  chunk.Registry
	gen  chunk.WorldGen
	pool *workpool.Pool

	chunksMu sync.RWMutex
	chunks   map[chunk.ID]*chunk.Data

	renderersMu sync.RWMutex
	renderers   map[chunk.ID]*Renderer

	// lightingMu is the single global lighting mutex from the lock
	// order in the concurrency model: lighting -> chunk-map -> renderer
	// map -> renderer generation -> mesh-data -> deletion-queue.
	lightingMu sync.Mutex
}

// NewStore constructs a Store with its own work pool of cfg.WorkerCount
// workers. The pool is owned by the store and stopped by Close.
func NewStore(cfg config.Config, reg chunk.Registry, gen chunk.WorldGen, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	workers := cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}
	return &Store{
		cfg:       cfg,
		log:       log,
		reg:       reg,
		gen:       gen,
		pool:      workpool.New(workers, log),
		chunks:    make(map[chunk.ID]*chunk.Data),
		renderers: make(map[chunk.ID]*Renderer),
	}
}

// Close stops the work pool and waits for in-flight jobs to finish.
func (s *Store) Close() {
	s.pool.Stop()
	s.pool.Join()
}

// InBounds reports whether id falls within the store's configured world
// extents. A zero extent on an axis means that axis is unbounded.
func (s *Store) InBounds(id chunk.ID) bool {
	if s.cfg.WorldSizeX != 0 && (id.X < -s.cfg.WorldSizeX || id.X >= s.cfg.WorldSizeX) {
		return false
	}
	if s.cfg.WorldSizeZ != 0 && (id.Z < -s.cfg.WorldSizeZ || id.Z >= s.cfg.WorldSizeZ) {
		return false
	}
	if s.cfg.WorldMinY != 0 || s.cfg.WorldMaxY != 0 {
		if id.Y < s.cfg.WorldMinY || id.Y > s.cfg.WorldMaxY {
			return false
		}
	}
	return true
}

func (s *Store) lookup(id chunk.ID) (*chunk.Data, bool) {
	s.chunksMu.RLock()
	defer s.chunksMu.RUnlock()
	data, ok := s.chunks[id]
	return data, ok
}

func (s *Store) insert(data *chunk.Data) {
	s.chunksMu.Lock()
	s.chunks[data.ID] = data
	s.chunksMu.Unlock()
}

// TryGet returns the resident chunk only if it already satisfies both
// stage requirements. It never blocks and never generates.
func (s *Store) TryGet(id chunk.ID, reqLight chunk.LightingStage, reqWorldGen byte) (*chunk.Data, bool) {
	data, ok := s.lookup(id)
	if !ok {
		return nil, false
	}
	if data.WorldGenStage < reqWorldGen || data.LightingStage < reqLight {
		return nil, false
	}
	return data, true
}

// Get returns a handle to id, loading from disk or synthesizing with
// WorldGen if absent, and driving generation/lighting forward
// synchronously on the calling goroutine until both requirements are
// met. Returns nil if id is out of the configured world bounds.
func (s *Store) Get(id chunk.ID, reqLight chunk.LightingStage, reqWorldGen byte) *chunk.Data {
	if !s.InBounds(id) {
		return nil
	}

	data, ok := s.lookup(id)
	if !ok {
		data = s.loadOrCreate(id)
		s.insert(data)
	}

	if data.WorldGenStage < reqWorldGen {
		s.gen.Generate(data, reqWorldGen)
		if data.WorldGenStage == chunk.WorldGenDone && data.LightingStage == chunk.WorldGenInProgress {
			data.AdvanceLighting(chunk.ReadyForLighting)
		}
	}

	if reqLight > data.LightingStage && data.LightingStage >= chunk.ReadyForLighting && data.LightingStage < chunk.LocalLightCalculated {
		s.lightingMu.Lock()
		if data.LightingStage < chunk.LocalLightCalculated {
			result := lighting.CalculateInitial(s, data, s.reg)
			s.scheduleRemesh(result.Dirty, id)
		}
		s.lightingMu.Unlock()
	}

	return data
}

func (s *Store) loadOrCreate(id chunk.ID) *chunk.Data {
	loaded, err := persist.Load(s.cfg.SaveRoot, id)
	if err != nil {
		corrupt := &engineerr.CorruptSaveError{Path: persist.Path(s.cfg.SaveRoot, id), Err: err}
		s.log.Warn("discarding corrupt or outdated chunk file, regenerating",
			zap.Int32("x", id.X), zap.Int32("y", id.Y), zap.Int32("z", id.Z), zap.Error(corrupt))
		loaded = nil
	}
	if loaded != nil {
		return loaded
	}
	return chunk.NewData(id)
}

// GetOrErr wraps TryGet with the sentinel errors from engineerr, for
// callers (such as tests) that want errors.Is semantics
// instead of a bare boolean.
func (s *Store) GetOrErr(id chunk.ID, reqLight chunk.LightingStage, reqWorldGen byte) (*chunk.Data, error) {
	if !s.InBounds(id) {
		return nil, engineerr.ErrOutOfBounds
	}
	data, ok := s.TryGet(id, reqLight, reqWorldGen)
	if !ok {
		return nil, engineerr.ErrChunkAbsent
	}
	return data, nil
}

// GetRenderer is a pure lookup; it never creates a renderer.
func (s *Store) GetRenderer(id chunk.ID) (*Renderer, bool) {
	s.renderersMu.RLock()
	defer s.renderersMu.RUnlock()
	r, ok := s.renderers[id]
	return r, ok
}

func (s *Store) ensureRenderer(id chunk.ID) *Renderer {
	s.renderersMu.Lock()
	defer s.renderersMu.Unlock()
	if r, ok := s.renderers[id]; ok {
		return r
	}
	r := newRenderer(id)
	s.renderers[id] = r
	return r
}

// EvictRenderer removes a renderer from the map unconditionally,
// returning it for the caller to push onto a deferred deletion queue
// (see streaming.go) so GPU resources stay alive one more frame.
func (s *Store) EvictRenderer(id chunk.ID) (*Renderer, bool) {
	s.renderersMu.Lock()
	defer s.renderersMu.Unlock()
	r, ok := s.renderers[id]
	if ok {
		delete(s.renderers, id)
	}
	return r, ok
}

// GetBlock returns the block at a world-space block position, air if
// the owning chunk is not resident.
func (s *Store) GetBlock(bx, by, bz int32) chunk.BlockID {
	id := chunk.BlockToChunk(bx, by, bz)
	data, ok := s.lookup(id)
	if !ok {
		return chunk.Air
	}
	x, y, z := chunk.BlockToLocal(bx, by, bz)
	return data.Get(x, y, z)
}

// Job-kind labels for the four lighting-delta cases the block-edit
// protocol can trigger, distinct in the work pool's job labels for
// observability even though all four ultimately call the same
// lighting primitives through applyLightingDelta.
const (
	jobKindEmitterAdd     = "emitter-add"
	jobKindEmitterRemove  = "emitter-remove"
	jobKindBlockerAdd     = "light-blocker-add"
	jobKindBlockerRemove  = "light-blocker-remove"
	jobKindRelightNoDelta = "block-edit-relight"
)

// lightingJobLabel picks the job-kind label for the dominant transition
// a voxel edit implies: an emitter changing wins over an opacity
// change, since applyLightingDelta runs the emitter branch first.
func lightingJobLabel(prevID chunk.BlockID, prevDef chunk.BlockDefinition, nextID chunk.BlockID, nextDef chunk.BlockDefinition) string {
	wasEmitter := prevID != chunk.Air && prevDef.LightEmitter
	isEmitter := nextID != chunk.Air && nextDef.LightEmitter
	switch {
	case isEmitter && !wasEmitter:
		return jobKindEmitterAdd
	case wasEmitter && !isEmitter:
		return jobKindEmitterRemove
	}

	wasOpaque := prevID != chunk.Air
	isOpaque := nextID != chunk.Air
	switch {
	case isOpaque && !wasOpaque:
		return jobKindBlockerAdd
	case wasOpaque && !isOpaque:
		return jobKindBlockerRemove
	}
	return jobKindRelightNoDelta
}

// SetBlock implements the block-edit protocol (§4.6): mutate the voxel
// immediately, then schedule the lighting deltas implied by the
// transition on a worker, labeled by job kind, which in turn schedules
// a remesh of the owning chunk plus any axial neighbor whose face the
// edit sits on once the lighting delta completes. Returns false if the
// chunk is not resident or the position is out of bounds.
func (s *Store) SetBlock(bx, by, bz int32, id chunk.BlockID) bool {
	chunkID := chunk.BlockToChunk(bx, by, bz)
	if !s.InBounds(chunkID) {
		return false
	}
	data, ok := s.lookup(chunkID)
	if !ok {
		return false
	}

	x, y, z := chunk.BlockToLocal(bx, by, bz)
	prev := data.Get(x, y, z)
	if prev == id {
		return true
	}

	prevDef := s.reg.Get(prev)
	nextDef := s.mustHaveDefinition(id)
	data.Set(x, y, z, id)

	label := lightingJobLabel(prev, prevDef, id, nextDef)
	s.pool.Enqueue(workpool.Medium, label, func() {
		s.lightingMu.Lock()
		result := s.applyLightingDelta(data, x, y, z, prev, prevDef, nextDef)
		s.lightingMu.Unlock()

		remeshSet := s.faceAdjacentChunks(chunkID, x, y, z)
		for c := range result.Dirty {
			remeshSet[c] = struct{}{}
		}
		s.scheduleRemesh(remeshSet, chunkID)
	})
	return true
}

// applyLightingDelta runs the add/remove pair implied by a voxel
// transition and merges their dirty sets, per the four cases in the
// block-edit protocol.
func (s *Store) applyLightingDelta(data *chunk.Data, x, y, z int, prevID chunk.BlockID, prevDef, nextDef chunk.BlockDefinition) *lighting.Result {
	merged := &lighting.Result{Dirty: map[chunk.ID]struct{}{}}
	merge := func(r *lighting.Result) {
		for id := range r.Dirty {
			merged.Dirty[id] = struct{}{}
		}
	}

	wasEmitter := prevID != chunk.Air && prevDef.LightEmitter
	wasOpaque := prevID != chunk.Air
	isEmitter := data.Get(x, y, z) != chunk.Air && nextDef.LightEmitter
	isOpaque := data.Get(x, y, z) != chunk.Air

	if isEmitter {
		merge(lighting.AddLight(s, data, x, y, z, chunk.ChannelRed, nextDef.Emission.R))
		merge(lighting.AddLight(s, data, x, y, z, chunk.ChannelGreen, nextDef.Emission.G))
		merge(lighting.AddLight(s, data, x, y, z, chunk.ChannelBlue, nextDef.Emission.B))
	} else if wasEmitter {
		merge(lighting.RemoveLight(s, data, x, y, z, chunk.ChannelRed, prevDef.Emission.R))
		merge(lighting.RemoveLight(s, data, x, y, z, chunk.ChannelGreen, prevDef.Emission.G))
		merge(lighting.RemoveLight(s, data, x, y, z, chunk.ChannelBlue, prevDef.Emission.B))
	}

	switch {
	case isOpaque && !wasOpaque:
		for _, ch := range []chunk.Channel{chunk.ChannelSky, chunk.ChannelRed, chunk.ChannelGreen, chunk.ChannelBlue} {
			if ch != chunk.ChannelSky && isEmitter {
				continue
			}
			old := data.GetChannel(x, y, z, ch)
			if old > 0 {
				merge(lighting.RemoveLight(s, data, x, y, z, ch, old))
			}
		}
	case !isOpaque && wasOpaque:
		for _, ch := range []chunk.Channel{chunk.ChannelSky, chunk.ChannelRed, chunk.ChannelGreen, chunk.ChannelBlue} {
			if level, ok := lighting.BrightestNeighbor(s, data, x, y, z, ch); ok && level > 0 {
				merge(lighting.AddLight(s, data, x, y, z, ch, level))
			}
		}
	}

	return merged
}

// faceAdjacentChunks returns the owning chunk plus, for each axis the
// local coordinate sits on the boundary of, the neighbor on that side.
func (s *Store) faceAdjacentChunks(owner chunk.ID, x, y, z int) map[chunk.ID]struct{} {
	set := map[chunk.ID]struct{}{owner: {}}
	if x == 0 {
		set[owner.Add(-1, 0, 0)] = struct{}{}
	}
	if x == chunk.Size-1 {
		set[owner.Add(1, 0, 0)] = struct{}{}
	}
	if y == 0 {
		set[owner.Add(0, -1, 0)] = struct{}{}
	}
	if y == chunk.Size-1 {
		set[owner.Add(0, 1, 0)] = struct{}{}
	}
	if z == 0 {
		set[owner.Add(0, 0, -1)] = struct{}{}
	}
	if z == chunk.Size-1 {
		set[owner.Add(0, 0, 1)] = struct{}{}
	}
	return set
}

// scheduleRemesh dispatches a batch mesh job covering every chunk in
// ids plus always, mirroring the original's StartBatchChunkMeshJob: one
// EnqueueBatch call, but each chunk still gets its own version-tagged
// ScheduleMesh job rather than sharing a single job or version.
func (s *Store) scheduleRemesh(ids map[chunk.ID]struct{}, always chunk.ID) {
	ids[always] = struct{}{}
	list := make([]chunk.ID, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	workpool.EnqueueBatch(s.pool, workpool.High, "remesh-batch", list, s.ScheduleMesh)
}

// ScheduleMesh enqueues a mesh job for id at High priority; id itself
// must already pass TryGet at LocalLightCalculated. The job resolves the
// 3x3x3 neighbor cube with a non-blocking lookup of resident chunks (an
// absent neighbor is treated as "open" by the mesher; a resident one is
// used whatever its stage) and publishes through the renderer's version
// gate.
func (s *Store) ScheduleMesh(id chunk.ID) {
	data, ok := s.TryGet(id, chunk.LocalLightCalculated, chunk.WorldGenDone)
	if !ok {
		return
	}
	renderer := s.ensureRenderer(id)
	version := renderer.BeginJob()

	s.pool.Enqueue(workpool.High, "mesh", func() {
		if !renderer.IsCurrent(version) {
			return
		}
		var n mesher.Neighbors
		for dz := -1; dz <= 1; dz++ {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					neighborID := id.Add(int32(dx), int32(dy), int32(dz))
					if nd, ok := s.lookup(neighborID); ok {
						n[dx+1][dy+1][dz+1] = nd
					}
				}
			}
		}
		n[1][1][1] = data

		if !renderer.IsCurrent(version) {
			return
		}
		mesh := mesher.Build(&n, s.reg, s.cfg.SmoothLighting)
		renderer.Publish(version, mesh)
	})
}

// EnqueueResidency schedules the synchronous load/generate/light drive
// for id on a worker rather than the calling thread, per the
// concurrency model's rule that full-chunk initial lighting for a
// newly resident chunk runs on a worker before its first mesh. Used by
// the streaming scheduler when walking its pending queue.
func (s *Store) EnqueueResidency(id chunk.ID) {
	s.pool.Enqueue(workpool.Medium, "residency", func() {
		if data := s.Get(id, chunk.LocalLightCalculated, chunk.WorldGenDone); data != nil {
			s.ScheduleMesh(id)
		}
	})
}

// RendererIDs returns a snapshot of every chunk id that currently has a
// renderer.
func (s *Store) RendererIDs() []chunk.ID {
	s.renderersMu.RLock()
	defer s.renderersMu.RUnlock()
	ids := make([]chunk.ID, 0, len(s.renderers))
	for id := range s.renderers {
		ids = append(ids, id)
	}
	return ids
}

// ChunkIDs returns a snapshot of every resident chunk id.
func (s *Store) ChunkIDs() []chunk.ID {
	s.chunksMu.RLock()
	defer s.chunksMu.RUnlock()
	ids := make([]chunk.ID, 0, len(s.chunks))
	for id := range s.chunks {
		ids = append(ids, id)
	}
	return ids
}

// Neighbor implements lighting.Source: a non-blocking lookup that
// treats a neighbor below ReadyForLighting as absent, deferring the
// propagation rather than forcing generation (Open Question 3).
func (s *Store) Neighbor(id chunk.ID, dx, dy, dz int32) (*chunk.Data, bool) {
	neighborID := id.Add(dx, dy, dz)
	data, ok := s.lookup(neighborID)
	if !ok || data.LightingStage < chunk.ReadyForLighting {
		return nil, false
	}
	return data, true
}

// Save writes id's current data to disk if resident. Write failures are
// logged; the chunk proceeds to eviction regardless.
func (s *Store) Save(id chunk.ID) error {
	data, ok := s.lookup(id)
	if !ok {
		return nil
	}
	if err := persist.Save(s.cfg.SaveRoot, data); err != nil {
		s.log.Error("failed to save chunk", zap.Int32("x", id.X), zap.Int32("y", id.Y), zap.Int32("z", id.Z), zap.Error(err))
		return err
	}
	return nil
}

// Evict saves id and removes it from the resident map. Callers are
// responsible for the ±1-neighborhood renderer check described in the
// streaming scheduler before calling this.
func (s *Store) Evict(id chunk.ID) {
	_ = s.Save(id)
	s.chunksMu.Lock()
	delete(s.chunks, id)
	s.chunksMu.Unlock()
}

// mustHaveDefinition surfaces an unregistered block id as an
// unrecoverable fault: placing a block the registry doesn't know about
// is a programmer error, not a runtime condition to recover from.
func (s *Store) mustHaveDefinition(id chunk.BlockID) chunk.BlockDefinition {
	def := s.reg.Get(id)
	if id != chunk.Air && def.Name == "" {
		panic(&engineerr.InvalidBlockIDError{ID: uint32(id)})
	}
	return def
}
