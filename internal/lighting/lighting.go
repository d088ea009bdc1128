// Package lighting implements the block-light and sky-light flood-fill
// engine: full-chunk initial seeding plus incremental add/remove under
// arbitrary block edits. It never imports the store package; callers
// pass a Source implementation so ChunkData stays a pure value with no
// back-pointer to a manager, per the design note in SPEC_FULL.md.
package lighting

import (
	"github.com/willf/bitset"

	"github.com/oakmoss-games/voxelcore/chunk"
)

// Source resolves a chunk's neighbor at a chunk-id offset, used whenever
// a propagation or seed step crosses a chunk boundary. ok is false if
// the neighbor is not resident and should not be force-generated (the
// lighting engine never synthesizes chunks itself; that is the store's
// job when it decides to).
type Source interface {
	Neighbor(id chunk.ID, dx, dy, dz int32) (*chunk.Data, bool)
}

// cell is a voxel located in some chunk, used as the lighting BFS node.
// Coordinates are always local to Chunk.
type cell struct {
	x, y, z int
	data    *chunk.Data
}

// Result reports which chunks need to be remeshed: the chunk the
// operation started in, plus every neighbor chunk a propagation step
// reached.
type Result struct {
	Dirty map[chunk.ID]struct{}
}

func newResult(self chunk.ID) *Result {
	r := &Result{Dirty: make(map[chunk.ID]struct{})}
	r.Dirty[self] = struct{}{}
	return r
}

func (r *Result) mark(id chunk.ID) {
	r.Dirty[id] = struct{}{}
}

// stepAxis resolves local coordinate v on one axis after stepping
// by delta, returning the wrapped coordinate and whether the step left
// the chunk (in which case the caller must fetch the corresponding
// neighbor).
func stepAxis(v, delta int) (int, bool) {
	v += delta
	if v < 0 {
		return v + chunk.Size, true
	}
	if v >= chunk.Size {
		return v - chunk.Size, true
	}
	return v, false
}

var axisOffsets = [6][3]int{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// step resolves the neighbor cell reached from (c) by the given axis
// offset, crossing chunk boundaries through src when needed. ok is false
// if that neighbor chunk is not resident, or is resident but has not
// reached ReadyForLighting yet -- propagation defers at that boundary
// rather than forcing generation (Open Question 3 in SPEC_FULL.md).
func step(src Source, c cell, off [3]int, result *Result) (cell, bool) {
	nx, crossedX := stepAxis(c.x, off[0])
	ny, crossedY := stepAxis(c.y, off[1])
	nz, crossedZ := stepAxis(c.z, off[2])

	if !crossedX && !crossedY && !crossedZ {
		return cell{nx, ny, nz, c.data}, true
	}

	dx, dy, dz := int32(0), int32(0), int32(0)
	if crossedX {
		dx = int32(off[0])
	}
	if crossedY {
		dy = int32(off[1])
	}
	if crossedZ {
		dz = int32(off[2])
	}

	neighborID := c.data.ID.Add(dx, dy, dz)
	ndata, ok := src.Neighbor(c.data.ID, dx, dy, dz)
	if !ok {
		return cell{}, false
	}
	if ndata.LightingStage < chunk.ReadyForLighting {
		result.mark(neighborID)
		return cell{}, false
	}

	result.mark(neighborID)
	return cell{nx, ny, nz, ndata}, true
}

// bfsQueue is a plain FIFO of light nodes; the work is bounded per call
// (at most a handful of chunks' worth of voxels) so a slice-backed queue
// is simpler than anything fancier.
type bfsQueue struct {
	items []cell
	head  int
}

func (q *bfsQueue) push(c cell)     { q.items = append(q.items, c) }
func (q *bfsQueue) empty() bool     { return q.head >= len(q.items) }
func (q *bfsQueue) pop() cell {
	c := q.items[q.head]
	q.head++
	return c
}

// AddLight seeds (x,y,z) in the owning chunk with level on the given
// channel and floods outward. It returns the set of chunk ids whose mesh
// must be regenerated, including the owning chunk.
func AddLight(src Source, data *chunk.Data, x, y, z int, ch chunk.Channel, level uint8) *Result {
	result := newResult(data.ID)
	data.SetChannel(x, y, z, ch, level)

	q := &bfsQueue{}
	q.push(cell{x, y, z, data})

	verticalSky := ch == chunk.ChannelSky

	for !q.empty() {
		cur := q.pop()
		curLevel := cur.data.GetChannel(cur.x, cur.y, cur.z, ch)
		if curLevel == 0 {
			continue
		}

		propagate(src, cur, ch, curLevel, verticalSky, result, q)
	}

	return result
}

// propagate inspects cur's six neighbors and pushes any that should
// receive curLevel (minus the per-axis decrement) onto q, per the flood
// rule in §4.3 step 4: write L-step and enqueue whenever the neighbor's
// current value is at least 2 below L (1 below for the vertical-down
// sky-light exception).
func propagate(src Source, cur cell, ch chunk.Channel, curLevel uint8, verticalSky bool, result *Result, q *bfsQueue) {
	for axisIdx, off := range axisOffsets {
		next, ok := step(src, cur, off, result)
		if !ok {
			continue
		}
		if chunk.IsOpaque(next.data.Get(next.x, next.y, next.z)) {
			continue
		}

		decrement := uint8(1)
		// Downward propagation from an air cell to the air cell directly
		// below does not decrement sky light (axis index 2 is -Y, per
		// axisOffsets order).
		if verticalSky && axisIdx == 2 {
			decrement = 0
		}

		threshold := int(curLevel) - int(decrement) - 1
		if threshold < 0 {
			threshold = 0
		}
		if int(next.data.GetChannel(next.x, next.y, next.z, ch)) <= threshold {
			newLevel := int(curLevel) - int(decrement)
			if newLevel < 0 {
				newLevel = 0
			}
			next.data.SetChannel(next.x, next.y, next.z, ch, uint8(newLevel))
			q.push(next)
		}
	}
}

// darkenEntry is a removal-queue node carrying the level the cell held
// before it was darkened, so neighbors can tell whether they were lit by
// the cell being removed or by some other source.
type darkenEntry struct {
	c        cell
	oldLevel uint8
}

// RemoveLight runs the classical two-phase darken-then-refill algorithm
// starting from (x,y,z), which currently holds oldLevel on channel ch
// and is being extinguished; RemoveLight itself sets that cell's
// channel to 0 before darkening its neighbors.
func RemoveLight(src Source, data *chunk.Data, x, y, z int, ch chunk.Channel, oldLevel uint8) *Result {
	result := newResult(data.ID)

	// visited dedupes darken-queue entries that land back on a voxel in
	// the owning chunk from two different directions; cross-chunk cells
	// fall back to the level check alone, which still terminates since
	// a darkened cell is set to 0 and zero-level cells are skipped.
	visited := bitset.New(uint(chunk.Volume))

	darkenQueue := []darkenEntry{{cell{x, y, z, data}, oldLevel}}
	refillQueue := []cell{}

	data.SetChannel(x, y, z, ch, 0)
	visited.Set(uint(chunk.Index(x, y, z)))

	verticalSky := ch == chunk.ChannelSky

	for len(darkenQueue) > 0 {
		entry := darkenQueue[0]
		darkenQueue = darkenQueue[1:]

		for axisIdx, off := range axisOffsets {
			next, ok := step(src, entry.c, off, result)
			if !ok {
				continue
			}

			decrement := uint8(1)
			if verticalSky && axisIdx == 2 {
				decrement = 0
			}

			if next.data == data && visited.Test(uint(chunk.Index(next.x, next.y, next.z))) {
				continue
			}

			neighborLevel := next.data.GetChannel(next.x, next.y, next.z, ch)
			if neighborLevel == 0 {
				continue
			}

			// For decrementing steps a child genuinely lit by entry must
			// sit strictly below oldLevel; for the vertical non-decrement
			// sky step the child can legitimately match oldLevel exactly,
			// so equality also counts as "lit by this source" there.
			litByEntry := neighborLevel < entry.oldLevel || (decrement == 0 && neighborLevel == entry.oldLevel)
			if litByEntry {
				next.data.SetChannel(next.x, next.y, next.z, ch, 0)
				if next.data == data {
					visited.Set(uint(chunk.Index(next.x, next.y, next.z)))
				}
				darkenQueue = append(darkenQueue, darkenEntry{next, neighborLevel})
			} else {
				refillQueue = append(refillQueue, next)
			}
		}
	}

	for _, c := range refillQueue {
		level := c.data.GetChannel(c.x, c.y, c.z, ch)
		if level == 0 {
			continue
		}
		sub := AddLight(src, c.data, c.x, c.y, c.z, ch, level)
		for id := range sub.Dirty {
			result.mark(id)
		}
	}

	return result
}

// seedColumn runs the sky-light column rule for one (x,z) column of data,
// from the top of the chunk downward, as step 2 of full-chunk initial
// lighting. above, if non-nil, is the chunk directly above whose bottom
// plane has already reached ReadyForLighting; its lowest row seeds this
// column's top cell instead of an implicit full-sky assumption when
// present.
func seedColumn(data *chunk.Data, above *chunk.Data, x, z int) []cell {
	var seeds []cell

	topValue := uint8(15)
	if above != nil {
		topValue = above.GetChannel(x, 0, z, chunk.ChannelSky)
	}

	full := true
	for y := chunk.Size - 1; y >= 0; y-- {
		if chunk.IsOpaque(data.Get(x, y, z)) {
			full = false
			data.SetChannel(x, y, z, chunk.ChannelSky, 0)
			continue
		}
		if full {
			data.SetChannel(x, y, z, chunk.ChannelSky, topValue)
			if topValue > 0 {
				seeds = append(seeds, cell{x, y, z, data})
			}
		}
	}
	return seeds
}

// CalculateInitial runs the full five-step algorithm from SPEC_FULL.md's
// carried-forward §4.3: clear, seed sky light column-wise, seed block
// light from this chunk's and ready neighbors' emitters, flood, and mark
// the chunk LocalLightCalculated.
func CalculateInitial(src Source, data *chunk.Data, reg chunk.Registry) *Result {
	data.ClearLight()
	result := newResult(data.ID)

	q := &bfsQueue{}

	above, _ := src.Neighbor(data.ID, 0, 1, 0)
	for x := 0; x < chunk.Size; x++ {
		for z := 0; z < chunk.Size; z++ {
			for _, s := range seedColumn(data, above, x, z) {
				q.push(s)
			}
		}
	}

	for i := 0; i < chunk.Volume; i++ {
		id := data.Voxels[i]
		if id == chunk.Air || !reg.Get(id).LightEmitter {
			continue
		}
		y := i % chunk.Size
		rest := i / chunk.Size
		x := rest % chunk.Size
		z := rest / chunk.Size
		def := reg.Get(id)
		data.SetChannel(x, y, z, chunk.ChannelRed, def.Emission.R)
		data.SetChannel(x, y, z, chunk.ChannelGreen, def.Emission.G)
		data.SetChannel(x, y, z, chunk.ChannelBlue, def.Emission.B)
		q.push(cell{x, y, z, data})
	}

	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dz := int32(-1); dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				neighbor, ok := src.Neighbor(data.ID, dx, dy, dz)
				if !ok || neighbor.LightingStage < chunk.ReadyForLighting {
					continue
				}
				seedFromNeighborEmitters(data, neighbor, dx, dy, dz, reg, q)
			}
		}
	}

	floodAllChannels(src, q, result)

	data.AdvanceLighting(chunk.LocalLightCalculated)
	return result
}

// seedFromNeighborEmitters converts a neighbor chunk's emitter voxels
// near the shared boundary into this chunk's local frame so the BFS can
// cross the boundary outward, per §4.3 step 3.
func seedFromNeighborEmitters(data, neighbor *chunk.Data, dx, dy, dz int32, reg chunk.Registry, q *bfsQueue) {
	for i := 0; i < chunk.Volume; i++ {
		id := neighbor.Voxels[i]
		if id == chunk.Air || !reg.Get(id).LightEmitter {
			continue
		}
		ny := i % chunk.Size
		rest := i / chunk.Size
		nx := rest % chunk.Size
		nz := rest / chunk.Size

		lx := nx - int(dx)*chunk.Size
		ly := ny - int(dy)*chunk.Size
		lz := nz - int(dz)*chunk.Size
		if !chunk.InBounds(lx, ly, lz) {
			continue
		}

		def := reg.Get(id)
		max := def.Emission.R
		if def.Emission.G > max {
			max = def.Emission.G
		}
		if def.Emission.B > max {
			max = def.Emission.B
		}
		if max <= 1 {
			continue
		}
		q.push(cell{lx, ly, lz, data})
	}
}

// floodAllChannels drains q, propagating every non-zero channel of each
// queued cell (sky seeds carry one channel, emitter seeds up to three),
// each channel independently by the per-channel propagation rule of
// §4.3 step 4.
func floodAllChannels(src Source, q *bfsQueue, result *Result) {
	channels := []chunk.Channel{chunk.ChannelSky, chunk.ChannelRed, chunk.ChannelGreen, chunk.ChannelBlue}
	for !q.empty() {
		cur := q.pop()
		for _, ch := range channels {
			curLevel := cur.data.GetChannel(cur.x, cur.y, cur.z, ch)
			if curLevel == 0 {
				continue
			}
			propagate(src, cur, ch, curLevel, ch == chunk.ChannelSky, result, q)
		}
	}
}

// BrightestNeighbor scans the six axial neighbors of (x,y,z) on channel
// ch and returns the highest level found among them, used when removing
// an opaque blocker to re-illuminate the cell it used to occupy.
func BrightestNeighbor(src Source, data *chunk.Data, x, y, z int, ch chunk.Channel) (uint8, bool) {
	best := uint8(0)
	found := false
	placeholder := newResult(data.ID)
	for _, off := range axisOffsets {
		next, ok := step(src, cell{x, y, z, data}, off, placeholder)
		if !ok {
			continue
		}
		level := next.data.GetChannel(next.x, next.y, next.z, ch)
		if level > best {
			best = level
			found = true
		}
	}
	return best, found
}
