// Package chunk holds the voxel engine's data model: chunk identifiers,
// the dense voxel and light arrays, and the interfaces the engine consumes
// from its host (block definitions, world generation). Nothing in this
// package touches goroutines, locks, or disk; that is the concern of the
// store, lighting, and mesher packages built on top of it.
package chunk

// Size is the edge length of a chunk in voxels. Volume is Size^3. Both the
// lighting engine and the mesher iterate with y as the inner loop to match
// Index's layout; changing Size requires no other code changes, but
// changing the index formula does.
const (
	Size   = 32
	Volume = Size * Size * Size
)

// BlockID identifies a block definition. Zero is reserved for air: always
// transparent, never an emitter, regardless of what a misconfigured
// registry might say about id 0.
type BlockID uint32

const Air BlockID = 0

// ID addresses a chunk in the infinite world grid.
type ID struct {
	X, Y, Z int32
}

// Add returns the chunk id offset by the given amount along each axis.
func (id ID) Add(dx, dy, dz int32) ID {
	return ID{id.X + dx, id.Y + dy, id.Z + dz}
}

// LightingStage tracks how far a chunk has progressed through the
// lighting pipeline. It never regresses.
type LightingStage byte

const (
	WorldGenInProgress LightingStage = iota
	ReadyForLighting
	LocalLightCalculated
)

// WorldGenDone is the worldGenStage value meaning generation has finished
// every pass the host intends to run.
const WorldGenDone byte = 255

// Index returns the flat offset of local voxel (x, y, z) into a Size^3
// array. y is the inner loop: this ordering is part of the contract
// because meshing and lighting iterate over it.
func Index(x, y, z int) int {
	return y + Size*(x+Size*z)
}

// InBounds reports whether (x, y, z) are valid local coordinates.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size && z >= 0 && z < Size
}

// Data is one resident chunk: its voxels, packed light field, and stage
// flags. A Data value owns its slices; the store hands out *Data
// pointers directly.
//
// Invariants (not enforced by construction): 1 and 3 are enforced by the
// methods in this package; 2 is maintained by the lighting engine and
// the store's block-edit path, not by Set:
//  1. every Light channel value is in [0,15];
//  2. if Voxels[i] != 0 and the definition is not an emitter, all four
//     channels at i are 0;
//  3. WorldGenStage never decreases and LightingStage never regresses.
type Data struct {
	ID ID

	Voxels []BlockID // len Volume
	Light  []Light   // len Volume, packed SSSS RRRR GGGG BBBB

	WorldGenStage byte
	LightingStage LightingStage
}

// NewData allocates a chunk's backing arrays. The chunk starts as all air
// with all light channels zero, at WorldGenInProgress.
func NewData(id ID) *Data {
	return &Data{
		ID:     id,
		Voxels: make([]BlockID, Volume),
		Light:  make([]Light, Volume),
	}
}

// Get returns the block id at local coordinates. Callers must have
// already checked InBounds; like the C++ original this trusts the caller
// at the hot path rather than branching on every voxel access.
func (d *Data) Get(x, y, z int) BlockID {
	return d.Voxels[Index(x, y, z)]
}

// Set writes the block id at local coordinates.
func (d *Data) Set(x, y, z int, id BlockID) {
	d.Voxels[Index(x, y, z)] = id
}

// ClearLight zeroes the entire light field, the first step of a
// full-chunk lighting recalculation.
func (d *Data) ClearLight() {
	for i := range d.Light {
		d.Light[i] = 0
	}
}

// AdvanceWorldGen raises WorldGenStage, never lowering it even if stage is
// behind the current value.
func (d *Data) AdvanceWorldGen(stage byte) {
	if stage > d.WorldGenStage {
		d.WorldGenStage = stage
	}
}

// AdvanceLighting raises LightingStage, never regressing it.
func (d *Data) AdvanceLighting(stage LightingStage) {
	if stage > d.LightingStage {
		d.LightingStage = stage
	}
}
