// Package worldgen provides a minimal chunk.WorldGen implementation
// used by the example program. Terrain generation
// itself is an external collaborator the engine core only consumes
// through the chunk.WorldGen interface; this flat generator exists so
// there is something real on the other end of that interface.
package worldgen

import (
	"github.com/oakmoss-games/voxelcore/chunk"
)

// Flat fills every chunk with a uniform ground block below GroundHeight
// (world Y, exclusive), a single Surface layer at GroundHeight, and air
// above it. It has a single stage: calling Generate with any target
// stage greater than zero brings the chunk fully to WorldGenDone.
type Flat struct {
	GroundHeight int32
	Ground       chunk.BlockID
	Surface      chunk.BlockID
}

// Generate implements chunk.WorldGen. Idempotent: a chunk already at
// WorldGenDone is left untouched regardless of targetStage.
func (f Flat) Generate(data *chunk.Data, targetStage byte) {
	if data.WorldGenStage >= targetStage || data.WorldGenStage == chunk.WorldGenDone {
		return
	}

	baseY := data.ID.Y * chunk.Size
	for y := 0; y < chunk.Size; y++ {
		worldY := baseY + int32(y)
		var id chunk.BlockID
		switch {
		case worldY < f.GroundHeight:
			id = f.Ground
		case worldY == f.GroundHeight:
			id = f.Surface
		default:
			id = chunk.Air
		}
		if id == chunk.Air {
			continue
		}
		for z := 0; z < chunk.Size; z++ {
			for x := 0; x < chunk.Size; x++ {
				data.Set(x, y, z, id)
			}
		}
	}

	data.AdvanceWorldGen(chunk.WorldGenDone)
}
