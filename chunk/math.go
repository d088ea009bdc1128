package chunk

import "math"

// FloorDivInt32 divides a by b using floored (not truncated) division, so
// negative coordinates map onto the correct chunk instead of rounding
// toward zero. Adapted from the reference client's DivideAndFloorI32,
// generalized beyond a fixed divisor of 16.
func FloorDivInt32(a, b int32) int32 {
	return int32(math.Floor(float64(a) / float64(b)))
}

// FloorModInt32 is the floored counterpart to FloorDivInt32: the result
// always has the same sign as b (here, always non-negative since callers
// pass the positive chunk Size).
func FloorModInt32(a, b int32) int32 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// BlockToChunk maps a world block position to the id of the chunk that
// contains it, using floored division on every axis.
func BlockToChunk(bx, by, bz int32) ID {
	return ID{
		X: FloorDivInt32(bx, Size),
		Y: FloorDivInt32(by, Size),
		Z: FloorDivInt32(bz, Size),
	}
}

// BlockToLocal maps a world block position to its local coordinates
// within its owning chunk (block - id*Size), using floored modulus.
func BlockToLocal(bx, by, bz int32) (x, y, z int) {
	return int(FloorModInt32(bx, Size)), int(FloorModInt32(by, Size)), int(FloorModInt32(bz, Size))
}

// WorldToBlock floors a floating-point world position down to the
// integer block position containing it.
func WorldToBlock(x, y, z float64) (int32, int32, int32) {
	return int32(math.Floor(x)), int32(math.Floor(y)), int32(math.Floor(z))
}
