package chunk

// WorldGen fills or advances a chunk's voxel array up to and including
// targetStage. Implementations must be idempotent when called with a
// stage not greater than the chunk's current WorldGenStage, since the
// store may call it again for a chunk it partially generated earlier.
type WorldGen interface {
	Generate(data *Data, targetStage byte)
}
