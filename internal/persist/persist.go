// Package persist implements the on-disk chunk file format: one flat,
// uncompressed file per chunk, bit-exact down to the byte offset.
// Grounded on the reference world loader's binary region-file reader,
// but trading its zlib/NBT nesting for a fixed-layout encoding/binary
// codec matched to the new chunk format.
package persist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oakmoss-games/voxelcore/chunk"
)

const currentVersion uint16 = 1

// ErrVersionMismatch is returned by Load when a file's version field
// does not match currentVersion. Callers should treat this the same as
// a missing file: discard and regenerate.
var ErrVersionMismatch = fmt.Errorf("persist: chunk file version mismatch")

// Path returns the on-disk path for a chunk under root.
func Path(root string, id chunk.ID) string {
	return filepath.Join(root, fmt.Sprintf("chunk_%d_%d_%d.dat", id.X, id.Y, id.Z))
}

// Save writes data to <root>/chunk_<cx>_<cy>_<cz>.dat, overwriting any
// existing file. The layout is fixed: a 2-byte version, the voxel
// array as little-endian uint32, the packed light array as
// little-endian uint16, then the two stage bytes.
func Save(root string, data *chunk.Data) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("persist: creating save root: %w", err)
	}

	path := Path(root, data.ID)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("persist: creating %s: %w", tmp, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeChunk(w, data); err != nil {
		return fmt.Errorf("persist: writing %s: %w", tmp, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("persist: flushing %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("persist: closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("persist: renaming %s: %w", tmp, err)
	}
	return nil
}

func writeChunk(w io.Writer, data *chunk.Data) error {
	if err := binary.Write(w, binary.LittleEndian, currentVersion); err != nil {
		return err
	}
	for _, v := range data.Voxels {
		if err := binary.Write(w, binary.LittleEndian, uint32(v)); err != nil {
			return err
		}
	}
	for _, l := range data.Light {
		if err := binary.Write(w, binary.LittleEndian, uint16(l)); err != nil {
			return err
		}
	}
	if _, err := w.Write([]byte{data.WorldGenStage, encodeLightingStage(data.LightingStage)}); err != nil {
		return err
	}
	return nil
}

// Load reads a chunk file for id, returning (nil, nil) if the file does
// not exist, and ErrVersionMismatch (wrapped) if its version field does
// not match. Both are treated as "not on disk" by the caller.
func Load(root string, id chunk.ID) (*chunk.Data, error) {
	path := Path(root, id)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("persist: opening %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("persist: reading version from %s: %w", path, err)
	}
	if version != currentVersion {
		return nil, fmt.Errorf("%w: %s has version %d, want %d", ErrVersionMismatch, path, version, currentVersion)
	}

	data := chunk.NewData(id)
	for i := range data.Voxels {
		var v uint32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, fmt.Errorf("persist: reading voxel %d from %s: %w", i, path, err)
		}
		data.Voxels[i] = chunk.BlockID(v)
	}
	for i := range data.Light {
		var l uint16
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, fmt.Errorf("persist: reading light %d from %s: %w", i, path, err)
		}
		data.Light[i] = chunk.Light(l)
	}

	stages := make([]byte, 2)
	if _, err := io.ReadFull(r, stages); err != nil {
		return nil, fmt.Errorf("persist: reading stage bytes from %s: %w", path, err)
	}
	data.WorldGenStage = stages[0]
	stage, ok := decodeLightingStage(stages[1])
	if !ok {
		return nil, fmt.Errorf("%w: %s has invalid lighting stage byte %d", ErrVersionMismatch, path, stages[1])
	}
	data.LightingStage = stage

	return data, nil
}

func encodeLightingStage(s chunk.LightingStage) byte {
	switch s {
	case chunk.WorldGenInProgress:
		return 0
	case chunk.ReadyForLighting:
		return 1
	case chunk.LocalLightCalculated:
		return 2
	default:
		return 0
	}
}

func decodeLightingStage(b byte) (chunk.LightingStage, bool) {
	switch b {
	case 0:
		return chunk.WorldGenInProgress, true
	case 1:
		return chunk.ReadyForLighting, true
	case 2:
		return chunk.LocalLightCalculated, true
	default:
		return 0, false
	}
}

// Remove deletes a chunk's save file if present. Missing files are not
// an error.
func Remove(root string, id chunk.ID) error {
	err := os.Remove(Path(root, id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("persist: removing %s: %w", Path(root, id), err)
	}
	return nil
}
