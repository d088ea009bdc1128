// Package engineerr names the error kinds the store's synchronous
// surface can return, so callers can errors.Is/errors.As instead of
// matching strings. Lighting and mesh jobs never surface these; they
// publish-or-discard based on the version tag instead.
package engineerr

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a lookup or edit targets a chunk id
// outside the store's configured world extents. It is never a hard
// error for the caller: operations that can return it are documented as
// silently no-op'ing on it.
var ErrOutOfBounds = errors.New("chunk id outside configured world bounds")

// ErrChunkAbsent is returned by TryGet-style calls when the chunk is not
// currently resident and the caller asked not to generate or load it.
var ErrChunkAbsent = errors.New("chunk not resident")

// CorruptSaveError wraps the underlying decode failure for a chunk file
// that failed its version check or was truncated.
type CorruptSaveError struct {
	Path string
	Err  error
}

func (e *CorruptSaveError) Error() string {
	return fmt.Sprintf("corrupt chunk save %q: %v", e.Path, e.Err)
}

func (e *CorruptSaveError) Unwrap() error { return e.Err }

// InvalidBlockIDError marks a block id with no matching registry entry.
// This is a programmer error, not a recoverable condition: Store.SetBlock
// panics with it on the calling goroutine, before any work-pool job is
// scheduled, and it is never returned as an ordinary error value.
type InvalidBlockIDError struct {
	ID uint32
}

func (e *InvalidBlockIDError) Error() string {
	return fmt.Sprintf("invalid block id %d: no registry entry", e.ID)
}
