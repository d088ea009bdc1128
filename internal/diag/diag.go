// Package diag is an optional append-only diagnostic event log, zstd
// compressed, for recording engine events (job scheduled, mesh
// published, chunk evicted) outside the structured logger's normal
// verbosity. Grounded on the reference ecosystem's JSONL-over-zstd
// writer; unlike persisted chunk files (explicitly uncompressed, see
// internal/persist), this is a diagnostics side-channel where
// compression ratio matters more than random access.
package diag

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Event is one line of the diagnostic log. Kind identifies the event
// type ("mesh_scheduled", "mesh_published", "mesh_stale",
// "chunk_evicted", "lighting_add", "lighting_remove"); Fields carries
// whatever structured data that kind needs.
type Event struct {
	Kind   string         `json:"kind"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Writer appends Events to a single zstd-compressed file. Safe for
// concurrent use; writes are serialized by an internal mutex, matching
// the reference writer this is ported from.
type Writer struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// Open creates (or truncates) path and returns a Writer appending to
// it. Close must be called to flush the zstd frame trailer.
func Open(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("diag: opening %s: %w", path, err)
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("diag: creating zstd encoder: %w", err)
	}

	return &Writer{f: f, enc: enc, w: bufio.NewWriter(enc)}, nil
}

// Write appends one event as a JSON line.
func (w *Writer) Write(e Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("diag: marshaling event: %w", err)
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes buffered data, closes the zstd encoder, and closes the
// underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.w.Flush(); err != nil {
		return err
	}
	if err := w.enc.Close(); err != nil {
		return err
	}
	return w.f.Close()
}

// Reader decodes events previously written by a Writer, for tests and
// other readers of the log.
type Reader struct {
	dec *zstd.Decoder
	sc  *bufio.Scanner
	f   *os.File
}

// OpenReader opens path for sequential event reads.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("diag: opening %s: %w", path, err)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("diag: creating zstd decoder: %w", err)
	}
	return &Reader{dec: dec, sc: bufio.NewScanner(dec.IOReadCloser()), f: f}, nil
}

// Next decodes the next event, returning ok=false at end of stream.
func (r *Reader) Next() (Event, bool, error) {
	if !r.sc.Scan() {
		return Event{}, false, r.sc.Err()
	}
	var e Event
	if err := json.Unmarshal(r.sc.Bytes(), &e); err != nil {
		return Event{}, false, fmt.Errorf("diag: decoding event: %w", err)
	}
	return e, true, nil
}

// Close releases the decoder and underlying file.
func (r *Reader) Close() error {
	r.dec.Close()
	return r.f.Close()
}
