package diag

import (
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl.zst")

	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	events := []Event{
		{Kind: "mesh_scheduled", Fields: map[string]any{"cx": 1.0, "cy": 0.0, "cz": 1.0}},
		{Kind: "chunk_evicted", Fields: map[string]any{"cx": 1.0, "cy": 0.0, "cz": 1.0}},
	}
	for _, e := range events {
		if err := w.Write(e); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	for i, want := range events {
		got, ok, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			t.Fatalf("event %d: stream ended early", i)
		}
		if got.Kind != want.Kind {
			t.Errorf("event %d kind = %q, want %q", i, got.Kind, want.Kind)
		}
	}

	if _, ok, err := r.Next(); ok || err != nil {
		t.Fatalf("expected end of stream, got ok=%v err=%v", ok, err)
	}
}
