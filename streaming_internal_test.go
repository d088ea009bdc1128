package voxelcore

import (
	"testing"

	"github.com/oakmoss-games/voxelcore/chunk"
)

func TestVerticalOrderAlternatesAboveBelow(t *testing.T) {
	got := verticalOrder(3)
	want := []int32{0, 1, -1, 2, -2, 3, -3}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, v := range want {
		if got[i] != v {
			t.Errorf("order[%d] = %d, want %d", i, got[i], v)
		}
	}
}

func TestShellOffsetsZeroIsOrigin(t *testing.T) {
	got := shellOffsets(0)
	if len(got) != 1 || got[0] != (shellOffset{0, 0}) {
		t.Errorf("shellOffsets(0) = %v, want [{0 0}]", got)
	}
}

// TestShellOffsetsOrdersAxisEdgeCorner checks the within-shell ordering
// contract: axis-aligned offsets first, then edges, then the four
// corners, for a shell with a nontrivial mix of all three.
func TestShellOffsetsOrdersAxisEdgeCorner(t *testing.T) {
	got := shellOffsets(2)

	classify := func(o shellOffset) string {
		switch {
		case o.dx == 0 || o.dz == 0:
			return "axis"
		case abs32(o.dx) == 2 && abs32(o.dz) == 2:
			return "corner"
		default:
			return "edge"
		}
	}

	seenEdge, seenCorner := false, false
	for _, o := range got {
		switch classify(o) {
		case "axis":
			if seenEdge || seenCorner {
				t.Fatalf("axis offset %v appeared after edge/corner", o)
			}
		case "edge":
			seenEdge = true
			if seenCorner {
				t.Fatalf("edge offset %v appeared after corner", o)
			}
		case "corner":
			seenCorner = true
		}
	}
	if !seenEdge || !seenCorner {
		t.Fatalf("shellOffsets(2) missing edge or corner offsets: %v", got)
	}
}

func TestShellOffsetsAllAtExactChebyshevDistance(t *testing.T) {
	const r = 3
	for _, o := range shellOffsets(r) {
		horiz := abs32(o.dx)
		if abs32(o.dz) > horiz {
			horiz = abs32(o.dz)
		}
		if horiz != r {
			t.Errorf("offset %v has Chebyshev distance %d, want %d", o, horiz, r)
		}
	}
}

func TestBuildShellQueueCoversFullBox(t *testing.T) {
	viewer := chunk.ID{X: 5, Y: 0, Z: -5}
	const r, h = 2, 1
	queue := buildShellQueue(viewer, r, h)

	wantLen := int(2*r+1) * int(2*r+1) * int(2*h+1)
	if len(queue) != wantLen {
		t.Fatalf("len(queue) = %d, want %d", len(queue), wantLen)
	}

	seen := make(map[chunk.ID]bool, len(queue))
	for _, id := range queue {
		if seen[id] {
			t.Fatalf("duplicate id %v in queue", id)
		}
		seen[id] = true
		if !withinResidency(viewer, id, r, h) {
			t.Errorf("id %v outside residency box", id)
		}
	}
}

func TestBuildShellQueueViewerFirst(t *testing.T) {
	viewer := chunk.ID{X: 1, Y: 2, Z: 3}
	queue := buildShellQueue(viewer, 2, 0)
	if queue[0] != viewer {
		t.Errorf("queue[0] = %v, want viewer %v", queue[0], viewer)
	}
}

func TestWithinResidencyRespectsVerticalAndHorizontalLimits(t *testing.T) {
	viewer := chunk.ID{}
	if !withinResidency(viewer, chunk.ID{X: 2, Z: 2}, 2, 1) {
		t.Error("corner at exactly render distance should be within residency")
	}
	if withinResidency(viewer, chunk.ID{X: 3}, 2, 1) {
		t.Error("chunk beyond render distance reported within residency")
	}
	if withinResidency(viewer, chunk.ID{Y: 2}, 2, 1) {
		t.Error("chunk beyond render height reported within residency")
	}
}
