package mesher

import (
	"testing"

	"github.com/oakmoss-games/voxelcore/chunk"
)

type stubRegistry struct{}

func (stubRegistry) Get(id chunk.BlockID) chunk.BlockDefinition {
	return chunk.BlockDefinition{
		Top:    chunk.UVRect{MinU: 0, MinV: 0, MaxU: 1, MaxV: 1},
		Bottom: chunk.UVRect{MinU: 0, MinV: 0, MaxU: 1, MaxV: 1},
		Side:   chunk.UVRect{MinU: 0, MinV: 0, MaxU: 1, MaxV: 1},
	}
}

func (stubRegistry) GetByName(name string) (chunk.BlockID, bool) { return 0, false }

func buildNeighbors(center *chunk.Data) *Neighbors {
	var n Neighbors
	n[1][1][1] = center
	return &n
}

// TestSingleVoxelEmitsSixFaces checks an isolated block in an otherwise
// empty chunk (no neighbors resident, so every outward side is treated
// as open) produces exactly six quads.
func TestSingleVoxelEmitsSixFaces(t *testing.T) {
	d := chunk.NewData(chunk.ID{})
	d.Set(5, 5, 5, 1)

	mesh := Build(buildNeighbors(d), stubRegistry{}, false)

	if len(mesh.Vertices) != 6*4 {
		t.Fatalf("got %d vertices, want %d", len(mesh.Vertices), 6*4)
	}
	if len(mesh.Indices) != 6*6 {
		t.Fatalf("got %d indices, want %d", len(mesh.Indices), 6*6)
	}
}

// TestBoundaryFaceCullingAcrossChunks is scenario E4: a stone voxel at
// the +X edge of chunk A only emits its +X face when the neighboring
// chunk B's corresponding voxel is air, and loses that face once B's
// voxel becomes opaque.
func TestBoundaryFaceCullingAcrossChunks(t *testing.T) {
	a := chunk.NewData(chunk.ID{X: 0})
	b := chunk.NewData(chunk.ID{X: 1})
	a.Set(chunk.Size-1, 0, 0, 1)

	var n Neighbors
	n[1][1][1] = a
	n[2][1][1] = b // +X neighbor

	mesh := Build(&n, stubRegistry{}, false)
	if len(mesh.Vertices) != 6*4 {
		t.Fatalf("expected face toward open B, got %d vertices", len(mesh.Vertices))
	}

	b.Set(0, 0, 0, 1)
	mesh = Build(&n, stubRegistry{}, false)
	if len(mesh.Vertices) != 5*4 {
		t.Fatalf("expected +X face culled once B is opaque, got %d vertices (want %d)", len(mesh.Vertices), 5*4)
	}
}

// TestQuadWindingIsFixed checks every emitted quad uses the mandated
// (0,2,1,1,2,3) index pattern relative to its own base vertex.
func TestQuadWindingIsFixed(t *testing.T) {
	d := chunk.NewData(chunk.ID{})
	d.Set(0, 0, 0, 1)
	mesh := Build(buildNeighbors(d), stubRegistry{}, false)

	for q := 0; q < len(mesh.Indices)/6; q++ {
		base := uint32(q * 4)
		want := [6]uint32{base, base + 2, base + 1, base + 1, base + 2, base + 3}
		for i := 0; i < 6; i++ {
			if mesh.Indices[q*6+i] != want[i] {
				t.Fatalf("quad %d index %d = %d, want %d", q, i, mesh.Indices[q*6+i], want[i])
			}
		}
	}
}
