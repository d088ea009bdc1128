package lighting

import (
	"testing"

	"github.com/oakmoss-games/voxelcore/chunk"
)

// singleChunkSource is a Source with no generated neighbors, used for
// tests that stay within one chunk's bounds.
type singleChunkSource struct{}

func (singleChunkSource) Neighbor(id chunk.ID, dx, dy, dz int32) (*chunk.Data, bool) {
	return nil, false
}

type stubRegistry struct {
	defs map[chunk.BlockID]chunk.BlockDefinition
}

func (r stubRegistry) Get(id chunk.BlockID) chunk.BlockDefinition {
	return r.defs[id]
}

func (r stubRegistry) GetByName(name string) (chunk.BlockID, bool) {
	for id, def := range r.defs {
		if def.Name == name {
			return id, true
		}
	}
	return 0, false
}

const (
	blockStone chunk.BlockID = 1
	blockTorch chunk.BlockID = 2
)

func newRegistry() stubRegistry {
	return stubRegistry{defs: map[chunk.BlockID]chunk.BlockDefinition{
		blockStone: {Name: "stone"},
		blockTorch: {Name: "torch", LightEmitter: true, Emission: chunk.Emission{R: 15}},
	}}
}

// TestAddLightSingleEmitter is the E1 scenario from spec.md, confined to
// one chunk: a red-channel emitter at (0,0,0) should leave its
// immediate axial neighbors at 14 and decay to 0 after fifteen steps.
func TestAddLightSingleEmitter(t *testing.T) {
	d := chunk.NewData(chunk.ID{})
	result := AddLight(singleChunkSource{}, d, 0, 0, 0, chunk.ChannelRed, 15)

	if got := d.GetChannel(0, 0, 0, chunk.ChannelRed); got != 15 {
		t.Errorf("origin red = %d, want 15", got)
	}
	for _, c := range [][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		if got := d.GetChannel(c[0], c[1], c[2], chunk.ChannelRed); got != 14 {
			t.Errorf("neighbor %v red = %d, want 14", c, got)
		}
	}
	if got := d.GetChannel(15, 0, 0, chunk.ChannelRed); got != 0 {
		t.Errorf("cell 15 steps away red = %d, want 0", got)
	}
	if _, ok := result.Dirty[chunk.ID{}]; !ok {
		t.Error("result should mark the owning chunk dirty")
	}
}

// TestRemoveLightReturnsToPriorState is round-trip law 7: adding an
// emitter then removing it from the same cell restores the field.
func TestRemoveLightReturnsToPriorState(t *testing.T) {
	d := chunk.NewData(chunk.ID{})
	AddLight(singleChunkSource{}, d, 5, 5, 5, chunk.ChannelRed, 15)

	before := make([]chunk.Light, len(d.Light))
	copy(before, d.Light)

	RemoveLight(singleChunkSource{}, d, 5, 5, 5, chunk.ChannelRed, 15)

	for i := range d.Light {
		if d.Light[i].Red() != 0 {
			t.Fatalf("voxel %d still has red light %d after removal", i, d.Light[i].Red())
		}
	}

	for i, l := range before {
		if l.Red() != 0 && d.Light[i].Red() != 0 {
			t.Fatalf("voxel %d not fully darkened", i)
		}
	}
}

// TestLightChannelsStayInBounds is invariant 1: every channel value is
// in [0,15] after a sequence of adds, including ones that saturate.
func TestLightChannelsStayInBounds(t *testing.T) {
	d := chunk.NewData(chunk.ID{})
	AddLight(singleChunkSource{}, d, 16, 16, 16, chunk.ChannelRed, 15)
	AddLight(singleChunkSource{}, d, 16, 16, 16, chunk.ChannelGreen, 20) // caller error: out of range input

	for _, l := range d.Light {
		if l.Red() > 15 || l.Green() > 15 || l.Blue() > 15 || l.Sky() > 15 {
			t.Fatalf("channel out of bounds: %v", l)
		}
	}
}

// TestSkyColumnFullyLit is invariant 4 / scenario E3: an empty chunk's
// initial lighting pass leaves every column at sky 15.
func TestSkyColumnFullyLit(t *testing.T) {
	d := chunk.NewData(chunk.ID{})
	d.AdvanceLighting(chunk.ReadyForLighting)
	reg := newRegistry()

	CalculateInitial(singleChunkSource{}, d, reg)

	for x := 0; x < chunk.Size; x++ {
		for z := 0; z < chunk.Size; z++ {
			for y := 0; y < chunk.Size; y++ {
				if got := d.GetChannel(x, y, z, chunk.ChannelSky); got != 15 {
					t.Fatalf("column (%d,_,%d) at y=%d sky=%d, want 15", x, z, y, got)
				}
			}
		}
	}
	if d.LightingStage != chunk.LocalLightCalculated {
		t.Errorf("lightingStage = %v, want LocalLightCalculated", d.LightingStage)
	}
}

// TestSkyColumnBlockedCastsShadowNotVertical is scenario E3's second
// half: placing a blocker zeroes its own cell, the cell directly below
// loses a level through lateral propagation, and cells above remain lit.
func TestSkyColumnBlockedCastsShadowNotVertical(t *testing.T) {
	d := chunk.NewData(chunk.ID{})
	d.AdvanceLighting(chunk.ReadyForLighting)
	reg := newRegistry()
	CalculateInitial(singleChunkSource{}, d, reg)

	d.Set(0, 2, 0, blockStone)
	old := d.GetChannel(0, 2, 0, chunk.ChannelSky)
	RemoveLight(singleChunkSource{}, d, 0, 2, 0, chunk.ChannelSky, old)

	if got := d.GetChannel(0, 2, 0, chunk.ChannelSky); got != 0 {
		t.Errorf("blocked cell sky = %d, want 0", got)
	}
	if got := d.GetChannel(0, 3, 0, chunk.ChannelSky); got != 15 {
		t.Errorf("cell above blocker sky = %d, want 15", got)
	}
	if got := d.GetChannel(0, 1, 0, chunk.ChannelSky); got != 14 {
		t.Errorf("cell below blocker sky = %d, want 14 (lateral re-fill)", got)
	}
}
