package voxelcore

import (
	"testing"

	"github.com/oakmoss-games/voxelcore/chunk"
)

func TestLightingJobLabelDistinguishesAllFourKinds(t *testing.T) {
	emitter := chunk.BlockDefinition{Name: "torch", LightEmitter: true}
	plainBlock := chunk.BlockDefinition{Name: "stone"}

	cases := []struct {
		name    string
		prevID  chunk.BlockID
		prevDef chunk.BlockDefinition
		nextID  chunk.BlockID
		nextDef chunk.BlockDefinition
		want    string
	}{
		{"placing an emitter", chunk.Air, chunk.BlockDefinition{}, 1, emitter, jobKindEmitterAdd},
		{"removing an emitter", 1, emitter, chunk.Air, chunk.BlockDefinition{}, jobKindEmitterRemove},
		{"placing an opaque non-emitter", chunk.Air, chunk.BlockDefinition{}, 2, plainBlock, jobKindBlockerAdd},
		{"removing an opaque non-emitter", 2, plainBlock, chunk.Air, chunk.BlockDefinition{}, jobKindBlockerRemove},
		{"swapping one opaque block for another", 2, plainBlock, 3, plainBlock, jobKindRelightNoDelta},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := lightingJobLabel(c.prevID, c.prevDef, c.nextID, c.nextDef)
			if got != c.want {
				t.Errorf("lightingJobLabel() = %q, want %q", got, c.want)
			}
		})
	}
}
