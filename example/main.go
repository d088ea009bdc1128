// example wires the engine up end to end: a Store backed by a flat
// WorldGen and the standard block registry, a Scheduler tracking a
// viewer that stays in the origin chunk, and a tick loop driving both,
// mirroring the reference
// server's ticker-driven main loop.
package main

import (
	"time"

	"github.com/oakmoss-games/voxelcore/blocks"
	"github.com/oakmoss-games/voxelcore/chunk"
	"github.com/oakmoss-games/voxelcore/internal/config"
	"github.com/oakmoss-games/voxelcore/internal/logger"
	"github.com/oakmoss-games/voxelcore/worldgen"

	voxelcore "github.com/oakmoss-games/voxelcore"

	"go.uber.org/zap"
)

const ticksPerSecond = 20

func main() {
	cfg := config.Default()
	cfg.Log.Console = true
	cfg.SaveRoot = "world"

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	reg := blocks.NewRegistry()
	gen := worldgen.Flat{GroundHeight: 4, Ground: blocks.Stone, Surface: blocks.Grass}

	store := voxelcore.NewStore(cfg, reg, gen, log)
	defer store.Close()

	scheduler := voxelcore.NewScheduler(store, cfg.RenderDistance, cfg.RenderHeight)

	torch, ok := reg.GetByName("torch")
	if !ok {
		log.Fatal("registry missing torch")
	}

	ticker := time.NewTicker(time.Second / ticksPerSecond)
	defer ticker.Stop()

	viewer := chunk.ID{}
	placed := false

	for i := 0; i < 200; i++ {
		<-ticker.C

		scheduler.Tick(viewer, 32)

		if _, ready := store.TryGet(chunk.ID{}, chunk.LocalLightCalculated, chunk.WorldGenDone); !placed && ready {
			store.SetBlock(0, 5, 0, torch)
			placed = true
			log.Info("placed emitter", zap.Int32("x", 0), zap.Int32("y", 5), zap.Int32("z", 0))
		}

		for _, renderer := range scheduler.DrainDeletionQueue() {
			log.Debug("releasing renderer", zap.Int32("x", renderer.ID().X), zap.Int32("y", renderer.ID().Y), zap.Int32("z", renderer.ID().Z))
		}
	}
}
