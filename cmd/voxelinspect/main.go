// voxelinspect is a small urfave/cli tool for poking at saved chunk
// files and the block registry without booting a full engine, in the
// spirit of the reference ecosystem's standalone region-file converter.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/oakmoss-games/voxelcore/blocks"
	"github.com/oakmoss-games/voxelcore/chunk"
	"github.com/oakmoss-games/voxelcore/internal/persist"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "voxelinspect",
		Usage: "inspect persisted chunk files and the block registry",
		Commands: []*cli.Command{
			dumpCommand(),
			blockCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "print a saved chunk file's stage bytes and non-air voxel count",
		ArgsUsage: "<save_root> <cx> <cy> <cz>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 4 {
				return cli.Exit("expected <save_root> <cx> <cy> <cz>", 1)
			}

			root := c.Args().Get(0)
			var cx, cy, cz int
			if _, err := fmt.Sscanf(c.Args().Get(1), "%d", &cx); err != nil {
				return err
			}
			if _, err := fmt.Sscanf(c.Args().Get(2), "%d", &cy); err != nil {
				return err
			}
			if _, err := fmt.Sscanf(c.Args().Get(3), "%d", &cz); err != nil {
				return err
			}

			id := chunk.ID{X: int32(cx), Y: int32(cy), Z: int32(cz)}
			data, err := persist.Load(root, id)
			if err != nil {
				return err
			}
			if data == nil {
				return cli.Exit("no save file for that chunk id", 1)
			}

			nonAir := 0
			for _, v := range data.Voxels {
				if v != chunk.Air {
					nonAir++
				}
			}

			fmt.Printf("chunk (%d,%d,%d)\n", id.X, id.Y, id.Z)
			fmt.Printf("  worldGenStage: %d\n", data.WorldGenStage)
			fmt.Printf("  lightingStage: %v\n", data.LightingStage)
			fmt.Printf("  non-air voxels: %d / %d\n", nonAir, chunk.Volume)
			return nil
		},
	}
}

func blockCommand() *cli.Command {
	return &cli.Command{
		Name:      "block",
		Usage:     "look up a block definition by name",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected <name>", 1)
			}
			reg := blocks.NewRegistry()
			id, ok := reg.GetByName(c.Args().Get(0))
			if !ok {
				return cli.Exit("no such block", 1)
			}
			def := reg.Get(id)
			fmt.Printf("id: %d\n", id)
			fmt.Printf("name: %s\n", def.Name)
			fmt.Printf("light emitter: %v\n", def.LightEmitter)
			if def.LightEmitter {
				fmt.Printf("emission: r=%d g=%d b=%d\n", def.Emission.R, def.Emission.G, def.Emission.B)
			}
			return nil
		},
	}
}
