// Package blocks is a concrete chunk.Registry implementation: a fixed
// table of block definitions keyed by the reference game's block type
// enumeration, adapted from its id list. Texture atlas layout and
// per-block hardness/orientation metadata are an external authoring
// concern the engine core only consumes through the chunk.Registry
// interface; this package exists to give the tests and the inspector
// CLI something real to run against, not as the canonical block list.
package blocks

import (
	"github.com/oakmoss-games/voxelcore/chunk"
)

// Type mirrors the reference game's block type byte. It is one-to-one
// with chunk.BlockID here; a production registry would likely separate
// "block type" from "numeric id" to allow non-contiguous ids, but this
// table has no gaps to fill.
type Type = chunk.BlockID

const (
	Air Type = iota
	Stone
	Grass
	Dirt
	Cobblestone
	Planks
	Sapling
	Bedrock
	FlowingWater
	Water
	FlowingLava
	Lava
	Sand
	Gravel
	GoldOre
	IronOre
	CoalOre
	Log
	Leaves
	Sponge
	Glass
	LapisOre
	LapisBlock
	Dispenser
	Sandstone
	NoteBlock
	Bed
	PoweredRail
	DetectorRail
	StickyPiston
	Web
	TallGrass
	DeadBush
	Piston
	PistonHead
	Wool
	PistonExtension
	Dandelion
	Rose
	BrownMushroom
	RedMushroom
	GoldBlock
	IronBlock
	DoubleStoneSlab
	Slab
	Bricks
	Tnt
	Bookshelf
	MossStone
	Obsidian
	Torch
	Fire
	Spawner
	WoodStairs
	Chest
	Redstone
	DiamondOre
	DiamondBlock
	CraftingTable
	Wheat
	Farmland
	Furnace
	LitFurnace
	StandingSign
	Door
	Ladder
	Rail
	StoneStairs
	WallSign
	Lever
	StonePressurePlate
	IronDoor
	WoodPressurePlate
	RedstoneOre
	PoweredRedstoneOre
	RedstoneTorchOff
	RedstoneTorchOn
	StoneButton
	SnowLayer
	Ice
	Snow
	Cactus
	Clay
	SugarCane
	Jukebox
	Fence
	Pumpkin
	Netherrack
	SoulSand
	Glowstone
	Portal
	JackOLantern
	Cake
	RepeaterOff
	RepeaterOn
	LockedChest
	Trapdoor

	blockTypeCount
)

// atlasColumns is the assumed width, in tiles, of the texture atlas a
// renderer would bind alongside this registry. UV layout is not part
// of the engine core's contract; this is only enough to give the
// inspector CLI and tests a plausible, deterministic rectangle per id.
const atlasColumns = 16

func tileUV(tileIndex int) chunk.UVRect {
	col := float32(tileIndex % atlasColumns)
	row := float32(tileIndex / atlasColumns)
	const step = 1.0 / float32(atlasColumns)
	return chunk.UVRect{
		MinU: col * step, MinV: row * step,
		MaxU: (col + 1) * step, MaxV: (row + 1) * step,
	}
}

type entry struct {
	name     string
	emitter  bool
	emission chunk.Emission
}

var table = [blockTypeCount]entry{
	Air:                {name: "air"},
	Stone:               {name: "stone"},
	Grass:               {name: "grass"},
	Dirt:                {name: "dirt"},
	Cobblestone:         {name: "cobblestone"},
	Planks:              {name: "planks"},
	Sapling:             {name: "sapling"},
	Bedrock:             {name: "bedrock"},
	FlowingWater:        {name: "flowing_water"},
	Water:               {name: "water"},
	FlowingLava:         {name: "flowing_lava", emitter: true, emission: chunk.Emission{R: 15, G: 9, B: 3}},
	Lava:                {name: "lava", emitter: true, emission: chunk.Emission{R: 15, G: 9, B: 3}},
	Sand:                {name: "sand"},
	Gravel:              {name: "gravel"},
	GoldOre:             {name: "gold_ore"},
	IronOre:             {name: "iron_ore"},
	CoalOre:             {name: "coal_ore"},
	Log:                 {name: "log"},
	Leaves:              {name: "leaves"},
	Sponge:              {name: "sponge"},
	Glass:               {name: "glass"},
	LapisOre:            {name: "lapis_ore"},
	LapisBlock:          {name: "lapis_block"},
	Dispenser:           {name: "dispenser"},
	Sandstone:           {name: "sandstone"},
	NoteBlock:           {name: "note_block"},
	Bed:                 {name: "bed"},
	PoweredRail:         {name: "powered_rail"},
	DetectorRail:        {name: "detector_rail"},
	StickyPiston:        {name: "sticky_piston"},
	Web:                 {name: "web"},
	TallGrass:           {name: "tall_grass"},
	DeadBush:            {name: "dead_bush"},
	Piston:              {name: "piston"},
	PistonHead:          {name: "piston_head"},
	Wool:                {name: "wool"},
	PistonExtension:     {name: "piston_extension"},
	Dandelion:           {name: "dandelion"},
	Rose:                {name: "rose"},
	BrownMushroom:       {name: "brown_mushroom"},
	RedMushroom:         {name: "red_mushroom"},
	GoldBlock:           {name: "gold_block"},
	IronBlock:           {name: "iron_block"},
	DoubleStoneSlab:     {name: "double_stone_slab"},
	Slab:                {name: "slab"},
	Bricks:              {name: "bricks"},
	Tnt:                 {name: "tnt"},
	Bookshelf:           {name: "bookshelf"},
	MossStone:           {name: "moss_stone"},
	Obsidian:            {name: "obsidian"},
	Torch:               {name: "torch", emitter: true, emission: chunk.Emission{R: 14, G: 10, B: 6}},
	Fire:                {name: "fire", emitter: true, emission: chunk.Emission{R: 15, G: 11, B: 4}},
	Spawner:             {name: "spawner"},
	WoodStairs:          {name: "wood_stairs"},
	Chest:               {name: "chest"},
	Redstone:            {name: "redstone"},
	DiamondOre:          {name: "diamond_ore"},
	DiamondBlock:        {name: "diamond_block"},
	CraftingTable:       {name: "crafting_table"},
	Wheat:               {name: "wheat"},
	Farmland:            {name: "farmland"},
	Furnace:             {name: "furnace"},
	LitFurnace:          {name: "lit_furnace", emitter: true, emission: chunk.Emission{R: 13, G: 9, B: 5}},
	StandingSign:        {name: "standing_sign"},
	Door:                {name: "door"},
	Ladder:              {name: "ladder"},
	Rail:                {name: "rail"},
	StoneStairs:         {name: "stone_stairs"},
	WallSign:            {name: "wall_sign"},
	Lever:               {name: "lever"},
	StonePressurePlate:  {name: "stone_pressure_plate"},
	IronDoor:            {name: "iron_door"},
	WoodPressurePlate:   {name: "wood_pressure_plate"},
	RedstoneOre:         {name: "redstone_ore"},
	PoweredRedstoneOre:  {name: "powered_redstone_ore"},
	RedstoneTorchOff:    {name: "redstone_torch_off"},
	RedstoneTorchOn:     {name: "redstone_torch_on", emitter: true, emission: chunk.Emission{R: 7}},
	StoneButton:         {name: "stone_button"},
	SnowLayer:           {name: "snow_layer"},
	Ice:                 {name: "ice"},
	Snow:                {name: "snow"},
	Cactus:              {name: "cactus"},
	Clay:                {name: "clay"},
	SugarCane:           {name: "sugar_cane"},
	Jukebox:             {name: "jukebox"},
	Fence:               {name: "fence"},
	Pumpkin:             {name: "pumpkin"},
	Netherrack:          {name: "netherrack"},
	SoulSand:            {name: "soul_sand"},
	Glowstone:           {name: "glowstone", emitter: true, emission: chunk.Emission{R: 15, G: 15, B: 15}},
	Portal:              {name: "portal", emitter: true, emission: chunk.Emission{R: 8, G: 3, B: 15}},
	JackOLantern:        {name: "jack_o_lantern", emitter: true, emission: chunk.Emission{R: 15, G: 12, B: 4}},
	Cake:                {name: "cake"},
	RepeaterOff:         {name: "repeater_off"},
	RepeaterOn:          {name: "repeater_on"},
	LockedChest:         {name: "locked_chest"},
	Trapdoor:            {name: "trapdoor"},
}

// Registry is the concrete chunk.Registry built from table. It is
// immutable and safe for concurrent use.
type Registry struct{}

// NewRegistry returns the standard block registry.
func NewRegistry() Registry { return Registry{} }

// Get implements chunk.Registry.
func (Registry) Get(id chunk.BlockID) chunk.BlockDefinition {
	if id >= blockTypeCount {
		return chunk.BlockDefinition{}
	}
	e := table[id]
	return chunk.BlockDefinition{
		Name:         e.name,
		Top:          tileUV(int(id)),
		Bottom:       tileUV(int(id)),
		Side:         tileUV(int(id)),
		LightEmitter: e.emitter,
		Emission:     e.emission,
	}
}

// GetByName implements chunk.Registry.
func (Registry) GetByName(name string) (chunk.BlockID, bool) {
	for id, e := range table {
		if e.name == name {
			return chunk.BlockID(id), true
		}
	}
	return 0, false
}
