// Package mesher turns a chunk plus its 26 neighbors into a face-culled
// vertex/index stream. There is no renderer anywhere in the surrounding
// ecosystem to port this from; face culling, winding, and the flat vs.
// smooth (AO-style) per-vertex lighting modes are implemented directly
// from the algorithm description and the WillowVox C++ original.
package mesher

import (
	"github.com/oakmoss-games/voxelcore/chunk"
)

// Neighbors is the full 3x3x3 cube of chunk handles around a target
// chunk, center included at [1][1][1]. A nil entry means that neighbor
// is not resident; faces whose outward side lands in a nil neighbor are
// treated as open (always emitted), matching the "out of the loaded
// world" case in the carried-forward component design.
type Neighbors [3][3][3]*chunk.Data

// Center returns the chunk being meshed.
func (n *Neighbors) Center() *chunk.Data { return n[1][1][1] }

// resolve normalizes a possibly out-of-range local coordinate into
// [0,Size) and selects the corresponding neighbor slot, dispatching on
// all three axes at once so both axis-aligned face lookups and the
// smooth-lighting corner sampler (which can reach diagonal neighbors)
// go through one code path.
func (n *Neighbors) resolve(x, y, z int) (*chunk.Data, int, int, int, bool) {
	nx, ox := wrap(x)
	ny, oy := wrap(y)
	nz, oz := wrap(z)
	data := n[1+ox][1+oy][1+oz]
	if data == nil {
		return nil, 0, 0, 0, false
	}
	return data, nx, ny, nz, true
}

func wrap(v int) (int, int) {
	if v < 0 {
		return v + chunk.Size, -1
	}
	if v >= chunk.Size {
		return v - chunk.Size, 1
	}
	return v, 0
}

type face struct {
	axis      int // 0=X, 1=Y, 2=Z
	testDelta [3]int
	normal    [3]float32
	// corners holds each vertex's (x,y,z) offset from the voxel's own
	// origin, in emission order matching the fixed (0,2,1,1,2,3) winding.
	corners [4][3]int
}

// faces ports the six per-face vertex blocks from the reference
// renderer's GenerateMesh verbatim, including its East/West normal
// convention (the face tested against the +X neighbor carries normal
// -X and vice versa).
var faces = [6]face{
	{ // South: +Z test
		axis: 2, testDelta: [3]int{0, 0, 1}, normal: [3]float32{0, 0, 1},
		corners: [4][3]int{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1}},
	},
	{ // North: -Z test
		axis: 2, testDelta: [3]int{0, 0, -1}, normal: [3]float32{0, 0, -1},
		corners: [4][3]int{{1, 0, 0}, {0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	},
	{ // East: +X test
		axis: 0, testDelta: [3]int{1, 0, 0}, normal: [3]float32{-1, 0, 0},
		corners: [4][3]int{{1, 0, 1}, {1, 0, 0}, {1, 1, 1}, {1, 1, 0}},
	},
	{ // West: -X test
		axis: 0, testDelta: [3]int{-1, 0, 0}, normal: [3]float32{1, 0, 0},
		corners: [4][3]int{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1}},
	},
	{ // Up: +Y test
		axis: 1, testDelta: [3]int{0, 1, 0}, normal: [3]float32{0, 1, 0},
		corners: [4][3]int{{0, 1, 1}, {1, 1, 1}, {0, 1, 0}, {1, 1, 0}},
	},
	{ // Down: -Y test
		axis: 1, testDelta: [3]int{0, -1, 0}, normal: [3]float32{0, -1, 0},
		corners: [4][3]int{{1, 0, 1}, {0, 0, 1}, {1, 0, 0}, {0, 0, 0}},
	},
}

// uvCorner is the uniform per-corner UV mapping the reference renderer
// uses on every face: corner 0 is (min,min), 1 is (max,min), 2 is
// (min,max), 3 is (max,max).
func uvCorner(rect chunk.UVRect, i int) (u, v float32) {
	switch i {
	case 0:
		return rect.MinU, rect.MinV
	case 1:
		return rect.MaxU, rect.MinV
	case 2:
		return rect.MinU, rect.MaxV
	default:
		return rect.MaxU, rect.MaxV
	}
}

func faceUVRect(def chunk.BlockDefinition, f face) chunk.UVRect {
	switch {
	case f.axis == 1 && f.testDelta[1] > 0:
		return def.Top
	case f.axis == 1 && f.testDelta[1] < 0:
		return def.Bottom
	default:
		return def.Side
	}
}

// Build runs the per-voxel, per-face loop in z-outer/x-middle/y-inner
// order and emits a quad for every face whose outward side is
// transparent. smooth selects the AO-style per-vertex lighting average
// over the flat single-cell mode.
func Build(neighbors *Neighbors, reg chunk.Registry, smooth bool) chunk.Mesh {
	center := neighbors.Center()
	mesh := chunk.Mesh{}

	for z := 0; z < chunk.Size; z++ {
		for x := 0; x < chunk.Size; x++ {
			for y := 0; y < chunk.Size; y++ {
				id := center.Get(x, y, z)
				if id == chunk.Air {
					continue
				}
				def := reg.Get(id)

				for _, f := range faces {
					outData, ox, oy, oz, ok := neighbors.resolve(
						x+f.testDelta[0], y+f.testDelta[1], z+f.testDelta[2],
					)
					if ok && chunk.IsOpaque(outData.Get(ox, oy, oz)) {
						continue
					}

					rect := faceUVRect(def, f)
					var outLight chunk.Light
					if ok {
						outLight = outData.GetLight(ox, oy, oz)
					}

					var verts [4]chunk.Vertex
					for i, corner := range f.corners {
						u, v := uvCorner(rect, i)
						light := outLight
						if smooth {
							light = sampleSmoothLight(neighbors, x, y, z, f, corner)
						}
						verts[i] = chunk.Vertex{
							PX: float32(x + corner[0]), PY: float32(y + corner[1]), PZ: float32(z + corner[2]),
							NX: f.normal[0], NY: f.normal[1], NZ: f.normal[2],
							U: u, V: v,
							Light: light,
						}
					}
					mesh.AppendQuad(verts[0], verts[1], verts[2], verts[3])
				}
			}
		}
	}

	return mesh
}

// inPlaneRange returns the two offsets to sample along one in-plane axis
// for a corner sitting at local offset 0 or 1 on that axis: the corner
// and the cell "behind" it share that vertex, per the averaging rule in
// SPEC_FULL.md / spec.md §4.4.
func inPlaneRange(cornerOffset int) [2]int {
	if cornerOffset == 0 {
		return [2]int{-1, 0}
	}
	return [2]int{0, 1}
}

// sampleSmoothLight averages the light of the up-to-four air cells
// adjacent to one face vertex on the outward side, skipping opaque
// cells, each channel independently, clamped to [0,15]. If all four
// cells are opaque it falls back to the single outward cell used by
// flat mode.
func sampleSmoothLight(neighbors *Neighbors, x, y, z int, f face, corner [3]int) chunk.Light {
	// axisA is the face's own normal axis; its offset is fixed at the
	// outward test delta for all four samples. axes B and C are the two
	// remaining coordinate axes, each ranging over the corner's in-plane
	// neighborhood.
	base := [3]int{x, y, z}
	outward := base
	outward[f.axis] += f.testDelta[f.axis]

	var otherAxes [2]int
	k := 0
	for a := 0; a < 3; a++ {
		if a == f.axis {
			continue
		}
		otherAxes[k] = a
		k++
	}

	rangeB := inPlaneRange(corner[otherAxes[0]])
	rangeC := inPlaneRange(corner[otherAxes[1]])

	var sumR, sumG, sumB, sumS int
	count := 0
	var fallback chunk.Light
	haveFallback := false

	for _, db := range rangeB {
		for _, dc := range rangeC {
			sample := outward
			sample[otherAxes[0]] += db
			sample[otherAxes[1]] += dc

			data, sx, sy, sz, ok := neighbors.resolve(sample[0], sample[1], sample[2])
			if !ok {
				continue
			}
			if db == 0 && dc == 0 {
				fallback = data.GetLight(sx, sy, sz)
				haveFallback = true
			}
			if chunk.IsOpaque(data.Get(sx, sy, sz)) {
				continue
			}

			l := data.GetLight(sx, sy, sz)
			sumS += int(l.Sky())
			sumR += int(l.Red())
			sumG += int(l.Green())
			sumB += int(l.Blue())
			count++
		}
	}

	if count == 0 {
		if haveFallback {
			return fallback
		}
		return 0
	}

	var result chunk.Light
	result = result.Set(chunk.ChannelSky, clamp15(sumS/count))
	result = result.Set(chunk.ChannelRed, clamp15(sumR/count))
	result = result.Set(chunk.ChannelGreen, clamp15(sumG/count))
	result = result.Set(chunk.ChannelBlue, clamp15(sumB/count))
	return result
}

func clamp15(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 15 {
		return 15
	}
	return uint8(v)
}
