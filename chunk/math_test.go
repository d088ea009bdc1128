package chunk

import "testing"

func TestFloorDivNegative(t *testing.T) {
	cases := []struct {
		a, b, want int32
	}{
		{31, 32, 0},
		{32, 32, 1},
		{-1, 32, -1},
		{-32, 32, -1},
		{-33, 32, -2},
	}

	for _, c := range cases {
		got := FloorDivInt32(c.a, c.b)
		if got != c.want {
			t.Errorf("FloorDivInt32(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestFloorModAlwaysNonNegative(t *testing.T) {
	for a := int32(-40); a <= 40; a++ {
		m := FloorModInt32(a, Size)
		if m < 0 || m >= Size {
			t.Errorf("FloorModInt32(%d, %d) = %d, out of [0,%d)", a, Size, m, Size)
		}
	}
}

func TestBlockToChunkAndLocalRoundTrip(t *testing.T) {
	for bx := int32(-70); bx <= 70; bx += 7 {
		id := BlockToChunk(bx, 0, 0)
		x, _, _ := BlockToLocal(bx, 0, 0)
		reconstructed := id.X*Size + int32(x)
		if reconstructed != bx {
			t.Errorf("block %d -> chunk %d local %d -> %d, want %d", bx, id.X, x, reconstructed, bx)
		}
		if x < 0 || x >= Size {
			t.Errorf("local coordinate %d out of range for block %d", x, bx)
		}
	}
}
