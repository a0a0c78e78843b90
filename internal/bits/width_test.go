package bits

import "testing"

func TestSignedWidth(t *testing.T) {
	golden := []struct {
		x    int32
		want uint
	}{
		{x: 0, want: 0},
		{x: -1, want: 1},
		{x: 1, want: 2},
		{x: -2, want: 2},
		{x: 3, want: 3},
		{x: -4, want: 3},
		{x: 4, want: 4},
		{x: 127, want: 8},
		{x: -128, want: 8},
		{x: 128, want: 9},
	}
	for _, g := range golden {
		got := SignedWidth(g.x)
		if g.want != got {
			t.Errorf("result mismatch of SignedWidth(x=%d); expected %d, got %d", g.x, g.want, got)
			continue
		}
	}
}
