package frame

import "testing"

func TestChannelsCount(t *testing.T) {
	golden := []struct {
		channels Channels
		want     int
	}{
		{channels: ChannelsMono, want: 1},
		{channels: ChannelsLR, want: 2},
		{channels: ChannelsLRCLfeLsRsSlSr, want: 8},
		{channels: ChannelsLeftSide, want: 2},
		{channels: ChannelsSideRight, want: 2},
		{channels: ChannelsMidSide, want: 2},
	}
	for _, g := range golden {
		if got := g.channels.Count(); g.want != got {
			t.Errorf("channel count mismatch for %d; expected %d, got %d", g.channels, g.want, got)
		}
	}
}

func TestResidualCodingMethod(t *testing.T) {
	if want, got := uint(4), ResidualCodingMethodRice1.ParamSize(); want != got {
		t.Errorf("param size mismatch; expected %d, got %d", want, got)
	}
	if want, got := uint(5), ResidualCodingMethodRice2.ParamSize(); want != got {
		t.Errorf("param size mismatch; expected %d, got %d", want, got)
	}
	if want, got := uint(0xF), ResidualCodingMethodRice1.EscapeParam(); want != got {
		t.Errorf("escape param mismatch; expected %#x, got %#x", want, got)
	}
	if want, got := uint(0x1F), ResidualCodingMethodRice2.EscapeParam(); want != got {
		t.Errorf("escape param mismatch; expected %#x, got %#x", want, got)
	}
	if want, got := uint(14), ResidualCodingMethodRice1.MaxParam(); want != got {
		t.Errorf("max param mismatch; expected %d, got %d", want, got)
	}
}

func TestFixedCoeffs(t *testing.T) {
	for order, coeffs := range FixedCoeffs {
		if len(coeffs) != order {
			t.Errorf("coefficient count mismatch for order %d; got %d", order, len(coeffs))
		}
	}
}
