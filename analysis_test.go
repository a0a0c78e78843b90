package flac

import (
	"math"
	"testing"

	"github.com/audiolith/flac/frame"
)

func TestWastedBits(t *testing.T) {
	golden := []struct {
		samples []int32
		want    uint
	}{
		{samples: []int32{1, 2, 3}, want: 0},
		{samples: []int32{2, 4, 6}, want: 1},
		{samples: []int32{8, 16, 0, 24}, want: 3},
		{samples: []int32{-8, 8, 64}, want: 3},
		{samples: []int32{1024}, want: 10},
	}
	for _, g := range golden {
		got := wastedBits(g.samples)
		if g.want != got {
			t.Errorf("wasted bits mismatch for %v; expected %d, got %d", g.samples, g.want, got)
			continue
		}
	}
}

func TestAnalyzeSubframeConstant(t *testing.T) {
	samples := make([]int32, 64)
	for i := range samples {
		samples[i] = -42
	}
	plan := analyzeSubframe(samples, 16, 8)
	if plan.sub.Pred != frame.PredConstant {
		t.Fatalf("prediction method mismatch; expected constant, got %v", plan.sub.Pred)
	}
	if want := uint64(subframeHeaderBits + 16); want != plan.bits {
		t.Errorf("bit count mismatch; expected %d, got %d", want, plan.bits)
	}
}

func TestAnalyzeSubframeWasted(t *testing.T) {
	// Samples sharing 4 trailing zero bits; the subframe must strip them
	// and record the count.
	samples := make([]int32, 64)
	for i := range samples {
		samples[i] = int32((i%7 - 3) * 16)
	}
	plan := analyzeSubframe(samples, 16, 8)
	if want := uint(4); want != plan.sub.Wasted {
		t.Fatalf("wasted bits mismatch; expected %d, got %d", want, plan.sub.Wasted)
	}
	for i, s := range plan.sub.Samples {
		if want := int32(i%7 - 3); want != s {
			t.Fatalf("shifted sample mismatch at %d; expected %d, got %d", i, want, s)
		}
	}
}

func TestAnalyzeSubframePredicted(t *testing.T) {
	// A smooth waveform compresses well below verbatim size.
	samples := make([]int32, 256)
	for i := range samples {
		samples[i] = int32(math.Round(5000 * math.Sin(2*math.Pi*float64(i)/80)))
	}
	plan := analyzeSubframe(samples, 16, 8)
	if plan.sub.Pred != frame.PredFixed && plan.sub.Pred != frame.PredFIR {
		t.Fatalf("prediction method mismatch; expected fixed or FIR, got %v", plan.sub.Pred)
	}
	if verbatim := uint64(subframeHeaderBits + 256*16); plan.bits >= verbatim {
		t.Errorf("no compression; %d bits >= verbatim %d bits", plan.bits, verbatim)
	}
	// sum(partition sizes) = block size - predictor order.
	nparts := 1 << plan.sub.RiceSubframe.PartOrder
	if want := len(samples) - plan.sub.Order; want != len(plan.residuals) {
		t.Errorf("residual count mismatch; expected %d, got %d", want, len(plan.residuals))
	}
	if len(plan.sub.RiceSubframe.Partitions) != nparts {
		t.Errorf("partition count mismatch; expected %d, got %d", nparts, len(plan.sub.RiceSubframe.Partitions))
	}
}

func TestAnalyzeSubframeNeverFails(t *testing.T) {
	// Pathological noise spanning the full sample range must still produce
	// a valid subframe; at worst verbatim.
	samples := make([]int32, 64)
	x := uint32(0x12345678)
	for i := range samples {
		// xorshift
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		samples[i] = int32(x)
	}
	plan := analyzeSubframe(samples, 32, 8)
	if plan == nil || plan.sub == nil {
		t.Fatal("no subframe plan produced")
	}
	if plan.bits == 0 {
		t.Fatal("zero-size subframe plan")
	}
}
