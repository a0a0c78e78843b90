package flac

import (
	"reflect"
	"testing"
)

func TestFixedResiduals(t *testing.T) {
	golden := []struct {
		samples []int32
		order   int
		want    []int32
	}{
		{
			samples: []int32{4302, 7496, 6199, 7427, 6484, 7436, 6740, 7508, 6984, 7583, 7182, -5990, -6306, -6032, -6299, -6165},
			order:   1,
			want:    []int32{3194, -1297, 1228, -943, 952, -696, 768, -524, 599, -401, -13172, -316, 274, -267, 134},
		},
		{
			samples: []int32{1, 2, 3, 4, 5},
			order:   0,
			want:    []int32{1, 2, 3, 4, 5},
		},
		{
			// A linear ramp is predicted exactly by the order 2 predictor.
			samples: []int32{1, 2, 3, 4, 5},
			order:   2,
			want:    []int32{0, 0, 0},
		},
		{
			samples: []int32{0, 1, 8, 27, 64, 125},
			order:   3,
			want:    []int32{6, 6, 6},
		},
		{
			samples: []int32{0, 1, 16, 81, 256, 625},
			order:   4,
			want:    []int32{24, 24},
		},
	}
	for _, g := range golden {
		got := fixedResiduals(g.samples, g.order)
		if !reflect.DeepEqual(g.want, got) {
			t.Errorf("residual mismatch for order %d; expected %v, got %v", g.order, g.want, got)
			continue
		}
		if want := len(g.samples) - g.order; want != len(got) {
			t.Errorf("residual length mismatch for order %d; expected %d, got %d", g.order, want, len(got))
		}
	}
}

func TestFixedResidualsInvalid(t *testing.T) {
	if got := fixedResiduals([]int32{1, 2, 3}, 5); got != nil {
		t.Errorf("expected nil residuals for unsupported order; got %v", got)
	}
	if got := fixedResiduals([]int32{1, 2}, 3); got != nil {
		t.Errorf("expected nil residuals for short input; got %v", got)
	}
}

func TestBestFixedOrder(t *testing.T) {
	golden := []struct {
		samples []int32
		want    int
	}{
		// A linear ramp; orders 2 through 4 all yield zero residuals, and
		// the tie resolves to the lowest.
		{samples: []int32{1, 2, 3, 4, 5, 6, 7, 8}, want: 2},
		// A constant run; orders 1 through 4 are exact and the tie resolves
		// to order 1 (order 0 keeps the constant itself as residual).
		{samples: []int32{7, 7, 7, 7, 7, 7, 7, 7}, want: 1},
		// White-ish samples with no structure keep order 0.
		{samples: []int32{100, -100, 100, -100, 100, -100, 100, -100}, want: 0},
	}
	for _, g := range golden {
		order, residuals := bestFixedOrder(g.samples, 4)
		if g.want != order {
			t.Errorf("order mismatch for %v; expected %d, got %d", g.samples, g.want, order)
			continue
		}
		if want := len(g.samples) - order; want != len(residuals) {
			t.Errorf("residual length mismatch; expected %d, got %d", want, len(residuals))
		}
	}
}
