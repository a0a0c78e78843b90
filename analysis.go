package flac

import (
	mathbits "math/bits"

	"github.com/audiolith/flac/frame"
)

// subframeHeaderBits is the size of a subframe header without the unary
// coded wasted bits count; the reserved bit, the 6-bit subframe type and
// the wasted bits flag.
const subframeHeaderBits = 8

// A subframePlan is a fully analyzed subframe; the subframe itself with its
// Rice partitioning filled in, the residuals of its predictor, and the
// exact total size in bits.
type subframePlan struct {
	sub       *frame.Subframe
	residuals []int32
	bits      uint64
}

// analyzeSubframe selects the cheapest encoding of one channel of an audio
// block; a constant subframe for uniform blocks, and otherwise whichever of
// the fixed predictor, the FIR linear predictor and verbatim storage needs
// the fewest bits. Ties resolve in that order. maxOrder bounds the FIR
// predictor order; 0 disables FIR prediction altogether.
//
// The choice may degrade for pathological input but never fails; verbatim
// storage remains valid for any samples.
func analyzeSubframe(samples []int32, bps uint, maxOrder int) *subframePlan {
	if constant, ok := constantPlan(samples, bps); ok {
		return constant
	}

	// Strip wasted bits; trailing zero bits shared by every sample of the
	// block. The samples are non-uniform here, so some sample is non-zero
	// and the shift is bounded.
	wasted := wastedBits(samples)
	if wasted > 0 {
		shifted := make([]int32, len(samples))
		for i, s := range samples {
			shifted[i] = s >> wasted
		}
		samples = shifted
		bps -= wasted
	}
	headerBits := uint64(subframeHeaderBits) + uint64(wasted)
	n := len(samples)

	// Predictor residuals are stored in 32-bit integers; each prediction
	// order costs up to one bit of growth, so wide samples bound the order
	// and, at the widest, fall back to verbatim storage.
	maxFixedOrder := 31 - int(bps)
	if maxFixedOrder < 0 {
		// Order 0 always fits; it stores the samples themselves.
		maxFixedOrder = 0
	}
	if bps > 28 {
		maxOrder = 0
	}

	// Fixed predictor.
	order, residuals := bestFixedOrder(samples, maxFixedOrder)
	rice := bestRicePlan(residuals, n, order)
	best := &subframePlan{
		sub: &frame.Subframe{
			SubHeader: frame.SubHeader{
				Pred:                 frame.PredFixed,
				Order:                order,
				Wasted:               wasted,
				ResidualCodingMethod: rice.method,
				RiceSubframe:         rice.riceSubframe(),
			},
			NSamples: n,
			Samples:  samples,
		},
		residuals: residuals,
		bits:      headerBits + uint64(order)*uint64(bps) + rice.bits,
	}

	// FIR linear predictor.
	if lpc, ok := bestLPC(samples, bps, n, maxOrder); ok {
		order := len(lpc.coeffs)
		rice := bestRicePlan(lpc.residuals, n, order)
		bits := headerBits + uint64(order)*uint64(bps+lpc.precision) + 4 + 5 + rice.bits
		if bits < best.bits {
			best = &subframePlan{
				sub: &frame.Subframe{
					SubHeader: frame.SubHeader{
						Pred:                 frame.PredFIR,
						Order:                order,
						Wasted:               wasted,
						ResidualCodingMethod: rice.method,
						CoeffPrec:            lpc.precision,
						CoeffShift:           lpc.shift,
						Coeffs:               lpc.coeffs,
						RiceSubframe:         rice.riceSubframe(),
					},
					NSamples: n,
					Samples:  samples,
				},
				residuals: lpc.residuals,
				bits:      bits,
			}
		}
	}

	// Verbatim storage.
	if bits := headerBits + uint64(n)*uint64(bps); bits < best.bits {
		best = &subframePlan{
			sub: &frame.Subframe{
				SubHeader: frame.SubHeader{
					Pred:   frame.PredVerbatim,
					Wasted: wasted,
				},
				NSamples: n,
				Samples:  samples,
			},
			bits: bits,
		}
	}
	return best
}

// constantPlan returns the constant subframe of the given samples, or false
// when they are not all equal.
func constantPlan(samples []int32, bps uint) (*subframePlan, bool) {
	for _, s := range samples[1:] {
		if s != samples[0] {
			return nil, false
		}
	}
	return &subframePlan{
		sub: &frame.Subframe{
			SubHeader: frame.SubHeader{
				Pred: frame.PredConstant,
			},
			NSamples: len(samples),
			Samples:  samples,
		},
		bits: subframeHeaderBits + uint64(bps),
	}, true
}

// wastedBits returns the number of trailing zero bits shared by all samples
// of a block. At least one sample must be non-zero.
func wastedBits(samples []int32) uint {
	wasted := uint(32)
	for _, s := range samples {
		if s == 0 {
			continue
		}
		if tz := uint(mathbits.TrailingZeros32(uint32(s))); tz < wasted {
			wasted = tz
			if wasted == 0 {
				break
			}
		}
	}
	if wasted == 32 {
		// All-zero blocks are caught by the constant detector.
		return 0
	}
	return wasted
}
