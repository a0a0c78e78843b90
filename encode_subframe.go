package flac

import (
	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"

	"github.com/audiolith/flac/frame"
	iobits "github.com/audiolith/flac/internal/bits"
)

// encodeSubframe encodes the given analyzed subframe, writing to bw.
func encodeSubframe(bw *bitio.Writer, plan *subframePlan, bps uint) error {
	sub := plan.sub
	if err := encodeSubframeHeader(bw, sub.SubHeader); err != nil {
		return errutil.Err(err)
	}

	// The subframe body stores samples with the wasted bits stripped.
	bps -= sub.Wasted
	switch sub.Pred {
	case frame.PredConstant:
		// Unencoded constant value of the subblock.
		if err := bw.WriteBits(uint64(sub.Samples[0]), uint8(bps)); err != nil {
			return errutil.Err(err)
		}
	case frame.PredVerbatim:
		// Unencoded subblock.
		for _, sample := range sub.Samples {
			if err := bw.WriteBits(uint64(sample), uint8(bps)); err != nil {
				return errutil.Err(err)
			}
		}
	case frame.PredFixed:
		if err := encodeSubframeWarmup(bw, sub, bps); err != nil {
			return errutil.Err(err)
		}
		if err := encodeResiduals(bw, sub, plan.residuals); err != nil {
			return errutil.Err(err)
		}
	case frame.PredFIR:
		if err := encodeSubframeWarmup(bw, sub, bps); err != nil {
			return errutil.Err(err)
		}
		// 4 bits: coefficient precision minus one.
		if err := bw.WriteBits(uint64(sub.CoeffPrec-1), 4); err != nil {
			return errutil.Err(err)
		}
		// 5 bits: coefficient shift, in two's complement.
		if err := bw.WriteBits(uint64(sub.CoeffShift), 5); err != nil {
			return errutil.Err(err)
		}
		// order * precision bits: predictor coefficients.
		for _, coeff := range sub.Coeffs {
			if err := bw.WriteBits(uint64(coeff), uint8(sub.CoeffPrec)); err != nil {
				return errutil.Err(err)
			}
		}
		if err := encodeResiduals(bw, sub, plan.residuals); err != nil {
			return errutil.Err(err)
		}
	default:
		return errutil.Newf("support for prediction method %v not yet implemented", sub.Pred)
	}
	return nil
}

// encodeSubframeHeader encodes the given subframe header, writing to bw.
func encodeSubframeHeader(bw *bitio.Writer, subHdr frame.SubHeader) error {
	// Zero bit padding, to prevent sync-fooling string of 1s.
	if err := bw.WriteBits(0x0, 1); err != nil {
		return errutil.Err(err)
	}

	// Subframe type:
	//     000000 : SUBFRAME_CONSTANT
	//     000001 : SUBFRAME_VERBATIM
	//     00001x : reserved
	//     0001xx : reserved
	//     001xxx : if(xxx <= 4) SUBFRAME_FIXED, xxx=order ; else reserved
	//     01xxxx : reserved
	//     1xxxxx : SUBFRAME_LPC, xxxxx=order-1
	var bits uint64
	switch subHdr.Pred {
	case frame.PredConstant:
		bits = 0x00
	case frame.PredVerbatim:
		bits = 0x01
	case frame.PredFixed:
		bits = 0x08 | uint64(subHdr.Order)
	case frame.PredFIR:
		bits = 0x20 | uint64(subHdr.Order-1)
	}
	if err := bw.WriteBits(bits, 6); err != nil {
		return errutil.Err(err)
	}

	// <1+k> 'Wasted bits-per-sample' flag:
	//
	//     0 : no wasted bits-per-sample in source subblock, k=0
	//     1 : k wasted bits-per-sample in source subblock, k-1 follows, unary
	//         coded; e.g. k=3 => 001 follows, k=7 => 0000001 follows.
	hasWastedBits := subHdr.Wasted > 0
	if err := bw.WriteBool(hasWastedBits); err != nil {
		return errutil.Err(err)
	}
	if hasWastedBits {
		if err := iobits.WriteUnary(bw, uint64(subHdr.Wasted-1)); err != nil {
			return errutil.Err(err)
		}
	}
	return nil
}

// encodeSubframeWarmup stores the unencoded warm-up samples of a predicted
// subframe, writing to bw.
func encodeSubframeWarmup(bw *bitio.Writer, sub *frame.Subframe, bps uint) error {
	for _, sample := range sub.Samples[:sub.Order] {
		if err := bw.WriteBits(uint64(sample), uint8(bps)); err != nil {
			return errutil.Err(err)
		}
	}
	return nil
}

// encodeResiduals encodes the residuals (prediction method error signals) of
// the subframe, writing to bw.
//
// ref: https://www.xiph.org/flac/format.html#residual
func encodeResiduals(bw *bitio.Writer, sub *frame.Subframe, residuals []int32) error {
	// 2 bits: residual coding method.
	//    00: Rice coding with a 4-bit Rice parameter.
	//    01: Rice coding with a 5-bit Rice parameter.
	//    10: reserved.
	//    11: reserved.
	if err := bw.WriteBits(uint64(sub.ResidualCodingMethod), 2); err != nil {
		return errutil.Err(err)
	}
	switch sub.ResidualCodingMethod {
	case frame.ResidualCodingMethodRice1, frame.ResidualCodingMethodRice2:
		return encodeRicePart(bw, sub, residuals)
	default:
		return errutil.Newf("reserved residual coding method bit pattern (%02b)", uint8(sub.ResidualCodingMethod))
	}
}

// encodeRicePart encodes the Rice partitions holding the residuals of the
// subframe, writing to bw.
//
// ref: https://www.xiph.org/flac/format.html#partitioned_rice
// ref: https://www.xiph.org/flac/format.html#partitioned_rice2
func encodeRicePart(bw *bitio.Writer, sub *frame.Subframe, residuals []int32) error {
	// 4 bits: partition order.
	riceSubframe := sub.RiceSubframe
	if err := bw.WriteBits(uint64(riceSubframe.PartOrder), 4); err != nil {
		return errutil.Err(err)
	}

	// In total 2^partOrder partitions; the first one misses the warm-up
	// samples of the predictor.
	var (
		method    = sub.ResidualCodingMethod
		paramSize = method.ParamSize()
		nparts    = 1 << riceSubframe.PartOrder
		pos       = 0
	)
	for i := range riceSubframe.Partitions {
		partition := &riceSubframe.Partitions[i]
		nsamples := sub.NSamples / nparts
		if i == 0 {
			nsamples -= sub.Order
		}

		// (4 or 5) bits: Rice parameter.
		param := partition.Param
		if err := bw.WriteBits(uint64(param), uint8(paramSize)); err != nil {
			return errutil.Err(err)
		}

		if param == method.EscapeParam() {
			// Escaped partition; the residuals are stored unencoded in
			// two's complement, using a width given by a 5-bit number.
			width := partition.EscapedBitsPerSample
			if err := bw.WriteBits(uint64(width), 5); err != nil {
				return errutil.Err(err)
			}
			for _, residual := range residuals[pos : pos+nsamples] {
				if err := bw.WriteBits(uint64(residual), uint8(width)); err != nil {
					return errutil.Err(err)
				}
			}
			pos += nsamples
			continue
		}

		// Rice coded residuals of the partition.
		for _, residual := range residuals[pos : pos+nsamples] {
			if err := encodeRiceResidual(bw, param, residual); err != nil {
				return errutil.Err(err)
			}
		}
		pos += nsamples
	}
	return nil
}

// encodeRiceResidual encodes a Rice residual (error signal), writing to bw.
func encodeRiceResidual(bw *bitio.Writer, k uint, residual int32) error {
	// Zigzag encode.
	folded := iobits.EncodeZigZag(residual)

	// Unfold into the unary coded quotient and the binary coded remainder.
	high := uint64(folded >> k)
	low := uint64(folded) & (uint64(1)<<k - 1)
	if err := iobits.WriteUnary(bw, high); err != nil {
		return errutil.Err(err)
	}
	return bw.WriteBits(low, uint8(k))
}
