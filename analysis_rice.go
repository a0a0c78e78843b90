package flac

import (
	mathbits "math/bits"

	"github.com/audiolith/flac/frame"
	iobits "github.com/audiolith/flac/internal/bits"
)

// maxPartOrder is the largest partition order storable in the 4-bit
// partition order field of a subframe.
const maxPartOrder = 15

// A ricePlan describes the partitioned Rice coding of the residuals of one
// subframe; the residual coding method, the partition order and the
// parameter (or escape width) of every partition.
type ricePlan struct {
	method     frame.ResidualCodingMethod
	partOrder  int
	partitions []frame.RicePartition
	// Total size of the residual section in bits, including the coding
	// method and partition order fields.
	bits uint64
}

// riceSubframe returns the Rice partitions of the plan in the form emitted
// into a subframe.
func (plan *ricePlan) riceSubframe() *frame.RiceSubframe {
	return &frame.RiceSubframe{
		PartOrder:  plan.partOrder,
		Partitions: plan.partitions,
	}
}

// bestRicePlan returns the partitioned Rice coding of the given residuals
// which minimizes the total bit count across all legal partition orders.
//
// A partition order po splits the block into 2^po partitions; the first one
// misses the warm-up samples of the predictor. Legal orders must divide the
// block size evenly and leave the first partition non-empty; an odd block
// size therefore always pins the order to 0. Ties resolve to the lower
// order.
func bestRicePlan(residuals []int32, blockSize, predOrder int) ricePlan {
	zigzag := make([]uint64, len(residuals))
	for i, r := range residuals {
		zigzag[i] = uint64(iobits.EncodeZigZag(r))
	}

	var best ricePlan
	for po := 0; po <= maxPartOrder; po++ {
		nparts := 1 << po
		if blockSize%nparts != 0 || blockSize/nparts <= predOrder {
			break
		}
		plan := planForOrder(residuals, zigzag, blockSize, predOrder, po)
		if po == 0 || plan.bits < best.bits {
			best = plan
		}
	}
	return best
}

// planForOrder computes the cheapest Rice coding of the residuals at one
// specific partition order.
func planForOrder(residuals []int32, zigzag []uint64, blockSize, predOrder, po int) ricePlan {
	nparts := 1 << po
	plan := ricePlan{
		partOrder:  po,
		partitions: make([]frame.RicePartition, nparts),
	}
	// 2 bits coding method, 4 bits partition order.
	plan.bits = 2 + 4

	pos := 0
	needRice2 := false
	for i := 0; i < nparts; i++ {
		n := blockSize / nparts
		if i == 0 {
			n -= predOrder
		}
		part, bits, escaped := bestPartitionParam(residuals[pos:pos+n], zigzag[pos:pos+n])
		if !escaped && part.Param > frame.ResidualCodingMethodRice1.MaxParam() {
			needRice2 = true
		}
		plan.partitions[i] = part
		plan.bits += bits
		pos += n
	}

	plan.method = frame.ResidualCodingMethodRice1
	if needRice2 {
		plan.method = frame.ResidualCodingMethodRice2
	}
	// Patch up escape markers and account for the per-partition parameter
	// field, whose width depends on the chosen coding method.
	for i := range plan.partitions {
		part := &plan.partitions[i]
		if part.Param == escapeMarker {
			part.Param = plan.method.EscapeParam()
		}
		plan.bits += uint64(plan.method.ParamSize())
	}
	return plan
}

// escapeMarker marks an escaped partition until the residual coding method,
// and with it the escape parameter value, is known.
const escapeMarker = ^uint(0)

// bestPartitionParam returns the cheapest coding of a single partition;
// either Rice coding under the best parameter, or an escaped partition
// storing the residuals verbatim. The bit count excludes the parameter
// field itself.
func bestPartitionParam(residuals []int32, zigzag []uint64) (part frame.RicePartition, bits uint64, escaped bool) {
	n := uint64(len(residuals))
	var sum uint64
	for _, z := range zigzag {
		sum += z
	}

	// Estimate the Rice parameter from the mean residual magnitude and
	// probe its immediate neighborhood for the exact minimum.
	var estimate uint
	if sum > n {
		estimate = uint(mathbits.Len64(sum/n)) - 1
		if estimate > maxRiceParam {
			estimate = maxRiceParam
		}
	}
	bestParam, bestBits := estimate, riceBits(zigzag, estimate)
	if estimate > 0 {
		if b := riceBits(zigzag, estimate-1); b < bestBits {
			bestParam, bestBits = estimate-1, b
		}
	}
	if estimate < maxRiceParam {
		if b := riceBits(zigzag, estimate+1); b < bestBits {
			bestParam, bestBits = estimate+1, b
		}
	}

	// Escaped partitions store each residual in two's complement using the
	// widest width any of them needs.
	var width uint
	for _, r := range residuals {
		if w := iobits.SignedWidth(r); w > width {
			width = w
		}
	}
	if escBits := 5 + n*uint64(width); escBits < bestBits {
		return frame.RicePartition{Param: escapeMarker, EscapedBitsPerSample: width}, escBits, true
	}
	return frame.RicePartition{Param: bestParam}, bestBits, false
}

// maxRiceParam is the largest non-escape Rice parameter of residual coding
// method rice2.
const maxRiceParam = 30

// riceBits returns the exact number of bits needed to Rice code the given
// zigzag folded residuals with parameter m.
func riceBits(zigzag []uint64, m uint) uint64 {
	bits := uint64(len(zigzag)) * uint64(1+m)
	for _, z := range zigzag {
		bits += z >> m
	}
	return bits
}

// estimateResidualBits returns the size of the residual section of a
// subframe under a single Rice partition; a fast upper bound used when
// comparing prediction orders against each other.
func estimateResidualBits(residuals []int32) uint64 {
	zigzag := make([]uint64, len(residuals))
	for i, r := range residuals {
		zigzag[i] = uint64(iobits.EncodeZigZag(r))
	}
	_, bits, _ := bestPartitionParam(residuals, zigzag)
	return 2 + 4 + 4 + bits
}
