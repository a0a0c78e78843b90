package flac

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"

	iobits "github.com/audiolith/flac/internal/bits"
)

// riceEncode encodes the given residuals with a fixed Rice parameter and
// returns the resulting byte stream along with the number of unused bits in
// its last byte.
func riceEncode(t *testing.T, param uint, residuals []int32) (stream []byte, unused uint8) {
	t.Helper()
	buf := new(bytes.Buffer)
	bw := bitio.NewWriter(buf)
	for _, residual := range residuals {
		if err := encodeRiceResidual(bw, param, residual); err != nil {
			t.Fatalf("unable to encode residual %d; %v", residual, err)
		}
	}
	skipped, err := bw.Align()
	if err != nil {
		t.Fatalf("unable to flush bit writer; %v", err)
	}
	return buf.Bytes(), skipped
}

func TestEncodeRiceResidual(t *testing.T) {
	golden := []struct {
		param     uint
		residuals []int32
		want      []byte
		unused    uint8
	}{
		{
			param: 11,
			residuals: []int32{
				3194, -1297, 1228, -943, 952, -696, 768, -524,
				599, -401, -13172, -316, 274, -267, 134,
			},
			want: []byte{
				0x11, 0xE8, 0xA2, 0x14, 0xCC, 0x7A, 0xEF, 0xB8,
				0x6B, 0x7F, 0x00, 0x60, 0xBE, 0x57, 0x59, 0x08,
				0x00, 0x77, 0x3D, 0x3B, 0xD1, 0x25, 0x0A, 0xC8,
				0x60,
			},
			unused: 3,
		},
		{
			param:     3,
			residuals: []int32{3, -1, -13},
			want:      []byte{0xE9, 0x12},
			unused:    1,
		},
	}
	for _, g := range golden {
		stream, unused := riceEncode(t, g.param, g.residuals)
		if !bytes.Equal(g.want, stream) {
			t.Errorf("stream mismatch for param %d; expected % X, got % X", g.param, g.want, stream)
			continue
		}
		if g.unused != unused {
			t.Errorf("unused bit count mismatch for param %d; expected %d, got %d", g.param, g.unused, unused)
		}
	}
}

func TestBestRicePlanPartitions(t *testing.T) {
	// A block evenly divisible by large powers of two; every legal
	// partition order must cover all residuals exactly once.
	const (
		blockSize = 256
		predOrder = 2
	)
	residuals := make([]int32, blockSize-predOrder)
	for i := range residuals {
		residuals[i] = int32(i%17 - 8)
	}
	plan := bestRicePlan(residuals, blockSize, predOrder)
	nparts := 1 << plan.partOrder
	if len(plan.partitions) != nparts {
		t.Fatalf("partition count mismatch; expected %d, got %d", nparts, len(plan.partitions))
	}
	if blockSize%nparts != 0 {
		t.Fatalf("partition count %d does not divide block size %d", nparts, blockSize)
	}
	// sum(partition sizes) = block size - predictor order.
	total := 0
	for i := range plan.partitions {
		n := blockSize / nparts
		if i == 0 {
			n -= predOrder
		}
		if n <= 0 {
			t.Fatalf("empty partition %d", i)
		}
		total += n
	}
	if want := blockSize - predOrder; want != total {
		t.Errorf("partition size sum mismatch; expected %d, got %d", want, total)
	}
}

func TestBestRicePlanOddBlockSize(t *testing.T) {
	// Odd block sizes cannot be split into 2^n partitions.
	const (
		blockSize = 1937
		predOrder = 1
	)
	residuals := make([]int32, blockSize-predOrder)
	for i := range residuals {
		residuals[i] = int32(i % 5)
	}
	plan := bestRicePlan(residuals, blockSize, predOrder)
	if plan.partOrder != 0 {
		t.Errorf("partition order mismatch for odd block size; expected 0, got %d", plan.partOrder)
	}
	if len(plan.partitions) != 1 {
		t.Errorf("partition count mismatch for odd block size; expected 1, got %d", len(plan.partitions))
	}
}

func TestRiceBitsExact(t *testing.T) {
	// The accounted size must equal the sum of the per-residual encoded
	// lengths; unary quotient, stop bit and binary remainder.
	residuals := []int32{3194, -1297, 1228, -943, 952, -696, 768, -524}
	zigzag := make([]uint64, len(residuals))
	for i, r := range residuals {
		zigzag[i] = uint64(iobits.EncodeZigZag(r))
	}
	for param := uint(0); param <= 14; param++ {
		var want uint64
		for _, z := range zigzag {
			want += z>>param + 1 + uint64(param)
		}
		if got := riceBits(zigzag, param); want != got {
			t.Errorf("bit count mismatch for param %d; expected %d, got %d", param, want, got)
		}
	}
}

func TestBestPartitionParamEscape(t *testing.T) {
	// A partition of huge uniform residuals is cheaper stored verbatim than
	// under any Rice parameter neighborhood candidate.
	residuals := make([]int32, 16)
	for i := range residuals {
		residuals[i] = 1 << 22
	}
	zigzag := make([]uint64, len(residuals))
	for i, r := range residuals {
		zigzag[i] = uint64(iobits.EncodeZigZag(r))
	}
	part, bits, escaped := bestPartitionParam(residuals, zigzag)
	if !escaped {
		t.Fatal("expected escaped partition for wide uniform residuals")
	}
	if want := uint(24); want != part.EscapedBitsPerSample {
		t.Errorf("escape width mismatch; expected %d, got %d", want, part.EscapedBitsPerSample)
	}
	if want := uint64(5 + 16*24); want != bits {
		t.Errorf("escape bit count mismatch; expected %d, got %d", want, bits)
	}
}
