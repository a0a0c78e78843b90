package utf8

import (
	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// Encode writes x to bw as a UTF-8 coded number, using between 1 and 7
// bytes. x must be below 1<<36.
func Encode(bw *bitio.Writer, x uint64) error {
	// 1-byte, 7-bit sequence?
	if x <= rune1Max {
		if err := bw.WriteBits(x, 8); err != nil {
			return errutil.Err(err)
		}
		return nil
	}

	// Determine the number of continuation bytes and the bits of the lead
	// byte.
	var (
		// Number of continuation bytes.
		l int
		// Bits of the lead byte.
		lead uint64
	)
	switch {
	case x <= rune2Max:
		// 110xxxxx; total: 11 bits (5 + 6)
		l = 1
		lead = t2 | (x>>6)&mask2
	case x <= rune3Max:
		// 1110xxxx; total: 16 bits (4 + 6 + 6)
		l = 2
		lead = t3 | (x>>(6*2))&mask3
	case x <= rune4Max:
		// 11110xxx; total: 21 bits (3 + 6 + 6 + 6)
		l = 3
		lead = t4 | (x>>(6*3))&mask4
	case x <= rune5Max:
		// 111110xx; total: 26 bits (2 + 6 + 6 + 6 + 6)
		l = 4
		lead = t5 | (x>>(6*4))&mask5
	case x <= rune6Max:
		// 1111110x; total: 31 bits (1 + 6 + 6 + 6 + 6 + 6)
		l = 5
		lead = t6 | (x>>(6*5))&mask6
	case x <= rune7Max:
		// 11111110; total: 36 bits (0 + 6 + 6 + 6 + 6 + 6 + 6)
		l = 6
		lead = t7
	default:
		return errutil.Newf("unable to encode %d; above 36-bit limit", x)
	}
	if err := bw.WriteBits(lead, 8); err != nil {
		return errutil.Err(err)
	}

	// Store continuation bytes, most significant bits first.
	for i := l - 1; i >= 0; i-- {
		c := tx | (x>>uint(6*i))&maskx
		if err := bw.WriteBits(c, 8); err != nil {
			return errutil.Err(err)
		}
	}
	return nil
}
