package bits

import "github.com/icza/bitio"

// WriteUnary encodes x to bw as an unary coded integer, represented by x
// zero bits followed by a one bit.
//
// Examples of decoded decimal values on the left and their unary coded
// binary representation on the right:
//
//	0 => 1
//	1 => 01
//	2 => 001
//	3 => 0001
//	4 => 00001
func WriteUnary(bw *bitio.Writer, x uint64) error {
	for ; x >= 8; x -= 8 {
		if err := bw.WriteByte(0x00); err != nil {
			return err
		}
	}
	return bw.WriteBits(1, byte(x+1))
}

// UnaryLen returns the number of bits used by the unary coding of x.
func UnaryLen(x uint64) uint64 {
	return x + 1
}
