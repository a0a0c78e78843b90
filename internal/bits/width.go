package bits

import "math/bits"

// SignedWidth returns the minimum number of bits required to store x in
// two's complement representation.
//
//	 0 => 0
//	 1 => 2
//	-1 => 1
//	 3 => 3
//	-4 => 3
func SignedWidth(x int32) uint {
	return uint(bits.Len32(EncodeZigZag(x)))
}
