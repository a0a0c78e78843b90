// Package bits provides bit-level helpers used by the FLAC encoder; zigzag
// and unary coding, and two's complement width accounting.
package bits

// EncodeZigZag encodes x using zigzag encoding, mapping non-negative values
// to even numbers and negative values to odd numbers.
//
// Examples of integer input on the left and corresponding zigzag encoded
// values on the right:
//
//	 0 => 0
//	-1 => 1
//	 1 => 2
//	-2 => 3
//	 2 => 4
//	-3 => 5
//	 3 => 6
//
// ref: https://developers.google.com/protocol-buffers/docs/encoding
func EncodeZigZag(x int32) uint32 {
	return uint32(x<<1) ^ uint32(x>>31)
}

// DecodeZigZag decodes a zigzag encoded value and returns it.
//
// Examples of zigzag encoded values on the left and decoded values on the
// right:
//
//	0 =>  0
//	1 => -1
//	2 =>  1
//	3 => -2
//	4 =>  2
//	5 => -3
//	6 =>  3
func DecodeZigZag(x uint32) int32 {
	return int32(x>>1) ^ -int32(x&1)
}
