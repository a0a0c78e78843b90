package utf8

import (
	"io"

	"github.com/mewkiz/pkg/errutil"
)

// Decode reads and decodes a UTF-8 coded number from r.
func Decode(r io.Reader) (x uint64, err error) {
	c0, err := readByte(r)
	if err != nil {
		return 0, errutil.Err(err)
	}

	// 1-byte, 7-bit sequence?
	if c0 < tx {
		// 0xxxxxxx
		return uint64(c0), nil
	}
	if c0 < t2 {
		// 10xxxxxx
		return 0, errutil.Newf("unexpected continuation byte")
	}

	// Determine the number of continuation bytes and store the bits of the
	// lead byte.
	var l int
	switch {
	case c0 < t3:
		// 110xxxxx
		l = 1
		x = uint64(c0 & mask2)
	case c0 < t4:
		// 1110xxxx
		l = 2
		x = uint64(c0 & mask3)
	case c0 < t5:
		// 11110xxx
		l = 3
		x = uint64(c0 & mask4)
	case c0 < t6:
		// 111110xx
		l = 4
		x = uint64(c0 & mask5)
	case c0 < t7:
		// 1111110x
		l = 5
		x = uint64(c0 & mask6)
	case c0 < t8:
		// 11111110
		l = 6
		x = 0
	default:
		return 0, errutil.Newf("invalid lead byte 0xFF")
	}

	// Store the bits of the continuation bytes.
	for i := 0; i < l; i++ {
		c, err := readByte(r)
		if err != nil {
			if err == io.EOF {
				return 0, errutil.Err(io.ErrUnexpectedEOF)
			}
			return 0, errutil.Err(err)
		}
		if c < tx || t2 <= c {
			return 0, errutil.Newf("expected continuation byte")
		}
		x = x<<6 | uint64(c&maskx)
	}
	return x, nil
}

// readByte reads and returns a single byte from r.
func readByte(r io.Reader) (byte, error) {
	if br, ok := r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
