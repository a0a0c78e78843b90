// Package crc16 implements the 16-bit cyclic redundancy check, or CRC-16,
// checksum. It is used by FLAC to verify the integrity of audio frames.
package crc16

import "github.com/audiolith/flac/internal/hashutil"

// Size of a CRC-16 checksum in bytes.
const Size = 2

// IBM is the generator polynomial of the CRC-16 checksum used by FLAC audio
// frames; x^16 + x^15 + x^2 + x^0. The x^16 term is implicit.
const IBM = 0x8005

// Table is a 256-entry table representing the polynomial for efficient
// processing.
type Table [256]uint16

// IBMTable is the table for the IBM polynomial.
var IBMTable = makeTable(IBM)

// makeTable returns the table constructed from the specified polynomial.
func makeTable(poly uint16) *Table {
	t := new(Table)
	for i := range t {
		crc := uint16(i) << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}

// MakeTable returns the table constructed from the specified polynomial.
func MakeTable(poly uint16) *Table {
	if poly == IBM {
		return IBMTable
	}
	return makeTable(poly)
}

// Update returns the result of adding the bytes in p to the crc.
func Update(crc uint16, t *Table, p []byte) uint16 {
	for _, v := range p {
		crc = t[byte(crc>>8)^v] ^ crc<<8
	}
	return crc
}

// digest represents the partial evaluation of a checksum.
type digest struct {
	crc uint16
	t   *Table
}

// New creates a new hashutil.Hash16 computing the CRC-16 checksum using the
// polynomial represented by the Table.
func New(t *Table) hashutil.Hash16 {
	return &digest{t: t}
}

// NewIBM creates a new hashutil.Hash16 computing the CRC-16 checksum using
// the IBM polynomial.
func NewIBM() hashutil.Hash16 {
	return New(IBMTable)
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return 1 }

func (d *digest) Reset() { d.crc = 0 }

func (d *digest) Write(p []byte) (n int, err error) {
	d.crc = Update(d.crc, d.t, p)
	return len(p), nil
}

// Sum16 returns the 16-bit checksum of the hash.
func (d *digest) Sum16() uint16 { return d.crc }

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum16()
	return append(in, byte(s>>8), byte(s))
}

// Checksum returns the CRC-16 checksum of data using the polynomial
// represented by the Table.
func Checksum(data []byte, t *Table) uint16 {
	return Update(0, t, data)
}

// ChecksumIBM returns the CRC-16 checksum of data using the IBM polynomial.
func ChecksumIBM(data []byte) uint16 {
	return Update(0, IBMTable, data)
}
