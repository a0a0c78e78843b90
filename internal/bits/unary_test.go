package bits_test

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"

	"github.com/audiolith/flac/internal/bits"
)

func TestWriteUnary(t *testing.T) {
	golden := []struct {
		x    uint64
		want []byte
	}{
		// The stop bit follows x zero bits; the bit writer pads the last
		// byte with zeros.
		{x: 0, want: []byte{0x80}},
		{x: 1, want: []byte{0x40}},
		{x: 3, want: []byte{0x10}},
		{x: 7, want: []byte{0x01}},
		{x: 8, want: []byte{0x00, 0x80}},
		{x: 10, want: []byte{0x00, 0x20}},
		{x: 20, want: []byte{0x00, 0x00, 0x08}},
	}
	for _, g := range golden {
		buf := new(bytes.Buffer)
		bw := bitio.NewWriter(buf)
		if err := bits.WriteUnary(bw, g.x); err != nil {
			t.Fatalf("unable to write unary; %v", err)
		}
		if _, err := bw.Align(); err != nil {
			t.Fatalf("unable to flush bit writer; %v", err)
		}
		if got := buf.Bytes(); !bytes.Equal(g.want, got) {
			t.Errorf("result mismatch of WriteUnary(x=%d); expected % X, got % X", g.x, g.want, got)
			continue
		}
	}
}

func TestUnaryLen(t *testing.T) {
	for x := uint64(0); x < 100; x++ {
		if want, got := x+1, bits.UnaryLen(x); want != got {
			t.Errorf("length mismatch of UnaryLen(x=%d); expected %d, got %d", x, want, got)
		}
	}
}
