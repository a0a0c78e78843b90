package crc8

import "testing"

func TestChecksumATM(t *testing.T) {
	golden := []struct {
		data []byte
		want uint8
	}{
		{data: []byte{0x10}, want: 0x70},
		// FLAC frame header; sync code through the 8-bit literal block size.
		{data: []byte{0xFF, 0xF8, 0x69, 0x18, 0x00, 0x00}, want: 0xBF},
	}
	for _, g := range golden {
		got := ChecksumATM(g.data)
		if g.want != got {
			t.Errorf("checksum mismatch for % X; expected 0x%02X, got 0x%02X", g.data, g.want, got)
			continue
		}
	}
}

func TestDigest(t *testing.T) {
	// The running hash must match the one-shot checksum across split writes.
	data := []byte{0xFF, 0xF8, 0x69, 0x18, 0x00, 0x00}
	h := NewATM()
	if _, err := h.Write(data[:3]); err != nil {
		t.Fatalf("unable to write to hash; %v", err)
	}
	if _, err := h.Write(data[3:]); err != nil {
		t.Fatalf("unable to write to hash; %v", err)
	}
	if want, got := uint8(0xBF), h.Sum8(); want != got {
		t.Errorf("checksum mismatch; expected 0x%02X, got 0x%02X", want, got)
	}
	if want, got := 1, len(h.Sum(nil)); want != got {
		t.Errorf("checksum length mismatch; expected %d, got %d", want, got)
	}
	h.Reset()
	if got := h.Sum8(); got != 0 {
		t.Errorf("non-zero checksum after reset; got 0x%02X", got)
	}
}
