package flac

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"

	"github.com/audiolith/flac/frame"
	"github.com/audiolith/flac/internal/hashutil/crc16"
	"github.com/audiolith/flac/internal/hashutil/crc8"
	"github.com/audiolith/flac/internal/utf8"
)

// encodeFrame encodes one block of audio samples (one slice per channel) as
// a frame of the output stream; frame header, one subframe per channel,
// zero-padding to byte alignment and the trailing CRC-16. The frame bytes
// are handed to the output writer in a single write.
func (enc *Encoder) encodeFrame(block [][]int32) error {
	channels, plans, err := enc.analyzeBlock(block)
	if err != nil {
		return errutil.Err(err)
	}
	hdr := &frame.Header{
		HasFixedBlockSize: true,
		BlockSize:         uint16(len(block[0])),
		SampleRate:        enc.info.SampleRate,
		Channels:          channels,
		BitsPerSample:     enc.info.BitsPerSample,
		Num:               enc.curNum,
	}

	// CRC-16 (polynomial = x^16 + x^15 + x^2 + x^0, initialized with 0) of
	// everything before the crc, back to and including the frame header sync
	// code.
	buf := new(bytes.Buffer)
	h := crc16.NewIBM()
	fw := io.MultiWriter(buf, h)
	if err := encodeFrameHeader(fw, hdr); err != nil {
		return errutil.Err(err)
	}

	// Encode subframes.
	bw := bitio.NewWriter(fw)
	bps := uint(enc.info.BitsPerSample)
	for i, plan := range plans {
		if err := encodeSubframe(bw, plan, bps+sideChannelBit(channels, i)); err != nil {
			return errutil.Err(err)
		}
	}

	// Zero-padding to byte alignment.
	if _, err := bw.Align(); err != nil {
		return errutil.Err(err)
	}
	if err := binary.Write(buf, binary.BigEndian, h.Sum16()); err != nil {
		return errutil.Err(err)
	}

	if _, err := enc.w.Write(buf.Bytes()); err != nil {
		return errutil.Err(err)
	}
	enc.curNum++
	enc.trackFrameSize(uint32(buf.Len()), hdr.BlockSize)
	return nil
}

// sideChannelBit returns 1 if subframe i of the given channel assignment
// holds the side channel, whose difference samples need one extra bit.
func sideChannelBit(channels frame.Channels, i int) uint {
	switch channels {
	case frame.ChannelsLeftSide, frame.ChannelsMidSide:
		if i == 1 {
			return 1
		}
	case frame.ChannelsSideRight:
		if i == 0 {
			return 1
		}
	}
	return 0
}

// analyzeBlock selects the channel assignment and per-channel subframes of
// a block. Stereo blocks evaluate the four channel assignments (
// left/right, left/side, side/right and mid/side) by exact subframe cost
// and pick the cheapest; mono and multi-channel blocks encode their
// channels independently.
func (enc *Encoder) analyzeBlock(block [][]int32) (frame.Channels, []*subframePlan, error) {
	bps := uint(enc.info.BitsPerSample)
	maxOrder := enc.opts.MaxLPCOrder

	// Inter-channel decorrelation applies to stereo streams only, and needs
	// one bit of headroom for the side channel.
	if len(block) == 2 && bps < 32 {
		var (
			left  = block[0]
			right = block[1]
			side  = make([]int32, len(left))
			mid   = make([]int32, len(left))
		)
		for i := range left {
			side[i] = left[i] - right[i]
			mid[i] = (left[i] + right[i]) >> 1
		}
		var (
			l = analyzeSubframe(left, bps, maxOrder)
			r = analyzeSubframe(right, bps, maxOrder)
			s = analyzeSubframe(side, bps+1, maxOrder)
			m = analyzeSubframe(mid, bps, maxOrder)
		)
		assignments := []struct {
			channels frame.Channels
			plans    []*subframePlan
		}{
			{frame.ChannelsLR, []*subframePlan{l, r}},
			{frame.ChannelsLeftSide, []*subframePlan{l, s}},
			{frame.ChannelsSideRight, []*subframePlan{s, r}},
			{frame.ChannelsMidSide, []*subframePlan{m, s}},
		}
		best := assignments[0]
		bestBits := best.plans[0].bits + best.plans[1].bits
		for _, a := range assignments[1:] {
			if bits := a.plans[0].bits + a.plans[1].bits; bits < bestBits {
				best, bestBits = a, bits
			}
		}
		return best.channels, best.plans, nil
	}

	var channels frame.Channels
	switch len(block) {
	case 1:
		channels = frame.ChannelsMono
	case 2:
		channels = frame.ChannelsLR
	case 3:
		channels = frame.ChannelsLRC
	case 4:
		channels = frame.ChannelsLRLsRs
	case 5:
		channels = frame.ChannelsLRCLsRs
	case 6:
		channels = frame.ChannelsLRCLfeLsRs
	case 7:
		channels = frame.ChannelsLRCLfeCsSlSr
	case 8:
		channels = frame.ChannelsLRCLfeLsRsSlSr
	default:
		return 0, nil, errutil.Newf("support for %d channels not yet implemented", len(block))
	}
	plans := make([]*subframePlan, len(block))
	for i, samples := range block {
		plans[i] = analyzeSubframe(samples, bps, maxOrder)
	}
	return channels, plans, nil
}

// encodeFrameHeader encodes the given frame header, writing to w; the sync
// code, the stream parameter fields, the UTF-8 coded frame number, any
// literal block size and sample rate suffixes, and the trailing CRC-8.
func encodeFrameHeader(w io.Writer, hdr *frame.Header) error {
	// CRC-8 (polynomial = x^8 + x^2 + x^1 + x^0, initialized with 0) of
	// everything before the crc, including the sync code.
	h := crc8.NewATM()
	hw := io.MultiWriter(h, w)
	bw := bitio.NewWriter(hw)

	// 14 bits: sync code 11111111111110.
	if err := bw.WriteBits(frame.SyncCode, 14); err != nil {
		return errutil.Err(err)
	}

	// 1 bit: reserved.
	if err := bw.WriteBits(0x0, 1); err != nil {
		return errutil.Err(err)
	}

	// 1 bit: blocking strategy.
	//    0 : fixed-blocksize stream; frame header encodes the frame number
	//    1 : variable-blocksize stream; frame header encodes the sample number
	if err := bw.WriteBool(!hdr.HasFixedBlockSize); err != nil {
		return errutil.Err(err)
	}

	// 4 bits: block size in inter-channel samples.
	nblockSizeSuffixBits, err := encodeFrameHeaderBlockSize(bw, hdr.BlockSize)
	if err != nil {
		return errutil.Err(err)
	}

	// 4 bits: sample rate.
	sampleRateSuffix, nsampleRateSuffixBits, err := encodeFrameHeaderSampleRate(bw, hdr.SampleRate)
	if err != nil {
		return errutil.Err(err)
	}

	// 4 bits: channel assignment.
	if err := encodeFrameHeaderChannels(bw, hdr.Channels); err != nil {
		return errutil.Err(err)
	}

	// 3 bits: sample size in bits.
	if err := encodeFrameHeaderBitsPerSample(bw, hdr.BitsPerSample); err != nil {
		return errutil.Err(err)
	}

	// 1 bit: reserved.
	if err := bw.WriteBits(0x0, 1); err != nil {
		return errutil.Err(err)
	}

	//    if (variable blocksize)
	//       <8-56>:"UTF-8" coded sample number (decoded number is 36 bits)
	//    else
	//       <8-48>:"UTF-8" coded frame number (decoded number is 31 bits)
	if err := utf8.Encode(bw, hdr.Num); err != nil {
		return errutil.Err(err)
	}

	// 8 or 16 bits: block size suffix (used for uncommon block sizes).
	if nblockSizeSuffixBits > 0 {
		if err := bw.WriteBits(uint64(hdr.BlockSize-1), nblockSizeSuffixBits); err != nil {
			return errutil.Err(err)
		}
	}

	// 8 or 16 bits: sample rate suffix (used for uncommon sample rates).
	if nsampleRateSuffixBits > 0 {
		if err := bw.WriteBits(sampleRateSuffix, nsampleRateSuffixBits); err != nil {
			return errutil.Err(err)
		}
	}

	// The header fields above are byte-aligned by construction.
	if _, err := bw.Align(); err != nil {
		return errutil.Err(err)
	}

	// 8 bits: CRC-8 of the header bytes so far.
	if err := binary.Write(w, binary.BigEndian, h.Sum8()); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// encodeFrameHeaderBlockSize encodes the block size field of a frame
// header, writing to bw. It returns the number of bits of the literal block
// size suffix stored after the UTF-8 coded frame number, or 0 if the block
// size is stored in the field itself.
func encodeFrameHeaderBlockSize(bw *bitio.Writer, blockSize uint16) (nblockSizeSuffixBits byte, err error) {
	// 4 bits: block size in inter-channel samples.
	//    0000 : reserved
	//    0001 : 192 samples
	//    0010-0101 : 576 * (2^(n-2)) samples, i.e. 576/1152/2304/4608
	//    0110 : get 8 bit (blocksize-1) from end of header
	//    0111 : get 16 bit (blocksize-1) from end of header
	//    1000-1111 : 256 * (2^(n-8)) samples, i.e. 256/512/1024/2048/4096/8192/16384/32768
	var bits uint64
	switch blockSize {
	case 192:
		bits = 0x1
	case 576, 1152, 2304, 4608:
		bits = 0x2 + uint64(blockSize/576) - 1
	case 256, 512, 1024, 2048, 4096, 8192, 16384, 32768:
		bits = 0x8 + uint64(blockSize/256) - 1
	default:
		if blockSize <= 256 {
			bits = 0x6
			nblockSizeSuffixBits = 8
		} else {
			bits = 0x7
			nblockSizeSuffixBits = 16
		}
	}
	if err := bw.WriteBits(bits, 4); err != nil {
		return 0, errutil.Err(err)
	}
	return nblockSizeSuffixBits, nil
}

// encodeFrameHeaderSampleRate encodes the sample rate field of a frame
// header, writing to bw. It returns the value and width of the literal
// sample rate suffix stored after the UTF-8 coded frame number, or a width
// of 0 if no suffix is needed.
func encodeFrameHeaderSampleRate(bw *bitio.Writer, sampleRate uint32) (suffix uint64, nsuffixBits byte, err error) {
	// 4 bits: sample rate.
	//    0000 : get from STREAMINFO metadata block
	//    0001 : 88.2kHz
	//    0010 : 176.4kHz
	//    0011 : 192kHz
	//    0100 : 8kHz
	//    0101 : 16kHz
	//    0110 : 22.05kHz
	//    0111 : 24kHz
	//    1000 : 32kHz
	//    1001 : 44.1kHz
	//    1010 : 48kHz
	//    1011 : 96kHz
	//    1100 : get 8 bit sample rate (in kHz) from end of header
	//    1101 : get 16 bit sample rate (in Hz) from end of header
	//    1110 : get 16 bit sample rate (in tens of Hz) from end of header
	//    1111 : invalid, to prevent sync-fooling string of 1s
	var bits uint64
	switch sampleRate {
	case 0:
		bits = 0x0
	case 88200:
		bits = 0x1
	case 176400:
		bits = 0x2
	case 192000:
		bits = 0x3
	case 8000:
		bits = 0x4
	case 16000:
		bits = 0x5
	case 22050:
		bits = 0x6
	case 24000:
		bits = 0x7
	case 32000:
		bits = 0x8
	case 44100:
		bits = 0x9
	case 48000:
		bits = 0xA
	case 96000:
		bits = 0xB
	default:
		switch {
		case sampleRate <= 255000 && sampleRate%1000 == 0:
			bits = 0xC
			suffix = uint64(sampleRate / 1000)
			nsuffixBits = 8
		case sampleRate <= 65535:
			bits = 0xD
			suffix = uint64(sampleRate)
			nsuffixBits = 16
		case sampleRate <= 655350 && sampleRate%10 == 0:
			bits = 0xE
			suffix = uint64(sampleRate / 10)
			nsuffixBits = 16
		default:
			return 0, 0, errutil.Newf("unable to encode sample rate %v", sampleRate)
		}
	}
	if err := bw.WriteBits(bits, 4); err != nil {
		return 0, 0, errutil.Err(err)
	}
	return suffix, nsuffixBits, nil
}

// encodeFrameHeaderChannels encodes the channel assignment field of a frame
// header, writing to bw.
func encodeFrameHeaderChannels(bw *bitio.Writer, channels frame.Channels) error {
	// 4 bits: channel assignment.
	//    0000-0111 : (number of independent channels)-1, in SMPTE/ITU-R order
	//    1000 : left/side stereo
	//    1001 : side/right stereo
	//    1010 : mid/side stereo
	//    1011-1111 : reserved
	var bits uint64
	switch channels {
	case frame.ChannelsLeftSide:
		bits = 0x8
	case frame.ChannelsSideRight:
		bits = 0x9
	case frame.ChannelsMidSide:
		bits = 0xA
	default:
		bits = uint64(channels.Count() - 1)
	}
	if err := bw.WriteBits(bits, 4); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// encodeFrameHeaderBitsPerSample encodes the sample size field of a frame
// header, writing to bw. Sample sizes without a field value of their own
// defer to the STREAMINFO metadata block.
func encodeFrameHeaderBitsPerSample(bw *bitio.Writer, bps uint8) error {
	// 3 bits: sample size in bits.
	//    000 : get from STREAMINFO metadata block
	//    001 : 8 bits per sample
	//    010 : 12 bits per sample
	//    011 : reserved
	//    100 : 16 bits per sample
	//    101 : 20 bits per sample
	//    110 : 24 bits per sample
	//    111 : 32 bits per sample
	var bits uint64
	switch bps {
	case 8:
		bits = 0x1
	case 12:
		bits = 0x2
	case 16:
		bits = 0x4
	case 20:
		bits = 0x5
	case 24:
		bits = 0x6
	case 32:
		bits = 0x7
	default:
		// 000 : get from STREAMINFO metadata block
		bits = 0x0
	}
	if err := bw.WriteBits(bits, 3); err != nil {
		return errutil.Err(err)
	}
	return nil
}
