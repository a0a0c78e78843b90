package flac

import (
	"crypto/md5"
	"hash"
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
	"github.com/pkg/errors"

	"github.com/audiolith/flac/meta"
)

// Options configure an Encoder.
type Options struct {
	// Block size in inter-channel samples; between 16 and 65535 samples. A 0
	// value picks the default block size; 4096 samples, or 1152 when FIR
	// linear prediction is disabled.
	BlockSize uint16
	// Maximum FIR linear prediction order; between 1 and 32. Values below 1
	// disable FIR linear prediction, values above 32 are capped.
	MaxLPCOrder int
}

// DefaultOptions returns the default encoder options; a maximum FIR linear
// prediction order of 8 and the matching default block size.
func DefaultOptions() Options {
	return Options{MaxLPCOrder: 8}
}

// An Encoder represents a FLAC encoder.
type Encoder struct {
	// Underlying io.Writer of the output stream.
	w io.Writer
	// StreamInfo metadata block of the stream; backpatched by Close when w
	// is seekable.
	info *meta.StreamInfo
	// Encoder options.
	opts Options
	// Buffered audio samples (one slice per channel) not yet filling a
	// whole block.
	pending [][]int32
	// Frame number of the next audio frame.
	curNum uint64
	// MD5 running hash of the unencoded audio samples.
	md5sum hash.Hash
	// Totals for the StreamInfo backpatch.
	nsamples                   uint64
	blockSizeMin, blockSizeMax uint16
	frameSizeMin, frameSizeMax uint32
	closed                     bool
}

// NewEncoder returns a new FLAC encoder with default options, writing to w.
// The "fLaC" signature and a provisional StreamInfo metadata block are
// written to w before NewEncoder returns.
//
// Use Write to encode audio samples and Close to finalize the stream. If w
// implements io.WriteSeeker, Close backpatches the StreamInfo metadata
// block with the MD5 checksum of the unencoded audio samples, the total
// sample count, and the block and frame size bounds of the stream.
func NewEncoder(w io.Writer, info *meta.StreamInfo) (*Encoder, error) {
	return NewEncoderOpts(w, info, DefaultOptions())
}

// NewEncoderOpts returns a new FLAC encoder configured by opts, writing to
// w; see NewEncoder.
func NewEncoderOpts(w io.Writer, info *meta.StreamInfo, opts Options) (*Encoder, error) {
	if info.NChannels < 1 || info.NChannels > 8 {
		return nil, errors.Wrapf(ErrLimitExceeded, "%d channels", info.NChannels)
	}
	if info.BitsPerSample < 4 || info.BitsPerSample > 32 {
		return nil, errors.Wrapf(ErrLimitExceeded, "%d bits-per-sample", info.BitsPerSample)
	}
	if info.SampleRate < 1 || info.SampleRate > 655350 {
		return nil, errors.Wrapf(ErrLimitExceeded, "sample rate %d Hz", info.SampleRate)
	}
	if opts.MaxLPCOrder > maxLPCOrder {
		opts.MaxLPCOrder = maxLPCOrder
	}
	if opts.BlockSize == 0 {
		opts.BlockSize = bestBlockSize(opts.MaxLPCOrder)
	}
	if opts.BlockSize < 16 {
		return nil, errors.Wrapf(ErrLimitExceeded, "block size %d", opts.BlockSize)
	}

	enc := &Encoder{
		w:       w,
		info:    info,
		opts:    opts,
		pending: make([][]int32, info.NChannels),
		md5sum:  md5.New(),
	}
	// Provisional stream parameter bounds, refined as frames are encoded.
	info.BlockSizeMin = opts.BlockSize
	info.BlockSizeMax = opts.BlockSize
	enc.blockSizeMin = ^uint16(0)
	enc.frameSizeMin = ^uint32(0)

	// Store the FLAC signature and the StreamInfo metadata block.
	bw := bitio.NewWriter(w)
	if _, err := bw.Write(flacSignature); err != nil {
		return nil, errutil.Err(err)
	}
	if err := writeStreamInfo(bw, info); err != nil {
		return nil, errutil.Err(err)
	}
	if _, err := bw.Align(); err != nil {
		return nil, errutil.Err(err)
	}
	return enc, nil
}

// bestBlockSize returns the default block size for the given maximum FIR
// linear prediction order; 4096 samples, or 1152 when prediction is limited
// to the fixed predictors.
func bestBlockSize(maxLPCOrder int) uint16 {
	if maxLPCOrder < 1 {
		return 1152
	}
	return 4096
}

// Write encodes the given audio samples, one slice per channel, to the
// output stream. Sample slices of successive calls are concatenated;
// whenever a full block of samples accumulates it is encoded as an audio
// frame. All channels must carry the same number of samples.
func (enc *Encoder) Write(samples [][]int32) error {
	if enc.closed {
		return ErrClosed
	}
	if len(samples) != int(enc.info.NChannels) {
		return errutil.Newf("number of sample slices mismatch; expected %d (one per channel), got %d", enc.info.NChannels, len(samples))
	}
	for _, ch := range samples[1:] {
		if len(ch) != len(samples[0]) {
			return errutil.Newf("sample count mismatch between channels; expected %d, got %d", len(samples[0]), len(ch))
		}
	}

	enc.updateMD5(samples)
	for i, ch := range samples {
		enc.pending[i] = append(enc.pending[i], ch...)
	}
	enc.nsamples += uint64(len(samples[0]))

	// Encode all full blocks.
	blockSize := int(enc.opts.BlockSize)
	for len(enc.pending[0]) >= blockSize {
		block := make([][]int32, len(enc.pending))
		for i, ch := range enc.pending {
			block[i] = ch[:blockSize]
		}
		if err := enc.encodeFrame(block); err != nil {
			return errutil.Err(err)
		}
		for i, ch := range enc.pending {
			enc.pending[i] = append(enc.pending[i][:0], ch[blockSize:]...)
		}
	}
	return nil
}

// updateMD5 adds the given samples to the MD5 running hash of the stream;
// interleaved across channels, each sample packed into the smallest number
// of whole bytes, in little-endian order.
func (enc *Encoder) updateMD5(samples [][]int32) {
	nbytes := (int(enc.info.BitsPerSample) + 7) / 8
	var buf [4]byte
	for i := 0; i < len(samples[0]); i++ {
		for _, ch := range samples {
			sample := ch[i]
			for j := 0; j < nbytes; j++ {
				buf[j] = byte(sample)
				sample >>= 8
			}
			enc.md5sum.Write(buf[:nbytes])
		}
	}
}

// trackFrameSize folds the byte size and block size of an encoded frame
// into the stream parameter bounds reported by the StreamInfo metadata
// block.
func (enc *Encoder) trackFrameSize(frameSize uint32, blockSize uint16) {
	if frameSize < enc.frameSizeMin {
		enc.frameSizeMin = frameSize
	}
	if frameSize > enc.frameSizeMax {
		enc.frameSizeMax = frameSize
	}
	// A short last block does not count towards the block size bounds of
	// the stream.
	if blockSize == enc.opts.BlockSize {
		if blockSize < enc.blockSizeMin {
			enc.blockSizeMin = blockSize
		}
		if blockSize > enc.blockSizeMax {
			enc.blockSizeMax = blockSize
		}
	}
}

// Close encodes any buffered samples as a final, possibly short, audio
// frame and finalizes the stream. If the underlying io.Writer implements
// io.WriteSeeker, the StreamInfo metadata block is backpatched with the MD5
// checksum of the unencoded audio samples, the total sample count, and the
// block and frame size bounds of the stream.
func (enc *Encoder) Close() error {
	if enc.closed {
		return nil
	}
	enc.closed = true

	// Flush the final short block.
	if len(enc.pending[0]) > 0 {
		block := make([][]int32, len(enc.pending))
		for i, ch := range enc.pending {
			block[i] = ch
			enc.pending[i] = nil
		}
		if err := enc.encodeFrame(block); err != nil {
			return errutil.Err(err)
		}
	}

	ws, ok := enc.w.(io.WriteSeeker)
	if !ok {
		// Nothing to backpatch; the provisional StreamInfo stands.
		return nil
	}

	// Update the StreamInfo metadata block.
	enc.info.NSamples = enc.nsamples
	copy(enc.info.MD5sum[:], enc.md5sum.Sum(nil))
	if enc.blockSizeMin <= enc.blockSizeMax {
		enc.info.BlockSizeMin = enc.blockSizeMin
		enc.info.BlockSizeMax = enc.blockSizeMax
	}
	if enc.frameSizeMin <= enc.frameSizeMax {
		enc.info.FrameSizeMin = enc.frameSizeMin
		enc.info.FrameSizeMax = enc.frameSizeMax
	}

	end, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return errutil.Err(err)
	}
	if _, err := ws.Seek(int64(len(flacSignature)), io.SeekStart); err != nil {
		return errutil.Err(err)
	}
	bw := bitio.NewWriter(ws)
	if err := writeStreamInfo(bw, enc.info); err != nil {
		return errutil.Err(err)
	}
	if _, err := bw.Align(); err != nil {
		return errutil.Err(err)
	}
	if _, err := ws.Seek(end, io.SeekStart); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// writeStreamInfo writes the StreamInfo metadata block, preceded by its
// metadata block header, to bw. StreamInfo is the only metadata block
// authored by the encoder and is therefore always marked last.
func writeStreamInfo(bw *bitio.Writer, info *meta.StreamInfo) error {
	const (
		blockSizeMinBits  = 16
		blockSizeMaxBits  = 16
		frameSizeMinBits  = 24
		frameSizeMaxBits  = 24
		sampleRateBits    = 20
		nchannelsBits     = 3
		bitsPerSampleBits = 5
		nsamplesBits      = 36
		md5sumBits        = 8 * 16
	)
	nbits := int64(blockSizeMinBits + blockSizeMaxBits + frameSizeMinBits +
		frameSizeMaxBits + sampleRateBits + nchannelsBits + bitsPerSampleBits +
		nsamplesBits + md5sumBits)
	hdr := meta.Header{
		IsLast: true,
		Type:   meta.TypeStreamInfo,
		Length: nbits / 8,
	}
	if err := writeBlockHeader(bw, hdr); err != nil {
		return errutil.Err(err)
	}

	// 16 bits: BlockSizeMin.
	if err := bw.WriteBits(uint64(info.BlockSizeMin), 16); err != nil {
		return errutil.Err(err)
	}
	// 16 bits: BlockSizeMax.
	if err := bw.WriteBits(uint64(info.BlockSizeMax), 16); err != nil {
		return errutil.Err(err)
	}
	// 24 bits: FrameSizeMin.
	if err := bw.WriteBits(uint64(info.FrameSizeMin), 24); err != nil {
		return errutil.Err(err)
	}
	// 24 bits: FrameSizeMax.
	if err := bw.WriteBits(uint64(info.FrameSizeMax), 24); err != nil {
		return errutil.Err(err)
	}
	// 20 bits: SampleRate.
	if err := bw.WriteBits(uint64(info.SampleRate), 20); err != nil {
		return errutil.Err(err)
	}
	// 3 bits: NChannels; stored as (number of channels) - 1.
	if err := bw.WriteBits(uint64(info.NChannels-1), 3); err != nil {
		return errutil.Err(err)
	}
	// 5 bits: BitsPerSample; stored as (bits-per-sample) - 1.
	if err := bw.WriteBits(uint64(info.BitsPerSample-1), 5); err != nil {
		return errutil.Err(err)
	}
	// 36 bits: NSamples.
	if err := bw.WriteBits(info.NSamples, 36); err != nil {
		return errutil.Err(err)
	}
	// 16 bytes: MD5sum.
	if _, err := bw.Write(info.MD5sum[:]); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// writeBlockHeader writes the header of a metadata block to bw.
func writeBlockHeader(bw *bitio.Writer, hdr meta.Header) error {
	// 1 bit: IsLast.
	if err := bw.WriteBool(hdr.IsLast); err != nil {
		return errutil.Err(err)
	}
	// 7 bits: Type.
	if err := bw.WriteBits(uint64(hdr.Type), 7); err != nil {
		return errutil.Err(err)
	}
	// 24 bits: Length.
	if err := bw.WriteBits(uint64(hdr.Length), 24); err != nil {
		return errutil.Err(err)
	}
	return nil
}
