// Package flac implements encoding of FLAC (Free Lossless Audio Codec)
// audio streams.
//
// A FLAC stream consists of the "fLaC" signature, a StreamInfo metadata
// block, and one or more audio frames. Each frame holds one subframe per
// channel, encoded with one of four prediction methods (constant, verbatim,
// fixed or FIR linear prediction), with prediction residuals stored using
// partitioned Rice coding.
//
// ref: https://www.xiph.org/flac/format.html
package flac

import "errors"

// flacSignature marks the beginning of a FLAC stream.
var flacSignature = []byte("fLaC")

var (
	// ErrLimitExceeded reports a stream parameter outside of the supported
	// range; bits-per-sample, channel count, sample rate or block size.
	ErrLimitExceeded = errors.New("flac: stream parameter outside of supported range")
	// ErrClosed reports a write to an encoder after Close.
	ErrClosed = errors.New("flac: encoder is closed")
)
