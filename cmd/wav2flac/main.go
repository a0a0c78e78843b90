// wav2flac losslessly compresses WAVE audio files to FLAC.
package main

import (
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/audiolith/flac"
	"github.com/audiolith/flac/meta"
)

// Flags.
var (
	// force overwrite FLAC file if already present.
	force bool
	// block size in inter-channel samples; 0 picks the default.
	blockSize uint16
	// maximum FIR linear prediction order; 0 disables FIR prediction.
	maxLPCOrder int
)

var rootCmd = &cobra.Command{
	Use:   "wav2flac [flags] FILE.wav...",
	Short: "Losslessly compress WAVE audio files to FLAC",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, wavPath := range args {
			if err := wav2flac(wavPath); err != nil {
				return err
			}
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().BoolVarP(&force, "force", "f", false, "force overwrite")
	rootCmd.Flags().Uint16Var(&blockSize, "block-size", 0, "block size in samples (0 = default)")
	rootCmd.Flags().IntVar(&maxLPCOrder, "max-lpc-order", 8, "maximum LPC order (0 disables LPC)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

// wav2flac losslessly compresses the given WAVE audio file to a FLAC file
// at the same path with the extension replaced.
func wav2flac(wavPath string) error {
	// Create WAV decoder.
	r, err := os.Open(wavPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer r.Close()
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return errors.Errorf("invalid WAV file %q", wavPath)
	}
	sampleRate, nchannels, bps := int(dec.SampleRate), int(dec.NumChans), int(dec.BitDepth)

	// Create FLAC encoder.
	flacPath := pathutil.TrimExt(wavPath) + ".flac"
	if !force && osutil.Exists(flacPath) {
		return errors.Errorf("FLAC file %q already present; use -f flag to force overwrite", flacPath)
	}
	w, err := os.Create(flacPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer w.Close()
	info := &meta.StreamInfo{
		SampleRate:    uint32(sampleRate),
		NChannels:     uint8(nchannels),
		BitsPerSample: uint8(bps),
	}
	opts := flac.Options{
		BlockSize:   blockSize,
		MaxLPCOrder: maxLPCOrder,
	}
	enc, err := flac.NewEncoderOpts(w, info, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	// Decode WAV samples and feed them to the encoder.
	if err := dec.FwdToPCM(); err != nil {
		return errors.WithStack(err)
	}
	const nsamplesPerChannel = 4096
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: nchannels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, nchannels*nsamplesPerChannel),
		SourceBitDepth: bps,
	}
	samples := make([][]int32, nchannels)
	for i := range samples {
		samples[i] = make([]int32, nsamplesPerChannel)
	}
	for !dec.EOF() {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			break
		}
		// Deinterleave the samples of the channels.
		nper := n / nchannels
		for i := range samples {
			samples[i] = samples[i][:nper]
		}
		for i, sample := range buf.Data[:n] {
			samples[i%nchannels][i/nchannels] = int32(sample)
		}
		if err := enc.Write(samples); err != nil {
			return errors.WithStack(err)
		}
	}

	// Finalize the stream; backpatches StreamInfo with the MD5 checksum and
	// stream totals.
	if err := enc.Close(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
