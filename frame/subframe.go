package frame

// A Subframe contains the encoded audio samples from one channel of an audio
// block (a part of the audio stream).
type Subframe struct {
	// Subframe header.
	SubHeader
	// Number of audio samples in the subframe.
	NSamples int
	// Audio samples of the subframe, with any wasted bits already stripped.
	Samples []int32
}

// A SubHeader specifies the prediction method and order of a subframe.
type SubHeader struct {
	// Specifies the prediction method used to encode the audio samples of
	// the subframe.
	Pred Pred
	// Prediction order used by fixed and FIR linear prediction.
	Order int
	// Wasted bits-per-sample.
	Wasted uint
	// Residual coding method used by fixed and FIR linear prediction.
	ResidualCodingMethod ResidualCodingMethod
	// Coefficients' precision in bits used by FIR linear prediction.
	CoeffPrec uint
	// Predictor coefficient shift needed in bits used by FIR linear
	// prediction.
	CoeffShift int32
	// Predictor coefficients used by FIR linear prediction.
	Coeffs []int32
	// Rice-coding subframe fields used by residual coding methods rice1 and
	// rice2; nil if unused.
	RiceSubframe *RiceSubframe
}

// Pred specifies the prediction method used to encode the audio samples of a
// subframe.
type Pred uint8

// Prediction methods.
const (
	// PredConstant specifies that the subframe contains a constant sound.
	PredConstant Pred = iota
	// PredVerbatim specifies that the subframe contains uncompressed audio
	// samples.
	PredVerbatim
	// PredFixed specifies that the subframe uses a fixed linear predictor
	// of order 0-4.
	PredFixed
	// PredFIR specifies that the subframe uses a custom FIR linear
	// predictor of order 1-32.
	PredFIR
)

// ResidualCodingMethod specifies a residual coding method.
type ResidualCodingMethod uint8

// Residual coding methods.
const (
	// ResidualCodingMethodRice1 specifies Rice coding with a 4-bit Rice
	// parameter.
	ResidualCodingMethodRice1 ResidualCodingMethod = 0
	// ResidualCodingMethodRice2 specifies Rice coding with a 5-bit Rice
	// parameter.
	ResidualCodingMethodRice2 ResidualCodingMethod = 1
)

// ParamSize returns the number of bits used to store a Rice parameter under
// the given residual coding method; 4 for rice1 and 5 for rice2.
func (method ResidualCodingMethod) ParamSize() uint {
	if method == ResidualCodingMethodRice2 {
		return 5
	}
	return 4
}

// EscapeParam returns the escape Rice parameter of the given residual coding
// method; all parameter bits set.
func (method ResidualCodingMethod) EscapeParam() uint {
	if method == ResidualCodingMethodRice2 {
		return 0x1F
	}
	return 0xF
}

// MaxParam returns the largest non-escape Rice parameter storable under the
// given residual coding method.
func (method ResidualCodingMethod) MaxParam() uint {
	return method.EscapeParam() - 1
}

// A RiceSubframe holds the Rice partitions of the residuals of a subframe,
// as used by residual coding methods rice1 and rice2.
type RiceSubframe struct {
	// Partition order; the residuals are split into 2^PartOrder contiguous
	// partitions.
	PartOrder int
	// Rice partitions.
	Partitions []RicePartition
}

// A RicePartition is a partition containing a subset of the residuals of a
// subframe.
type RicePartition struct {
	// Rice parameter.
	Param uint
	// Residual sample size in bits-per-sample used by escaped partitions.
	EscapedBitsPerSample uint
}

// FixedCoeffs maps from prediction order to the predictor coefficients of
// the fixed linear predictors.
var FixedCoeffs = [...][]int32{
	0: {},
	1: {1},
	2: {2, -1},
	3: {3, -3, 1},
	4: {4, -6, 4, -1},
}
