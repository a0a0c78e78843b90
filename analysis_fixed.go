package flac

// fixedResiduals returns the residuals (signal errors of the prediction)
// between the given audio samples and the samples predicted by the fixed
// linear predictor of the given order. The residual vector has
// len(samples)-order elements; nil is returned if the order is unsupported
// or there are not enough samples to warm up the predictor.
//
// The fixed predictors are polynomial predictors of order 0 through 4:
//
//	p=0: r[i] = s[i]
//	p=1: r[i] = s[i] - s[i-1]
//	p=2: r[i] = s[i] - 2*s[i-1] + s[i-2]
//	p=3: r[i] = s[i] - 3*s[i-1] + 3*s[i-2] - s[i-3]
//	p=4: r[i] = s[i] - 4*s[i-1] + 6*s[i-2] - 4*s[i-3] + s[i-4]
func fixedResiduals(samples []int32, order int) []int32 {
	if order < 0 || order > 4 || len(samples) < order {
		return nil
	}
	residuals := make([]int32, len(samples)-order)
	switch order {
	case 0:
		copy(residuals, samples)
	case 1:
		for i := 1; i < len(samples); i++ {
			residuals[i-1] = samples[i] - samples[i-1]
		}
	case 2:
		for i := 2; i < len(samples); i++ {
			residuals[i-2] = samples[i] - (2*samples[i-1] - samples[i-2])
		}
	case 3:
		for i := 3; i < len(samples); i++ {
			residuals[i-3] = samples[i] - (3*samples[i-1] - 3*samples[i-2] + samples[i-3])
		}
	case 4:
		for i := 4; i < len(samples); i++ {
			residuals[i-4] = samples[i] - (4*samples[i-1] - 6*samples[i-2] + 4*samples[i-3] - samples[i-4])
		}
	}
	return residuals
}

// bestFixedOrder returns the fixed predictor order, at most maxOrder, which
// yields the minimum sum of absolute residuals for the given samples, along
// with the residuals of that order. Ties resolve to the lower order, which
// has the smaller warm-up overhead.
func bestFixedOrder(samples []int32, maxOrder int) (order int, residuals []int32) {
	if maxOrder > 4 {
		maxOrder = 4
	}
	var bestSum uint64
	for candidate := 0; candidate <= maxOrder; candidate++ {
		// Keep the first residual partition non-empty.
		if candidate > 0 && len(samples) <= candidate {
			break
		}
		r := fixedResiduals(samples, candidate)
		var sum uint64
		for _, v := range r {
			if v < 0 {
				sum += uint64(-int64(v))
			} else {
				sum += uint64(v)
			}
		}
		if candidate == 0 || sum < bestSum {
			bestSum = sum
			order = candidate
			residuals = r
		}
	}
	return order, residuals
}
