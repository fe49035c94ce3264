// Package stats provides the small numeric helpers the writer needs for
// per-channel CN fields: a sampling rate (mean of consecutive differences)
// and a value range (min/max), without pulling in a curve-fitting library.
package stats

// Mean returns the arithmetic mean of values, or 0 if values is empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// MeanDiff returns the mean of consecutive differences of values
// (values[i+1]-values[i]), or 0 if values has fewer than 2 elements.
func MeanDiff(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	diffs := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		diffs[i-1] = values[i] - values[i-1]
	}

	return Mean(diffs)
}

// MinMax returns the minimum and maximum of values. ok is false when values
// is empty, in which case min and max are both 0.
func MinMax(values []float64) (minV, maxV float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}

	minV, maxV = values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	return minV, maxV, true
}
