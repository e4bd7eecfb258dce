package analysis

import "math"

// DescriptiveStats holds the summary statistics used by the volatility and
// variability estimators.
type DescriptiveStats struct {
	Avg                    float64 `json:"avg"`
	StdDev                 float64 `json:"stddev"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
}

// Describe computes mean, sample standard deviation and coefficient of
// variation over a numeric sequence. An empty input returns the zero value,
// a documented degenerate case rather than an error. The coefficient of
// variation is defined as 0 when the mean is 0; callers treat a zero mean as
// a no-signal condition.
func Describe(values []float64) DescriptiveStats {
	if len(values) == 0 {
		return DescriptiveStats{}
	}

	avg := calculateMean(values)
	stddev := calculateStdDev(values, avg)

	var cov float64
	if avg != 0 {
		cov = stddev / avg
	}

	return DescriptiveStats{
		Avg:                    avg,
		StdDev:                 stddev,
		CoefficientOfVariation: cov,
	}
}

func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func calculateStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sumSquares float64
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	variance := sumSquares / float64(len(values)-1)
	return math.Sqrt(variance)
}
