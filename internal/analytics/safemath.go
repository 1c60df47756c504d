package analytics

import "math"

// SafeDivide returns n/d, or 0 when the denominator is zero. Every ratio and
// percentage in this package goes through it so that aggregate output never
// contains NaN or Inf, regardless of how degenerate the input slice is.
func SafeDivide(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev returns the sample standard deviation (n-1 denominator), or 0 when
// fewer than two values are present.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
