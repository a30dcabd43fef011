package stats

import "math"

// Sum returns the sum of all values
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// Mean calculates the arithmetic mean. ok is false for an empty slice.
func Mean(values []float64) (mean float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	return Sum(values) / float64(len(values)), true
}

// Variance calculates the sample variance
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean, _ := Mean(values)
	var sumSquaredDiff float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}

	return sumSquaredDiff / float64(len(values)-1)
}

// StdDev calculates the sample standard deviation
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// z value of the two-sided 95% normal interval
const z95 = 1.959963984540054

// Accumulator computes count, mean and variance in one pass (Welford)
type Accumulator struct {
	n    int
	mean float64
	m2   float64
}

// Add adds a value to the accumulator
func (a *Accumulator) Add(v float64) {
	a.n++
	delta := v - a.mean
	a.mean += delta / float64(a.n)
	a.m2 += delta * (v - a.mean)
}

// N returns the number of values added
func (a *Accumulator) N() int {
	return a.n
}

// Mean returns the running mean, 0 when empty
func (a *Accumulator) Mean() float64 {
	return a.mean
}

// Variance returns the sample variance
func (a *Accumulator) Variance() float64 {
	if a.n < 2 {
		return 0
	}
	return a.m2 / float64(a.n-1)
}

// CI95 returns the normal-approximation 95% confidence interval of the mean.
// With fewer than two values the interval collapses to the mean.
func (a *Accumulator) CI95() (lower, upper float64) {
	if a.n < 2 {
		return a.mean, a.mean
	}
	half := z95 * math.Sqrt(a.Variance()/float64(a.n))
	return a.mean - half, a.mean + half
}

