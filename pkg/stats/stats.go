// Package stats provides the estimators drawn by the bar charts and the
// bootstrap used for their confidence intervals.
package stats

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Estimator reduces a sample to a single value.
type Estimator func(xs []float64) float64

// Bootstrap defaults: 1000 resamples, 95% percentile interval, fixed seed.
const (
	DefaultResamples = 1000
	DefaultLevel     = 0.95
	DefaultSeed      = uint64(42)
)

// Mean returns the arithmetic mean of xs, or NaN when xs is empty.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// Median returns the median of xs, averaging the two middle values when the
// length is even. It returns NaN when xs is empty. xs is not modified.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := sortedCopy(xs)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile returns the p-th percentile (0 <= p <= 100) of an ascending
// sorted sample, interpolating linearly between closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= n {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Bootstrap computes percentile bootstrap confidence intervals.
// The zero value is not usable; see [NewBootstrap].
type Bootstrap struct {
	Resamples int
	Level     float64
	Seed      uint64
}

// NewBootstrap returns a Bootstrap with default settings.
func NewBootstrap() Bootstrap {
	return Bootstrap{Resamples: DefaultResamples, Level: DefaultLevel, Seed: DefaultSeed}
}

// Interval resamples xs with replacement b.Resamples times, applies est to
// every resample and returns the central b.Level interval of the results.
// The same seed always yields the same interval. An empty sample yields NaNs.
func (b Bootstrap) Interval(xs []float64, est Estimator) (lo, hi float64) {
	if len(xs) == 0 || b.Resamples <= 0 {
		return math.NaN(), math.NaN()
	}

	rng := rand.New(rand.NewPCG(b.Seed, b.Seed^0x9e3779b97f4a7c15))
	n := len(xs)
	sample := make([]float64, n)
	estimates := make([]float64, b.Resamples)
	for i := range estimates {
		for j := range sample {
			sample[j] = xs[rng.IntN(n)]
		}
		estimates[i] = est(sample)
	}
	sort.Float64s(estimates)

	tail := (1 - b.Level) / 2 * 100
	return Percentile(estimates, tail), Percentile(estimates, 100-tail)
}

// Summary describes one sample.
type Summary struct {
	N      int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes a [Summary] of xs. StdDev is the sample standard
// deviation and is zero for fewer than two values.
func Summarize(xs []float64) Summary {
	s := Summary{N: len(xs)}
	if len(xs) == 0 {
		s.Mean, s.Median, s.Min, s.Max = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Mean = Mean(xs)
	s.Median = Median(xs)
	s.Min = floats.Min(xs)
	s.Max = floats.Max(xs)
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s
}

func sortedCopy(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	sort.Float64s(out)
	return out
}
