package chart

import (
	"math"

	"github.com/matzehuels/turnout/pkg/dataset"
	"github.com/matzehuels/turnout/pkg/stats"
)

// Bar is the aggregate drawn for one category.
type Bar struct {
	Category dataset.Category
	N        int
	Value    float64

	// Low and High bound the confidence interval; NaN when the kind draws none.
	Low, High float64
}

// Aggregate computes one [Bar] per group with the statistic of kind.
// Intervals are only computed for kinds that draw them.
func Aggregate(groups []dataset.Group, kind Kind, boot stats.Bootstrap) []Bar {
	est := kind.Estimator()
	bars := make([]Bar, len(groups))
	for i, g := range groups {
		b := Bar{
			Category: g.Category,
			N:        len(g.Values),
			Value:    est(g.Values),
			Low:      math.NaN(),
			High:     math.NaN(),
		}
		if kind.HasInterval() {
			b.Low, b.High = boot.Interval(g.Values, est)
		}
		bars[i] = b
	}
	return bars
}
