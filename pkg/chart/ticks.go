package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
)

// PercentTicks labels the default tick marks of an axis holding fractions
// as whole percentages.
type PercentTicks struct{}

var _ plot.Ticker = PercentTicks{}

// Ticks implements plot.Ticker.
func (PercentTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue // minor tick
		}
		ticks[i].Label = FormatPercent(ticks[i].Value)
	}
	return ticks
}

// FormatPercent formats a fraction as a percentage with no decimals.
func FormatPercent(v float64) string {
	pct := math.Round(v * 100)
	if pct == 0 {
		pct = 0 // drop negative zero
	}
	return fmt.Sprintf("%.0f%%", pct)
}
