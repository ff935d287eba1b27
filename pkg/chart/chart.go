// Package chart draws turnout-by-law-category charts as PNG images.
//
// A chart is described by a [Spec]: a title, an output file name, one of four
// closed chart kinds and whether the y axis is pinned to [0%, 50%]. [Build]
// turns a joined table into a gonum plot, and [Render] draws that plot onto
// a fresh fixed-size canvas, adds the attribution caption, crops surrounding
// whitespace and encodes the result as PNG.
//
// Nothing is shared between calls: every Render constructs its own plot and
// canvas, so charts drawn one after another cannot bleed into each other.
package chart

import (
	"fmt"
	"strings"

	"github.com/matzehuels/turnout/pkg/errors"
	"github.com/matzehuels/turnout/pkg/stats"
)

// Kind selects what a chart draws for each law category.
type Kind int

const (
	// KindMean draws one bar per category at the mean turnout.
	KindMean Kind = iota
	// KindMeanCI draws mean bars with bootstrap confidence interval error bars.
	KindMeanCI
	// KindMedian draws one bar per category at the median turnout.
	KindMedian
	// KindBox draws a box plot of each category's turnout distribution.
	KindBox
)

var kindNames = [...]string{
	KindMean:   "mean",
	KindMeanCI: "mean_ci",
	KindMedian: "median",
	KindBox:    "box",
}

// Fixed y range shared by the bar charts so they can be compared side by side.
const (
	FixedYMin = 0.0
	FixedYMax = 0.5
)

// Caption is the attribution drawn under every chart.
const Caption = `Source: Michael P. McDonald, http://www.electproject.org/2014g, and
LongDistanceVoter.org, http://www.longdistancevoter.org/2014-voter-id-laws
Visualization by Oliver Sherouse, http://oliversherouse.com`

// Canvas defaults: 8x6 inches at 100 DPI.
const (
	DefaultWidth  = 8.0
	DefaultHeight = 6.0
	DefaultDPI    = 100
)

// String returns the kind's configuration name.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the four chart kinds.
func (k Kind) Valid() bool {
	return k >= KindMean && k <= KindBox
}

// IsBar reports whether k draws bars.
func (k Kind) IsBar() bool {
	return k == KindMean || k == KindMeanCI || k == KindMedian
}

// HasInterval reports whether k draws confidence intervals.
func (k Kind) HasInterval() bool {
	return k == KindMeanCI
}

// Estimator returns the statistic a bar of this kind shows. Box plots report
// the median, which is also the line drawn inside each box.
func (k Kind) Estimator() stats.Estimator {
	switch k {
	case KindMean, KindMeanCI:
		return stats.Mean
	default:
		return stats.Median
	}
}

// ParseKind parses a kind name such as "mean_ci".
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidChart,
		"unknown chart kind %q (must be one of: %s)", s, strings.Join(kindNames[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidChart, "invalid chart kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Spec describes one chart.
type Spec struct {
	Title     string `toml:"title"`
	Output    string `toml:"output"`
	Kind      Kind   `toml:"kind"`
	FixBounds bool   `toml:"fix_bounds"`
}

// Validate checks that s can be rendered.
func (s Spec) Validate() error {
	if !s.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidChart, "invalid chart kind %d", int(s.Kind))
	}
	if strings.TrimSpace(s.Title) == "" {
		return errors.New(errors.ErrCodeInvalidChart, "%s chart: title is required", s.Kind)
	}
	if err := errors.ValidateOutputName(s.Output); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidChart, err, "%s chart", s.Kind)
	}
	if s.FixBounds && !s.Kind.IsBar() {
		return errors.New(errors.ErrCodeInvalidChart, "%s chart: fixed y bounds apply to bar charts only", s.Kind)
	}
	return nil
}

// Defaults returns the four standard charts in render order.
func Defaults() []Spec {
	return []Spec{
		{
			Title:     "Mean 2014 State Turnout by Voter ID Law",
			Output:    "mean.png",
			Kind:      KindMean,
			FixBounds: true,
		},
		{
			Title:     "Mean 2014 State Turnout by Voter ID Law with Confidence Intervals",
			Output:    "mean_ci.png",
			Kind:      KindMeanCI,
			FixBounds: true,
		},
		{
			Title:     "Median 2014 State Turnout by Voter ID Law",
			Output:    "median.png",
			Kind:      KindMedian,
			FixBounds: true,
		},
		{
			Title:  "2014 State Turnout Distribution by Voter ID Law",
			Output: "box.png",
			Kind:   KindBox,
		},
	}
}

// Options control the canvas and the confidence interval estimate.
type Options struct {
	Width     float64 // inches
	Height    float64 // inches
	DPI       int
	Bootstrap stats.Bootstrap
}

// DefaultOptions returns an 8x6 inch, 100 DPI canvas with a 95% bootstrap.
func DefaultOptions() Options {
	return Options{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		DPI:       DefaultDPI,
		Bootstrap: stats.NewBootstrap(),
	}
}
