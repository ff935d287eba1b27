package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/turnout/pkg/dataset"
	"github.com/matzehuels/turnout/pkg/errors"
)

// Font sizes. The title is drawn "large", 1.2 times the base size.
var (
	baseFontSize    = vg.Points(10)
	titleFontSize   = vg.Points(12)
	captionFontSize = vg.Points(9)
)

// slotFill is the share of each category slot covered by a bar or box.
const slotFill = 0.8

// yAxisAllowance approximates the horizontal space taken by the y axis.
const yAxisAllowance = 0.75 * vg.Inch

// boxMargin pads an auto-fit y range on both sides.
const boxMargin = 0.05

var palette = []color.Color{
	color.RGBA{R: 76, G: 114, B: 176, A: 255},
	color.RGBA{R: 85, G: 168, B: 104, A: 255},
	color.RGBA{R: 196, G: 78, B: 82, A: 255},
	color.RGBA{R: 129, G: 114, B: 178, A: 255},
	color.RGBA{R: 204, G: 185, B: 116, A: 255},
	color.RGBA{R: 100, G: 181, B: 205, A: 255},
}

var intervalColor = color.RGBA{R: 66, G: 66, B: 66, A: 255}

func paletteColor(i int) color.Color {
	return palette[i%len(palette)]
}

// errPoints pairs bar tops with their interval offsets for plotter.NewYErrorBars.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Build creates the plot for spec from t. The plot is new on every call and
// owned by the caller.
func Build(t *dataset.Table, spec Spec, opts Options) (*plot.Plot, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	groups := t.Groups()
	if len(groups) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: no rows to plot", spec.Output)
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = ""
	p.Y.Label.Text = "turnout"
	p.Y.Tick.Marker = PercentTicks{}
	setFonts(p)

	width := slotWidth(opts, len(groups))

	var err error
	if spec.Kind.IsBar() {
		err = addBars(p, groups, spec, opts, width)
	} else {
		err = addBoxes(p, groups, width)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "%s", spec.Output)
	}

	p.X.Min = -0.5
	p.X.Max = float64(len(groups)) - 0.5
	p.NominalX(dataset.Labels(groups)...)

	switch {
	case spec.FixBounds:
		p.Y.Min, p.Y.Max = FixedYMin, FixedYMax
	case spec.Kind == KindBox:
		pad := boxMargin * (p.Y.Max - p.Y.Min)
		if pad == 0 {
			pad = 0.01
		}
		p.Y.Min -= pad
		p.Y.Max += pad
	}
	return p, nil
}

func addBars(p *plot.Plot, groups []dataset.Group, spec Spec, opts Options, width vg.Length) error {
	aggs := Aggregate(groups, spec.Kind, opts.Bootstrap)

	// Values beyond a pinned axis would be drawn over the title, so they are
	// cut at the axis like any clipped plot.
	clip := func(v float64) float64 {
		if spec.FixBounds {
			return math.Max(FixedYMin, math.Min(v, FixedYMax))
		}
		return v
	}

	for i, a := range aggs {
		bars, err := plotter.NewBarChart(plotter.Values{clip(a.Value)}, width)
		if err != nil {
			return err
		}
		bars.XMin = float64(i)
		bars.Color = paletteColor(i)
		bars.LineStyle.Width = 0
		p.Add(bars)
	}

	if !spec.Kind.HasInterval() {
		return nil
	}
	pts := errPoints{
		XYs:     make(plotter.XYs, len(aggs)),
		YErrors: make(plotter.YErrors, len(aggs)),
	}
	for i, a := range aggs {
		top := clip(a.Value)
		pts.XYs[i] = plotter.XY{X: float64(i), Y: top}
		pts.YErrors[i].Low = top - clip(a.Low)
		pts.YErrors[i].High = clip(a.High) - top
	}
	ebars, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return err
	}
	ebars.LineStyle.Color = intervalColor
	ebars.LineStyle.Width = vg.Points(1.5)
	ebars.CapWidth = 0
	p.Add(ebars)
	return nil
}

func addBoxes(p *plot.Plot, groups []dataset.Group, width vg.Length) error {
	for i, g := range groups {
		box, err := plotter.NewBoxPlot(width, float64(i), plotter.Values(g.Values))
		if err != nil {
			return err
		}
		box.FillColor = paletteColor(i)
		p.Add(box)
	}
	return nil
}

// slotWidth is the drawn width of one bar or box.
func slotWidth(opts Options, n int) vg.Length {
	avail := vg.Length(opts.Width)*vg.Inch - yAxisAllowance
	return vg.Length(slotFill * float64(avail) / float64(n))
}

func setFonts(p *plot.Plot) {
	sans := func(size font.Length) font.Font {
		f := font.From(plot.DefaultFont, size)
		f.Variant = "Sans"
		return f
	}
	p.Title.TextStyle.Font = sans(titleFontSize)
	p.X.Label.TextStyle.Font = sans(baseFontSize)
	p.Y.Label.TextStyle.Font = sans(baseFontSize)
	p.X.Tick.Label.Font = sans(baseFontSize)
	p.Y.Tick.Label.Font = sans(baseFontSize)
}
