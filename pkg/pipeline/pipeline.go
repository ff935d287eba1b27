// Package pipeline runs the load → render sequence that produces the turnout
// charts.
//
// The pipeline reads the turnout and ID-law tables once, joins them, and then
// draws each configured chart in order, writing one PNG per chart. Rendered
// images are cached by a hash of the joined table and the chart settings, so
// an unchanged rerun only copies bytes.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.DataDir = "data"
//	opts.ImgDir = "img"
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, out := range result.Outputs {
//	    fmt.Println(out.Path)
//	}
//
// Options can also be read from a TOML file with [LoadConfig].
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/turnout/pkg/cache"
	"github.com/matzehuels/turnout/pkg/chart"
	"github.com/matzehuels/turnout/pkg/dataset"
	"github.com/matzehuels/turnout/pkg/errors"
	pkgio "github.com/matzehuels/turnout/pkg/io"
	"github.com/matzehuels/turnout/pkg/stats"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultDataDir holds the input tables, relative to the base directory.
	DefaultDataDir = "data"

	// DefaultImgDir receives the charts, relative to the base directory.
	DefaultImgDir = "img"

	// MaxDPI bounds the output resolution.
	MaxDPI = 1200
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Input options
	DataDir     string `json:"data_dir"`
	TurnoutFile string `json:"turnout_file,omitempty"`
	LawsFile    string `json:"laws_file,omitempty"`
	TitleRows   int    `json:"title_rows"` // title lines above the turnout header

	// Output options
	ImgDir string       `json:"img_dir"`
	Charts []chart.Spec `json:"charts,omitempty"`
	Width  float64      `json:"width,omitempty"`  // inches
	Height float64      `json:"height,omitempty"` // inches
	DPI    int          `json:"dpi,omitempty"`

	// Confidence interval options
	Resamples int     `json:"resamples,omitempty"`
	Level     float64 `json:"level,omitempty"`
	Seed      uint64  `json:"seed,omitempty"`

	// Refresh skips cache lookups; fresh renders are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// DefaultOptions returns options that render the four standard charts from
// data/ into img/. Logger is left nil so a Runner supplies its own.
func DefaultOptions() Options {
	o := Options{TitleRows: pkgio.DefaultTitleRows, Seed: stats.DefaultSeed}
	o.SetDefaults()
	o.Logger = nil
	return o
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Table is the joined input table.
	Table *dataset.Table

	// TableHash is the content hash of Table, used in cache keys.
	TableHash string

	// Outputs lists the written charts in render order.
	Outputs []Output

	// Stats contains timing and size information.
	Stats Stats

	// CacheHits counts charts served from the cache.
	CacheHits int
}

// Output describes one written chart.
type Output struct {
	Spec     chart.Spec
	Path     string
	Size     int
	Cached   bool
	Duration time.Duration
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows         int
	Unrecognized int
	LoadTime     time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills every unset field except TitleRows and Seed, for which
// zero is a meaningful value.
func (o *Options) SetDefaults() {
	if o.DataDir == "" {
		o.DataDir = DefaultDataDir
	}
	if o.TurnoutFile == "" {
		o.TurnoutFile = pkgio.DefaultTurnoutFile
	}
	if o.LawsFile == "" {
		o.LawsFile = pkgio.DefaultLawsFile
	}
	if o.ImgDir == "" {
		o.ImgDir = DefaultImgDir
	}
	if len(o.Charts) == 0 {
		o.Charts = chart.Defaults()
	}
	if o.Width == 0 {
		o.Width = chart.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = chart.DefaultHeight
	}
	if o.DPI == 0 {
		o.DPI = chart.DefaultDPI
	}
	if o.Resamples == 0 {
		o.Resamples = stats.DefaultResamples
	}
	if o.Level == 0 {
		o.Level = stats.DefaultLevel
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks options after defaults have been applied.
func (o *Options) Validate() error {
	for _, name := range []string{o.TurnoutFile, o.LawsFile} {
		if err := errors.ValidateDataFile(name); err != nil {
			return err
		}
	}
	if o.TitleRows < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "title_rows must not be negative, got %d", o.TitleRows)
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas size must be positive, got %gx%g", o.Width, o.Height)
	}
	if o.DPI <= 0 || o.DPI > MaxDPI {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be between 1 and %d, got %d", MaxDPI, o.DPI)
	}
	if o.Resamples <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "resamples must be positive, got %d", o.Resamples)
	}
	if o.Level <= 0 || o.Level >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "confidence level must be in (0, 1), got %g", o.Level)
	}
	if len(o.Charts) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no charts configured")
	}

	seen := make(map[string]bool, len(o.Charts))
	for _, spec := range o.Charts {
		if err := spec.Validate(); err != nil {
			return err
		}
		// Outputs differing only in case collide on case-insensitive filesystems.
		key := strings.ToLower(spec.Output)
		if seen[key] {
			return errors.New(errors.ErrCodeInvalidChart, "duplicate chart output %q", spec.Output)
		}
		seen[key] = true
	}
	return nil
}

// Files returns the input file layout.
func (o *Options) Files() pkgio.Files {
	return pkgio.Files{
		Turnout:   o.TurnoutFile,
		Laws:      o.LawsFile,
		TitleRows: o.TitleRows,
	}
}

// ChartOptions returns the drawing options.
func (o *Options) ChartOptions() chart.Options {
	return chart.Options{
		Width:  o.Width,
		Height: o.Height,
		DPI:    o.DPI,
		Bootstrap: stats.Bootstrap{
			Resamples: o.Resamples,
			Level:     o.Level,
			Seed:      o.Seed,
		},
	}
}

// ArtifactKeyOpts returns cache key options for one chart. Bootstrap settings
// only take part for kinds that draw intervals.
func (o *Options) ArtifactKeyOpts(spec chart.Spec) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Kind:      spec.Kind.String(),
		Title:     spec.Title,
		FixBounds: spec.FixBounds,
		Width:     o.Width,
		Height:    o.Height,
		DPI:       o.DPI,
	}
	if spec.Kind.HasInterval() {
		k.Resamples = o.Resamples
		k.Level = o.Level
		k.Seed = o.Seed
	}
	return k
}
