package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/turnout/pkg/chart"
	"github.com/matzehuels/turnout/pkg/errors"
)

// Config is the optional TOML run configuration:
//
//	[data]
//	dir = "data"
//	turnout = "turnout.csv"
//	laws = "idlaws.csv"
//	title_rows = 1
//
//	[output]
//	dir = "img"
//	width = 8.0
//	height = 6.0
//	dpi = 100
//
//	[bootstrap]
//	resamples = 1000
//	level = 0.95
//	seed = 42
//
//	[[chart]]
//	title = "Mean 2014 State Turnout by Voter ID Law"
//	output = "mean.png"
//	kind = "mean"
//	fix_bounds = true
//
// Every key is optional. Listing any [[chart]] replaces the default charts.
// Relative directories are resolved against the config file's directory.
type Config struct {
	Data      DataConfig      `toml:"data"`
	Output    OutputConfig    `toml:"output"`
	Bootstrap BootstrapConfig `toml:"bootstrap"`
	Charts    []chart.Spec    `toml:"chart"`
}

// DataConfig is the [data] table.
type DataConfig struct {
	Dir       string `toml:"dir"`
	Turnout   string `toml:"turnout"`
	Laws      string `toml:"laws"`
	TitleRows *int   `toml:"title_rows"`
}

// OutputConfig is the [output] table.
type OutputConfig struct {
	Dir    string  `toml:"dir"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	DPI    int     `toml:"dpi"`
}

// BootstrapConfig is the [bootstrap] table.
type BootstrapConfig struct {
	Resamples int     `toml:"resamples"`
	Level     float64 `toml:"level"`
	Seed      *uint64 `toml:"seed"`
}

// LoadConfig reads the config file at path. Unknown keys are rejected so
// that typos do not pass silently.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)
	cfg.Data.Dir = resolve(base, cfg.Data.Dir)
	cfg.Output.Dir = resolve(base, cfg.Output.Dir)
	return cfg, nil
}

// Apply copies every value set in c onto o.
func (c Config) Apply(o *Options) {
	if c.Data.Dir != "" {
		o.DataDir = c.Data.Dir
	}
	if c.Data.Turnout != "" {
		o.TurnoutFile = c.Data.Turnout
	}
	if c.Data.Laws != "" {
		o.LawsFile = c.Data.Laws
	}
	if c.Data.TitleRows != nil {
		o.TitleRows = *c.Data.TitleRows
	}

	if c.Output.Dir != "" {
		o.ImgDir = c.Output.Dir
	}
	if c.Output.Width != 0 {
		o.Width = c.Output.Width
	}
	if c.Output.Height != 0 {
		o.Height = c.Output.Height
	}
	if c.Output.DPI != 0 {
		o.DPI = c.Output.DPI
	}

	if c.Bootstrap.Resamples != 0 {
		o.Resamples = c.Bootstrap.Resamples
	}
	if c.Bootstrap.Level != 0 {
		o.Level = c.Bootstrap.Level
	}
	if c.Bootstrap.Seed != nil {
		o.Seed = *c.Bootstrap.Seed
	}

	if len(c.Charts) > 0 {
		o.Charts = append([]chart.Spec(nil), c.Charts...)
	}
}

func resolve(base, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}
