package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/matzehuels/turnout/pkg/errors"
	pkgio "github.com/matzehuels/turnout/pkg/io"
	"github.com/matzehuels/turnout/pkg/observability"
	"github.com/matzehuels/turnout/pkg/pipeline"
)

// renderOpts holds the command-line flags of the root command.
type renderOpts struct {
	config  string // TOML config file
	dataDir string // input directory override
	imgDir  string // output directory override
	useCache bool  // use the on-disk cache
	refresh bool   // skip cache lookups
	export  string // joined table JSON path
	summary bool   // print the statistics table
}

// runRender renders every configured chart and reports the written files.
func (c *CLI) runRender(ctx context.Context, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	base, err := exeDir()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "locate executable")
	}
	popts, err := buildOptions(base, opts)
	if err != nil {
		return err
	}
	popts.Logger = logger

	hooks := newLogHooks(logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	runner, err := c.newRunner(opts.useCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer runner.Close()

	logger.Debug("resolved paths", "data", popts.DataDir, "img", popts.ImgDir)

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d charts", len(result.Outputs)))

	printSuccess("Wrote %d charts from %d states", len(result.Outputs), result.Stats.Rows)
	for _, out := range result.Outputs {
		printFile(out.Path, out.Cached)
	}

	if opts.export != "" {
		path, err := filepath.Abs(opts.export)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "export path %s", opts.export)
		}
		if err := pkgio.ExportJSON(result.Table, path); err != nil {
			return err
		}
		printSuccess("Exported joined table")
		printFile(path, false)
	}

	if opts.summary {
		printNewline()
		fmt.Println(renderSummary(result.Table.Groups(), popts.ChartOptions().Bootstrap))
	}
	return nil
}

// buildOptions resolves pipeline options in increasing precedence: defaults
// relative to base, then the config file, then command-line flags.
func buildOptions(base string, opts renderOpts) (pipeline.Options, error) {
	popts := pipeline.DefaultOptions()
	popts.DataDir = filepath.Join(base, pipeline.DefaultDataDir)
	popts.ImgDir = filepath.Join(base, pipeline.DefaultImgDir)

	if opts.config != "" {
		cfg, err := pipeline.LoadConfig(opts.config)
		if err != nil {
			return pipeline.Options{}, err
		}
		cfg.Apply(&popts)
	}

	if opts.dataDir != "" {
		popts.DataDir = opts.dataDir
	}
	if opts.imgDir != "" {
		popts.ImgDir = opts.imgDir
	}
	popts.Refresh = opts.refresh
	return popts, nil
}
