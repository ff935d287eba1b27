package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/turnout/pkg/buildinfo"
	"github.com/matzehuels/turnout/pkg/cache"
	"github.com/matzehuels/turnout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "turnout"

	// cacheScope prefixes every cache key together with the build commit.
	cacheScope = "v1:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Run without a subcommand, it renders the charts.
func (c *CLI) RootCommand() *cobra.Command {
	var opts renderOpts

	root := &cobra.Command{
		Use:   appName,
		Short: "turnout charts 2014 state voter turnout by voter ID law",
		Long: `turnout reads state voter turnout and voter ID laws, groups states into
Photo ID, Non-Photo ID and No ID, and draws four charts:
mean.png, mean_ci.png, median.png and box.png.

By default data/ and img/ are resolved next to the executable and nothing
is kept between runs. --cache stores rendered images under the user cache
directory.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	f := root.Flags()
	f.StringVar(&opts.config, "config", "", "TOML file with data, output, bootstrap and chart settings")
	f.StringVar(&opts.dataDir, "data-dir", "", "directory holding turnout.csv and idlaws.csv (default <exe dir>/data)")
	f.StringVar(&opts.imgDir, "img-dir", "", "directory to write charts to (default <exe dir>/img)")
	f.BoolVar(&opts.useCache, "cache", false, "keep rendered charts in the user cache directory")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render every chart, ignoring cached images (with --cache)")
	f.StringVar(&opts.export, "export", "", "also write the joined table as JSON to this file")
	f.BoolVar(&opts.summary, "summary", false, "print per-category turnout statistics")

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(useCache bool) (*pipeline.Runner, error) {
	store, err := newCache(useCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), keyScope())
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// keyScope ties cache entries to the binary that rendered them.
func keyScope() string {
	return cacheScope + buildinfo.Version + ":" + buildinfo.Commit + ":"
}

// newCache opens the file cache when enabled. Without a usable home directory
// caching is silently disabled.
func newCache(useCache bool) (cache.Cache, error) {
	if !useCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/turnout/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// exeDir returns the directory of the running executable with symlinks
// resolved.
func exeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
