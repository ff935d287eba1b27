package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/turnout/pkg/buildinfo"
	"github.com/matzehuels/turnout/pkg/cache"
	"github.com/matzehuels/turnout/pkg/dataset"
	"github.com/matzehuels/turnout/pkg/pipeline"
	"github.com/matzehuels/turnout/pkg/stats"
)

const testTurnout = `2014 November General Election,,,
State,Source,VEP Highest Office,VAP Highest Office
Alabama,Unofficial,33.2%,31.8%
Alaska,Official,54.8%,51.0%
Arizona,Official,34.1%,29.1%
Arkansas,Official,40.1%,37.6%
`

const testLaws = `state,law
Alabama,photo
Alaska,nonphoto
Arkansas,photo
`

func writeTestData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{"turnout.csv": testTurnout, "idlaws.csv": testLaws}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, "turnout"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", "turnout"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := newCache(false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("newCache(false) = %T, want *cache.NullCache", c)
	}

	c, err = newCache(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("newCache(true) = %T, want *cache.FileCache", c)
	}
}

func TestKeyScopeFollowsBuild(t *testing.T) {
	orig := buildinfo.Commit
	t.Cleanup(func() { buildinfo.Commit = orig })

	buildinfo.Commit = "aaa"
	first := keyScope()
	buildinfo.Commit = "bbb"
	if second := keyScope(); second == first {
		t.Errorf("keyScope() = %q for both commits", first)
	}
}

func TestBuildOptions(t *testing.T) {
	base := t.TempDir()

	t.Run("defaults next to executable", func(t *testing.T) {
		o, err := buildOptions(base, renderOpts{})
		if err != nil {
			t.Fatal(err)
		}
		if o.DataDir != filepath.Join(base, pipeline.DefaultDataDir) || o.ImgDir != filepath.Join(base, pipeline.DefaultImgDir) {
			t.Errorf("dirs = %q, %q", o.DataDir, o.ImgDir)
		}
		if len(o.Charts) != 4 {
			t.Errorf("got %d charts, want 4", len(o.Charts))
		}
	})

	t.Run("flags override config", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "turnout.toml")
		cfg := "[data]\ndir = \"/from/config\"\n[output]\ndir = \"/img/config\"\ndpi = 72\n"
		if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
			t.Fatal(err)
		}

		o, err := buildOptions(base, renderOpts{config: cfgPath, imgDir: "/img/flag", refresh: true})
		if err != nil {
			t.Fatal(err)
		}
		if o.DataDir != "/from/config" {
			t.Errorf("DataDir = %q, want config value", o.DataDir)
		}
		if o.ImgDir != "/img/flag" {
			t.Errorf("ImgDir = %q, want flag value", o.ImgDir)
		}
		if o.DPI != 72 || !o.Refresh {
			t.Errorf("DPI = %d, Refresh = %v", o.DPI, o.Refresh)
		}
	})

	t.Run("missing config", func(t *testing.T) {
		if _, err := buildOptions(base, renderOpts{config: filepath.Join(base, "none.toml")}); err == nil {
			t.Error("missing config file should fail")
		}
	})
}

func TestRootCommandRenders(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	data := writeTestData(t)
	out := t.TempDir()
	export := filepath.Join(t.TempDir(), "joined.json")

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--data-dir", data, "--img-dir", out, "--export", export, "--summary"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	for _, name := range []string{"mean.png", "mean_ci.png", "median.png", "box.png"} {
		info, err := os.Stat(filepath.Join(out, name))
		if err != nil {
			t.Errorf("%s not written: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	raw, err := os.ReadFile(export)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	var records []dataset.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(records) != 4 || records[2].Category != dataset.NoID {
		t.Errorf("exported records = %+v", records)
	}

	if !strings.Contains(logs.String(), "Rendered 4 charts") {
		t.Errorf("progress line missing from logs:\n%s", logs.String())
	}

	if n := countFiles(t, xdg); n != 0 {
		t.Errorf("default run left %d files in the cache directory", n)
	}
}

func TestRootCommandCacheOptIn(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	data := writeTestData(t)

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--cache", "--data-dir", data, "--img-dir", t.TempDir()})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if n := countFiles(t, xdg); n != 4 {
		t.Errorf("cached files = %d, want 4", n)
	}
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestRootCommandMissingData(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--data-dir", t.TempDir(), "--img-dir", t.TempDir()})
	root.SetErr(&bytes.Buffer{})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("Execute() should fail without input files")
	}
}

func TestRootCommandRejectsArgs(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"extra"})
	root.SetErr(&bytes.Buffer{})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("positional arguments should be rejected")
	}
}

func TestCompletionCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "turnout") {
		t.Error("bash completion should mention the command name")
	}
}

func TestSummaryRows(t *testing.T) {
	groups := []dataset.Group{
		{Category: dataset.PhotoID, Values: []float64{0.40, 0.50}},
		{Category: dataset.NoID, Values: []float64{0.20}},
	}

	rows := summaryRows(groups, stats.NewBootstrap())
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	want := []string{"Photo ID", "2", "45.0%", "45.0%"}
	for i, w := range want {
		if rows[0][i] != w {
			t.Errorf("rows[0][%d] = %q, want %q", i, rows[0][i], w)
		}
	}
	if len(rows[0]) != len(summaryHeaders) {
		t.Errorf("row has %d cells, want %d", len(rows[0]), len(summaryHeaders))
	}
	if rows[1][7] != "20.0% – 20.0%" {
		t.Errorf("single-value interval = %q", rows[1][7])
	}

	rendered := renderSummary(groups, stats.NewBootstrap())
	if !strings.Contains(rendered, "Photo ID") || !strings.Contains(rendered, "Mean CI") {
		t.Errorf("summary table missing content:\n%s", rendered)
	}
}

func TestFormatPct(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.4512, "45.1%"},
		{0, "0.0%"},
		{math.NaN(), "—"},
	}
	for _, tt := range tests {
		if got := formatPct(tt.v); got != tt.want {
			t.Errorf("formatPct(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := newLogHooks(newLogger(&buf, log.DebugLevel))
	ctx := context.Background()

	h.OnLoadComplete(ctx, 50, 1, 0, nil)
	h.OnRenderComplete(ctx, "mean.png", 1024, true, 0, nil)
	h.OnCacheHit(ctx, "artifact")

	out := buf.String()
	for _, want := range []string{"load complete", "mean.png", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestExeDir(t *testing.T) {
	dir, err := exeDir()
	if err != nil {
		t.Fatalf("exeDir() error: %v", err)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("exeDir() = %q, want an absolute path", dir)
	}
}
