package commands

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/griddle/internal/config"
	"git.home.luguber.info/inful/griddle/internal/console"
	ferrors "git.home.luguber.info/inful/griddle/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/griddle/internal/testutil/testutils"
)

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli, kong.Name("griddle"), kong.Vars{"version": "test"}, Vars())
	require.NoError(t, err)
	return parser
}

func newGlobal(t *testing.T) (*Global, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	off := false
	return &Global{
		Config:   config.Default(),
		Reporter: console.New(out, console.Options{Color: &off}),
	}, out
}

func TestParseDefaultsToBuild(t *testing.T) {
	var cli CLI
	kctx, err := newParser(t, &cli).Parse([]string{"-i", "docs", "-o", "site", "-j", "3", "--no-clean", "-v"})
	require.NoError(t, err)

	assert.Equal(t, "build", kctx.Command())
	assert.True(t, filepath.IsAbs(cli.Build.Input))
	assert.Equal(t, "docs", filepath.Base(cli.Build.Input))
	assert.Equal(t, 3, cli.Build.Jobs)
	assert.True(t, cli.Build.NoClean)
	assert.True(t, cli.Verbose)
}

func TestParseSubcommands(t *testing.T) {
	var cli CLI
	kctx, err := newParser(t, &cli).Parse([]string{"preview", "-i", "docs", "--addr", "127.0.0.1:9000", "--debounce", "1s"})
	require.NoError(t, err)
	assert.Equal(t, "preview", kctx.Command())
	assert.Equal(t, "127.0.0.1:9000", cli.Preview.Addr)
	assert.Equal(t, "1s", cli.Preview.Debounce.String())

	cli = CLI{}
	kctx, err = newParser(t, &cli).Parse([]string{"init", "--force"})
	require.NoError(t, err)
	assert.Equal(t, "init", kctx.Command())
	assert.True(t, cli.Init.Force)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggingConfig
		verbose   bool
		debug     bool
		wantInfo  bool
		wantDebug bool
	}{
		{name: "default warn", wantInfo: false},
		{name: "verbose", verbose: true, wantInfo: true},
		{name: "configured info", cfg: config.LoggingConfig{Level: "info"}, wantInfo: true},
		{name: "configured debug beats verbose", cfg: config.LoggingConfig{Level: "debug"}, verbose: true, wantInfo: true, wantDebug: true},
		{name: "debug flag", cfg: config.LoggingConfig{Level: "error"}, debug: true, wantInfo: true, wantDebug: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.cfg, tt.verbose, tt.debug)
			logger.Info("info line")
			logger.Debug("debug line")
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info line")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
		})
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, config.LoggingConfig{Format: "json"}, false, false).Warn("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestSetup(t *testing.T) {
	cli := CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")}

	_, err := cli.Setup(&bytes.Buffer{}, true)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	g, err := cli.Setup(&bytes.Buffer{}, false)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultJobs, g.Config.Build.Jobs)
	assert.Equal(t, cli.Config, g.ConfigPath)
}

func TestSetupRoutesLibraryLogs(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	std := logrus.StandardLogger()
	cli := CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")}

	_, err := cli.Setup(&bytes.Buffer{}, false)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, std.GetLevel())
	assert.False(t, std.IsLevelEnabled(logrus.InfoLevel))

	cli.Debug = true
	_, err = cli.Setup(&bytes.Buffer{}, false)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, std.GetLevel())
}

func TestBuildCmdRun(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "docs")
	site := filepath.Join(root, "site")
	helpers.WriteTree(t, in, map[string]string{"guide/intro.md": "# Intro\n"})
	metricsFile := filepath.Join(root, "griddle.prom")

	g, out := newGlobal(t)
	cmd := BuildCmd{Input: in, Output: site, MetricsFile: metricsFile, Jobs: 2}
	require.NoError(t, cmd.Run(g))

	assert.Equal(t, 2, g.Config.Build.Jobs)
	assert.Contains(t, out.String(), "Converted 1 file(s) into "+site)
	helpers.NewFileAssertions(t, root).
		AssertFileExists("site/guide/intro.html").
		AssertFileContains("site/index.html", `data-url="guide/intro.html">Intro</a>`).
		AssertFileContains("griddle.prom", `griddle_build_outcomes_total{outcome="success"} 1`)
}

func TestBuildCmdStrict(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "docs")
	helpers.WriteTree(t, in, map[string]string{"broken.md": "---\nno end\n"})

	g, out := newGlobal(t)
	cmd := BuildCmd{Input: in, Output: filepath.Join(root, "site"), Strict: true}
	err := cmd.Run(g)
	require.Error(t, err)
	assert.Equal(t, ferrors.ExitBuild, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.Contains(t, out.String(), "1 of 1 file(s) failed to convert")
}

func TestBuildCmdCustomTemplates(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "docs")
	helpers.WriteTree(t, in, map[string]string{"a.md": "# A\n"})

	tpl := filepath.Join(root, "shell")
	require.NoError(t, os.MkdirAll(tpl, 0o755))

	g, _ := newGlobal(t)
	cmd := BuildCmd{Input: in, Output: filepath.Join(root, "site"), Templates: tpl}
	err := cmd.Run(g)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	helpers.WriteTree(t, tpl, map[string]string{"index.html": "<nav><!-- AUTOGEN - NAVIGATION SECTION --></nav>"})
	g, _ = newGlobal(t)
	require.NoError(t, cmd.Run(g))
	helpers.NewFileAssertions(t, root).
		AssertFileContains("site/index.html", `data-url="a.html">A</a>`).
		AssertFileNotExists("site/css/style.css")
}

func TestBuildCmdMissingInput(t *testing.T) {
	g, _ := newGlobal(t)
	err := (&BuildCmd{Output: t.TempDir()}).Run(g)
	require.Error(t, err)
	assert.Equal(t, ferrors.ExitValidation, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "griddle.yaml")

	g, out := newGlobal(t)
	g.ConfigPath = path
	require.NoError(t, (&InitCmd{}).Run(g))
	assert.Contains(t, out.String(), "Wrote example configuration to "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./docs", cfg.Input)

	err = (&InitCmd{}).Run(g)
	require.Error(t, err)
	assert.Equal(t, ferrors.ExitConfig, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))

	require.NoError(t, (&InitCmd{Force: true}).Run(g))
}
