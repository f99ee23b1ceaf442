package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunkustom/GunKustom-docs-internal/internal/config"
	serrors "github.com/gunkustom/GunKustom-docs-internal/internal/errors"
)

// newTestCmd returns a root command with the build flags, isolated from the
// package-level command tree.
func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cfgFile = ""
	appConfig = config.Config{}
	cmd := newRootCmd()
	addBuildFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestInitializeConfig_Defaults(t *testing.T) {
	require.NoError(t, initializeConfig(newTestCmd(t), io.Discard))

	assert.Equal(t, "build", appConfig.OutputDir)
	assert.Equal(t, 3000, appConfig.Port)
	assert.Equal(t, "info", appConfig.LogLevel)
	assert.Equal(t, "text", appConfig.LogFormat)
	assert.Zero(t, appConfig.DiagramTimeout)
	assert.False(t, appConfig.Drafts)
	assert.Empty(t, appConfig.SiteFile)
}

func TestInitializeConfig_Env(t *testing.T) {
	t.Setenv("GUNKUSTOM_OUTPUTDIR", "dist")
	t.Setenv("GUNKUSTOM_DRAFTS", "true")
	t.Setenv("GUNKUSTOM_DIAGRAMBASEURL", "https://diagrams.example.com/")

	require.NoError(t, initializeConfig(newTestCmd(t), io.Discard))
	assert.Equal(t, "dist", appConfig.OutputDir)
	assert.True(t, appConfig.Drafts)
	assert.Equal(t, "https://diagrams.example.com/", appConfig.DiagramBaseURL)
}

func TestInitializeConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("GUNKUSTOM_OUTPUTDIR", "dist")

	require.NoError(t, initializeConfig(newTestCmd(t, "--output-dir", "public", "--diagram-timeout", "2s"), io.Discard))
	assert.Equal(t, "public", appConfig.OutputDir)
	assert.Equal(t, 2*time.Second, appConfig.DiagramTimeout)
}

func TestInitializeConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gunkustom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outputDir: site-out\nlogFormat: json\ndiagramTimeout: 3s\nsiteFile: site.yaml\n"), 0o600))

	require.NoError(t, initializeConfig(newTestCmd(t, "--config", path), io.Discard))
	assert.Equal(t, "site-out", appConfig.OutputDir)
	assert.Equal(t, "json", appConfig.LogFormat)
	assert.Equal(t, 3*time.Second, appConfig.DiagramTimeout)
	assert.Equal(t, "site.yaml", appConfig.SiteFile)
}

func TestInitializeConfig_MissingExplicitFile(t *testing.T) {
	err := initializeConfig(newTestCmd(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")), io.Discard)
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
}

func TestInitializeConfig_InvalidLogLevel(t *testing.T) {
	err := initializeConfig(newTestCmd(t, "--log-level", "loud"), io.Discard)
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger("warn", "json", &buf)
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = newLogger("info", "xml", &buf)
	require.Error(t, err)
}

// runCommand executes args against a fresh command tree and returns what
// the command printed.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile = ""
	appConfig = config.Config{}
	var out bytes.Buffer
	root := newCommandTree()
	root.SetOut(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_BuildAndCheck(t *testing.T) {
	dir := t.TempDir()
	writeOutput(t, dir, "docs/intro.md", "# Intro\n\nHello.\n")
	writeOutput(t, dir, "static/img/gunkustom.svg", "<svg/>")
	t.Chdir(dir)

	_, err := runCommand(t, "build")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "build", "index.html"))
	assert.FileExists(t, filepath.Join(dir, "build", "docs", "intro", "index.html"))

	out, err := runCommand(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, `Site "GunKustom" is valid`)
}

func TestCommands_CheckInvalidSiteFile(t *testing.T) {
	dir := t.TempDir()
	writeOutput(t, dir, "site.yaml", "title: Broken\n")
	t.Chdir(dir)

	_, err := runCommand(t, "check", "--site-file", "site.yaml")
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryConfig))
}

func TestCommands_FlagsDoNotCarryOver(t *testing.T) {
	dir := t.TempDir()
	writeOutput(t, dir, "site.yaml", "title: Broken\n")
	t.Chdir(dir)

	_, err := runCommand(t, "check", "--site-file", "site.yaml")
	require.Error(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "site.yaml")))

	out, err := runCommand(t, "check")
	require.NoError(t, err)
	assert.Contains(t, out, `Site "GunKustom" is valid`)
	assert.Empty(t, appConfig.SiteFile)
}

func TestNewCommandTree_Subcommands(t *testing.T) {
	root := newCommandTree()
	for _, name := range []string{"build", "check", "serve"} {
		c, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("port"))
	assert.NotNil(t, serve.Flags().Lookup("diagram-timeout"))
}

func TestNewBuilder_NoDiagramTimeoutByDefault(t *testing.T) {
	require.NoError(t, initializeConfig(newTestCmd(t), io.Discard))
	s, err := config.LoadSite("")
	require.NoError(t, err)

	b, err := newBuilder(s, nil)
	require.NoError(t, err)
	assert.Zero(t, b.DiagramTimeout)
	assert.Nil(t, b.Fetcher)
}
