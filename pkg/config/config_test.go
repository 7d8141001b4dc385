package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"ailang/interpreter-go/pkg/logger"
)

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("exec-mode", ExecModeTreewalker, "")
	fs.Int64("max-steps", DefaultMaxSteps, "")
	fs.Duration("timeout", 0, "")
	fs.Uint64("seed", 0, "")
	fs.Bool("vague-errors", false, "")
	fs.String("log-level", "warn", "")
	fs.String("log-format", "auto", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, ExecModeTreewalker, cfg.ExecMode)
	assert.Equal(t, DefaultMaxSteps, cfg.MaxSteps)
	assert.Zero(t, cfg.Timeout)
	assert.False(t, cfg.VagueErrors)
	assert.Equal(t, zapcore.WarnLevel, cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.Empty(t, cfg.File)
}

func TestLoadFileFoundInParent(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `
exec_mode: compiled
max_steps: 500
timeout: 2s
seed: 11
vague_errors: true
log:
  level: debug
  format: json
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(LoadOptions{Dir: nested})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, ExecModeCompiled, cfg.ExecMode)
	assert.EqualValues(t, 500, cfg.MaxSteps)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.EqualValues(t, 11, cfg.Seed)
	assert.True(t, cfg.VagueErrors)
	assert.Equal(t, zapcore.DebugLevel, cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "max_steps: 500\nlog:\n  level: info\n")
	t.Setenv("AILANG_MAX_STEPS", "900")
	t.Setenv("AILANG_LOG_LEVEL", "error")

	cfg, err := Load(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.EqualValues(t, 900, cfg.MaxSteps)
	assert.Equal(t, zapcore.ErrorLevel, cfg.Log.Level)
}

func TestChangedFlagsOverrideEverything(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "max_steps: 500\nseed: 3\n")
	t.Setenv("AILANG_MAX_STEPS", "900")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--max-steps=25", "--exec-mode=compiled", "--log-level=debug"}))

	cfg, err := Load(LoadOptions{Dir: dir, Flags: fs})
	require.NoError(t, err)
	assert.EqualValues(t, 25, cfg.MaxSteps)
	assert.Equal(t, ExecModeCompiled, cfg.ExecMode)
	assert.Equal(t, zapcore.DebugLevel, cfg.Log.Level)
	// unchanged flags leave lower layers alone
	assert.EqualValues(t, 3, cfg.Seed)
}

func TestExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 99\n"), 0o644))

	cfg, err := Load(LoadOptions{File: path, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.EqualValues(t, 99, cfg.Seed)
	assert.Equal(t, path, cfg.File)

	_, err = Load(LoadOptions{File: filepath.Join(dir, "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "exec_mode: jit\n")
	_, err := Load(LoadOptions{Dir: dir})
	require.EqualError(t, err, `config: unsupported exec_mode "jit" (expected treewalker or compiled)`)

	cfg := Config{ExecMode: ExecModeTreewalker, Timeout: -time.Second}
	require.EqualError(t, cfg.Validate(), "config: timeout must not be negative")

	cfg = Config{ExecMode: ExecModeTreewalker, Log: logCfg("xml")}
	require.EqualError(t, cfg.Validate(), `config: unsupported log.format "xml"`)
}

func TestResolvePaths(t *testing.T) {
	cfg := Config{CacheDir: "cache", HistoryFile: "/tmp/hist"}
	dir, err := cfg.ResolveCacheDir()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	assert.Equal(t, "cache", filepath.Base(dir))
	assert.Equal(t, "/tmp/hist", cfg.ResolveHistoryFile())
}

func logCfg(format string) logger.Config {
	c := logger.NewConfig()
	c.Format = format
	return c
}

func TestStepBudget(t *testing.T) {
	for _, tc := range []struct {
		configured int64
		want       int64
	}{
		{DefaultMaxSteps, DefaultMaxSteps},
		{250, 250},
		{0, -1},
		{-5, -1},
	} {
		cfg := Config{MaxSteps: tc.configured}
		assert.Equal(t, tc.want, cfg.StepBudget(), "max_steps %d", tc.configured)
	}
}
