package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func lookupFrom(env map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini-2.5-flash", cfg.Models.Text)
	assert.Equal(t, "gemini-2.5-flash", cfg.Models.Vision)
	assert.Equal(t, "gemini-3-pro-preview", cfg.Models.Coding)
	assert.Equal(t, 2, cfg.Structured.MaxAttempts)
	assert.Equal(t, HistoryAuto, cfg.History.Backend)
}

func TestHistoryResolve(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	want, err := DefaultHistoryPath()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(want, dir), want)
	assert.True(t, strings.HasSuffix(want, filepath.Join("aistudio", "history.db")), want)

	cli, err := Default().History.Resolve(true)
	require.NoError(t, err)
	assert.Equal(t, HistorySQLite, cli.Backend)
	assert.Equal(t, want, cli.Path)

	srv, err := Default().History.Resolve(false)
	require.NoError(t, err)
	assert.Equal(t, HistoryMemory, srv.Backend)

	custom, err := History{Backend: HistoryAuto, Path: "/tmp/runs.db"}.Resolve(true)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/runs.db", custom.Path)

	explicit, err := History{Backend: HistoryMemory}.Resolve(true)
	require.NoError(t, err)
	assert.Equal(t, HistoryMemory, explicit.Backend, "an explicit backend is kept")

	off, err := History{Backend: HistoryOff}.Resolve(true)
	require.NoError(t, err)
	assert.Equal(t, HistoryOff, off.Backend)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "aistudio.yaml", `
provider:
  backend: sdk
  timeout: 15s
models:
  text: gemini-2.5-flash-lite
retry:
  maxRetries: 5
  initialBackoff: 250ms
  maxRetryAfter: 45s
history:
  backend: sqlite
  path: /tmp/runs.db
log:
  format: json
`)
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSDK, cfg.Provider.Backend)
	assert.Equal(t, 15*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Models.Text)
	assert.Equal(t, "gemini-3-pro-preview", cfg.Models.Coding, "unset keys keep their defaults")
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.InitialBackoff)
	assert.Equal(t, 30*time.Second, cfg.Retry.MaxBackoff)
	assert.Equal(t, 45*time.Second, cfg.Retry.MaxRetryAfter)
	assert.Equal(t, HistorySQLite, cfg.History.Backend)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "from-env", cfg.Provider.APIKey)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "bad.yaml", "provider:\n  backnd: rest\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backnd")
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendREST, cfg.Provider.Backend)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("AISTUDIO_ADDR", "")
	os.Unsetenv("AISTUDIO_ADDR")
	envFile := writeFile(t, ".env", "AISTUDIO_ADDR=127.0.0.1:9999\n")
	t.Cleanup(func() { os.Unsetenv("AISTUDIO_ADDR") })

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
}

func TestApplyEnvPrecedence(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, lookupFrom(map[string]string{
		"API_KEY":               "legacy",
		"GEMINI_API_KEY":        "preferred",
		"AISTUDIO_MODEL_CODING": "gemini-2.5-pro",
		"AISTUDIO_TIMEOUT":      "90s",
		"AISTUDIO_MAX_RETRIES":  "-1",
		"AISTUDIO_HISTORY":      " sqlite ",
	}))
	require.NoError(t, err)

	assert.Equal(t, "preferred", cfg.Provider.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Models.Coding)
	assert.Equal(t, 90*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, -1, cfg.Retry.MaxRetries)
	assert.Equal(t, HistorySQLite, cfg.History.Backend)
}

func TestApplyEnvFallsBackToAPIKey(t *testing.T) {
	cfg := Default()
	require.NoError(t, applyEnv(&cfg, lookupFrom(map[string]string{"API_KEY": "legacy", "GEMINI_API_KEY": " "})))
	assert.Equal(t, "legacy", cfg.Provider.APIKey)
}

func TestApplyEnvBadValues(t *testing.T) {
	cfg := Default()
	assert.Error(t, applyEnv(&cfg, lookupFrom(map[string]string{"AISTUDIO_TIMEOUT": "soon"})))
	assert.Error(t, applyEnv(&cfg, lookupFrom(map[string]string{"AISTUDIO_MAX_RETRIES": "lots"})))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"backend", func(c *Config) { c.Provider.Backend = "grpc" }, "provider.backend"},
		{"history", func(c *Config) { c.History.Backend = "redis" }, "history.backend"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"attempts", func(c *Config) { c.Structured.MaxAttempts = 0 }, "maxAttempts"},
		{"timeout", func(c *Config) { c.Provider.Timeout = -time.Second }, "timeout"},
		{"parallelism", func(c *Config) { c.Server.Parallelism = 0 }, "parallelism"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := Log{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "expected JSON output, got %q", out)
	assert.Contains(t, out, `"k":"v"`)
}

func TestParseLevelFallback(t *testing.T) {
	assert.Equal(t, "INFO", parseLevel("chatty").String())
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
}
