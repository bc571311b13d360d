package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.URL)
	assert.Equal(t, 18650, cfg.Gateway.Port)
	assert.Equal(t, "loopback", cfg.Gateway.Bind)
	assert.Equal(t, 30, cfg.Session.RevealIntervalMs)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMergesWithDefaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  url: https://api.example.com
gateway:
  port: 9000
  allowedOrigins:
    - https://widget.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.Backend.URL)
	assert.Equal(t, 9000, cfg.Gateway.Port)
	assert.Equal(t, []string{"https://widget.example.com"}, cfg.Gateway.AllowedOrigins)
	// Untouched fields keep their defaults.
	assert.Equal(t, 60, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, 993, cfg.Campaign.IMAP.Port)
}

func TestLoadExpandsSensitiveEnvVars(t *testing.T) {
	t.Setenv("TEST_GATEWAY_TOKEN", "s3cret")
	path := writeConfig(t, `
gateway:
  auth:
    token: ${TEST_GATEWAY_TOKEN}
campaign:
  imap:
    password: ${UNSET_VAR_FOR_TEST}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Gateway.Auth.Token)
	// Unset variables are left as-is.
	assert.Equal(t, "${UNSET_VAR_FOR_TEST}", cfg.Campaign.IMAP.Password)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LEADPILOT_GATEWAY_PORT", "7777")
	t.Setenv("LEADPILOT_LOG_LEVEL", "DEBUG")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Gateway.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "gateway: [not a map")
	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))

	cfg.Backend.URL = "not a url"
	cfg.Gateway.Port = 99999
	cfg.Gateway.Bind = "everywhere"
	cfg.Session.RevealIntervalMs = -1
	cfg.Campaign.IMAP.Host = "imap.example.com"
	cfg.Logging.ConsoleStyle = "rainbow"

	issues := Validate(&cfg)
	paths := make([]string, len(issues))
	for i, iss := range issues {
		paths[i] = iss.Path
	}
	assert.ElementsMatch(t, []string{
		"backend.url",
		"gateway.port",
		"gateway.bind",
		"session.revealIntervalMs",
		"campaign.imap.username",
		"logging.consoleStyle",
	}, paths)
}

func TestResolvePathsHonorsHomeOverride(t *testing.T) {
	base := t.TempDir()
	t.Setenv("LEADPILOT_HOME", base)

	p, err := ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, base, p.Base)
	assert.Equal(t, filepath.Join(base, "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join(base, "data", "leadpilot.db"), p.Database(StorageConfig{}))
	assert.Equal(t, "/tmp/other.db", p.Database(StorageConfig{Path: "/tmp/other.db"}))

	require.NoError(t, p.EnsureDirs())
	for _, dir := range []string{p.Credentials, p.Data, p.Logs} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestConfigPathHelpers(t *testing.T) {
	raw := map[string]any{}

	path, err := ParseConfigPath("gateway.auth.token")
	require.NoError(t, err)
	SetValueAtPath(raw, path, "abc")

	v, ok := GetValueAtPath(raw, path)
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	assert.True(t, UnsetValueAtPath(raw, path))
	_, ok = GetValueAtPath(raw, path)
	assert.False(t, ok)

	_, err = ParseConfigPath("gateway..port")
	assert.Error(t, err)
	_, err = ParseConfigPath("__proto__.x")
	assert.Error(t, err)
}
