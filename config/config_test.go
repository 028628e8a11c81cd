package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "5000", c.AppPort)
	assert.Equal(t, 120, c.TokenTTLSeconds)
	assert.Equal(t, 8*60*60, c.SessionTTLSeconds)
	assert.Equal(t, int64(10<<30), c.MaxUploadBytes)
	assert.NotEmpty(t, c.DownloadDir)
	assert.Equal(t, filepath.Join("data", "transient_uploads"), c.TransientDir)
	assert.Equal(t, filepath.Join("data", "history.db"), c.HistoryDBPath)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 60, c.RateLimitPerMinute)
	assert.Equal(t, "release", c.GinMode)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "lanbeam", c.MDNSInstance)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	c := AppConfig{
		AppPort:         "8080",
		TokenTTLSeconds: 30,
		MaxUploadBytes:  1 << 20,
	}
	applyDefaults(&c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, 30, c.TokenTTLSeconds)
	assert.Equal(t, int64(1<<20), c.MaxUploadBytes)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LANBEAM_PORT", "9001")
	t.Setenv("LANBEAM_STRICT_PORT", "true")
	t.Setenv("LANBEAM_MAX_UPLOAD_BYTES", "2048")
	t.Setenv("LANBEAM_ALLOWED_ORIGINS", "http://a.local, http://b.local")
	t.Setenv("LANBEAM_TOKEN_TTL_SECONDS", "not-a-number")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "9001", c.AppPort)
	assert.True(t, c.StrictPort)
	assert.Equal(t, int64(2048), c.MaxUploadBytes)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, c.AllowedOrigins)
	// Malformed values fall back to the default.
	assert.Equal(t, 120, c.TokenTTLSeconds)
}

func TestLoadJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"app_port": "7777",
		"strict_port": true,
		"max_upload_bytes": 4096,
		"allowed_origins": "http://x.local,http://y.local",
		"log_level": "debug"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	var c AppConfig
	require.NoError(t, loadJSONConfig(path, &c))

	assert.Equal(t, "7777", c.AppPort)
	assert.True(t, c.StrictPort)
	assert.Equal(t, int64(4096), c.MaxUploadBytes)
	assert.Equal(t, []string{"http://x.local", "http://y.local"}, c.AllowedOrigins)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoadJSONConfigMissingFileIsNoError(t *testing.T) {
	var c AppConfig
	assert.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"), &c))
	assert.Empty(t, c.AppPort)
}

func TestRuntimeSettingsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_upload_bytes": 123, "download_dir": "`+filepath.ToSlash(dir)+`"}`), 0o644))

	c := AppConfig{SettingsPath: path}
	applyDefaults(&c)
	applyRuntimeSettings(&c)

	assert.Equal(t, int64(123), c.MaxUploadBytes)
	assert.Equal(t, dir, c.DownloadDir)
}

func TestRuntimeSettingsRejectRelativeDownloadDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"download_dir": "relative/dir"}`), 0o644))

	c := AppConfig{SettingsPath: path}
	applyDefaults(&c)
	before := c.DownloadDir
	applyRuntimeSettings(&c)

	assert.Equal(t, before, c.DownloadDir)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a , b ,, "))
	assert.Empty(t, splitCSV("  ,  "))
}
