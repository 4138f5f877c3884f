package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Point at a file that does not exist so only defaults apply.
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "analogd", cfg.Server.Name)
	assert.NotEmpty(t, cfg.Library.Path)
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, 8711, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.False(t, cfg.HTTP.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.InDelta(t, 0.6, cfg.Analogy.ReinforceThreshold, 1e-9)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  name: analogd-test
library:
  path: /tmp/analogd/patterns.json
http:
  enabled: true
  port: 9000
logging:
  level: debug
  format: console
analogy:
  reinforce_threshold: 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "analogd-test", cfg.Server.Name)
	assert.Equal(t, "/tmp/analogd/patterns.json", cfg.Library.Path)
	assert.True(t, cfg.HTTP.Enabled)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.InDelta(t, 0.4, cfg.Analogy.ReinforceThreshold, 1e-9)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  port: 9000\n"), 0600))

	t.Setenv("ANALOGD_HTTP_PORT", "9100")
	t.Setenv("ANALOGD_LIBRARY_PATH", "/tmp/analogd/env-patterns.json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Equal(t, "/tmp/analogd/env-patterns.json", cfg.Library.Path)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad port", content: "http:\n  port: 99999\n"},
		{name: "bad threshold", content: "analogy:\n  reinforce_threshold: 1.5\n"},
		{name: "bad log level", content: "logging:\n  level: shouty\n"},
		{name: "malformed yaml", content: "http: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsWorldWritableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  name: x\n"), 0600))
	// WriteFile permissions pass through the umask, so force the mode.
	require.NoError(t, os.Chmod(path, 0666))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")
}

func TestHTTPConfigAddr(t *testing.T) {
	c := HTTPConfig{Host: "0.0.0.0", Port: 8711}
	assert.Equal(t, "0.0.0.0:8711", c.Addr())
}
