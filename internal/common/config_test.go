package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	config := NewDefaultConfig()
	require.NoError(t, config.Validate())

	assert.Equal(t, 2.0, config.Export.Scale)
	assert.Equal(t, 98, config.Export.JPEGQuality)
	assert.Equal(t, 5.0, config.Export.PageMarginMM)
	assert.True(t, config.Export.FailOnImageError)
	assert.Equal(t, 60*time.Second, config.Export.RenderTimeoutDuration())
	assert.Equal(t, 30*time.Second, config.Browser.RequestTimeoutDuration())
	assert.Nil(t, config.Export.Location())
}

func TestLoadFromFiles_LaterFilesOverride(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "base.toml", `
[server]
port = 9000
host = "0.0.0.0"

[browser]
max_instances = 4

[export]
jpeg_quality = 90
`)
	override := writeConfig(t, dir, "override.toml", `
[server]
port = 9100

[storage.output]
dir = "/tmp/quotes"
`)

	config, err := LoadFromFiles(base, "", override)
	require.NoError(t, err)

	assert.Equal(t, 9100, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 4, config.Browser.MaxInstances)
	assert.Equal(t, 90, config.Export.JPEGQuality)
	assert.Equal(t, "/tmp/quotes", config.Storage.Output.Dir)
	assert.Equal(t, "badger", config.Storage.Type, "defaults survive")
}

func TestLoadFromFiles_Errors(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := writeConfig(t, t.TempDir(), "bad.toml", "[server\nport = ")
	_, err = LoadFromFiles(bad)
	assert.Error(t, err)
}

func TestEnvAndFlagOverrides(t *testing.T) {
	t.Setenv("QUOTEDOC_SERVER_PORT", "7000")
	t.Setenv("QUOTEDOC_LOG_OUTPUT", "stdout, file ,")
	t.Setenv("QUOTEDOC_BROWSER_NO_SANDBOX", "true")
	t.Setenv("QUOTEDOC_EXPORT_FAIL_ON_IMAGE_ERROR", "false")
	t.Setenv("QUOTEDOC_OUTPUT_DIR", "/env/out")

	config, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, 7000, config.Server.Port)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
	assert.True(t, config.Browser.NoSandbox)
	assert.False(t, config.Export.FailOnImageError)
	assert.Equal(t, "/env/out", config.Storage.Output.Dir)

	ApplyFlagOverrides(config, 7100, "127.0.0.1", "/flag/out")
	assert.Equal(t, 7100, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, "/flag/out", config.Storage.Output.Dir)

	ApplyFlagOverrides(config, 0, "", "")
	assert.Equal(t, 7100, config.Server.Port, "zero flags leave values alone")
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "port", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "loud" }},
		{name: "log output", mutate: func(c *Config) { c.Logging.Output = []string{"syslog"} }},
		{name: "storage type", mutate: func(c *Config) { c.Storage.Type = "sqlite" }},
		{name: "browser instances", mutate: func(c *Config) { c.Browser.MaxInstances = 0 }},
		{name: "lossless quality", mutate: func(c *Config) { c.Export.JPEGQuality = 100 }},
		{name: "scale", mutate: func(c *Config) { c.Export.Scale = 0 }},
		{name: "render timeout", mutate: func(c *Config) { c.Export.RenderTimeout = "soon" }},
		{name: "timezone", mutate: func(c *Config) { c.Export.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestLogOutputs(t *testing.T) {
	file, stdout := logOutputs(nil)
	assert.False(t, file)
	assert.True(t, stdout)

	file, stdout = logOutputs([]string{"file"})
	assert.True(t, file)
	assert.False(t, stdout)
}
