package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  name: test-server
redis:
  host: redis.local
  port: 6380
  db: 2
gemini:
  apiKey: secret
  model: gemini-1.5-pro
chat:
  historyWindow: 5
  maxFileSize: 1048576
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test-server", cfg.Server.Name)
	assert.Equal(t, "redis.local", cfg.Redis.Host)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 5, cfg.Chat.HistoryWindow)
	assert.Equal(t, int64(1048576), cfg.Chat.MaxFileSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8080
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 10, cfg.Chat.HistoryWindow)
	assert.Equal(t, int64(10<<20), cfg.Chat.MaxFileSize)
	assert.Equal(t, 500, cfg.Chat.PreviewLength)
	assert.Equal(t, 86400, cfg.Chat.CacheExpireSec)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [broken")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
