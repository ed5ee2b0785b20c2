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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 5*time.Minute, cfg.Embedding.CacheTTL)
	assert.Equal(t, "chromem", cfg.Vector.Backend)
	assert.False(t, cfg.Log.JSON)
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "hireon.db"), cfg.Database.Path)
}

func TestLoadVectorDataDirDerived(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.DataDir, "index"), cfg.Vector.DataDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HIREON_LISTEN_ADDR", ":9999")
	t.Setenv("HIREON_VECTOR_BACKEND", "brute")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "brute", cfg.Vector.Backend)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAIAPIKey)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `listen-addr: ":7070"
database:
  path: /tmp/custom.db
vector:
  backend: brute
  data-dir: /tmp/vectors
llm:
  provider: openai
  requests-per-minute: 30
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	assert.Equal(t, "brute", cfg.Vector.Backend)
	assert.Equal(t, "/tmp/vectors", cfg.Vector.DataDir)
	assert.Equal(t, "openai", cfg.LLM.DefaultProvider)
	assert.Equal(t, 30, cfg.LLM.RequestsPerMinute)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
