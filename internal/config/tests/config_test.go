package tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-alexander-pop/ratelimiter/internal/config"
)

const sampleTOML = `
[server]
address = "0.0.0.0:50051"
redis_url = "redis://localhost:6379/0"
redis_timeout_ms = 200

[default_policy]
max_tokens = 100
window_secs = 60

[[policies]]
pattern = "api:checkout"
type = "exact"
max_tokens = 5
window_secs = 10
priority = 10

[[policies]]
pattern = "api:"
type = "prefix"
max_tokens = 20
window_secs = 30
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad_ParsesValidConfig(t *testing.T) {
	path := writeConfig(t, sampleTOML)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:50051", cfg.Server.Address)
	assert.Equal(t, uint32(100), cfg.DefaultPolicy.MaxTokens)
	assert.Len(t, cfg.Policies, 2)
	assert.Equal(t, cfg.RedisTimeout().Milliseconds(), int64(200))
}

func TestLoad_ResolverHonorsPriority(t *testing.T) {
	path := writeConfig(t, sampleTOML)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	resolver := cfg.Resolver()
	def := resolver.Resolve("api:checkout")
	assert.Equal(t, uint32(5), def.MaxTokens)

	def = resolver.Resolve("api:other")
	assert.Equal(t, uint32(20), def.MaxTokens)

	def = resolver.Resolve("unrelated")
	assert.Equal(t, uint32(100), def.MaxTokens)
}

func TestLoad_RejectsMissingRequiredFields(t *testing.T) {
	path := writeConfig(t, `
[server]
address = "0.0.0.0:50051"

[default_policy]
max_tokens = 100
window_secs = 60
`)

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
