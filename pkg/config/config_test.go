package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := InitConfig(path)
	assert.Equal(t, DefaultConfig(), cfg)
	require.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeFile(t, `
[dict]
separator = "\t"
term_index = 1
weight_index = 2

[cache]
hot_cache_size = 0
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "\t", cfg.Dict.Separator)
	assert.Equal(t, 1, cfg.Dict.TermIndex)
	assert.Equal(t, 2, cfg.Dict.WeightIndex)
	assert.Equal(t, 0, cfg.Cache.HotCacheSize)
	// untouched sections keep defaults
	assert.Equal(t, 64, cfg.Server.MaxLimit)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// max_limit has the wrong type, the rest is still usable
	path := writeFile(t, `
[server]
max_limit = "lots"
min_prefix = 2

[cli]
default_limit = 5
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Server.MaxLimit)
	assert.Equal(t, 2, cfg.Server.MinPrefix)
	assert.Equal(t, 5, cfg.CLI.DefaultLimit)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	path := writeFile(t, `
[dict]
separator = ""
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigGarbage(t *testing.T) {
	path := writeFile(t, "this is [not toml")
	_, err := LoadConfig(path)
	assert.Error(t, err)

	assert.Equal(t, DefaultConfig(), InitConfig(path))
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dict.WeightIndex = cfg.Dict.TermIndex
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.MinPrefix = 100
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeFile(t, "[cli]\ndefault_limit = 3\n")
	cfg, used := LoadConfigWithPriority(path, nil)
	assert.Equal(t, path, used)
	assert.Equal(t, 3, cfg.CLI.DefaultLimit)

	cfg, used = LoadConfigWithPriority(filepath.Join(t.TempDir(), "missing.toml"), nil)
	assert.Empty(t, used)
	assert.Equal(t, DefaultConfig(), cfg)
}
