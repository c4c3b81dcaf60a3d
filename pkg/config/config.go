/*
Package config manages TOML config for wordtrie services.
*/
package config

import (
	"fmt"
	"path/filepath"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	Cache  CacheConfig  `toml:"cache"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int  `toml:"max_limit"`
	MinPrefix    int  `toml:"min_prefix"`
	MaxPrefix    int  `toml:"max_prefix"`
	EnableFilter bool `toml:"enable_filter"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Separator          string `toml:"separator"`
	TermIndex          int    `toml:"term_index"`
	WeightIndex        int    `toml:"weight_index"`
	MaxWords           int    `toml:"max_words"`
	MinFreqThreshold   int    `toml:"min_frequency_threshold"`
	MinFreqShortPrefix int    `toml:"min_frequency_short_prefix"`
	ShortPrefixLen     int    `toml:"short_prefix_len"`
}

// CacheConfig holds hot cache options.
type CacheConfig struct {
	HotCacheSize int `toml:"hot_cache_size"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultMinLen   int  `toml:"default_min_len"`
	DefaultMaxLen   int  `toml:"default_max_len"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:     64,
			MinPrefix:    1,
			MaxPrefix:    60,
			EnableFilter: true,
		},
		Dict: DictConfig{
			Separator:          " ",
			TermIndex:          0,
			WeightIndex:        1,
			MaxWords:           0,
			MinFreqThreshold:   0,
			MinFreqShortPrefix: 0,
			ShortPrefixLen:     2,
		},
		Cache: CacheConfig{
			HotCacheSize: 2048,
		},
		CLI: CliConfig{
			DefaultLimit:    24,
			DefaultMinLen:   1,
			DefaultMaxLen:   24,
			DefaultNoFilter: false,
		},
	}
}

// Validate reports settings that the dictionary loader cannot work with.
func (c *Config) Validate() error {
	if c.Dict.Separator == "" {
		return fmt.Errorf("dict.separator must not be empty")
	}
	if c.Dict.TermIndex < 0 || c.Dict.WeightIndex < 0 {
		return fmt.Errorf("dict field indices must be >= 0 (term %d, weight %d)", c.Dict.TermIndex, c.Dict.WeightIndex)
	}
	if c.Dict.TermIndex == c.Dict.WeightIndex {
		return fmt.Errorf("dict.term_index and dict.weight_index are both %d", c.Dict.TermIndex)
	}
	if c.Server.MinPrefix > c.Server.MaxPrefix {
		return fmt.Errorf("server.min_prefix %d exceeds server.max_prefix %d", c.Server.MinPrefix, c.Server.MaxPrefix)
	}
	return nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path inside the resolver's config dir
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string, pr *utils.PathResolver) (*Config, string) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}
	if pr == nil {
		return DefaultConfig(), ""
	}
	defaultPath, err := pr.ConfigPath("config.toml")
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), ""
	}
	return InitConfig(defaultPath), defaultPath
}

// InitConfig loads config from file or creates default if missing.
// Any failure falls back to the builtin defaults.
func InitConfig(configPath string) *Config {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig()
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return config
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig()
	}
	return config
}

// LoadConfig loads from a TOML file. A file that does not decode cleanly is
// salvaged section by section; invalid values are replaced by defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config, err = tryPartialParse(configPath)
		if err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		log.Warnf("Invalid config in %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file section by section
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		return nil, err
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cache"); ok {
		if val, ok := utils.ExtractInt(section, "hot_cache_size"); ok {
			config.Cache.HotCacheSize = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractBool(data, "enable_filter"); ok {
		server.EnableFilter = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "separator"); ok {
		dict.Separator = val
	}
	if val, ok := utils.ExtractInt(data, "term_index"); ok {
		dict.TermIndex = val
	}
	if val, ok := utils.ExtractInt(data, "weight_index"); ok {
		dict.WeightIndex = val
	}
	if val, ok := utils.ExtractInt(data, "max_words"); ok {
		dict.MaxWords = val
	}
	if val, ok := utils.ExtractInt(data, "min_frequency_threshold"); ok {
		dict.MinFreqThreshold = val
	}
	if val, ok := utils.ExtractInt(data, "min_frequency_short_prefix"); ok {
		dict.MinFreqShortPrefix = val
	}
	if val, ok := utils.ExtractInt(data, "short_prefix_len"); ok {
		dict.ShortPrefixLen = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt(data, "default_min_len"); ok {
		cli.DefaultMinLen = val
	}
	if val, ok := utils.ExtractInt(data, "default_max_len"); ok {
		cli.DefaultMaxLen = val
	}
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
