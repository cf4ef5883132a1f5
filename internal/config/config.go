package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type OutputConfig struct {
	Dir     string `mapstructure:"dir"`
	Section int    `mapstructure:"section"`
	Gzip    bool   `mapstructure:"gzip"`
}

type Config struct {
	Output OutputConfig `mapstructure:"output"`
}

// cacheBase returns the base cache directory for crabman.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/crabman as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "crabman")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "crabman")
	}
	return filepath.Join(os.TempDir(), "crabman")
}

// DBPath returns the path to the whatis index database file.
func DBPath() string {
	return filepath.Join(cacheBase(), "whatis.db")
}

// JSONCacheDir returns the path to the rustdoc JSON cache directory.
func JSONCacheDir() string {
	return filepath.Join(cacheBase(), "json")
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "crabman"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "crabman"))
	}

	viper.SetDefault("output.dir", "man")
	viper.SetDefault("output.section", 3)
	viper.SetDefault("output.gzip", false)

	viper.SetEnvPrefix("CRABMAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		// Environment variables arrive as strings; coerce section and gzip.
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Output.Section < 1 || config.Output.Section > 9 {
		return nil, fmt.Errorf("man section must be 1-9, got %d", config.Output.Section)
	}

	return &config, nil
}
