// Package config provides configuration management for liberate using Viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jniedergang/mls-liberate/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// Defaults for tunable values.
const (
	// DefaultRetentionCount is the number of snapshots kept by pruning.
	DefaultRetentionCount = 5

	// DefaultArchivePrefix names exported archives <prefix>-<snapshot-id>.tar.gz.
	DefaultArchivePrefix = "liberate-backup"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version int `mapstructure:"version" yaml:"version"`

	// BackupDir is the snapshot store root.
	BackupDir string `mapstructure:"backup_dir" yaml:"backup_dir"`

	// RetentionCount is how many snapshots `backup prune` keeps.
	RetentionCount int `mapstructure:"retention_count" yaml:"retention_count"`

	// ArchivePrefix is the filename prefix for exported archives.
	ArchivePrefix string `mapstructure:"archive_prefix" yaml:"archive_prefix"`

	// AutoPrune prunes old snapshots after each successful backup.
	AutoPrune bool `mapstructure:"auto_prune" yaml:"auto_prune"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	for _, dir := range paths.ConfigSearchPaths() {
		viper.AddConfigPath(dir)
	}

	// Environment variable support
	viper.SetEnvPrefix("LIBERATE")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("backup_dir", paths.StoreRoot())
	viper.SetDefault("retention_count", DefaultRetentionCount)
	viper.SetDefault("archive_prefix", DefaultArchivePrefix)
	viper.SetDefault("auto_prune", false)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration without touching any file.
func Default() *Config {
	return &Config{
		Version:        1,
		BackupDir:      paths.StoreRoot(),
		RetentionCount: DefaultRetentionCount,
		ArchivePrefix:  DefaultArchivePrefix,
	}
}
