package config

import (
	"path/filepath"
	"strings"

	"github.com/jniedergang/mls-liberate/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrRetentionNegative indicates a negative retention count.
	ErrRetentionNegative = errors.New("retention_count must be non-negative")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidPrefix indicates an archive prefix that cannot form a filename.
	ErrInvalidPrefix = errors.New("invalid archive prefix")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if cfg.RetentionCount < 0 {
		errs = append(errs, ErrRetentionNegative)
	}

	if cfg.BackupDir != "" && !filepath.IsAbs(cfg.BackupDir) {
		errs = append(errs, errors.Wrapf(ErrInvalidPath, "backup_dir %q must be absolute", cfg.BackupDir))
	}

	if strings.ContainsAny(cfg.ArchivePrefix, "/\x00") {
		errs = append(errs, errors.Wrapf(ErrInvalidPrefix, "%q", cfg.ArchivePrefix))
	}

	return errs
}
