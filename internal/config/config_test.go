package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestInit_Defaults(t *testing.T) {
	viper.Reset()

	Init()

	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
	if viper.GetInt("retention_count") != DefaultRetentionCount {
		t.Errorf("retention_count default = %d, want %d",
			viper.GetInt("retention_count"), DefaultRetentionCount)
	}
	if viper.GetString("archive_prefix") != DefaultArchivePrefix {
		t.Errorf("archive_prefix default = %q", viper.GetString("archive_prefix"))
	}
	if viper.GetString("backup_dir") == "" {
		t.Error("backup_dir default must not be empty")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	viper.Reset()
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Errorf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config to be returned")
	}
	if cfg.RetentionCount != DefaultRetentionCount {
		t.Errorf("RetentionCount = %d, want default", cfg.RetentionCount)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte("backup_dir: /srv/liberate/backups\nretention_count: 3\n")
	if err := os.WriteFile(configPath, content, 0o600); err != nil {
		t.Fatal(err)
	}

	Init()

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.BackupDir != "/srv/liberate/backups" {
		t.Errorf("BackupDir = %q", cfg.BackupDir)
	}
	if cfg.RetentionCount != 3 {
		t.Errorf("RetentionCount = %d, want 3", cfg.RetentionCount)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	Init()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"valid", Default(), false},
		{"nil", nil, true},
		{"version zero", &Config{Version: 0, BackupDir: "/var/lib/liberate/backups"}, true},
		{"negative retention", &Config{Version: 1, BackupDir: "/x", RetentionCount: -1}, true},
		{"relative backup dir", &Config{Version: 1, BackupDir: "backups"}, true},
		{"slash in prefix", &Config{Version: 1, BackupDir: "/x", ArchivePrefix: "a/b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.cfg)
			if tt.wantErr && len(errs) == 0 {
				t.Error("expected validation errors")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
		})
	}
}
