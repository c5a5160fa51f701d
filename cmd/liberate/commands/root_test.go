package commands

import (
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"

	"github.com/jniedergang/mls-liberate/internal/config"
	"github.com/jniedergang/mls-liberate/internal/logging"
)

// newTestCmd returns a command whose context carries a test logger, the way
// PersistentPreRunE sets one up in production.
func newTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	c := &cobra.Command{}
	c.SetContext(logging.NewContext(context.Background(), logging.ForTest(t)))
	return c
}

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelInfo},
		{"verbose (1)", 1, slog.LevelDebug},
		{"debug (2)", 2, slog.Level(-8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = tt.verbosity
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(context.Background(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
		})
	}
}

func TestSetupLogging_QuietAndVerboseConflict(t *testing.T) {
	origVerbosity, origQuiet := verbosity, quiet
	defer func() { verbosity, quiet = origVerbosity, origQuiet }()

	verbosity = 1
	quiet = true
	if err := setupLogging(rootCmd); err == nil {
		t.Error("expected --quiet with --verbose to be rejected")
	}
}

func TestStoreRootPrecedence(t *testing.T) {
	origFlag, origCfg := backupDirFlag, cfg
	defer func() { backupDirFlag, cfg = origFlag, origCfg }()

	backupDirFlag = "/tmp/flag-store"
	cfg = &config.Config{BackupDir: "/tmp/config-store"}
	if got := storeRoot(); got != "/tmp/flag-store" {
		t.Errorf("flag should win, got %s", got)
	}

	backupDirFlag = ""
	if got := storeRoot(); got != "/tmp/config-store" {
		t.Errorf("config should win over default, got %s", got)
	}

	cfg = nil
	if got := storeRoot(); got == "" {
		t.Error("default store root is empty")
	}
}
