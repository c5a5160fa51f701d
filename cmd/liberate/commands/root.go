// Package commands implements the CLI commands for liberate.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jniedergang/mls-liberate/cmd"
	"github.com/jniedergang/mls-liberate/internal/cli/prompt"
	"github.com/jniedergang/mls-liberate/internal/config"
	"github.com/jniedergang/mls-liberate/internal/errors"
	"github.com/jniedergang/mls-liberate/internal/logging"
	"github.com/jniedergang/mls-liberate/internal/paths"
	"github.com/jniedergang/mls-liberate/internal/pkgmgr"
	"github.com/jniedergang/mls-liberate/internal/snapshot"
	"github.com/jniedergang/mls-liberate/internal/system"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// backupDirFlag overrides the snapshot store root.
var backupDirFlag string

// assumeYes answers every confirmation prompt with yes.
var assumeYes bool

// dryRun reports what would be done without mutating anything.
var dryRun bool

// cfg is the loaded configuration; configLoadErr holds any load failure.
var (
	cfg           *config.Config
	configLoadErr error
)

func init() {
	cobra.OnInitialize(initConfig)
	snapshot.Version = cmd.Version

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&backupDirFlag, "backup-dir", "",
		"snapshot store root (default: config, then "+paths.SystemStoreRoot+")")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false,
		"assume yes for all confirmation prompts")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"report what would be done without changing anything")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("liberate version {{.Version}}\n")

	// Silence errors and usage so Execute controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "liberate",
	Short: "Convert RHEL-family hosts to MLS and back",
	Long: `liberate converts a RHEL-family host's distribution identity (release
packages, repository definitions, package manager configuration) to MLS,
and can undo the conversion later from a snapshot.

Before any conversion a snapshot of everything the conversion will alter
is captured under the snapshot store. Snapshots are portable: they can be
exported as a single archive and imported on another host.`,
	Example: `  # Convert the host, taking a full snapshot first
  liberate migrate

  # Capture a snapshot without converting
  liberate backup create

  # Undo the conversion from the newest snapshot
  liberate restore

  # Undo only the repository definitions
  liberate restore --mode repos

  See Also: liberate status, liberate backup list`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if configLoadErr != nil {
			return errors.NewUserError(configLoadErr, "check the configuration file or run 'liberate config init'")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("LIBERATE_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// storeRoot resolves the snapshot store root: flag, then config, then the
// built-in default.
func storeRoot() string {
	if backupDirFlag != "" {
		return backupDirFlag
	}
	if cfg != nil && cfg.BackupDir != "" {
		return cfg.BackupDir
	}
	return paths.StoreRoot()
}

// newStore opens the snapshot store.
func newStore(cmd *cobra.Command) *snapshot.Store {
	return snapshot.NewStore(storeRoot(), logging.FromContext(cmd.Context()))
}

// confirmer picks the confirmation strategy for this invocation.
func confirmer() prompt.Confirmer {
	if assumeYes {
		return prompt.AutoYes{}
	}
	return prompt.NewTerminal()
}

// runContext assembles the run context commands hand to the engine. The
// package manager is wrapped for dry-run so mutations are logged, not run.
func runContext(cmd *cobra.Command) (*snapshot.RunContext, error) {
	ident, err := system.Resolve()
	if err != nil {
		return nil, errors.NewSystemError(err, "liberate requires a readable /etc/os-release")
	}

	log := logging.FromContext(cmd.Context())

	var pm pkgmgr.Manager = pkgmgr.NewDNF()
	if dryRun {
		pm = &pkgmgr.DryRun{Wrapped: pm, Log: log}
	}

	return &snapshot.RunContext{
		Identity: ident,
		PM:       pm,
		Confirm:  confirmer(),
		Log:      log,
		DryRun:   dryRun,
		Sys:      snapshot.DefaultSystemPaths(),
	}, nil
}

// Execute runs the root command and maps errors to exit codes.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return errors.ExitSuccess
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", exitErr.Suggestion)
		}
		return exitErr.Code
	}
	return errors.ExitUser
}
