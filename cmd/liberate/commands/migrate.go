package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jniedergang/mls-liberate/internal/distro"
	"github.com/jniedergang/mls-liberate/internal/errors"
	"github.com/jniedergang/mls-liberate/internal/snapshot"
	"github.com/jniedergang/mls-liberate/pkg/fileutil"
)

var migrateSkipBackup bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateSkipBackup, "skip-backup", false,
		"convert without capturing a snapshot first (not recommended)")
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert this host to MLS",
	Long: `Convert the host's distribution identity to MLS: capture a full
snapshot, swap the release packages and repository definitions for MLS's,
and write the liberated marker.

The snapshot captured first is what 'liberate restore' later undoes the
conversion from.`,
	Example: `  # Convert, snapshotting first
  liberate migrate

  # See what would happen
  liberate migrate --dry-run

  See Also:
    liberate status  - Show the host's conversion state
    liberate restore - Undo the conversion`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	return runMigrateWithWriter(cmd, os.Stdout)
}

func runMigrateWithWriter(cmd *cobra.Command, w io.Writer) error {
	rc, err := runContext(cmd)
	if err != nil {
		return err
	}

	if err := rc.Identity.Validate(); err != nil {
		return errors.NewUserError(err, "liberate converts supported RHEL-family hosts only")
	}

	if _, err := os.Lstat(rc.Sys.MarkerFile); err == nil {
		fmt.Fprintln(w, "Host is already converted to MLS, nothing to do.")
		return nil
	}

	target := distro.TargetVendor()
	question := fmt.Sprintf("Convert %s to %s?", rc.Identity, target.Name)
	if !rc.Confirm.Confirm(question) {
		fmt.Fprintln(w, "Conversion cancelled, nothing changed.")
		return nil
	}

	store := newStore(cmd)
	if !migrateSkipBackup {
		report, err := snapshot.NewBuilder(store).Build(rc, snapshot.IncludeAll())
		if err != nil {
			return err
		}
		printBuildReport(w, report)
	}

	// Original identity out, target identity in. The snapshot holds the
	// originals for restore.
	var sourceInstalled []string
	for _, name := range distro.ReleasePackages(rc.Identity.ID) {
		if rc.PM.IsInstalled(name) {
			sourceInstalled = append(sourceInstalled, name)
		}
	}
	if len(sourceInstalled) > 0 {
		if err := rc.PM.Remove(sourceInstalled); err != nil {
			return errors.Wrap(err, "removing source release packages")
		}
	}
	if err := rc.PM.Install(target.ReleasePackages); err != nil {
		return errors.Wrapf(err, "installing %s release packages", target.Name)
	}
	if err := rc.PM.CleanCache(); err != nil {
		rc.Log.Warn("cleaning package manager cache", "error", err)
	}

	if rc.DryRun {
		rc.Log.Info("dry-run: would write marker", "path", rc.Sys.MarkerFile)
	} else {
		content := fmt.Sprintf("liberated=%s\nfrom=%s\n", time.Now().Format(time.RFC3339), rc.Identity)
		if err := fileutil.AtomicWriteFile(rc.Sys.MarkerFile, []byte(content), 0o644); err != nil {
			return errors.Wrap(err, "writing liberated marker")
		}
	}

	fmt.Fprintf(w, "%s✓ converted to %s%s\n", colorGreen, target.Name, colorReset)
	return nil
}
