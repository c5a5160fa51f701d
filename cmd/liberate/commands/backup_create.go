package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jniedergang/mls-liberate/internal/snapshot"
)

var backupCreateInteractive bool

func init() {
	backupCreateCmd.Flags().BoolVarP(&backupCreateInteractive, "interactive", "i", false,
		"choose per element what to capture")
	backupCmd.AddCommand(backupCreateCmd)
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Capture a snapshot of the current system",
	Long: `Capture a snapshot of everything a conversion would alter: the installed
package list, repository definitions, release identity files, package
manager configuration, release package payloads, and the files the
conversion deletes.

A snapshot is captured automatically before 'liberate migrate'; this
command captures one on demand. With --interactive each element is
offered separately.`,
	Example: `  # Capture everything
  liberate backup create

  # Choose per element
  liberate backup create --interactive

  See Also:
    liberate backup list  - List snapshots
    liberate restore      - Restore from a snapshot`,
	RunE: runBackupCreate,
}

func runBackupCreate(cmd *cobra.Command, _ []string) error {
	return runBackupCreateWithWriter(cmd, os.Stdout)
}

func runBackupCreateWithWriter(cmd *cobra.Command, w io.Writer) error {
	rc, err := runContext(cmd)
	if err != nil {
		return err
	}

	include := snapshot.IncludeAll()
	if backupCreateInteractive {
		// An all-declined selection still produces a snapshot whose
		// descriptor records that nothing was captured.
		include = askInclusion(rc)
	}

	store := newStore(cmd)
	report, err := snapshot.NewBuilder(store).Build(rc, include)
	if err != nil {
		return err
	}
	printBuildReport(w, report)

	if cfg != nil && cfg.AutoPrune {
		removed, err := store.Prune(cfg.RetentionCount)
		if err != nil {
			return err
		}
		for _, id := range removed {
			fmt.Fprintf(w, "%spruned old snapshot %s%s\n", colorGray, id, colorReset)
		}
	}

	return nil
}

// askInclusion prompts once per element kind.
func askInclusion(rc *snapshot.RunContext) snapshot.Inclusion {
	include := snapshot.Inclusion{}
	for _, kind := range snapshot.AllKinds() {
		if rc.Confirm.Confirm(fmt.Sprintf("Capture %s?", kind.Description())) {
			include[kind] = true
		}
	}
	return include
}
