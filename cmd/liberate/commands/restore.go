package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jniedergang/mls-liberate/internal/cli/prompt"
	"github.com/jniedergang/mls-liberate/internal/errors"
	"github.com/jniedergang/mls-liberate/internal/logging"
	"github.com/jniedergang/mls-liberate/internal/restore"
	"github.com/jniedergang/mls-liberate/internal/snapshot"
)

var restoreMode string

func init() {
	modes := make([]string, 0, len(restore.AllPolicies()))
	for _, p := range restore.AllPolicies() {
		modes = append(modes, string(p))
	}
	restoreCmd.Flags().StringVarP(&restoreMode, "mode", "m", string(restore.PolicyFull),
		"restore mode: "+strings.Join(modes, ", "))
	rootCmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [snapshot-id]",
	Short: "Undo the conversion from a snapshot",
	Long: `Restore the host's original distribution identity from a snapshot.
Without an argument the latest snapshot is used.

Modes:
  full     remove MLS packages, restore repos, release, config, deleted files
  minimal  remove MLS packages and restore the release identity only
  repos    restore repository definitions only
  release  reinstall the original release packages only
  files    restore the files the conversion deleted only
  config   restore package manager configuration only
  select   choose per element interactively

Whatever the mode, active steps always run in the same order: MLS
packages are removed first, the liberated marker is cleared last.`,
	Example: `  # Full restore from the latest snapshot
  liberate restore

  # Only the repository definitions, from a specific snapshot
  liberate restore 20260101_120000 --mode repos

  # Pick a snapshot and elements interactively
  liberate restore --mode select

  See Also:
    liberate backup list - List snapshots
    liberate status      - Show the host's conversion state`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	return runRestoreWithWriter(cmd, args, os.Stdout)
}

func runRestoreWithWriter(cmd *cobra.Command, args []string, w io.Writer) error {
	policy, err := restore.ParsePolicy(restoreMode)
	if err != nil {
		return errors.NewUserError(err, "see 'liberate restore --help' for the mode list")
	}

	rc, err := runContext(cmd)
	if err != nil {
		return err
	}
	store := newStore(cmd)

	name := "latest"
	switch {
	case len(args) > 0:
		name = args[0]
	case policy == restore.PolicySelect && logging.IsTTY(os.Stdout):
		name, err = pickSnapshot(store)
		if err != nil {
			if errors.Is(err, prompt.ErrPickCancelled) {
				fmt.Fprintln(w, "Restore cancelled, nothing changed.")
				return nil
			}
			return err
		}
	}

	report, err := restore.NewOrchestrator(store).Run(rc, name, policy)
	if err != nil {
		if errors.Is(err, errors.ErrSnapshotNotFound) || errors.Is(err, errors.ErrLatestUndefined) {
			return errors.NewUserError(err, "run 'liberate backup list' to see available snapshots")
		}
		return err
	}

	printRestoreReport(w, report)
	return nil
}

// pickSnapshot offers the store's snapshots in a fuzzy finder.
func pickSnapshot(store *snapshot.Store) (string, error) {
	summaries, err := store.List()
	if err != nil {
		return "", err
	}
	if len(summaries) == 0 {
		return "", errors.ErrNoSnapshots
	}

	items := make([]string, len(summaries))
	for i, s := range summaries {
		items[i] = fmt.Sprintf("%s  %s %s", s.ID, s.Meta.OSName, s.Meta.OSVersion)
	}

	idx, err := prompt.Pick(items, func(i int) string {
		s := summaries[i]
		return fmt.Sprintf("Created:  %s\nSystem:   %s %s\nHost:     %s\nElements: %s\nPackages: %d",
			s.Meta.BackupDate, s.Meta.OSName, s.Meta.OSVersion, s.Meta.Hostname,
			strings.Join(s.Meta.BackedUpElements, ", "), s.Meta.PackageCount)
	})
	if err != nil {
		return "", err
	}
	return summaries[idx].ID, nil
}
