package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jniedergang/mls-liberate/internal/config"
)

var backupPruneKeep int

func init() {
	backupPruneCmd.Flags().IntVarP(&backupPruneKeep, "keep", "k", 0,
		fmt.Sprintf("snapshots to retain (default: config, then %d)", config.DefaultRetentionCount))
	backupCmd.AddCommand(backupPruneCmd)
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove the oldest snapshots beyond the retention count",
	Long: `Remove the oldest snapshots, keeping the newest N. The snapshot the
latest pointer targets is only removed when it is itself older than the
retention window.`,
	Example: `  # Keep the configured number of snapshots
  liberate backup prune

  # Keep only the newest two
  liberate backup prune --keep 2`,
	RunE: runBackupPrune,
}

func runBackupPrune(cmd *cobra.Command, _ []string) error {
	return runBackupPruneWithWriter(cmd, os.Stdout)
}

func runBackupPruneWithWriter(cmd *cobra.Command, w io.Writer) error {
	keep := backupPruneKeep
	if keep <= 0 {
		keep = config.DefaultRetentionCount
		if cfg != nil && cfg.RetentionCount > 0 {
			keep = cfg.RetentionCount
		}
	}

	removed, err := newStore(cmd).Prune(keep)
	if err != nil {
		return err
	}

	if len(removed) == 0 {
		fmt.Fprintf(w, "Nothing to prune, %d or fewer snapshots in the store.\n", keep)
		return nil
	}
	for _, id := range removed {
		fmt.Fprintf(w, "%s✓ removed snapshot %s%s\n", colorGreen, id, colorReset)
	}
	return nil
}
