package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jniedergang/mls-liberate/internal/config"
	"github.com/jniedergang/mls-liberate/internal/snapshot"
)

var backupExportDest string

func init() {
	backupExportCmd.Flags().StringVarP(&backupExportDest, "output", "o", ".",
		"directory to write the archive into")
	backupCmd.AddCommand(backupExportCmd)
}

var backupExportCmd = &cobra.Command{
	Use:   "export [snapshot-id]",
	Short: "Export a snapshot as a portable archive",
	Long: `Export a snapshot as a single gzip-compressed tar archive that can be
imported into another host's store. Without an argument the latest
snapshot is exported.`,
	Example: `  # Export the latest snapshot into the current directory
  liberate backup export

  # Export a specific snapshot somewhere else
  liberate backup export 20260101_120000 --output /mnt/usb

  See Also:
    liberate backup import - Import an exported archive`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupExport,
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	return runBackupExportWithWriter(cmd, args, os.Stdout)
}

func runBackupExportWithWriter(cmd *cobra.Command, args []string, w io.Writer) error {
	store := newStore(cmd)

	name := "latest"
	if len(args) > 0 {
		name = args[0]
	}
	id, err := store.Resolve(name)
	if err != nil {
		return err
	}

	prefix := config.DefaultArchivePrefix
	if cfg != nil && cfg.ArchivePrefix != "" {
		prefix = cfg.ArchivePrefix
	}

	archive, err := snapshot.NewCodec(store, prefix).Export(id, backupExportDest)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s✓ exported snapshot %s to %s%s\n", colorGreen, id, archive, colorReset)
	return nil
}
