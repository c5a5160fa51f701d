package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jniedergang/mls-liberate/internal/config"
	"github.com/jniedergang/mls-liberate/internal/snapshot"
)

func init() {
	backupCmd.AddCommand(backupImportCmd)
}

var backupImportCmd = &cobra.Command{
	Use:   "import <archive>",
	Short: "Import an exported snapshot archive",
	Long: `Import a snapshot archive into the store. The snapshot id comes from
the archive's contents, not its file name, so renamed archives import
correctly. After import the latest pointer targets the imported
snapshot.`,
	Example: `  # Import an archive created on another host
  liberate backup import /mnt/usb/liberate-backup-20260101_120000.tar.gz

  See Also:
    liberate backup export - Export a snapshot as an archive
    liberate restore       - Restore from the imported snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupImport,
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	return runBackupImportWithWriter(cmd, args[0], os.Stdout)
}

func runBackupImportWithWriter(cmd *cobra.Command, archive string, w io.Writer) error {
	store := newStore(cmd)

	prefix := config.DefaultArchivePrefix
	if cfg != nil && cfg.ArchivePrefix != "" {
		prefix = cfg.ArchivePrefix
	}

	id, err := snapshot.NewCodec(store, prefix).Import(archive)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s✓ imported snapshot %s, latest now targets it%s\n", colorGreen, id, colorReset)
	return nil
}
