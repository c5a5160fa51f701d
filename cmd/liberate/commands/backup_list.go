package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var backupListJSON bool

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output in JSON format")
	backupCmd.AddCommand(backupListCmd)
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots in the store",
	Long: `List all snapshots in the store, most recent first, with the system
identity each one was captured from and whether release package payloads
were captured.`,
	Example: `  # List all snapshots
  liberate backup list

  # Output as JSON
  liberate backup list --json

  See Also:
    liberate restore       - Restore from a snapshot
    liberate backup prune  - Remove old snapshots`,
	RunE: runBackupList,
}

// snapshotOutput represents a single snapshot in JSON output.
type snapshotOutput struct {
	ID              string   `json:"id"`
	Created         string   `json:"created"`
	OSName          string   `json:"os_name"`
	OSVersion       string   `json:"os_version"`
	Hostname        string   `json:"hostname"`
	Elements        []string `json:"elements"`
	HasReleaseRPMs  bool     `json:"has_release_rpms"`
	IsLatest        bool     `json:"is_latest"`
	EngineVersion   string   `json:"engine_version"`
	InstalledCount  int      `json:"installed_count"`
	ReleaseRPMCount int      `json:"release_rpm_count"`
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	return runBackupListWithWriter(cmd, os.Stdout)
}

func runBackupListWithWriter(cmd *cobra.Command, w io.Writer) error {
	store := newStore(cmd)
	summaries, err := store.List()
	if err != nil {
		return err
	}
	latest, _ := store.LatestID()

	if backupListJSON {
		output := make([]snapshotOutput, 0, len(summaries))
		for _, s := range summaries {
			output = append(output, snapshotOutput{
				ID:              s.ID,
				Created:         s.Meta.BackupDate,
				OSName:          s.Meta.OSName,
				OSVersion:       s.Meta.OSVersion,
				Hostname:        s.Meta.Hostname,
				Elements:        s.Meta.BackedUpElements,
				HasReleaseRPMs:  s.HasReleaseRPMs,
				IsLatest:        s.ID == latest,
				EngineVersion:   s.Meta.ScriptVersion,
				InstalledCount:  s.Meta.PackageCount,
				ReleaseRPMCount: s.Meta.ReleaseRPMCount,
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	}

	if len(summaries) == 0 {
		fmt.Fprintf(w, "No snapshots in %s\n", store.Root())
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSYSTEM\tHOST\tELEMENTS\tRPMS")
	for _, s := range summaries {
		id := s.ID
		if s.ID == latest {
			id += " (latest)"
		}
		rpms := "-"
		if s.HasReleaseRPMs {
			rpms = fmt.Sprintf("%d", s.Meta.ReleaseRPMCount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%d\t%s\n",
			id, s.Meta.BackupDate, s.Meta.OSName, s.Meta.OSVersion,
			s.Meta.Hostname, len(s.Meta.BackedUpElements), rpms)
	}
	return tw.Flush()
}
