package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jniedergang/mls-liberate/internal/distro"
	"github.com/jniedergang/mls-liberate/internal/system"
)

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the host's conversion state",
	Long: `Show the host's identity, whether it has been converted to MLS, and
what the snapshot store holds.`,
	Example: `  # Human-readable overview
  liberate status

  # JSON output for scripting
  liberate status --json`,
	RunE: runStatus,
}

// statusOutput is the JSON shape of the status report.
type statusOutput struct {
	OSName        string `json:"os_name"`
	OSID          string `json:"os_id"`
	OSVersion     string `json:"os_version"`
	Supported     bool   `json:"supported"`
	Liberated     bool   `json:"liberated"`
	StoreRoot     string `json:"store_root"`
	SnapshotCount int    `json:"snapshot_count"`
	Latest        string `json:"latest,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	return runStatusWithWriter(cmd, os.Stdout)
}

// runStatusWithWriter allows injecting a writer for testing.
func runStatusWithWriter(cmd *cobra.Command, w io.Writer) error {
	ident, err := system.Resolve()
	if err != nil {
		return err
	}

	marker := distro.TargetVendor().MarkerFile
	_, markerErr := os.Lstat(marker)

	store := newStore(cmd)
	summaries, err := store.List()
	if err != nil {
		return err
	}
	latest, _ := store.LatestID()

	out := statusOutput{
		OSName:        ident.Name,
		OSID:          ident.ID,
		OSVersion:     ident.Version,
		Supported:     distro.Supported(ident.ID, ident.VersionMajor),
		Liberated:     markerErr == nil,
		StoreRoot:     store.Root(),
		SnapshotCount: len(summaries),
		Latest:        latest,
	}

	if statusJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "%sSystem%s\n", colorBold, colorReset)
	fmt.Fprintf(w, "  identity:   %s\n", ident)
	if out.Liberated {
		fmt.Fprintf(w, "  state:      %sconverted to %s%s\n", colorCyan, distro.TargetVendor().Name, colorReset)
	} else if out.Supported {
		fmt.Fprintf(w, "  state:      not converted, supported for migration\n")
	} else {
		fmt.Fprintf(w, "  state:      %snot supported for migration%s\n", colorYellow, colorReset)
	}

	fmt.Fprintf(w, "%sSnapshots%s\n", colorBold, colorReset)
	fmt.Fprintf(w, "  store:      %s\n", out.StoreRoot)
	fmt.Fprintf(w, "  count:      %d\n", out.SnapshotCount)
	if latest != "" {
		fmt.Fprintf(w, "  latest:     %s\n", latest)
	}
	return nil
}
