package commands

import (
	"fmt"
	"io"

	"github.com/jniedergang/mls-liberate/internal/restore"
	"github.com/jniedergang/mls-liberate/internal/snapshot"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// printWarnings lists accumulated warnings, if any.
func printWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "%swarning: %s%s\n", colorYellow, warning, colorReset)
	}
}

// printBuildReport summarizes a finished snapshot build.
func printBuildReport(w io.Writer, report *snapshot.BuildReport) {
	fmt.Fprintf(w, "%s✓ created snapshot %s%s\n", colorGreen, report.ID, colorReset)
	fmt.Fprintf(w, "  location: %s\n", report.Dir)
	for _, kind := range snapshot.AllKinds() {
		if !report.Meta.Captured(kind) {
			continue
		}
		fmt.Fprintf(w, "  %-14s %d\n", kind, report.Counts[kind])
	}
	printWarnings(w, report.Warnings)
}

// printRestoreReport summarizes a finished restore run.
func printRestoreReport(w io.Writer, report *restore.Report) {
	if report.Cancelled {
		fmt.Fprintln(w, "Restore cancelled, nothing changed.")
		return
	}

	fmt.Fprintf(w, "%s✓ restored from snapshot %s%s\n", colorGreen, report.SnapshotID, colorReset)
	for _, step := range report.Steps {
		fmt.Fprintf(w, "  %-24s %d\n", step, report.Counts[step])
	}
	printWarnings(w, report.Warnings)
}
