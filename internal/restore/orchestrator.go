// Package restore replays snapshots back onto the live system under one of
// the named restore policies, in a fixed safety order.
package restore

import (
	"fmt"
	"os"

	"github.com/jniedergang/mls-liberate/internal/distro"
	"github.com/jniedergang/mls-liberate/internal/snapshot"
)

// Step identifies one restore step in the operation log.
type Step string

const (
	StepRemoveVendorPackages Step = "remove-vendor-packages"
	StepRepos                Step = "restore-repos"
	StepRelease              Step = "restore-release"
	StepConfig               Step = "restore-config"
	StepDeletedFiles         Step = "restore-deleted-files"
	StepClearMarker          Step = "clear-marker"
)

// Report summarizes one restore run.
type Report struct {
	SnapshotID string
	Meta       *snapshot.Metadata

	// Cancelled is set when the user declined; the run is a clean no-op.
	Cancelled bool

	// Steps records the executed steps in order.
	Steps []Step

	Counts   map[Step]int
	Warnings []string
}

func (r *Report) ran(s Step, count int) {
	r.Steps = append(r.Steps, s)
	r.Counts[s] = count
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Orchestrator replays a snapshot under a restore policy.
type Orchestrator struct {
	store    *snapshot.Store
	backends map[snapshot.Kind]snapshot.Backend
}

// NewOrchestrator creates an Orchestrator over the store.
func NewOrchestrator(store *snapshot.Store) *Orchestrator {
	return &Orchestrator{store: store, backends: snapshot.Backends()}
}

// Run resolves the named snapshot and executes the policy's actions in the
// fixed order. Resolution failures abort before anything runs; individual
// step failures degrade to warnings and the remaining steps still execute.
func (o *Orchestrator) Run(rc *snapshot.RunContext, name string, policy Policy) (*Report, error) {
	id, err := o.store.Resolve(name)
	if err != nil {
		return nil, err
	}
	snapDir := o.store.Path(id)

	meta, err := snapshot.ReadMetadata(snapDir)
	if err != nil {
		return nil, err
	}

	report := &Report{SnapshotID: id, Meta: meta, Counts: make(map[Step]int)}

	var actions Actions
	if policy == PolicySelect {
		actions, err = o.selectActions(rc, snapDir, meta)
		if err != nil {
			return nil, err
		}
		if actions.none() {
			report.Cancelled = true
			return report, nil
		}
	} else {
		actions = actionsFor(policy)
		question := fmt.Sprintf("Restore snapshot %s (%s %s) with mode %q?", id, meta.OSName, meta.OSVersion, policy)
		if !rc.Confirm.Confirm(question) {
			rc.Log.Info("restore declined")
			report.Cancelled = true
			return report, nil
		}
	}

	if actions.RemoveVendorPackages {
		o.removeVendorPackages(rc, report)
	}
	if actions.Repos {
		o.replay(rc, snapDir, snapshot.KindRepos, StepRepos, report)
	}
	if actions.Release {
		o.replay(rc, snapDir, snapshot.KindReleaseRPMs, StepRelease, report)
	}
	if actions.Config {
		o.replay(rc, snapDir, snapshot.KindConfig, StepConfig, report)
	}
	if actions.DeletedFiles {
		o.replay(rc, snapDir, snapshot.KindDeletedFiles, StepDeletedFiles, report)
	}
	if actions.ClearMarker {
		o.clearMarker(rc, report)
	}

	return report, nil
}

// removeVendorPackages removes whichever of the target vendor's identity
// packages are installed.
func (o *Orchestrator) removeVendorPackages(rc *snapshot.RunContext, report *Report) {
	var present []string
	for _, name := range distro.TargetVendor().ReleasePackages {
		if rc.PM.IsInstalled(name) {
			present = append(present, name)
		}
	}

	if len(present) == 0 {
		report.ran(StepRemoveVendorPackages, 0)
		report.warn("no %s packages installed, nothing to remove", distro.TargetVendor().Name)
		return
	}

	if err := rc.PM.Remove(present); err != nil {
		report.ran(StepRemoveVendorPackages, 0)
		report.warn("removing %s packages: %v", distro.TargetVendor().Name, err)
		return
	}
	report.ran(StepRemoveVendorPackages, len(present))
}

// replay invokes one element backend and folds its result into the report.
func (o *Orchestrator) replay(rc *snapshot.RunContext, snapDir string, kind snapshot.Kind, step Step, report *Report) {
	rc.Log.Debug("replaying element", "kind", kind)

	res, err := o.backends[kind].Replay(rc, snapDir)
	if err != nil {
		report.ran(step, 0)
		report.warn("%s: %v", kind, err)
		return
	}
	report.ran(step, res.Count)
	report.Warnings = append(report.Warnings, res.Warnings...)
}

// clearMarker removes the liberated marker. Running last means an
// interrupted restore still reads as migrated, never falsely as restored.
func (o *Orchestrator) clearMarker(rc *snapshot.RunContext, report *Report) {
	if _, err := os.Lstat(rc.Sys.MarkerFile); err != nil {
		report.ran(StepClearMarker, 0)
		return
	}
	if rc.DryRun {
		rc.Log.Info("dry-run: would remove marker", "path", rc.Sys.MarkerFile)
		report.ran(StepClearMarker, 0)
		return
	}
	if err := os.Remove(rc.Sys.MarkerFile); err != nil {
		report.ran(StepClearMarker, 0)
		report.warn("removing marker %s: %v", rc.Sys.MarkerFile, err)
		return
	}
	report.ran(StepClearMarker, 1)
}
