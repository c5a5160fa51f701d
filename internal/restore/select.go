package restore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jniedergang/mls-liberate/internal/distro"
	"github.com/jniedergang/mls-liberate/internal/snapshot"
)

// preflight is what the interactive mode learns about the snapshot and the
// live system before asking anything.
type preflight struct {
	repoFiles      int
	rpmPayloads    int
	releaseNames   int
	configItems    int
	deletedEntries int

	markerPresent  bool
	vendorPackages []string
}

// inspect gathers the pre-flight facts.
func (o *Orchestrator) inspect(rc *snapshot.RunContext, snapDir string) preflight {
	var p preflight

	p.repoFiles = countTree(snapshot.PayloadDir(snapDir, snapshot.KindRepos))
	p.configItems = countTree(snapshot.PayloadDir(snapDir, snapshot.KindConfig))
	p.deletedEntries = countTree(snapshot.PayloadDir(snapDir, snapshot.KindDeletedFiles))

	p.rpmPayloads = len(snapshot.RPMPaths(snapDir))
	p.releaseNames = len(snapshot.ReleaseNames(snapDir))

	if _, err := os.Lstat(rc.Sys.MarkerFile); err == nil {
		p.markerPresent = true
	}
	for _, name := range distro.TargetVendor().ReleasePackages {
		if rc.PM.IsInstalled(name) {
			p.vendorPackages = append(p.vendorPackages, name)
		}
	}

	return p
}

// selectActions builds the action set interactively. A prompt is skipped
// silently for any element the snapshot cannot satisfy; the release step is
// still offered when no payloads were captured but the name list is
// non-empty, since replay can install those names from the enabled
// repositories.
func (o *Orchestrator) selectActions(rc *snapshot.RunContext, snapDir string, meta *snapshot.Metadata) (Actions, error) {
	p := o.inspect(rc, snapDir)
	var actions Actions

	if len(p.vendorPackages) > 0 {
		q := fmt.Sprintf("Remove %s packages (%d installed)?", distro.TargetVendor().Name, len(p.vendorPackages))
		actions.RemoveVendorPackages = rc.Confirm.Confirm(q)
	}

	if meta.Captured(snapshot.KindRepos) && p.repoFiles > 0 {
		q := fmt.Sprintf("Restore repository definitions (%d files)?", p.repoFiles)
		actions.Repos = rc.Confirm.Confirm(q)
	}

	if meta.Captured(snapshot.KindReleaseRPMs) {
		switch {
		case p.rpmPayloads > 0:
			q := fmt.Sprintf("Reinstall original release packages (%d captured)?", p.rpmPayloads)
			actions.Release = rc.Confirm.Confirm(q)
		case p.releaseNames > 0:
			q := fmt.Sprintf("Install original release packages from repositories (%d names recorded)?", p.releaseNames)
			actions.Release = rc.Confirm.Confirm(q)
		}
	}

	if meta.Captured(snapshot.KindConfig) && p.configItems > 0 {
		q := fmt.Sprintf("Restore package manager configuration (%d items)?", p.configItems)
		actions.Config = rc.Confirm.Confirm(q)
	}

	if meta.Captured(snapshot.KindDeletedFiles) && p.deletedEntries > 0 {
		q := fmt.Sprintf("Restore files removed by the migration (%d entries)?", p.deletedEntries)
		actions.DeletedFiles = rc.Confirm.Confirm(q)
	}

	if p.markerPresent {
		actions.ClearMarker = rc.Confirm.Confirm("Clear the liberated marker?")
	}

	return actions, nil
}

// countTree counts the regular files under root. Zero for a missing tree.
func countTree(root string) int {
	count := 0
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err == nil && info.Mode().IsRegular() {
			count++
		}
		return nil
	})
	return count
}
