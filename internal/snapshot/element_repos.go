package snapshot

import (
	"os"
	"path/filepath"

	"github.com/jniedergang/mls-liberate/internal/distro"
	"github.com/jniedergang/mls-liberate/internal/errors"
	"github.com/jniedergang/mls-liberate/pkg/fileutil"
)

// reposBackend captures and restores the repository-definition directory.
type reposBackend struct{}

func (reposBackend) Kind() Kind { return KindRepos }

func (reposBackend) Capture(rc *RunContext, snapDir string) (Result, error) {
	var res Result

	if _, err := os.Stat(rc.Sys.RepoDir); err != nil {
		res.warn("repository directory missing: " + rc.Sys.RepoDir)
		return res, nil
	}

	dest := filepath.Join(snapDir, reposDir)
	count, err := fileutil.CopyTree(rc.Sys.RepoDir, dest)
	if err != nil {
		return res, errors.Wrap(err, "copying repository files")
	}

	res.Count = count
	return res, nil
}

// Replay removes the target vendor's repository files first: a still-present
// vendor repo would make the subsequent release-package install report false
// "obsoletes" conflicts. Then the captured files are copied back.
func (reposBackend) Replay(rc *RunContext, snapDir string) (Result, error) {
	var res Result

	src := filepath.Join(snapDir, reposDir)
	if _, err := os.Stat(src); err != nil {
		res.warn("no repository files captured, nothing to restore")
		return res, nil
	}

	entries, err := os.ReadDir(rc.Sys.RepoDir)
	if err != nil && !os.IsNotExist(err) {
		res.warn("reading live repository directory: " + err.Error())
	}
	for _, entry := range entries {
		if entry.IsDir() || !distro.VendorRepoFile(entry.Name()) {
			continue
		}
		path := filepath.Join(rc.Sys.RepoDir, entry.Name())
		if rc.DryRun {
			rc.Log.Info("dry-run: would remove vendor repo file", "path", path)
			continue
		}
		if err := os.Remove(path); err != nil {
			res.warn("removing vendor repo file " + path + ": " + err.Error())
		}
	}

	if rc.DryRun {
		rc.Log.Info("dry-run: would restore repository files", "from", src)
		return res, nil
	}

	count, err := fileutil.CopyTree(src, rc.Sys.RepoDir)
	if err != nil {
		res.warn("restoring repository files: " + err.Error())
		return res, nil
	}

	res.Count = count
	return res, nil
}
