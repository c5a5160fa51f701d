package snapshot

import (
	"os"
	"path/filepath"

	"github.com/jniedergang/mls-liberate/pkg/fileutil"
)

// configBackend captures the package manager's configuration files and the
// protected-package directory, and copies them back on replay.
type configBackend struct{}

func (configBackend) Kind() Kind { return KindConfig }

func (configBackend) Capture(rc *RunContext, snapDir string) (Result, error) {
	var res Result

	dest := filepath.Join(snapDir, pmConfigDir)
	for _, path := range rc.Sys.PMConfigFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := fileutil.CopyFile(path, filepath.Join(dest, filepath.Base(path))); err != nil {
			res.warn("copying " + path + ": " + err.Error())
			continue
		}
		res.Count++
	}

	if _, err := os.Stat(rc.Sys.ProtectedDir); err == nil {
		count, err := fileutil.CopyTree(rc.Sys.ProtectedDir, filepath.Join(dest, filepath.Base(rc.Sys.ProtectedDir)))
		if err != nil {
			res.warn("copying " + rc.Sys.ProtectedDir + ": " + err.Error())
		} else {
			res.Count += count
		}
	}

	return res, nil
}

func (configBackend) Replay(rc *RunContext, snapDir string) (Result, error) {
	var res Result

	src := filepath.Join(snapDir, pmConfigDir)
	if _, err := os.Stat(src); err != nil {
		res.warn("no package manager configuration captured, nothing to restore")
		return res, nil
	}

	if rc.DryRun {
		rc.Log.Info("dry-run: would restore package manager configuration", "from", src)
		return res, nil
	}

	for _, path := range rc.Sys.PMConfigFiles {
		captured := filepath.Join(src, filepath.Base(path))
		if _, err := os.Stat(captured); err != nil {
			continue
		}
		if err := fileutil.CopyFile(captured, path); err != nil {
			res.warn("restoring " + path + ": " + err.Error())
			continue
		}
		res.Count++
	}

	capturedDir := filepath.Join(src, filepath.Base(rc.Sys.ProtectedDir))
	if _, err := os.Stat(capturedDir); err == nil {
		count, err := fileutil.CopyTree(capturedDir, rc.Sys.ProtectedDir)
		if err != nil {
			res.warn("restoring " + rc.Sys.ProtectedDir + ": " + err.Error())
		} else {
			res.Count += count
		}
	}

	return res, nil
}
