package snapshot

import (
	"os"
	"path/filepath"

	"github.com/jniedergang/mls-liberate/pkg/fileutil"
)

// releaseFilesBackend captures the identity files (/etc/os-release and
// siblings). There is no automated replay: reinstalling the original release
// package regenerates them, which is the only way to get correct contents.
type releaseFilesBackend struct{}

func (releaseFilesBackend) Kind() Kind { return KindReleaseFiles }

func (releaseFilesBackend) Capture(rc *RunContext, snapDir string) (Result, error) {
	var res Result

	dest := filepath.Join(snapDir, releaseFilesDir)
	for _, path := range rc.Sys.ReleaseFiles {
		if _, err := os.Lstat(path); err != nil {
			continue
		}
		if err := fileutil.CopyFile(path, filepath.Join(dest, filepath.Base(path))); err != nil {
			res.warn("copying " + path + ": " + err.Error())
			continue
		}
		res.Count++
	}

	return res, nil
}

func (releaseFilesBackend) Replay(rc *RunContext, snapDir string) (Result, error) {
	var res Result
	// Regenerated by the release package reinstall; captured copies are kept
	// for inspection only.
	res.warn("release files are restored by reinstalling the release package")
	return res, nil
}
