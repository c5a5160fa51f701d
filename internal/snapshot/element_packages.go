package snapshot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jniedergang/mls-liberate/internal/errors"
	"github.com/jniedergang/mls-liberate/pkg/fileutil"
)

// packagesBackend captures the full installed-package listing. The listing is
// an advisory artifact: restore summaries and the release-package fallback
// read it, but nothing reinstalls the whole package set from it.
type packagesBackend struct{}

func (packagesBackend) Kind() Kind { return KindPackages }

func (packagesBackend) Capture(rc *RunContext, snapDir string) (Result, error) {
	var res Result

	pkgs, err := rc.PM.ListInstalled()
	if err != nil {
		res.warn("listing installed packages: " + err.Error())
		return res, nil
	}

	data := strings.Join(pkgs, "\n")
	if len(pkgs) > 0 {
		data += "\n"
	}
	if err := fileutil.AtomicWriteFile(filepath.Join(snapDir, packagesList), []byte(data), 0o644); err != nil {
		return res, errors.Wrap(err, "writing package list")
	}

	res.Count = len(pkgs)
	return res, nil
}

func (packagesBackend) Replay(rc *RunContext, snapDir string) (Result, error) {
	var res Result
	// The package list is never replayed wholesale; reinstalling every
	// package would be far more invasive than the conversion being undone.
	res.warn("package list is advisory only, nothing to replay")
	return res, nil
}

// readPackageList returns the captured package identifiers, or nil when the
// kind was not captured.
func readPackageList(snapDir string) []string {
	data, err := os.ReadFile(filepath.Join(snapDir, packagesList))
	if err != nil {
		return nil
	}
	var pkgs []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			pkgs = append(pkgs, line)
		}
	}
	return pkgs
}
