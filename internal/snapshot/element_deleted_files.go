package snapshot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jniedergang/mls-liberate/internal/errors"
	"github.com/jniedergang/mls-liberate/pkg/fileutil"
)

// deletedFilesBackend captures the fixed set of paths the conversion removes
// or overwrites, preserving each original absolute path as a relative path
// under the payload root, and writes the restore manifest alongside.
type deletedFilesBackend struct{}

func (deletedFilesBackend) Kind() Kind { return KindDeletedFiles }

func (deletedFilesBackend) Capture(rc *RunContext, snapDir string) (Result, error) {
	var res Result

	paths := append([]string{}, rc.Sys.DeletedPaths...)

	// The conversion replaces the file os-release points at, so the real
	// target is captured too, not just the link.
	if target, err := fileutil.ResolveSymlink(rc.Sys.OSReleaseLink); err == nil && target != rc.Sys.OSReleaseLink {
		paths = append(paths, target)
	}

	payloadRoot := filepath.Join(snapDir, deletedFilesDir)
	var manifest []string

	for _, path := range paths {
		info, err := os.Lstat(path)
		if err != nil {
			continue
		}

		dest := filepath.Join(payloadRoot, relFromAbs(path))
		if info.IsDir() {
			if _, err := fileutil.CopyTree(path, dest); err != nil {
				res.warn("capturing " + path + ": " + err.Error())
				continue
			}
		} else {
			if err := fileutil.CopyFile(path, dest); err != nil {
				res.warn("capturing " + path + ": " + err.Error())
				continue
			}
		}

		manifest = append(manifest, path)
		res.Count++
	}

	data := strings.Join(manifest, "\n")
	if len(manifest) > 0 {
		data += "\n"
	}
	if err := fileutil.AtomicWriteFile(filepath.Join(snapDir, deletedFilesManifest), []byte(data), 0o644); err != nil {
		return res, errors.Wrap(err, "writing restore manifest")
	}

	return res, nil
}

// Replay walks the restore manifest, restoring each listed path to its
// original absolute location with parent directories recreated first. A
// snapshot without a manifest (from an older tool version) falls back to
// overlaying the whole payload onto the filesystem root.
func (deletedFilesBackend) Replay(rc *RunContext, snapDir string) (Result, error) {
	var res Result

	payloadRoot := filepath.Join(snapDir, deletedFilesDir)
	if _, err := os.Stat(payloadRoot); err != nil {
		res.warn("no deleted files captured, nothing to restore")
		return res, nil
	}

	manifest := readManifest(filepath.Join(snapDir, deletedFilesManifest))
	if manifest == nil {
		res.warn("restore manifest missing, overlaying entire payload")
		if rc.DryRun {
			rc.Log.Info("dry-run: would overlay deleted-files payload", "onto", rc.Sys.OverlayRoot)
			return res, nil
		}
		count, err := fileutil.CopyTree(payloadRoot, rc.Sys.OverlayRoot)
		if err != nil {
			res.warn("overlaying payload: " + err.Error())
			return res, nil
		}
		res.Count = count
		return res, nil
	}

	for _, path := range manifest {
		src := filepath.Join(payloadRoot, relFromAbs(path))
		info, err := os.Lstat(src)
		if err != nil {
			res.warn("manifest entry has no captured payload: " + path)
			continue
		}

		if rc.DryRun {
			rc.Log.Info("dry-run: would restore", "path", path)
			continue
		}

		if info.IsDir() {
			if _, err := fileutil.CopyTree(src, path); err != nil {
				res.warn("restoring " + path + ": " + err.Error())
				continue
			}
		} else {
			if err := fileutil.CopyFile(src, path); err != nil {
				res.warn("restoring " + path + ": " + err.Error())
				continue
			}
		}
		res.Count++
	}

	return res, nil
}

// relFromAbs maps an absolute path to its path-preserving relative form
// under the payload root.
func relFromAbs(abs string) string {
	return strings.TrimPrefix(filepath.Clean(abs), string(filepath.Separator))
}

// readManifest returns the manifest lines, or nil when the file is absent.
// An existing but empty manifest returns an empty non-nil slice: "captured
// but empty" is distinguishable from "not captured".
func readManifest(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	lines := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
