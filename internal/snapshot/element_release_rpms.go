package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jniedergang/mls-liberate/internal/distro"
	"github.com/jniedergang/mls-liberate/internal/errors"
	"github.com/jniedergang/mls-liberate/pkg/fileutil"
)

// releaseRPMsBackend captures the source distribution's release package
// payloads so restore can reinstall the original identity even when the
// original repositories are no longer reachable.
type releaseRPMsBackend struct{}

func (releaseRPMsBackend) Kind() Kind { return KindReleaseRPMs }

func (releaseRPMsBackend) Capture(rc *RunContext, snapDir string) (Result, error) {
	var res Result

	names := resolveReleaseNames(rc, &res)

	// The name list and verbose info are written even when every payload
	// acquisition method fails; restore falls back to installing these names
	// from whatever repositories are enabled.
	if err := writeReleaseNameArtifacts(rc, snapDir, names, &res); err != nil {
		return res, err
	}

	if len(names) == 0 {
		res.warn("no release packages identified for " + rc.Identity.ID)
		return res, nil
	}

	dest := filepath.Join(snapDir, rpmsDir)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return res, errors.Wrap(err, "creating rpms directory")
	}

	// Acquisition methods in order; the first that yields at least one file
	// wins.
	files := downloadReleaseRPMs(rc, names, dest, &res)
	if len(files) == 0 {
		files = recoverFromCache(rc, names, dest, &res)
	}
	if len(files) == 0 {
		files = fetchByURL(rc, names, dest, &res)
	}

	if len(files) == 0 {
		res.warn("no release package payloads could be acquired")
		return res, nil
	}

	if err := writeChecksumManifest(dest, files); err != nil {
		res.warn("writing checksum manifest: " + err.Error())
	}

	res.Count = len(files)
	return res, nil
}

// Replay installs the captured payloads forced and dependency-unchecked so
// they can coexist transiently with the target vendor's release package.
// Without payloads it installs the recorded names from the enabled
// repositories instead.
func (releaseRPMsBackend) Replay(rc *RunContext, snapDir string) (Result, error) {
	var res Result

	files := RPMPaths(snapDir)
	if len(files) > 0 {
		if err := rc.PM.InstallFiles(files); err != nil {
			res.warn("installing captured release packages: " + err.Error())
			return res, nil
		}
		res.Count = len(files)
		return res, nil
	}

	names := ReleaseNames(snapDir)
	if len(names) == 0 {
		res.warn("no release packages captured, nothing to restore")
		return res, nil
	}

	rc.Log.Info("no captured payloads, installing release packages from repositories", "packages", names)
	if err := rc.PM.Install(names); err != nil {
		res.warn("installing release packages from repositories: " + err.Error())
		return res, nil
	}
	res.Count = len(names)
	return res, nil
}

// resolveReleaseNames merges the static per-distribution table with a scan of
// locally installed packages matching the release naming pattern. The target
// vendor's own packages are excluded by the pattern check.
func resolveReleaseNames(rc *RunContext, res *Result) []string {
	seen := make(map[string]bool)
	var names []string

	for _, name := range distro.ReleasePackages(rc.Identity.ID) {
		if rc.PM.IsInstalled(name) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	installed, err := rc.PM.ListNames()
	if err != nil {
		res.warn("scanning installed packages: " + err.Error())
	}
	for _, name := range installed {
		if distro.IsReleasePackageName(name) && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	// Nothing installed matches: fall back to the table so download can
	// still be attempted, e.g. when capture runs after a partial conversion.
	if len(names) == 0 {
		names = distro.ReleasePackages(rc.Identity.ID)
	}

	sort.Strings(names)
	return names
}

func writeReleaseNameArtifacts(rc *RunContext, snapDir string, names []string, res *Result) error {
	list := strings.Join(names, "\n")
	if len(names) > 0 {
		list += "\n"
	}
	if err := fileutil.AtomicWriteFile(filepath.Join(snapDir, releasePackagesList), []byte(list), 0o644); err != nil {
		return errors.Wrap(err, "writing release package list")
	}

	var sections []string
	for _, name := range names {
		info, err := rc.PM.Info([]string{name})
		if err != nil {
			res.warn("querying info for " + name + ": " + err.Error())
			continue
		}
		sections = append(sections, strings.TrimSpace(info))
	}
	info := strings.Join(sections, "\n---\n")
	if info != "" {
		info += "\n"
	}
	if err := fileutil.AtomicWriteFile(filepath.Join(snapDir, releasePackagesInfo), []byte(info), 0o644); err != nil {
		return errors.Wrap(err, "writing release package info")
	}

	return nil
}

func downloadReleaseRPMs(rc *RunContext, names []string, dest string, res *Result) []string {
	files, err := rc.PM.Download(names, dest)
	if err != nil {
		res.warn("downloading release packages: " + err.Error())
		return nil
	}
	return files
}

// recoverFromCache scans the package manager's cache directories for payloads
// matching the wanted names.
func recoverFromCache(rc *RunContext, names []string, dest string, res *Result) []string {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var recovered []string
	for _, cacheDir := range rc.Sys.CacheDirs {
		filepath.Walk(cacheDir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() || !strings.HasSuffix(path, ".rpm") {
				return nil
			}
			base := filepath.Base(path)
			for name := range wanted {
				if strings.HasPrefix(base, name+"-") {
					target := filepath.Join(dest, base)
					if err := fileutil.CopyFile(path, target); err != nil {
						res.warn("recovering " + base + " from cache: " + err.Error())
						return nil
					}
					recovered = append(recovered, target)
					return nil
				}
			}
			return nil
		})
	}

	sort.Strings(recovered)
	return recovered
}

// fetchByURL resolves direct URLs through the package manager and fetches
// them over HTTP.
func fetchByURL(rc *RunContext, names []string, dest string, res *Result) []string {
	urls, err := rc.PM.ResolveURLs(names)
	if err != nil {
		res.warn("resolving release package URLs: " + err.Error())
		return nil
	}

	var fetched []string
	for _, url := range urls {
		target := filepath.Join(dest, filepath.Base(url))
		if err := fetchURL(url, target); err != nil {
			res.warn("fetching " + url + ": " + err.Error())
			continue
		}
		fetched = append(fetched, target)
	}

	sort.Strings(fetched)
	return fetched
}

func fetchURL(url, dest string) error {
	resp, err := http.Get(url)
	if err != nil {
		return errors.Wrap(err, "requesting")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("unexpected status %s", resp.Status)
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "creating file")
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return errors.Wrap(err, "writing file")
	}
	return f.Close()
}

// writeChecksumManifest records a sha256 per payload alongside them.
func writeChecksumManifest(dir string, files []string) error {
	var b strings.Builder
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return errors.Wrapf(err, "opening %s", file)
		}
		h := sha256.New()
		if _, err := io.Copy(h, f); err != nil {
			f.Close()
			return errors.Wrapf(err, "hashing %s", file)
		}
		f.Close()
		fmt.Fprintf(&b, "%s  %s\n", hex.EncodeToString(h.Sum(nil)), filepath.Base(file))
	}
	return fileutil.AtomicWriteFile(filepath.Join(dir, checksumManifest), []byte(b.String()), 0o644)
}

// ReleaseNames returns the release package names a snapshot recorded.
func ReleaseNames(snapDir string) []string {
	data, err := os.ReadFile(filepath.Join(snapDir, releasePackagesList))
	if err != nil {
		return nil
	}
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names
}
