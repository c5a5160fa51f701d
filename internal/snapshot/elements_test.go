package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jniedergang/mls-liberate/internal/cli/prompt"
	"github.com/jniedergang/mls-liberate/internal/logging"
	"github.com/jniedergang/mls-liberate/internal/system"
)

// fakeManager is an in-memory pkgmgr.Manager for backend tests.
type fakeManager struct {
	installed   []string
	names       []string
	info        string
	listErr     error
	downloads   []string
	downloadErr error
	urls        []string
	urlErr      error

	installedPkgs  []string
	installedFiles []string
	removed        []string
}

func (f *fakeManager) ListInstalled() ([]string, error) { return f.installed, f.listErr }
func (f *fakeManager) ListNames() ([]string, error)     { return f.names, f.listErr }
func (f *fakeManager) Info(names []string) (string, error) {
	return f.info, nil
}
func (f *fakeManager) IsInstalled(name string) bool {
	for _, n := range f.names {
		if n == name {
			return true
		}
	}
	return false
}
func (f *fakeManager) Install(names []string) error {
	f.installedPkgs = append(f.installedPkgs, names...)
	return nil
}
func (f *fakeManager) InstallFiles(paths []string) error {
	f.installedFiles = append(f.installedFiles, paths...)
	return nil
}
func (f *fakeManager) Remove(names []string) error {
	f.removed = append(f.removed, names...)
	return nil
}
func (f *fakeManager) Download(names []string, destDir string) ([]string, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	var out []string
	for _, name := range f.downloads {
		path := filepath.Join(destDir, name)
		if err := os.WriteFile(path, []byte("rpm payload"), 0o644); err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, nil
}
func (f *fakeManager) ResolveURLs(names []string) ([]string, error) { return f.urls, f.urlErr }
func (f *fakeManager) CleanCache() error                            { return nil }

func testIdentity() *system.Identity {
	return &system.Identity{
		ID:           "rocky",
		Name:         "Rocky Linux",
		Version:      "9.3",
		VersionMajor: 9,
		Hostname:     "host1",
		Kernel:       "5.14.0-362.el9.x86_64",
	}
}

func testRunContext(t *testing.T, pm *fakeManager) *RunContext {
	t.Helper()
	root := t.TempDir()
	return &RunContext{
		Identity: testIdentity(),
		PM:       pm,
		Confirm:  prompt.AutoYes{},
		Log:      logging.ForTest(t),
		Sys: SystemPaths{
			RepoDir:       filepath.Join(root, "yum.repos.d"),
			ReleaseFiles:  []string{filepath.Join(root, "os-release")},
			PMConfigFiles: []string{filepath.Join(root, "dnf.conf")},
			ProtectedDir:  filepath.Join(root, "protected.d"),
			CacheDirs:     []string{filepath.Join(root, "cache")},
			DeletedPaths:  []string{filepath.Join(root, "os-release")},
			OSReleaseLink: filepath.Join(root, "os-release"),
			MarkerFile:    filepath.Join(root, "mls-liberated"),
			OverlayRoot:   filepath.Join(root, "overlay"),
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPackagesCaptureWritesList(t *testing.T) {
	pm := &fakeManager{installed: []string{"bash-5.1.8-6.el9.x86_64", "rocky-release-9.3-1.2.el9.noarch"}}
	rc := testRunContext(t, pm)
	snapDir := t.TempDir()

	res, err := packagesBackend{}.Capture(rc, snapDir)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.Count != 2 {
		t.Errorf("count = %d, want 2", res.Count)
	}

	got := readPackageList(snapDir)
	if len(got) != 2 || got[0] != "bash-5.1.8-6.el9.x86_64" {
		t.Errorf("package list = %v", got)
	}
}

func TestPackagesCaptureDegrades(t *testing.T) {
	pm := &fakeManager{listErr: os.ErrPermission}
	rc := testRunContext(t, pm)

	res, err := packagesBackend{}.Capture(rc, t.TempDir())
	if err != nil {
		t.Fatalf("capture should degrade, got error: %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning")
	}
}

func TestReposRoundTrip(t *testing.T) {
	rc := testRunContext(t, &fakeManager{})
	snapDir := t.TempDir()

	writeFile(t, filepath.Join(rc.Sys.RepoDir, "rocky.repo"), "[baseos]\n")
	writeFile(t, filepath.Join(rc.Sys.RepoDir, "epel.repo"), "[epel]\n")

	res, err := reposBackend{}.Capture(rc, snapDir)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.Count != 2 {
		t.Errorf("captured %d files, want 2", res.Count)
	}

	// Simulate the conversion: originals gone, vendor repos in place.
	os.RemoveAll(rc.Sys.RepoDir)
	writeFile(t, filepath.Join(rc.Sys.RepoDir, "mls.repo"), "[mls-baseos]\n")

	res, err = reposBackend{}.Replay(rc, snapDir)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if res.Count != 2 {
		t.Errorf("restored %d files, want 2", res.Count)
	}

	if _, err := os.Stat(filepath.Join(rc.Sys.RepoDir, "mls.repo")); !os.IsNotExist(err) {
		t.Error("vendor repo file should have been removed")
	}
	if _, err := os.Stat(filepath.Join(rc.Sys.RepoDir, "rocky.repo")); err != nil {
		t.Error("original repo file not restored")
	}
}

func TestReposReplayDryRun(t *testing.T) {
	rc := testRunContext(t, &fakeManager{})
	rc.DryRun = true
	snapDir := t.TempDir()

	writeFile(t, filepath.Join(rc.Sys.RepoDir, "rocky.repo"), "[baseos]\n")
	if _, err := (reposBackend{}).Capture(rc, snapDir); err != nil {
		t.Fatal(err)
	}

	os.Remove(filepath.Join(rc.Sys.RepoDir, "rocky.repo"))
	writeFile(t, filepath.Join(rc.Sys.RepoDir, "mls.repo"), "[mls-baseos]\n")

	if _, err := (reposBackend{}).Replay(rc, snapDir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(rc.Sys.RepoDir, "mls.repo")); err != nil {
		t.Error("dry-run removed a vendor repo file")
	}
	if _, err := os.Stat(filepath.Join(rc.Sys.RepoDir, "rocky.repo")); err == nil {
		t.Error("dry-run restored a file")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	rc := testRunContext(t, &fakeManager{})
	snapDir := t.TempDir()

	writeFile(t, rc.Sys.PMConfigFiles[0], "[main]\ngpgcheck=1\n")
	writeFile(t, filepath.Join(rc.Sys.ProtectedDir, "dnf.conf"), "dnf\n")

	res, err := configBackend{}.Capture(rc, snapDir)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.Count != 2 {
		t.Errorf("captured %d items, want 2", res.Count)
	}

	writeFile(t, rc.Sys.PMConfigFiles[0], "[main]\ngpgcheck=0\n")

	if _, err := (configBackend{}).Replay(rc, snapDir); err != nil {
		t.Fatalf("replay: %v", err)
	}
	data, _ := os.ReadFile(rc.Sys.PMConfigFiles[0])
	if !strings.Contains(string(data), "gpgcheck=1") {
		t.Errorf("config not restored, got %q", data)
	}
}

func TestDeletedFilesRoundTrip(t *testing.T) {
	rc := testRunContext(t, &fakeManager{})
	snapDir := t.TempDir()

	writeFile(t, rc.Sys.DeletedPaths[0], "NAME=\"Rocky Linux\"\n")

	res, err := deletedFilesBackend{}.Capture(rc, snapDir)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.Count != 1 {
		t.Errorf("captured %d paths, want 1", res.Count)
	}

	manifest := readManifest(filepath.Join(snapDir, deletedFilesManifest))
	if len(manifest) != 1 || manifest[0] != rc.Sys.DeletedPaths[0] {
		t.Errorf("manifest = %v", manifest)
	}

	os.Remove(rc.Sys.DeletedPaths[0])

	res, err = deletedFilesBackend{}.Replay(rc, snapDir)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if res.Count != 1 {
		t.Errorf("restored %d paths, want 1", res.Count)
	}
	data, err := os.ReadFile(rc.Sys.DeletedPaths[0])
	if err != nil || !strings.Contains(string(data), "Rocky") {
		t.Errorf("path not restored: %v %q", err, data)
	}
}

func TestDeletedFilesEmptyManifestIsNotMissing(t *testing.T) {
	rc := testRunContext(t, &fakeManager{})
	snapDir := t.TempDir()

	// Nothing exists at capture time: payload absent, manifest present but
	// empty.
	if _, err := (deletedFilesBackend{}).Capture(rc, snapDir); err != nil {
		t.Fatal(err)
	}

	manifest := readManifest(filepath.Join(snapDir, deletedFilesManifest))
	if manifest == nil {
		t.Fatal("empty manifest should not read as missing")
	}
	if len(manifest) != 0 {
		t.Errorf("manifest = %v, want empty", manifest)
	}
}

func TestReleaseRPMsCaptureViaDownload(t *testing.T) {
	pm := &fakeManager{
		names:     []string{"bash", "rocky-release", "rocky-repos"},
		info:      "Name        : rocky-release",
		downloads: []string{"rocky-release-9.3-1.2.el9.noarch.rpm", "rocky-repos-9.3-1.2.el9.noarch.rpm"},
	}
	rc := testRunContext(t, pm)
	snapDir := t.TempDir()

	res, err := releaseRPMsBackend{}.Capture(rc, snapDir)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.Count != 2 {
		t.Errorf("count = %d, want 2, warnings: %v", res.Count, res.Warnings)
	}

	names := ReleaseNames(snapDir)
	if len(names) != 2 {
		t.Errorf("release names = %v", names)
	}
	if _, err := os.Stat(filepath.Join(snapDir, rpmsDir, checksumManifest)); err != nil {
		t.Error("checksum manifest not written")
	}
}

func TestReleaseRPMsCaptureRecoversFromCache(t *testing.T) {
	pm := &fakeManager{
		names:       []string{"rocky-release"},
		downloadErr: os.ErrDeadlineExceeded,
		urlErr:      os.ErrDeadlineExceeded,
	}
	rc := testRunContext(t, pm)
	snapDir := t.TempDir()

	cached := filepath.Join(rc.Sys.CacheDirs[0], "baseos", "packages", "rocky-release-9.3-1.2.el9.noarch.rpm")
	writeFile(t, cached, "cached payload")

	res, err := releaseRPMsBackend{}.Capture(rc, snapDir)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.Count != 1 {
		t.Errorf("count = %d, want 1, warnings: %v", res.Count, res.Warnings)
	}
	if _, err := os.Stat(filepath.Join(snapDir, rpmsDir, "rocky-release-9.3-1.2.el9.noarch.rpm")); err != nil {
		t.Error("cached payload not recovered")
	}
}

func TestReleaseRPMsCaptureWritesNamesEvenWhenAcquisitionFails(t *testing.T) {
	pm := &fakeManager{
		names:       []string{"rocky-release"},
		downloadErr: os.ErrDeadlineExceeded,
		urlErr:      os.ErrDeadlineExceeded,
	}
	rc := testRunContext(t, pm)
	snapDir := t.TempDir()

	res, err := releaseRPMsBackend{}.Capture(rc, snapDir)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if res.Count != 0 {
		t.Errorf("count = %d, want 0", res.Count)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected acquisition warnings")
	}
	if names := ReleaseNames(snapDir); len(names) != 1 || names[0] != "rocky-release" {
		t.Errorf("release names = %v, want [rocky-release]", names)
	}
}

func TestReleaseRPMsReplayPrefersPayloads(t *testing.T) {
	pm := &fakeManager{}
	rc := testRunContext(t, pm)
	snapDir := t.TempDir()

	writeFile(t, filepath.Join(snapDir, rpmsDir, "rocky-release-9.3-1.2.el9.noarch.rpm"), "payload")
	writeFile(t, filepath.Join(snapDir, releasePackagesList), "rocky-release\n")

	res, err := releaseRPMsBackend{}.Replay(rc, snapDir)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if res.Count != 1 || len(pm.installedFiles) != 1 {
		t.Errorf("count = %d, installed files = %v", res.Count, pm.installedFiles)
	}
	if len(pm.installedPkgs) != 0 {
		t.Errorf("repo install should not run when payloads exist, got %v", pm.installedPkgs)
	}
}

func TestReleaseRPMsReplayFallsBackToRepoInstall(t *testing.T) {
	pm := &fakeManager{}
	rc := testRunContext(t, pm)
	snapDir := t.TempDir()

	writeFile(t, filepath.Join(snapDir, releasePackagesList), "rocky-release\nrocky-repos\n")

	res, err := releaseRPMsBackend{}.Replay(rc, snapDir)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if res.Count != 2 || len(pm.installedPkgs) != 2 {
		t.Errorf("count = %d, installed = %v", res.Count, pm.installedPkgs)
	}
}

func TestReleaseFilesReplayIsAdvisory(t *testing.T) {
	rc := testRunContext(t, &fakeManager{})

	res, err := releaseFilesBackend{}.Replay(rc, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 0 || len(res.Warnings) != 1 {
		t.Errorf("res = %+v, want zero count and one advisory warning", res)
	}
}
