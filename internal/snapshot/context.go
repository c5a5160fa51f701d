package snapshot

import (
	"log/slog"

	"github.com/jniedergang/mls-liberate/internal/cli/prompt"
	"github.com/jniedergang/mls-liberate/internal/distro"
	"github.com/jniedergang/mls-liberate/internal/pkgmgr"
	"github.com/jniedergang/mls-liberate/internal/system"
)

// SystemPaths names the live-system locations the element backends read from
// and write to. Tests point these at fixture trees.
type SystemPaths struct {
	// RepoDir holds the repository-definition files.
	RepoDir string

	// ReleaseFiles are the identity files captured by the release_files kind.
	ReleaseFiles []string

	// PMConfigFiles are the package manager's configuration files.
	PMConfigFiles []string

	// ProtectedDir is the protected-package declaration directory.
	ProtectedDir string

	// CacheDirs are scanned when recovering release packages from the
	// package manager's local cache.
	CacheDirs []string

	// DeletedPaths are the locations known to be removed or overwritten by
	// the conversion.
	DeletedPaths []string

	// OSReleaseLink is the os-release path whose symlink target is also
	// captured, since the conversion replaces the file it points at.
	OSReleaseLink string

	// MarkerFile is the liberated marker.
	MarkerFile string

	// OverlayRoot is where the manifest-less deleted-files fallback overlays
	// its payload. Always "/" in production.
	OverlayRoot string
}

// DefaultSystemPaths returns the production locations.
func DefaultSystemPaths() SystemPaths {
	return SystemPaths{
		RepoDir: "/etc/yum.repos.d",
		ReleaseFiles: []string{
			"/etc/os-release",
			"/etc/system-release",
			"/etc/system-release-cpe",
			"/etc/redhat-release",
			"/etc/issue",
		},
		PMConfigFiles: []string{
			"/etc/dnf/dnf.conf",
			"/etc/yum.conf",
		},
		ProtectedDir: "/etc/dnf/protected.d",
		CacheDirs: []string{
			"/var/cache/dnf",
			"/var/cache/yum",
		},
		DeletedPaths: []string{
			"/etc/dnf/protected.d",
			"/etc/os-release",
			"/etc/system-release",
			"/etc/system-release-cpe",
			"/etc/redhat-release",
			"/usr/share/redhat-release",
		},
		OSReleaseLink: "/etc/os-release",
		MarkerFile:    distro.TargetVendor().MarkerFile,
		OverlayRoot:   "/",
	}
}

// RunContext carries everything a backup or restore run needs: the resolved
// system identity, the package manager, the confirmation callback, the
// logger, and the dry-run flag. It replaces shared globals; components
// receive it explicitly and never mutate it.
type RunContext struct {
	Identity *system.Identity
	PM       pkgmgr.Manager
	Confirm  prompt.Confirmer
	Log      *slog.Logger
	DryRun   bool
	Sys      SystemPaths
}
