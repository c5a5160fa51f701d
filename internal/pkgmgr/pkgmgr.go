// Package pkgmgr wraps the host's rpm/dnf package manager behind a small
// capability interface. The engine only decides what to run and in what
// order; dependency resolution stays inside dnf.
package pkgmgr

// Manager is the package-manager capability consumed by the backup/restore
// engine. Implementations must fold command output into returned errors so
// failures are diagnosable from the warning log alone.
type Manager interface {
	// ListInstalled returns one name-version-release-arch identifier per
	// installed package, sorted.
	ListInstalled() ([]string, error)

	// ListNames returns the bare names of all installed packages, sorted.
	ListNames() ([]string, error)

	// Info returns verbose per-package information for the named packages.
	Info(names []string) (string, error)

	// IsInstalled reports whether a package is installed.
	IsInstalled(name string) bool

	// Install installs packages from the currently enabled repositories.
	Install(names []string) error

	// InstallFiles installs local package files with conflict-tolerant flags
	// (forced, dependency-unchecked) so original release packages can coexist
	// transiently with the target vendor's.
	InstallFiles(paths []string) error

	// Remove removes packages without touching their dependents.
	Remove(names []string) error

	// Download fetches packages into destDir via the package manager's
	// download facility, returning the paths of the downloaded files.
	Download(names []string, destDir string) ([]string, error)

	// ResolveURLs resolves direct download URLs for the named packages.
	ResolveURLs(names []string) ([]string, error)

	// CleanCache drops the package manager's metadata and package caches.
	CleanCache() error
}
