package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is used for config and state directory naming.
const AppName = "liberate"

// SystemStoreRoot is the snapshot store root used when running as root.
const SystemStoreRoot = "/var/lib/liberate/backups"

// SystemConfigDir is the machine-wide configuration directory.
const SystemConfigDir = "/etc/liberate"

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// StoreRoot returns the default snapshot store root.
// Root gets the system location under /var/lib; other users fall back to the
// XDG state directory so dry runs and tests work without privileges.
func StoreRoot() string {
	if os.Geteuid() == 0 {
		return SystemStoreRoot
	}
	return filepath.Join(xdg.StateHome, AppName, "backups")
}

// ConfigHome returns the user configuration directory for liberate.
func ConfigHome() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ConfigSearchPaths returns the directories searched for a config file,
// in order of precedence.
func ConfigSearchPaths() []string {
	return []string{
		ConfigHome(),
		SystemConfigDir,
	}
}

// EnsureDir creates the directory and any necessary parents with specified
// permissions. If perm is 0, DefaultDirPerm is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}
