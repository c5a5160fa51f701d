package snapshot

import (
	"path/filepath"
	"sort"

	"github.com/jniedergang/mls-liberate/internal/errors"
)

// Kind identifies one capturable element category.
type Kind string

// The closed set of element kinds.
const (
	KindPackages     Kind = "packages"
	KindRepos        Kind = "repos"
	KindReleaseFiles Kind = "release_files"
	KindConfig       Kind = "config"
	KindReleaseRPMs  Kind = "release_rpms"
	KindDeletedFiles Kind = "deleted_files"
)

// AllKinds returns every kind in capture order.
func AllKinds() []Kind {
	return []Kind{
		KindPackages,
		KindRepos,
		KindReleaseFiles,
		KindConfig,
		KindReleaseRPMs,
		KindDeletedFiles,
	}
}

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.Newf("unknown element kind %q", s)
}

// Description returns the user-facing name of the kind, used in interactive
// prompts and summaries.
func (k Kind) Description() string {
	switch k {
	case KindPackages:
		return "installed package list"
	case KindRepos:
		return "repository definitions"
	case KindReleaseFiles:
		return "release identity files"
	case KindConfig:
		return "package manager configuration"
	case KindReleaseRPMs:
		return "release package payloads"
	case KindDeletedFiles:
		return "files removed by migration"
	default:
		return string(k)
	}
}

// PayloadDir returns the directory a kind's payload lives in, inside a
// snapshot directory. Kinds stored as single manifest files return "".
func PayloadDir(snapDir string, k Kind) string {
	switch k {
	case KindRepos:
		return filepath.Join(snapDir, reposDir)
	case KindReleaseFiles:
		return filepath.Join(snapDir, releaseFilesDir)
	case KindConfig:
		return filepath.Join(snapDir, pmConfigDir)
	case KindReleaseRPMs:
		return filepath.Join(snapDir, rpmsDir)
	case KindDeletedFiles:
		return filepath.Join(snapDir, deletedFilesDir)
	default:
		return ""
	}
}

// RPMPaths returns the captured release package payloads, sorted.
func RPMPaths(snapDir string) []string {
	files, _ := filepath.Glob(filepath.Join(snapDir, rpmsDir, "*.rpm"))
	sort.Strings(files)
	return files
}

// On-disk layout inside a snapshot directory.
const (
	reposDir             = "repos"
	releaseFilesDir      = "release-files"
	pmConfigDir          = "dnf-yum-config"
	rpmsDir              = "rpms"
	deletedFilesDir      = "deleted-files"
	packagesList         = "packages.list"
	releasePackagesList  = "release-packages.list"
	releasePackagesInfo  = "release-packages-info.txt"
	deletedFilesManifest = "deleted-files.manifest"
	metadataFile         = "metadata.json"
	checksumManifest     = "checksums.sha256"

	// latestName is the store-root-level pointer to the newest snapshot.
	latestName = "latest"
)
