// Package distro holds the static migration tables: which source
// distributions are supported, which packages carry their identity, and the
// facts about the MLS target vendor. The tables are data, not control flow;
// backends and the restore orchestrator consume them through lookups.
package distro

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed distros.toml
var tableTOML []byte

// Target describes the distribution hosts are converted to.
type Target struct {
	ID              string   `toml:"id"`
	Name            string   `toml:"name"`
	ReleasePackages []string `toml:"release_packages"`

	// RepoPrefix matches the vendor's repository-definition files
	// (<prefix>*.repo) under the repo directory.
	RepoPrefix string `toml:"repo_prefix"`

	// MarkerFile is the liberated marker recording a completed conversion.
	MarkerFile string `toml:"marker_file"`
}

// Distro describes one supported source distribution.
type Distro struct {
	ID              string   `toml:"id"`
	Name            string   `toml:"name"`
	Versions        []int    `toml:"versions"`
	ReleasePackages []string `toml:"release_packages"`
}

type table struct {
	Target  Target   `toml:"target"`
	Distros []Distro `toml:"distros"`
}

var loaded table

func init() {
	if err := toml.Unmarshal(tableTOML, &loaded); err != nil {
		panic(fmt.Sprintf("distro: parsing embedded table: %v", err))
	}
}

// TargetVendor returns the MLS target vendor facts.
func TargetVendor() Target {
	return loaded.Target
}

// Lookup returns the table entry for a distribution id.
func Lookup(id string) (Distro, bool) {
	for _, d := range loaded.Distros {
		if d.ID == id {
			return d, true
		}
	}
	return Distro{}, false
}

// Supported reports whether the distribution id and major version are
// covered by the migration tables.
func Supported(id string, major int) bool {
	d, ok := Lookup(id)
	if !ok {
		return false
	}
	for _, v := range d.Versions {
		if v == major {
			return true
		}
	}
	return false
}

// ReleasePackages returns the known release/branding package names for a
// distribution id, or nil when the distribution is unknown.
func ReleasePackages(id string) []string {
	d, ok := Lookup(id)
	if !ok {
		return nil
	}
	return d.ReleasePackages
}

// IsReleasePackageName reports whether an installed package name looks like a
// distribution release package (name-release or name-release-variant).
// The target vendor's own packages never match; during capture they must not
// be mistaken for the source distribution's identity.
func IsReleasePackageName(name string) bool {
	if strings.HasPrefix(name, loaded.Target.ID+"-") {
		return false
	}
	if strings.HasSuffix(name, "-release") {
		return true
	}
	return strings.Contains(name, "-release-")
}

// VendorRepoFile reports whether a repository-definition filename belongs to
// the target vendor.
func VendorRepoFile(name string) bool {
	return strings.HasPrefix(name, loaded.Target.RepoPrefix) && strings.HasSuffix(name, ".repo")
}
