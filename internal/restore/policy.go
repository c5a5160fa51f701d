package restore

import (
	"strings"

	"github.com/jniedergang/mls-liberate/internal/errors"
)

// Policy names one restore mode. Policies are mutually exclusive and chosen
// at invocation.
type Policy string

const (
	// PolicyFull replays everything the snapshot holds.
	PolicyFull Policy = "full"

	// PolicyMinimal skips repositories and package manager configuration but
	// still removes the target vendor's identity packages. The asymmetry is
	// the documented contract of this mode.
	PolicyMinimal Policy = "minimal"

	PolicyRepos   Policy = "repos"
	PolicyRelease Policy = "release"
	PolicyFiles   Policy = "files"
	PolicyConfig  Policy = "config"

	// PolicySelect prompts per action after a pre-flight inspection of the
	// snapshot.
	PolicySelect Policy = "select"
)

// AllPolicies returns every policy name, for flag help text.
func AllPolicies() []Policy {
	return []Policy{PolicyFull, PolicyMinimal, PolicyRepos, PolicyRelease, PolicyFiles, PolicyConfig, PolicySelect}
}

// ParsePolicy validates a policy string.
func ParsePolicy(s string) (Policy, error) {
	for _, p := range AllPolicies() {
		if string(p) == s {
			return p, nil
		}
	}
	names := make([]string, 0, len(AllPolicies()))
	for _, p := range AllPolicies() {
		names = append(names, string(p))
	}
	return "", errors.Newf("unknown restore mode %q (one of %s)", s, strings.Join(names, ", "))
}

// Actions is the set of restore steps a run performs. Execution order is
// fixed by the orchestrator regardless of which actions are active.
type Actions struct {
	RemoveVendorPackages bool
	Repos                bool
	Release              bool
	Config               bool
	DeletedFiles         bool
	ClearMarker          bool
}

// none reports whether no action is active.
func (a Actions) none() bool {
	return a == Actions{}
}

// actionsFor maps a non-interactive policy to its action set. The marker is
// cleared by any policy that restores the original release identity.
func actionsFor(p Policy) Actions {
	switch p {
	case PolicyFull:
		return Actions{
			RemoveVendorPackages: true,
			Repos:                true,
			Release:              true,
			Config:               true,
			DeletedFiles:         true,
			ClearMarker:          true,
		}
	case PolicyMinimal:
		return Actions{
			RemoveVendorPackages: true,
			Release:              true,
			DeletedFiles:         true,
			ClearMarker:          true,
		}
	case PolicyRepos:
		return Actions{Repos: true}
	case PolicyRelease:
		return Actions{Release: true, ClearMarker: true}
	case PolicyFiles:
		return Actions{DeletedFiles: true}
	case PolicyConfig:
		return Actions{Config: true}
	default:
		return Actions{}
	}
}
