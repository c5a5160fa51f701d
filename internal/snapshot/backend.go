package snapshot

// Result reports what one backend operation did.
type Result struct {
	// Count is the number of items captured or replayed.
	Count int

	// Warnings are the non-fatal failures encountered along the way.
	Warnings []string
}

// warnf appends a formatted warning to the result.
func (r *Result) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Backend captures one element kind from the live system into a snapshot
// directory, and replays it back. Side effects are confined to the locations
// named by the run context's SystemPaths and to the package manager.
//
// Capture must degrade: a missing source or a failed download is a warning
// in the Result, not an error. Errors are reserved for the inability to
// write into the snapshot directory itself.
type Backend interface {
	Kind() Kind
	Capture(rc *RunContext, snapDir string) (Result, error)
	Replay(rc *RunContext, snapDir string) (Result, error)
}

// Backends returns the strategy map from element kind to backend.
func Backends() map[Kind]Backend {
	return map[Kind]Backend{
		KindPackages:     packagesBackend{},
		KindRepos:        reposBackend{},
		KindReleaseFiles: releaseFilesBackend{},
		KindConfig:       configBackend{},
		KindReleaseRPMs:  releaseRPMsBackend{},
		KindDeletedFiles: deletedFilesBackend{},
	}
}
