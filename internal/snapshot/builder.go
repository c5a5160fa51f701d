package snapshot

import (
	"fmt"
	"os"
	"time"

	"github.com/jniedergang/mls-liberate/internal/errors"
)

// Version is set at build time via ldflags and recorded in each descriptor.
var Version = "dev"

// Inclusion selects which element kinds a snapshot captures.
type Inclusion map[Kind]bool

// IncludeAll returns an Inclusion covering every element kind.
func IncludeAll() Inclusion {
	inc := make(Inclusion, len(AllKinds()))
	for _, k := range AllKinds() {
		inc[k] = true
	}
	return inc
}

// BuildReport summarizes a snapshot build.
type BuildReport struct {
	ID       string
	Dir      string
	Meta     *Metadata
	Counts   map[Kind]int
	Warnings []string
}

// Builder creates snapshots in a Store.
type Builder struct {
	store    *Store
	backends map[Kind]Backend
}

// NewBuilder creates a Builder over the given store.
func NewBuilder(store *Store) *Builder {
	return &Builder{store: store, backends: Backends()}
}

// Build captures the included element kinds into a fresh snapshot directory,
// writes the descriptor, and repoints latest. A backend that fails degrades
// to a warning and its kind is left out of the descriptor; the only fatal
// errors are directory creation and descriptor writing.
func (b *Builder) Build(rc *RunContext, include Inclusion) (*BuildReport, error) {
	if err := b.store.EnsureRoot(); err != nil {
		return nil, err
	}

	id, dir, err := b.createDir()
	if err != nil {
		return nil, err
	}

	report := &BuildReport{ID: id, Dir: dir, Counts: make(map[Kind]int)}

	var captured []Kind
	for _, kind := range AllKinds() {
		if !include[kind] {
			continue
		}

		backend := b.backends[kind]
		rc.Log.Debug("capturing element", "kind", kind)

		res, err := backend.Capture(rc, dir)
		if err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s: capture failed: %v", kind, err))
			rc.Log.Warn("element capture failed", "kind", kind, "error", err)
			continue
		}

		report.Counts[kind] = res.Count
		report.Warnings = append(report.Warnings, res.Warnings...)
		captured = append(captured, kind)
	}

	meta := NewMetadata(id, rc.Identity, Version, captured)
	meta.PackageCount = report.Counts[KindPackages]
	meta.ReleaseRPMCount = report.Counts[KindReleaseRPMs]
	if err := WriteMetadata(dir, meta); err != nil {
		return nil, err
	}
	report.Meta = meta

	if err := b.store.SetLatest(id); err != nil {
		return nil, err
	}

	return report, nil
}

// createDir allocates a timestamped snapshot directory. Two builds inside the
// same second disambiguate with a numeric suffix.
func (b *Builder) createDir() (string, string, error) {
	base := time.Now().Format("20060102_150405")

	id := base
	for n := 2; ; n++ {
		dir := b.store.Path(id)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", errors.Wrap(err, "creating snapshot directory")
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}
