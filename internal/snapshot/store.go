package snapshot

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/jniedergang/mls-liberate/internal/errors"
)

// idPattern matches snapshot ids: a second-resolution timestamp with an
// optional collision-disambiguating suffix.
var idPattern = regexp.MustCompile(`^\d{8}_\d{6}(_\d+)?$`)

// ValidID reports whether s is a well-formed snapshot id.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// Summary describes one snapshot for listings.
type Summary struct {
	ID             string
	Meta           *Metadata
	HasReleaseRPMs bool
}

// Store manages the on-disk collection of snapshots under a root directory
// and maintains the "latest" pointer.
type Store struct {
	root string
	log  *slog.Logger
}

// NewStore creates a Store over root. The logger is used for courtesy
// listings when resolution fails.
func NewStore(root string, log *slog.Logger) *Store {
	return &Store{root: root, log: log}
}

// Root returns the store root directory.
func (s *Store) Root() string { return s.root }

// Path returns the directory of a snapshot id.
func (s *Store) Path(id string) string { return filepath.Join(s.root, id) }

// EnsureRoot creates the store root if needed.
func (s *Store) EnsureRoot() error {
	return errors.Wrap(os.MkdirAll(s.root, 0o755), "creating store root")
}

// Resolve maps a name to a snapshot id. "latest" dereferences the latest
// pointer; any other string is treated as a literal snapshot id. The two
// failure modes are distinct: ErrLatestUndefined when no snapshot was ever
// created, ErrSnapshotNotFound for an unknown literal id. Both print the
// current listing as a courtesy before the error propagates.
func (s *Store) Resolve(name string) (string, error) {
	if name == "" || name == latestName {
		id, err := s.LatestID()
		if err != nil {
			s.courtesyListing()
			return "", err
		}
		return id, nil
	}

	if _, err := os.Stat(s.Path(name)); err != nil {
		s.courtesyListing()
		return "", errors.Wrapf(errors.ErrSnapshotNotFound, "%s", name)
	}
	return name, nil
}

// courtesyListing logs the snapshots that do exist, so the user's next
// attempt can name one of them.
func (s *Store) courtesyListing() {
	summaries, err := s.List()
	if err != nil || len(summaries) == 0 {
		s.log.Info("no snapshots available", "store", s.root)
		return
	}
	for _, sum := range summaries {
		s.log.Info("available snapshot", "id", sum.ID, "os", sum.Meta.OSName, "version", sum.Meta.OSVersion)
	}
}

// List returns all snapshots, newest first. Directories without a readable
// descriptor are skipped.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading store root")
	}

	var summaries []Summary
	for _, entry := range entries {
		if !entry.IsDir() || !ValidID(entry.Name()) {
			continue
		}

		meta, err := ReadMetadata(s.Path(entry.Name()))
		if err != nil {
			// Skip half-written or foreign directories.
			continue
		}

		summaries = append(summaries, Summary{
			ID:             entry.Name(),
			Meta:           meta,
			HasReleaseRPMs: len(RPMPaths(s.Path(entry.Name()))) > 0,
		})
	}

	// Ids are sortable timestamps; newest first.
	slices.SortFunc(summaries, func(a, b Summary) int {
		return strings.Compare(b.ID, a.ID)
	})

	return summaries, nil
}

// LatestID dereferences the latest pointer.
func (s *Store) LatestID() (string, error) {
	target, err := os.Readlink(filepath.Join(s.root, latestName))
	if err != nil {
		return "", errors.ErrLatestUndefined
	}

	id := filepath.Base(target)
	if _, err := os.Stat(s.Path(id)); err != nil {
		return "", errors.Wrapf(errors.ErrLatestUndefined, "dangling pointer to %s", id)
	}
	return id, nil
}

// SetLatest points the latest pointer at the given snapshot.
func (s *Store) SetLatest(id string) error {
	link := filepath.Join(s.root, latestName)
	os.Remove(link)
	// Relative target keeps the store relocatable.
	return errors.Wrap(os.Symlink(id, link), "updating latest pointer")
}

// Delete removes a snapshot directory. Deleting the latest pointer's target
// also removes the pointer.
func (s *Store) Delete(id string) error {
	if latest, err := s.LatestID(); err == nil && latest == id {
		os.Remove(filepath.Join(s.root, latestName))
	}
	return errors.Wrapf(os.RemoveAll(s.Path(id)), "removing snapshot %s", id)
}

// Prune deletes the oldest snapshots beyond the retention count and returns
// the removed ids. The latest pointer's target is only removed when it is
// itself beyond the retention window.
func (s *Store) Prune(keep int) ([]string, error) {
	if keep < 0 {
		return nil, errors.New("keep must be non-negative")
	}

	summaries, err := s.List()
	if err != nil {
		return nil, err
	}

	var removed []string
	// Already sorted newest first; everything past keep goes.
	for i := keep; i < len(summaries); i++ {
		if err := s.Delete(summaries[i].ID); err != nil {
			return removed, err
		}
		removed = append(removed, summaries[i].ID)
	}

	return removed, nil
}
