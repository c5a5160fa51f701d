package snapshot

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jniedergang/mls-liberate/internal/errors"
)

// Codec imports and exports snapshots as gzip-compressed tarballs. Archive
// entries are rooted under the snapshot id, so the id survives a round trip
// and a store on another host reconstructs the same directory.
type Codec struct {
	store  *Store
	prefix string
}

// NewCodec creates a Codec for the store. The prefix names exported archives:
// <prefix>-<id>.tar.gz.
func NewCodec(store *Store, prefix string) *Codec {
	return &Codec{store: store, prefix: prefix}
}

// ArchiveName returns the file name an export of id produces.
func (c *Codec) ArchiveName(id string) string {
	return c.prefix + "-" + id + ".tar.gz"
}

// Export writes the snapshot as a tarball into destDir and returns the
// archive path.
func (c *Codec) Export(id, destDir string) (string, error) {
	snapDir := c.store.Path(id)
	if _, err := os.Stat(snapDir); err != nil {
		return "", errors.Wrapf(errors.ErrSnapshotNotFound, "%s", id)
	}

	if destDir == "" {
		destDir = "."
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating destination directory")
	}

	outPath := filepath.Join(destDir, c.ArchiveName(id))
	f, err := os.Create(outPath)
	if err != nil {
		return "", errors.Wrap(err, "creating archive")
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	err = filepath.Walk(snapDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(c.store.Root(), path)
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return "", errors.Wrap(err, "writing archive")
	}

	if err := tw.Close(); err != nil {
		return "", errors.Wrap(err, "finalizing archive")
	}
	if err := gz.Close(); err != nil {
		return "", errors.Wrap(err, "finalizing archive")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "finalizing archive")
	}

	return outPath, nil
}

// Import unpacks an exported archive into the store, repoints latest at the
// imported snapshot, and returns its id. The id is re-derived from the
// archive's top-level directory, not the file name, so renamed archives
// import correctly. Importing over an existing snapshot is an error.
func (c *Codec) Import(archivePath string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(errors.ErrArchiveMissing, "%s", archivePath)
		}
		return "", errors.Wrap(err, "opening archive")
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", errors.Wrap(err, "reading archive")
	}
	defer gz.Close()

	if err := c.store.EnsureRoot(); err != nil {
		return "", err
	}

	var id string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(err, "reading archive")
		}

		name := filepath.Clean(filepath.FromSlash(hdr.Name))
		if name == "." || strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			return "", errors.Newf("archive entry escapes store: %s", hdr.Name)
		}

		top := name
		if i := strings.IndexByte(top, filepath.Separator); i >= 0 {
			top = top[:i]
		}
		if !ValidID(top) {
			return "", errors.Newf("archive entry outside a snapshot directory: %s", hdr.Name)
		}
		if id == "" {
			id = top
			if _, err := os.Stat(c.store.Path(id)); err == nil {
				return "", errors.Newf("snapshot %s already exists in store", id)
			}
		} else if top != id {
			return "", errors.Newf("archive contains more than one snapshot: %s and %s", id, top)
		}

		dest := filepath.Join(c.store.Root(), name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, os.FileMode(hdr.Mode)); err != nil {
				return "", errors.Wrap(err, "unpacking archive")
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return "", errors.Wrap(err, "unpacking archive")
			}
			if err := os.Symlink(hdr.Linkname, dest); err != nil {
				return "", errors.Wrap(err, "unpacking archive")
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return "", errors.Wrap(err, "unpacking archive")
			}
			out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return "", errors.Wrap(err, "unpacking archive")
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return "", errors.Wrap(err, "unpacking archive")
			}
			if err := out.Close(); err != nil {
				return "", errors.Wrap(err, "unpacking archive")
			}
		}
	}

	if id == "" {
		return "", errors.New("archive contains no snapshot")
	}
	if _, err := ReadMetadata(c.store.Path(id)); err != nil {
		return "", errors.Wrap(err, "imported snapshot has no readable descriptor")
	}

	if err := c.store.SetLatest(id); err != nil {
		return "", err
	}
	return id, nil
}
