package fileutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jniedergang/mls-liberate/internal/errors"
)

// CopyFile copies a single file from src to dst, preserving the source file's
// permission bits. The parent directory of dst is created if needed.
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return errors.Wrap(err, "stat source file")
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(err, "creating parent directory")
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "creating destination file")
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, srcInfo.Mode()); err != nil {
		return errors.Wrap(err, "setting permissions")
	}

	return nil
}

// CopyTree recursively copies the directory tree rooted at src into dst,
// preserving file permission bits. Symlinks are copied as links.
// Returns the number of files (not directories) copied.
func CopyTree(src, dst string) (int, error) {
	count := 0

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Wrap(err, "computing relative path")
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return errors.Wrapf(err, "stat %s", path)
			}
			return os.MkdirAll(target, info.Mode().Perm())
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return errors.Wrapf(err, "reading symlink %s", path)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return errors.Wrap(err, "creating parent directory")
			}
			// Replace any existing entry so copies are idempotent.
			os.Remove(target)
			if err := os.Symlink(link, target); err != nil {
				return errors.Wrapf(err, "creating symlink %s", target)
			}
			count++
			return nil
		default:
			if err := CopyFile(path, target); err != nil {
				return err
			}
			count++
			return nil
		}
	})

	return count, err
}

// ResolveSymlink returns the target a symlink ultimately points at, made
// absolute relative to the link's directory. Non-symlink paths are returned
// unchanged.
func ResolveSymlink(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", errors.Wrapf(err, "lstat %s", path)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return path, nil
	}

	target, err := os.Readlink(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading symlink %s", path)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}
