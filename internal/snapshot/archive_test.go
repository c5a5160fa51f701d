package snapshot

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jniedergang/mls-liberate/internal/errors"
	"github.com/jniedergang/mls-liberate/internal/logging"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := testStore(t)
	seedSnapshot(t, src, "20260101_120000")
	writeFile(t, filepath.Join(src.Path("20260101_120000"), packagesList), "bash-5.1.8-6.el9.x86_64\n")
	writeFile(t, filepath.Join(src.Path("20260101_120000"), rpmsDir, "rocky-release-9.3-1.2.el9.noarch.rpm"), "payload")

	codec := NewCodec(src, "liberate-backup")
	archive, err := codec.Export("20260101_120000", t.TempDir())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(archive) != "liberate-backup-20260101_120000.tar.gz" {
		t.Errorf("archive name = %s", filepath.Base(archive))
	}

	dst := testStore(t)
	id, err := NewCodec(dst, "liberate-backup").Import(archive)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if id != "20260101_120000" {
		t.Errorf("imported id = %s", id)
	}

	// The descriptor survives the round trip byte for byte.
	orig, _ := os.ReadFile(filepath.Join(src.Path(id), metadataFile))
	got, _ := os.ReadFile(filepath.Join(dst.Path(id), metadataFile))
	if !bytes.Equal(orig, got) {
		t.Error("descriptor changed across export/import")
	}

	if _, err := os.Stat(filepath.Join(dst.Path(id), rpmsDir, "rocky-release-9.3-1.2.el9.noarch.rpm")); err != nil {
		t.Error("payload missing after import")
	}
	if latest, err := dst.LatestID(); err != nil || latest != id {
		t.Errorf("latest = %s, %v; import should repoint it", latest, err)
	}
}

func TestImportRenamedArchiveKeepsID(t *testing.T) {
	src := testStore(t)
	seedSnapshot(t, src, "20260101_120000")

	archive, err := NewCodec(src, "liberate-backup").Export("20260101_120000", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	renamed := filepath.Join(filepath.Dir(archive), "whatever.tar.gz")
	if err := os.Rename(archive, renamed); err != nil {
		t.Fatal(err)
	}

	dst := testStore(t)
	id, err := NewCodec(dst, "liberate-backup").Import(renamed)
	if err != nil {
		t.Fatal(err)
	}
	if id != "20260101_120000" {
		t.Errorf("id = %s, should come from archive contents, not the file name", id)
	}
}

func TestImportMissingArchive(t *testing.T) {
	dst := testStore(t)
	_, err := NewCodec(dst, "liberate-backup").Import(filepath.Join(t.TempDir(), "nope.tar.gz"))
	if !errors.Is(err, errors.ErrArchiveMissing) {
		t.Errorf("err = %v, want ErrArchiveMissing", err)
	}
}

func TestImportRejectsExistingSnapshot(t *testing.T) {
	src := testStore(t)
	seedSnapshot(t, src, "20260101_120000")
	archive, err := NewCodec(src, "liberate-backup").Export("20260101_120000", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// Importing back into the same store must not clobber the original.
	if _, err := NewCodec(src, "liberate-backup").Import(archive); err == nil {
		t.Fatal("import over an existing snapshot should fail")
	}
}

func TestImportRejectsTraversal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evil.tar.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	body := []byte("owned")
	tw.WriteHeader(&tar.Header{Name: "../../etc/passwd", Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg})
	tw.Write(body)
	tw.Close()
	gz.Close()
	f.Close()

	dst := NewStore(t.TempDir(), logging.NewDiscard())
	_, err = NewCodec(dst, "liberate-backup").Import(path)
	if err == nil || !strings.Contains(err.Error(), "escapes") {
		t.Errorf("err = %v, want traversal rejection", err)
	}
}

func TestExportUnknownSnapshot(t *testing.T) {
	src := testStore(t)
	_, err := NewCodec(src, "liberate-backup").Export("20990101_000000", t.TempDir())
	if !errors.Is(err, errors.ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}
