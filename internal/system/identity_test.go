package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jniedergang/mls-liberate/internal/errors"
)

func writeFixture(t *testing.T, osRelease string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "etc"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "etc/os-release"), []byte(osRelease), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestResolveFrom(t *testing.T) {
	root := writeFixture(t, `NAME="Rocky Linux"
VERSION="9.3 (Blue Onyx)"
ID="rocky"
VERSION_ID="9.3"
`)

	id, err := ResolveFrom(root)
	if err != nil {
		t.Fatalf("ResolveFrom() error: %v", err)
	}

	if id.ID != "rocky" {
		t.Errorf("ID = %q", id.ID)
	}
	if id.Name != "Rocky Linux" {
		t.Errorf("Name = %q", id.Name)
	}
	if id.Version != "9.3" {
		t.Errorf("Version = %q", id.Version)
	}
	if id.VersionMajor != 9 {
		t.Errorf("VersionMajor = %d", id.VersionMajor)
	}
}

func TestResolveFrom_NoID(t *testing.T) {
	root := writeFixture(t, "NAME=Something\n")

	if _, err := ResolveFrom(root); err == nil {
		t.Error("expected error for os-release without ID")
	}
}

func TestResolveFrom_Missing(t *testing.T) {
	if _, err := ResolveFrom(t.TempDir()); err == nil {
		t.Error("expected error for missing os-release")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      *Identity
		wantErr bool
	}{
		{"supported", &Identity{ID: "rocky", VersionMajor: 9}, false},
		{"unsupported version", &Identity{ID: "rocky", VersionMajor: 7}, true},
		{"unknown distro", &Identity{ID: "gentoo", VersionMajor: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.wantErr {
				if !errors.Is(err, errors.ErrUnsupportedDistro) {
					t.Errorf("expected ErrUnsupportedDistro, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseOSRelease_Quoting(t *testing.T) {
	fields := parseOSRelease([]byte(`# comment
ID=rocky
NAME='Rocky Linux'
PRETTY_NAME="Rocky Linux 9.3 (Blue Onyx)"

BROKEN
`))

	if fields["ID"] != "rocky" {
		t.Errorf("ID = %q", fields["ID"])
	}
	if fields["NAME"] != "Rocky Linux" {
		t.Errorf("NAME = %q", fields["NAME"])
	}
	if fields["PRETTY_NAME"] != "Rocky Linux 9.3 (Blue Onyx)" {
		t.Errorf("PRETTY_NAME = %q", fields["PRETTY_NAME"])
	}
	if _, ok := fields["BROKEN"]; ok {
		t.Error("lines without = must be skipped")
	}
}
