// Package system resolves the host's identity: distribution, version,
// hostname, and kernel. The identity is resolved once per run and treated as
// immutable afterwards.
package system

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jniedergang/mls-liberate/internal/distro"
	"github.com/jniedergang/mls-liberate/internal/errors"
)

// Identity describes the running system.
type Identity struct {
	// ID is the distribution id from os-release (rocky, almalinux, ...).
	ID string

	// Name is the human-readable distribution name.
	Name string

	// Version is the full VERSION_ID string (e.g. "9.3").
	Version string

	// VersionMajor is the leading integer of Version.
	VersionMajor int

	// Hostname is the host's name.
	Hostname string

	// Kernel is the running kernel release string.
	Kernel string
}

// Resolve reads the identity of the live system.
func Resolve() (*Identity, error) {
	return ResolveFrom("/")
}

// ResolveFrom reads identity files relative to root.
// Tests point root at a fixture tree.
func ResolveFrom(root string) (*Identity, error) {
	data, err := os.ReadFile(filepath.Join(root, "etc/os-release"))
	if err != nil {
		return nil, errors.Wrap(err, "reading os-release")
	}

	fields := parseOSRelease(data)
	id := &Identity{
		ID:      fields["ID"],
		Name:    fields["NAME"],
		Version: fields["VERSION_ID"],
	}
	if id.ID == "" {
		return nil, errors.New("os-release has no ID field")
	}

	if major, _, ok := strings.Cut(id.Version, "."); ok || id.Version != "" {
		if n, err := strconv.Atoi(major); err == nil {
			id.VersionMajor = n
		}
	}

	if hostname, err := os.Hostname(); err == nil {
		id.Hostname = hostname
	}

	if kernel, err := os.ReadFile(filepath.Join(root, "proc/sys/kernel/osrelease")); err == nil {
		id.Kernel = strings.TrimSpace(string(kernel))
	}

	return id, nil
}

// Validate checks that the identity names a distribution and version the
// migration tables cover.
func (id *Identity) Validate() error {
	if !distro.Supported(id.ID, id.VersionMajor) {
		return errors.Wrapf(errors.ErrUnsupportedDistro, "%s %s", id.ID, id.Version)
	}
	return nil
}

// String returns "Name Version" for user-facing confirmation text.
func (id *Identity) String() string {
	if id.Name == "" {
		return id.ID + " " + id.Version
	}
	return id.Name + " " + id.Version
}

// parseOSRelease parses the KEY=value lines of an os-release file.
// Values may be quoted; comments and blank lines are skipped.
func parseOSRelease(data []byte) map[string]string {
	fields := make(map[string]string)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		value = strings.TrimSpace(value)
		if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
			value = value[1 : len(value)-1]
		}
		fields[strings.TrimSpace(key)] = value
	}

	return fields
}
