package pkgmgr

import (
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jniedergang/mls-liberate/internal/errors"
)

// DNF is the exec-backed Manager for rpm/dnf hosts.
type DNF struct{}

var _ Manager = (*DNF)(nil)

// NewDNF returns the real package manager.
func NewDNF() *DNF {
	return &DNF{}
}

// ListInstalled returns sorted name-version-release-arch identifiers.
func (d *DNF) ListInstalled() ([]string, error) {
	out, err := run("rpm", "-qa", "--qf", "%{NAME}-%{VERSION}-%{RELEASE}.%{ARCH}\n")
	if err != nil {
		return nil, err
	}
	lines := splitLines(out)
	sort.Strings(lines)
	return lines, nil
}

// ListNames returns sorted bare package names.
func (d *DNF) ListNames() ([]string, error) {
	out, err := run("rpm", "-qa", "--qf", "%{NAME}\n")
	if err != nil {
		return nil, err
	}
	lines := splitLines(out)
	sort.Strings(lines)
	return lines, nil
}

// Info returns rpm -qi output for the named packages.
func (d *DNF) Info(names []string) (string, error) {
	if len(names) == 0 {
		return "", nil
	}
	return run("rpm", append([]string{"-qi"}, names...)...)
}

// IsInstalled reports whether rpm knows the package.
func (d *DNF) IsInstalled(name string) bool {
	err := exec.Command("rpm", "-q", name).Run()
	return err == nil
}

// Install installs packages from the enabled repositories.
func (d *DNF) Install(names []string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := run("dnf", append([]string{"install", "-y"}, names...)...)
	return err
}

// InstallFiles installs local rpm files forced and dependency-unchecked.
func (d *DNF) InstallFiles(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := run("rpm", append([]string{"-Uvh", "--force", "--nodeps"}, paths...)...)
	return err
}

// Remove removes packages without dependency checking.
func (d *DNF) Remove(names []string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := run("rpm", append([]string{"-e", "--nodeps"}, names...)...)
	return err
}

// Download fetches packages into destDir and returns the downloaded files.
func (d *DNF) Download(names []string, destDir string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	args := append([]string{"download", "--destdir", destDir}, names...)
	if _, err := run("dnf", args...); err != nil {
		return nil, err
	}

	files, err := filepath.Glob(filepath.Join(destDir, "*.rpm"))
	if err != nil {
		return nil, errors.Wrap(err, "globbing downloaded packages")
	}
	sort.Strings(files)
	return files, nil
}

// ResolveURLs resolves direct download URLs for the named packages.
func (d *DNF) ResolveURLs(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out, err := run("dnf", append([]string{"download", "--url"}, names...)...)
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, line := range splitLines(out) {
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			urls = append(urls, line)
		}
	}
	return urls, nil
}

// CleanCache drops dnf's metadata and package caches.
func (d *DNF) CleanCache() error {
	_, err := run("dnf", "clean", "all")
	return err
}

// run executes a command, folding combined output into any error.
func run(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, "%s %s failed (output: %s)",
			name, strings.Join(args, " "), strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
