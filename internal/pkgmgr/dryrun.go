package pkgmgr

import "log/slog"

// DryRun wraps a Manager, delegating queries and logging mutations instead of
// executing them. Restore and migrate use it when --dry-run is set.
type DryRun struct {
	Wrapped Manager
	Log     *slog.Logger
}

var _ Manager = (*DryRun)(nil)

func (d *DryRun) ListInstalled() ([]string, error) { return d.Wrapped.ListInstalled() }
func (d *DryRun) ListNames() ([]string, error)     { return d.Wrapped.ListNames() }
func (d *DryRun) Info(names []string) (string, error) {
	return d.Wrapped.Info(names)
}
func (d *DryRun) IsInstalled(name string) bool { return d.Wrapped.IsInstalled(name) }

func (d *DryRun) Install(names []string) error {
	d.Log.Info("dry-run: would install packages", "packages", names)
	return nil
}

func (d *DryRun) InstallFiles(paths []string) error {
	d.Log.Info("dry-run: would install package files", "files", paths)
	return nil
}

func (d *DryRun) Remove(names []string) error {
	d.Log.Info("dry-run: would remove packages", "packages", names)
	return nil
}

func (d *DryRun) Download(names []string, destDir string) ([]string, error) {
	d.Log.Info("dry-run: would download packages", "packages", names, "destdir", destDir)
	return nil, nil
}

func (d *DryRun) ResolveURLs(names []string) ([]string, error) {
	return d.Wrapped.ResolveURLs(names)
}

func (d *DryRun) CleanCache() error {
	d.Log.Info("dry-run: would clean package manager cache")
	return nil
}
