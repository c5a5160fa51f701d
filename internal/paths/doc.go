// Package paths centralizes filesystem locations for the liberate CLI.
//
// The snapshot store lives under /var/lib/liberate/backups when running as
// root, matching where the tool operates in production. Unprivileged runs
// (tests, dry runs) fall back to the XDG state directory. Configuration is
// searched in the XDG config home first, then /etc/liberate.
package paths
