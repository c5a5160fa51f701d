// Package errors provides error handling conventions for the liberate CLI.
//
// This package defines sentinel errors for the backup/restore engine's
// failure conditions, an ExitError type for CLI exit code handling, and exit
// code constants following standard Unix conventions. It also re-exports the
// wrapping helpers of github.com/cockroachdb/errors so most packages need a
// single errors import.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, liberrors.ErrSnapshotNotFound) {
//	    // handle unknown snapshot id
//	}
//
// ErrLatestUndefined and ErrSnapshotNotFound are deliberately distinct:
// "latest" failing because no snapshot was ever created is a different user
// mistake than naming a snapshot id that does not exist.
//
// # Exit Codes
//
// The package defines standard exit codes for CLI applications:
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, network, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion for CLI applications. It supports error unwrapping via
// [Unwrap] and [As].
package errors
