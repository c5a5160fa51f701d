package errors

import (
	stderrors "errors"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(New("disk full"), ExitSystem),
			want: "disk full",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	underlying := ErrSnapshotNotFound
	err := NewUserError(underlying, "run: liberate backup list")

	if !stderrors.Is(err, ErrSnapshotNotFound) {
		t.Error("errors.Is should find the wrapped sentinel")
	}

	var exitErr *ExitError
	if !stderrors.As(err, &exitErr) {
		t.Fatal("errors.As should find ExitError")
	}
	if exitErr.Code != ExitUser {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitUser)
	}
	if exitErr.Suggestion == "" {
		t.Error("expected a suggestion")
	}
}

func TestSentinelsDistinct(t *testing.T) {
	if stderrors.Is(ErrLatestUndefined, ErrSnapshotNotFound) {
		t.Error("ErrLatestUndefined must not match ErrSnapshotNotFound")
	}
	if stderrors.Is(Wrap(ErrLatestUndefined, "resolving"), ErrSnapshotNotFound) {
		t.Error("wrapped ErrLatestUndefined must not match ErrSnapshotNotFound")
	}
	if !stderrors.Is(Wrap(ErrLatestUndefined, "resolving"), ErrLatestUndefined) {
		t.Error("wrapping must preserve the sentinel")
	}
}
