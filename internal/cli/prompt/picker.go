package prompt

import (
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/jniedergang/mls-liberate/internal/errors"
)

// ErrPickCancelled indicates the user aborted the interactive picker.
var ErrPickCancelled = errors.New("selection cancelled")

// Pick presents a fuzzy finder over items and returns the chosen index.
// preview renders the detail pane for an index; it may be nil.
// Returns ErrPickCancelled when the user aborts.
func Pick(items []string, preview func(i int) string) (int, error) {
	if len(items) == 0 {
		return 0, errors.New("nothing to select from")
	}
	if len(items) == 1 {
		return 0, nil
	}

	opts := []fuzzyfinder.Option{}
	if preview != nil {
		opts = append(opts, fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return preview(i)
		}))
	}

	idx, err := fuzzyfinder.Find(
		items,
		func(i int) string { return items[i] },
		opts...,
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return 0, ErrPickCancelled
		}
		return 0, errors.Wrap(err, "interactive selection failed")
	}

	return idx, nil
}
