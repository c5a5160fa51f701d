// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jniedergang/mls-liberate/internal/errors"
)

// Confirmer answers yes/no prompts. The restore orchestrator and snapshot
// builder take one so interactive and non-interactive runs share a code path.
type Confirmer interface {
	// Confirm asks the question and reports the answer. Implementations must
	// treat EOF as "no".
	Confirm(question string) bool
}

// AutoYes answers every prompt affirmatively. Used outside interactive mode.
type AutoYes struct{}

// Confirm always returns true.
func (AutoYes) Confirm(string) bool { return true }

// Terminal prompts on a reader/writer pair, default answer no.
type Terminal struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewTerminal creates a Terminal confirmer using stdin and stdout.
func NewTerminal() *Terminal {
	return NewTerminalWithIO(os.Stdin, os.Stdout)
}

// NewTerminalWithIO creates a Terminal with custom reader and writer for testing.
func NewTerminalWithIO(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Confirm asks question followed by "[y/N]" and parses the reply.
// Empty input, EOF, and anything other than y/yes answer no.
func (t *Terminal) Confirm(question string) bool {
	fmt.Fprintf(t.writer, "%s [y/N]: ", question)

	input, err := t.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
