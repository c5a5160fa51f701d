package prompt

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminal_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes word", "yes\n", true},
		{"uppercase", "Y\n", true},
		{"no", "n\n", false},
		{"empty defaults to no", "\n", false},
		{"garbage", "maybe\n", false},
		{"eof", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := NewTerminalWithIO(strings.NewReader(tt.input), &out)

			got := c.Confirm("Restore repositories?")
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "[y/N]") {
				t.Errorf("prompt missing default marker: %q", out.String())
			}
		})
	}
}

func TestTerminal_SequentialPrompts(t *testing.T) {
	// One confirmer must survive multiple questions on the same reader.
	c := NewTerminalWithIO(strings.NewReader("y\nn\ny\n"), &bytes.Buffer{})

	answers := []bool{
		c.Confirm("first"),
		c.Confirm("second"),
		c.Confirm("third"),
	}
	want := []bool{true, false, true}
	for i := range want {
		if answers[i] != want[i] {
			t.Errorf("answer %d = %v, want %v", i, answers[i], want[i])
		}
	}
}

func TestAutoYes(t *testing.T) {
	if !(AutoYes{}).Confirm("anything") {
		t.Error("AutoYes must confirm")
	}
}
