package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Asker asks yes/no questions. The bootstrap state machine and the
// telemetry gate take an Asker rather than reading the terminal directly
// so tests can script the answers.
type Asker interface {
	// Ask presents the question and blocks until an answer arrives.
	// It returns true for yes.
	Ask(question string) (bool, error)
}

// Terminal is an Asker reading answers line by line from in and writing
// questions to out. Only one question is outstanding at a time; callers
// serialize their prompts.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal asker over the given streams,
// typically os.Stdin and os.Stderr.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints the question with a " (y/N): " suffix and reads one line.
// Anything other than an explicit yes counts as no, including EOF, so a
// closed stdin can never accidentally accept a recovery action.
func (t *Terminal) Ask(question string) (bool, error) {
	if _, err := fmt.Fprintf(t.out, "%s (y/N): ", question); err != nil {
		return false, err
	}

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
