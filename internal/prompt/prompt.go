// Package prompt asks the operator yes/no questions.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirmer answers a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Fixed answers every question with its own value.
type Fixed bool

func (f Fixed) Confirm(string) (bool, error) { return bool(f), nil }

// Terminal reads answers line by line from in. Anything other than y/yes
// (case-insensitive) is a no, including end of input.
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	echoIn bool
}

// NewTerminal returns a Terminal. When in is not a terminal the answer read
// is echoed to out so transcripts stay readable.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, echoIn: !isTerminalReader(in)}
}

func (t *Terminal) Confirm(question string) (bool, error) {
	_, _ = fmt.Fprintf(t.out, "%s [y/N]: ", strings.TrimSpace(question))
	line, err := t.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	reply := strings.TrimSpace(line)
	if t.echoIn {
		_, _ = fmt.Fprintln(t.out, reply)
	}
	switch strings.ToLower(reply) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func isTerminalReader(r io.Reader) bool {
	switch v := r.(type) {
	case *os.File:
		return term.IsTerminal(int(v.Fd()))
	default:
		return false
	}
}
