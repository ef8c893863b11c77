// Package console prints the operator-facing "===>" messages.
package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const arrow = "===> "

// Console writes progress to out and fatal diagnostics to errOut.
type Console struct {
	out    io.Writer
	errOut io.Writer
	step   *color.Color
	warn   *color.Color
	fail   *color.Color
}

// New returns a Console. Colour is also disabled when the color package
// detects a non-terminal stdout.
func New(out, errOut io.Writer, noColor bool) *Console {
	c := &Console{
		out:    out,
		errOut: errOut,
		step:   color.New(color.FgCyan, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		fail:   color.New(color.FgRed, color.Bold),
	}
	if noColor {
		c.step.DisableColor()
		c.warn.DisableColor()
		c.fail.DisableColor()
	}
	return c
}

// Out is the stream command output is copied to.
func (c *Console) Out() io.Writer { return c.out }

func (c *Console) Step(format string, args ...any) {
	_, _ = c.step.Fprint(c.out, arrow)
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) Warn(format string, args ...any) {
	_, _ = c.warn.Fprint(c.out, arrow)
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}

// Error prints "===> Error: ..." on the error stream.
func (c *Console) Error(format string, args ...any) {
	_, _ = c.fail.Fprint(c.errOut, arrow+"Error: ")
	_, _ = fmt.Fprintf(c.errOut, format+"\n", args...)
}

// Line writes s followed by a newline without decoration.
func (c *Console) Line(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}
