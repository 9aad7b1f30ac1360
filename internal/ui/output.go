package ui

import (
	"fmt"
	"io"
)

// Printer writes user-facing status lines. Logs never go here.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

func (p Printer) OK(msg string) {
	t := current
	fmt.Fprintln(p.Out, t.Success.Render(t.SymOK+" "+msg))
}

func (p Printer) Fail(msg string) {
	t := current
	fmt.Fprintln(p.Err, t.Error.Render(t.SymFail+" "+msg))
}

func (p Printer) Warn(msg string) {
	t := current
	fmt.Fprintln(p.Err, t.Warn.Render(t.SymWarn+" "+msg))
}

// Hint prints a muted follow-up line to stderr.
func (p Printer) Hint(msg string) {
	fmt.Fprintln(p.Err, current.Muted.Render(msg))
}

func (p Printer) Println(s string) { fmt.Fprintln(p.Out, s) }
