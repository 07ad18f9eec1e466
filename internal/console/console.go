package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Logger receives diagnostics from the pipeline
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Console writes progress to Out and diagnostics to Err
type Console struct {
	Out io.Writer
	Err io.Writer

	label *color.Color
	warn  *color.Color
	fail  *color.Color
	ok    *color.Color
}

// New returns a console on stdout/stderr. Colors are enabled only when
// stderr is a terminal.
func New() *Console {
	return NewWriter(os.Stdout, os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

// NewWriter returns a console on the given writers
func NewWriter(out, err io.Writer, colors bool) *Console {
	c := &Console{
		Out:   out,
		Err:   err,
		label: color.New(color.FgCyan),
		warn:  color.New(color.FgYellow),
		fail:  color.New(color.FgRed),
		ok:    color.New(color.FgGreen),
	}
	for _, col := range []*color.Color{c.label, c.warn, c.fail, c.ok} {
		if colors {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) Infof(format string, args ...any) {
	fmt.Fprintf(c.Out, format+"\n", args...)
}

func (c *Console) Warnf(format string, args ...any) {
	fmt.Fprintln(c.Err, c.warn.Sprint("Warning: ")+fmt.Sprintf(format, args...))
}

func (c *Console) Errorf(format string, args ...any) {
	fmt.Fprintln(c.Err, c.fail.Sprint("Error: ")+fmt.Sprintf(format, args...))
}

// Field prints a labelled value, e.g. "Output: deck.pdf"
func (c *Console) Field(label string, format string, args ...any) {
	fmt.Fprintln(c.Out, c.label.Sprint(label+": ")+fmt.Sprintf(format, args...))
}

// Success prints a line in green
func (c *Console) Success(format string, args ...any) {
	fmt.Fprintln(c.Out, c.ok.Sprintf(format, args...))
}

// Discard is a Logger that drops everything
var Discard Logger = discard{}

type discard struct{}

func (discard) Infof(string, ...any)  {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}
