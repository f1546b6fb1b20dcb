package main

import (
	"fmt"
	"github.com/fatih/color"
	"github.com/funvibe/gencode/internal/pipeline"
	"github.com/mattn/go-isatty"
	"io"
	"os"
	"strings"
)

func colorEnabled(mode string, f *os.File) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "auto":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

// reporter writes progress to out and diagnostics to errOut.
type reporter struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool

	errorLabel *color.Color
	stageLabel *color.Color
	okLabel    *color.Color
}

func newReporter(out, errOut io.Writer, colored, quiet bool) *reporter {
	r := &reporter{
		out:        out,
		errOut:     errOut,
		quiet:      quiet,
		errorLabel: color.New(color.FgRed, color.Bold),
		stageLabel: color.New(color.FgCyan),
		okLabel:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{r.errorLabel, r.stageLabel, r.okLabel} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *reporter) diagnostic(d *pipeline.Diagnostic) {
	fmt.Fprintf(r.errOut, "%s %s %s\n", r.errorLabel.Sprint("error"), r.stageLabel.Sprintf("[%s]", d.Stage), d.Error())
}

func (r *reporter) diagnostics(results []fileResult) int {
	n := 0
	for _, res := range results {
		for _, d := range res.Diagnostics {
			r.diagnostic(d)
			n++
		}
	}
	return n
}

// progress prints a status line unless the reporter is quiet.
func (r *reporter) progress(verb, path string) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", r.okLabel.Sprint(verb), path)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
