package output

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// Progress reports position in a multi-wallet batch.
type Progress struct {
	out      io.Writer
	total    int
	current  int
	jsonMode bool
}

// NewProgress creates a new Progress instance with the given total steps.
func NewProgress(total int) *Progress {
	return &Progress{
		out:   os.Stdout,
		total: total,
	}
}

// SetOutput redirects progress lines to w.
func (p *Progress) SetOutput(w io.Writer) {
	p.out = w
}

// SetJSONMode enables JSON output mode (suppresses text output).
func (p *Progress) SetJSONMode(jsonMode bool) {
	p.jsonMode = jsonMode
}

// Stage prints a progress stage message in format [N/M] Description...
func (p *Progress) Stage(description string) {
	p.current++
	if p.jsonMode {
		return
	}
	cyan := color.New(color.FgCyan)
	cyan.Fprintf(p.out, "[%d/%d] %s...\n", p.current, p.total, description)
}

// Skip prints a dimmed line for a step that was not performed.
func (p *Progress) Skip(reason string) {
	if p.jsonMode {
		return
	}
	gray := color.New(color.FgHiBlack)
	gray.Fprintf(p.out, "      skipped: %s\n", reason)
}

// Current returns the current step number.
func (p *Progress) Current() int {
	return p.current
}

// Total returns the total number of steps.
func (p *Progress) Total() int {
	return p.total
}

// Done prints a completion summary.
func (p *Progress) Done(succeeded, failed int) {
	if p.jsonMode {
		return
	}
	if failed == 0 {
		color.New(color.FgGreen).Fprintf(p.out, "\n✓ %d transaction(s) completed\n", succeeded)
		return
	}
	color.New(color.FgYellow).Fprintf(p.out, "\n%d transaction(s) completed, %d failed\n", succeeded, failed)
}
