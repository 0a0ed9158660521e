// Package output formats galaxy-launch results for the terminal.
//
// Styling uses lipgloss. All output goes through a [Printer] so tests can
// capture it with [NewPrinterWithWriter].
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"galaxy-launch/internal/catalog"
	"galaxy-launch/internal/config"
	"galaxy-launch/internal/launcher"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	subtitleStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	keyStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	successStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	urlStyle      = lipgloss.NewStyle().Underline(true)
)

// Printer writes styled output. Results go to out and failures to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

// NewPrinter creates a [Printer] writing results to stdout and errors to stderr.
func NewPrinter() *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr)
}

// NewPrinterWithWriter creates a [Printer] writing everything to w.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return NewPrinterWithWriters(w, w)
}

// NewPrinterWithWriters creates a [Printer] writing results to out and
// errors to errOut.
func NewPrinterWithWriters(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// Progress reports a platform call about to start.
func (p *Printer) Progress(step launcher.Step, attempt int) {
	var msg string
	switch step {
	case launcher.StepSummary:
		msg = "Fetching workflow summary"
	case launcher.StepList:
		msg = "Looking for an existing copy"
	case launcher.StepImport:
		msg = "Importing workflow"
	case launcher.StepRescan:
		msg = "Locating imported copy"
		if attempt > 1 {
			msg = fmt.Sprintf("%s (attempt %d)", msg, attempt)
		}
	default:
		msg = string(step)
	}
	p.printf("%s %s\n", mutedStyle.Render("→"), msg)
}

// Resolved reports a successful resolution and the URL to open.
func (p *Printer) Resolved(res *launcher.Resolution, runURL string) {
	verb := "Reusing"
	if res.Imported {
		verb = "Imported"
	}
	p.printf("%s %s %q as %s\n", successStyle.Render("✓"), verb, res.Name, keyStyle.Render(res.ResolvedID))
	p.printf("  %s\n", urlStyle.Render(runURL))
}

// URL prints a bare URL with no decoration, for scripting.
func (p *Printer) URL(runURL string) {
	p.printf("%s\n", runURL)
}

// Copied notes that the URL was placed on the clipboard.
func (p *Printer) Copied() {
	p.printf("%s\n", mutedStyle.Render("URL copied to clipboard"))
}

// Error prints an error message to the error writer.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.errOut, "%s %s\n", errorStyle.Render("✗"), msg)
}

// Featured lists catalog entries in display order.
func (p *Printer) Featured(c *catalog.Catalog) {
	if c == nil || c.Len() == 0 {
		p.printf("%s\n", mutedStyle.Render("No featured workflows configured."))
		return
	}

	width := 0
	for _, e := range c.Entries {
		if len(e.Key) > width {
			width = len(e.Key)
		}
	}

	for _, e := range c.Entries {
		key := keyStyle.Render(fmt.Sprintf("%-*s", width, e.Key))
		p.printf("%s  %s %s\n", key, e.Title(), mutedStyle.Render("("+e.WorkflowID+")"))
		if e.Description != "" {
			p.printf("%s  %s\n", strings.Repeat(" ", width), mutedStyle.Render(e.Description))
		}
	}
}

// Landing prints the landing-page content, followed by the featured workflows.
func (p *Printer) Landing(page config.LandingConfig, c *catalog.Catalog) {
	if page.Title != "" {
		p.printf("%s\n", titleStyle.Render(page.Title))
	}
	if page.Subtitle != "" {
		p.printf("%s\n", subtitleStyle.Render(page.Subtitle))
	}
	if len(page.Intro) > 0 {
		p.printf("\n")
		for i, line := range page.Intro {
			p.printf("%d. %s\n", i+1, line)
		}
	}
	if len(page.Links) > 0 {
		p.printf("\n")
		for _, l := range page.Links {
			p.printf("• %s %s\n", l.Label, mutedStyle.Render(l.URL))
		}
	}
	p.printf("\n%s\n", titleStyle.Render("Workflows"))
	p.Featured(c)
}
