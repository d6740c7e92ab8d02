// Package formatter renders lint reports for terminals, editors and tools.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/txtx/txtx-sub001/linter"
	"github.com/txtx/txtx-sub001/validation"
)

// Format names an output format.
type Format string

const (
	// Stylish is the human readable default.
	Stylish Format = "stylish"
	// Compact prints one file:line:col line per diagnostic.
	Compact Format = "compact"
	// JSON prints a machine readable document.
	JSON Format = "json"
	// Quickfix prints the vim quickfix format.
	Quickfix Format = "quickfix"
	// Doc renders the source around each diagnostic with carets.
	Doc Format = "doc"
)

// Formats lists the supported formats.
var Formats = []Format{Stylish, Compact, JSON, Quickfix, Doc}

// ParseFormat parses a --format value.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown format %q, expected one of %s", s, strings.Join(names, ", "))
}

// Printer writes reports in one format.
type Printer struct {
	w      io.Writer
	format Format
	fs     afero.Fs

	red, yellow, cyan, green, bold, dim *color.Color
}

// Option configures a Printer.
type Option func(*Printer)

// WithFs sets the filesystem the doc format reads sources from. Defaults
// to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(p *Printer) { p.fs = fs }
}

// WithNoColor disables colored output.
func WithNoColor() Option {
	return func(p *Printer) {
		for _, c := range p.colors() {
			c.DisableColor()
		}
	}
}

// New returns a Printer writing format to w.
func New(w io.Writer, format Format, opts ...Option) *Printer {
	p := &Printer{
		w:      w,
		format: format,
		fs:     afero.NewOsFs(),
		red:    color.New(color.FgRed, color.Bold),
		yellow: color.New(color.FgYellow, color.Bold),
		cyan:   color.New(color.FgCyan),
		green:  color.New(color.FgGreen),
		bold:   color.New(color.Bold),
		dim:    color.New(color.Faint),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Printer) colors() []*color.Color {
	return []*color.Color{p.red, p.yellow, p.cyan, p.green, p.bold, p.dim}
}

// Print writes reports.
func (p *Printer) Print(reports []*linter.Report) error {
	switch p.format {
	case Stylish, "":
		return p.printStylish(reports)
	case Compact:
		return p.printLines(reports, "error", "warning")
	case Quickfix:
		return p.printLines(reports, "E", "W")
	case JSON:
		return p.printJSON(reports)
	case Doc:
		return p.printDoc(reports)
	default:
		return fmt.Errorf("unknown format %q", p.format)
	}
}

func location(d validation.Diagnostic) string {
	line, col := d.Range.Start.Line, d.Range.Start.Column
	switch {
	case d.Range.Filename == "":
		return ""
	case line == 0:
		return d.Range.Filename
	case col == 0:
		return fmt.Sprintf("%s:%d", d.Range.Filename, line)
	default:
		return fmt.Sprintf("%s:%d:%d", d.Range.Filename, line, col)
	}
}

func issueCount(r *validation.Result) int {
	return len(r.Errors) + len(r.Warnings)
}

func (p *Printer) printStylish(reports []*linter.Report) error {
	total := 0
	for _, report := range reports {
		n := issueCount(report.Result)
		total += n

		if n > 0 {
			fmt.Fprintln(p.w, p.red.Sprintf("Found %d issue(s) in %s:", n, report.Runbook))
		}
		for _, d := range report.Result.Errors {
			p.stylishDiagnostic(p.red.Sprint("error:"), d)
		}
		for _, d := range report.Result.Warnings {
			p.stylishDiagnostic(p.yellow.Sprint("warning:"), d)
		}
		for _, d := range report.Result.Suggestions {
			fmt.Fprintf(p.w, "  %s %s\n", p.cyan.Sprint("note:"), d.Message)
		}
	}

	if total == 0 {
		fmt.Fprintln(p.w, p.green.Sprint("✓ No issues found!"))
	}
	return nil
}

func (p *Printer) stylishDiagnostic(label string, d validation.Diagnostic) {
	fmt.Fprintf(p.w, "  %s %s %s\n", label, d.Message, p.dim.Sprint(location(d)))
	if d.Context != "" {
		fmt.Fprintf(p.w, "    %s\n", p.dim.Sprint(d.Context))
	}
	for _, rel := range d.Related {
		fmt.Fprintf(p.w, "    %s %s\n", p.dim.Sprint("→"), p.dim.Sprint(rel.Message))
		fmt.Fprintf(p.w, "      %s\n", p.dim.Sprint("at "+location(validation.Diagnostic{Range: rel.Range})))
	}
	if d.Suggestion != "" {
		fmt.Fprintf(p.w, "    %s %s\n", p.cyan.Sprint("help:"), d.Suggestion)
	}
	if d.Documentation != "" {
		fmt.Fprintf(p.w, "    %s\n", p.dim.Sprint("see "+d.Documentation))
	}
}

// printLines writes file:line:col: <label>: message lines. Unknown
// positions print as 1.
func (p *Printer) printLines(reports []*linter.Report, errLabel, warnLabel string) error {
	for _, report := range reports {
		for _, group := range []struct {
			label string
			list  []validation.Diagnostic
		}{
			{errLabel, report.Result.Errors},
			{warnLabel, report.Result.Warnings},
		} {
			for _, d := range group.list {
				line, col := max(d.Range.Start.Line, 1), max(d.Range.Start.Column, 1)
				if _, err := fmt.Fprintf(p.w, "%s:%d:%d: %s: %s\n", d.Range.Filename, line, col, group.label, d.Message); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
