package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/txtx/txtx-sub001/linter"
	"github.com/txtx/txtx-sub001/validation"
)

// contextLines is the number of source lines shown around a diagnostic.
const contextLines = 2

type docIssue struct {
	severity string
	d        validation.Diagnostic
}

// printDoc renders each file once with the diagnostics under their lines,
// for shareable examples.
func (p *Printer) printDoc(reports []*linter.Report) error {
	var files []string
	byFile := map[string][]docIssue{}
	total := 0
	for _, report := range reports {
		for _, group := range []struct {
			severity string
			list     []validation.Diagnostic
		}{
			{"error", report.Result.Errors},
			{"warning", report.Result.Warnings},
		} {
			for _, d := range group.list {
				name := d.Range.Filename
				if _, ok := byFile[name]; !ok {
					files = append(files, name)
				}
				byFile[name] = append(byFile[name], docIssue{group.severity, d})
				total++
			}
		}
	}

	for _, name := range files {
		issues := byFile[name]
		sort.SliceStable(issues, func(i, j int) bool {
			return issues[i].d.Range.Start.Line < issues[j].d.Range.Start.Line
		})
		fmt.Fprintf(p.w, "\n%s:\n\n", name)

		source, err := afero.ReadFile(p.fs, name)
		if err != nil {
			for _, issue := range issues {
				fmt.Fprintf(p.w, "   %s %s %s\n", p.red.Sprint(issue.severity+":"), issue.d.Message, p.dim.Sprint(location(issue.d)))
			}
			continue
		}
		p.renderSource(string(source), issues)
	}

	if total == 0 {
		fmt.Fprintf(p.w, "\n%s\n", p.green.Sprint("✓ No issues found!"))
	} else {
		fmt.Fprintf(p.w, "\n%d issue(s) found\n", total)
	}
	return nil
}

func (p *Printer) renderSource(source string, issues []docIssue) {
	lines := strings.Split(strings.TrimSuffix(source, "\n"), "\n")
	width := len(fmt.Sprint(len(lines)))

	byLine := map[int][]docIssue{}
	show := map[int]bool{}
	for _, issue := range issues {
		line := issue.d.Range.Start.Line
		byLine[line] = append(byLine[line], issue)
		for l := max(line-contextLines, 1); l <= min(line+contextLines, len(lines)); l++ {
			show[l] = true
		}
	}

	prev := 0
	for i, text := range lines {
		n := i + 1
		if !show[n] {
			continue
		}
		if prev > 0 && n > prev+1 {
			fmt.Fprintf(p.w, "%*s⋮\n", width+2, "")
		}
		prev = n
		fmt.Fprintf(p.w, " %*d │ %s\n", width, n, text)

		for _, issue := range byLine[n] {
			c := p.yellow
			if issue.severity == "error" {
				c = p.red
			}
			p.annotate(c, width, issue)
		}
	}
}

func (p *Printer) annotate(c *color.Color, width int, issue docIssue) {
	col := issue.d.Range.Start.Column
	if col == 0 {
		fmt.Fprintf(p.w, " %*s │ %s\n", width, "", c.Sprintf("%s: %s", issue.severity, issue.d.Message))
		return
	}
	padding := strings.Repeat(" ", col-1)
	carets := strings.Repeat("^", caretWidth(issue.d))
	fmt.Fprintf(p.w, " %*s │ %s\n", width, "", c.Sprintf("%s%s %s: %s", padding, carets, issue.severity, issue.d.Message))
}

// caretWidth underlines the diagnostic range when it stays on one line,
// else the first quoted name of the message.
func caretWidth(d validation.Diagnostic) int {
	rng := d.Range
	if rng.End.Line == rng.Start.Line && rng.End.Column > rng.Start.Column {
		return rng.End.Column - rng.Start.Column
	}
	if start := strings.IndexByte(d.Message, '\''); start >= 0 {
		if end := strings.IndexByte(d.Message[start+1:], '\''); end > 0 {
			return end
		}
	}
	return 8
}
