package linter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/txtx/txtx-sub001/validation"
)

const cmdLineBreak = " \\\n "

// TemplateInput is an input line of a CLITemplate.
type TemplateInput struct {
	Name string
	// Value is the resolved value, or a shell variable placeholder.
	Value string
	// Resolved reports whether Value comes from the manifest or the
	// command line.
	Resolved bool
}

// CLITemplate is a txtx run command line for a runbook.
type CLITemplate struct {
	Runbook      string
	ManifestPath string
	Environment  string
	Inputs       []TemplateInput
}

// String renders the command with one flag per line, inputs sorted by
// name.
func (t *CLITemplate) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "txtx run %s", t.Runbook)
	if t.ManifestPath != "" {
		fmt.Fprintf(&b, "%s --manifest-file-path %s", cmdLineBreak, t.ManifestPath)
	}
	if t.Environment != "" {
		fmt.Fprintf(&b, "%s --env %s", cmdLineBreak, t.Environment)
	}

	inputs := append([]TemplateInput(nil), t.Inputs...)
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Name < inputs[j].Name })
	for _, in := range inputs {
		fmt.Fprintf(&b, "%s --input %s=%s", cmdLineBreak, in.Name, in.Value)
	}
	return b.String()
}

// placeholder is the shell variable suggested for an unresolved input.
func placeholder(name string) string {
	return fmt.Sprintf("\"$%s\"", strings.ReplaceAll(strings.ToUpper(name), "-", "_"))
}

// GenCLI builds the txtx run command for runbook name. Unless full is
// set, only inputs that are undefined or given on the command line are
// listed.
func (a *Analyzer) GenCLI(ctx context.Context, name string, full bool) (*CLITemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rb, err := a.Resolve(name)
	if err != nil {
		return nil, err
	}

	analysis := validation.Analyze(rb.Files, validation.Options{})
	t := &CLITemplate{
		Runbook:      name,
		ManifestPath: a.opts.ManifestPath,
		Environment:  a.opts.Environment,
	}

	cli := map[string]bool{}
	for _, in := range a.opts.CLIInputs {
		cli[in.Name] = true
	}

	seen := map[string]bool{}
	for _, ref := range analysis.InputReferences() {
		if seen[ref.Name] {
			continue
		}
		seen[ref.Name] = true

		resolved, ok := a.inputs.Lookup(ref.Name)
		if ok && !full && !cli[ref.Name] {
			continue
		}
		in := TemplateInput{Name: ref.Name, Value: placeholder(ref.Name)}
		if ok {
			in.Value, in.Resolved = resolved.Raw, true
		}
		t.Inputs = append(t.Inputs, in)
	}
	return t, nil
}
