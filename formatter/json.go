package formatter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/txtx/txtx-sub001/linter"
	"github.com/txtx/txtx-sub001/validation"
)

type jsonOutput struct {
	Runbooks []jsonReport `json:"runbooks"`
	Summary  jsonSummary  `json:"summary"`
}

type jsonSummary struct {
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Suggestions int `json:"suggestions"`
}

type jsonReport struct {
	Runbook     string           `json:"runbook"`
	Files       []string         `json:"files"`
	Errors      []jsonDiagnostic `json:"errors"`
	Warnings    []jsonDiagnostic `json:"warnings"`
	Suggestions []jsonDiagnostic `json:"suggestions"`
}

type jsonDiagnostic struct {
	Message           string         `json:"message"`
	Rule              string         `json:"rule,omitempty"`
	Severity          string         `json:"severity"`
	File              string         `json:"file,omitempty"`
	Line              int            `json:"line,omitempty"`
	Column            int            `json:"column,omitempty"`
	EndLine           int            `json:"end_line,omitempty"`
	EndColumn         int            `json:"end_column,omitempty"`
	Context           string         `json:"context,omitempty"`
	Suggestion        string         `json:"suggestion,omitempty"`
	DocumentationLink string         `json:"documentation_link,omitempty"`
	RelatedLocations  []jsonLocation `json:"related_locations,omitempty"`
}

type jsonLocation struct {
	Message string `json:"message"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func toJSONDiagnostics(list []validation.Diagnostic) []jsonDiagnostic {
	out := make([]jsonDiagnostic, 0, len(list))
	for _, d := range list {
		jd := jsonDiagnostic{
			Message:           d.Message,
			Rule:              d.Rule,
			Severity:          strings.ToLower(d.Severity.String()),
			File:              d.Range.Filename,
			Line:              d.Range.Start.Line,
			Column:            d.Range.Start.Column,
			EndLine:           d.Range.End.Line,
			EndColumn:         d.Range.End.Column,
			Context:           d.Context,
			Suggestion:        d.Suggestion,
			DocumentationLink: d.Documentation,
		}
		for _, rel := range d.Related {
			jd.RelatedLocations = append(jd.RelatedLocations, jsonLocation{
				Message: rel.Message,
				File:    rel.Range.Filename,
				Line:    rel.Range.Start.Line,
				Column:  rel.Range.Start.Column,
			})
		}
		out = append(out, jd)
	}
	return out
}

func (p *Printer) printJSON(reports []*linter.Report) error {
	out := jsonOutput{Runbooks: make([]jsonReport, 0, len(reports))}
	for _, report := range reports {
		r := report.Result
		out.Runbooks = append(out.Runbooks, jsonReport{
			Runbook:     report.Runbook,
			Files:       report.Files,
			Errors:      toJSONDiagnostics(r.Errors),
			Warnings:    toJSONDiagnostics(r.Warnings),
			Suggestions: toJSONDiagnostics(r.Suggestions),
		})
		out.Summary.Errors += len(r.Errors)
		out.Summary.Warnings += len(r.Warnings)
		out.Summary.Suggestions += len(r.Suggestions)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = fmt.Fprintln(p.w, string(data))
	return err
}
