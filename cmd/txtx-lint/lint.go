package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/txtx/txtx-sub001/formatter"
	"github.com/txtx/txtx-sub001/linter"
)

type lintOptions struct {
	format  string
	strict  bool
	noColor bool
}

func (o *lintOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", string(formatter.Stylish), "output format: stylish, compact, json, quickfix, doc")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "enable production rules and fail on warnings")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "disable colored output")
}

func newLintCmd(a *app) *cobra.Command {
	opts := &lintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [runbook...]",
		Short: "Validate runbooks",
		Long: `Validate runbooks by name, manifest location or path. Without arguments
every runbook of the manifest is validated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatter.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			an, err := a.analyzer(cmd.Context(), opts.strict)
			if err != nil {
				return err
			}

			reports, lintErr := lintRunbooks(cmd.Context(), an, args)
			printer := formatter.New(cmd.OutOrStdout(), format, a.printerOptions(opts)...)
			if err := printer.Print(reports); err != nil {
				return err
			}
			if lintErr != nil {
				return lintErr
			}
			return checkReports(reports, opts.strict)
		},
	}
	opts.register(cmd)
	return cmd
}

func (a *app) printerOptions(opts *lintOptions) []formatter.Option {
	printerOpts := []formatter.Option{formatter.WithFs(a.fs)}
	if opts.noColor {
		printerOpts = append(printerOpts, formatter.WithNoColor())
	}
	return printerOpts
}

// lintRunbooks lints names, or every manifest runbook when names is empty.
func lintRunbooks(ctx context.Context, an *linter.Analyzer, names []string) ([]*linter.Report, error) {
	if len(names) == 0 {
		return an.LintAll(ctx)
	}

	var (
		reports []*linter.Report
		errs    []error
	)
	for _, name := range names {
		report, err := an.LintRunbook(ctx, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}

// checkReports fails on errors, and on warnings in strict mode.
func checkReports(reports []*linter.Report, strict bool) error {
	for _, r := range reports {
		if r.Result.HasErrors() || (strict && r.Result.HasWarnings()) {
			return errLintFailed
		}
	}
	return nil
}
