package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/txtx/txtx-sub001/formatter"
	"github.com/txtx/txtx-sub001/linter"
	"github.com/txtx/txtx-sub001/manifest"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a .txtxlint.yml with the recommended settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := linter.InitConfig(a.fs, a.dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
			return nil
		},
	}
}

func newSchemaCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of txtx.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := manifest.GenerateJSONSchema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newGenCLICmd(a *app) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "gen-cli <runbook>",
		Short: "Print a txtx run command for a runbook",
		Long: `Print a txtx run command with an --input flag for every input the runbook
needs that the selected environment does not define. With --full every
input is listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			an, err := a.analyzer(cmd.Context(), false)
			if err != nil {
				return err
			}
			tmpl, err := an.GenCLI(cmd.Context(), args[0], full)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tmpl.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "list every input, including resolved ones")
	return cmd
}

func newRulesCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the lint rules and their configured state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			an, err := a.analyzer(cmd.Context(), strict)
			if err != nil {
				return err
			}
			return formatter.PrintRules(cmd.OutOrStdout(), an.RuleSet())
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "show the state with production rules enabled")
	return cmd
}
