package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/txtx/txtx-sub001/addon"
	"github.com/txtx/txtx-sub001/linter"
	"github.com/txtx/txtx-sub001/manifest"
	"github.com/txtx/txtx-sub001/plugin"
)

// logEnv names the environment variable holding the default log level.
const logEnv = "TXTX_LOG"

// errLintFailed is returned when diagnostics fail the run. The diagnostics
// have already been printed.
var errLintFailed = errors.New("lint failed")

// app holds the state shared by all commands.
type app struct {
	fs     afero.Fs
	dir    string
	getenv func(string) string
	logger hclog.Logger

	manifestPath string
	env          string
	inputs       []string
	inputFiles   []string
	configPath   string
	plugins      []string
	logLevel     string
}

func newApp(fs afero.Fs) *app {
	return &app{fs: fs, dir: ".", getenv: os.Getenv, logger: hclog.NewNullLogger()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "txtx-lint",
		Short:         "Static validation for txtx runbooks",
		Long:          "txtx-lint validates txtx runbooks and their manifest environments without executing them.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.setupLogger(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.manifestPath, "manifest-file-path", "m", "", "path to the txtx.yml manifest (searched upward by default)")
	flags.StringVar(&a.env, "env", "", "manifest environment to validate inputs against")
	flags.StringArrayVar(&a.inputs, "input", nil, "input override as name=value (repeatable)")
	flags.StringArrayVar(&a.inputFiles, "inputs-file", nil, "dotenv file of input overrides (repeatable)")
	flags.StringVarP(&a.configPath, "config", "c", "", "path to the .txtxlint.yml lint configuration")
	flags.StringArrayVar(&a.plugins, "plugin", nil, "addon plugin binary to load (repeatable)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default $"+logEnv+" or warn)")

	root.AddCommand(
		newLintCmd(a),
		newWatchCmd(a),
		newInitCmd(a),
		newSchemaCmd(a),
		newGenCLICmd(a),
		newRulesCmd(a),
	)
	return root
}

func (a *app) setupLogger(w io.Writer) {
	level := a.logLevel
	if level == "" {
		level = a.getenv(logEnv)
	}
	if level == "" {
		level = "warn"
	}
	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "txtx-lint",
		Level:  hclog.LevelFromString(level),
		Output: w,
	})
}

// cliInputs returns the inputs of --inputs-file files, then --input flags.
// Later values override earlier ones.
func (a *app) cliInputs() ([]manifest.Input, error) {
	var inputs []manifest.Input
	for _, path := range a.inputFiles {
		data, err := afero.ReadFile(a.fs, path)
		if err != nil {
			return nil, fmt.Errorf("read inputs file: %w", err)
		}
		values, err := godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse inputs file %s: %w", path, err)
		}
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			inputs = append(inputs, manifest.Input{Name: name, Value: values[name]})
		}
	}
	for _, s := range a.inputs {
		in, err := manifest.ParseCLIInput(s)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// analyzer builds a linter.Analyzer from the global flags.
func (a *app) analyzer(ctx context.Context, strict bool) (*linter.Analyzer, error) {
	inputs, err := a.cliInputs()
	if err != nil {
		return nil, err
	}

	catalog := addon.Builtin()
	if len(a.plugins) > 0 {
		catalog, err = plugin.LoadCatalog(ctx, catalog, a.plugins, a.logger)
		if err != nil {
			return nil, err
		}
	}

	return linter.New(a.fs, linter.Options{
		Dir:          a.dir,
		ManifestPath: a.manifestPath,
		ConfigPath:   a.configPath,
		Environment:  a.env,
		CLIInputs:    inputs,
		Strict:       strict,
		Catalog:      catalog,
		Logger:       a.logger,
	})
}
