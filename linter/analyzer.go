// Package linter lints the runbooks of a txtx workspace.
//
// An Analyzer loads the workspace manifest and the lint configuration,
// resolves runbooks to their source files, validates them and runs the
// enabled rules against the selected environment. Results are cached by
// content so repeated lints of unchanged runbooks are free.
package linter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"
	"github.com/txtx/txtx-sub001/addon"
	"github.com/txtx/txtx-sub001/lint"
	"github.com/txtx/txtx-sub001/manifest"
	"github.com/txtx/txtx-sub001/rules"
	"github.com/txtx/txtx-sub001/validation"
)

// RuleCLIInputs is the rule id of the note added when inputs are given on
// the command line.
const RuleCLIInputs = "cli_inputs"

// DefaultCacheSize is the number of lint results kept by default.
const DefaultCacheSize = 128

// Options configures an Analyzer.
type Options struct {
	// Dir is the directory runbooks and the manifest are searched from.
	// Defaults to ".".
	Dir string
	// ManifestPath is an explicit manifest location. When empty, the
	// manifest is searched upward from Dir and may be absent.
	ManifestPath string
	// ConfigPath is an explicit .txtxlint.yml location. When empty, the
	// default names are looked up in the manifest directory, then Dir.
	ConfigPath string
	// Environment selects the manifest environment.
	Environment string
	// CLIInputs override manifest inputs.
	CLIInputs []manifest.Input
	// Strict turns on the production rules.
	Strict bool
	// Catalog is the addon catalog. Defaults to addon.Builtin().
	Catalog *addon.Catalog
	// RuleSet defaults to rules.NewRuleSet().
	RuleSet *lint.BuiltinRuleSet
	// CacheSize bounds the result cache. Zero means DefaultCacheSize.
	CacheSize int
	// MaxConcurrency bounds LintAll. Zero means one goroutine per CPU.
	MaxConcurrency int
	// Logger defaults to a null logger.
	Logger hclog.Logger
}

// Report is the lint result of one runbook. Reports may be shared
// through the cache and must not be modified.
type Report struct {
	// Runbook is the runbook name.
	Runbook string
	// Files are the linted file paths.
	Files []string
	// Result holds the diagnostics.
	Result *validation.Result
}

// Analyzer lints runbooks of one workspace for one environment selection.
// It is safe for concurrent use.
type Analyzer struct {
	fs       afero.Fs
	opts     Options
	manifest *manifest.Manifest
	config   *lint.Config
	ruleset  *lint.BuiltinRuleSet
	inputs   *manifest.Inputs
	cache    *lru.Cache[string, *Report]
	logger   hclog.Logger

	mu      sync.Mutex
	signers map[string]string
}

// New creates an Analyzer. It fails when an explicit manifest or config
// file cannot be loaded, or when the environment is unknown.
func New(fs afero.Fs, opts Options) (*Analyzer, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Catalog == nil {
		opts.Catalog = addon.Builtin()
	}
	if opts.RuleSet == nil {
		opts.RuleSet = rules.NewRuleSet()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	a := &Analyzer{fs: fs, opts: opts, ruleset: opts.RuleSet, logger: logger}

	m, err := loadManifest(fs, opts, logger)
	if err != nil {
		return nil, err
	}
	a.manifest = m

	config, err := loadConfig(fs, opts, m)
	if err != nil {
		return nil, err
	}
	if opts.Strict {
		config = withStrictRules(config)
	}
	a.config = config
	if err := a.ruleset.ApplyGlobalConfig(config); err != nil {
		return nil, fmt.Errorf("apply config: %w", err)
	}

	inputs, err := m.ResolveInputs(opts.Environment, opts.CLIInputs)
	if err != nil {
		return nil, err
	}
	a.inputs = inputs

	cache, err := lru.New[string, *Report](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	a.cache = cache

	return a, nil
}

func loadManifest(fs afero.Fs, opts Options, logger hclog.Logger) (*manifest.Manifest, error) {
	if opts.ManifestPath != "" {
		if ok, _ := afero.Exists(fs, opts.ManifestPath); !ok {
			return nil, fmt.Errorf("%s: %w", opts.ManifestPath, ErrManifestNotFound)
		}
		m, err := manifest.Load(fs, opts.ManifestPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest from %s: %w", opts.ManifestPath, err)
		}
		return m, nil
	}

	path, ok := FindManifest(fs, opts.Dir)
	if !ok {
		logger.Warn("no txtx.yml manifest found, linting without manifest context")
		return nil, nil
	}
	m, err := manifest.Load(fs, path)
	if err != nil {
		logger.Warn("found manifest but failed to load it", "path", path, "error", err)
		return nil, nil
	}
	logger.Debug("using manifest", "path", path)
	return m, nil
}

func loadConfig(fs afero.Fs, opts Options, m *manifest.Manifest) (*lint.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		for _, dir := range []string{m.Dir(), opts.Dir} {
			if p, ok := lint.FindConfig(fs, dir); ok {
				path = p
				break
			}
		}
	}
	if path == "" {
		return nil, nil
	}

	config, err := lint.LoadConfig(fs, path)
	if err != nil {
		return nil, err
	}
	return config.WithExtends()
}

// withStrictRules enables the strict rules the configuration does not
// mention.
func withStrictRules(config *lint.Config) *lint.Config {
	strict := &lint.Config{}
	if config != nil {
		*strict = *config
	}
	strict.Rules = maps.Clone(strict.Rules)
	if strict.Rules == nil {
		strict.Rules = map[string]*lint.RuleConfig{}
	}
	for _, name := range rules.StrictRuleNames() {
		if _, ok := strict.Rules[name]; !ok {
			strict.Rules[name] = &lint.RuleConfig{Name: name, Enabled: true}
		}
	}
	if len(strict.Only) > 0 {
		strict.Only = append(append([]string(nil), strict.Only...), rules.StrictRuleNames()...)
	}
	return strict
}

// Manifest returns the loaded manifest, or nil.
func (a *Analyzer) Manifest() *manifest.Manifest {
	return a.manifest
}

// Config returns the effective lint configuration, or nil when none was
// found.
func (a *Analyzer) Config() *lint.Config {
	return a.config
}

// RuleSet returns the configured ruleset.
func (a *Analyzer) RuleSet() *lint.BuiltinRuleSet {
	return a.ruleset
}

// Inputs returns the resolved inputs of the selected environment.
func (a *Analyzer) Inputs() *manifest.Inputs {
	return a.inputs
}

// Reset drops cached results and the workspace signer index. Call it when
// workspace files change.
func (a *Analyzer) Reset() {
	a.cache.Purge()
	a.mu.Lock()
	a.signers = nil
	a.mu.Unlock()
}

// Resolve finds the sources of runbook name.
func (a *Analyzer) Resolve(name string) (*Runbook, error) {
	return ResolveRunbook(a.fs, a.manifest, a.opts.Dir, name)
}

// LintRunbook resolves and lints runbook name.
func (a *Analyzer) LintRunbook(ctx context.Context, name string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rb, err := a.Resolve(name)
	if err != nil {
		return nil, err
	}
	return a.Lint(ctx, rb)
}

// LintAll lints every runbook of the manifest concurrently. Runbooks
// matching an ignore pattern are skipped. Reports keep manifest order;
// runbooks that fail to load are reported through the joined error.
func (a *Analyzer) LintAll(ctx context.Context) ([]*Report, error) {
	if a.manifest == nil {
		return nil, fmt.Errorf("no manifest to lint all runbooks from, use --manifest-file-path: %w", ErrManifestNotFound)
	}

	var entries []manifest.Runbook
	for _, entry := range a.manifest.Runbooks {
		if a.config.IsIgnored(entry.Location) {
			a.logger.Debug("skipping ignored runbook", "name", entry.Name, "location", entry.Location)
			continue
		}
		entries = append(entries, entry)
	}

	type outcome struct {
		report *Report
		err    error
	}
	mapper := iter.Mapper[manifest.Runbook, outcome]{MaxGoroutines: a.opts.MaxConcurrency}
	outcomes := mapper.Map(entries, func(entry *manifest.Runbook) outcome {
		report, err := a.LintRunbook(ctx, entry.Name)
		return outcome{report, err}
	})

	var reports []*Report
	var errs []error
	for _, o := range outcomes {
		if o.err != nil {
			errs = append(errs, o.err)
			continue
		}
		reports = append(reports, o.report)
	}
	return reports, errors.Join(errs...)
}

// Lint validates rb and runs the enabled rules on it.
func (a *Analyzer) Lint(ctx context.Context, rb *Runbook) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := a.cacheKey(rb)
	if report, ok := a.cache.Get(key); ok {
		a.logger.Trace("lint cache hit", "runbook", rb.Name)
		return report, nil
	}
	a.logger.Debug("linting runbook", "runbook", rb.Name, "files", len(rb.Files))

	analysis := validation.Analyze(rb.Files, validation.Options{
		Catalog:          a.opts.Catalog,
		WorkspaceSigners: a.workspaceSigners(),
	})
	report := &Report{Runbook: rb.Name, Files: rb.Paths(), Result: analysis.Result}

	if !parseFailed(analysis.Result) {
		if err := a.runRules(analysis, report.Result); err != nil {
			return nil, fmt.Errorf("lint runbook '%s': %w", rb.Name, err)
		}
	}

	a.cache.Add(key, report)
	return report, nil
}

func parseFailed(r *validation.Result) bool {
	return len(r.Errors) == 1 && r.Errors[0].Rule == validation.RuleParseError
}

func (a *Analyzer) runRules(analysis *validation.Analysis, result *validation.Result) error {
	base := &runner{
		analysis:    analysis,
		manifest:    a.manifest,
		environment: a.opts.Environment,
		cli:         a.opts.CLIInputs,
		inputs:      a.inputs,
		config:      a.config,
	}
	r, err := a.ruleset.NewRunner(base)
	if err != nil {
		return err
	}

	if len(a.opts.CLIInputs) > 0 {
		result.Add(validation.Diagnostic{
			Message:  fmt.Sprintf("%d CLI inputs provided. CLI inputs take precedence over environment values.", len(a.opts.CLIInputs)),
			Severity: lint.NOTICE,
			Rule:     RuleCLIInputs,
		})
	}

	for _, rule := range a.ruleset.EnabledRules() {
		if err := rule.Check(r); err != nil {
			return fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
	}
	for _, issue := range base.issues {
		severity := issue.EffectiveSeverity()
		if issue.Rule != nil {
			severity = a.ruleset.RuleSeverity(issue.Rule.Name())
		}
		result.Add(diagnostic(issue, severity))
	}
	return nil
}

// workspaceSigners indexes the signers declared by every manifest runbook,
// first declaration winning. The index is built once until Reset.
func (a *Analyzer) workspaceSigners() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.signers != nil {
		return a.signers
	}

	signers := map[string]string{}
	var entries []manifest.Runbook
	if a.manifest != nil {
		entries = a.manifest.Runbooks
	}
	for _, entry := range entries {
		rb, err := a.Resolve(entry.Name)
		if err != nil {
			a.logger.Debug("skipping runbook in signer index", "name", entry.Name, "error", err)
			continue
		}
		for _, def := range validation.Analyze(rb.Files, validation.Options{}).Definitions {
			if def.Kind != validation.KindSigner {
				continue
			}
			if _, ok := signers[def.Name]; !ok {
				signers[def.Name] = def.Type
			}
		}
	}
	a.signers = signers
	return signers
}

// cacheKey digests the runbook sources. The environment selection is
// fixed for the Analyzer and does not take part.
func (a *Analyzer) cacheKey(rb *Runbook) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00", rb.Name)
	for _, f := range rb.Files {
		fmt.Fprintf(h, "%s\x00%d\x00", f.Path, len(f.Content))
		h.Write(f.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}
