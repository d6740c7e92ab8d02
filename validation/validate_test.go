package validation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/txtx/txtx-sub001/addon"
	"github.com/txtx/txtx-sub001/hclext"
)

func single(src string) []SourceFile {
	return []SourceFile{{Path: "main.tx", Content: []byte(src)}}
}

func messages(diags []Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}

func builtin() Options {
	return Options{Catalog: addon.Builtin()}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want []string
	}{
		{
			name: "valid runbook",
			src: `
signer "alice" "evm::secret_key" {
  secret_key = input.alice_key
}
variable "amount" {
  value = 100
}
action "transfer" "evm::send_eth" {
  signer = signer.alice
  recipient_address = input.recipient
  amount = variable.amount
}
output "hash" {
  value = action.transfer.tx_hash
}
`,
			opts: builtin(),
			want: nil,
		},
		{
			name: "undefined action field",
			src: `
signer "alice" "evm::secret_key" {
  secret_key = input.alice_key
}
action "transfer" "evm::send_eth" {
  signer = signer.alice
  recipient_address = "0x0000000000000000000000000000000000000000"
}
output "x" {
  value = action.transfer.from
}
`,
			opts: builtin(),
			want: []string{"Output field 'from' does not exist for action 'transfer'. Available fields: tx_hash"},
		},
		{
			name: "undefined references",
			src: `
output "x" {
  value = [variable.nope, action.nope, output.nope, signer.nope]
}
`,
			want: []string{
				"Undefined variable: 'nope'",
				"Undefined action: 'nope'",
				"Undefined output: 'nope'",
				"Undefined signer: 'nope'",
			},
		},
		{
			name: "var alias",
			src: `
var "a" {
  value = 1
}
variable "b" {
  value = var.a
}
`,
			want: nil,
		},
		{
			name: "reference inside namespaced function call",
			src: `
variable "payload" {
  value = evm::bytes(action.x.tx_hash)
}
`,
			want: []string{"Undefined action: 'x'"},
		},
		{
			name: "two node cycle",
			src: `
variable "a" {
  value = variable.b
}
variable "b" {
  value = variable.a
}
`,
			want: []string{"circular dependency in variable: a -> b -> a"},
		},
		{
			name: "self reference",
			src: `
variable "a" {
  value = variable.a
}
`,
			want: []string{"circular dependency in variable: a -> a"},
		},
		{
			name: "mixed cycle",
			src: `
variable "a" {
  value = action.b.result
}
action "b" "std::send_http_request" {
  url = variable.a
}
`,
			want: []string{"circular dependency: variable.a -> action.b -> variable.a"},
		},
		{
			name: "post_condition does not create dependencies",
			src: `
action "a" "std::send_http_request" {
  url = "https://example.com"
  post_condition {
    assertion = action.b.status_code
  }
}
action "b" "std::send_http_request" {
  url = action.a.response_body
}
`,
			opts: builtin(),
			want: nil,
		},
		{
			name: "duplicate definition",
			src: `
variable "a" {
  value = 1
}
variable "a" {
  value = 2
}
`,
			want: []string{"Duplicate variable 'a'"},
		},
		{
			name: "re-declared name shares one graph node",
			src: `
variable "a" {
  value = 1
}
variable "b" {
  value = variable.a
}
variable "a" {
  value = variable.b
}
`,
			want: []string{
				"Duplicate variable 'a'",
				"circular dependency in variable: a -> b -> a",
			},
		},
		{
			name: "missing labels",
			src: `
variable {
  value = 1
}
action "only_name" {
}
signer "alice" {
}
`,
			want: []string{
				"Missing required label: variable name",
				"Missing required label: action type",
				"Missing required label: signer type",
			},
		},
		{
			name: "action type checks",
			src: `
action "a" "send_eth" {
}
action "b" "cosmos::send" {
}
action "c" "evm::teleport" {
}
`,
			opts: builtin(),
			want: []string{
				"Invalid format: send_eth. Expected: namespace::action",
				"Unknown namespace: cosmos. Available: evm, stacks, std, svm",
				"Unknown action: evm::teleport",
			},
		},
		{
			name: "action parameters",
			src: `
signer "alice" "evm::secret_key" {
}
action "t" "evm::send_eth" {
  description = "inherited properties are accepted"
  signer = signer.alice
  recipient = "0x0"
}
`,
			opts: builtin(),
			want: []string{
				"Invalid parameter 'recipient' for action 'evm::send_eth'",
				"Missing parameter 'recipient_address' for action 'evm::send_eth'",
			},
		},
		{
			name: "arbitrary inputs",
			src: `
action "p" "svm::process_instructions" {
  anything = 1
}
`,
			opts: builtin(),
		},
		{
			name: "signer type checks",
			src: `
signer "a" "secret_key" {
}
signer "b" "evm::hardware" {
}
`,
			opts: builtin(),
			want: []string{
				"Invalid format: secret_key. Expected: namespace::signer",
				"Unknown signer type: evm::hardware",
			},
		},
		{
			name: "unknown addon namespace",
			src: `
addon "cosmos" {
  rpc_api_url = input.rpc_url
}
`,
			opts: builtin(),
			want: []string{"Unknown namespace: cosmos. Available: evm, stacks, std, svm"},
		},
		{
			name: "no catalog skips type checks",
			src: `
action "a" "cosmos::send" {
  whatever = 1
}
`,
			want: nil,
		},
		{
			name: "unknown block kinds are skipped",
			src: `
runtime "fast" {
  value = variable.nope
}
`,
			want: nil,
		},
		{
			name: "workspace signer",
			src: `
variable "who" {
  value = signer.deployer.address
}
`,
			opts: Options{WorkspaceSigners: map[string]string{"deployer": "evm::secret_key"}},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(single(tt.src), tt.opts)
			if diff := cmp.Diff(tt.want, messages(got.Errors)); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidate_Locations(t *testing.T) {
	src := `variable "a" {
  value = variable.b
}
variable "b" {
  value = variable.a
}
variable "a" {
  value = variable.missing
}
`
	got := Validate(single(src), Options{})

	type loc struct {
		Rule    string
		Line    int
		Column  int
		Related []int
	}
	var locs []loc
	for _, d := range got.Errors {
		l := loc{Rule: d.Rule, Line: d.Range.Start.Line, Column: d.Range.Start.Column}
		for _, r := range d.Related {
			l.Related = append(l.Related, r.Range.Start.Line)
		}
		locs = append(locs, l)
	}

	want := []loc{
		// Phase 1: the second declaration, pointing back at the first.
		{Rule: RuleDuplicateDefinition, Line: 7, Column: 10, Related: []int{1}},
		// Phase 2.
		{Rule: RuleUndefinedReference, Line: 8, Column: 11},
		// Post-pass: at the first member of the cycle in source order.
		{Rule: RuleCircularDependency, Line: 1, Column: 1, Related: []int{4}},
	}
	if diff := cmp.Diff(want, locs); diff != "" {
		t.Errorf("locations mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_FlowInputs(t *testing.T) {
	t.Run("partial coverage", func(t *testing.T) {
		src := `flow "mainnet" {
  chain_id = 1
}
flow "testnet" {
  rpc_url = "http://localhost:8545"
}
action "deploy" "std::send_http_request" {
  url = flow.chain_id
}
`
		got := Validate(single(src), Options{})
		if len(got.Errors) != 1 {
			t.Fatalf("errors = %v, want one", messages(got.Errors))
		}
		d := got.Errors[0]
		if d.Message != "Flow input 'chain_id' not defined in all flows" {
			t.Errorf("Message = %q", d.Message)
		}
		if d.Range.Start.Line != 8 {
			t.Errorf("error line = %d, want the call site on line 8", d.Range.Start.Line)
		}

		type related struct {
			Message string
			Line    int
		}
		var rel []related
		for _, r := range d.Related {
			rel = append(rel, related{r.Message, r.Range.Start.Line})
		}
		want := []related{
			{"Missing in flow 'testnet'", 4},
			{"Referenced here", 8},
		}
		if diff := cmp.Diff(want, rel); diff != "" {
			t.Errorf("related mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(d.Context, "'mainnet'") || !strings.Contains(d.Context, "'testnet'") {
			t.Errorf("Context = %q, want both flows named", d.Context)
		}
	})

	t.Run("no flow defines the input", func(t *testing.T) {
		src := `flow "a" {
  chain_id = 1
}
flow "b" {
  chain_id = 2
}
variable "x" {
  value = flow.network
}
variable "y" {
  value = flow.network
}
`
		got := Validate(single(src), Options{})
		want := []string{"Undefined flow input 'network'", "Undefined flow input 'network'"}
		if diff := cmp.Diff(want, messages(got.Errors)); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
		if n := len(got.Errors[0].Related); n != 2 {
			t.Errorf("related = %d, want one per flow", n)
		}
	})

	t.Run("all flows define the input", func(t *testing.T) {
		src := `flow "a" {
  description = "inherited, not an input"
  chain_id = 1
}
flow "b" {
  chain_id = 2
}
variable "x" {
  value = flow.chain_id
}
`
		if got := Validate(single(src), Options{}); got.HasErrors() {
			t.Errorf("errors = %v, want none", messages(got.Errors))
		}
	})

	t.Run("no flows", func(t *testing.T) {
		src := `variable "x" {
  value = flow.chain_id
}
`
		if got := Validate(single(src), Options{}); got.HasErrors() {
			t.Errorf("errors = %v, want none", messages(got.Errors))
		}
	})
}

func TestValidate_MultiFile(t *testing.T) {
	flows := `flow "mainnet" {
  chain_id = 1
}

flow "testnet" {
  chain_id = 11155111
}

# shared flows
# end of flows
`
	deploy := `# deployment

variable "amount" {
  description = "amount to send"
  value = variable.missing
}

signer "alice" "evm::secret_key" {
  secret_key = input.alice_key
}

output "chain" {
  value = flow.chain_id
}
# end of deploy
`
	if n := strings.Count(flows, "\n"); n != 10 {
		t.Fatalf("flows.tx has %d lines, want 10", n)
	}
	if n := strings.Count(deploy, "\n"); n != 15 {
		t.Fatalf("deploy.tx has %d lines, want 15", n)
	}

	files := []SourceFile{
		{Path: "flows.tx", Content: []byte(flows)},
		{Path: "deploy.tx", Content: []byte(deploy)},
	}
	got := Validate(files, builtin())

	want := []string{"deploy.tx:5:11: Undefined variable: 'missing'"}
	var rendered []string
	for _, d := range got.Errors {
		rendered = append(rendered, d.String())
	}
	if diff := cmp.Diff(want, rendered); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_WorkspaceScopedAcrossFiles(t *testing.T) {
	files := []SourceFile{
		{Path: "signers.tx", Content: []byte("signer \"deployer\" \"evm::secret_key\" {\n  secret_key = input.key\n}")},
		{Path: "main.tx", Content: []byte("variable \"from\" {\n  value = signer.deployer.address\n}\n")},
	}
	if got := Validate(files, builtin()); got.Len() != 0 {
		t.Errorf("Validate() = %v, want no diagnostics", got.All())
	}
}

func TestValidate_CrossRunbookIsolation(t *testing.T) {
	first := Validate(single("variable \"shared\" {\n  value = 1\n}\n"), Options{})
	if first.HasErrors() {
		t.Fatalf("first runbook errors = %v", messages(first.Errors))
	}
	second := Validate(single("output \"x\" {\n  value = variable.shared\n}\n"), Options{})
	if diff := cmp.Diff([]string{"Undefined variable: 'shared'"}, messages(second.Errors)); diff != "" {
		t.Errorf("second runbook errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	src := `variable "a" {
  value = variable.b
}
variable "b" {
  value = variable.a
}
action "x" "evm::send_eth" {
  nope = flow.missing
}
flow "f" {
  other = 1
}
`
	first := Validate(single(src), builtin())
	second := Validate(single(src), builtin())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
	if first.Len() == 0 {
		t.Error("fixture should produce diagnostics")
	}
}

func TestValidate_ParseError(t *testing.T) {
	got := Validate(single("variable \"a\" {\n  value = \n"), builtin())
	if len(got.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", messages(got.Errors))
	}
	if got.Errors[0].Rule != RuleParseError {
		t.Errorf("Rule = %q, want %q", got.Errors[0].Rule, RuleParseError)
	}
	if got.Errors[0].Range.Filename != "main.tx" {
		t.Errorf("Filename = %q, want main.tx", got.Errors[0].Range.Filename)
	}
}

func TestValidate_ParseErrorMultiFile(t *testing.T) {
	files := []SourceFile{
		{Path: "ok.tx", Content: []byte("variable \"a\" {\n  value = 1\n}\n")},
		{Path: "broken.tx", Content: []byte("variable \"b\" {\n  value = [\n}\n")},
	}
	got := Validate(files, Options{})
	if len(got.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", messages(got.Errors))
	}
	if name := got.Errors[0].Range.Filename; name != "broken.tx" {
		t.Errorf("Filename = %q, want broken.tx", name)
	}
}

func TestAnalyze(t *testing.T) {
	src := `variable "a" {
  value = input.amount
}
runtime "ignored" {
}
action "b" "std::send_http_request" {
  url = "${input.host}/${variable.a}"
}
`
	a := Analyze(single(src), builtin())

	if a.Collected != 2 || a.Validated != 2 {
		t.Errorf("Collected, Validated = %d, %d, want 2, 2", a.Collected, a.Validated)
	}

	var inputs []string
	for _, ref := range a.InputReferences() {
		inputs = append(inputs, ref.Name)
	}
	if diff := cmp.Diff([]string{"amount", "host"}, inputs); diff != "" {
		t.Errorf("InputReferences() mismatch (-want +got):\n%s", diff)
	}

	var keys []string
	for _, def := range a.Definitions {
		keys = append(keys, def.Key())
	}
	if diff := cmp.Diff([]string{"variable.a", "action.b"}, keys); diff != "" {
		t.Errorf("Definitions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"variable.a"}, a.Graph.Dependencies("action.b")); diff != "" {
		t.Errorf("Dependencies(action.b) mismatch (-want +got):\n%s", diff)
	}
}

type namelessProcessor struct{}

func (namelessProcessor) ProcessCollection(*hclext.Block, *ProcessingContext) ProcessingResult {
	return ProcessingResult{}
}

func (namelessProcessor) ProcessValidation(*hclext.Block, *ProcessingContext) ProcessingResult {
	return ProcessingResult{}
}

func TestVisitor_PanicsWithoutBlockName(t *testing.T) {
	factory := NewProcessorFactory()
	factory.Register("broken", namelessProcessor{})

	defer func() {
		if recover() == nil {
			t.Error("Visit() did not panic for a processor without a block name")
		}
	}()
	Validate(single("broken \"x\" {\n}\n"), Options{Processors: factory})
}

func TestProcessingContext_Snapshot(t *testing.T) {
	defs := map[string]Definition{"variable.a": {Kind: KindVariable, Name: "a"}}
	ctx := newProcessingContext(defs, nil, Options{}, "main.tx", nil)
	defs["variable.b"] = Definition{Kind: KindVariable, Name: "b"}

	if _, ok := ctx.Variable("a"); !ok {
		t.Error("Variable(a) not found")
	}
	if _, ok := ctx.Variable("b"); ok {
		t.Error("snapshot must not see definitions added later")
	}
	if ctx.File() != "main.tx" {
		t.Errorf("File() = %q, want main.tx", ctx.File())
	}
}

func TestProcessor_CollectionSetsName(t *testing.T) {
	f, diags := hclext.ParseRunbook("main.tx", []byte("action \"t\" \"evm::send_eth\" {\n}\n"))
	if diags.HasErrors() {
		t.Fatal(diags)
	}
	p := NewProcessorFactory().Processor(f.Blocks[0].Type)
	res := p.ProcessCollection(f.Blocks[0], newProcessingContext(nil, nil, Options{}, "main.tx", nil))

	want := []Definition{{
		Kind:      KindAction,
		Name:      "t",
		Type:      "evm::send_eth",
		Range:     f.Blocks[0].DefRange,
		NameRange: f.Blocks[0].LabelRanges[0],
	}}
	if diff := cmp.Diff(want, res.Definitions); diff != "" {
		t.Errorf("Definitions mismatch (-want +got):\n%s", diff)
	}
	if res.CurrentBlockName != "action.t" {
		t.Errorf("CurrentBlockName = %q, want action.t", res.CurrentBlockName)
	}
	if NewProcessorFactory().Processor("runtime") != nil {
		t.Error("unknown kinds must have no processor")
	}
}
