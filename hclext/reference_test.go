package hclext

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

func parseExpr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "expr.tx", hcl.InitialPos)
	if diags.HasErrors() {
		t.Fatalf("parse %q: %s", src, diags)
	}
	return expr
}

func refStrings(refs []Reference) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = ref.String()
	}
	return out
}

func TestExprReferences(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{
			name: "plain traversal",
			expr: `action.transfer.tx_hash`,
			want: []string{"action.transfer.tx_hash"},
		},
		{
			name: "var alias",
			expr: `var.amount`,
			want: []string{"variable.amount"},
		},
		{
			name: "namespaced function argument",
			expr: `evm::bytes(action.x.y)`,
			want: []string{"action.x.y"},
		},
		{
			name: "nested function calls",
			expr: `evm::bytes(std::concat(input.prefix, variable.suffix))`,
			want: []string{"input.prefix", "variable.suffix"},
		},
		{
			name: "template interpolation",
			expr: `"https://${input.host}/${flow.chain_id}"`,
			want: []string{"input.host", "flow.chain_id"},
		},
		{
			name: "conditional",
			expr: `input.enabled ? action.a.tx_hash : action.b.tx_hash`,
			want: []string{"input.enabled", "action.a.tx_hash", "action.b.tx_hash"},
		},
		{
			name: "object and tuple",
			expr: `{ to = [signer.alice, signer.bob] }`,
			want: []string{"signer.alice", "signer.bob"},
		},
		{
			name: "index ends field path",
			expr: `action.call.logs[0].topic`,
			want: []string{"action.call.logs"},
		},
		{
			name: "single step is not a reference",
			expr: `something`,
			want: nil,
		},
		{
			name: "literal",
			expr: `"0x00"`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refStrings(ExprReferences(parseExpr(t, tt.expr)))
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ExprReferences(%q) mismatch (-want +got):\n%s", tt.expr, diff)
			}
		})
	}
}

func TestExprReferences_Nil(t *testing.T) {
	if got := ExprReferences(nil); got != nil {
		t.Errorf("ExprReferences(nil) = %v, want nil", got)
	}
}

func TestExprReferences_Range(t *testing.T) {
	refs := ExprReferences(parseExpr(t, `evm::bytes(action.x.y)`))
	if len(refs) != 1 {
		t.Fatalf("got %d references, want 1", len(refs))
	}

	rng := refs[0].Range
	if rng.Start.Column != 12 {
		t.Errorf("Range.Start.Column = %d, want 12", rng.Start.Column)
	}
	if rng.End.Column != 22 {
		t.Errorf("Range.End.Column = %d, want 22", rng.End.Column)
	}
}

func TestReference_FirstField(t *testing.T) {
	tests := []struct {
		name string
		ref  Reference
		want string
	}{
		{"no field", Reference{Namespace: "action", Name: "a"}, ""},
		{"one field", Reference{Namespace: "action", Name: "a", Field: []string{"tx_hash"}}, "tx_hash"},
		{"two fields", Reference{Namespace: "action", Name: "a", Field: []string{"result", "value"}}, "result"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.FirstField(); got != tt.want {
				t.Errorf("FirstField() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanonicalNamespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"var", NamespaceVariable},
		{"variable", NamespaceVariable},
		{"action", NamespaceAction},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		if got := CanonicalNamespace(tt.in); got != tt.want {
			t.Errorf("CanonicalNamespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBodyReferences_Skip(t *testing.T) {
	src := `
action "deploy" "evm::deploy_contract" {
  contract = variable.contract
  post_condition {
    assertion = action.other.tx_hash
  }
}
`
	file, diags := ParseRunbook("main.tx", []byte(src))
	if diags.HasErrors() {
		t.Fatalf("parse: %s", diags)
	}
	body := file.Blocks[0].Body

	all := refStrings(BodyReferences(body, nil))
	wantAll := []string{"variable.contract", "action.other.tx_hash"}
	if diff := cmp.Diff(wantAll, all); diff != "" {
		t.Errorf("BodyReferences(nil) mismatch (-want +got):\n%s", diff)
	}

	skipped := refStrings(BodyReferences(body, func(b *Block) bool {
		return b.Type == "post_condition"
	}))
	wantSkipped := []string{"variable.contract"}
	if diff := cmp.Diff(wantSkipped, skipped); diff != "" {
		t.Errorf("BodyReferences(skip) mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkReferences_Within(t *testing.T) {
	src := `
action "deploy" "evm::deploy_contract" {
  contract = variable.contract
  pre_condition {
    assertion = input.ready
    nested {
      value = signer.deployer
    }
  }
}
`
	file, diags := ParseRunbook("main.tx", []byte(src))
	if diags.HasErrors() {
		t.Fatalf("parse: %s", diags)
	}

	var got []string
	WalkReferences(file.Blocks[0].Body, func(ref Reference, within []*Block) {
		path := make([]string, len(within))
		for i, b := range within {
			path[i] = b.Type
		}
		got = append(got, ref.String()+" in "+strings.Join(path, "/"))
	})

	want := []string{
		"variable.contract in ",
		"input.ready in pre_condition",
		"signer.deployer in pre_condition/nested",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WalkReferences mismatch (-want +got):\n%s", diff)
	}
}
