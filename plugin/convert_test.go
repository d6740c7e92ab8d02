package plugin

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zclconf/go-cty/cty"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/txtx/txtx-sub001/addon"
)

// ctyTypeComparer compares cty types with Equals.
var ctyTypeComparer = cmp.Comparer(func(a, b cty.Type) bool {
	if a == cty.NilType || b == cty.NilType {
		return a == b
	}
	return a.Equals(b)
})

func testAddon() *addon.Addon {
	return &addon.Addon{
		Namespace: "btc",
		Actions: []*addon.ActionSpec{
			{
				Matcher:       "send_btc",
				Name:          "Send BTC",
				Documentation: "Sends BTC.",
				Inputs: []addon.InputSpec{
					{Name: "signer", Type: cty.String, Documentation: "The signer."},
					{Name: "amount", Type: cty.Number, Optional: true},
					{Name: "outputs", Type: cty.List(cty.Map(cty.String)), Optional: true},
					{Name: "payload", Type: cty.DynamicPseudoType, Optional: true},
				},
				Outputs: []addon.OutputSpec{{Name: "tx_id", Type: cty.String}},
			},
			{
				Matcher:                "script",
				AcceptsArbitraryInputs: true,
			},
		},
		Signers: []*addon.SignerSpec{
			{
				Matcher: "wif",
				Inputs:  []addon.InputSpec{{Name: "wif", Type: cty.String}},
				Outputs: []addon.OutputSpec{{Name: "address", Type: cty.String}},
			},
		},
	}
}

func TestAddonConversion(t *testing.T) {
	s, err := toProtoAddons([]*addon.Addon{testAddon(), nil})
	if err != nil {
		t.Fatalf("toProtoAddons() error = %v", err)
	}

	got, err := fromProtoAddons(s)
	if err != nil {
		t.Fatalf("fromProtoAddons() error = %v", err)
	}

	want := []*addon.Addon{testAddon()}
	// Empty slices come back non-nil.
	want[0].Actions[1].Inputs = []addon.InputSpec{}
	want[0].Actions[1].Outputs = []addon.OutputSpec{}
	if diff := cmp.Diff(want, got, ctyTypeComparer); diff != "" {
		t.Errorf("addons mismatch (-want +got):\n%s", diff)
	}
}

func TestToProtoType(t *testing.T) {
	tests := []struct {
		ty   cty.Type
		want string
	}{
		{cty.String, `"string"`},
		{cty.Map(cty.Number), `["map","number"]`},
		{cty.DynamicPseudoType, `"dynamic"`},
		{cty.NilType, ""},
	}
	for _, tt := range tests {
		got, err := toProtoType(tt.ty)
		if err != nil {
			t.Fatalf("toProtoType(%#v) error = %v", tt.ty, err)
		}
		if got != tt.want {
			t.Errorf("toProtoType(%#v) = %s, want %s", tt.ty, got, tt.want)
		}
	}
}

func TestFromProtoAddons(t *testing.T) {
	t.Run("nil struct", func(t *testing.T) {
		got, err := fromProtoAddons(nil)
		if err != nil || got != nil {
			t.Errorf("fromProtoAddons(nil) = %v, %v, want nil, nil", got, err)
		}
	})

	tests := []struct {
		name string
		in   map[string]any
	}{
		{"addon not an object", map[string]any{"addons": []any{"evm"}}},
		{"missing namespace", map[string]any{"addons": []any{map[string]any{}}}},
		{"bad type", map[string]any{"addons": []any{map[string]any{
			"namespace": "x",
			"actions": []any{map[string]any{
				"matcher": "a",
				"inputs":  []any{map[string]any{"name": "i", "type": "not json"}},
			}},
		}}}},
		{"signer not an object", map[string]any{"addons": []any{map[string]any{
			"namespace": "x",
			"signers":   []any{1.0},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := structpb.NewStruct(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := fromProtoAddons(s); err == nil {
				t.Error("fromProtoAddons() should fail")
			}
		})
	}
}
