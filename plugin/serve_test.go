package plugin

import (
	"reflect"
	"testing"

	"github.com/zclconf/go-cty/cty"

	"github.com/txtx/txtx-sub001/addon"
)

func TestServe_NilOpts(t *testing.T) {
	// Should not panic with nil opts
	Serve(nil)
}

func TestServe_NilProvider(t *testing.T) {
	Serve(&ServeOpts{Provider: nil})
}

func TestServe_DirectInvocation(t *testing.T) {
	t.Setenv(MagicCookieKey, "")

	// Without the magic cookie Serve prints a message and returns.
	Serve(&ServeOpts{Provider: &AddonSet{Name: "test", Version: "1.0.0", Set: []*addon.Addon{testAddon()}}})
}

func TestServe_InvalidProvider(t *testing.T) {
	bad := &addon.Addon{
		Namespace: "bad",
		Actions: []*addon.ActionSpec{{
			Matcher: "a",
			Inputs:  []addon.InputSpec{{Name: "cap", Type: cty.Capsule("handle", reflect.TypeOf(0))}},
		}},
	}

	// Types that cannot be encoded make Serve return early.
	Serve(&ServeOpts{Provider: &AddonSet{Name: "bad", Set: []*addon.Addon{bad}}})
}

func TestAddonSet(t *testing.T) {
	set := &AddonSet{Name: "multi", Version: "1.0.0", Set: []*addon.Addon{addon.EVM(), testAddon()}}

	if got := set.Namespaces(); len(got) != 2 || got[0] != "evm" || got[1] != "btc" {
		t.Errorf("Namespaces() = %v, want [evm btc]", got)
	}
	addons, err := set.Addons()
	if err != nil || len(addons) != 2 {
		t.Errorf("Addons() = %d addons, %v, want 2, nil", len(addons), err)
	}
}
