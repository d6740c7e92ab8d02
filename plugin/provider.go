// Package plugin serves and loads addon catalogs out of process.
//
// An addon plugin is a binary that publishes addon specifications (actions
// and signers with their inputs and outputs) so runbooks using its
// namespaces can be validated. The host starts the binary, reads the
// specifications over gRPC via HashiCorp's go-plugin library, and merges
// them into its addon.Catalog.
package plugin

import (
	"github.com/txtx/txtx-sub001/addon"
)

// Provider publishes addon specifications.
type Provider interface {
	// ProviderName returns the plugin name.
	ProviderName() string
	// ProviderVersion returns the plugin version.
	ProviderVersion() string
	// Addons returns the published addons.
	Addons() ([]*addon.Addon, error)
}

// AddonSet is a static Provider.
type AddonSet struct {
	Name    string
	Version string
	Set     []*addon.Addon
}

var _ Provider = (*AddonSet)(nil)

// ProviderName returns the plugin name.
func (s *AddonSet) ProviderName() string { return s.Name }

// ProviderVersion returns the plugin version.
func (s *AddonSet) ProviderVersion() string { return s.Version }

// Addons returns the addons of the set.
func (s *AddonSet) Addons() ([]*addon.Addon, error) { return s.Set, nil }

// Namespaces returns the namespaces of the set in declaration order.
func (s *AddonSet) Namespaces() []string {
	names := make([]string, len(s.Set))
	for i, a := range s.Set {
		names[i] = a.Namespace
	}
	return names
}
