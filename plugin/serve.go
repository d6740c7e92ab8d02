package plugin

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// ServeOpts contains options for serving the plugin.
type ServeOpts struct {
	// Provider publishes the plugin's addons.
	Provider Provider
}

// Serve starts the plugin server. It is called from the plugin's main().
//
// The function blocks until the host disconnects. When invoked directly
// (outside of txtx), the plugin prints a message and returns.
//
// Example:
//
//	func main() {
//	    plugin.Serve(&plugin.ServeOpts{
//	        Provider: &plugin.AddonSet{
//	            Name:    "txtx-addon-bitcoin",
//	            Version: "0.1.0",
//	            Set:     []*addon.Addon{bitcoin.Addon()},
//	        },
//	    })
//	}
func Serve(opts *ServeOpts) {
	if opts == nil || opts.Provider == nil {
		return
	}

	// Fail fast on a provider that cannot encode its addons.
	addons, err := opts.Provider.Addons()
	if err == nil {
		_, err = toProtoAddons(addons)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid addon plugin %s: %s\n", opts.Provider.ProviderName(), err)
		return
	}

	if os.Getenv(MagicCookieKey) != MagicCookieValue {
		printDirectInvocationMessage(opts.Provider)
		return
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "plugin",
		Level:  hclog.Warn,
		Output: os.Stderr,
	})

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			PluginName: &AddonPlugin{Impl: opts.Provider},
		},
		GRPCServer: plugin.DefaultGRPCServer,
		Logger:     logger,
	})
}

// printDirectInvocationMessage prints a helpful message when the plugin
// is invoked directly instead of via txtx.
func printDirectInvocationMessage(p Provider) {
	var b strings.Builder
	b.WriteString("This is a txtx addon plugin.\n\n")
	fmt.Fprintf(&b, "Plugin: %s\n", p.ProviderName())
	fmt.Fprintf(&b, "Version: %s\n", p.ProviderVersion())
	b.WriteString("Namespaces:\n")
	addons, _ := p.Addons()
	for _, a := range addons {
		fmt.Fprintf(&b, "  - %s (%d actions, %d signers)\n", a.Namespace, len(a.Actions), len(a.Signers))
	}
	b.WriteString("\nTo use this plugin, pass it to the linter:\n")
	b.WriteString("  txtx-lint lint --plugin <path>\n")
	os.Stderr.WriteString(b.String())
}
