package plugin

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/txtx/txtx-sub001/addon"
)

// Load starts the addon plugin at path and returns its addons. The plugin
// process is stopped before Load returns.
func Load(ctx context.Context, path string, logger hclog.Logger) ([]*addon.Addon, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  Handshake,
		Plugins:          PluginMap,
		Cmd:              exec.CommandContext(ctx, path),
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Logger:           logger.Named("plugin"),
	})
	defer client.Kill()

	rpcClient, err := client.Client()
	if err != nil {
		return nil, fmt.Errorf("start plugin %s: %w", path, err)
	}
	raw, err := rpcClient.Dispense(PluginName)
	if err != nil {
		return nil, fmt.Errorf("dispense plugin %s: %w", path, err)
	}
	provider, ok := raw.(Provider)
	if !ok {
		return nil, fmt.Errorf("plugin %s: unexpected type %T", path, raw)
	}

	addons, err := provider.Addons()
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", path, err)
	}
	logger.Debug("loaded addon plugin", "path", path, "name", provider.ProviderName(), "addons", len(addons))
	return addons, nil
}

// LoadCatalog returns base extended with the addons of every plugin in
// paths. Plugin addons replace base addons of the same namespace.
func LoadCatalog(ctx context.Context, base *addon.Catalog, paths []string, logger hclog.Logger) (*addon.Catalog, error) {
	var (
		extra []*addon.Addon
		errs  []error
	)
	for _, path := range paths {
		addons, err := Load(ctx, path, logger)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		extra = append(extra, addons...)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if base == nil {
		return addon.NewCatalog(extra...), nil
	}
	return base.With(extra...), nil
}
