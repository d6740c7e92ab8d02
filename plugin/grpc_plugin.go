package plugin

import (
	"context"
	"time"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/txtx/txtx-sub001/addon"
)

// Ensure AddonPlugin implements plugin.GRPCPlugin.
var _ plugin.GRPCPlugin = (*AddonPlugin)(nil)

// AddonPlugin is the implementation of plugin.GRPCPlugin for the addon
// catalog service. This is used by both the host (to create a client) and
// the plugin (to create a server).
type AddonPlugin struct {
	plugin.Plugin
	// Impl is the concrete Provider. Only used when serving (plugin side).
	Impl Provider
}

// GRPCServer is called by the plugin to register the gRPC server.
func (p *AddonPlugin) GRPCServer(_ *plugin.GRPCBroker, s *grpc.Server) error {
	s.RegisterService(&catalogServiceDesc, &GRPCCatalogServer{impl: p.Impl})
	return nil
}

// GRPCClient is called by the host to create a gRPC client.
func (p *AddonPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, c *grpc.ClientConn) (interface{}, error) {
	return &GRPCCatalogClient{conn: c}, nil
}

// =============================================================================
// Service definition
// =============================================================================

const (
	catalogServiceName = "txtx.addon.v1.Catalog"
	getInfoMethod      = "/" + catalogServiceName + "/GetInfo"
	getAddonsMethod    = "/" + catalogServiceName + "/GetAddons"
)

// catalogServer is the server API of the catalog service.
type catalogServer interface {
	GetInfo(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetAddons(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: catalogServiceName,
	HandlerType: (*catalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetInfo",
			Handler: unaryHandler(getInfoMethod, func(s catalogServer, ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
				return s.GetInfo(ctx, in)
			}),
		},
		{
			MethodName: "GetAddons",
			Handler: unaryHandler(getAddonsMethod, func(s catalogServer, ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error) {
				return s.GetAddons(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "txtx/addon/v1/catalog.proto",
}

type catalogMethod func(catalogServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call catalogMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(catalogServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(catalogServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// =============================================================================
// GRPCCatalogServer - Plugin side
// =============================================================================

// GRPCCatalogServer wraps a Provider to implement the gRPC server.
// This runs in the plugin process and handles requests from the host.
type GRPCCatalogServer struct {
	impl Provider
}

var _ catalogServer = (*GRPCCatalogServer)(nil)

// GetInfo returns the plugin name and version.
func (s *GRPCCatalogServer) GetInfo(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"name":    s.impl.ProviderName(),
		"version": s.impl.ProviderVersion(),
	})
}

// GetAddons returns the published addons.
func (s *GRPCCatalogServer) GetAddons(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	addons, err := s.impl.Addons()
	if err != nil {
		return nil, err
	}
	return toProtoAddons(addons)
}

// =============================================================================
// GRPCCatalogClient - Host side (implements Provider)
// =============================================================================

// callTimeout bounds each call to the plugin.
const callTimeout = 30 * time.Second

// GRPCCatalogClient implements Provider by calling the plugin.
// This runs in the host process.
type GRPCCatalogClient struct {
	conn grpc.ClientConnInterface
}

var _ Provider = (*GRPCCatalogClient)(nil)

func (c *GRPCCatalogClient) info() map[string]any {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, getInfoMethod, &emptypb.Empty{}, out); err != nil {
		return nil
	}
	return out.AsMap()
}

// ProviderName returns the plugin name, or "" when the call fails.
func (c *GRPCCatalogClient) ProviderName() string {
	return str(c.info(), "name")
}

// ProviderVersion returns the plugin version, or "" when the call fails.
func (c *GRPCCatalogClient) ProviderVersion() string {
	return str(c.info(), "version")
}

// Addons fetches the published addons.
func (c *GRPCCatalogClient) Addons() ([]*addon.Addon, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, getAddonsMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return fromProtoAddons(out)
}
