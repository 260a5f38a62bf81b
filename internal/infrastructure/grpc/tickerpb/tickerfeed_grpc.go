// Package tickerpb defines the tickerfeed.v1.TickerFeed service on top of
// protobuf well-known types, so no generated message code is required.
package tickerpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName                        = "tickerfeed.v1.TickerFeed"
	TickerFeed_FetchTickers_FullMethod = "/" + ServiceName + "/FetchTickers"
)

// TickerFeedClient is the client API for the TickerFeed service.
type TickerFeedClient interface {
	FetchTickers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type tickerFeedClient struct {
	cc grpc.ClientConnInterface
}

func NewTickerFeedClient(cc grpc.ClientConnInterface) TickerFeedClient {
	return &tickerFeedClient{cc}
}

func (c *tickerFeedClient) FetchTickers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, TickerFeed_FetchTickers_FullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// TickerFeedServer is the server API for the TickerFeed service.
type TickerFeedServer interface {
	FetchTickers(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// UnimplementedTickerFeedServer can be embedded to have forward compatible implementations.
type UnimplementedTickerFeedServer struct{}

func (UnimplementedTickerFeedServer) FetchTickers(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method FetchTickers not implemented")
}

func RegisterTickerFeedServer(s grpc.ServiceRegistrar, srv TickerFeedServer) {
	s.RegisterService(&TickerFeed_ServiceDesc, srv)
}

func _TickerFeed_FetchTickers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TickerFeedServer).FetchTickers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: TickerFeed_FetchTickers_FullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TickerFeedServer).FetchTickers(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// TickerFeed_ServiceDesc is the grpc.ServiceDesc for the TickerFeed service.
var TickerFeed_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TickerFeedServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "FetchTickers",
			Handler:    _TickerFeed_FetchTickers_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tickerfeed/v1/tickerfeed.proto",
}
