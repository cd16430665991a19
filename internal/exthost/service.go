// Package exthost signals extension host processes to stop and start around
// workspace transitions. The gRPC service is declared by hand: requests carry a
// google.protobuf.Struct with a "window_id" field.
package exthost

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "wbs.exthost.v1.ExtensionHost"

	methodStop   = "/" + ServiceName + "/Stop"
	methodStart  = "/" + ServiceName + "/Start"
	methodStatus = "/" + ServiceName + "/Status"
)

type ExtensionHostServer interface {
	Stop(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Start(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Status(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterExtensionHostServer(s grpc.ServiceRegistrar, srv ExtensionHostServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ExtensionHostServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Stop", Handler: stopHandler},
		{MethodName: "Start", Handler: startHandler},
		{MethodName: "Status", Handler: statusHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wbs/exthost/v1/exthost.proto",
}

func stopHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExtensionHostServer).Stop(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodStop}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExtensionHostServer).Stop(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func startHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExtensionHostServer).Start(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodStart}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExtensionHostServer).Start(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func statusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExtensionHostServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodStatus}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExtensionHostServer).Status(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func windowRequest(windowID string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"window_id": structpb.NewStringValue(windowID),
	}}
}

func windowIDOf(req *structpb.Struct) string {
	return req.GetFields()["window_id"].GetStringValue()
}
