package grpc_server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	OpsServiceName          = "habitrpg.ops.v1.Ops"
	runDailyResetFullMethod = "/" + OpsServiceName + "/RunDailyReset"
)

// OpsService is the operator-facing RPC surface. Messages are protobuf
// well-known types so no generated code is needed: the request carries an
// optional YYYY-MM-DD date and the response is the reset report.
type OpsService interface {
	RunDailyReset(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error)
}

var OpsServiceDesc = grpc.ServiceDesc{
	ServiceName: OpsServiceName,
	HandlerType: (*OpsService)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RunDailyReset",
			Handler:    runDailyResetHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "habitrpg/ops/v1/ops.proto",
}

func RegisterOpsServer(s grpc.ServiceRegistrar, srv OpsService) {
	s.RegisterService(&OpsServiceDesc, srv)
}

func runDailyResetHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OpsService).RunDailyReset(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: runDailyResetFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OpsService).RunDailyReset(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

type OpsClient struct {
	cc grpc.ClientConnInterface
}

func NewOpsClient(cc grpc.ClientConnInterface) *OpsClient {
	return &OpsClient{cc: cc}
}

func (c *OpsClient) RunDailyReset(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, runDailyResetFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
