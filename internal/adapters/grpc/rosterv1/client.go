package rosterv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// RosterServiceClient は roster.v1.RosterService のクライアントです。
type RosterServiceClient interface {
	ListEmployees(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Dispatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	SetLocale(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Translate(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Watch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (RosterService_WatchClient, error)
}

type rosterServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewRosterServiceClient はクライアントを生成します。
func NewRosterServiceClient(cc grpc.ClientConnInterface) RosterServiceClient {
	return &rosterServiceClient{cc: cc}
}

func (c *rosterServiceClient) ListEmployees(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListEmployeesFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rosterServiceClient) GetEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetEmployeeFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rosterServiceClient) CreateEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CreateEmployeeFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rosterServiceClient) UpdateEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, UpdateEmployeeFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rosterServiceClient) DeleteEmployee(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, DeleteEmployeeFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rosterServiceClient) Dispatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, DispatchFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rosterServiceClient) SetLocale(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, SetLocaleFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rosterServiceClient) Translate(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, TranslateFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rosterServiceClient) Watch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (RosterService_WatchClient, error) {
	stream, err := c.cc.NewStream(ctx, &RosterService_ServiceDesc.Streams[0], WatchFullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
