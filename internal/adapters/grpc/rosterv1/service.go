// Package rosterv1 は roster.v1.RosterService の gRPC サービス定義です。
// メッセージには protobuf の well-known types を使い、コード生成なしで登録できるようにしています。
package rosterv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "roster.v1.RosterService"

const (
	ListEmployeesFullMethodName  = "/" + ServiceName + "/ListEmployees"
	GetEmployeeFullMethodName    = "/" + ServiceName + "/GetEmployee"
	CreateEmployeeFullMethodName = "/" + ServiceName + "/CreateEmployee"
	UpdateEmployeeFullMethodName = "/" + ServiceName + "/UpdateEmployee"
	DeleteEmployeeFullMethodName = "/" + ServiceName + "/DeleteEmployee"
	DispatchFullMethodName       = "/" + ServiceName + "/Dispatch"
	SetLocaleFullMethodName      = "/" + ServiceName + "/SetLocale"
	TranslateFullMethodName      = "/" + ServiceName + "/Translate"
	WatchFullMethodName          = "/" + ServiceName + "/Watch"
)

// RosterServiceServer はサーバー側の実装が満たすインターフェースです。
//
// 社員は camelCase のキーを持つ Struct で表します。
// ListEmployees と Watch の要求は {page, pageSize} です。
type RosterServiceServer interface {
	ListEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	CreateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployee(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	Dispatch(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	SetLocale(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Translate(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Watch(*structpb.Struct, RosterService_WatchServer) error
	mustEmbedUnimplementedRosterServiceServer()
}

// RosterService_WatchServer は Watch のサーバー側ストリームです。
type RosterService_WatchServer = grpc.ServerStreamingServer[structpb.Struct]

// RosterService_WatchClient は Watch のクライアント側ストリームです。
type RosterService_WatchClient = grpc.ServerStreamingClient[structpb.Struct]

// RegisterRosterServiceServer は srv を gRPC サーバーへ登録します。
func RegisterRosterServiceServer(s grpc.ServiceRegistrar, srv RosterServiceServer) {
	s.RegisterService(&RosterService_ServiceDesc, srv)
}

// RosterService_ServiceDesc は roster.v1.RosterService のサービス記述子です。
var RosterService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RosterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListEmployees",
			Handler:    unaryHandler(ListEmployeesFullMethodName, newStruct, RosterServiceServer.ListEmployees),
		},
		{
			MethodName: "GetEmployee",
			Handler:    unaryHandler(GetEmployeeFullMethodName, newString, RosterServiceServer.GetEmployee),
		},
		{
			MethodName: "CreateEmployee",
			Handler:    unaryHandler(CreateEmployeeFullMethodName, newStruct, RosterServiceServer.CreateEmployee),
		},
		{
			MethodName: "UpdateEmployee",
			Handler:    unaryHandler(UpdateEmployeeFullMethodName, newStruct, RosterServiceServer.UpdateEmployee),
		},
		{
			MethodName: "DeleteEmployee",
			Handler:    unaryHandler(DeleteEmployeeFullMethodName, newString, RosterServiceServer.DeleteEmployee),
		},
		{
			MethodName: "Dispatch",
			Handler:    unaryHandler(DispatchFullMethodName, newStruct, RosterServiceServer.Dispatch),
		},
		{
			MethodName: "SetLocale",
			Handler:    unaryHandler(SetLocaleFullMethodName, newString, RosterServiceServer.SetLocale),
		},
		{
			MethodName: "Translate",
			Handler:    unaryHandler(TranslateFullMethodName, newString, RosterServiceServer.Translate),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "roster/v1/roster.proto",
}

func newStruct() *structpb.Struct        { return new(structpb.Struct) }
func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }

func unaryHandler[Req proto.Message, Resp proto.Message](
	fullMethod string,
	newReq func() Req,
	call func(RosterServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RosterServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RosterServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(RosterServiceServer).Watch(in, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}
