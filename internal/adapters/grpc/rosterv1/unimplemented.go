package rosterv1

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// UnimplementedRosterServiceServer は未実装のメソッドに Unimplemented を返します。
// サーバー実装はこの型を埋め込んでください。
type UnimplementedRosterServiceServer struct{}

func (UnimplementedRosterServiceServer) ListEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListEmployees not implemented")
}

func (UnimplementedRosterServiceServer) GetEmployee(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEmployee not implemented")
}

func (UnimplementedRosterServiceServer) CreateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateEmployee not implemented")
}

func (UnimplementedRosterServiceServer) UpdateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateEmployee not implemented")
}

func (UnimplementedRosterServiceServer) DeleteEmployee(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteEmployee not implemented")
}

func (UnimplementedRosterServiceServer) Dispatch(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Dispatch not implemented")
}

func (UnimplementedRosterServiceServer) SetLocale(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method SetLocale not implemented")
}

func (UnimplementedRosterServiceServer) Translate(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Translate not implemented")
}

func (UnimplementedRosterServiceServer) Watch(*structpb.Struct, RosterService_WatchServer) error {
	return status.Error(codes.Unimplemented, "method Watch not implemented")
}

func (UnimplementedRosterServiceServer) mustEmbedUnimplementedRosterServiceServer() {}
