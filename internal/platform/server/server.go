package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ogurasousui/employee-roster/internal/adapters/grpc/rosterv1"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	log        logrus.FieldLogger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築し、
// RosterService とヘルスチェックを登録します。
func New(listenAddr string, roster rosterv1.RosterServiceServer, log logrus.FieldLogger, opts ...grpc.ServerOption) *Server {
	srv := grpc.NewServer(opts...)
	rosterv1.RegisterRosterServiceServer(srv, roster)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthServer)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthServer,
		log:        log,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は与えられたリスナーで待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(rosterv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	s.log.WithField("addr", lis.Addr().String()).Info("gRPC server listening")

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
