package feedserver

import (
	"context"
	"net"

	"ticker-service/internal/infrastructure/grpc/tickerpb"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// RunServer starts a gRPC server and blocks until context is done.
func RunServer(ctx context.Context, addr string, srv tickerpb.TickerFeedServer, log *zap.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return Serve(ctx, lis, srv, log)
}

// Serve is RunServer on an existing listener.
func Serve(ctx context.Context, lis net.Listener, srv tickerpb.TickerFeedServer, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	gs := grpc.NewServer(grpc.Creds(insecure.NewCredentials()))
	tickerpb.RegisterTickerFeedServer(gs, srv)
	errCh := make(chan error, 1)
	go func() {
		log.Info("grpc_server_started", zap.String("addr", lis.Addr().String()))
		if err := gs.Serve(lis); err != nil {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	select {
	case <-ctx.Done():
		log.Info("grpc_server_stopping")
		gs.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
