package feedserver

import (
	"context"
	"errors"

	"ticker-service/internal/application"
	"ticker-service/internal/domain"
	"ticker-service/internal/infrastructure/grpc/tickerpb"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server exposes an upstream ticker source to other processes.
type Server struct {
	Source application.TickerSource
	Log    *zap.Logger
	tickerpb.UnimplementedTickerFeedServer
}

func NewServer(src application.TickerSource, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{Source: src, Log: log}
}

func (s *Server) FetchTickers(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	res, err := s.Source.FetchTickers(ctx)
	if err != nil {
		log.Warn("grpc_fetch.source_error", zap.Error(err))
		return nil, status.Error(codeFor(err), err.Error())
	}
	out, err := tickerpb.Encode(res)
	if err != nil {
		log.Error("grpc_fetch.encode_error", zap.Error(err))
		return nil, status.Error(codes.Internal, err.Error())
	}
	log.Debug("grpc_fetch.success", zap.Int("tickers", len(res.Tickers)))
	return out, nil
}

func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrUpstreamTimeout):
		return codes.DeadlineExceeded
	case errors.Is(err, domain.ErrUpstreamRateLimited):
		return codes.ResourceExhausted
	case errors.Is(err, domain.ErrUpstreamMalformed):
		return codes.DataLoss
	default:
		return codes.Unavailable
	}
}
