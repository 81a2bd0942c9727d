package grpc_server

import (
	"context"
	"errors"
	"strings"
	"time"

	"habitrpg/internal/application/usecase"
	"habitrpg/internal/clock"
	"habitrpg/internal/domain"

	"github.com/charmbracelet/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type OpsServer struct {
	habits *usecase.HabitUseCase
	clock  clock.Clock
}

func NewOpsServer(habits *usecase.HabitUseCase, clk clock.Clock) *OpsServer {
	return &OpsServer{habits: habits, clock: clk}
}

func (s *OpsServer) RunDailyReset(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	day := s.clock.Today()
	if raw := in.GetValue(); raw != "" {
		parsed, err := clock.ParseDay(raw)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "date must be YYYY-MM-DD")
		}
		day = parsed
	}

	report, err := s.habits.RunDailyReset(ctx, day)
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := structpb.NewStruct(map[string]any{
		"day":            report.Day.Format(time.DateOnly),
		"users_refilled": report.UsersRefilled,
		"habits_rearmed": report.HabitsRearmed,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// AdminKeyHeader is the metadata key carrying the operator secret.
const AdminKeyHeader = "x-admin-key"

// NewServer builds a gRPC server exposing the ops service and the standard
// health service. Ops calls must carry adminKey; health checks stay open.
// The returned health server starts out SERVING.
func NewServer(ops OpsService, adminKey string, logger *log.Logger) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryLogger(logger), AdminKey(adminKey)))
	RegisterOpsServer(srv, ops)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(OpsServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	reflection.Register(srv)
	return srv, hs
}

// UnaryLogger logs every unary call with its status code.
func UnaryLogger(logger *log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []any{"method", info.FullMethod, "code", code.String(), "latency", time.Since(start)}
		if code == codes.Internal || code == codes.Unknown {
			logger.Error("rpc", append(fields, "err", err)...)
		} else {
			logger.Debug("rpc", fields...)
		}
		return resp, err
	}
}

// AdminKey rejects ops calls whose x-admin-key metadata does not match key.
// An empty key disables the ops service entirely.
func AdminKey(key string) grpc.UnaryServerInterceptor {
	prefix := "/" + OpsServiceName + "/"
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, prefix) {
			return handler(ctx, req)
		}
		md, _ := metadata.FromIncomingContext(ctx)
		got := md.Get(AdminKeyHeader)
		if key == "" || len(got) != 1 || got[0] != key {
			return nil, status.Error(codes.PermissionDenied, "admin key required")
		}
		return handler(ctx, req)
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
