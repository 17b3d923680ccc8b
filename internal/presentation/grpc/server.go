package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/loanlens/assessment/pkg/auth"
	"github.com/loanlens/assessment/pkg/tlsutil"
)

// HealthServiceName is the name reported through grpc.health.v1.
const HealthServiceName = "assessment-service"

// methodRoles restricts individual methods to callers holding one of the
// listed roles. Methods not listed accept any authenticated caller.
var methodRoles = map[string][]string{
	MethodUnlockReport: {auth.RoleService, auth.RoleAdmin},
}

// ServerOptions configures NewServer.
type ServerOptions struct {
	JWT         *auth.JWTService
	TLSCertFile string
	TLSKeyFile  string
	Reflection  bool
}

// Server wraps a gRPC server with the assessment handler registered.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates and configures the gRPC server. A nil JWT service
// disables authentication.
func NewServer(handler AssessmentServiceServer, opts ServerOptions, logger *slog.Logger) (*Server, error) {
	var serverOpts []grpc.ServerOption

	if opts.JWT != nil {
		authInterceptor := auth.UnaryAuthInterceptor(opts.JWT, []string{
			"/grpc.health.v1.Health/Check",
			"/grpc.health.v1.Health/Watch",
		})
		serverOpts = append(serverOpts, grpc.ChainUnaryInterceptor(authInterceptor, roleInterceptor()))
	} else {
		logger.Warn("gRPC authentication disabled")
	}

	if opts.TLSCertFile != "" && opts.TLSKeyFile != "" {
		creds, err := tlsutil.ServerCredentials(opts.TLSCertFile, opts.TLSKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", opts.TLSCertFile)
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	gs := grpc.NewServer(serverOpts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_SERVING)

	if opts.Reflection {
		reflection.Register(gs)
	}

	RegisterAssessmentServiceServer(gs, handler)

	return &Server{gs: gs, health: healthSrv, logger: logger}, nil
}

// roleInterceptor applies methodRoles after authentication.
func roleInterceptor() grpc.UnaryServerInterceptor {
	checks := make(map[string]grpc.UnaryServerInterceptor, len(methodRoles))
	for method, roles := range methodRoles {
		checks[method] = auth.RequireRole(roles...)
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if check, ok := checks[info.FullMethod]; ok {
			return check(ctx, req, info, handler)
		}
		return handler(ctx, req)
	}
}

// Serve starts the gRPC server on the specified address.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.gs.Serve(lis)
}

// GracefulStop marks the service as not serving and stops the server gracefully.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	s.gs.GracefulStop()
}
