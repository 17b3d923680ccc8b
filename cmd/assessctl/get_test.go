package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/loanlens/assessment/internal/application/dto"
	grpcPresentation "github.com/loanlens/assessment/internal/presentation/grpc"
	"github.com/loanlens/assessment/pkg/tlsutil"
)

type stubAssessmentService struct {
	grpcPresentation.UnimplementedAssessmentServiceServer
	authorization []string
}

func (s *stubAssessmentService) GetAssessment(ctx context.Context, req *dto.GetAssessmentRequest) (*dto.AssessmentResponse, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	s.authorization = md.Get("authorization")
	if req.ApplicationID != "app-1" {
		return nil, status.Error(codes.NotFound, "assessment not found")
	}
	return &dto.AssessmentResponse{ID: "assessment-1", ApplicationID: req.ApplicationID, Status: "report_unlocked"}, nil
}

func serveStub(t *testing.T, svc *stubAssessmentService, certFile, keyFile string) string {
	t.Helper()
	srv, err := grpcPresentation.NewServer(svc, grpcPresentation.ServerOptions{
		TLSCertFile: certFile,
		TLSKeyFile:  keyFile,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.ServeListener(lis) }()
	t.Cleanup(srv.GracefulStop)
	return lis.Addr().String()
}

func TestGet_Plaintext(t *testing.T) {
	svc := &stubAssessmentService{}
	addr := serveStub(t, svc, "", "")

	out, err := execute(t, "get", "app-1", "--server", addr, "--plaintext", "--token", "tok-123")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "assessment-1"`)
	assert.Contains(t, out, `"status": "report_unlocked"`)
	assert.Equal(t, []string{"Bearer tok-123"}, svc.authorization)
}

func TestGet_TLSWithDevCA(t *testing.T) {
	certs, err := tlsutil.EnsureDevCertificates(t.TempDir(), []string{"localhost"})
	require.NoError(t, err)
	addr := serveStub(t, &stubAssessmentService{}, certs.CertFile, certs.KeyFile)

	out, err := execute(t, "get", "app-1", "--server", addr, "--ca-file", certs.CAFile, "--server-name", "localhost")
	require.NoError(t, err)
	assert.Contains(t, out, `"application_id": "app-1"`)

	_, err = execute(t, "get", "app-1", "--server", addr, "--server-name", "localhost")
	assert.Equal(t, codes.Unavailable, status.Code(err), "system roots do not trust the development CA")
}

func TestGet_Errors(t *testing.T) {
	addr := serveStub(t, &stubAssessmentService{}, "", "")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown application", args: []string{"get", "app-404", "--server", addr, "--plaintext"}, wantErr: "assessment not found"},
		{name: "plaintext with CA", args: []string{"get", "app-1", "--plaintext", "--ca-file", "ca.pem"}, wantErr: "--plaintext"},
		{name: "missing CA file", args: []string{"get", "app-1", "--ca-file", "/nonexistent/ca.pem"}, wantErr: "read CA file"},
		{name: "no application id", args: []string{"get"}, wantErr: "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
