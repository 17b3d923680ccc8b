package grpc

// proto.go holds the hand-written service descriptor for
// loanlens.assessment.v1.AssessmentService. Messages travel with the JSON
// codec registered in json_codec.go, so the request and response types are
// the application DTOs.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/loanlens/assessment/internal/application/dto"
)

const serviceName = "loanlens.assessment.v1.AssessmentService"

// Full method names, used by interceptors and clients.
const (
	MethodAssessApplication = "/" + serviceName + "/AssessApplication"
	MethodPreviewAssessment = "/" + serviceName + "/PreviewAssessment"
	MethodGetAssessment     = "/" + serviceName + "/GetAssessment"
	MethodUnlockReport      = "/" + serviceName + "/UnlockReport"
)

// AssessmentServiceServer is the server API for AssessmentService.
type AssessmentServiceServer interface {
	AssessApplication(context.Context, *dto.AssessApplicationRequest) (*dto.AssessmentResponse, error)
	PreviewAssessment(context.Context, *dto.PreviewAssessmentRequest) (*dto.PreviewAssessmentResponse, error)
	GetAssessment(context.Context, *dto.GetAssessmentRequest) (*dto.AssessmentResponse, error)
	UnlockReport(context.Context, *dto.UnlockReportRequest) (*dto.AssessmentResponse, error)
	mustEmbedUnimplementedAssessmentServiceServer()
}

// UnimplementedAssessmentServiceServer provides forward-compatible default implementations.
type UnimplementedAssessmentServiceServer struct{}

func (UnimplementedAssessmentServiceServer) AssessApplication(context.Context, *dto.AssessApplicationRequest) (*dto.AssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessApplication not implemented")
}
func (UnimplementedAssessmentServiceServer) PreviewAssessment(context.Context, *dto.PreviewAssessmentRequest) (*dto.PreviewAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PreviewAssessment not implemented")
}
func (UnimplementedAssessmentServiceServer) GetAssessment(context.Context, *dto.GetAssessmentRequest) (*dto.AssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedAssessmentServiceServer) UnlockReport(context.Context, *dto.UnlockReportRequest) (*dto.AssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UnlockReport not implemented")
}
func (UnimplementedAssessmentServiceServer) mustEmbedUnimplementedAssessmentServiceServer() {}

// RegisterAssessmentServiceServer registers srv with the gRPC server.
func RegisterAssessmentServiceServer(s grpclib.ServiceRegistrar, srv AssessmentServiceServer) {
	s.RegisterService(&assessmentServiceDesc, srv)
}

var assessmentServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AssessmentServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "AssessApplication", Handler: unaryHandler(MethodAssessApplication, AssessmentServiceServer.AssessApplication)},
		{MethodName: "PreviewAssessment", Handler: unaryHandler(MethodPreviewAssessment, AssessmentServiceServer.PreviewAssessment)},
		{MethodName: "GetAssessment", Handler: unaryHandler(MethodGetAssessment, AssessmentServiceServer.GetAssessment)},
		{MethodName: "UnlockReport", Handler: unaryHandler(MethodUnlockReport, AssessmentServiceServer.UnlockReport)},
	},
	Streams: []grpclib.StreamDesc{},
}

// unaryHandler builds the descriptor handler for one method, replacing the
// per-method boilerplate protoc would generate.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(AssessmentServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AssessmentServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(AssessmentServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
