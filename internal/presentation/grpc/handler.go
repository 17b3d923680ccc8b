package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/loanlens/assessment/internal/application/dto"
	"github.com/loanlens/assessment/internal/application/validation"
	"github.com/loanlens/assessment/internal/domain/port"
	"github.com/loanlens/assessment/internal/domain/valueobject"
)

// Use-case contracts consumed by the handler.
type (
	Assessor interface {
		Execute(ctx context.Context, req dto.AssessApplicationRequest) (dto.AssessmentResponse, error)
	}
	Previewer interface {
		Execute(ctx context.Context, req dto.PreviewAssessmentRequest) (dto.PreviewAssessmentResponse, error)
	}
	Getter interface {
		Execute(ctx context.Context, req dto.GetAssessmentRequest) (dto.AssessmentResponse, error)
	}
	Unlocker interface {
		Execute(ctx context.Context, req dto.UnlockReportRequest) (dto.AssessmentResponse, error)
	}
)

// AssessmentHandler implements AssessmentServiceServer on top of the use cases.
type AssessmentHandler struct {
	UnimplementedAssessmentServiceServer

	assess  Assessor
	preview Previewer
	get     Getter
	unlock  Unlocker
	logger  *slog.Logger
}

// NewAssessmentHandler creates a new handler with all use-case dependencies.
func NewAssessmentHandler(
	assess Assessor,
	preview Previewer,
	get Getter,
	unlock Unlocker,
	logger *slog.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		assess:  assess,
		preview: preview,
		get:     get,
		unlock:  unlock,
		logger:  logger,
	}
}

// AssessApplication scores and records a submitted application.
func (h *AssessmentHandler) AssessApplication(ctx context.Context, req *dto.AssessApplicationRequest) (*dto.AssessmentResponse, error) {
	resp, err := h.assess.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "AssessApplication", err)
	}
	return &resp, nil
}

// PreviewAssessment scores a profile without recording it.
func (h *AssessmentHandler) PreviewAssessment(ctx context.Context, req *dto.PreviewAssessmentRequest) (*dto.PreviewAssessmentResponse, error) {
	resp, err := h.preview.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "PreviewAssessment", err)
	}
	return &resp, nil
}

// GetAssessment returns a recorded assessment.
func (h *AssessmentHandler) GetAssessment(ctx context.Context, req *dto.GetAssessmentRequest) (*dto.AssessmentResponse, error) {
	resp, err := h.get.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "GetAssessment", err)
	}
	return &resp, nil
}

// UnlockReport marks an assessment's report as paid for.
func (h *AssessmentHandler) UnlockReport(ctx context.Context, req *dto.UnlockReportRequest) (*dto.AssessmentResponse, error) {
	resp, err := h.unlock.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, "UnlockReport", err)
	}
	return &resp, nil
}

// toStatus maps application errors onto gRPC status codes. Internal errors
// are logged and their detail withheld from the caller.
func (h *AssessmentHandler) toStatus(ctx context.Context, method string, err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, port.ErrAssessmentNotFound):
		return status.Error(codes.NotFound, port.ErrAssessmentNotFound.Error())
	case errors.Is(err, valueobject.ErrInvalidStatusTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, "request failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
