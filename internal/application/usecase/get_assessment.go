package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loanlens/assessment/internal/application/dto"
	"github.com/loanlens/assessment/internal/application/validation"
	"github.com/loanlens/assessment/internal/domain/model"
	"github.com/loanlens/assessment/internal/domain/port"
)

// GetAssessmentUseCase retrieves an assessment, reading through the cache
// for lookups by ID.
type GetAssessmentUseCase struct {
	repo   port.AssessmentRepository
	cache  port.AssessmentCache
	logger *slog.Logger
}

// NewGetAssessmentUseCase wires dependencies.
func NewGetAssessmentUseCase(
	repo port.AssessmentRepository,
	cache port.AssessmentCache,
	logger *slog.Logger,
) *GetAssessmentUseCase {
	return &GetAssessmentUseCase{repo: repo, cache: cache, logger: logger}
}

// Execute returns the assessment identified by AssessmentID, or failing
// that by ApplicationID.
func (uc *GetAssessmentUseCase) Execute(
	ctx context.Context,
	req dto.GetAssessmentRequest,
) (dto.AssessmentResponse, error) {
	ctx, span := tracer.Start(ctx, "GetAssessment")
	defer span.End()

	var (
		a   model.Assessment
		err error
	)
	switch {
	case req.AssessmentID != "":
		a, err = uc.byID(ctx, req.AssessmentID)
	case req.ApplicationID != "":
		a, err = uc.repo.FindByApplicationID(ctx, req.ApplicationID)
	default:
		return dto.AssessmentResponse{}, &validation.Error{Fields: []validation.FieldError{
			{Field: "assessment_id", Message: "assessment_id or application_id is required"},
		}}
	}
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("find assessment: %w", err)
	}

	return toAssessmentResponse(a), nil
}

func (uc *GetAssessmentUseCase) byID(ctx context.Context, id string) (model.Assessment, error) {
	cached, ok, err := uc.cache.Get(ctx, id)
	if err != nil {
		uc.logger.WarnContext(ctx, "read assessment cache", "assessment_id", id, "error", err)
	}
	if ok {
		return cached, nil
	}

	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return model.Assessment{}, err
	}
	if err := uc.cache.Set(ctx, a); err != nil {
		uc.logger.WarnContext(ctx, "cache assessment", "assessment_id", id, "error", err)
	}
	return a, nil
}
