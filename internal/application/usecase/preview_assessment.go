package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/loanlens/assessment/internal/application/dto"
	"github.com/loanlens/assessment/internal/application/validation"
	"github.com/loanlens/assessment/internal/domain/model"
	"github.com/loanlens/assessment/internal/domain/service"
)

// PreviewAssessmentUseCase runs the engine without recording anything.
type PreviewAssessmentUseCase struct {
	engine *service.AssessmentEngine
	now    func() time.Time
}

// NewPreviewAssessmentUseCase wires dependencies.
func NewPreviewAssessmentUseCase(engine *service.AssessmentEngine) *PreviewAssessmentUseCase {
	return &PreviewAssessmentUseCase{engine: engine, now: time.Now}
}

// Execute returns the result, the score breakdown and the repayment schedule
// the applicant would get.
func (uc *PreviewAssessmentUseCase) Execute(
	ctx context.Context,
	req dto.PreviewAssessmentRequest,
) (dto.PreviewAssessmentResponse, error) {
	_, span := tracer.Start(ctx, "PreviewAssessment")
	defer span.End()

	if err := validation.ValidateProfile(req.Profile); err != nil {
		return dto.PreviewAssessmentResponse{}, fmt.Errorf("validate profile: %w", err)
	}

	profile := toProfile(req.Profile)
	result := uc.engine.GenerateReportData(profile)
	schedule := model.GenerateAmortizationSchedule(
		result.ApprovedAmount, result.InterestRate, result.LoanTenure, uc.now().UTC(),
	)

	return dto.PreviewAssessmentResponse{
		Result:    toResultResponse(result),
		Breakdown: toBreakdownResponse(uc.engine.ScoreBreakdown(profile)),
		Schedule:  toScheduleResponse(schedule),
	}, nil
}
