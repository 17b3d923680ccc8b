package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/loanlens/assessment/internal/application/dto"
	"github.com/loanlens/assessment/internal/application/validation"
	"github.com/loanlens/assessment/internal/domain/model"
	"github.com/loanlens/assessment/internal/domain/port"
	"github.com/loanlens/assessment/internal/domain/service"
)

// AssessApplicationUseCase scores a submitted application and records the
// result. Assessing the same application twice returns the first result.
type AssessApplicationUseCase struct {
	repo    port.AssessmentRepository
	cache   port.AssessmentCache
	engine  *service.AssessmentEngine
	metrics port.MetricsRecorder
	logger  *slog.Logger
}

// NewAssessApplicationUseCase wires dependencies. metrics may be nil.
func NewAssessApplicationUseCase(
	repo port.AssessmentRepository,
	cache port.AssessmentCache,
	engine *service.AssessmentEngine,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
) *AssessApplicationUseCase {
	return &AssessApplicationUseCase{
		repo:    repo,
		cache:   cache,
		engine:  engine,
		metrics: metrics,
		logger:  logger,
	}
}

// Execute validates, scores and persists an assessment. AssessmentCompleted
// is recorded by the repository together with the assessment.
func (uc *AssessApplicationUseCase) Execute(
	ctx context.Context,
	req dto.AssessApplicationRequest,
) (resp dto.AssessmentResponse, err error) {
	ctx, span := tracer.Start(ctx, "AssessApplication")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("application_id", req.ApplicationID))

	started := time.Now()
	now := started.UTC()

	// 1. Validate input.
	if err := validation.ValidateApplication(req, now); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("validate application: %w", err)
	}

	// 2. Return the recorded result if this application was already assessed.
	existing, err := uc.repo.FindByApplicationID(ctx, req.ApplicationID)
	switch {
	case err == nil:
		uc.logger.InfoContext(ctx, "application already assessed",
			"application_id", req.ApplicationID, "assessment_id", existing.ID())
		return toAssessmentResponse(existing), nil
	case !errors.Is(err, port.ErrAssessmentNotFound):
		return dto.AssessmentResponse{}, fmt.Errorf("find existing assessment: %w", err)
	}

	// 3. Run the engine.
	profile := toProfile(req.Profile)
	result := uc.engine.GenerateReportData(profile)

	// 4. Create the aggregate.
	a, err := model.NewAssessment(req.ApplicationID, req.ApplicantID, profile.Normalize(), result, now)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("create assessment: %w", err)
	}

	// 5. Persist together with its events. A concurrent request for the same
	// application may have won the insert; its result is the answer.
	if err := uc.repo.Save(ctx, a); err != nil {
		if !errors.Is(err, port.ErrDuplicateApplication) {
			return dto.AssessmentResponse{}, fmt.Errorf("save assessment: %w", err)
		}
		winner, ferr := uc.repo.FindByApplicationID(ctx, req.ApplicationID)
		if ferr != nil {
			return dto.AssessmentResponse{}, fmt.Errorf("find concurrent assessment: %w", ferr)
		}
		uc.logger.InfoContext(ctx, "application assessed concurrently",
			"application_id", req.ApplicationID, "assessment_id", winner.ID())
		return toAssessmentResponse(winner), nil
	}
	a = a.ClearEvents()

	// 6. Warm the cache; failures only cost a database read later.
	if err := uc.cache.Set(ctx, a); err != nil {
		uc.logger.WarnContext(ctx, "cache assessment", "assessment_id", a.ID(), "error", err)
	}

	if uc.metrics != nil {
		uc.metrics.ObserveAssessment(result.RiskAssessment.String(), result.CreditScore, time.Since(started))
	}
	span.SetAttributes(
		attribute.String("assessment_id", a.ID()),
		attribute.Int("credit_score", result.CreditScore),
		attribute.String("risk", result.RiskAssessment.String()),
	)
	uc.logger.InfoContext(ctx, "application assessed",
		"assessment_id", a.ID(),
		"application_id", a.ApplicationID(),
		"pan", validation.MaskPAN(req.Applicant.PANNumber),
		"credit_score", result.CreditScore,
		"risk", result.RiskAssessment.String(),
	)

	return toAssessmentResponse(a), nil
}
