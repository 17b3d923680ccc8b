package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/loanlens/assessment/internal/application/dto"
	"github.com/loanlens/assessment/internal/application/validation"
	"github.com/loanlens/assessment/internal/domain/port"
	"github.com/loanlens/assessment/pkg/money"
)

// UnlockReportUseCase records confirmed payment and releases the full report.
type UnlockReportUseCase struct {
	repo      port.AssessmentRepository
	cache     port.AssessmentCache
	reportFee decimal.Decimal
	metrics   port.MetricsRecorder
	logger    *slog.Logger
}

// NewUnlockReportUseCase wires dependencies. Payments below reportFee are
// rejected. metrics may be nil.
func NewUnlockReportUseCase(
	repo port.AssessmentRepository,
	cache port.AssessmentCache,
	reportFee decimal.Decimal,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
) *UnlockReportUseCase {
	return &UnlockReportUseCase{
		repo:      repo,
		cache:     cache,
		reportFee: reportFee,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute unlocks the report of an application. Redelivery of the same
// payment confirmation is a no-op returning the unlocked assessment.
// ReportUnlocked is recorded by the repository together with the new state.
func (uc *UnlockReportUseCase) Execute(
	ctx context.Context,
	req dto.UnlockReportRequest,
) (dto.AssessmentResponse, error) {
	ctx, span := tracer.Start(ctx, "UnlockReport")
	defer span.End()
	span.SetAttributes(
		attribute.String("application_id", req.ApplicationID),
		attribute.String("payment_id", req.PaymentID),
	)

	// 1. Validate input.
	var fields []validation.FieldError
	if req.ApplicationID == "" {
		fields = append(fields, validation.FieldError{Field: "application_id", Message: "is required"})
	}
	if req.PaymentID == "" {
		fields = append(fields, validation.FieldError{Field: "payment_id", Message: "is required"})
	}
	if req.Amount.LessThan(uc.reportFee) {
		fields = append(fields, validation.FieldError{
			Field:   "amount",
			Message: "must cover the report fee of " + money.New(uc.reportFee, money.INR).Format(),
		})
	}
	if len(fields) > 0 {
		return dto.AssessmentResponse{}, &validation.Error{Fields: fields}
	}

	// 2. Load the assessment.
	a, err := uc.repo.FindByApplicationID(ctx, req.ApplicationID)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("find assessment: %w", err)
	}

	if a.IsReportUnlocked() && a.PaymentID() == req.PaymentID {
		return toAssessmentResponse(a), nil
	}

	// 3. Transition.
	a, err = a.UnlockReport(req.PaymentID, req.Amount, time.Now().UTC())
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("unlock report: %w", err)
	}

	// 4. Persist together with its events.
	if err := uc.repo.Save(ctx, a); err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("save assessment: %w", err)
	}
	a = a.ClearEvents()

	// 5. Drop the stale cache entry.
	if err := uc.cache.Delete(ctx, a.ID()); err != nil {
		uc.logger.WarnContext(ctx, "evict cached assessment", "assessment_id", a.ID(), "error", err)
	}

	if uc.metrics != nil {
		uc.metrics.IncReportsUnlocked()
	}
	uc.logger.InfoContext(ctx, "report unlocked",
		"assessment_id", a.ID(),
		"application_id", a.ApplicationID(),
		"payment_id", req.PaymentID,
		"amount", req.Amount.StringFixed(2),
	)

	return toAssessmentResponse(a), nil
}
