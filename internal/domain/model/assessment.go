package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/internal/domain/event"
	"github.com/loanlens/assessment/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Assessment aggregate root
// ---------------------------------------------------------------------------

// Assessment records the engine result for one loan application and tracks
// whether the full report has been paid for. It is immutable; every
// transition returns a new copy. version is the persisted version the copy
// was loaded at and is advanced by the repository.
type Assessment struct {
	id            string
	applicationID string
	applicantID   string
	profile       ApplicantProfile
	result        AssessmentResult
	status        valueobject.AssessmentStatus
	paymentID     string
	paymentAmount decimal.Decimal
	unlockedAt    time.Time
	version       int
	createdAt     time.Time
	updatedAt     time.Time
	domainEvents  []event.DomainEvent
}

// NewAssessment records a freshly computed result in COMPLETED status and
// emits AssessmentCompleted.
func NewAssessment(
	applicationID, applicantID string,
	profile ApplicantProfile,
	result AssessmentResult,
	now time.Time,
) (Assessment, error) {
	if applicationID == "" {
		return Assessment{}, errors.New("application ID is required")
	}
	if applicantID == "" {
		return Assessment{}, errors.New("applicant ID is required")
	}

	id := uuid.New().String()
	a := Assessment{
		id:            id,
		applicationID: applicationID,
		applicantID:   applicantID,
		profile:       profile,
		result:        result,
		status:        valueobject.AssessmentStatusCompleted,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}

	a.domainEvents = append(a.domainEvents, event.NewAssessmentCompleted(
		id, applicationID, applicantID,
		result.CreditScore, result.RiskAssessment.String(),
		result.ApprovedAmount, result.InterestRate, result.MonthlyEMI, result.LoanTenure,
		now,
	))
	return a, nil
}

// ReconstructAssessment rebuilds an aggregate from persistence without side-effects.
func ReconstructAssessment(
	id, applicationID, applicantID string,
	profile ApplicantProfile,
	result AssessmentResult,
	status valueobject.AssessmentStatus,
	paymentID string,
	paymentAmount decimal.Decimal,
	unlockedAt time.Time,
	version int,
	createdAt, updatedAt time.Time,
) Assessment {
	return Assessment{
		id:            id,
		applicationID: applicationID,
		applicantID:   applicantID,
		profile:       profile,
		result:        result,
		status:        status,
		paymentID:     paymentID,
		paymentAmount: paymentAmount,
		unlockedAt:    unlockedAt,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// UnlockReport transitions COMPLETED -> REPORT_UNLOCKED, recording the
// payment that paid for the report, and emits ReportUnlocked.
func (a Assessment) UnlockReport(paymentID string, amount decimal.Decimal, now time.Time) (Assessment, error) {
	if !a.status.Equal(valueobject.AssessmentStatusCompleted) {
		return a, valueobject.ErrInvalidStatusTransition
	}
	if paymentID == "" {
		return a, errors.New("payment ID is required")
	}
	if amount.IsNegative() {
		return a, errors.New("payment amount must not be negative")
	}

	next := a
	next.status = valueobject.AssessmentStatusReportUnlocked
	next.paymentID = paymentID
	next.paymentAmount = amount
	next.unlockedAt = now
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewReportUnlocked(
		a.id, a.applicationID, a.applicantID, paymentID, amount,
		event.ReportSnapshot{
			CreditScore:       a.result.CreditScore,
			RiskAssessment:    a.result.RiskAssessment.String(),
			ApprovedAmount:    a.result.ApprovedAmount,
			InterestRate:      a.result.InterestRate,
			MonthlyEMI:        a.result.MonthlyEMI,
			TotalInterest:     a.result.TotalInterest,
			DebtToIncomeRatio: a.result.DebtToIncomeRatio,
			LoanTenure:        a.result.LoanTenure,
			FactorsConsidered: a.result.FactorsConsidered,
			Recommendations:   a.result.Recommendations,
		},
		now,
	))
	return next, nil
}

// IsReportUnlocked reports whether payment for the full report was confirmed.
func (a Assessment) IsReportUnlocked() bool {
	return a.status.Equal(valueobject.AssessmentStatusReportUnlocked)
}

// Report assembles the full report including the repayment schedule, which
// starts from the assessment date.
func (a Assessment) Report() Report {
	return Report{
		AssessmentID:  a.id,
		ApplicationID: a.applicationID,
		Profile:       a.profile,
		Result:        a.result,
		Schedule: GenerateAmortizationSchedule(
			a.result.ApprovedAmount, a.result.InterestRate, a.result.LoanTenure, a.createdAt,
		),
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a Assessment) ID() string                           { return a.id }
func (a Assessment) ApplicationID() string                { return a.applicationID }
func (a Assessment) ApplicantID() string                  { return a.applicantID }
func (a Assessment) Profile() ApplicantProfile            { return a.profile }
func (a Assessment) Result() AssessmentResult             { return a.result }
func (a Assessment) Status() valueobject.AssessmentStatus { return a.status }
func (a Assessment) PaymentID() string                    { return a.paymentID }
func (a Assessment) PaymentAmount() decimal.Decimal       { return a.paymentAmount }
func (a Assessment) UnlockedAt() time.Time                { return a.unlockedAt }
func (a Assessment) Version() int                         { return a.version }
func (a Assessment) CreatedAt() time.Time                 { return a.createdAt }
func (a Assessment) UpdatedAt() time.Time                 { return a.updatedAt }
func (a Assessment) DomainEvents() []event.DomainEvent    { return a.domainEvents }

// ClearEvents returns a copy with an empty event list (call once the
// repository has recorded them).
func (a Assessment) ClearEvents() Assessment {
	next := a
	next.domainEvents = nil
	return next
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
