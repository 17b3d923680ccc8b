package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanlens/assessment/internal/domain/event"
	"github.com/loanlens/assessment/internal/domain/model"
	"github.com/loanlens/assessment/internal/domain/valueobject"
)

func sampleResult() model.AssessmentResult {
	return model.AssessmentResult{
		CreditScore:       681,
		ApprovedAmount:    decimal.NewFromInt(400_000),
		InterestRate:      decimal.NewFromInt(16),
		RiskAssessment:    valueobject.RiskTierModerate,
		FactorsConsidered: []string{"Credit Score: 681"},
		MonthlyEMI:        decimal.RequireFromString("19585.25"),
		TotalInterest:     decimal.RequireFromString("70046.00"),
		DebtToIncomeRatio: decimal.RequireFromString("0.3917"),
		LoanTenure:        24,
		Recommendations:   []string{},
	}
}

func sampleProfile() model.ApplicantProfile {
	return model.ApplicantProfile{
		MonthlyIncome:  decimal.NewFromInt(50_000),
		EmploymentType: "full_time",
		EducationLevel: "graduate",
		WorkExperience: 5,
		LoanAmount:     decimal.NewFromInt(500_000),
		LoanTenure:     24,
	}
}

func TestNewAssessment(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	a, err := model.NewAssessment("app-1", "applicant-1", sampleProfile(), sampleResult(), now)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID())
	assert.Equal(t, "app-1", a.ApplicationID())
	assert.Equal(t, "applicant-1", a.ApplicantID())
	assert.True(t, a.Status().Equal(valueobject.AssessmentStatusCompleted))
	assert.False(t, a.IsReportUnlocked())
	assert.Equal(t, 1, a.Version())
	assert.Equal(t, now, a.CreatedAt())

	require.Len(t, a.DomainEvents(), 1)
	completed, ok := a.DomainEvents()[0].(event.AssessmentCompleted)
	require.True(t, ok)
	assert.Equal(t, event.TypeAssessmentCompleted, completed.EventType())
	assert.Equal(t, a.ID(), completed.AggregateID())
	assert.Equal(t, 681, completed.CreditScore)
	assert.Equal(t, "moderate", completed.RiskAssessment)
}

func TestNewAssessment_RequiresIDs(t *testing.T) {
	_, err := model.NewAssessment("", "applicant-1", sampleProfile(), sampleResult(), time.Now())
	assert.Error(t, err)

	_, err = model.NewAssessment("app-1", "", sampleProfile(), sampleResult(), time.Now())
	assert.Error(t, err)
}

func TestAssessment_UnlockReport(t *testing.T) {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	a, err := model.NewAssessment("app-1", "applicant-1", sampleProfile(), sampleResult(), created)
	require.NoError(t, err)
	a = a.ClearEvents()

	paidAt := created.Add(time.Hour)
	unlocked, err := a.UnlockReport("pay-1", decimal.NewFromInt(120), paidAt)
	require.NoError(t, err)

	assert.True(t, unlocked.IsReportUnlocked())
	assert.Equal(t, "pay-1", unlocked.PaymentID())
	assert.True(t, unlocked.PaymentAmount().Equal(decimal.NewFromInt(120)))
	assert.Equal(t, paidAt, unlocked.UnlockedAt())
	assert.Equal(t, 1, unlocked.Version())

	// The original copy is untouched.
	assert.False(t, a.IsReportUnlocked())
	assert.Empty(t, a.DomainEvents())

	require.Len(t, unlocked.DomainEvents(), 1)
	ev, ok := unlocked.DomainEvents()[0].(event.ReportUnlocked)
	require.True(t, ok)
	assert.Equal(t, "pay-1", ev.PaymentID)
	assert.True(t, ev.PaymentAmount.Equal(decimal.NewFromInt(120)))
	assert.True(t, ev.TotalInterest.Equal(decimal.RequireFromString("70046.00")))

	_, err = unlocked.UnlockReport("pay-2", decimal.NewFromInt(120), paidAt)
	assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
}

func TestAssessment_UnlockReportRequiresPayment(t *testing.T) {
	a, err := model.NewAssessment("app-1", "applicant-1", sampleProfile(), sampleResult(), time.Now())
	require.NoError(t, err)

	_, err = a.UnlockReport("", decimal.NewFromInt(120), time.Now())
	assert.Error(t, err)

	_, err = a.UnlockReport("pay-1", decimal.NewFromInt(-1), time.Now())
	assert.Error(t, err)
}

func TestAssessment_Report(t *testing.T) {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	a, err := model.NewAssessment("app-1", "applicant-1", sampleProfile(), sampleResult(), created)
	require.NoError(t, err)

	report := a.Report()
	assert.Equal(t, a.ID(), report.AssessmentID)
	require.Len(t, report.Schedule, 24)
	assert.Equal(t, created.AddDate(0, 1, 0), report.Schedule[0].DueDate)
	assert.True(t, report.Schedule[0].Total.Equal(report.Result.MonthlyEMI))
}

func TestApplicantProfile_Normalize(t *testing.T) {
	p := model.ApplicantProfile{
		MonthlyIncome:  decimal.NewFromInt(-10),
		WorkExperience: -3,
		LoanAmount:     decimal.NewFromInt(-5),
		LoanTenure:     0,
	}.Normalize()

	assert.True(t, p.MonthlyIncome.IsZero())
	assert.True(t, p.LoanAmount.IsZero())
	assert.Equal(t, 0, p.WorkExperience)
	assert.Equal(t, model.DefaultLoanTenure, p.LoanTenure)

	kept := sampleProfile().Normalize()
	assert.Equal(t, 24, kept.LoanTenure)
	assert.True(t, kept.Employment().Equal(valueobject.EmploymentTypeFullTime))
	assert.True(t, kept.Education().Equal(valueobject.EducationLevelGraduate))
}
