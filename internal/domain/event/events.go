package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	AggregateTypeAssessment = "Assessment"

	TypeAssessmentCompleted = "assessment.completed"
	TypeReportUnlocked      = "assessment.report_unlocked"
)

// AssessmentCompleted is raised when the engine has scored an application
// and the result has been recorded.
type AssessmentCompleted struct {
	events.BaseEvent
	ApplicationID  string          `json:"application_id"`
	ApplicantID    string          `json:"applicant_id"`
	CreditScore    int             `json:"credit_score"`
	RiskAssessment string          `json:"risk_assessment"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MonthlyEMI     decimal.Decimal `json:"monthly_emi"`
	LoanTenure     int             `json:"loan_tenure"`
}

func NewAssessmentCompleted(
	assessmentID, applicationID, applicantID string,
	creditScore int, risk string,
	approved, rate, emi decimal.Decimal, tenure int,
	now time.Time,
) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent:      events.NewBaseEvent(TypeAssessmentCompleted, assessmentID, AggregateTypeAssessment, now),
		ApplicationID:  applicationID,
		ApplicantID:    applicantID,
		CreditScore:    creditScore,
		RiskAssessment: risk,
		ApprovedAmount: approved,
		InterestRate:   rate,
		MonthlyEMI:     emi,
		LoanTenure:     tenure,
	}
}

// ReportUnlocked is raised once payment for the full report is confirmed.
// It carries everything a renderer needs to produce the report document.
type ReportUnlocked struct {
	events.BaseEvent
	ApplicationID     string          `json:"application_id"`
	ApplicantID       string          `json:"applicant_id"`
	PaymentID         string          `json:"payment_id"`
	PaymentAmount     decimal.Decimal `json:"payment_amount"`
	CreditScore       int             `json:"credit_score"`
	RiskAssessment    string          `json:"risk_assessment"`
	ApprovedAmount    decimal.Decimal `json:"approved_amount"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	MonthlyEMI        decimal.Decimal `json:"monthly_emi"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	DebtToIncomeRatio decimal.Decimal `json:"debt_to_income_ratio"`
	LoanTenure        int             `json:"loan_tenure"`
	FactorsConsidered []string        `json:"factors_considered"`
	Recommendations   []string        `json:"recommendations"`
}

// ReportSnapshot is the scored subset of an assessment copied into ReportUnlocked.
type ReportSnapshot struct {
	CreditScore       int
	RiskAssessment    string
	ApprovedAmount    decimal.Decimal
	InterestRate      decimal.Decimal
	MonthlyEMI        decimal.Decimal
	TotalInterest     decimal.Decimal
	DebtToIncomeRatio decimal.Decimal
	LoanTenure        int
	FactorsConsidered []string
	Recommendations   []string
}

func NewReportUnlocked(
	assessmentID, applicationID, applicantID, paymentID string,
	paymentAmount decimal.Decimal,
	snap ReportSnapshot, now time.Time,
) ReportUnlocked {
	return ReportUnlocked{
		BaseEvent:         events.NewBaseEvent(TypeReportUnlocked, assessmentID, AggregateTypeAssessment, now),
		ApplicationID:     applicationID,
		ApplicantID:       applicantID,
		PaymentID:         paymentID,
		PaymentAmount:     paymentAmount,
		CreditScore:       snap.CreditScore,
		RiskAssessment:    snap.RiskAssessment,
		ApprovedAmount:    snap.ApprovedAmount,
		InterestRate:      snap.InterestRate,
		MonthlyEMI:        snap.MonthlyEMI,
		TotalInterest:     snap.TotalInterest,
		DebtToIncomeRatio: snap.DebtToIncomeRatio,
		LoanTenure:        snap.LoanTenure,
		FactorsConsidered: snap.FactorsConsidered,
		Recommendations:   snap.Recommendations,
	}
}
