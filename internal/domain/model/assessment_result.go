package model

import (
	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/internal/domain/valueobject"
)

// EligibilitySummary holds the headline ratios shown on a report.
type EligibilitySummary struct {
	IncomeMultiplier   decimal.Decimal
	EMIToIncomeRatio   decimal.Decimal
	ApprovalPercentage decimal.Decimal
}

// AssessmentResult is the complete output of the engine for one profile.
type AssessmentResult struct {
	CreditScore        int
	ApprovedAmount     decimal.Decimal
	InterestRate       decimal.Decimal
	RiskAssessment     valueobject.RiskTier
	FactorsConsidered  []string
	MonthlyEMI         decimal.Decimal
	TotalInterest      decimal.Decimal
	DebtToIncomeRatio  decimal.Decimal
	LoanTenure         int
	EligibilitySummary EligibilitySummary
	Recommendations    []string
}

// Report is the payment-gated report: the stored result plus the repayment
// schedule of the approved amount.
type Report struct {
	AssessmentID  string
	ApplicationID string
	Profile       ApplicantProfile
	Result        AssessmentResult
	Schedule      []AmortizationEntry
}
