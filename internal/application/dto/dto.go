package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ProfileInput carries the financial attributes scored by the engine.
type ProfileInput struct {
	MonthlyIncome  decimal.Decimal `json:"monthly_income" yaml:"monthly_income"`
	EmploymentType string          `json:"employment_type" yaml:"employment_type"`
	EducationLevel string          `json:"education_level" yaml:"education_level"`
	WorkExperience int             `json:"work_experience" yaml:"work_experience"`
	LoanAmount     decimal.Decimal `json:"loan_amount" yaml:"loan_amount"`
	LoanTenure     int             `json:"loan_tenure" yaml:"loan_tenure"`
}

// ApplicantDetails carries the identity data collected with an application.
// It is validated but not scored.
type ApplicantDetails struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone"`
	DateOfBirth   string `json:"date_of_birth"` // YYYY-MM-DD
	PANNumber     string `json:"pan_number"`
	AadhaarNumber string `json:"aadhaar_number"`
	AddressLine1  string `json:"address_line1"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
}

// AssessApplicationRequest asks for a submitted application to be scored and recorded.
type AssessApplicationRequest struct {
	ApplicationID string           `json:"application_id"`
	ApplicantID   string           `json:"applicant_id"`
	Applicant     ApplicantDetails `json:"applicant"`
	Profile       ProfileInput     `json:"profile"`
}

// PreviewAssessmentRequest asks for an unrecorded what-if assessment.
type PreviewAssessmentRequest struct {
	Profile ProfileInput `json:"profile"`
}

// GetAssessmentRequest identifies an assessment by ID or by application ID.
type GetAssessmentRequest struct {
	AssessmentID  string `json:"assessment_id,omitempty"`
	ApplicationID string `json:"application_id,omitempty"`
}

// UnlockReportRequest records confirmed payment for an application's report.
type UnlockReportRequest struct {
	ApplicationID string          `json:"application_id"`
	PaymentID     string          `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// EligibilitySummaryResponse holds the headline ratios of a report.
type EligibilitySummaryResponse struct {
	IncomeMultiplier   decimal.Decimal `json:"income_multiplier"`
	EMIToIncomeRatio   decimal.Decimal `json:"emi_to_income_ratio"`
	ApprovalPercentage decimal.Decimal `json:"approval_percentage"`
}

// AssessmentResultResponse is the external representation of engine output.
type AssessmentResultResponse struct {
	CreditScore        int                        `json:"credit_score"`
	ApprovedAmount     decimal.Decimal            `json:"approved_amount"`
	InterestRate       decimal.Decimal            `json:"interest_rate"`
	RiskAssessment     string                     `json:"risk_assessment"`
	FactorsConsidered  []string                   `json:"factors_considered"`
	MonthlyEMI         decimal.Decimal            `json:"monthly_emi"`
	TotalInterest      decimal.Decimal            `json:"total_interest"`
	DebtToIncomeRatio  decimal.Decimal            `json:"debt_to_income_ratio"`
	LoanTenure         int                        `json:"loan_tenure"`
	EligibilitySummary EligibilitySummaryResponse `json:"eligibility_summary"`
	Recommendations    []string                   `json:"recommendations"`
}

// AmortizationEntryResponse represents a single amortization schedule entry.
type AmortizationEntryResponse struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Total            decimal.Decimal `json:"total"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// AssessmentResponse is the external representation of a stored assessment.
// Schedule is only populated once the report is unlocked.
type AssessmentResponse struct {
	ID            string                      `json:"id"`
	ApplicationID string                      `json:"application_id"`
	ApplicantID   string                      `json:"applicant_id"`
	Status        string                      `json:"status"`
	PaymentID     string                      `json:"payment_id,omitempty"`
	PaymentAmount decimal.Decimal             `json:"payment_amount"`
	Result        AssessmentResultResponse    `json:"result"`
	Schedule      []AmortizationEntryResponse `json:"schedule,omitempty"`
	Version       int                         `json:"version"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// ScoringFactorResponse is one weighted input of the credit score.
type ScoringFactorResponse struct {
	Name         string          `json:"name"`
	Weight       decimal.Decimal `json:"weight"`
	Score        decimal.Decimal `json:"score"`
	Contribution decimal.Decimal `json:"contribution"`
}

// PreviewAssessmentResponse is the outcome of a what-if assessment.
type PreviewAssessmentResponse struct {
	Result    AssessmentResultResponse    `json:"result"`
	Breakdown []ScoringFactorResponse     `json:"breakdown"`
	Schedule  []AmortizationEntryResponse `json:"schedule,omitempty"`
}
