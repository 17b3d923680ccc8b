package service

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/internal/domain/model"
	"github.com/loanlens/assessment/internal/domain/valueobject"
	"github.com/loanlens/assessment/pkg/money"
)

// Credit score bounds.
const (
	MinCreditScore = 300
	MaxCreditScore = 900
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)

	// maxIncomeMultiple caps the approved amount at 36 months of income.
	maxIncomeMultiple = decimal.NewFromInt(36)
	// incomeCeiling is the monthly income that earns a full income sub-score.
	incomeCeiling = decimal.NewFromInt(100_000)
	// experienceCeiling is the years of experience that earn a full sub-score.
	experienceCeiling = decimal.NewFromInt(10)
)

// Factor weights. They sum to 1.
var (
	weightIncome     = decimal.RequireFromString("0.35")
	weightEmployment = decimal.RequireFromString("0.25")
	weightEducation  = decimal.RequireFromString("0.15")
	weightLoanRatio  = decimal.RequireFromString("0.15")
	weightExperience = decimal.RequireFromString("0.10")
)

// ScoringFactor is one weighted input of the composite credit score.
type ScoringFactor struct {
	Name         string
	Weight       decimal.Decimal
	Score        decimal.Decimal // sub-score in [0,100]
	Contribution decimal.Decimal // Weight * Score
}

// EligibilityDecision is the outcome of the approval rules for one profile.
type EligibilityDecision struct {
	CreditScore       int
	MaxEligibleAmount decimal.Decimal
	ApprovalRatio     decimal.Decimal
	ApprovedAmount    decimal.Decimal
	InterestRate      decimal.Decimal
	RiskAssessment    valueobject.RiskTier
	FactorsConsidered []string
}

// AssessmentEngine is a stateless domain service that turns an applicant
// profile into a credit score, an eligibility decision and report figures.
// It is safe for concurrent use.
type AssessmentEngine struct{}

// NewAssessmentEngine creates a new assessment engine.
func NewAssessmentEngine() *AssessmentEngine {
	return &AssessmentEngine{}
}

// ScoreBreakdown returns the five weighted factors behind the credit score.
// Sub-scores are shown to 16 decimal places; the score itself is computed
// from the exact fractions.
func (e *AssessmentEngine) ScoreBreakdown(profile model.ApplicantProfile) []ScoringFactor {
	exact := exactFactors(profile.Normalize())
	factors := make([]ScoringFactor, 0, len(exact))
	for _, f := range exact {
		factors = append(factors, ScoringFactor{
			Name:         f.name,
			Weight:       decimal.NewFromBigRat(f.weight, 2),
			Score:        decimal.NewFromBigRat(f.score, 16),
			Contribution: decimal.NewFromBigRat(new(big.Rat).Mul(f.weight, f.score), 16),
		})
	}
	return factors
}

type exactFactor struct {
	name   string
	weight *big.Rat
	score  *big.Rat
}

// exactFactors evaluates every sub-score as a fraction. The loan ratio is a
// repeating decimal for most incomes.
func exactFactors(p model.ApplicantProfile) []exactFactor {
	ratHundred := big.NewRat(100, 1)

	incomeScore := ratMin(ratHundred,
		new(big.Rat).Mul(p.MonthlyIncome.Rat(), new(big.Rat).Quo(ratHundred, incomeCeiling.Rat())))

	loanRatioScore := new(big.Rat)
	if p.MonthlyIncome.IsPositive() {
		annualIncome := new(big.Rat).Mul(p.MonthlyIncome.Rat(), twelve.Rat())
		share := new(big.Rat).Quo(p.LoanAmount.Rat(), annualIncome)
		loanRatioScore = ratMax(new(big.Rat), new(big.Rat).Sub(ratHundred, share.Mul(share, ratHundred)))
	}

	experienceScore := ratMin(ratHundred,
		new(big.Rat).Mul(big.NewRat(int64(p.WorkExperience), 1), new(big.Rat).Quo(ratHundred, experienceCeiling.Rat())))

	return []exactFactor{
		{name: "income", weight: weightIncome.Rat(), score: incomeScore},
		{name: "employment", weight: weightEmployment.Rat(), score: p.Employment().Score().Rat()},
		{name: "education", weight: weightEducation.Rat(), score: p.Education().Score().Rat()},
		{name: "loan_amount_ratio", weight: weightLoanRatio.Rat(), score: loanRatioScore},
		{name: "work_experience", weight: weightExperience.Rat(), score: experienceScore},
	}
}

func ratMin(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func ratMax(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// ComputeCreditScore maps the weighted composite of the profile's factors
// onto the 300-900 range: 300 + floor(composite / 100 * 600). The composite
// is floored once, as an exact fraction, so a profile that lands on a tier
// boundary keeps it.
func (e *AssessmentEngine) ComputeCreditScore(profile model.ApplicantProfile) int {
	composite := new(big.Rat)
	for _, f := range exactFactors(profile.Normalize()) {
		composite.Add(composite, new(big.Rat).Mul(f.weight, f.score))
	}

	scaled := composite.Mul(composite, big.NewRat(MaxCreditScore-MinCreditScore, 100))
	// Denom is always positive, so Euclidean division floors.
	points := new(big.Int).Div(scaled.Num(), scaled.Denom())

	score := MinCreditScore + int(points.Int64())
	switch {
	case score < MinCreditScore:
		return MinCreditScore
	case score > MaxCreditScore:
		return MaxCreditScore
	}
	return score
}

// AssessEligibility applies the approval, pricing and risk rules.
func (e *AssessmentEngine) AssessEligibility(profile model.ApplicantProfile) EligibilityDecision {
	p := profile.Normalize()
	score := e.ComputeCreditScore(p)

	maxEligible := p.MonthlyIncome.Mul(maxIncomeMultiple)
	ratio := ApprovalRatioFor(score)

	// Floored to the paisa.
	approved := decimal.Min(p.LoanAmount.Mul(ratio), maxEligible).RoundFloor(2)
	if approved.IsNegative() {
		approved = decimal.Zero
	}

	return EligibilityDecision{
		CreditScore:       score,
		MaxEligibleAmount: maxEligible,
		ApprovalRatio:     ratio,
		ApprovedAmount:    approved,
		InterestRate:      InterestRateFor(score),
		RiskAssessment:    RiskTierFor(score),
		FactorsConsidered: factorsConsidered(score, p),
	}
}

// GenerateReportData produces the full report figures for a profile.
func (e *AssessmentEngine) GenerateReportData(profile model.ApplicantProfile) model.AssessmentResult {
	p := profile.Normalize()
	d := e.AssessEligibility(p)

	emi := model.MonthlyInstallment(d.ApprovedAmount, d.InterestRate, p.LoanTenure)

	totalInterest := decimal.Zero
	if d.ApprovedAmount.IsPositive() {
		totalInterest = decimal.Max(decimal.Zero,
			emi.Mul(decimal.NewFromInt(int64(p.LoanTenure))).Sub(d.ApprovedAmount).Round(2))
	}

	debtToIncome := decimal.Zero
	incomeMultiplier := decimal.Zero
	if p.MonthlyIncome.IsPositive() {
		debtToIncome = emi.Div(p.MonthlyIncome).Round(4)
		incomeMultiplier = d.ApprovedAmount.Div(p.MonthlyIncome).Round(4)
	}

	approvalPct := decimal.Zero
	if p.LoanAmount.IsPositive() {
		approvalPct = d.ApprovedAmount.Div(p.LoanAmount).Mul(hundred).Round(2)
	}

	return model.AssessmentResult{
		CreditScore:       d.CreditScore,
		ApprovedAmount:    d.ApprovedAmount,
		InterestRate:      d.InterestRate,
		RiskAssessment:    d.RiskAssessment,
		FactorsConsidered: d.FactorsConsidered,
		MonthlyEMI:        emi,
		TotalInterest:     totalInterest,
		DebtToIncomeRatio: debtToIncome,
		LoanTenure:        p.LoanTenure,
		EligibilitySummary: model.EligibilitySummary{
			IncomeMultiplier:   incomeMultiplier,
			EMIToIncomeRatio:   debtToIncome,
			ApprovalPercentage: approvalPct,
		},
		Recommendations: recommendations(d, p, emi),
	}
}

func factorsConsidered(score int, p model.ApplicantProfile) []string {
	return []string{
		fmt.Sprintf("Credit Score: %d", score),
		fmt.Sprintf("Monthly Income: %s", money.New(p.MonthlyIncome, money.INR).Format()),
		fmt.Sprintf("Loan Amount Requested: %s", money.New(p.LoanAmount, money.INR).Format()),
		fmt.Sprintf("Employment Type: %s", orNotSpecified(p.EmploymentType)),
		fmt.Sprintf("Work Experience: %d years", p.WorkExperience),
		fmt.Sprintf("Education Level: %s", orNotSpecified(p.EducationLevel)),
	}
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not Specified"
	}
	return s
}
