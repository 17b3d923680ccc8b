package service

import (
	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/internal/domain/model"
)

const (
	RecommendImproveScore   = "Consider improving your credit score to get better loan terms."
	RecommendReduceAmount   = "The approved loan amount is less than requested. Consider reducing the loan amount or improving your eligibility factors."
	RecommendLongerTenure   = "The EMI is high compared to your income. Consider a longer tenure or lower loan amount."
	RecommendCoApplicant    = "Adding a co-applicant with good credit history might improve loan eligibility."
	RecommendIncreaseIncome = "Consider ways to increase your income to improve loan eligibility."
)

var (
	emiIncomeLimit     = decimal.RequireFromString("0.5")
	lowIncomeThreshold = decimal.NewFromInt(50_000)
)

// recommendations returns advice in a fixed order. The result is never nil.
func recommendations(d EligibilityDecision, p model.ApplicantProfile, emi decimal.Decimal) []string {
	recs := make([]string, 0, 5)

	if d.CreditScore < 750 {
		recs = append(recs, RecommendImproveScore)
	}
	if d.ApprovedAmount.LessThan(p.LoanAmount) {
		recs = append(recs, RecommendReduceAmount)
	}
	if emi.GreaterThan(p.MonthlyIncome.Mul(emiIncomeLimit)) {
		recs = append(recs, RecommendLongerTenure)
	}
	if d.CreditScore < 650 {
		recs = append(recs, RecommendCoApplicant)
	}
	if p.MonthlyIncome.LessThan(lowIncomeThreshold) {
		recs = append(recs, RecommendIncreaseIncome)
	}

	return recs
}
