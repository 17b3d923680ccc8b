package model

import (
	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/internal/domain/valueobject"
)

// DefaultLoanTenure is applied when a profile carries no positive tenure.
const DefaultLoanTenure = 12

// ApplicantProfile is the engine input: the financial attributes of one
// applicant for one loan request. EmploymentType and EducationLevel hold the
// raw text supplied by the applicant; it is echoed back in reports.
type ApplicantProfile struct {
	MonthlyIncome  decimal.Decimal
	EmploymentType string
	EducationLevel string
	WorkExperience int
	LoanAmount     decimal.Decimal
	LoanTenure     int
}

// Normalize returns a copy with negative amounts and experience clamped to
// zero and a non-positive tenure replaced by DefaultLoanTenure.
func (p ApplicantProfile) Normalize() ApplicantProfile {
	next := p
	if next.MonthlyIncome.IsNegative() {
		next.MonthlyIncome = decimal.Zero
	}
	if next.LoanAmount.IsNegative() {
		next.LoanAmount = decimal.Zero
	}
	if next.WorkExperience < 0 {
		next.WorkExperience = 0
	}
	if next.LoanTenure <= 0 {
		next.LoanTenure = DefaultLoanTenure
	}
	return next
}

// Employment returns the parsed employment category.
func (p ApplicantProfile) Employment() valueobject.EmploymentType {
	return valueobject.ParseEmploymentType(p.EmploymentType)
}

// Education returns the parsed education category.
func (p ApplicantProfile) Education() valueobject.EducationLevel {
	return valueobject.ParseEducationLevel(p.EducationLevel)
}
