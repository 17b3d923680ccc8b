package usecase

import (
	"go.opentelemetry.io/otel"

	"github.com/loanlens/assessment/internal/application/dto"
	"github.com/loanlens/assessment/internal/domain/model"
	"github.com/loanlens/assessment/internal/domain/service"
)

var tracer = otel.Tracer("github.com/loanlens/assessment/internal/application/usecase")

func toProfile(in dto.ProfileInput) model.ApplicantProfile {
	return model.ApplicantProfile{
		MonthlyIncome:  in.MonthlyIncome,
		EmploymentType: in.EmploymentType,
		EducationLevel: in.EducationLevel,
		WorkExperience: in.WorkExperience,
		LoanAmount:     in.LoanAmount,
		LoanTenure:     in.LoanTenure,
	}
}

func toResultResponse(r model.AssessmentResult) dto.AssessmentResultResponse {
	factors := r.FactorsConsidered
	if factors == nil {
		factors = []string{}
	}
	recs := r.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return dto.AssessmentResultResponse{
		CreditScore:       r.CreditScore,
		ApprovedAmount:    r.ApprovedAmount,
		InterestRate:      r.InterestRate,
		RiskAssessment:    r.RiskAssessment.String(),
		FactorsConsidered: factors,
		MonthlyEMI:        r.MonthlyEMI,
		TotalInterest:     r.TotalInterest,
		DebtToIncomeRatio: r.DebtToIncomeRatio,
		LoanTenure:        r.LoanTenure,
		EligibilitySummary: dto.EligibilitySummaryResponse{
			IncomeMultiplier:   r.EligibilitySummary.IncomeMultiplier,
			EMIToIncomeRatio:   r.EligibilitySummary.EMIToIncomeRatio,
			ApprovalPercentage: r.EligibilitySummary.ApprovalPercentage,
		},
		Recommendations: recs,
	}
}

func toScheduleResponse(entries []model.AmortizationEntry) []dto.AmortizationEntryResponse {
	if len(entries) == 0 {
		return nil
	}
	out := make([]dto.AmortizationEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = dto.AmortizationEntryResponse{
			Period:           e.Period,
			DueDate:          e.DueDate,
			Principal:        e.Principal,
			Interest:         e.Interest,
			Total:            e.Total,
			RemainingBalance: e.RemainingBalance,
		}
	}
	return out
}

func toBreakdownResponse(factors []service.ScoringFactor) []dto.ScoringFactorResponse {
	out := make([]dto.ScoringFactorResponse, len(factors))
	for i, f := range factors {
		out[i] = dto.ScoringFactorResponse{
			Name:         f.Name,
			Weight:       f.Weight,
			Score:        f.Score.Round(2),
			Contribution: f.Contribution.Round(2),
		}
	}
	return out
}

// toAssessmentResponse maps an aggregate. The repayment schedule is part of
// the paid report and is only included once the report is unlocked.
func toAssessmentResponse(a model.Assessment) dto.AssessmentResponse {
	resp := dto.AssessmentResponse{
		ID:            a.ID(),
		ApplicationID: a.ApplicationID(),
		ApplicantID:   a.ApplicantID(),
		Status:        a.Status().String(),
		PaymentID:     a.PaymentID(),
		PaymentAmount: a.PaymentAmount(),
		Result:        toResultResponse(a.Result()),
		Version:       a.Version(),
		CreatedAt:     a.CreatedAt(),
		UpdatedAt:     a.UpdatedAt(),
	}
	if a.IsReportUnlocked() {
		resp.Schedule = toScheduleResponse(a.Report().Schedule)
	}
	return resp
}
