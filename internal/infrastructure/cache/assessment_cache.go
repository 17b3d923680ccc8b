package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/internal/domain/model"
	"github.com/loanlens/assessment/internal/domain/valueobject"
)

const keyPrefix = "assessment:"

// AssessmentCache implements port.AssessmentCache on top of a Store,
// serialising aggregates as JSON.
type AssessmentCache struct {
	store Store
	ttl   time.Duration
}

// NewAssessmentCache creates a cache whose entries expire after ttl.
func NewAssessmentCache(store Store, ttl time.Duration) *AssessmentCache {
	return &AssessmentCache{store: store, ttl: ttl}
}

type cachedProfile struct {
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	EmploymentType string          `json:"employment_type"`
	EducationLevel string          `json:"education_level"`
	WorkExperience int             `json:"work_experience"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	LoanTenure     int             `json:"loan_tenure"`
}

type cachedAssessment struct {
	ID                 string          `json:"id"`
	ApplicationID      string          `json:"application_id"`
	ApplicantID        string          `json:"applicant_id"`
	Profile            cachedProfile   `json:"profile"`
	CreditScore        int             `json:"credit_score"`
	ApprovedAmount     decimal.Decimal `json:"approved_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	RiskAssessment     string          `json:"risk_assessment"`
	FactorsConsidered  []string        `json:"factors_considered"`
	MonthlyEMI         decimal.Decimal `json:"monthly_emi"`
	TotalInterest      decimal.Decimal `json:"total_interest"`
	DebtToIncomeRatio  decimal.Decimal `json:"debt_to_income_ratio"`
	LoanTenure         int             `json:"loan_tenure"`
	IncomeMultiplier   decimal.Decimal `json:"income_multiplier"`
	EMIToIncomeRatio   decimal.Decimal `json:"emi_to_income_ratio"`
	ApprovalPercentage decimal.Decimal `json:"approval_percentage"`
	Recommendations    []string        `json:"recommendations"`
	Status             string          `json:"status"`
	PaymentID          string          `json:"payment_id,omitempty"`
	PaymentAmount      decimal.Decimal `json:"payment_amount"`
	UnlockedAt         time.Time       `json:"unlocked_at"`
	Version            int             `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Get returns the cached assessment, reporting false on a miss.
func (c *AssessmentCache) Get(ctx context.Context, id string) (model.Assessment, bool, error) {
	raw, ok, err := c.store.Get(ctx, keyPrefix+id)
	if err != nil || !ok {
		return model.Assessment{}, false, err
	}

	var rec cachedAssessment
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.Assessment{}, false, fmt.Errorf("decode cached assessment: %w", err)
	}
	a, err := rec.toModel()
	if err != nil {
		return model.Assessment{}, false, err
	}
	return a, true, nil
}

// Set stores a for the configured TTL.
func (c *AssessmentCache) Set(ctx context.Context, a model.Assessment) error {
	raw, err := json.Marshal(fromModel(a))
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}
	return c.store.Set(ctx, keyPrefix+a.ID(), raw, c.ttl)
}

// Delete evicts the entry for id.
func (c *AssessmentCache) Delete(ctx context.Context, id string) error {
	return c.store.Del(ctx, keyPrefix+id)
}

func fromModel(a model.Assessment) cachedAssessment {
	p := a.Profile()
	r := a.Result()
	return cachedAssessment{
		ID:            a.ID(),
		ApplicationID: a.ApplicationID(),
		ApplicantID:   a.ApplicantID(),
		Profile: cachedProfile{
			MonthlyIncome:  p.MonthlyIncome,
			EmploymentType: p.EmploymentType,
			EducationLevel: p.EducationLevel,
			WorkExperience: p.WorkExperience,
			LoanAmount:     p.LoanAmount,
			LoanTenure:     p.LoanTenure,
		},
		CreditScore:        r.CreditScore,
		ApprovedAmount:     r.ApprovedAmount,
		InterestRate:       r.InterestRate,
		RiskAssessment:     r.RiskAssessment.String(),
		FactorsConsidered:  r.FactorsConsidered,
		MonthlyEMI:         r.MonthlyEMI,
		TotalInterest:      r.TotalInterest,
		DebtToIncomeRatio:  r.DebtToIncomeRatio,
		LoanTenure:         r.LoanTenure,
		IncomeMultiplier:   r.EligibilitySummary.IncomeMultiplier,
		EMIToIncomeRatio:   r.EligibilitySummary.EMIToIncomeRatio,
		ApprovalPercentage: r.EligibilitySummary.ApprovalPercentage,
		Recommendations:    r.Recommendations,
		Status:             a.Status().String(),
		PaymentID:          a.PaymentID(),
		PaymentAmount:      a.PaymentAmount(),
		UnlockedAt:         a.UnlockedAt(),
		Version:            a.Version(),
		CreatedAt:          a.CreatedAt(),
		UpdatedAt:          a.UpdatedAt(),
	}
}

func (rec cachedAssessment) toModel() (model.Assessment, error) {
	risk, err := valueobject.NewRiskTier(rec.RiskAssessment)
	if err != nil {
		return model.Assessment{}, fmt.Errorf("decode cached assessment: %w", err)
	}
	status, err := valueobject.NewAssessmentStatus(rec.Status)
	if err != nil {
		return model.Assessment{}, fmt.Errorf("decode cached assessment: %w", err)
	}

	return model.ReconstructAssessment(
		rec.ID, rec.ApplicationID, rec.ApplicantID,
		model.ApplicantProfile{
			MonthlyIncome:  rec.Profile.MonthlyIncome,
			EmploymentType: rec.Profile.EmploymentType,
			EducationLevel: rec.Profile.EducationLevel,
			WorkExperience: rec.Profile.WorkExperience,
			LoanAmount:     rec.Profile.LoanAmount,
			LoanTenure:     rec.Profile.LoanTenure,
		},
		model.AssessmentResult{
			CreditScore:       rec.CreditScore,
			ApprovedAmount:    rec.ApprovedAmount,
			InterestRate:      rec.InterestRate,
			RiskAssessment:    risk,
			FactorsConsidered: rec.FactorsConsidered,
			MonthlyEMI:        rec.MonthlyEMI,
			TotalInterest:     rec.TotalInterest,
			DebtToIncomeRatio: rec.DebtToIncomeRatio,
			LoanTenure:        rec.LoanTenure,
			EligibilitySummary: model.EligibilitySummary{
				IncomeMultiplier:   rec.IncomeMultiplier,
				EMIToIncomeRatio:   rec.EMIToIncomeRatio,
				ApprovalPercentage: rec.ApprovalPercentage,
			},
			Recommendations: rec.Recommendations,
		},
		status, rec.PaymentID, rec.PaymentAmount, rec.UnlockedAt.UTC(),
		rec.Version, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
	), nil
}
