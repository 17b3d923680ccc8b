package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/internal/application/dto"
	"github.com/loanlens/assessment/internal/domain/model"
	"github.com/loanlens/assessment/internal/domain/port"
)

// --- Mock implementations ---

type mockAssessmentRepository struct {
	saveFunc                func(ctx context.Context, a model.Assessment) error
	findByIDFunc            func(ctx context.Context, id string) (model.Assessment, error)
	findByApplicationIDFunc func(ctx context.Context, applicationID string) (model.Assessment, error)
	saved                   []model.Assessment
}

func (m *mockAssessmentRepository) Save(ctx context.Context, a model.Assessment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAssessmentRepository) FindByID(ctx context.Context, id string) (model.Assessment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Assessment{}, port.ErrAssessmentNotFound
}

func (m *mockAssessmentRepository) FindByApplicationID(ctx context.Context, applicationID string) (model.Assessment, error) {
	if m.findByApplicationIDFunc != nil {
		return m.findByApplicationIDFunc(ctx, applicationID)
	}
	return model.Assessment{}, port.ErrAssessmentNotFound
}

type mockAssessmentCache struct {
	getFunc func(ctx context.Context, id string) (model.Assessment, bool, error)
	setErr  error
	set     []model.Assessment
	deleted []string
}

func (m *mockAssessmentCache) Get(ctx context.Context, id string) (model.Assessment, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return model.Assessment{}, false, nil
}

func (m *mockAssessmentCache) Set(_ context.Context, a model.Assessment) error {
	m.set = append(m.set, a)
	return m.setErr
}

func (m *mockAssessmentCache) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockMetrics struct {
	assessments []string
	unlocked    int
}

func (m *mockMetrics) ObserveAssessment(risk string, _ int, _ time.Duration) {
	m.assessments = append(m.assessments, risk)
}

func (m *mockMetrics) IncReportsUnlocked() { m.unlocked++ }

// --- Fixtures ---

var reportFee = decimal.NewFromInt(120)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validProfileInput() dto.ProfileInput {
	return dto.ProfileInput{
		MonthlyIncome:  decimal.NewFromInt(50_000),
		EmploymentType: "full_time",
		EducationLevel: "graduate",
		WorkExperience: 5,
		LoanAmount:     decimal.NewFromInt(500_000),
		LoanTenure:     24,
	}
}

func validAssessRequest() dto.AssessApplicationRequest {
	return dto.AssessApplicationRequest{
		ApplicationID: "app-001",
		ApplicantID:   "applicant-001",
		Applicant: dto.ApplicantDetails{
			FullName:      "Ravi Kumar",
			Email:         "ravi.kumar@example.in",
			Phone:         "9876543210",
			DateOfBirth:   "1988-09-30",
			PANNumber:     "PQRSX6789K",
			AadhaarNumber: "998877665544",
			AddressLine1:  "4 Park Street",
			City:          "Kolkata",
			State:         "West Bengal",
			Pincode:       "700016",
		},
		Profile: validProfileInput(),
	}
}

func storedAssessment(applicationID string) model.Assessment {
	a, err := model.NewAssessment(applicationID, "applicant-001", model.ApplicantProfile{
		MonthlyIncome:  decimal.NewFromInt(50_000),
		EmploymentType: "full_time",
		EducationLevel: "graduate",
		WorkExperience: 5,
		LoanAmount:     decimal.NewFromInt(500_000),
		LoanTenure:     24,
	}, model.AssessmentResult{
		CreditScore:     681,
		ApprovedAmount:  decimal.NewFromInt(400_000),
		InterestRate:    decimal.NewFromInt(16),
		MonthlyEMI:      decimal.RequireFromString("19585.25"),
		LoanTenure:      24,
		Recommendations: []string{},
	}, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	return a.ClearEvents()
}
