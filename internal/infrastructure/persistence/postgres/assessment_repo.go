package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/internal/domain/model"
	"github.com/loanlens/assessment/internal/domain/port"
	"github.com/loanlens/assessment/internal/domain/valueobject"
	"github.com/loanlens/assessment/pkg/events"
	pgpkg "github.com/loanlens/assessment/pkg/postgres"
)

// ErrVersionConflict is returned when an assessment was modified concurrently.
var ErrVersionConflict = errors.New("optimistic locking conflict on assessment")

const (
	uniqueViolation             = "23505"
	applicationUniqueConstraint = "assessments_application_id_key"
)

// AssessmentRepo implements port.AssessmentRepository.
type AssessmentRepo struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepo creates a new repository backed by PostgreSQL.
func NewAssessmentRepo(pool *pgxpool.Pool) *AssessmentRepo {
	return &AssessmentRepo{pool: pool}
}

const selectColumns = `
	id, application_id, applicant_id,
	monthly_income, employment_type, education_level, work_experience, loan_amount, loan_tenure,
	credit_score, approved_amount, interest_rate, risk_assessment,
	monthly_emi, total_interest, debt_to_income_ratio,
	income_multiplier, emi_to_income_ratio, approval_percentage,
	factors_considered, recommendations,
	status, payment_id, payment_amount, unlocked_at, version, created_at, updated_at`

// Save upserts an assessment with optimistic locking. The audit log entry and
// the aggregate's pending domain events are written in the same transaction;
// events reach the broker through the outbox relay. A second assessment for
// an already assessed application fails with port.ErrDuplicateApplication.
func (r *AssessmentRepo) Save(ctx context.Context, a model.Assessment) error {
	p := a.Profile()
	res := a.Result()

	factors, err := json.Marshal(nonNil(res.FactorsConsidered))
	if err != nil {
		return fmt.Errorf("marshal factors: %w", err)
	}
	recs, err := json.Marshal(nonNil(res.Recommendations))
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	details, err := json.Marshal(map[string]any{
		"status":         a.Status().String(),
		"credit_score":   res.CreditScore,
		"risk":           res.RiskAssessment.String(),
		"payment_id":     a.PaymentID(),
		"payment_amount": a.PaymentAmount(),
	})
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	var unlockedAt *time.Time
	if t := a.UnlockedAt(); !t.IsZero() {
		unlockedAt = &t
	}

	upsert := `
		INSERT INTO assessments (
			id, application_id, applicant_id,
			monthly_income, employment_type, education_level, work_experience, loan_amount, loan_tenure,
			credit_score, approved_amount, interest_rate, risk_assessment,
			monthly_emi, total_interest, debt_to_income_ratio,
			income_multiplier, emi_to_income_ratio, approval_percentage,
			factors_considered, recommendations,
			status, payment_id, payment_amount, unlocked_at, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)
		ON CONFLICT (id) DO UPDATE SET
			status         = EXCLUDED.status,
			payment_id     = EXCLUDED.payment_id,
			payment_amount = EXCLUDED.payment_amount,
			unlocked_at    = EXCLUDED.unlocked_at,
			version        = assessments.version + 1,
			updated_at     = EXCLUDED.updated_at
		WHERE assessments.version = $26
	`

	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, upsert,
			a.ID(), a.ApplicationID(), a.ApplicantID(),
			p.MonthlyIncome, p.EmploymentType, p.EducationLevel, p.WorkExperience, p.LoanAmount, p.LoanTenure,
			res.CreditScore, res.ApprovedAmount, res.InterestRate, res.RiskAssessment.String(),
			res.MonthlyEMI, res.TotalInterest, res.DebtToIncomeRatio,
			res.EligibilitySummary.IncomeMultiplier, res.EligibilitySummary.EMIToIncomeRatio,
			res.EligibilitySummary.ApprovalPercentage,
			factors, recs,
			a.Status().String(), a.PaymentID(), a.PaymentAmount(), unlockedAt, a.Version(), a.CreatedAt(), a.UpdatedAt(),
		)
		if err != nil {
			if isApplicationConflict(err) {
				return port.ErrDuplicateApplication
			}
			return fmt.Errorf("save assessment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrVersionConflict
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO assessment_audit_log (assessment_id, action, details, created_at) VALUES ($1,$2,$3,$4)`,
			a.ID(), auditAction(a), details, a.UpdatedAt(),
		); err != nil {
			return fmt.Errorf("write audit log: %w", err)
		}

		return writeOutbox(ctx, tx, a.DomainEvents())
	})
}

func writeOutbox(ctx context.Context, tx pgx.Tx, evts []events.DomainEvent) error {
	for _, evt := range evts {
		entry, err := events.NewOutboxEntry(evt)
		if err != nil {
			return fmt.Errorf("build outbox entry: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, entry.ID, entry.AggregateID, entry.AggregateType, entry.EventType, entry.Payload, entry.CreatedAt); err != nil {
			return fmt.Errorf("insert outbox event: %w", err)
		}
	}
	return nil
}

func isApplicationConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == uniqueViolation &&
		pgErr.ConstraintName == applicationUniqueConstraint
}

// FindByID retrieves a single assessment.
func (r *AssessmentRepo) FindByID(ctx context.Context, id string) (model.Assessment, error) {
	return findOne(ctx, r.pool, `SELECT `+selectColumns+` FROM assessments WHERE id = $1`, id)
}

// FindByApplicationID retrieves the assessment recorded for an application.
func (r *AssessmentRepo) FindByApplicationID(ctx context.Context, applicationID string) (model.Assessment, error) {
	return findOne(ctx, r.pool, `SELECT `+selectColumns+` FROM assessments WHERE application_id = $1`, applicationID)
}

func auditAction(a model.Assessment) string {
	if a.IsReportUnlocked() {
		return "report_unlocked"
	}
	return "assessment_completed"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func findOne(ctx context.Context, q pgpkg.Querier, query string, args ...any) (model.Assessment, error) {
	a, err := scanAssessment(q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Assessment{}, port.ErrAssessmentNotFound
	}
	return a, err
}

func scanAssessment(s scannable) (model.Assessment, error) {
	var (
		id, applicationID, applicantID string
		p                              model.ApplicantProfile
		res                            model.AssessmentResult
		riskStr, statusStr, paymentID  string
		paymentAmount                  decimal.Decimal
		factors, recs                  []byte
		unlockedAt                     *time.Time
		version                        int
		createdAt, updatedAt           time.Time
		multiplier, emiRatio, pct      decimal.Decimal
	)

	err := s.Scan(
		&id, &applicationID, &applicantID,
		&p.MonthlyIncome, &p.EmploymentType, &p.EducationLevel, &p.WorkExperience, &p.LoanAmount, &p.LoanTenure,
		&res.CreditScore, &res.ApprovedAmount, &res.InterestRate, &riskStr,
		&res.MonthlyEMI, &res.TotalInterest, &res.DebtToIncomeRatio,
		&multiplier, &emiRatio, &pct,
		&factors, &recs,
		&statusStr, &paymentID, &paymentAmount, &unlockedAt, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Assessment{}, err
		}
		return model.Assessment{}, fmt.Errorf("scan assessment: %w", err)
	}

	res.RiskAssessment, err = valueobject.NewRiskTier(riskStr)
	if err != nil {
		return model.Assessment{}, fmt.Errorf("parse risk: %w", err)
	}
	status, err := valueobject.NewAssessmentStatus(statusStr)
	if err != nil {
		return model.Assessment{}, fmt.Errorf("parse status: %w", err)
	}
	if err := json.Unmarshal(factors, &res.FactorsConsidered); err != nil {
		return model.Assessment{}, fmt.Errorf("decode factors: %w", err)
	}
	if err := json.Unmarshal(recs, &res.Recommendations); err != nil {
		return model.Assessment{}, fmt.Errorf("decode recommendations: %w", err)
	}
	res.LoanTenure = p.LoanTenure
	res.EligibilitySummary = model.EligibilitySummary{
		IncomeMultiplier:   multiplier,
		EMIToIncomeRatio:   emiRatio,
		ApprovalPercentage: pct,
	}

	var unlocked time.Time
	if unlockedAt != nil {
		unlocked = *unlockedAt
	}

	return model.ReconstructAssessment(
		id, applicationID, applicantID,
		p, res, status, paymentID, paymentAmount, unlocked,
		version, createdAt, updatedAt,
	), nil
}
