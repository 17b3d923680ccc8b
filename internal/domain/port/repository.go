package port

import (
	"context"
	"errors"
	"time"

	"github.com/loanlens/assessment/internal/domain/model"
)

// ErrAssessmentNotFound is returned when no assessment matches a lookup.
var ErrAssessmentNotFound = errors.New("assessment not found")

// ErrDuplicateApplication is returned by Save when another assessment was
// recorded for the same application first.
var ErrDuplicateApplication = errors.New("application already assessed")

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// AssessmentRepository persists and retrieves assessments. Save records the
// aggregate's pending domain events atomically with its state; they are
// delivered to consumers afterwards.
type AssessmentRepository interface {
	Save(ctx context.Context, a model.Assessment) error
	FindByID(ctx context.Context, id string) (model.Assessment, error)
	FindByApplicationID(ctx context.Context, applicationID string) (model.Assessment, error)
}

// AssessmentCache is a read-through cache in front of the repository. A miss
// is reported as (zero, false, nil).
type AssessmentCache interface {
	Get(ctx context.Context, id string) (model.Assessment, bool, error)
	Set(ctx context.Context, a model.Assessment) error
	Delete(ctx context.Context, id string) error
}

// ---------------------------------------------------------------------------
// Metrics port
// ---------------------------------------------------------------------------

// MetricsRecorder receives business measurements from use cases.
type MetricsRecorder interface {
	ObserveAssessment(risk string, creditScore int, took time.Duration)
	IncReportsUnlocked()
}
