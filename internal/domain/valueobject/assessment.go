package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// RiskTier – immutable value object
// ---------------------------------------------------------------------------

// RiskTier is the categorical risk bucket derived from a credit score.
type RiskTier struct {
	value string
}

const (
	riskLow      = "low"
	riskModerate = "moderate"
	riskHigh     = "high"
	riskVeryHigh = "very_high"
)

var (
	RiskTierLow      = RiskTier{value: riskLow}
	RiskTierModerate = RiskTier{value: riskModerate}
	RiskTierHigh     = RiskTier{value: riskHigh}
	RiskTierVeryHigh = RiskTier{value: riskVeryHigh}
)

var validRiskTiers = map[string]RiskTier{
	riskLow:      RiskTierLow,
	riskModerate: RiskTierModerate,
	riskHigh:     RiskTierHigh,
	riskVeryHigh: RiskTierVeryHigh,
}

// NewRiskTier creates a RiskTier from a raw string.
func NewRiskTier(s string) (RiskTier, error) {
	v, ok := validRiskTiers[s]
	if !ok {
		return RiskTier{}, fmt.Errorf("invalid risk tier: %q", s)
	}
	return v, nil
}

// String returns the string representation of the tier.
func (r RiskTier) String() string { return r.value }

// IsZero returns true if the tier has not been initialised.
func (r RiskTier) IsZero() bool { return r.value == "" }

// Equal returns true when both tiers carry the same value.
func (r RiskTier) Equal(other RiskTier) bool { return r.value == other.value }

// ---------------------------------------------------------------------------
// AssessmentStatus – immutable value object
// ---------------------------------------------------------------------------

// AssessmentStatus represents the lifecycle stage of a stored assessment.
type AssessmentStatus struct {
	value string
}

const (
	assessmentStatusCompleted      = "COMPLETED"
	assessmentStatusReportUnlocked = "REPORT_UNLOCKED"
)

var (
	AssessmentStatusCompleted      = AssessmentStatus{value: assessmentStatusCompleted}
	AssessmentStatusReportUnlocked = AssessmentStatus{value: assessmentStatusReportUnlocked}
)

var validAssessmentStatuses = map[string]AssessmentStatus{
	assessmentStatusCompleted:      AssessmentStatusCompleted,
	assessmentStatusReportUnlocked: AssessmentStatusReportUnlocked,
}

// NewAssessmentStatus creates an AssessmentStatus from a raw string.
func NewAssessmentStatus(s string) (AssessmentStatus, error) {
	v, ok := validAssessmentStatuses[s]
	if !ok {
		return AssessmentStatus{}, fmt.Errorf("invalid assessment status: %q", s)
	}
	return v, nil
}

// String returns the string representation.
func (s AssessmentStatus) String() string { return s.value }

// IsZero returns true when not initialised.
func (s AssessmentStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses match.
func (s AssessmentStatus) Equal(other AssessmentStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
