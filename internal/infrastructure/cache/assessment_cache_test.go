package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanlens/assessment/internal/domain/model"
	"github.com/loanlens/assessment/internal/domain/service"
	"github.com/loanlens/assessment/pkg/testutil"
)

// memoryStore is an in-memory Store for tests.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	err     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memoryStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func newAssessment(t *testing.T) model.Assessment {
	t.Helper()
	profile := model.ApplicantProfile{
		MonthlyIncome:  decimal.NewFromInt(120_000),
		EmploymentType: "business_owner",
		EducationLevel: "post_graduate",
		WorkExperience: 12,
		LoanAmount:     decimal.NewFromInt(2_000_000),
		LoanTenure:     60,
	}
	a, err := model.NewAssessment("app-c1", "applicant-c1", profile,
		service.NewAssessmentEngine().GenerateReportData(profile),
		time.Date(2026, 5, 5, 8, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	return a.ClearEvents()
}

func TestAssessmentCache_RoundTrip(t *testing.T) {
	store := newMemoryStore()
	c := NewAssessmentCache(store, 10*time.Minute)
	ctx := context.Background()
	a := newAssessment(t)

	require.NoError(t, c.Set(ctx, a))
	assert.Equal(t, 10*time.Minute, store.ttls["assessment:"+a.ID()])

	got, ok, err := c.Get(ctx, a.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.ID(), got.ID())
	assert.Equal(t, a.CreatedAt(), got.CreatedAt())
	assert.Equal(t, a.Result().CreditScore, got.Result().CreditScore)
	testutil.AssertDecimalEqual(t, a.Result().MonthlyEMI.String(), got.Result().MonthlyEMI)
	testutil.AssertDecimalEqual(t, "120000", got.Profile().MonthlyIncome)
	assert.True(t, a.Result().RiskAssessment.Equal(got.Result().RiskAssessment))
	assert.Equal(t, a.Result().FactorsConsidered, got.Result().FactorsConsidered)
	assert.True(t, a.Status().Equal(got.Status()))
	assert.Equal(t, a.Profile().EmploymentType, got.Profile().EmploymentType)
}

func TestAssessmentCache_UnlockedRoundTrip(t *testing.T) {
	c := NewAssessmentCache(newMemoryStore(), time.Minute)
	ctx := context.Background()
	a, err := newAssessment(t).UnlockReport("pay-c1", decimal.NewFromInt(120), time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, a))
	got, ok, err := c.Get(ctx, a.ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.IsReportUnlocked())
	assert.Equal(t, "pay-c1", got.PaymentID())
	testutil.AssertDecimalEqual(t, "120", got.PaymentAmount())
	assert.Equal(t, a.UnlockedAt(), got.UnlockedAt())
}

func TestAssessmentCache_MissAndDelete(t *testing.T) {
	c := NewAssessmentCache(newMemoryStore(), time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	a := newAssessment(t)
	require.NoError(t, c.Set(ctx, a))
	require.NoError(t, c.Delete(ctx, a.ID()))

	_, ok, err = c.Get(ctx, a.ID())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssessmentCache_StoreErrorsAndCorruptEntries(t *testing.T) {
	store := newMemoryStore()
	c := NewAssessmentCache(store, time.Minute)
	ctx := context.Background()

	store.entries["assessment:bad"] = []byte("not json")
	_, ok, err := c.Get(ctx, "bad")
	assert.Error(t, err)
	assert.False(t, ok)

	store.err = errors.New("connection refused")
	_, ok, err = c.Get(ctx, "any")
	assert.Error(t, err)
	assert.False(t, ok)
}
