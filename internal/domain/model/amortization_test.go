package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanlens/assessment/internal/domain/model"
)

func TestMonthlyInstallment(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		term      int
		want      string
	}{
		{"moderate tier two years", decimal.NewFromInt(400_000), decimal.NewFromInt(16), 24, "19585.25"},
		{"low tier three years", decimal.NewFromInt(1_200_000), decimal.NewFromInt(12), 36, "39857.18"},
		{"zero principal", decimal.Zero, decimal.NewFromInt(12), 36, "0"},
		{"zero term", decimal.NewFromInt(1000), decimal.NewFromInt(12), 0, "0"},
		{"zero rate splits evenly", decimal.NewFromInt(1200), decimal.Zero, 12, "100"},
		{"zero rate rounds up", decimal.NewFromInt(100), decimal.Zero, 3, "33.34"},
		{"sub-paisa instalment rounds up", decimal.RequireFromString("0.5"), decimal.NewFromInt(10), 360, "0.01"},
		{"small principal", decimal.NewFromInt(100), decimal.NewFromInt(10), 12, "8.80"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.MonthlyInstallment(tt.principal, tt.rate, tt.term)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestGenerateAmortizationSchedule_30YearMortgage(t *testing.T) {
	principal := decimal.NewFromInt(100_000)
	startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	schedule := model.GenerateAmortizationSchedule(principal, decimal.NewFromInt(5), 360, startDate)

	require.Len(t, schedule, 360)

	first := schedule[0]
	assert.Equal(t, 1, first.Period)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), first.DueDate)
	assert.True(t, first.Total.Equal(decimal.RequireFromString("536.83")), "got %s", first.Total)
	assert.True(t, first.Interest.Equal(decimal.RequireFromString("416.67")), "got %s", first.Interest)

	last := schedule[len(schedule)-1]
	assert.Equal(t, 360, last.Period)
	assert.True(t, last.RemainingBalance.IsZero(), "got %s", last.RemainingBalance)

	totalPrincipal := decimal.Zero
	for _, entry := range schedule {
		totalPrincipal = totalPrincipal.Add(entry.Principal)
	}
	assert.True(t, totalPrincipal.Equal(principal), "got %s", totalPrincipal)
}

func TestGenerateAmortizationSchedule_ShortTerm(t *testing.T) {
	principal := decimal.NewFromInt(400_000)
	start := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	schedule := model.GenerateAmortizationSchedule(principal, decimal.NewFromInt(16), 24, start)
	require.Len(t, schedule, 24)

	assert.True(t, schedule[0].Interest.Equal(decimal.RequireFromString("5333.33")))
	assert.True(t, schedule[0].Total.Equal(decimal.RequireFromString("19585.25")))

	for i := 1; i < len(schedule); i++ {
		assert.True(t, schedule[i].RemainingBalance.LessThan(schedule[i-1].RemainingBalance))
		assert.True(t, schedule[i].Interest.LessThanOrEqual(schedule[i-1].Interest))
	}
	assert.True(t, schedule[23].RemainingBalance.IsZero())
}

func TestMonthlyInstallment_CoversPrincipal(t *testing.T) {
	for _, principal := range []string{"0.01", "0.5", "1", "99.99", "100.005", "123456.78"} {
		for _, rate := range []int64{10, 12, 14, 16, 18, 20} {
			for _, term := range []int{1, 12, 60, 360} {
				p := decimal.RequireFromString(principal)
				emi := model.MonthlyInstallment(p, decimal.NewFromInt(rate), term)
				assert.True(t, emi.Mul(decimal.NewFromInt(int64(term))).GreaterThan(p),
					"principal %s rate %d term %d: emi %s", principal, rate, term, emi)
			}
		}
	}
}

func TestGenerateAmortizationSchedule_Empty(t *testing.T) {
	now := time.Now()
	assert.Nil(t, model.GenerateAmortizationSchedule(decimal.Zero, decimal.NewFromInt(10), 12, now))
	assert.Nil(t, model.GenerateAmortizationSchedule(decimal.NewFromInt(1000), decimal.NewFromInt(10), 0, now))
}
