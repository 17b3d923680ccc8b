package service

import (
	"github.com/shopspring/decimal"

	"github.com/loanlens/assessment/internal/domain/valueobject"
)

// tier maps every credit score at or above min to value. Tier tables are
// sorted by descending min and end with a catch-all entry.
type tier[T any] struct {
	min   int
	value T
}

func lookup[T any](tiers []tier[T], score int) T {
	for _, t := range tiers {
		if score >= t.min {
			return t.value
		}
	}
	return tiers[len(tiers)-1].value
}

var approvalRatioTiers = []tier[decimal.Decimal]{
	{min: 750, value: decimal.NewFromInt(1)},
	{min: 650, value: decimal.RequireFromString("0.80")},
	{min: 550, value: decimal.RequireFromString("0.60")},
	{min: MinCreditScore, value: decimal.Zero},
}

var interestRateTiers = []tier[decimal.Decimal]{
	{min: 800, value: decimal.RequireFromString("10.0")},
	{min: 750, value: decimal.RequireFromString("12.0")},
	{min: 700, value: decimal.RequireFromString("14.0")},
	{min: 650, value: decimal.RequireFromString("16.0")},
	{min: 600, value: decimal.RequireFromString("18.0")},
	{min: MinCreditScore, value: decimal.RequireFromString("20.0")},
}

var riskTiers = []tier[valueobject.RiskTier]{
	{min: 750, value: valueobject.RiskTierLow},
	{min: 650, value: valueobject.RiskTierModerate},
	{min: 550, value: valueobject.RiskTierHigh},
	{min: MinCreditScore, value: valueobject.RiskTierVeryHigh},
}

// ApprovalRatioFor returns the fraction of the requested amount that may be
// approved at the given score.
func ApprovalRatioFor(score int) decimal.Decimal { return lookup(approvalRatioTiers, score) }

// InterestRateFor returns the annual interest rate, in percent, offered at
// the given score.
func InterestRateFor(score int) decimal.Decimal { return lookup(interestRateTiers, score) }

// RiskTierFor returns the risk bucket for the given score.
func RiskTierFor(score int) valueobject.RiskTier { return lookup(riskTiers, score) }
