package model

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// AmortizationEntry is an immutable value object representing one period in an
// amortization schedule.
type AmortizationEntry struct {
	DueDate          time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	RemainingBalance decimal.Decimal
	Period           int
}

// MonthlyRate converts an annual percentage rate (e.g. 16.0) to the monthly
// fractional rate used by the EMI formula.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(hundred).Div(twelve)
}

// MonthlyInstallment returns the fixed EMI for principal over termMonths at
// annualRatePercent, rounded up to the paisa:
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// The formula is evaluated exactly, so termMonths instalments always cover
// the principal. A non-positive principal or term yields zero.
func MonthlyInstallment(principal, annualRatePercent decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}

	p := principal.Rat()
	r := new(big.Rat).Quo(annualRatePercent.Rat(), big.NewRat(1200, 1))
	if r.Sign() == 0 {
		return ceilToPaisa(p.Quo(p, big.NewRat(int64(termMonths), 1)))
	}

	factor := new(big.Rat).Add(big.NewRat(1, 1), r)
	factor = ratPow(factor, termMonths)

	payment := new(big.Rat).Mul(p, r)
	payment.Mul(payment, factor)
	payment.Quo(payment, factor.Sub(factor, big.NewRat(1, 1)))
	return ceilToPaisa(payment)
}

func ratPow(base *big.Rat, n int) *big.Rat {
	num := new(big.Int).Exp(base.Num(), big.NewInt(int64(n)), nil)
	den := new(big.Int).Exp(base.Denom(), big.NewInt(int64(n)), nil)
	return new(big.Rat).SetFrac(num, den)
}

func ceilToPaisa(x *big.Rat) decimal.Decimal {
	scaled := new(big.Rat).Mul(x, big.NewRat(100, 1))
	q, m := new(big.Int).DivMod(scaled.Num(), scaled.Denom(), new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return decimal.NewFromBigInt(q, -2)
}

// GenerateAmortizationSchedule computes a fixed-payment schedule. The first
// instalment is due one month after startDate; the last period absorbs
// rounding so the balance reaches exactly zero.
func GenerateAmortizationSchedule(
	principal decimal.Decimal,
	annualRatePercent decimal.Decimal,
	termMonths int,
	startDate time.Time,
) []AmortizationEntry {
	if termMonths <= 0 || !principal.IsPositive() {
		return nil
	}

	payment := MonthlyInstallment(principal, annualRatePercent, termMonths)
	rate := MonthlyRate(annualRatePercent)

	schedule := make([]AmortizationEntry, 0, termMonths)
	remaining := principal

	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(rate).Round(2)
		principalPart := payment.Sub(interest)

		if period == termMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          startDate.AddDate(0, period, 0),
			Principal:        principalPart,
			Interest:         interest,
			Total:            principalPart.Add(interest),
			RemainingBalance: remaining,
		})

		if remaining.IsZero() {
			break
		}
	}

	return schedule
}
