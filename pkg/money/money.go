package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is an ISO 4217 currency code with its display symbol.
type Currency struct {
	code   string
	symbol string
}

// NewCurrency creates a Currency after validating the code is exactly 3 uppercase letters.
// An empty symbol falls back to the code followed by a space.
func NewCurrency(code, symbol string) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	if symbol == "" {
		symbol = code + " "
	}
	return Currency{code: code, symbol: symbol}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code, symbol string) Currency {
	c, err := NewCurrency(code, symbol)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string { return c.code }

// Symbol returns the display prefix used when formatting amounts.
func (c Currency) Symbol() string { return c.symbol }

// String returns the currency code.
func (c Currency) String() string { return c.code }

// Common currencies.
var (
	INR = MustCurrency("INR", "₹")
	USD = MustCurrency("USD", "$")
)

// Money represents an immutable monetary amount with currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money value from a decimal amount and currency.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency.
func (m Money) Currency() Currency { return m.currency }

// Format renders the amount with the currency symbol, comma thousands
// separators and two decimal places, for example "₹1,250,000.00".
func (m Money) Format() string {
	s := m.amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + m.currency.symbol + groupThousands(intPart) + "." + frac
}

// String formats the Money value as "<amount> <currency>", for example "100.00 INR".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency.Code())
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
