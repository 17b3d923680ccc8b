package testutil

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertDecimalEqual compares decimals by value, so 400000 and 400000.00 match.
func AssertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) bool {
	t.Helper()
	want, err := decimal.NewFromString(expected)
	if !assert.NoError(t, err, "bad expected decimal %q", expected) {
		return false
	}
	if want.Equal(actual) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("decimals differ: expected %s, got %s", want, actual), msgAndArgs...)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}
