package desking

import "github.com/shopspring/decimal"

// roundMoney converts a raw float computation to a reported money value.
// Rounding happens once at the reporting boundary so intermediate math does
// not compound rounding error.
func roundMoney(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
