package desking

import (
	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/pkg/enums"
)

// Default axes for the desking payment grid. Staff use the grid to show a
// customer how the payment moves across terms and rates before committing to
// one structure.
var (
	defaultGridTerms = []int{36, 48, 60, 72, 84}
	defaultGridRates = []float64{3.99, 4.99, 5.99, 6.99, 7.99, 8.99}
)

// GridCell is one term/rate combination in a payment grid.
type GridCell struct {
	TermMonths  int             `json:"term_months"`
	RatePercent float64         `json:"rate_percent"`
	Payment     decimal.Decimal `json:"payment"`
}

// GridRow groups a term's payments across every rate column.
type GridRow struct {
	TermMonths int        `json:"term_months"`
	Cells      []GridCell `json:"cells"`
}

// PaymentGrid computes the monthly payment matrix for the principal across
// the default term and rate axes.
func PaymentGrid(principal decimal.Decimal) ([]GridRow, error) {
	return PaymentGridFor(principal, defaultGridTerms, defaultGridRates)
}

// PaymentGridFor computes the payment matrix over caller-supplied axes.
func PaymentGridFor(principal decimal.Decimal, terms []int, rates []float64) ([]GridRow, error) {
	rows := make([]GridRow, 0, len(terms))
	for _, term := range terms {
		row := GridRow{TermMonths: term, Cells: make([]GridCell, 0, len(rates))}
		for _, rate := range rates {
			result, err := ComputePayment(principal, rate, term, enums.PaymentFrequencyMonthly)
			if err != nil {
				return nil, err
			}
			row.Cells = append(row.Cells, GridCell{
				TermMonths:  term,
				RatePercent: rate,
				Payment:     result.Payment,
			})
		}
		rows = append(rows, row)
	}
	return rows, nil
}
