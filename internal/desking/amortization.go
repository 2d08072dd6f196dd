package desking

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/pkg/enums"
	"github.com/pulseautomarket/desking-backend/pkg/errors"
)

// AmortizationResult holds the reported outputs of a loan payment
// computation, rounded to cents.
type AmortizationResult struct {
	Payment       decimal.Decimal `json:"payment"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalPeriods  float64         `json:"total_periods"`
	PeriodRate    float64         `json:"period_rate"`
}

// ComputePayment runs the standard annuity formula for the given principal,
// annual rate (percent), term and payment frequency. A zero rate is a defined
// branch, not an error: the payment is the principal split evenly across
// periods. Non-monthly frequencies scale the period count, so a 36 month term
// paid biweekly amortizes over 78 periods.
func ComputePayment(principal decimal.Decimal, annualRatePct float64, termMonths int, frequency enums.PaymentFrequency) (AmortizationResult, error) {
	if principal.IsNegative() {
		return AmortizationResult{}, errors.New(errors.CodeValidation, "principal must not be negative")
	}
	if annualRatePct < 0 {
		return AmortizationResult{}, errors.New(errors.CodeValidation, "interest rate must not be negative")
	}
	if termMonths <= 0 {
		return AmortizationResult{}, errors.New(errors.CodeValidation, fmt.Sprintf("term months must be positive, got %d", termMonths))
	}
	if !frequency.IsValid() {
		return AmortizationResult{}, errors.New(errors.CodeValidation, fmt.Sprintf("invalid payment frequency %q", frequency))
	}

	ppy := float64(frequency.PeriodsPerYear())
	totalPeriods := float64(termMonths) * ppy / 12
	p := principal.InexactFloat64()

	if annualRatePct == 0 {
		payment := p / totalPeriods
		return AmortizationResult{
			Payment:       roundMoney(payment),
			TotalInterest: decimal.Zero.Round(2),
			TotalCost:     roundMoney(payment * totalPeriods),
			TotalPeriods:  totalPeriods,
		}, nil
	}

	periodRate := annualRatePct / 100 / ppy
	growth := math.Pow(1+periodRate, totalPeriods)
	payment := p * periodRate * growth / (growth - 1)
	totalCost := payment * totalPeriods

	return AmortizationResult{
		Payment:       roundMoney(payment),
		TotalInterest: roundMoney(totalCost - p),
		TotalCost:     roundMoney(totalCost),
		TotalPeriods:  totalPeriods,
		PeriodRate:    periodRate,
	}, nil
}
