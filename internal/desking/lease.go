package desking

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/pkg/errors"
	"github.com/pulseautomarket/desking-backend/pkg/types"
)

// ComputeLease derives the monthly lease payment plus the intermediate
// figures used on proposals. Acquisition and disposition fees are carried in
// the details but not folded into the monthly payment; they are due at
// signing and termination respectively.
//
// A residual of 100% is a defined branch: depreciation is zero and the
// payment is the finance charge alone.
func ComputeLease(terms types.LeaseTerms) (decimal.Decimal, types.LeaseDetails, error) {
	if terms.TermMonths <= 0 {
		return decimal.Zero, types.LeaseDetails{}, errors.New(errors.CodeValidation, fmt.Sprintf("lease term months must be positive, got %d", terms.TermMonths))
	}
	if terms.ResidualPercentage < 0 || terms.ResidualPercentage > 100 {
		return decimal.Zero, types.LeaseDetails{}, errors.New(errors.CodeValidation, fmt.Sprintf("residual percentage must be between 0 and 100, got %v", terms.ResidualPercentage))
	}
	if terms.MoneyFactor < 0 {
		return decimal.Zero, types.LeaseDetails{}, errors.New(errors.CodeValidation, "money factor must not be negative")
	}

	adjustedCapCost := terms.CapCost.Sub(terms.DownPayment).InexactFloat64()
	residualValue := terms.MSRP.InexactFloat64() * terms.ResidualPercentage / 100

	depreciation := adjustedCapCost - residualValue
	if depreciation < 0 {
		depreciation = 0
	}
	monthlyDepreciation := depreciation / float64(terms.TermMonths)

	// The money factor is already period-scaled, not an APR.
	monthlyFinanceCharge := (adjustedCapCost + residualValue) * terms.MoneyFactor

	payment := roundMoney(monthlyDepreciation + monthlyFinanceCharge)
	details := types.LeaseDetails{
		AdjustedCapCost:      roundMoney(adjustedCapCost),
		ResidualValue:        roundMoney(residualValue),
		Depreciation:         roundMoney(depreciation),
		MonthlyDepreciation:  roundMoney(monthlyDepreciation),
		MonthlyFinanceCharge: roundMoney(monthlyFinanceCharge),
		AcquisitionFee:       terms.AcquisitionFee.Round(2),
		DispositionFee:       terms.DispositionFee.Round(2),
	}
	return payment, details, nil
}
