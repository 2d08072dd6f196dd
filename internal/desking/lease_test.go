package desking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseautomarket/desking-backend/pkg/errors"
	"github.com/pulseautomarket/desking-backend/pkg/types"
)

func standardLeaseTerms() types.LeaseTerms {
	return types.LeaseTerms{
		MSRP:               decimal.NewFromInt(40000),
		CapCost:            decimal.NewFromInt(38000),
		ResidualPercentage: 55,
		MoneyFactor:        0.00125,
		TermMonths:         36,
		DownPayment:        decimal.NewFromInt(2000),
		AcquisitionFee:     decimal.NewFromInt(695),
		DispositionFee:     decimal.NewFromInt(395),
		AnnualMileage:      12000,
	}
}

func TestComputeLeaseStandard(t *testing.T) {
	payment, details, err := ComputeLease(standardLeaseTerms())
	require.NoError(t, err)

	// adjusted cap 36000, residual 22000, depreciation 14000 over 36 months,
	// finance charge (36000+22000)*0.00125 = 72.50
	assert.Equal(t, "36000.00", details.AdjustedCapCost.StringFixed(2))
	assert.Equal(t, "22000.00", details.ResidualValue.StringFixed(2))
	assert.Equal(t, "14000.00", details.Depreciation.StringFixed(2))
	assert.Equal(t, "388.89", details.MonthlyDepreciation.StringFixed(2))
	assert.Equal(t, "72.50", details.MonthlyFinanceCharge.StringFixed(2))
	assert.Equal(t, "461.39", payment.StringFixed(2))

	assert.Equal(t, "695.00", details.AcquisitionFee.StringFixed(2))
	assert.Equal(t, "395.00", details.DispositionFee.StringFixed(2))
}

func TestComputeLeaseFullResidual(t *testing.T) {
	terms := standardLeaseTerms()
	terms.ResidualPercentage = 100
	terms.CapCost = decimal.NewFromInt(40000)
	terms.DownPayment = decimal.Zero

	payment, details, err := ComputeLease(terms)
	require.NoError(t, err)

	assert.True(t, details.Depreciation.IsZero(), "depreciation %s", details.Depreciation)
	assert.True(t, payment.Equal(details.MonthlyFinanceCharge), "payment %s finance charge %s", payment, details.MonthlyFinanceCharge)
	assert.False(t, payment.IsNegative())
}

func TestComputeLeaseDepreciationFloorsAtZero(t *testing.T) {
	terms := standardLeaseTerms()
	// Residual exceeds the adjusted cap cost.
	terms.CapCost = decimal.NewFromInt(20000)
	terms.DownPayment = decimal.Zero
	terms.ResidualPercentage = 90

	payment, details, err := ComputeLease(terms)
	require.NoError(t, err)
	assert.True(t, details.Depreciation.IsZero())
	assert.False(t, payment.IsNegative())
}

func TestComputeLeaseRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*types.LeaseTerms)
	}{
		{"zero term", func(lt *types.LeaseTerms) { lt.TermMonths = 0 }},
		{"negative residual", func(lt *types.LeaseTerms) { lt.ResidualPercentage = -1 }},
		{"residual over 100", func(lt *types.LeaseTerms) { lt.ResidualPercentage = 101 }},
		{"negative money factor", func(lt *types.LeaseTerms) { lt.MoneyFactor = -0.001 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			terms := standardLeaseTerms()
			tc.mutate(&terms)
			_, _, err := ComputeLease(terms)
			require.Error(t, err)
			appErr := errors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, errors.CodeValidation, appErr.Code())
		})
	}
}
