package deals

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseautomarket/desking-backend/internal/desking"
	"github.com/pulseautomarket/desking-backend/pkg/db/models"
	"github.com/pulseautomarket/desking-backend/pkg/enums"
	pkgerrors "github.com/pulseautomarket/desking-backend/pkg/errors"
	"github.com/pulseautomarket/desking-backend/pkg/types"
)

func testClock() func() time.Time {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newTestAggregator(t *testing.T) (*Aggregator, *desking.Pricer) {
	t.Helper()
	pricer := desking.NewPricer(desking.DefaultPricingConfig(), testClock())
	agg, err := NewAggregator(pricer, 0.015)
	require.NoError(t, err)
	return agg, pricer
}

func newTestDeal(t *testing.T, pricer *desking.Pricer) *models.Deal {
	t.Helper()

	sellingPrice := decimal.NewFromInt(25000)
	menu, err := pricer.BuildMenu(desking.VehicleProfile{Year: 2024, Mileage: 12000, Value: sellingPrice}, sellingPrice)
	require.NoError(t, err)

	return &models.Deal{
		ID:         uuid.New(),
		DealNumber: "DEAL-TEST0001",
		Status:     enums.DealStatusPending,
		DealType:   enums.DealTypeCash,
		DealerID:   uuid.New(),
		VehicleID:  uuid.New(),
		Customer:   types.Customer{FirstName: "Jamie", LastName: "Rivera"},
		TaxInfo:    desking.DefaultTaxTable().Resolve("CA", "90001"),
		VehiclePrice: sellingPrice,
		VSCOptions:   menu.VSCOptions,
		GAPOption:    &menu.GAPOption,
	}
}

func assertReconciled(t *testing.T, deal *models.Deal) {
	t.Helper()
	expected := deal.TotalVehiclePrice.Add(deal.TotalFeesTaxes).Add(deal.TotalFIProducts)
	assert.True(t, deal.TotalDealAmount.Equal(expected),
		"total %s != vehicle %s + fees %s + fi %s", deal.TotalDealAmount, deal.TotalVehiclePrice, deal.TotalFeesTaxes, deal.TotalFIProducts)
}

func TestRecalculateEndToEndFinanceScenario(t *testing.T) {
	agg, pricer := newTestAggregator(t)
	deal := newTestDeal(t, pricer)

	deal.TradeIn = &types.TradeIn{
		Year:           2020,
		Make:           "Honda",
		Model:          "Civic",
		EstimatedValue: decimal.NewFromInt(15000),
		PayoffAmount:   decimal.NewFromInt(10000),
	}
	deal.FinanceTerms = &types.FinanceTerms{
		InterestRate:     5.99,
		TermMonths:       60,
		DownPayment:      decimal.NewFromInt(5000),
		PaymentFrequency: enums.PaymentFrequencyMonthly,
	}

	require.NoError(t, agg.Recalculate(deal))

	assert.Equal(t, "5000.00", deal.TradeIn.NetTradeValue.StringFixed(2))
	assert.Equal(t, "20000.00", deal.TotalVehiclePrice.StringFixed(2))
	assert.Equal(t, "1450.00", deal.SalesTaxAmount.StringFixed(2))
	assert.Equal(t, "1623.00", deal.TotalFeesTaxes.StringFixed(2))
	assert.Equal(t, "0.00", deal.TotalFIProducts.StringFixed(2))
	assert.Equal(t, "21623.00", deal.TotalDealAmount.StringFixed(2))
	assert.Equal(t, enums.DealTypeFinance, deal.DealType)
	assert.Equal(t, "16623.00", deal.TotalAmountFinanced.StringFixed(2))

	// Verify the payment against the annuity formula directly.
	rate := 5.99 / 100 / 12
	growth := math.Pow(1+rate, 60)
	expected := 16623 * rate * growth / (growth - 1)
	assert.InDelta(t, expected, deal.MonthlyPayment.InexactFloat64(), 0.005)

	assertReconciled(t, deal)

	// Profit is the finance reserve alone: no discount, no products.
	reserve := deal.TotalAmountFinanced.Mul(decimal.NewFromFloat(0.015)).Round(2)
	assert.True(t, deal.DealerProfit.Equal(reserve), "profit %s reserve %s", deal.DealerProfit, reserve)
}

func TestRecalculateCashDeal(t *testing.T) {
	agg, pricer := newTestAggregator(t)
	deal := newTestDeal(t, pricer)

	require.NoError(t, agg.Recalculate(deal))

	assert.Equal(t, enums.DealTypeCash, deal.DealType)
	assert.True(t, deal.MonthlyPayment.IsZero())
	assert.True(t, deal.TotalAmountFinanced.IsZero())
	assert.True(t, deal.TotalCost.Equal(deal.TotalDealAmount))
	assertReconciled(t, deal)
}

func TestRecalculateLeaseDeal(t *testing.T) {
	agg, pricer := newTestAggregator(t)
	deal := newTestDeal(t, pricer)

	deal.LeaseTerms = &types.LeaseTerms{
		MSRP:               decimal.NewFromInt(27000),
		CapCost:            decimal.NewFromInt(25000),
		ResidualPercentage: 55,
		MoneyFactor:        0.0015,
		TermMonths:         36,
		DownPayment:        decimal.NewFromInt(2000),
		AcquisitionFee:     decimal.NewFromInt(695),
		DispositionFee:     decimal.NewFromInt(395),
	}

	require.NoError(t, agg.Recalculate(deal))

	assert.Equal(t, enums.DealTypeLease, deal.DealType)
	require.NotNil(t, deal.LeaseDetails)

	expectedCost := deal.MonthlyPayment.
		Mul(decimal.NewFromInt(36)).
		Add(decimal.NewFromInt(2000)).
		Add(decimal.NewFromInt(695)).
		Round(2)
	assert.True(t, deal.TotalCost.Equal(expectedCost), "cost %s expected %s", deal.TotalCost, expectedCost)
	assertReconciled(t, deal)
}

func TestRecalculateRejectsBothBranches(t *testing.T) {
	agg, pricer := newTestAggregator(t)
	deal := newTestDeal(t, pricer)

	deal.FinanceTerms = &types.FinanceTerms{TermMonths: 60, PaymentFrequency: enums.PaymentFrequencyMonthly}
	deal.LeaseTerms = &types.LeaseTerms{TermMonths: 36}

	err := agg.Recalculate(deal)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestRecalculateRejectsUnknownVSC(t *testing.T) {
	agg, pricer := newTestAggregator(t)
	deal := newTestDeal(t, pricer)

	bogus := "vsc-space-laser-99"
	deal.SelectedVSCID = &bogus

	err := agg.Recalculate(deal)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestRecalculateTradeInFloor(t *testing.T) {
	agg, pricer := newTestAggregator(t)
	deal := newTestDeal(t, pricer)

	deal.TradeIn = &types.TradeIn{
		EstimatedValue: decimal.NewFromInt(8000),
		PayoffAmount:   decimal.NewFromInt(12000),
		// A stale positive value from the caller must be overwritten.
		NetTradeValue: decimal.NewFromInt(999),
	}

	require.NoError(t, agg.Recalculate(deal))
	assert.True(t, deal.TradeIn.NetTradeValue.IsZero())
	assert.Equal(t, "25000.00", deal.TotalVehiclePrice.StringFixed(2))
	assertReconciled(t, deal)
}

func TestRecalculateVehiclePriceFloorsAtZero(t *testing.T) {
	agg, pricer := newTestAggregator(t)
	deal := newTestDeal(t, pricer)

	deal.TradeIn = &types.TradeIn{
		EstimatedValue: decimal.NewFromInt(30000),
		PayoffAmount:   decimal.Zero,
	}

	require.NoError(t, agg.Recalculate(deal))
	assert.True(t, deal.TotalVehiclePrice.IsZero())
	assertReconciled(t, deal)
}

func TestReconciliationHoldsAcrossMutationSequence(t *testing.T) {
	agg, pricer := newTestAggregator(t)
	deal := newTestDeal(t, pricer)

	steps := []func(){
		func() {
			deal.TradeIn = &types.TradeIn{
				EstimatedValue: decimal.NewFromInt(9000),
				PayoffAmount:   decimal.NewFromInt(4000),
			}
		},
		func() {
			deal.FinanceTerms = &types.FinanceTerms{
				InterestRate:     6.49,
				TermMonths:       72,
				DownPayment:      decimal.NewFromInt(3000),
				PaymentFrequency: enums.PaymentFrequencyMonthly,
			}
		},
		func() {
			vsc := "vsc-premium-60"
			deal.SelectedVSCID = &vsc
			deal.IncludeGAP = true
		},
		func() { deal.DealerDiscount = decimal.NewFromInt(750) },
		func() { deal.Rebates = decimal.NewFromInt(1000) },
		func() {
			deal.SelectedVSCID = nil
		},
		func() {
			deal.FinanceTerms = nil
			deal.LeaseTerms = &types.LeaseTerms{
				MSRP:               decimal.NewFromInt(27000),
				CapCost:            decimal.NewFromInt(24500),
				ResidualPercentage: 60,
				MoneyFactor:        0.00125,
				TermMonths:         36,
				DownPayment:        decimal.NewFromInt(1500),
				AcquisitionFee:     decimal.NewFromInt(695),
			}
		},
		func() {
			deal.LeaseTerms = nil
			deal.IncludeGAP = false
		},
	}

	for i, step := range steps {
		step()
		require.NoError(t, agg.Recalculate(deal), "step %d", i)
		assertReconciled(t, deal)
	}
}

func TestDealerProfitFoldInProductsAndDiscount(t *testing.T) {
	agg, pricer := newTestAggregator(t)
	deal := newTestDeal(t, pricer)

	vsc := "vsc-bumper_to_bumper-48"
	deal.SelectedVSCID = &vsc
	deal.IncludeGAP = true
	deal.DealerDiscount = decimal.NewFromInt(500)

	require.NoError(t, agg.Recalculate(deal))

	expected := decimal.NewFromInt(-500)
	for _, product := range deal.SelectedProducts() {
		expected = expected.Add(product.Margin())
	}
	assert.True(t, deal.DealerProfit.Equal(expected.Round(2)), "profit %s expected %s", deal.DealerProfit, expected)
}

func TestGAPQuoteStableWhenToggled(t *testing.T) {
	agg, pricer := newTestAggregator(t)
	deal := newTestDeal(t, pricer)

	deal.FinanceTerms = &types.FinanceTerms{
		InterestRate:     5.99,
		TermMonths:       60,
		DownPayment:      decimal.NewFromInt(2000),
		PaymentFrequency: enums.PaymentFrequencyMonthly,
	}
	require.NoError(t, agg.Recalculate(deal))
	quoted := deal.GAPOption.CustomerPrice

	deal.IncludeGAP = true
	require.NoError(t, agg.Recalculate(deal))
	assert.True(t, deal.GAPOption.CustomerPrice.Equal(quoted),
		"gap price moved from %s to %s when toggled", quoted, deal.GAPOption.CustomerPrice)
	assertReconciled(t, deal)
}
