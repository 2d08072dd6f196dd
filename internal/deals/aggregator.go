package deals

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/internal/desking"
	"github.com/pulseautomarket/desking-backend/pkg/db/models"
	"github.com/pulseautomarket/desking-backend/pkg/enums"
	"github.com/pulseautomarket/desking-backend/pkg/errors"
)

// Aggregator recomputes every derived field on a deal after a mutation. It
// performs no I/O; callers persist the result. The reconciliation invariant
//
//	total_deal_amount == total_vehicle_price + total_fees_taxes + total_fi_products
//
// holds to the cent after every successful pass.
type Aggregator struct {
	pricer      *desking.Pricer
	reserveRate float64
}

// NewAggregator builds the deal aggregator. reserveRate is the finance
// reserve fraction credited to dealer profit on financed deals.
func NewAggregator(pricer *desking.Pricer, reserveRate float64) (*Aggregator, error) {
	if pricer == nil {
		return nil, fmt.Errorf("pricer required")
	}
	if reserveRate < 0 {
		return nil, fmt.Errorf("reserve rate must not be negative")
	}
	return &Aggregator{pricer: pricer, reserveRate: reserveRate}, nil
}

// Recalculate rebuilds the deal's derived totals from its inputs. Exactly one
// financing branch, or none, may be active; both at once is rejected before
// any field is touched.
func (a *Aggregator) Recalculate(deal *models.Deal) error {
	if deal.FinanceTerms != nil && deal.LeaseTerms != nil {
		return errors.New(errors.CodeValidation, "deal cannot carry both finance and lease terms")
	}
	if deal.SelectedVSCID != nil && deal.VSCOptions.FindByID(*deal.SelectedVSCID) == nil {
		return errors.New(errors.CodeValidation, fmt.Sprintf("vsc option %q is not on this deal's menu", *deal.SelectedVSCID))
	}

	// Trade equity is always re-derived, never trusted from the caller.
	netTrade := decimal.Zero
	if deal.TradeIn != nil {
		deal.TradeIn.NetTradeValue = deal.TradeIn.NetValue()
		netTrade = deal.TradeIn.NetTradeValue
	}

	totalVehiclePrice := deal.VehiclePrice.
		Sub(deal.DealerDiscount).
		Sub(deal.Rebates).
		Sub(netTrade)
	if totalVehiclePrice.IsNegative() {
		totalVehiclePrice = decimal.Zero
	}
	totalVehiclePrice = totalVehiclePrice.Round(2)

	// Sales tax applies to the trade-adjusted vehicle price. F&I products are
	// not taxed.
	salesTax := totalVehiclePrice.Mul(decimal.NewFromFloat(deal.TaxInfo.TaxRate)).Round(2)
	totalFeesTaxes := salesTax.Add(deal.TaxInfo.FixedFees()).Round(2)

	// The GAP quote tracks the pre-product financed base so the quote does
	// not move when the customer toggles GAP itself.
	gapContext := deal.VehiclePrice
	if deal.FinanceTerms != nil {
		base := totalVehiclePrice.Add(totalFeesTaxes).Sub(deal.FinanceTerms.DownPayment)
		if base.IsNegative() {
			base = decimal.Zero
		}
		gapContext = base
	}
	gap := a.pricer.QuoteGAP(gapContext, deal.VehiclePrice)
	deal.GAPOption = &gap

	totalFIProducts := decimal.Zero
	for _, product := range deal.SelectedProducts() {
		totalFIProducts = totalFIProducts.Add(product.CustomerPrice)
	}
	totalFIProducts = totalFIProducts.Round(2)

	totalDealAmount := totalVehiclePrice.Add(totalFeesTaxes).Add(totalFIProducts).Round(2)

	deal.SalesTaxAmount = salesTax
	deal.TotalVehiclePrice = totalVehiclePrice
	deal.TotalFeesTaxes = totalFeesTaxes
	deal.TotalFIProducts = totalFIProducts
	deal.TotalDealAmount = totalDealAmount

	switch {
	case deal.FinanceTerms != nil:
		if err := a.applyFinance(deal, totalDealAmount); err != nil {
			return err
		}
	case deal.LeaseTerms != nil:
		if err := a.applyLease(deal); err != nil {
			return err
		}
	default:
		deal.DealType = enums.DealTypeCash
		deal.MonthlyPayment = decimal.Zero.Round(2)
		deal.TotalAmountFinanced = decimal.Zero.Round(2)
		deal.TotalInterest = decimal.Zero.Round(2)
		deal.TotalCost = totalDealAmount
		deal.LeaseDetails = nil
	}

	deal.DealerProfit = a.dealerProfit(deal)
	return nil
}

func (a *Aggregator) applyFinance(deal *models.Deal, totalDealAmount decimal.Decimal) error {
	terms := deal.FinanceTerms

	loanAmount := totalDealAmount.Sub(terms.DownPayment)
	if loanAmount.IsNegative() {
		loanAmount = decimal.Zero
	}
	loanAmount = loanAmount.Round(2)

	result, err := desking.ComputePayment(loanAmount, terms.InterestRate, terms.TermMonths, terms.PaymentFrequency)
	if err != nil {
		return err
	}

	deal.DealType = enums.DealTypeFinance
	terms.LoanAmount = loanAmount
	deal.MonthlyPayment = result.Payment
	deal.TotalAmountFinanced = loanAmount
	deal.TotalInterest = result.TotalInterest
	deal.TotalCost = result.TotalCost.Add(terms.DownPayment).Round(2)
	deal.LeaseDetails = nil
	return nil
}

func (a *Aggregator) applyLease(deal *models.Deal) error {
	terms := deal.LeaseTerms

	payment, details, err := desking.ComputeLease(*terms)
	if err != nil {
		return err
	}

	deal.DealType = enums.DealTypeLease
	deal.MonthlyPayment = payment
	deal.LeaseDetails = &details
	deal.TotalAmountFinanced = decimal.Zero.Round(2)
	deal.TotalInterest = decimal.Zero.Round(2)
	deal.TotalCost = payment.
		Mul(decimal.NewFromInt(int64(terms.TermMonths))).
		Add(terms.DownPayment).
		Add(terms.AcquisitionFee).
		Round(2)
	return nil
}

// dealerProfit folds the discount granted, F&I margins and the finance
// reserve into a single front-plus-back figure. Discount-as-negative-profit
// is a deliberate simplification of invoice-based gross, not a bug.
func (a *Aggregator) dealerProfit(deal *models.Deal) decimal.Decimal {
	profit := deal.DealerDiscount.Neg()
	for _, product := range deal.SelectedProducts() {
		profit = profit.Add(product.Margin())
	}
	if deal.DealType == enums.DealTypeFinance {
		reserve := deal.TotalAmountFinanced.Mul(decimal.NewFromFloat(a.reserveRate))
		profit = profit.Add(reserve)
	}
	return profit.Round(2)
}
