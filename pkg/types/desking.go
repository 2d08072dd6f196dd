package types

import (
	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/pkg/enums"
)

// Customer is the buyer snapshot embedded in a deal document.
type Customer struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ZipCode     string `json:"zip_code,omitempty"`
	CreditScore *int   `json:"credit_score,omitempty"`
}

// FullName joins the customer's name parts for display.
func (c Customer) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// TradeIn captures the vehicle a customer trades against the purchase.
// NetTradeValue is always derived, never trusted from caller input.
type TradeIn struct {
	VIN            *string         `json:"vin,omitempty"`
	Year           int             `json:"year"`
	Make           string          `json:"make"`
	Model          string          `json:"model"`
	Mileage        int             `json:"mileage"`
	Condition      string          `json:"condition"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	PayoffAmount   decimal.Decimal `json:"payoff_amount"`
	NetTradeValue  decimal.Decimal `json:"net_trade_value"`
}

// NetValue recomputes the trade equity, floored at zero when the payoff
// exceeds the estimate.
func (t TradeIn) NetValue() decimal.Decimal {
	net := t.EstimatedValue.Sub(t.PayoffAmount)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// TaxInfo is the jurisdiction snapshot resolved once per deal. TaxRate is a
// fraction (0.0725 means 7.25%).
type TaxInfo struct {
	State           string          `json:"state"`
	ZipCode         string          `json:"zip_code,omitempty"`
	TaxRate         float64         `json:"tax_rate"`
	DocFee          decimal.Decimal `json:"doc_fee"`
	TitleFee        decimal.Decimal `json:"title_fee"`
	RegistrationFee decimal.Decimal `json:"registration_fee"`
}

// FixedFees sums the flat fees that apply regardless of the taxable base.
func (t TaxInfo) FixedFees() decimal.Decimal {
	return t.DocFee.Add(t.TitleFee).Add(t.RegistrationFee)
}

// FinanceTerms are the caller-supplied inputs for a financed deal. The loan
// amount itself is derived by the aggregator.
type FinanceTerms struct {
	LoanAmount       decimal.Decimal        `json:"loan_amount"`
	InterestRate     float64                `json:"interest_rate"`
	TermMonths       int                    `json:"term_months"`
	DownPayment      decimal.Decimal        `json:"down_payment"`
	PaymentFrequency enums.PaymentFrequency `json:"payment_frequency"`
}

// LeaseTerms are the caller-supplied inputs for a leased deal.
type LeaseTerms struct {
	MSRP               decimal.Decimal `json:"msrp"`
	CapCost            decimal.Decimal `json:"cap_cost"`
	ResidualPercentage float64         `json:"residual_percentage"`
	MoneyFactor        float64         `json:"money_factor"`
	TermMonths         int             `json:"term_months"`
	DownPayment        decimal.Decimal `json:"down_payment"`
	AcquisitionFee     decimal.Decimal `json:"acquisition_fee"`
	DispositionFee     decimal.Decimal `json:"disposition_fee"`
	AnnualMileage      int             `json:"annual_mileage"`
}

// LeaseDetails exposes the intermediate lease figures for proposal display.
// Acquisition and disposition fees are reported here but are due at
// signing/termination, not folded into the monthly payment.
type LeaseDetails struct {
	AdjustedCapCost      decimal.Decimal `json:"adjusted_cap_cost"`
	ResidualValue        decimal.Decimal `json:"residual_value"`
	Depreciation         decimal.Decimal `json:"depreciation"`
	MonthlyDepreciation  decimal.Decimal `json:"monthly_depreciation"`
	MonthlyFinanceCharge decimal.Decimal `json:"monthly_finance_charge"`
	AcquisitionFee       decimal.Decimal `json:"acquisition_fee"`
	DispositionFee       decimal.Decimal `json:"disposition_fee"`
}

// FIProduct is a priced finance-and-insurance menu entry (VSC or GAP).
type FIProduct struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Category         enums.FICategory   `json:"category"`
	CoverageType     *enums.VSCCoverage `json:"coverage_type,omitempty"`
	TermMonths       *int               `json:"term_months,omitempty"`
	MileageLimit     *int               `json:"mileage_limit,omitempty"`
	BaseCost         decimal.Decimal    `json:"base_cost"`
	MarkupPercentage float64            `json:"markup_percentage"`
	Markup           decimal.Decimal    `json:"markup"`
	DealerCost       decimal.Decimal    `json:"dealer_cost"`
	CustomerPrice    decimal.Decimal    `json:"customer_price"`
	LoanToValueRatio *float64           `json:"loan_to_value_ratio,omitempty"`
	Description      string             `json:"description"`
}

// Margin is the dealer's gross on the product.
func (p FIProduct) Margin() decimal.Decimal {
	return p.CustomerPrice.Sub(p.DealerCost)
}

// FIProducts is the serialized menu stored on a deal.
type FIProducts []FIProduct

// FindByID returns the matching product or nil.
func (ps FIProducts) FindByID(id string) *FIProduct {
	for i := range ps {
		if ps[i].ID == id {
			return &ps[i]
		}
	}
	return nil
}
