package desking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/pkg/enums"
	"github.com/pulseautomarket/desking-backend/pkg/errors"
	"github.com/pulseautomarket/desking-backend/pkg/types"
)

// VehicleProfile carries the vehicle attributes the pricer adjusts against.
type VehicleProfile struct {
	Year    int
	Mileage int
	Value   decimal.Decimal
}

// PricingConfig holds the F&I pricing tables. Construct one per tenant or
// test instead of reaching for package-level constants.
type PricingConfig struct {
	// VSCBaseCosts is the 3 coverage tiers x 5 terms base-cost table. Base
	// costs must be strictly increasing across tiers for a fixed term so the
	// menu price ordering holds.
	VSCBaseCosts map[enums.VSCCoverage]map[enums.VSCTermMonths]float64

	// VSCMarkupRate applies to the unadjusted base cost, not the
	// age/mileage-adjusted cost.
	VSCMarkupRate float64

	GAPRate       float64
	GAPMinCost    float64
	GAPMaxCost    float64
	GAPMarkupRate float64

	// VSCMileageLimit is the odometer cap printed on service contracts.
	VSCMileageLimit int
}

// DefaultPricingConfig returns the standard menu tables.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		VSCBaseCosts: map[enums.VSCCoverage]map[enums.VSCTermMonths]float64{
			enums.VSCCoveragePowertrain: {
				enums.VSCTerm12: 800, enums.VSCTerm24: 950, enums.VSCTerm36: 1100, enums.VSCTerm48: 1250, enums.VSCTerm60: 1400,
			},
			enums.VSCCoverageBumperToBumper: {
				enums.VSCTerm12: 1200, enums.VSCTerm24: 1400, enums.VSCTerm36: 1600, enums.VSCTerm48: 1800, enums.VSCTerm60: 2000,
			},
			enums.VSCCoveragePremium: {
				enums.VSCTerm12: 1600, enums.VSCTerm24: 1850, enums.VSCTerm36: 2100, enums.VSCTerm48: 2350, enums.VSCTerm60: 2600,
			},
		},
		VSCMarkupRate:   0.25,
		GAPRate:         0.05,
		GAPMinCost:      695,
		GAPMaxCost:      1295,
		GAPMarkupRate:   0.30,
		VSCMileageLimit: 100000,
	}
}

// FIMenu is the full priced menu generated for one vehicle.
type FIMenu struct {
	VSCOptions types.FIProducts `json:"vsc_options"`
	GAPOption  types.FIProduct  `json:"gap_option"`
}

// Pricer quotes VSC and GAP products. Both quote paths are pure: identical
// inputs yield identical output, which proposal regeneration depends on.
type Pricer struct {
	cfg PricingConfig
	now func() time.Time
}

// NewPricer builds a Pricer. now may be nil, in which case time.Now is used;
// tests inject a fixed clock so age factors are stable.
func NewPricer(cfg PricingConfig, now func() time.Time) *Pricer {
	if now == nil {
		now = time.Now
	}
	return &Pricer{cfg: cfg, now: now}
}

// QuoteVSC prices a single coverage/term combination for the vehicle.
func (p *Pricer) QuoteVSC(vehicle VehicleProfile, coverage enums.VSCCoverage, term enums.VSCTermMonths) (types.FIProduct, error) {
	if !coverage.IsValid() {
		return types.FIProduct{}, errors.New(errors.CodeValidation, fmt.Sprintf("invalid vsc coverage %q", coverage))
	}
	if !term.IsValid() {
		return types.FIProduct{}, errors.New(errors.CodeValidation, fmt.Sprintf("invalid vsc term %d", term))
	}
	baseCost, ok := p.cfg.VSCBaseCosts[coverage][term]
	if !ok {
		return types.FIProduct{}, errors.New(errors.CodeNotFound, fmt.Sprintf("no base cost for %s/%d months", coverage, term))
	}

	ageFactor := p.ageFactor(vehicle.Year)
	mileageFactor := mileageFactor(vehicle.Mileage)
	adjustedCost := baseCost * ageFactor * mileageFactor

	// Markup is computed on the unadjusted base cost. Older or higher-mileage
	// vehicles discount the dealer cost, not the dealer's margin.
	markup := baseCost * p.cfg.VSCMarkupRate
	finalPrice := adjustedCost + markup

	months := term.Months()
	mileageLimit := p.cfg.VSCMileageLimit
	return types.FIProduct{
		ID:               fmt.Sprintf("vsc-%s-%d", coverage, months),
		Name:             fmt.Sprintf("%d-Month %s Coverage", months, coverageLabel(coverage)),
		Category:         enums.FICategoryWarranty,
		CoverageType:     &coverage,
		TermMonths:       &months,
		MileageLimit:     &mileageLimit,
		BaseCost:         roundMoney(baseCost),
		MarkupPercentage: p.cfg.VSCMarkupRate * 100,
		Markup:           roundMoney(markup),
		DealerCost:       roundMoney(adjustedCost),
		CustomerPrice:    roundMoney(finalPrice),
		Description:      fmt.Sprintf("Vehicle service contract, %s coverage for %d months or %d miles.", coverageLabel(coverage), months, mileageLimit),
	}, nil
}

// QuoteGAP prices guaranteed asset protection for the loan context. The base
// cost is a percentage of the loan amount clamped to the configured band. A
// zero vehicle value yields an LTV of 0 rather than a division error.
func (p *Pricer) QuoteGAP(loanAmount, vehicleValue decimal.Decimal) types.FIProduct {
	loan := loanAmount.InexactFloat64()
	baseCost := loan * p.cfg.GAPRate
	if baseCost < p.cfg.GAPMinCost {
		baseCost = p.cfg.GAPMinCost
	}
	if baseCost > p.cfg.GAPMaxCost {
		baseCost = p.cfg.GAPMaxCost
	}

	markup := baseCost * p.cfg.GAPMarkupRate
	finalPrice := baseCost + markup

	ltv := 0.0
	if value := vehicleValue.InexactFloat64(); value > 0 {
		ltv = loan / value
	}

	return types.FIProduct{
		ID:               "gap",
		Name:             "GAP Insurance",
		Category:         enums.FICategoryInsurance,
		BaseCost:         roundMoney(baseCost),
		MarkupPercentage: p.cfg.GAPMarkupRate * 100,
		Markup:           roundMoney(markup),
		DealerCost:       roundMoney(baseCost),
		CustomerPrice:    roundMoney(finalPrice),
		LoanToValueRatio: &ltv,
		Description:      "Covers the gap between the loan balance and the insurance payout after a total loss.",
	}
}

// BuildMenu generates the complete F&I menu: every coverage/term VSC
// combination plus one GAP quote for the supplied loan context.
func (p *Pricer) BuildMenu(vehicle VehicleProfile, loanAmount decimal.Decimal) (FIMenu, error) {
	menu := FIMenu{}
	for _, coverage := range enums.VSCCoverageTiers() {
		for _, term := range enums.VSCTerms() {
			product, err := p.QuoteVSC(vehicle, coverage, term)
			if err != nil {
				return FIMenu{}, err
			}
			menu.VSCOptions = append(menu.VSCOptions, product)
		}
	}
	menu.GAPOption = p.QuoteGAP(loanAmount, vehicle.Value)
	return menu, nil
}

func (p *Pricer) ageFactor(year int) float64 {
	age := p.now().Year() - year
	if age < 0 {
		age = 0
	}
	factor := 1 - float64(age)*0.05
	if factor < 0.8 {
		return 0.8
	}
	return factor
}

func mileageFactor(mileage int) float64 {
	if mileage < 0 {
		mileage = 0
	}
	factor := 1 - float64(mileage)/100000*0.2
	if factor < 0.8 {
		return 0.8
	}
	return factor
}

func coverageLabel(coverage enums.VSCCoverage) string {
	switch coverage {
	case enums.VSCCoveragePowertrain:
		return "Powertrain"
	case enums.VSCCoverageBumperToBumper:
		return "Bumper-to-Bumper"
	case enums.VSCCoveragePremium:
		return "Premium"
	default:
		return string(coverage)
	}
}
