package desking

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pulseautomarket/desking-backend/pkg/types"
)

// StateFees is one row of the jurisdiction table: the sales tax rate as a
// fraction plus the flat fees charged at titling.
type StateFees struct {
	TaxRate         float64
	DocFee          decimal.Decimal
	TitleFee        decimal.Decimal
	RegistrationFee decimal.Decimal
}

// TaxTable maps state codes to their fees. Unknown jurisdictions fail soft to
// DefaultState rather than a zero rate.
type TaxTable struct {
	DefaultState string
	States       map[string]StateFees
}

// DefaultTaxTable returns the built-in jurisdiction table. Tenants needing
// different coverage construct their own table and pass it to the resolver.
func DefaultTaxTable() TaxTable {
	return TaxTable{
		DefaultState: "CA",
		States: map[string]StateFees{
			"CA": {TaxRate: 0.0725, DocFee: dec(85), TitleFee: dec(23), RegistrationFee: dec(65)},
			"TX": {TaxRate: 0.0625, DocFee: dec(150), TitleFee: dec(33), RegistrationFee: dec(51.75)},
			"FL": {TaxRate: 0.06, DocFee: dec(199), TitleFee: dec(77.25), RegistrationFee: dec(46.65)},
			"NY": {TaxRate: 0.04, DocFee: dec(75), TitleFee: dec(50), RegistrationFee: dec(32.5)},
			"WA": {TaxRate: 0.065, DocFee: dec(150), TitleFee: dec(15), RegistrationFee: dec(44.25)},
			"AZ": {TaxRate: 0.056, DocFee: dec(499), TitleFee: dec(4), RegistrationFee: dec(8)},
			"NV": {TaxRate: 0.0685, DocFee: dec(499), TitleFee: dec(28.25), RegistrationFee: dec(33)},
			"OR": {TaxRate: 0, DocFee: dec(115), TitleFee: dec(101), RegistrationFee: dec(112)},
			"CO": {TaxRate: 0.029, DocFee: dec(699), TitleFee: dec(7.2), RegistrationFee: dec(45)},
		},
	}
}

// Validate reports whether the table can resolve every input, which requires
// the DefaultState to be one of its own entries.
func (t TaxTable) Validate() error {
	key := strings.ToUpper(strings.TrimSpace(t.DefaultState))
	if _, ok := t.States[key]; !ok {
		return fmt.Errorf("default state %q has no entry in the tax table", t.DefaultState)
	}
	return nil
}

// Resolve maps a jurisdiction to its TaxInfo snapshot. The lookup is
// deterministic and has no side effects; the same input always yields the
// same output. A misconfigured DefaultState falls through to the built-in
// table's default entry so an unknown jurisdiction never resolves to a zero
// rate.
func (t TaxTable) Resolve(state, zipCode string) types.TaxInfo {
	key := strings.ToUpper(strings.TrimSpace(state))
	fees, ok := t.States[key]
	if !ok {
		key = strings.ToUpper(strings.TrimSpace(t.DefaultState))
		fees, ok = t.States[key]
	}
	if !ok {
		builtin := DefaultTaxTable()
		key = builtin.DefaultState
		fees = builtin.States[key]
	}
	return types.TaxInfo{
		State:           key,
		ZipCode:         strings.TrimSpace(zipCode),
		TaxRate:         fees.TaxRate,
		DocFee:          fees.DocFee,
		TitleFee:        fees.TitleFee,
		RegistrationFee: fees.RegistrationFee,
	}
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
