package enums

import "fmt"

// VSCCoverage is the coverage tier of a vehicle service contract.
type VSCCoverage string

const (
	VSCCoveragePowertrain     VSCCoverage = "powertrain"
	VSCCoverageBumperToBumper VSCCoverage = "bumper_to_bumper"
	VSCCoveragePremium        VSCCoverage = "premium"
)

// validVSCCoverages is ordered from least to most comprehensive; menu
// generation and the price-ordering invariant rely on this ordering.
var validVSCCoverages = []VSCCoverage{
	VSCCoveragePowertrain,
	VSCCoverageBumperToBumper,
	VSCCoveragePremium,
}

// VSCCoverageTiers returns the coverage tiers in ascending comprehensiveness.
func VSCCoverageTiers() []VSCCoverage {
	tiers := make([]VSCCoverage, len(validVSCCoverages))
	copy(tiers, validVSCCoverages)
	return tiers
}

// String implements fmt.Stringer.
func (v VSCCoverage) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VSCCoverage.
func (v VSCCoverage) IsValid() bool {
	for _, candidate := range validVSCCoverages {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVSCCoverage converts raw input into a VSCCoverage.
func ParseVSCCoverage(value string) (VSCCoverage, error) {
	for _, candidate := range validVSCCoverages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vsc coverage %q", value)
}
