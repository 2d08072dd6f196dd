package enums

import "fmt"

// VSCTermMonths is a service-contract term length offered on the menu.
type VSCTermMonths int

const (
	VSCTerm12 VSCTermMonths = 12
	VSCTerm24 VSCTermMonths = 24
	VSCTerm36 VSCTermMonths = 36
	VSCTerm48 VSCTermMonths = 48
	VSCTerm60 VSCTermMonths = 60
)

var validVSCTerms = []VSCTermMonths{
	VSCTerm12,
	VSCTerm24,
	VSCTerm36,
	VSCTerm48,
	VSCTerm60,
}

// VSCTerms returns the offered terms in ascending order.
func VSCTerms() []VSCTermMonths {
	terms := make([]VSCTermMonths, len(validVSCTerms))
	copy(terms, validVSCTerms)
	return terms
}

// Months returns the term length as a plain int.
func (v VSCTermMonths) Months() int {
	return int(v)
}

// IsValid reports whether the value is an offered term.
func (v VSCTermMonths) IsValid() bool {
	for _, candidate := range validVSCTerms {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVSCTermMonths converts raw input into a VSCTermMonths.
func ParseVSCTermMonths(value int) (VSCTermMonths, error) {
	for _, candidate := range validVSCTerms {
		if int(candidate) == value {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("invalid vsc term %d months", value)
}
