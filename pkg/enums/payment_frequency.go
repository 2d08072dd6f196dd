package enums

import "fmt"

// PaymentFrequency is how often a financed payment is collected.
type PaymentFrequency string

const (
	PaymentFrequencyMonthly  PaymentFrequency = "monthly"
	PaymentFrequencyBiweekly PaymentFrequency = "biweekly"
	PaymentFrequencyWeekly   PaymentFrequency = "weekly"
)

var validPaymentFrequencies = []PaymentFrequency{
	PaymentFrequencyMonthly,
	PaymentFrequencyBiweekly,
	PaymentFrequencyWeekly,
}

var periodsPerYearByFrequency = map[PaymentFrequency]int{
	PaymentFrequencyMonthly:  12,
	PaymentFrequencyBiweekly: 26,
	PaymentFrequencyWeekly:   52,
}

// String implements fmt.Stringer.
func (p PaymentFrequency) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentFrequency.
func (p PaymentFrequency) IsValid() bool {
	for _, candidate := range validPaymentFrequencies {
		if candidate == p {
			return true
		}
	}
	return false
}

// PeriodsPerYear returns how many payment periods a year holds for the
// frequency; zero when the frequency is unknown.
func (p PaymentFrequency) PeriodsPerYear() int {
	return periodsPerYearByFrequency[p]
}

// ParsePaymentFrequency converts raw input into a PaymentFrequency.
func ParsePaymentFrequency(value string) (PaymentFrequency, error) {
	for _, candidate := range validPaymentFrequencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment frequency %q", value)
}
