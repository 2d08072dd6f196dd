package enums

import "fmt"

// FICategory groups finance-and-insurance products for reporting.
type FICategory string

const (
	FICategoryWarranty  FICategory = "warranty"
	FICategoryInsurance FICategory = "insurance"
)

var validFICategories = []FICategory{
	FICategoryWarranty,
	FICategoryInsurance,
}

// String implements fmt.Stringer.
func (f FICategory) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FICategory.
func (f FICategory) IsValid() bool {
	for _, candidate := range validFICategories {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFICategory converts raw input into an FICategory.
func ParseFICategory(value string) (FICategory, error) {
	for _, candidate := range validFICategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fi category %q", value)
}
