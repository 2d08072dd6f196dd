package enums

import "fmt"

// DealType is the financing branch a deal is structured under.
type DealType string

const (
	DealTypeCash    DealType = "cash"
	DealTypeFinance DealType = "finance"
	DealTypeLease   DealType = "lease"
)

var validDealTypes = []DealType{
	DealTypeCash,
	DealTypeFinance,
	DealTypeLease,
}

// String implements fmt.Stringer.
func (d DealType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DealType.
func (d DealType) IsValid() bool {
	for _, candidate := range validDealTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDealType converts raw input into a DealType.
func ParseDealType(value string) (DealType, error) {
	for _, candidate := range validDealTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal type %q", value)
}
