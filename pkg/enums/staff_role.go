package enums

import "fmt"

// StaffRole identifies the dealership role carried in access tokens.
type StaffRole string

const (
	StaffRoleSalesperson  StaffRole = "salesperson"
	StaffRoleFIManager    StaffRole = "fi_manager"
	StaffRoleSalesManager StaffRole = "sales_manager"
	StaffRoleAdmin        StaffRole = "admin"
)

var validStaffRoles = []StaffRole{
	StaffRoleSalesperson,
	StaffRoleFIManager,
	StaffRoleSalesManager,
	StaffRoleAdmin,
}

// String implements fmt.Stringer.
func (r StaffRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known StaffRole.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanManageDeals reports whether the role may create and mutate deals.
func (r StaffRole) CanManageDeals() bool {
	return r.IsValid()
}

// CanApproveDeals reports whether the role may complete or cancel deals.
func (r StaffRole) CanApproveDeals() bool {
	switch r {
	case StaffRoleFIManager, StaffRoleSalesManager, StaffRoleAdmin:
		return true
	default:
		return false
	}
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
