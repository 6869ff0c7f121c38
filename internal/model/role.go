package model

// Role represents user roles in the system. The set is fixed and seeded at startup.
type Role struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // MANAGER, ADMIN, CASHIER
	Name        string `gorm:"type:varchar(100)" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Role codes as constants
const (
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
	RoleCashier = "CASHIER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleManager,
		Name:        "Manager",
		Description: "Full access including data cleanup, order cancellation and manager accounts",
	},
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Product, user and report management; cannot touch manager accounts",
	},
	{
		Code:        RoleCashier,
		Name:        "Cashier",
		Description: "Order entry and checkout",
	},
}

// ValidRoleCode reports whether code belongs to the fixed role set.
func ValidRoleCode(code string) bool {
	for _, r := range DefaultRoles {
		if r.Code == code {
			return true
		}
	}
	return false
}

// IsElevated reports whether a set of role codes grants Admin-capable privilege.
func IsElevated(codes []string) bool {
	for _, c := range codes {
		if c == RoleAdmin || c == RoleManager {
			return true
		}
	}
	return false
}
