package auth

import "courselab_backend/internal/models"

// Permissions per role. Sensitive operations check one of these instead of
// comparing role strings inline.
const (
	PermCheckoutPackage   = "billing:checkout:package"
	PermCheckoutStaffSeat = "billing:checkout:staff_seat"
	PermManageStaff       = "staff:manage"
	PermAdminUsers        = "admin:users"
)

var rolePermissions = map[models.UserRole][]string{
	models.UserRoleUser: {
		PermCheckoutPackage,
	},
	models.UserRoleBusinessOwner: {
		PermCheckoutPackage,
		PermCheckoutStaffSeat,
		PermManageStaff,
	},
	models.UserRoleAdmin: {
		PermCheckoutPackage,
		PermCheckoutStaffSeat,
		PermManageStaff,
		PermAdminUsers,
	},
}

// HasPermission reports whether role grants permission.
func HasPermission(role models.UserRole, permission string) bool {
	permissions, exists := rolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func IsAdmin(role models.UserRole) bool {
	return role == models.UserRoleAdmin
}
