package admin

// Permission represents a back-office permission
type Permission string

const (
	// Catalog
	PermViewCatalog   Permission = "catalog.view"
	PermManageCatalog Permission = "catalog.manage"

	// Bookings
	PermViewBookings   Permission = "bookings.view"
	PermManageBookings Permission = "bookings.manage"

	// Newsletter
	PermViewNewsletter Permission = "newsletter.view"

	// System
	PermViewAnalytics Permission = "analytics.view"
	PermManageAdmins  Permission = "admins.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermViewCatalog, PermManageCatalog,
		PermViewBookings, PermManageBookings,
		PermViewNewsletter,
		PermViewAnalytics, PermManageAdmins,
	},
	RoleAdmin: {
		PermViewCatalog, PermManageCatalog,
		PermViewBookings, PermManageBookings,
		PermViewNewsletter,
		PermViewAnalytics,
	},
	RoleManager: {
		PermViewCatalog,
		PermViewBookings, PermManageBookings,
		PermViewAnalytics,
	},
}

// RoleHierarchy defines role levels (higher = more permissions)
var RoleHierarchy = map[Role]int{
	RoleSuperAdmin: 100,
	RoleAdmin:      80,
	RoleManager:    60,
}

// CanManage checks if role1 can manage role2
func CanManage(role1, role2 Role) bool {
	return RoleHierarchy[role1] > RoleHierarchy[role2]
}
