package models

// Permission is a named capability granted to an API key or session token.
type Permission string

const (
	PermissionSendAlerts     Permission = "send_alerts"
	PermissionManageContacts Permission = "manage_contacts"
	PermissionManageGroups   Permission = "manage_groups"
	PermissionViewGroups     Permission = "view_groups"
)

// AllPermissions is the full permission set granted to the primary key.
func AllPermissions() []Permission {
	return []Permission{
		PermissionSendAlerts,
		PermissionManageContacts,
		PermissionManageGroups,
		PermissionViewGroups,
	}
}

// IsValidPermission reports whether p is a known permission name.
func IsValidPermission(p Permission) bool {
	switch p {
	case PermissionSendAlerts, PermissionManageContacts, PermissionManageGroups, PermissionViewGroups:
		return true
	}
	return false
}

// HasPermission reports whether perm is present in the granted set.
func HasPermission(granted []Permission, perm Permission) bool {
	for _, p := range granted {
		if p == perm {
			return true
		}
	}
	return false
}
