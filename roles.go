package adminauth

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r AdminRole) bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// RoleIsAtLeast checks if the role meets the minimum required level
func RoleIsAtLeast(r, minRole AdminRole) bool {
	roleHierarchy := map[AdminRole]int{
		RoleAdmin:      0,
		RoleSuperAdmin: 1,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []AdminRole {
	return []AdminRole{
		RoleAdmin,
		RoleSuperAdmin,
	}
}

// ParseRole safely parses a string into an AdminRole
func ParseRole(roleStr string) (AdminRole, bool) {
	role := AdminRole(roleStr)
	return role, IsValidRole(role)
}
